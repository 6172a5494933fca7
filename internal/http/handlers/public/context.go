package public

import (
	"net/http"

	"github.com/tadka-store/internal/constants"
	handlershared "github.com/tadka-store/internal/http/handlers/shared"
	"github.com/tadka-store/internal/http/response"
	"github.com/tadka-store/internal/service"

	"github.com/gin-gonic/gin"
)

func getContextUintWithKeys(c *gin.Context, key, invalidMsg, typeInvalidMsg string) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, key, invalidMsg, typeInvalidMsg)
}

func getUserID(c *gin.Context) (uint, bool) {
	return getContextUintWithKeys(c, handlershared.ContextKeyUserID, "invalid user id", "invalid user id type")
}

// identityFromContext 由可选登录态与访客会话标识组成购物车身份
func identityFromContext(c *gin.Context) service.Identity {
	return service.Identity{
		UserID:     handlershared.OptionalContextUint(c, handlershared.ContextKeyUserID),
		SessionKey: handlershared.ContextString(c, handlershared.ContextKeySessionKey),
	}
}

// resolveCart 解析当前购物车，新签发的访客标识写回 Cookie 与响应头
func (h *Handler) resolveCart(c *gin.Context) (*service.Resolution, bool) {
	resolution, err := h.CartResolver.Resolve(c.Request.Context(), identityFromContext(c))
	if err != nil {
		respondError(c, response.CodeInternal, "failed to resolve cart", err)
		return nil, false
	}
	h.persistSession(c, resolution)
	return resolution, true
}

func (h *Handler) persistSession(c *gin.Context, resolution *service.Resolution) {
	if resolution == nil || resolution.SessionKey == "" {
		return
	}
	c.Set(handlershared.ContextKeySessionKey, resolution.SessionKey)
	c.Header(constants.SessionHeader, resolution.SessionKey)
	if !resolution.Minted {
		return
	}
	name := constants.SessionCookieDefault
	maxAge := 0
	secure := false
	if h.Config != nil {
		if h.Config.Session.CookieName != "" {
			name = h.Config.Session.CookieName
		}
		maxAge = h.Config.Session.MaxAgeSeconds
		secure = h.Config.Session.Secure
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, resolution.SessionKey, maxAge, "/", "", secure, true)
}
