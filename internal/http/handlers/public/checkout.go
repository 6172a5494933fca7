package public

import (
	handlershared "github.com/tadka-store/internal/http/handlers/shared"
	"github.com/tadka-store/internal/http/response"
	"github.com/tadka-store/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	handlershared.CaptchaPayloadRequest
}

// PreviewCheckout 结算预览，不落库
func (h *Handler) PreviewCheckout(c *gin.Context) {
	resolution, ok := h.resolveCart(c)
	if !ok {
		return
	}
	view, err := h.CheckoutService.Preview(c.Request.Context(), identityFor(c, resolution))
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, "failed to preview checkout")
		return
	}
	response.Success(c, view)
}

// Checkout 提交订单
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	resolution, ok := h.resolveCart(c)
	if !ok {
		return
	}

	order, err := h.CheckoutService.Checkout(c.Request.Context(), service.CheckoutInput{
		Identity: identityFor(c, resolution),
		Customer: service.CustomerDetails{
			FullName: req.FullName,
			Email:    req.Email,
			Phone:    req.Phone,
			Address:  req.Address,
		},
		Captcha: req.ToServicePayload(),
	})
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, "failed to place order")
		return
	}
	handlershared.RequestLog(c).Infow("checkout_succeeded",
		"order_no", order.OrderNo,
		"invoice_generated", order.InvoiceGenerated,
	)
	response.SuccessWithMsg(c, "order placed", order)
}

// identityFor 访客身份使用解析后的会话标识，保证与刚签发的 Cookie 一致
func identityFor(c *gin.Context, resolution *service.Resolution) service.Identity {
	identity := identityFromContext(c)
	if identity.IsGuest() && resolution != nil && resolution.SessionKey != "" {
		identity.SessionKey = resolution.SessionKey
	}
	return identity
}
