package admin

import (
	handlershared "github.com/tadka-store/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, handlershared.ContextKeyAdminID, "invalid admin id", "invalid admin id type")
}

func parseIDParam(c *gin.Context, invalidMsg string) (uint, bool) {
	return handlershared.ParseUintParam(c, "id", invalidMsg)
}
