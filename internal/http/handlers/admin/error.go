package admin

import (
	handlershared "github.com/tadka-store/internal/http/handlers/shared"
	"github.com/tadka-store/internal/http/response"
	"github.com/tadka-store/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []handlershared.ErrorRule, fallbackMsg string) {
	handlershared.RespondWithRules(c, err, rules, fallbackMsg)
}

var catalogErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrSlugExists, Code: response.CodeBadRequest, Msg: "slug already exists"},
	{Target: service.ErrCategoryNotFound, Code: response.CodeNotFound, Msg: "category not found"},
	{Target: service.ErrMenuItemNotFound, Code: response.CodeNotFound, Msg: "menu item not found"},
}

var orderErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Msg: "order not found"},
	{Target: service.ErrInvalidOrderStatus, Code: response.CodeBadRequest, Msg: "invalid order status transition"},
}
