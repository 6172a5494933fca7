package shared

import (
	"errors"

	"github.com/tadka-store/internal/http/response"
	"github.com/tadka-store/internal/logger"
	"github.com/tadka-store/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorRule 错误到响应码的映射规则。
type ErrorRule struct {
	Target error
	Code   int
	Msg    string
	Data   func() interface{}
}

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get(ContextKeyRequestID); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondBindError 请求体解析失败。
func RespondBindError(c *gin.Context, err error) {
	RequestLog(c).Debugw("handler_bind_failed", "error", err)
	response.Error(c, response.CodeBadRequest, "invalid request body")
}

// RespondWithRules 依次匹配规则，ValidationError 优先映射为 422，未命中按内部错误处理。
func RespondWithRules(c *gin.Context, err error, rules []ErrorRule, fallbackMsg string) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		response.Validation(c, "validation failed", validationErr.Fields)
		return
	}
	for _, rule := range rules {
		if rule.Target == nil || !errors.Is(err, rule.Target) {
			continue
		}
		if rule.Code >= response.CodeInternal {
			RespondError(c, rule.Code, rule.Msg, err)
			return
		}
		if rule.Data != nil {
			response.ErrorWithData(c, rule.Code, rule.Msg, rule.Data())
			return
		}
		response.Error(c, rule.Code, rule.Msg)
		return
	}
	RespondError(c, response.CodeInternal, fallbackMsg, err)
}
