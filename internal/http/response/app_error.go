package response

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// AppError 携带业务状态码的错误
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 包装错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// AbortWithAppError 中间件中终止请求并输出 AppError；非 AppError 按内部错误处理
func AbortWithAppError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		Error(c, appErr.Code, appErr.Message)
	} else {
		Error(c, CodeInternal, "internal error")
	}
	c.Abort()
}
