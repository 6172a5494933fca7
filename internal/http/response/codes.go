package response

// 业务状态码，HTTP 状态码统一为 200
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeValidation      = 422
	CodeTooManyRequests = 429
	CodeInternal        = 500
)
