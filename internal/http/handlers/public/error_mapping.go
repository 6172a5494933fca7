package public

import (
	"github.com/tadka-store/internal/constants"
	handlershared "github.com/tadka-store/internal/http/handlers/shared"
	"github.com/tadka-store/internal/http/response"
	"github.com/tadka-store/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []handlershared.ErrorRule, fallbackMsg string) {
	handlershared.RespondWithRules(c, err, rules, fallbackMsg)
}

func concatErrorRules(groups ...[]handlershared.ErrorRule) []handlershared.ErrorRule {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]handlershared.ErrorRule, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

func emptyCartData() interface{} {
	return gin.H{"redirect": constants.MenuBrowsePath}
}

var notFoundErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrMenuItemNotFound, Code: response.CodeNotFound, Msg: "menu item not found"},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Msg: "cart item not found"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Msg: "order not found"},
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Msg: "not found"},
}

var cartErrorRules = concatErrorRules(notFoundErrorRules, []handlershared.ErrorRule{
	{Target: service.ErrMenuItemUnavailable, Code: response.CodeBadRequest, Msg: "menu item is unavailable"},
})

var checkoutErrorRules = concatErrorRules(cartErrorRules, []handlershared.ErrorRule{
	{Target: service.ErrEmptyCart, Code: response.CodeBadRequest, Msg: "your cart is empty", Data: emptyCartData},
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Msg: "captcha is required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Msg: "captcha is invalid"},
	{Target: service.ErrCaptchaConfigInvalid, Code: response.CodeInternal, Msg: "captcha is not configured"},
})

var invoiceErrorRules = concatErrorRules(notFoundErrorRules, []handlershared.ErrorRule{
	{Target: service.ErrInvoiceUnavailable, Code: response.CodeInternal, Msg: "invoice is unavailable"},
})

var userAuthErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Msg: "invalid email or password"},
	{Target: service.ErrUserDisabled, Code: response.CodeUnauthorized, Msg: "account is disabled"},
	{Target: service.ErrEmailExists, Code: response.CodeBadRequest, Msg: "email already registered"},
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest, Msg: "password is too weak"},
}
