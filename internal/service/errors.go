package service

import (
	"errors"
	"fmt"
)

// 通用错误
var (
	ErrNotFound = errors.New("resource not found")
)

// 菜单与购物车错误
var (
	ErrMenuItemNotFound    = fmt.Errorf("menu item %w", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("category %w", ErrNotFound)
	ErrCartItemNotFound    = fmt.Errorf("cart item %w", ErrNotFound)
	ErrMenuItemUnavailable = errors.New("menu item is unavailable")
	ErrSlugExists          = errors.New("slug already exists")
)

// 结算与订单错误
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrOrderNotFound      = fmt.Errorf("order %w", ErrNotFound)
	ErrInvalidOrderStatus = errors.New("invalid order status transition")
	ErrInvoiceUnavailable = errors.New("invoice is unavailable")
)

// 认证错误
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user is disabled")
	ErrEmailExists        = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password does not meet policy")
)

// 验证码错误
var (
	ErrCaptchaRequired      = errors.New("captcha is required")
	ErrCaptchaInvalid       = errors.New("captcha is invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha is not configured")
)
