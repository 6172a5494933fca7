package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// 支付状态常量
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
	PaymentStatusFailed = "failed"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 购物车操作常量
const (
	CartActionIncrease = "increase"
	CartActionDecrease = "decrease"
	CartActionRemove   = "remove"
)

// CartMaxQuantity 单个购物车行的数量上限
const CartMaxQuantity = 99

// 访客会话常量
const (
	SessionCookieDefault = "tadka_session"
	SessionHeader        = "X-Session-Token"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 队列常量
const (
	QueueDefault            = "default"
	TaskInvoiceGenerate     = "invoice:generate"
	InvoiceTaskMaxRetry     = 3
	InvoiceTaskTimeoutSecs  = 60
	InvoiceDirDefault       = "./storage/invoices"
	InvoiceFilenameTemplate = "invoice_%s.pdf"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "tadka"
)

// 菜单浏览路径（空购物车结算时的跳转提示）
const (
	MenuBrowsePath = "/api/v1/public/menu-items"
)
