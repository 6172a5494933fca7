package service

import (
	"context"
	"strings"
	"time"

	"github.com/tadka-store/internal/constants"
	"github.com/tadka-store/internal/logger"
	"github.com/tadka-store/internal/models"
	"github.com/tadka-store/internal/queue"
	"github.com/tadka-store/internal/repository"

	"gorm.io/gorm"
)

// CustomerDetails 下单联系人信息
type CustomerDetails struct {
	FullName string `json:"full_name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"required,phone"`
	Address  string `json:"address" validate:"required,max=1000"`
}

// CheckoutInput 结算输入
type CheckoutInput struct {
	Identity Identity
	Customer CustomerDetails
	Captcha  CaptchaVerifyPayload
}

// CheckoutService 结算服务
type CheckoutService struct {
	resolver       *CartResolver
	cartRepo       repository.CartRepository
	menuItemRepo   repository.MenuItemRepository
	orderRepo      repository.OrderRepository
	cartService    *CartService
	captchaService *CaptchaService
	queueClient    *queue.Client
	invoiceService *InvoiceService
}

// CheckoutDeps 结算服务依赖
type CheckoutDeps struct {
	Resolver       *CartResolver
	CartRepo       repository.CartRepository
	MenuItemRepo   repository.MenuItemRepository
	OrderRepo      repository.OrderRepository
	CartService    *CartService
	CaptchaService *CaptchaService
	QueueClient    *queue.Client
	InvoiceService *InvoiceService
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(deps CheckoutDeps) *CheckoutService {
	return &CheckoutService{
		resolver:       deps.Resolver,
		cartRepo:       deps.CartRepo,
		menuItemRepo:   deps.MenuItemRepo,
		orderRepo:      deps.OrderRepo,
		cartService:    deps.CartService,
		captchaService: deps.CaptchaService,
		queueClient:    deps.QueueClient,
		invoiceService: deps.InvoiceService,
	}
}

// Preview 结算预览，不写入任何数据
func (s *CheckoutService) Preview(ctx context.Context, identity Identity) (*CartView, error) {
	resolution, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	view, err := s.cartService.View(ctx, resolution.Cart)
	if err != nil {
		return nil, err
	}
	if len(view.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	return view, nil
}

// Checkout 将购物车转为订单：订单、订单项与删除已结算购物车行在同一事务内完成
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*models.Order, error) {
	resolution, err := s.resolver.Resolve(ctx, input.Identity)
	if err != nil {
		return nil, err
	}
	cart := resolution.Cart
	lines, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	customer := normalizeCustomer(input.Customer)
	if err := validateStruct(customer); err != nil {
		return nil, err
	}
	if input.Identity.IsGuest() {
		if err := s.captchaService.VerifyGuestCheckout(input.Captcha); err != nil {
			return nil, err
		}
	}

	menuItems, err := s.loadOrderableItems(lines)
	if err != nil {
		return nil, err
	}

	inputs := make([]PriceInput, 0, len(lines))
	orderItems := make([]models.OrderItem, 0, len(lines))
	lineIDs := make([]uint, 0, len(lines))
	for _, line := range lines {
		lineIDs = append(lineIDs, line.ID)
		item := menuItems[line.MenuItemID]
		inputs = append(inputs, PriceInput{Price: item.Price.Decimal, Quantity: line.Quantity, GSTRate: item.GSTRate.Decimal})
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   line.Quantity,
			Price:      item.Price,
			GSTRate:    item.GSTRate,
		})
	}
	totals := PriceLines(inputs)

	now := time.Now()
	order := &models.Order{
		OrderNo:       generateOrderNo(),
		FullName:      customer.FullName,
		Email:         customer.Email,
		Phone:         customer.Phone,
		Address:       customer.Address,
		Subtotal:      totals.Subtotal,
		GSTAmount:     totals.GSTAmount,
		TotalAmount:   totals.Total,
		Status:        constants.OrderStatusPending,
		PaymentStatus: constants.PaymentStatusPaid,
		PaidAt:        &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.Identity.IsGuest() {
		order.SessionKey = resolution.SessionKey
	} else {
		uid := input.Identity.UserID
		order.UserID = &uid
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(order, orderItems); err != nil {
			return err
		}
		// 只删除已下单的行，结算期间新加入的行保留在购物车中
		return s.cartRepo.WithTx(tx).DeleteItemsByIDs(cart.ID, lineIDs)
	})
	if err != nil {
		logger.Errorw("checkout_transaction_failed", "cart_id", cart.ID, "error", err)
		return nil, err
	}

	logger.Infow("checkout_order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"cart_id", cart.ID,
		"total", order.TotalAmount.String(),
	)
	s.dispatchInvoice(ctx, order)
	return order, nil
}

func (s *CheckoutService) loadOrderableItems(lines []models.CartItem) (map[uint]*models.MenuItem, error) {
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.MenuItemID)
	}
	items, err := s.menuItemRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.MenuItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	for _, line := range lines {
		item, ok := byID[line.MenuItemID]
		if !ok || !item.IsActive {
			logger.Warnw("checkout_item_unavailable", "cart_id", line.CartID, "menu_item_id", line.MenuItemID)
			return nil, ErrMenuItemUnavailable
		}
	}
	return byID, nil
}

// dispatchInvoice 投递发票任务，队列不可用时同步生成；失败不影响结算结果
func (s *CheckoutService) dispatchInvoice(ctx context.Context, order *models.Order) {
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueInvoiceGenerate(queue.InvoiceGeneratePayload{OrderID: order.ID})
		if err == nil {
			return
		}
		logger.Warnw("invoice_enqueue_failed", "order_id", order.ID, "error", err)
	}
	if s.invoiceService == nil {
		return
	}
	result, err := s.invoiceService.Generate(context.WithoutCancel(ctx), order.ID)
	if err != nil {
		logger.Warnw("invoice_inline_generate_failed", "order_id", order.ID, "error", err)
		return
	}
	if result.Generated {
		order.InvoiceGenerated = true
		order.InvoiceFile = result.Path
	}
}

func normalizeCustomer(input CustomerDetails) CustomerDetails {
	return CustomerDetails{
		FullName: strings.TrimSpace(input.FullName),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:    strings.TrimSpace(input.Phone),
		Address:  strings.TrimSpace(input.Address),
	}
}
