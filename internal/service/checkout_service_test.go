package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tadka-store/internal/config"
	"github.com/tadka-store/internal/constants"
	"github.com/tadka-store/internal/models"
	"github.com/tadka-store/internal/repository"

	"gorm.io/gorm"
)

func TestCheckoutWorkedExample(t *testing.T) {
	f := newServiceFixture(t, nil)
	item := f.createMenuItem(t, "Butter Chicken", "100.00", "18")
	cart := f.sessionCart(t, "sess-worked")
	f.addItem(t, cart, item.ID, 2)

	order, err := f.checkout.Checkout(context.Background(), CheckoutInput{
		Identity: Identity{SessionKey: "sess-worked"},
		Customer: validCustomer(),
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.Subtotal.String() != "200.00" || order.GSTAmount.String() != "36.00" || order.TotalAmount.String() != "236.00" {
		t.Fatalf("unexpected totals: %s / %s / %s", order.Subtotal, order.GSTAmount, order.TotalAmount)
	}
	if order.Status != constants.OrderStatusPending || order.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("unexpected status: %s / %s", order.Status, order.PaymentStatus)
	}
	if order.PaidAt == nil {
		t.Fatalf("paid_at should be set")
	}
	if order.SessionKey != "sess-worked" || order.UserID != nil {
		t.Fatalf("guest order should carry the session key only: %+v", order)
	}
	if len(order.OrderNo) != 22 || order.OrderNo[:2] != "TK" {
		t.Fatalf("unexpected order no: %s", order.OrderNo)
	}
}

func TestCheckoutClearsCartAndKeepsQuantities(t *testing.T) {
	f := newServiceFixture(t, nil)
	user := f.createUser(t, "buyer@example.com")
	rice := f.createMenuItem(t, "Jeera Rice", "80.00", "5")
	naan := f.createMenuItem(t, "Garlic Naan", "50.00", "5")
	cart := f.userCart(t, user.ID)
	f.addItem(t, cart, rice.ID, 3)
	f.addItem(t, cart, naan.ID, 1)

	order, err := f.checkout.Checkout(context.Background(), CheckoutInput{
		Identity: Identity{UserID: user.ID},
		Customer: validCustomer(),
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if lines := f.cartLines(t, cart); len(lines) != 0 {
		t.Fatalf("cart should be cleared, got %+v", lines)
	}
	if f.countRows(t, &models.Cart{}) != 1 {
		t.Fatalf("cart row should persist")
	}

	stored, err := f.orderRepo.GetByID(order.ID)
	if err != nil || stored == nil {
		t.Fatalf("load order failed: %v", err)
	}
	if stored.UserID == nil || *stored.UserID != user.ID {
		t.Fatalf("order should belong to user %d", user.ID)
	}
	quantities := map[uint]int{}
	for _, item := range stored.Items {
		quantities[item.MenuItemID] = item.Quantity
	}
	if quantities[rice.ID] != 3 || quantities[naan.ID] != 1 {
		t.Fatalf("unexpected order item quantities: %+v", quantities)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newServiceFixture(t, nil)
	f.sessionCart(t, "sess-empty")

	_, err := f.checkout.Checkout(context.Background(), CheckoutInput{
		Identity: Identity{SessionKey: "sess-empty"},
		Customer: validCustomer(),
	})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected empty cart, got %v", err)
	}
	if f.countRows(t, &models.Order{}) != 0 {
		t.Fatalf("no order should be created")
	}
}

func TestCheckoutValidationLeavesStateUntouched(t *testing.T) {
	f := newServiceFixture(t, nil)
	item := f.createMenuItem(t, "Samosa", "30.00", "5")
	cart := f.sessionCart(t, "sess-invalid")
	f.addItem(t, cart, item.ID, 2)

	customer := validCustomer()
	customer.Email = "not-an-email"
	customer.Phone = "call me"
	customer.Address = "   "
	_, err := f.checkout.Checkout(context.Background(), CheckoutInput{
		Identity: Identity{SessionKey: "sess-invalid"},
		Customer: customer,
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"email", "phone", "address"} {
		if _, ok := validationErr.Fields[field]; !ok {
			t.Fatalf("expected %s field error, got %+v", field, validationErr.Fields)
		}
	}
	if f.countRows(t, &models.Order{}) != 0 {
		t.Fatalf("no order should be created")
	}
	if lines := f.cartLines(t, cart); len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("cart should be intact, got %+v", lines)
	}
}

func TestCheckoutRejectsInactiveItem(t *testing.T) {
	f := newServiceFixture(t, nil)
	item := f.createMenuItem(t, "Mango Kulfi", "80.00", "18")
	cart := f.sessionCart(t, "sess-inactive")
	f.addItem(t, cart, item.ID, 1)
	f.deactivate(t, item)

	_, err := f.checkout.Checkout(context.Background(), CheckoutInput{
		Identity: Identity{SessionKey: "sess-inactive"},
		Customer: validCustomer(),
	})
	if !errors.Is(err, ErrMenuItemUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestCheckoutIsAtomicOnOrderItemFailure(t *testing.T) {
	f := newServiceFixture(t, nil)
	cart := f.sessionCart(t, "sess-atomic")
	for _, name := range []string{"Idli", "Vada", "Pongal"} {
		item := f.createMenuItem(t, name, "40.00", "5")
		f.addItem(t, cart, item.ID, 1)
	}

	inserted := 0
	err := f.db.Callback().Create().Before("gorm:create").Register("test:fail_second_order_item", func(tx *gorm.DB) {
		if tx.Statement.Table != "order_items" {
			return
		}
		inserted++
		if inserted == 2 {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	if err != nil {
		t.Fatalf("register callback failed: %v", err)
	}

	_, err = f.checkout.Checkout(context.Background(), CheckoutInput{
		Identity: Identity{SessionKey: "sess-atomic"},
		Customer: validCustomer(),
	})
	if err == nil {
		t.Fatalf("expected checkout to fail")
	}
	if f.countRows(t, &models.Order{}) != 0 {
		t.Fatalf("order should be rolled back")
	}
	if f.countRows(t, &models.OrderItem{}) != 0 {
		t.Fatalf("order items should be rolled back")
	}
	if lines := f.cartLines(t, cart); len(lines) != 3 {
		t.Fatalf("cart should be intact, got %d lines", len(lines))
	}
}

func TestPriceChangeAfterCheckoutKeepsSnapshot(t *testing.T) {
	f := newServiceFixture(t, nil)
	item := f.createMenuItem(t, "Biryani", "100.00", "18")
	cart := f.sessionCart(t, "sess-snapshot")
	f.addItem(t, cart, item.ID, 2)

	order, err := f.checkout.Checkout(context.Background(), CheckoutInput{
		Identity: Identity{SessionKey: "sess-snapshot"},
		Customer: validCustomer(),
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if err := f.db.Model(item).Updates(map[string]interface{}{"price": "150.00", "name": "Biryani Deluxe"}).Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}

	stored, err := f.orderRepo.GetByID(order.ID)
	if err != nil || stored == nil {
		t.Fatalf("load order failed: %v", err)
	}
	if stored.Items[0].Price.String() != "100.00" || stored.Items[0].Name != "Biryani" {
		t.Fatalf("order item snapshot changed: %+v", stored.Items[0])
	}
	if stored.TotalAmount.String() != "236.00" {
		t.Fatalf("order total changed: %s", stored.TotalAmount)
	}
}

func TestCheckoutGeneratesInvoiceInline(t *testing.T) {
	f := newServiceFixture(t, nil)
	item := f.createMenuItem(t, "Rasam", "60.00", "5")
	cart := f.sessionCart(t, "sess-invoice")
	f.addItem(t, cart, item.ID, 1)

	order, err := f.checkout.Checkout(context.Background(), CheckoutInput{
		Identity: Identity{SessionKey: "sess-invoice"},
		Customer: validCustomer(),
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	stored, err := f.orderRepo.GetByID(order.ID)
	if err != nil || stored == nil {
		t.Fatalf("load order failed: %v", err)
	}
	if !stored.InvoiceGenerated || stored.InvoiceFile == "" {
		t.Fatalf("invoice should be generated inline: %+v", stored)
	}
	if !f.storage.Exists(stored.InvoiceFile) {
		t.Fatalf("invoice file should exist at %s", stored.InvoiceFile)
	}
}

func TestGuestCheckoutRequiresCaptchaWhenEnabled(t *testing.T) {
	f := newServiceFixture(t, nil)
	f.checkout.captchaService = NewCaptchaService(config.CaptchaConfig{Provider: "image", GuestCheckout: true})
	item := f.createMenuItem(t, "Pakora", "50.00", "5")
	cart := f.sessionCart(t, "sess-captcha")
	f.addItem(t, cart, item.ID, 1)

	_, err := f.checkout.Checkout(context.Background(), CheckoutInput{
		Identity: Identity{SessionKey: "sess-captcha"},
		Customer: validCustomer(),
	})
	if !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected captcha required, got %v", err)
	}

	user := f.createUser(t, "captcha@example.com")
	userCart := f.userCart(t, user.ID)
	f.addItem(t, userCart, item.ID, 1)
	if _, err := f.checkout.Checkout(context.Background(), CheckoutInput{
		Identity: Identity{UserID: user.ID},
		Customer: validCustomer(),
	}); err != nil {
		t.Fatalf("signed-in checkout should skip captcha, got %v", err)
	}
}

func TestPreviewMatchesCheckoutTotals(t *testing.T) {
	f := newServiceFixture(t, nil)
	item := f.createMenuItem(t, "Thali", "100.00", "18")
	cart := f.sessionCart(t, "sess-preview")
	f.addItem(t, cart, item.ID, 2)

	view, err := f.checkout.Preview(context.Background(), Identity{SessionKey: "sess-preview"})
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if view.Total.String() != "236.00" {
		t.Fatalf("unexpected preview total: %s", view.Total)
	}
	if f.countRows(t, &models.Order{}) != 0 {
		t.Fatalf("preview must not write orders")
	}
}

// lateAddCartRepository 在结算读取购物车行之后插入一行，模拟另一个标签页同时加购
type lateAddCartRepository struct {
	repository.CartRepository
	lateItem *models.CartItem
	added    bool
}

func (r *lateAddCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	items, err := r.CartRepository.ListItems(cartID)
	if err != nil || r.added {
		return items, err
	}
	r.added = true
	return items, r.CartRepository.CreateItem(r.lateItem)
}

func TestCheckoutKeepsLinesAddedDuringCheckout(t *testing.T) {
	f := newServiceFixture(t, nil)
	dosa := f.createMenuItem(t, "Masala Dosa", "90.00", "5")
	lassi := f.createMenuItem(t, "Mango Lassi", "70.00", "12")
	cart := f.sessionCart(t, "sess-late")
	f.addItem(t, cart, dosa.ID, 1)

	repo := &lateAddCartRepository{
		CartRepository: f.cartRepo,
		lateItem:       &models.CartItem{CartID: cart.ID, MenuItemID: lassi.ID, Quantity: 1},
	}
	checkout := NewCheckoutService(CheckoutDeps{
		Resolver:       f.resolver,
		CartRepo:       repo,
		MenuItemRepo:   f.menuRepo,
		OrderRepo:      f.orderRepo,
		CartService:    f.carts,
		CaptchaService: NewCaptchaService(config.CaptchaConfig{Provider: "none"}),
		InvoiceService: f.invoices,
	})

	order, err := checkout.Checkout(context.Background(), CheckoutInput{
		Identity: Identity{SessionKey: "sess-late"},
		Customer: validCustomer(),
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	stored, err := f.orderRepo.GetByID(order.ID)
	if err != nil || stored == nil {
		t.Fatalf("load order failed: %v", err)
	}
	if len(stored.Items) != 1 || stored.Items[0].MenuItemID != dosa.ID {
		t.Fatalf("order should hold only the listed line, got %+v", stored.Items)
	}
	lines := f.cartLines(t, cart)
	if len(lines) != 1 || lines[0].MenuItemID != lassi.ID {
		t.Fatalf("late line should stay in the cart, got %+v", lines)
	}
}
