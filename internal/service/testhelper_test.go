package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/tadka-store/internal/config"
	"github.com/tadka-store/internal/invoice"
	"github.com/tadka-store/internal/models"
	"github.com/tadka-store/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type serviceFixture struct {
	db        *gorm.DB
	cartRepo  *repository.GormCartRepository
	menuRepo  *repository.GormMenuItemRepository
	orderRepo *repository.GormOrderRepository
	resolver  *CartResolver
	carts     *CartService
	invoices  *InvoiceService
	checkout  *CheckoutService
	orders    *OrderService
	storage   invoice.Storage
	category  *models.Category
}

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func newServiceFixture(t *testing.T, renderer invoice.Renderer) *serviceFixture {
	t.Helper()
	db := setupServiceTestDB(t)
	storage, err := invoice.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("init invoice storage failed: %v", err)
	}
	return newServiceFixtureWithStorage(t, db, renderer, storage)
}

func newServiceFixtureWithStorage(t *testing.T, db *gorm.DB, renderer invoice.Renderer, storage invoice.Storage) *serviceFixture {
	t.Helper()
	if renderer == nil {
		renderer = invoice.NewPDFRenderer()
	}
	cartRepo := repository.NewCartRepository(db)
	menuRepo := repository.NewMenuItemRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	resolver := NewCartResolver(cartRepo)
	carts := NewCartService(cartRepo, menuRepo)
	invoices := NewInvoiceService(orderRepo, renderer, storage, invoice.Seller{Name: "Tadka Kitchen", GSTIN: "29ABCDE1234F1Z5"})
	checkout := NewCheckoutService(CheckoutDeps{
		Resolver:       resolver,
		CartRepo:       cartRepo,
		MenuItemRepo:   menuRepo,
		OrderRepo:      orderRepo,
		CartService:    carts,
		CaptchaService: NewCaptchaService(config.CaptchaConfig{Provider: "none"}),
		InvoiceService: invoices,
	})

	category := &models.Category{Name: "Mains", Slug: "mains"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	return &serviceFixture{
		db:        db,
		cartRepo:  cartRepo,
		menuRepo:  menuRepo,
		orderRepo: orderRepo,
		resolver:  resolver,
		carts:     carts,
		invoices:  invoices,
		checkout:  checkout,
		orders:    NewOrderService(orderRepo),
		storage:   storage,
		category:  category,
	}
}

func (f *serviceFixture) createMenuItem(t *testing.T, name, price, gstRate string) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		CategoryID: f.category.ID,
		Name:       name,
		Price:      models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		GSTRate:    models.NewPercentFromDecimal(decimal.RequireFromString(gstRate)),
		IsActive:   true,
	}
	if err := f.db.Create(item).Error; err != nil {
		t.Fatalf("create menu item failed: %v", err)
	}
	return item
}

func (f *serviceFixture) deactivate(t *testing.T, item *models.MenuItem) {
	t.Helper()
	if err := f.db.Model(item).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate menu item failed: %v", err)
	}
}

func (f *serviceFixture) userCart(t *testing.T, userID uint) *models.Cart {
	t.Helper()
	resolution, err := f.resolver.Resolve(context.Background(), Identity{UserID: userID})
	if err != nil {
		t.Fatalf("resolve user cart failed: %v", err)
	}
	return resolution.Cart
}

func (f *serviceFixture) sessionCart(t *testing.T, sessionKey string) *models.Cart {
	t.Helper()
	resolution, err := f.resolver.Resolve(context.Background(), Identity{SessionKey: sessionKey})
	if err != nil {
		t.Fatalf("resolve session cart failed: %v", err)
	}
	return resolution.Cart
}

func (f *serviceFixture) addItem(t *testing.T, cart *models.Cart, menuItemID uint, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		if err := f.carts.AddItem(context.Background(), cart, menuItemID); err != nil {
			t.Fatalf("add item failed: %v", err)
		}
	}
}

func (f *serviceFixture) cartLines(t *testing.T, cart *models.Cart) []models.CartItem {
	t.Helper()
	lines, err := f.cartRepo.ListItems(cart.ID)
	if err != nil {
		t.Fatalf("list cart items failed: %v", err)
	}
	return lines
}

func (f *serviceFixture) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x", Status: "active"}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func (f *serviceFixture) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := f.db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count rows failed: %v", err)
	}
	return count
}

func validCustomer() CustomerDetails {
	return CustomerDetails{
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "+91 98765 43210",
		Address:  "12 MG Road, Bengaluru",
	}
}
