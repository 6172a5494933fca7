package repository

import (
	"errors"
	"testing"

	"github.com/tadka-store/internal/constants"
	"github.com/tadka-store/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newTestOrder(orderNo string, userID *uint) *models.Order {
	return &models.Order{
		OrderNo:       orderNo,
		UserID:        userID,
		FullName:      "Asha Rao",
		Email:         "asha@example.com",
		Phone:         "+91 98450 00000",
		Address:       "12 MG Road, Bengaluru",
		Subtotal:      models.NewMoneyFromDecimal(decimal.RequireFromString("200.00")),
		GSTAmount:     models.NewMoneyFromDecimal(decimal.RequireFromString("36.00")),
		TotalAmount:   models.NewMoneyFromDecimal(decimal.RequireFromString("236.00")),
		Status:        constants.OrderStatusPending,
		PaymentStatus: constants.PaymentStatusPaid,
	}
}

func TestOrderCreateAndGetByOrderNo(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	order := newTestOrder("TK1001", nil)
	items := []models.OrderItem{
		{MenuItemID: 1, Name: "Thali", Quantity: 2, Price: models.NewMoneyFromDecimal(decimal.NewFromInt(100)), GSTRate: models.NewPercentFromDecimal(decimal.NewFromInt(18))},
		{MenuItemID: 2, Name: "Lassi", Quantity: 1, Price: models.NewMoneyFromDecimal(decimal.Zero), GSTRate: models.NewPercentFromDecimal(decimal.Zero)},
	}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	got, err := repo.GetByOrderNo("TK1001")
	if err != nil || got == nil {
		t.Fatalf("get order failed: order=%v err=%v", got, err)
	}
	if len(got.Items) != 2 || got.Items[0].Name != "Thali" {
		t.Fatalf("unexpected items: %+v", got.Items)
	}
	if !got.TotalAmount.Equal(decimal.RequireFromString("236")) {
		t.Fatalf("unexpected total: %s", got.TotalAmount)
	}
}

func TestOrderTransactionRollsBackOnError(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	boom := errors.New("boom")
	err := repo.Transaction(func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Create(newTestOrder("TK2001", nil), nil); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, err := repo.GetByOrderNo("TK2001")
	if err != nil || got != nil {
		t.Fatalf("order should be rolled back, got=%v err=%v", got, err)
	}
}

func TestOrderListByUserAndUpdateFields(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	userID := uint(5)
	otherID := uint(6)
	for _, no := range []string{"TK3001", "TK3002"} {
		if err := repo.Create(newTestOrder(no, &userID), nil); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}
	if err := repo.Create(newTestOrder("TK3003", &otherID), nil); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	orders, total, err := repo.ListByUser(OrderListFilter{UserID: userID, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if total != 2 || orders[0].OrderNo != "TK3002" {
		t.Fatalf("expected newest first for user, total=%d first=%s", total, orders[0].OrderNo)
	}

	if err := repo.UpdateFields(orders[0].ID, map[string]interface{}{"status": constants.OrderStatusConfirmed}); err != nil {
		t.Fatalf("update fields failed: %v", err)
	}
	if err := repo.UpdateFields(99999, map[string]interface{}{"status": constants.OrderStatusConfirmed}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found for missing order, got %v", err)
	}
	confirmed, total, err := repo.ListAdmin(OrderListFilter{Status: constants.OrderStatusConfirmed})
	if err != nil || total != 1 || confirmed[0].OrderNo != "TK3002" {
		t.Fatalf("unexpected admin filter result total=%d err=%v", total, err)
	}
}
