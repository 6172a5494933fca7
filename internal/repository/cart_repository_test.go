package repository

import (
	"testing"

	"github.com/tadka-store/internal/models"
)

func TestCartCreateIfAbsentConvergesOnOneRow(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCartRepository(db)
	key := "session-token-1"

	first := &models.Cart{SessionKey: &key}
	if err := repo.CreateIfAbsent(first); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	second := &models.Cart{SessionKey: &key}
	if err := repo.CreateIfAbsent(second); err != nil {
		t.Fatalf("conflicting create should be ignored: %v", err)
	}

	var count int64
	if err := db.Model(&models.Cart{}).Where("session_key = ?", key).Count(&count).Error; err != nil {
		t.Fatalf("count carts failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one cart, got %d", count)
	}
	got, err := repo.GetBySessionKey(key)
	if err != nil || got == nil {
		t.Fatalf("get by session failed: cart=%v err=%v", got, err)
	}
	if got.ID != first.ID {
		t.Fatalf("expected cart %d, got %d", first.ID, got.ID)
	}
}

func TestCartItemsKeepInsertionOrderAndIncrement(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCartRepository(db)
	category := createTestCategory(t, db, "mains")
	dal := createTestMenuItem(t, db, category.ID, "Dal Makhani", "180.00", true)
	naan := createTestMenuItem(t, db, category.ID, "Butter Naan", "40.00", true)

	userID := uint(9)
	cart := &models.Cart{UserID: &userID}
	if err := repo.CreateIfAbsent(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	for _, menuItemID := range []uint{naan.ID, dal.ID} {
		if err := repo.CreateItem(&models.CartItem{CartID: cart.ID, MenuItemID: menuItemID, Quantity: 1}); err != nil {
			t.Fatalf("create item failed: %v", err)
		}
	}
	line, err := repo.GetItem(cart.ID, naan.ID)
	if err != nil || line == nil {
		t.Fatalf("get item failed: line=%v err=%v", line, err)
	}
	if affected, err := repo.IncrementItem(line.ID, 2, 99); err != nil || affected != 1 {
		t.Fatalf("increment failed: affected=%d err=%v", affected, err)
	}
	if affected, err := repo.IncrementItem(line.ID, 1, 3); err != nil || affected != 0 {
		t.Fatalf("increment past limit should affect 0 rows, affected=%d err=%v", affected, err)
	}

	items, err := repo.ListItems(cart.ID)
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].MenuItemID != naan.ID || items[0].Quantity != 3 {
		t.Fatalf("unexpected first line: %+v", items[0])
	}
	if items[1].MenuItem == nil || items[1].MenuItem.Name != "Dal Makhani" {
		t.Fatalf("expected menu item preloaded on second line")
	}
}

func TestCartDeleteItemReportsRowsAndClearKeepsCart(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCartRepository(db)
	category := createTestCategory(t, db, "starters")
	samosa := createTestMenuItem(t, db, category.ID, "Samosa", "30.00", true)

	key := "session-token-2"
	cart := &models.Cart{SessionKey: &key}
	if err := repo.CreateIfAbsent(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	if err := repo.CreateItem(&models.CartItem{CartID: cart.ID, MenuItemID: samosa.ID, Quantity: 2}); err != nil {
		t.Fatalf("create item failed: %v", err)
	}

	affected, err := repo.DeleteItem(cart.ID, samosa.ID+100)
	if err != nil || affected != 0 {
		t.Fatalf("deleting absent line should affect 0 rows, affected=%d err=%v", affected, err)
	}
	line, err := repo.GetItem(cart.ID, samosa.ID)
	if err != nil || line == nil {
		t.Fatalf("get item failed: line=%v err=%v", line, err)
	}
	if err := repo.DeleteItemsByIDs(cart.ID, []uint{line.ID}); err != nil {
		t.Fatalf("delete items failed: %v", err)
	}
	items, err := repo.ListItems(cart.ID)
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty cart, items=%d err=%v", len(items), err)
	}
	if got, err := repo.GetBySessionKey(key); err != nil || got == nil {
		t.Fatalf("cart row should persist after clear, cart=%v err=%v", got, err)
	}
}

func TestCartDecrementItemDeletesAtOne(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewCartRepository(db)
	category := createTestCategory(t, db, "breads")
	roti := createTestMenuItem(t, db, category.ID, "Tandoori Roti", "25.00", true)

	userID := uint(11)
	cart := &models.Cart{UserID: &userID}
	if err := repo.CreateIfAbsent(cart); err != nil {
		t.Fatalf("create cart failed: %v", err)
	}
	item := &models.CartItem{CartID: cart.ID, MenuItemID: roti.ID, Quantity: 2}
	if err := repo.CreateItem(item); err != nil {
		t.Fatalf("create item failed: %v", err)
	}

	deleted, err := repo.DecrementItem(item.ID)
	if err != nil || deleted {
		t.Fatalf("first decrement should keep the row, deleted=%v err=%v", deleted, err)
	}
	line, err := repo.GetItem(cart.ID, roti.ID)
	if err != nil || line == nil || line.Quantity != 1 {
		t.Fatalf("expected quantity 1, line=%+v err=%v", line, err)
	}
	deleted, err = repo.DecrementItem(item.ID)
	if err != nil || !deleted {
		t.Fatalf("second decrement should delete the row, deleted=%v err=%v", deleted, err)
	}
	if line, err := repo.GetItem(cart.ID, roti.ID); err != nil || line != nil {
		t.Fatalf("expected row removed, line=%+v err=%v", line, err)
	}
}
