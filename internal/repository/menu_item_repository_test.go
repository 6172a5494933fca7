package repository

import (
	"testing"
)

func TestMenuItemListFiltersByCategorySlugAndActive(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewMenuItemRepository(db)
	starters := createTestCategory(t, db, "starters")
	desserts := createTestCategory(t, db, "desserts")
	createTestMenuItem(t, db, starters.ID, "Paneer Tikka", "220.00", true)
	createTestMenuItem(t, db, starters.ID, "Hara Bhara Kabab", "160.00", false)
	createTestMenuItem(t, db, desserts.ID, "Gulab Jamun", "90.00", true)

	items, total, err := repo.List(MenuItemListFilter{CategorySlug: "starters", OnlyActive: true, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Name != "Paneer Tikka" {
		t.Fatalf("unexpected result total=%d items=%+v", total, items)
	}

	all, total, err := repo.List(MenuItemListFilter{WithCategory: true})
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("expected 3 items, got total=%d len=%d", total, len(all))
	}
	if all[0].Category == nil || all[0].Category.Slug != "starters" {
		t.Fatalf("expected category preloaded")
	}
}

func TestMenuItemGetByIDRespectsActiveAndSoftDelete(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewMenuItemRepository(db)
	category := createTestCategory(t, db, "breads")
	inactive := createTestMenuItem(t, db, category.ID, "Kulcha", "50.00", false)
	active := createTestMenuItem(t, db, category.ID, "Roti", "20.00", true)

	got, err := repo.GetByID(inactive.ID, true)
	if err != nil || got != nil {
		t.Fatalf("inactive item should be hidden, got=%v err=%v", got, err)
	}
	got, err = repo.GetByID(inactive.ID, false)
	if err != nil || got == nil {
		t.Fatalf("inactive item should be visible to admin, got=%v err=%v", got, err)
	}

	if err := db.Delete(active).Error; err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	items, err := repo.ListByIDs([]uint{active.ID, inactive.ID})
	if err != nil {
		t.Fatalf("list by ids failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != inactive.ID {
		t.Fatalf("soft deleted item should be excluded, got=%+v", items)
	}
}
