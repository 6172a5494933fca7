package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/tadka-store/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func createTestCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Name: strings.ToUpper(slug), Slug: slug}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	return category
}

func createTestMenuItem(t *testing.T, db *gorm.DB, categoryID uint, name string, price string, active bool) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		CategoryID: categoryID,
		Name:       name,
		Price:      models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		GSTRate:    models.NewPercentFromDecimal(decimal.NewFromInt(5)),
		IsActive:   true,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create menu item failed: %v", err)
	}
	if !active {
		// is_active 带默认值，false 需要显式更新
		if err := db.Model(item).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate menu item failed: %v", err)
		}
		item.IsActive = false
	}
	return item
}
