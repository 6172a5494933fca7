package service

import (
	"context"
	"errors"
	"testing"

	"github.com/tadka-store/internal/models"
	"github.com/tadka-store/internal/repository"

	"github.com/shopspring/decimal"
)

func newTestCatalogService(t *testing.T) (*CatalogService, *serviceFixture) {
	t.Helper()
	f := newServiceFixture(t, &stubRenderer{})
	return NewCatalogService(repository.NewCategoryRepository(f.db), f.menuRepo), f
}

func TestCreateCategoryRejectsDuplicateSlug(t *testing.T) {
	catalog, _ := newTestCatalogService(t)
	ctx := context.Background()

	if _, err := catalog.CreateCategory(ctx, CategoryInput{Name: "Starters", Slug: " Starters "}); err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	if _, err := catalog.CreateCategory(ctx, CategoryInput{Name: "Starters 2", Slug: "starters"}); !errors.Is(err, ErrSlugExists) {
		t.Fatalf("expected slug exists, got %v", err)
	}
}

func TestMenuItemInputValidation(t *testing.T) {
	catalog, f := newTestCatalogService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input MenuItemInput
		field string
	}{
		{
			name:  "missing name",
			input: MenuItemInput{CategoryID: f.category.ID, Price: money("10.00")},
			field: "name",
		},
		{
			name:  "negative price",
			input: MenuItemInput{CategoryID: f.category.ID, Name: "Tea", Price: money("-1.00")},
			field: "price",
		},
		{
			name:  "negative gst",
			input: MenuItemInput{CategoryID: f.category.ID, Name: "Tea", Price: money("10.00"), GSTRate: models.NewPercentFromDecimal(decimal.NewFromInt(-5))},
			field: "gst_rate",
		},
		{
			name:  "unknown category",
			input: MenuItemInput{CategoryID: 9999, Name: "Tea", Price: money("10.00")},
			field: "category_id",
		},
	}
	for _, tc := range cases {
		_, err := catalog.CreateMenuItem(ctx, tc.input)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
		if _, ok := validationErr.Fields[tc.field]; !ok {
			t.Fatalf("%s: expected %s field error, got %+v", tc.name, tc.field, validationErr.Fields)
		}
	}
}

func TestUpdateMenuItemTogglesAvailability(t *testing.T) {
	catalog, f := newTestCatalogService(t)
	ctx := context.Background()
	inactive := false

	item, err := catalog.CreateMenuItem(ctx, MenuItemInput{
		CategoryID: f.category.ID,
		Name:       "Filter Coffee",
		Price:      money("35.00"),
		GSTRate:    models.NewPercentFromDecimal(decimal.NewFromInt(5)),
		IsActive:   &inactive,
	})
	if err != nil {
		t.Fatalf("create menu item failed: %v", err)
	}
	if _, err := catalog.GetActiveMenuItem(ctx, item.ID); !errors.Is(err, ErrMenuItemNotFound) {
		t.Fatalf("inactive item should be hidden, got %v", err)
	}

	active := true
	updated, err := catalog.UpdateMenuItem(ctx, item.ID, MenuItemInput{
		CategoryID: f.category.ID,
		Name:       "Filter Coffee",
		Price:      money("40.00"),
		GSTRate:    models.NewPercentFromDecimal(decimal.NewFromInt(5)),
		IsActive:   &active,
	})
	if err != nil {
		t.Fatalf("update menu item failed: %v", err)
	}
	if !updated.IsActive || updated.Price.String() != "40.00" {
		t.Fatalf("unexpected updated item: %+v", updated)
	}
	visible, err := catalog.GetActiveMenuItem(ctx, item.ID)
	if err != nil {
		t.Fatalf("active item should be visible: %v", err)
	}
	if visible.Price.String() != "40.00" {
		t.Fatalf("expected new price, got %s", visible.Price)
	}
}

func money(value string) models.Money {
	return models.NewMoneyFromDecimal(decimal.RequireFromString(value))
}
