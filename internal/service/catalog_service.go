package service

import (
	"context"
	"strings"

	"github.com/tadka-store/internal/cache"
	"github.com/tadka-store/internal/logger"
	"github.com/tadka-store/internal/models"
	"github.com/tadka-store/internal/repository"
)

// CategoryInput 分类写入参数
type CategoryInput struct {
	Name      string `json:"name" validate:"required,max=100"`
	Slug      string `json:"slug" validate:"required,max=120"`
	SortOrder int    `json:"sort_order"`
}

// MenuItemInput 菜品写入参数
type MenuItemInput struct {
	CategoryID  uint           `json:"category_id" validate:"required"`
	Name        string         `json:"name" validate:"required,max=100"`
	Description string         `json:"description"`
	Price       models.Money   `json:"price"`
	GSTRate     models.Percent `json:"gst_rate"`
	Image       string         `json:"image" validate:"max=500"`
	IsActive    *bool          `json:"is_active"`
}

// CatalogService 菜单目录服务
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	menuItemRepo repository.MenuItemRepository
}

// NewCatalogService 创建菜单目录服务
func NewCatalogService(categoryRepo repository.CategoryRepository, menuItemRepo repository.MenuItemRepository) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		menuItemRepo: menuItemRepo,
	}
}

// ListCategories 分类列表（优先读缓存）
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cached []models.Category
	hit, err := cache.GetJSON(ctx, cache.CategoryListKey(), &cached)
	if err != nil {
		logger.Warnw("catalog_category_cache_read_failed", "error", err)
	}
	if hit {
		return cached, nil
	}
	categories, err := s.categoryRepo.List()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, cache.CategoryListKey(), categories, cache.CatalogTTL()); err != nil {
		logger.Warnw("catalog_category_cache_write_failed", "error", err)
	}
	return categories, nil
}

// ListMenuItems 菜品列表，公开接口只返回上架菜品
func (s *CatalogService) ListMenuItems(_ context.Context, filter repository.MenuItemListFilter) ([]models.MenuItem, int64, error) {
	return s.menuItemRepo.List(filter)
}

// GetActiveMenuItem 获取上架菜品（优先读缓存）
func (s *CatalogService) GetActiveMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	if id == 0 {
		return nil, ErrMenuItemNotFound
	}
	var cached models.MenuItem
	hit, err := cache.GetJSON(ctx, cache.MenuItemKey(id), &cached)
	if err != nil {
		logger.Warnw("catalog_menu_item_cache_read_failed", "menu_item_id", id, "error", err)
	}
	if hit && cached.IsActive {
		return &cached, nil
	}
	item, err := s.menuItemRepo.GetByID(id, true)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	if err := cache.SetJSON(ctx, cache.MenuItemKey(id), item, cache.CatalogTTL()); err != nil {
		logger.Warnw("catalog_menu_item_cache_write_failed", "menu_item_id", id, "error", err)
	}
	return item, nil
}

// GetMenuItem 管理端获取菜品（含下架）
func (s *CatalogService) GetMenuItem(_ context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.menuItemRepo.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	return item, nil
}

// CreateCategory 创建分类
func (s *CatalogService) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	input = normalizeCategoryInput(input)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	if err := s.ensureSlugAvailable(input.Slug, 0); err != nil {
		return nil, err
	}
	category := &models.Category{Name: input.Name, Slug: input.Slug, SortOrder: input.SortOrder}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	s.invalidateCategories(ctx)
	return category, nil
}

// UpdateCategory 更新分类
func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, input CategoryInput) (*models.Category, error) {
	input = normalizeCategoryInput(input)
	if err := validateStruct(input); err != nil {
		return nil, err
	}
	category, err := s.categoryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	if err := s.ensureSlugAvailable(input.Slug, id); err != nil {
		return nil, err
	}
	category.Name = input.Name
	category.Slug = input.Slug
	category.SortOrder = input.SortOrder
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	s.invalidateCategories(ctx)
	return category, nil
}

// CreateMenuItem 创建菜品
func (s *CatalogService) CreateMenuItem(_ context.Context, input MenuItemInput) (*models.MenuItem, error) {
	if err := s.validateMenuItemInput(&input); err != nil {
		return nil, err
	}
	item := &models.MenuItem{IsActive: true}
	applyMenuItemInput(item, input)
	active := item.IsActive
	if err := s.menuItemRepo.Create(item); err != nil {
		return nil, err
	}
	if !active {
		// is_active 列有默认值，创建时零值会被回填为 true
		item.IsActive = false
		if err := s.menuItemRepo.Update(item); err != nil {
			return nil, err
		}
	}
	return item, nil
}

// UpdateMenuItem 更新菜品（价格、税率、上下架等），并清理缓存
func (s *CatalogService) UpdateMenuItem(ctx context.Context, id uint, input MenuItemInput) (*models.MenuItem, error) {
	if err := s.validateMenuItemInput(&input); err != nil {
		return nil, err
	}
	item, err := s.menuItemRepo.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	applyMenuItemInput(item, input)
	item.Category = nil
	if err := s.menuItemRepo.Update(item); err != nil {
		return nil, err
	}
	if err := cache.InvalidateMenuItem(ctx, id); err != nil {
		logger.Warnw("catalog_menu_item_cache_invalidate_failed", "menu_item_id", id, "error", err)
	}
	return item, nil
}

func (s *CatalogService) validateMenuItemInput(input *MenuItemInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Image = strings.TrimSpace(input.Image)
	if err := validateStruct(*input); err != nil {
		return err
	}
	if input.Price.IsNegative() {
		return newFieldError("price", "must not be negative")
	}
	if input.GSTRate.IsNegative() {
		return newFieldError("gst_rate", "must not be negative")
	}
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return newFieldError("category_id", "does not exist")
	}
	return nil
}

func (s *CatalogService) ensureSlugAvailable(slug string, excludeID uint) error {
	count, err := s.categoryRepo.CountBySlug(slug, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugExists
	}
	return nil
}

func (s *CatalogService) invalidateCategories(ctx context.Context) {
	if err := cache.InvalidateCategories(ctx); err != nil {
		logger.Warnw("catalog_category_cache_invalidate_failed", "error", err)
	}
}

func normalizeCategoryInput(input CategoryInput) CategoryInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
	return input
}

func applyMenuItemInput(item *models.MenuItem, input MenuItemInput) {
	item.CategoryID = input.CategoryID
	item.Name = input.Name
	item.Description = input.Description
	item.Price = models.NewMoneyFromDecimal(input.Price.Decimal)
	item.GSTRate = models.NewPercentFromDecimal(input.GSTRate.Decimal)
	item.Image = input.Image
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
}
