package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/tadka-store/internal/http/handlers/shared"
	"github.com/tadka-store/internal/http/response"
	"github.com/tadka-store/internal/repository"
	"github.com/tadka-store/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminCategories 获取分类列表 (Admin)
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.CatalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load categories", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategory 创建分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	category, err := h.CatalogService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, "failed to create category")
		return
	}
	requestLog(c).Infow("admin_category_created", "category_id", category.ID, "slug", category.Slug)
	response.Success(c, category)
}

// UpdateCategory 更新分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid category id")
	if !ok {
		return
	}
	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	category, err := h.CatalogService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, "failed to update category")
		return
	}
	response.Success(c, category)
}

// GetAdminMenuItems 获取菜品列表（含下架）
func (h *Handler) GetAdminMenuItems(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	categoryID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("category_id")), 10, 64)
	items, total, err := h.CatalogService.ListMenuItems(c.Request.Context(), repository.MenuItemListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   uint(categoryID),
		Search:       strings.TrimSpace(c.Query("search")),
		WithCategory: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load menu items", err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// GetAdminMenuItem 获取菜品详情
func (h *Handler) GetAdminMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid menu item id")
	if !ok {
		return
	}
	item, err := h.CatalogService.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, "failed to load menu item")
		return
	}
	response.Success(c, item)
}

// CreateMenuItem 创建菜品
func (h *Handler) CreateMenuItem(c *gin.Context) {
	var req service.MenuItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	item, err := h.CatalogService.CreateMenuItem(c.Request.Context(), req)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, "failed to create menu item")
		return
	}
	requestLog(c).Infow("admin_menu_item_created", "menu_item_id", item.ID)
	response.Success(c, item)
}

// UpdateMenuItem 更新菜品（价格、税率、上下架等）
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid menu item id")
	if !ok {
		return
	}
	var req service.MenuItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	item, err := h.CatalogService.UpdateMenuItem(c.Request.Context(), id, req)
	if err != nil {
		respondWithMappedError(c, err, catalogErrorRules, "failed to update menu item")
		return
	}
	requestLog(c).Infow("admin_menu_item_updated",
		"menu_item_id", item.ID,
		"price", item.Price.String(),
		"is_active", item.IsActive,
	)
	response.Success(c, item)
}
