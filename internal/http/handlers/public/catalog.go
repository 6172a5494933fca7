package public

import (
	"strings"

	handlershared "github.com/tadka-store/internal/http/handlers/shared"
	"github.com/tadka-store/internal/http/response"
	"github.com/tadka-store/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListCategories 获取分类列表
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CatalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load categories", err)
		return
	}
	response.Success(c, categories)
}

// ListMenuItems 获取上架菜品列表（菜单首页）
func (h *Handler) ListMenuItems(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	items, total, err := h.CatalogService.ListMenuItems(c.Request.Context(), repository.MenuItemListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategorySlug: strings.TrimSpace(c.Query("category")),
		Search:       strings.TrimSpace(c.Query("search")),
		OnlyActive:   true,
		WithCategory: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load menu items", err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// GetMenuItem 获取单个上架菜品
func (h *Handler) GetMenuItem(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id", "invalid menu item id")
	if !ok {
		return
	}
	item, err := h.CatalogService.GetActiveMenuItem(c.Request.Context(), id)
	if err != nil {
		respondWithMappedError(c, err, notFoundErrorRules, "failed to load menu item")
		return
	}
	response.Success(c, item)
}
