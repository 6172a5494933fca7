package public

import (
	handlershared "github.com/tadka-store/internal/http/handlers/shared"
	"github.com/tadka-store/internal/http/response"
	"github.com/tadka-store/internal/models"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
}

// SetCartQuantityRequest 设置数量请求
type SetCartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=99"`
}

// CartActionRequest 购物车动作请求
type CartActionRequest struct {
	Action string `json:"action" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	resolution, ok := h.resolveCart(c)
	if !ok {
		return
	}
	h.respondCartView(c, resolution.Cart)
}

// AddCartItem 加入购物车（已存在则数量加一）
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	h.mutateCart(c, func(cart *models.Cart) error {
		return h.CartService.AddItem(c.Request.Context(), cart, req.MenuItemID)
	})
}

// IncrementCartItem 数量加一
func (h *Handler) IncrementCartItem(c *gin.Context) {
	menuItemID, ok := parseMenuItemIDParam(c)
	if !ok {
		return
	}
	h.mutateCart(c, func(cart *models.Cart) error {
		return h.CartService.Increment(c.Request.Context(), cart, menuItemID)
	})
}

// DecrementCartItem 数量减一，减到 0 时删除
func (h *Handler) DecrementCartItem(c *gin.Context) {
	menuItemID, ok := parseMenuItemIDParam(c)
	if !ok {
		return
	}
	h.mutateCart(c, func(cart *models.Cart) error {
		return h.CartService.Decrement(c.Request.Context(), cart, menuItemID)
	})
}

// SetCartItemQuantity 设置绝对数量
func (h *Handler) SetCartItemQuantity(c *gin.Context) {
	menuItemID, ok := parseMenuItemIDParam(c)
	if !ok {
		return
	}
	var req SetCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	h.mutateCart(c, func(cart *models.Cart) error {
		return h.CartService.SetQuantity(c.Request.Context(), cart, menuItemID, *req.Quantity)
	})
}

// ApplyCartAction 执行 increase / decrease / remove 动作
func (h *Handler) ApplyCartAction(c *gin.Context) {
	menuItemID, ok := parseMenuItemIDParam(c)
	if !ok {
		return
	}
	var req CartActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	h.mutateCart(c, func(cart *models.Cart) error {
		return h.CartService.ApplyAction(c.Request.Context(), cart, menuItemID, req.Action)
	})
}

// RemoveCartItem 删除购物车行
func (h *Handler) RemoveCartItem(c *gin.Context) {
	menuItemID, ok := parseMenuItemIDParam(c)
	if !ok {
		return
	}
	h.mutateCart(c, func(cart *models.Cart) error {
		return h.CartService.Remove(c.Request.Context(), cart, menuItemID)
	})
}

func (h *Handler) mutateCart(c *gin.Context, mutate func(cart *models.Cart) error) {
	resolution, ok := h.resolveCart(c)
	if !ok {
		return
	}
	if err := mutate(resolution.Cart); err != nil {
		respondWithMappedError(c, err, cartErrorRules, "failed to update cart")
		return
	}
	h.respondCartView(c, resolution.Cart)
}

func (h *Handler) respondCartView(c *gin.Context, cart *models.Cart) {
	view, err := h.CartService.View(c.Request.Context(), cart)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load cart", err)
		return
	}
	response.Success(c, view)
}

func parseMenuItemIDParam(c *gin.Context) (uint, bool) {
	return handlershared.ParseUintParam(c, "menu_item_id", "invalid menu item id")
}
