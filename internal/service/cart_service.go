package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tadka-store/internal/constants"
	"github.com/tadka-store/internal/models"
	"github.com/tadka-store/internal/repository"
)

// CartLine 购物车行视图（使用当前菜品价格）
type CartLine struct {
	ItemID       uint           `json:"id"`
	MenuItemID   uint           `json:"menu_item_id"`
	Name         string         `json:"name"`
	Image        string         `json:"image,omitempty"`
	Quantity     int            `json:"quantity"`
	Price        models.Money   `json:"price"`
	GSTRate      models.Percent `json:"gst_rate"`
	LineSubtotal models.Money   `json:"line_subtotal"`
	LineGST      models.Money   `json:"line_gst"`
	Available    bool           `json:"available"`
}

// CartView 购物车视图
type CartView struct {
	Lines     []CartLine   `json:"lines"`
	ItemCount int          `json:"item_count"`
	Subtotal  models.Money `json:"subtotal"`
	GSTAmount models.Money `json:"gst_amount"`
	Total     models.Money `json:"total"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo     repository.CartRepository
	menuItemRepo repository.MenuItemRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, menuItemRepo repository.MenuItemRepository) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		menuItemRepo: menuItemRepo,
	}
}

// AddItem 加入购物车：已存在则数量 +1，否则新建数量为 1 的行
func (s *CartService) AddItem(_ context.Context, cart *models.Cart, menuItemID uint) error {
	if _, err := s.requireOrderable(menuItemID); err != nil {
		return err
	}
	line, err := s.cartRepo.GetItem(cart.ID, menuItemID)
	if err != nil {
		return err
	}
	if line != nil {
		return s.incrementLine(line)
	}
	createErr := s.cartRepo.CreateItem(&models.CartItem{CartID: cart.ID, MenuItemID: menuItemID, Quantity: 1})
	if createErr == nil {
		return nil
	}
	// 并发加入同一菜品时唯一索引冲突，转为累加
	line, err = s.cartRepo.GetItem(cart.ID, menuItemID)
	if err != nil || line == nil {
		return createErr
	}
	return s.incrementLine(line)
}

// Increment 数量 +1
func (s *CartService) Increment(_ context.Context, cart *models.Cart, menuItemID uint) error {
	line, err := s.requireLine(cart, menuItemID)
	if err != nil {
		return err
	}
	return s.incrementLine(line)
}

// Decrement 数量 -1，减到 0 时删除该行
func (s *CartService) Decrement(_ context.Context, cart *models.Cart, menuItemID uint) error {
	line, err := s.requireLine(cart, menuItemID)
	if err != nil {
		return err
	}
	return s.decrementLine(line)
}

// SetQuantity 设置绝对数量，qty <= 0 删除该行
func (s *CartService) SetQuantity(_ context.Context, cart *models.Cart, menuItemID uint, qty int) error {
	if qty > constants.CartMaxQuantity {
		return quantityLimitError()
	}
	line, err := s.cartRepo.GetItem(cart.ID, menuItemID)
	if err != nil {
		return err
	}
	if qty <= 0 {
		if line == nil {
			return nil
		}
		_, err := s.cartRepo.DeleteItem(cart.ID, menuItemID)
		return err
	}
	if line != nil {
		return s.cartRepo.SetItemQuantity(line.ID, qty)
	}
	item, err := s.menuItemRepo.GetByID(menuItemID, true)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrMenuItemNotFound
	}
	return s.cartRepo.CreateItem(&models.CartItem{CartID: cart.ID, MenuItemID: menuItemID, Quantity: qty})
}

// ApplyAction 按动作更新购物车，行不存在时静默成功
func (s *CartService) ApplyAction(_ context.Context, cart *models.Cart, menuItemID uint, action string) error {
	action = strings.ToLower(strings.TrimSpace(action))
	switch action {
	case constants.CartActionIncrease, constants.CartActionDecrease, constants.CartActionRemove:
	default:
		return newFieldError("action", "must be one of: increase decrease remove")
	}
	line, err := s.cartRepo.GetItem(cart.ID, menuItemID)
	if err != nil {
		return err
	}
	if line == nil {
		return nil
	}
	switch action {
	case constants.CartActionIncrease:
		return s.incrementLine(line)
	case constants.CartActionDecrease:
		return s.decrementLine(line)
	default:
		_, err := s.cartRepo.DeleteItem(cart.ID, menuItemID)
		return err
	}
}

// Remove 删除购物车行
func (s *CartService) Remove(_ context.Context, cart *models.Cart, menuItemID uint) error {
	affected, err := s.cartRepo.DeleteItem(cart.ID, menuItemID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// View 购物车视图，金额与结算使用同一计价逻辑
func (s *CartService) View(_ context.Context, cart *models.Cart) (*CartView, error) {
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	view := &CartView{Lines: make([]CartLine, 0, len(items))}
	inputs := make([]PriceInput, 0, len(items))
	lineIndex := make([]int, 0, len(items))
	for _, item := range items {
		line := CartLine{
			ItemID:     item.ID,
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
		}
		if menu := item.MenuItem; menu != nil {
			line.Name = menu.Name
			line.Image = menu.Image
			line.Price = menu.Price
			line.GSTRate = menu.GSTRate
			line.Available = menu.IsActive && !menu.DeletedAt.Valid
		}
		view.Lines = append(view.Lines, line)
		if !line.Available {
			continue
		}
		view.ItemCount += item.Quantity
		inputs = append(inputs, PriceInput{Price: line.Price.Decimal, Quantity: line.Quantity, GSTRate: line.GSTRate.Decimal})
		lineIndex = append(lineIndex, len(view.Lines)-1)
	}

	totals := PriceLines(inputs)
	for i, priced := range totals.Lines {
		target := &view.Lines[lineIndex[i]]
		target.LineSubtotal = models.NewMoneyFromDecimal(priced.LineSubtotal)
		target.LineGST = models.NewMoneyFromDecimal(priced.LineGST)
	}
	view.Subtotal = totals.Subtotal
	view.GSTAmount = totals.GSTAmount
	view.Total = totals.Total
	return view, nil
}

func (s *CartService) requireOrderable(menuItemID uint) (*models.MenuItem, error) {
	item, err := s.menuItemRepo.GetByID(menuItemID, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMenuItemNotFound
	}
	if !item.IsActive {
		return nil, ErrMenuItemUnavailable
	}
	return item, nil
}

func (s *CartService) requireLine(cart *models.Cart, menuItemID uint) (*models.CartItem, error) {
	line, err := s.cartRepo.GetItem(cart.ID, menuItemID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, ErrCartItemNotFound
	}
	return line, nil
}

func (s *CartService) incrementLine(line *models.CartItem) error {
	affected, err := s.cartRepo.IncrementItem(line.ID, 1, constants.CartMaxQuantity)
	if err != nil {
		return err
	}
	if affected == 0 {
		return quantityLimitError()
	}
	return nil
}

// decrementLine 减到 0 时删除，条件更新保证库中数量始终 >= 1
func (s *CartService) decrementLine(line *models.CartItem) error {
	_, err := s.cartRepo.DecrementItem(line.ID)
	return err
}

func quantityLimitError() *ValidationError {
	return newFieldError("quantity", fmt.Sprintf("must be at most %d", constants.CartMaxQuantity))
}
