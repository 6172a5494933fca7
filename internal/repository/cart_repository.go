package repository

import (
	"errors"

	"github.com/tadka-store/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetByUserID(userID uint) (*models.Cart, error)
	GetBySessionKey(sessionKey string) (*models.Cart, error)
	CreateIfAbsent(cart *models.Cart) error
	ListItems(cartID uint) ([]models.CartItem, error)
	GetItem(cartID, menuItemID uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	IncrementItem(itemID uint, delta, limit int) (int64, error)
	DecrementItem(itemID uint) (bool, error)
	SetItemQuantity(itemID uint, quantity int) error
	DeleteItem(cartID, menuItemID uint) (int64, error)
	DeleteItemsByIDs(cartID uint, itemIDs []uint) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetByUserID 获取用户购物车
func (r *GormCartRepository) GetByUserID(userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetBySessionKey 获取访客会话购物车
func (r *GormCartRepository) GetBySessionKey(sessionKey string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Where("session_key = ?", sessionKey).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// CreateIfAbsent 插入购物车，唯一键冲突时静默跳过（调用方需重新读取）
func (r *GormCartRepository) CreateIfAbsent(cart *models.Cart) error {
	if cart == nil {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(cart).Error
}

// ListItems 按加入顺序列出购物车项，已删除菜品也会预加载
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.
		Preload("MenuItem", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("cart_id = ?", cartID).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem 获取购物车中的某一菜品行
func (r *GormCartRepository) GetItem(cartID, menuItemID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.Where("cart_id = ? AND menu_item_id = ?", cartID, menuItemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CreateItem 创建购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// IncrementItem 原子增加数量，超过 limit 时不更新，返回影响行数
func (r *GormCartRepository) IncrementItem(itemID uint, delta, limit int) (int64, error) {
	result := r.db.Model(&models.CartItem{}).
		Where("id = ? AND quantity + ? <= ?", itemID, delta, limit).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return result.RowsAffected, result.Error
}

// DecrementItem 原子减少数量；数量已为 1 时删除该行，返回是否删除
func (r *GormCartRepository) DecrementItem(itemID uint) (bool, error) {
	result := r.db.Model(&models.CartItem{}).
		Where("id = ? AND quantity > 1", itemID).
		Update("quantity", gorm.Expr("quantity - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return false, nil
	}
	if err := r.db.Where("id = ? AND quantity <= 1", itemID).Delete(&models.CartItem{}).Error; err != nil {
		return false, err
	}
	return true, nil
}

// SetItemQuantity 设置数量
func (r *GormCartRepository) SetItemQuantity(itemID uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

// DeleteItem 删除购物车项，返回删除行数
func (r *GormCartRepository) DeleteItem(cartID, menuItemID uint) (int64, error) {
	result := r.db.Where("cart_id = ? AND menu_item_id = ?", cartID, menuItemID).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// DeleteItemsByIDs 删除购物车中指定的行（保留购物车本身）
func (r *GormCartRepository) DeleteItemsByIDs(cartID uint, itemIDs []uint) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return r.db.Where("cart_id = ? AND id IN ?", cartID, itemIDs).Delete(&models.CartItem{}).Error
}
