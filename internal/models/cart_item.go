package models

import "time"

// CartItem 购物车项
type CartItem struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                        // 主键
	CartID     uint      `gorm:"not null;uniqueIndex:idx_cart_menu_item" json:"cart_id"`      // 购物车ID
	MenuItemID uint      `gorm:"not null;uniqueIndex:idx_cart_menu_item" json:"menu_item_id"` // 菜品ID
	Quantity   int       `gorm:"not null;default:1" json:"quantity"`                          // 数量
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                                     // 更新时间

	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"` // 关联菜品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
