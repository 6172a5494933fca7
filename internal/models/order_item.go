package models

// OrderItem 订单项表（价格与税率为下单时快照）
type OrderItem struct {
	ID         uint    `gorm:"primarykey" json:"id"`                                 // 主键
	OrderID    uint    `gorm:"index;not null" json:"order_id"`                       // 订单ID
	MenuItemID uint    `gorm:"index;not null" json:"menu_item_id"`                   // 菜品ID
	Name       string  `gorm:"type:varchar(100);not null" json:"name"`               // 菜品名称快照
	Quantity   int     `gorm:"not null" json:"quantity"`                             // 数量
	Price      Money   `gorm:"type:decimal(8,2);not null;default:0" json:"price"`    // 单价快照
	GSTRate    Percent `gorm:"type:decimal(5,2);not null;default:0" json:"gst_rate"` // 税率快照
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
