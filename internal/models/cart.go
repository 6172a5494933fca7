package models

import "time"

// Cart 购物车表（登录用户或访客会话二选一）
type Cart struct {
	ID         uint      `gorm:"primarykey" json:"id"`                  // 主键
	UserID     *uint     `gorm:"uniqueIndex" json:"user_id,omitempty"`  // 用户ID
	SessionKey *string   `gorm:"type:varchar(64);uniqueIndex" json:"-"` // 访客会话标识
	CreatedAt  time.Time `gorm:"index" json:"created_at"`               // 创建时间

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}
