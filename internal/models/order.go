package models

import "time"

// Order 订单表
type Order struct {
	ID               uint       `gorm:"primarykey" json:"id"`                                                   // 主键
	OrderNo          string     `gorm:"uniqueIndex;not null" json:"order_no"`                                   // 订单编号
	UserID           *uint      `gorm:"index" json:"user_id,omitempty"`                                         // 用户ID（游客订单为空）
	SessionKey       string     `gorm:"type:varchar(64);index" json:"-"`                                        // 下单时的访客会话标识
	FullName         string     `gorm:"type:varchar(255);not null" json:"full_name"`                            // 收货人
	Email            string     `gorm:"type:varchar(255);not null" json:"email"`                                // 邮箱
	Phone            string     `gorm:"type:varchar(20);not null" json:"phone"`                                 // 电话
	Address          string     `gorm:"type:text;not null" json:"address"`                                      // 地址
	Subtotal         Money      `gorm:"type:decimal(10,2);not null;default:0" json:"subtotal"`                  // 小计
	GSTAmount        Money      `gorm:"type:decimal(10,2);not null;default:0" json:"gst_amount"`                // GST 税额
	TotalAmount      Money      `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`              // 总额
	Status           string     `gorm:"type:varchar(50);index;not null;default:'pending'" json:"status"`        // 订单状态
	PaymentStatus    string     `gorm:"type:varchar(20);index;not null;default:'unpaid'" json:"payment_status"` // 支付状态
	InvoiceFile      string     `gorm:"type:varchar(500)" json:"-"`                                             // 发票文件路径
	InvoiceGenerated bool       `gorm:"not null;default:false" json:"invoice_generated"`                        // 是否已生成发票
	PaidAt           *time.Time `gorm:"index" json:"paid_at"`                                                   // 支付时间
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`                                                // 创建时间
	UpdatedAt        time.Time  `gorm:"index" json:"updated_at"`                                                // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"` // 订单项
	User  *User       `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`               // 下单用户
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
