package invoice

import (
	"time"

	"github.com/tadka-store/internal/models"
)

// Seller 开票方信息
type Seller struct {
	Name    string
	GSTIN   string
	Address string
}

// Line 发票明细行
type Line struct {
	Name         string
	Quantity     int
	Price        models.Money
	GSTRate      models.Percent
	LineSubtotal models.Money
	LineGST      models.Money
}

// Document 待渲染的发票内容
type Document struct {
	Seller    Seller
	OrderNo   string
	IssuedAt  time.Time
	Customer  Customer
	Lines     []Line
	Subtotal  models.Money
	GSTAmount models.Money
	Total     models.Money
	Payment   string
}

// Customer 收票方信息
type Customer struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}
