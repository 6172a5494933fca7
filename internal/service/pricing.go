package service

import (
	"github.com/tadka-store/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PriceInput 参与计价的一行
type PriceInput struct {
	Price    decimal.Decimal
	Quantity int
	GSTRate  decimal.Decimal
}

// PricedLine 计价结果行
type PricedLine struct {
	LineSubtotal decimal.Decimal
	LineGST      decimal.Decimal
}

// Totals 汇总金额，Total = Subtotal + GSTAmount 精确成立
type Totals struct {
	Lines     []PricedLine
	Subtotal  models.Money
	GSTAmount models.Money
	Total     models.Money
}

// PriceLines 计算小计、GST 与总额
// 行税额不单独舍入，汇总后四舍五入到 2 位小数
func PriceLines(lines []PriceInput) Totals {
	subtotal := decimal.Zero
	gstSum := decimal.Zero
	priced := make([]PricedLine, 0, len(lines))
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		lineSubtotal := line.Price.Mul(qty)
		lineGST := lineSubtotal.Mul(line.GSTRate).Div(hundred)
		subtotal = subtotal.Add(lineSubtotal)
		gstSum = gstSum.Add(lineGST)
		priced = append(priced, PricedLine{LineSubtotal: lineSubtotal, LineGST: lineGST})
	}
	subtotal = subtotal.Round(2)
	gst := gstSum.Round(2)
	return Totals{
		Lines:     priced,
		Subtotal:  models.Money{Decimal: subtotal},
		GSTAmount: models.Money{Decimal: gst},
		Total:     models.Money{Decimal: subtotal.Add(gst)},
	}
}
