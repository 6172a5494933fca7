package invoice

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Renderer 发票渲染器
type Renderer interface {
	Render(doc Document) ([]byte, error)
}

// PDFRenderer 基于 fpdf 的 A4 发票渲染
type PDFRenderer struct{}

// NewPDFRenderer 创建 PDF 渲染器
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

var columnWidths = []float64{80, 18, 28, 20, 34}

// Render 渲染发票为 PDF 字节
func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	if strings.TrimSpace(doc.OrderNo) == "" {
		return nil, errors.New("invoice document missing order number")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	text := coreFontText(pdf)
	pdf.SetTitle("Invoice "+doc.OrderNo, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, text(doc.Seller.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if doc.Seller.Address != "" {
		pdf.CellFormat(0, 5, text(doc.Seller.Address), "", 1, "L", false, 0, "")
	}
	if doc.Seller.GSTIN != "" {
		pdf.CellFormat(0, 5, "GSTIN: "+text(doc.Seller.GSTIN), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "TAX INVOICE", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Order: "+text(doc.OrderNo), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+doc.IssuedAt.Format("02 Jan 2006 15:04"), "", 1, "L", false, 0, "")
	if doc.Payment != "" {
		pdf.CellFormat(0, 6, "Payment: "+text(doc.Payment), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, value := range []string{doc.Customer.FullName, doc.Customer.Email, doc.Customer.Phone} {
		pdf.CellFormat(0, 5, text(value), "", 1, "L", false, 0, "")
	}
	pdf.MultiCell(0, 5, text(doc.Customer.Address), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	headers := []string{"Item", "Qty", "Price", "GST %", "Amount"}
	for i, header := range headers {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(columnWidths[i], 7, header, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range doc.Lines {
		cells := []string{
			text(line.Name),
			fmt.Sprintf("%d", line.Quantity),
			line.Price.String(),
			line.GSTRate.String(),
			line.LineSubtotal.String(),
		}
		for i, cell := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(columnWidths[i], 7, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(2)

	labelWidth := columnWidths[0] + columnWidths[1] + columnWidths[2] + columnWidths[3]
	totals := []struct {
		label string
		value string
		bold  bool
	}{
		{label: "Subtotal", value: doc.Subtotal.String()},
		{label: "GST", value: doc.GSTAmount.String()},
		{label: "Total (INR)", value: doc.Total.String(), bold: true},
	}
	for _, row := range totals {
		style := ""
		if row.bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(labelWidth, 7, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(columnWidths[4], 7, row.value, "1", 1, "R", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// coreFontText 将 UTF-8 文本转换为核心字体使用的 cp1252 编码，无法表示的字符由 fpdf 替换
func coreFontText(pdf *fpdf.Fpdf) func(string) string {
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	return func(value string) string {
		return translate(strings.TrimSpace(value))
	}
}
