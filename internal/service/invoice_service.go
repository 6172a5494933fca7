package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tadka-store/internal/constants"
	"github.com/tadka-store/internal/invoice"
	"github.com/tadka-store/internal/logger"
	"github.com/tadka-store/internal/models"
	"github.com/tadka-store/internal/repository"
)

// InvoiceResult 发票生成结果；失败时 Generated=false 且 Err 给出阶段
type InvoiceResult struct {
	Generated bool
	Path      string
	Document  []byte
	Err       *invoice.RenderError
}

// InvoiceService 发票服务
type InvoiceService struct {
	orderRepo repository.OrderRepository
	renderer  invoice.Renderer
	storage   invoice.Storage
	seller    invoice.Seller
}

// NewInvoiceService 创建发票服务
func NewInvoiceService(orderRepo repository.OrderRepository, renderer invoice.Renderer, storage invoice.Storage, seller invoice.Seller) *InvoiceService {
	return &InvoiceService{
		orderRepo: orderRepo,
		renderer:  renderer,
		storage:   storage,
		seller:    seller,
	}
}

// Generate 生成并保存发票；已生成且文件存在时跳过
// 渲染、存储或落库失败不会以 error 返回，而是体现在 InvoiceResult.Err
func (s *InvoiceService) Generate(ctx context.Context, orderID uint) (*InvoiceResult, error) {
	return s.generate(ctx, orderID, false)
}

// Regenerate 强制重新生成发票
func (s *InvoiceService) Regenerate(ctx context.Context, orderID uint) (*InvoiceResult, error) {
	return s.generate(ctx, orderID, true)
}

// Document 获取发票内容用于下载，缺失时尝试现场生成
func (s *InvoiceService) Document(ctx context.Context, order *models.Order) ([]byte, error) {
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.InvoiceGenerated && s.storage.Exists(order.InvoiceFile) {
		data, err := s.storage.Read(order.InvoiceFile)
		if err == nil {
			return data, nil
		}
		logger.Warnw("invoice_read_failed", "order_id", order.ID, "path", order.InvoiceFile, "error", err)
	}
	result, err := s.generate(ctx, order.ID, true)
	if err != nil {
		return nil, err
	}
	if !result.Generated {
		return nil, fmt.Errorf("%w: %v", ErrInvoiceUnavailable, result.Err)
	}
	return result.Document, nil
}

// BackfillPending 补生成缺失的发票，返回成功数量
func (s *InvoiceService) BackfillPending(ctx context.Context, limit int) (int, error) {
	ids, err := s.orderRepo.ListInvoicePendingIDs(limit)
	if err != nil {
		return 0, err
	}
	generated := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return generated, err
		}
		result, err := s.generate(ctx, id, false)
		if err != nil {
			logger.Warnw("invoice_backfill_failed", "order_id", id, "error", err)
			continue
		}
		if result.Generated {
			generated++
		}
	}
	return generated, nil
}

func (s *InvoiceService) generate(_ context.Context, orderID uint, force bool) (*InvoiceResult, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !force && order.InvoiceGenerated && s.storage.Exists(order.InvoiceFile) {
		logger.Debugw("invoice_generate_skip_exists", "order_id", order.ID, "order_no", order.OrderNo)
		return &InvoiceResult{Generated: true, Path: order.InvoiceFile}, nil
	}

	doc := s.buildDocument(order)
	data, err := s.render(doc)
	if err != nil {
		return s.fail(order, invoice.StageRender, err), nil
	}

	path, err := s.storage.Save(fmt.Sprintf(constants.InvoiceFilenameTemplate, order.OrderNo), data)
	if err != nil {
		return s.fail(order, invoice.StageStore, err), nil
	}

	updates := map[string]interface{}{
		"invoice_file":      path,
		"invoice_generated": true,
		"updated_at":        time.Now(),
	}
	if err := s.orderRepo.UpdateFields(order.ID, updates); err != nil {
		// 旧发票仍指向同一文件时保留，避免订单引用丢失
		if !order.InvoiceGenerated || order.InvoiceFile != path {
			if removeErr := s.storage.Remove(path); removeErr != nil {
				logger.Warnw("invoice_cleanup_failed", "order_id", order.ID, "path", path, "error", removeErr)
			}
		}
		return s.fail(order, invoice.StagePersist, err), nil
	}

	logger.Infow("invoice_generated", "order_id", order.ID, "order_no", order.OrderNo, "path", path)
	return &InvoiceResult{Generated: true, Path: path, Document: data}, nil
}

func (s *InvoiceService) render(doc invoice.Document) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("renderer panic: %v", r)
		}
	}()
	if s.renderer == nil {
		return nil, errors.New("invoice renderer not configured")
	}
	return s.renderer.Render(doc)
}

func (s *InvoiceService) fail(order *models.Order, stage invoice.Stage, err error) *InvoiceResult {
	renderErr := invoice.NewRenderError(order.ID, stage, err)
	logger.Warnw("invoice_generate_failed",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"stage", string(stage),
		"error", err,
	)
	return &InvoiceResult{Generated: false, Err: renderErr}
}

func (s *InvoiceService) buildDocument(order *models.Order) invoice.Document {
	inputs := make([]PriceInput, 0, len(order.Items))
	for _, item := range order.Items {
		inputs = append(inputs, PriceInput{Price: item.Price.Decimal, Quantity: item.Quantity, GSTRate: item.GSTRate.Decimal})
	}
	totals := PriceLines(inputs)
	if !totals.Subtotal.Equal(order.Subtotal.Decimal) ||
		!totals.GSTAmount.Equal(order.GSTAmount.Decimal) ||
		!totals.Total.Equal(order.TotalAmount.Decimal) {
		logger.Warnw("invoice_totals_mismatch",
			"order_id", order.ID,
			"order_subtotal", order.Subtotal.String(),
			"computed_subtotal", totals.Subtotal.String(),
			"order_gst", order.GSTAmount.String(),
			"computed_gst", totals.GSTAmount.String(),
		)
	}

	lines := make([]invoice.Line, 0, len(order.Items))
	for i, item := range order.Items {
		lines = append(lines, invoice.Line{
			Name:         item.Name,
			Quantity:     item.Quantity,
			Price:        item.Price,
			GSTRate:      item.GSTRate,
			LineSubtotal: models.NewMoneyFromDecimal(totals.Lines[i].LineSubtotal),
			LineGST:      models.NewMoneyFromDecimal(totals.Lines[i].LineGST),
		})
	}
	return invoice.Document{
		Seller:   s.seller,
		OrderNo:  order.OrderNo,
		IssuedAt: order.CreatedAt,
		Customer: invoice.Customer{
			FullName: order.FullName,
			Email:    order.Email,
			Phone:    order.Phone,
			Address:  order.Address,
		},
		Lines:     lines,
		Subtotal:  order.Subtotal,
		GSTAmount: order.GSTAmount,
		Total:     order.TotalAmount,
		Payment:   order.PaymentStatus,
	}
}
