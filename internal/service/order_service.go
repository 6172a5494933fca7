package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/tadka-store/internal/constants"
	"github.com/tadka-store/internal/logger"
	"github.com/tadka-store/internal/models"
	"github.com/tadka-store/internal/repository"

	"gorm.io/gorm"
)

var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCanceled:  true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusPreparing: true,
		constants.OrderStatusCanceled:  true,
	},
	constants.OrderStatusPreparing: {
		constants.OrderStatusCompleted: true,
	},
}

var paymentStatuses = map[string]bool{
	constants.PaymentStatusUnpaid: true,
	constants.PaymentStatusPaid:   true,
	constants.PaymentStatusFailed: true,
}

// OrderService 订单查询与状态维护
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// GetForOwner 按订单号获取订单，仅下单用户或下单会话可见
func (s *OrderService) GetForOwner(_ context.Context, orderNo string, identity Identity) (*models.Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil || !ownsOrder(order, identity) {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// MarkPaid 标记订单已支付（幂等）
func (s *OrderService) MarkPaid(ctx context.Context, orderNo string, identity Identity) (*models.Order, error) {
	order, err := s.GetForOwner(ctx, orderNo, identity)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == constants.PaymentStatusPaid {
		return order, nil
	}
	if err := s.applyPaymentStatus(order, constants.PaymentStatusPaid); err != nil {
		return nil, err
	}
	return order, nil
}

// ListForUser 用户历史订单，新订单在前
func (s *OrderService) ListForUser(_ context.Context, userID uint, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return []models.Order{}, 0, nil
	}
	return s.orderRepo.ListByUser(repository.OrderListFilter{UserID: userID, Page: page, PageSize: pageSize})
}

// ListAdmin 管理端订单列表
func (s *OrderService) ListAdmin(_ context.Context, filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetByID 管理端订单详情
func (s *OrderService) GetByID(_ context.Context, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus 按状态机更新订单状态
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, target string) (*models.Order, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == target {
		return order, nil
	}
	if !isTransitionAllowed(order.Status, target) {
		return nil, ErrInvalidOrderStatus
	}
	now := time.Now()
	if err := s.orderRepo.UpdateFields(order.ID, map[string]interface{}{"status": target, "updated_at": now}); err != nil {
		return nil, mapOrderUpdateErr(err)
	}
	logger.Infow("order_status_updated", "order_id", order.ID, "from", order.Status, "to", target)
	order.Status = target
	order.UpdatedAt = now
	return order, nil
}

// UpdatePaymentStatus 管理端更新支付状态
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !paymentStatuses[status] {
		return nil, newFieldError("payment_status", "must be one of: unpaid paid failed")
	}
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == status {
		return order, nil
	}
	if err := s.applyPaymentStatus(order, status); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) applyPaymentStatus(order *models.Order, status string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"payment_status": status,
		"updated_at":     now,
	}
	if status == constants.PaymentStatusPaid && order.PaidAt == nil {
		updates["paid_at"] = now
		order.PaidAt = &now
	}
	if err := s.orderRepo.UpdateFields(order.ID, updates); err != nil {
		return mapOrderUpdateErr(err)
	}
	logger.Infow("order_payment_status_updated", "order_id", order.ID, "from", order.PaymentStatus, "to", status)
	order.PaymentStatus = status
	order.UpdatedAt = now
	return nil
}

func ownsOrder(order *models.Order, identity Identity) bool {
	if identity.UserID != 0 && order.UserID != nil && *order.UserID == identity.UserID {
		return true
	}
	key := strings.TrimSpace(identity.SessionKey)
	return key != "" && order.SessionKey != "" && order.SessionKey == key
}

func isTransitionAllowed(current, target string) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

func mapOrderUpdateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOrderNotFound
	}
	return err
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("TK%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}
