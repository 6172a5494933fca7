package admin

import (
	"strings"

	handlershared "github.com/tadka-store/internal/http/handlers/shared"
	"github.com/tadka-store/internal/http/response"
	"github.com/tadka-store/internal/repository"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePaymentStatusRequest 更新支付状态请求
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// GetAdminOrders 获取订单列表
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	orders, total, err := h.OrderService.ListAdmin(c.Request.Context(), repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		OrderNo:       strings.TrimSpace(c.Query("order_no")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load orders", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetAdminOrder 获取订单详情
func (h *Handler) GetAdminOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid order id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, "failed to load order")
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 更新订单状态（校验状态流转）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid order id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	order, err := h.OrderService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, "failed to update order status")
		return
	}
	requestLog(c).Infow("admin_order_status_updated", "order_id", order.ID, "status", order.Status)
	response.Success(c, order)
}

// UpdateOrderPaymentStatus 更新支付状态
func (h *Handler) UpdateOrderPaymentStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid order id")
	if !ok {
		return
	}
	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlershared.RespondBindError(c, err)
		return
	}
	order, err := h.OrderService.UpdatePaymentStatus(c.Request.Context(), id, req.PaymentStatus)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, "failed to update payment status")
		return
	}
	requestLog(c).Infow("admin_order_payment_status_updated", "order_id", order.ID, "payment_status", order.PaymentStatus)
	response.Success(c, order)
}

// RegenerateInvoice 重新生成订单发票
func (h *Handler) RegenerateInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "invalid order id")
	if !ok {
		return
	}
	result, err := h.InvoiceService.Regenerate(c.Request.Context(), id)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, "failed to regenerate invoice")
		return
	}
	if !result.Generated {
		respondError(c, response.CodeInternal, "invoice is unavailable", result.Err)
		return
	}
	response.Success(c, gin.H{
		"order_id":          id,
		"invoice_generated": true,
	})
}
