package public

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tadka-store/internal/constants"
	handlershared "github.com/tadka-store/internal/http/handlers/shared"
	"github.com/tadka-store/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetOrder 订单确认页
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.OrderService.GetForOwner(c.Request.Context(), c.Param("order_no"), identityFromContext(c))
	if err != nil {
		respondWithMappedError(c, err, notFoundErrorRules, "failed to load order")
		return
	}
	response.Success(c, order)
}

// MarkOrderPaid 支付成功回跳，幂等标记已支付
func (h *Handler) MarkOrderPaid(c *gin.Context) {
	order, err := h.OrderService.MarkPaid(c.Request.Context(), c.Param("order_no"), identityFromContext(c))
	if err != nil {
		respondWithMappedError(c, err, notFoundErrorRules, "failed to update order")
		return
	}
	response.Success(c, order)
}

// DownloadInvoice 下载订单发票 PDF
func (h *Handler) DownloadInvoice(c *gin.Context) {
	ctx := c.Request.Context()
	order, err := h.OrderService.GetForOwner(ctx, c.Param("order_no"), identityFromContext(c))
	if err != nil {
		respondWithMappedError(c, err, notFoundErrorRules, "failed to load order")
		return
	}
	data, err := h.InvoiceService.Document(ctx, order)
	if err != nil {
		respondWithMappedError(c, err, invoiceErrorRules, "invoice is unavailable")
		return
	}
	filename := fmt.Sprintf(constants.InvoiceFilenameTemplate, strings.TrimSpace(order.OrderNo))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// ListMyOrders 当前用户历史订单
func (h *Handler) ListMyOrders(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	orders, total, err := h.OrderService.ListForUser(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load orders", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}
