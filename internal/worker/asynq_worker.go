package worker

import (
	"context"
	"errors"

	"github.com/tadka-store/internal/logger"
	"github.com/tadka-store/internal/provider"
	"github.com/tadka-store/internal/queue"
	"github.com/tadka-store/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskInvoiceGenerate, c.handleInvoiceGenerate)
}

func (c *Consumer) handleInvoiceGenerate(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_invoice_generate_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseInvoiceGeneratePayload(task)
	if err != nil {
		logger.Warnw("worker_invoice_generate_invalid_payload", "error", err)
		return errors.Join(err, asynq.SkipRetry)
	}
	if c.InvoiceService == nil {
		logger.Warnw("worker_invoice_generate_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	result, err := c.InvoiceService.Generate(ctx, payload.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_invoice_generate_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_invoice_generate_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if !result.Generated {
		// 交给 asynq 重试
		return result.Err
	}
	return nil
}
