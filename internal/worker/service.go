package worker

import (
	"context"
	"errors"
	"time"

	"github.com/tadka-store/internal/config"
	"github.com/tadka-store/internal/logger"
	"github.com/tadka-store/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	invoiceBackfillInterval = 5 * time.Minute
	invoiceBackfillBatch    = 50
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.Container != nil && s.consumer.InvoiceService != nil {
		go s.runInvoiceBackfillLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runInvoiceBackfillLoop 定期补生成入队失败或重试耗尽的发票
func (s *Service) runInvoiceBackfillLoop(ctx context.Context) {
	runOnce := func() {
		generated, err := s.consumer.InvoiceService.BackfillPending(ctx, invoiceBackfillBatch)
		if err != nil {
			logger.Warnw("worker_invoice_backfill_failed", "error", err)
			return
		}
		if generated > 0 {
			logger.Infow("worker_invoice_backfill_done", "generated", generated)
		}
	}
	runOnce()

	ticker := time.NewTicker(invoiceBackfillInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
