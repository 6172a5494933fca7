package queue

import (
	"encoding/json"
	"fmt"

	"github.com/tadka-store/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskInvoiceGenerate 发票生成任务
	TaskInvoiceGenerate = constants.TaskInvoiceGenerate
)

// InvoiceGeneratePayload 发票生成任务载荷
type InvoiceGeneratePayload struct {
	OrderID uint `json:"order_id"`
}

// NewInvoiceGenerateTask 创建发票生成任务
func NewInvoiceGenerateTask(payload InvoiceGeneratePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInvoiceGenerate, body), nil
}

// ParseInvoiceGeneratePayload 解析发票生成任务载荷
func ParseInvoiceGeneratePayload(task *asynq.Task) (InvoiceGeneratePayload, error) {
	var payload InvoiceGeneratePayload
	if task == nil {
		return payload, fmt.Errorf("nil task")
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, err
	}
	if payload.OrderID == 0 {
		return payload, fmt.Errorf("invoice task missing order_id")
	}
	return payload, nil
}
