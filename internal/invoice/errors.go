package invoice

import "fmt"

// Stage 发票生成失败所处阶段
type Stage string

const (
	StageRender  Stage = "render"
	StageStore   Stage = "store"
	StagePersist Stage = "persist"
)

// RenderError 发票生成失败（不影响订单本身）
type RenderError struct {
	OrderID uint
	Stage   Stage
	Err     error
}

func (e *RenderError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("invoice %s failed for order %d: %v", e.Stage, e.OrderID, e.Err)
}

func (e *RenderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewRenderError 构造带阶段的发票错误
func NewRenderError(orderID uint, stage Stage, err error) *RenderError {
	return &RenderError{OrderID: orderID, Stage: stage, Err: err}
}
