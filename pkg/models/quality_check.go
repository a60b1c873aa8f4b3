package models

import "time"

// QualityResult is the outcome of an inspection. Results can change freely,
// including from pass to fail and back.
type QualityResult string

const (
	QualityResultPass    QualityResult = "pass"
	QualityResultFail    QualityResult = "fail"
	QualityResultPending QualityResult = "pending"
)

// QualityCheck is an inspection record tied to a work order.
// Inspector is the operator row embedded at read time, not a live reference.
type QualityCheck struct {
	ID          string        `json:"id"`
	WorkOrderID string        `json:"work_order_id"`
	CheckType   string        `json:"check_type"`
	Result      QualityResult `json:"result"`
	InspectorID string        `json:"inspector_id"`
	Inspector   *Operator     `json:"inspector,omitempty"`
	Notes       string        `json:"notes"`
	CheckedAt   time.Time     `json:"checked_at"`
}

// Key returns the in-memory identity of the quality check.
func (q QualityCheck) Key() string { return q.ID }

// QualityCheckInput holds the fields required to record a quality check.
type QualityCheckInput struct {
	WorkOrderID string        `json:"work_order_id" validate:"required,numeric"`
	CheckType   string        `json:"check_type" validate:"required"`
	Result      QualityResult `json:"result" validate:"omitempty,oneof=pass fail pending"`
	InspectorID string        `json:"inspector_id" validate:"required,numeric"`
	Notes       string        `json:"notes"`
	CheckedAt   time.Time     `json:"checked_at" validate:"required"`
}

// QualityCheckPatch is a partial update of a quality check.
type QualityCheckPatch struct {
	WorkOrderID *string        `json:"work_order_id,omitempty" validate:"omitempty,numeric"`
	CheckType   *string        `json:"check_type,omitempty" validate:"omitempty,min=1"`
	Result      *QualityResult `json:"result,omitempty" validate:"omitempty,oneof=pass fail pending"`
	InspectorID *string        `json:"inspector_id,omitempty" validate:"omitempty,numeric"`
	Notes       *string        `json:"notes,omitempty"`
	CheckedAt   *time.Time     `json:"checked_at,omitempty"`
}
