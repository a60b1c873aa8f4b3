package models

import (
	"math"
	"time"
)

// WorkOrderStatus is the lifecycle state of a work order.
type WorkOrderStatus string

const (
	WorkOrderStatusPending    WorkOrderStatus = "pending"
	WorkOrderStatusInProgress WorkOrderStatus = "in_progress"
	WorkOrderStatusCompleted  WorkOrderStatus = "completed"
	WorkOrderStatusOnHold     WorkOrderStatus = "on_hold"
)

// WorkOrderPriority ranks work orders for planning.
type WorkOrderPriority string

const (
	WorkOrderPriorityLow    WorkOrderPriority = "low"
	WorkOrderPriorityMedium WorkOrderPriority = "medium"
	WorkOrderPriorityHigh   WorkOrderPriority = "high"
	WorkOrderPriorityUrgent WorkOrderPriority = "urgent"
)

// ValidWorkOrderStatus reports whether s is a known work order status.
func ValidWorkOrderStatus(s string) bool {
	switch WorkOrderStatus(s) {
	case WorkOrderStatusPending, WorkOrderStatusInProgress, WorkOrderStatusCompleted, WorkOrderStatusOnHold:
		return true
	}
	return false
}

// WorkOrder is a unit of planned production work.
// QuantityCompleted is not bounded by QuantityPlanned.
type WorkOrder struct {
	ID                string            `json:"id"`
	OrderNumber       string            `json:"order_number"`
	ProductName       string            `json:"product_name"`
	QuantityPlanned   int               `json:"quantity_planned"`
	QuantityCompleted int               `json:"quantity_completed"`
	Status            WorkOrderStatus   `json:"status"`
	Priority          WorkOrderPriority `json:"priority"`
	StartDate         time.Time         `json:"start_date"`
	DueDate           time.Time         `json:"due_date"`
	AssignedLine      string            `json:"assigned_line"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// Key returns the in-memory identity of the work order.
func (w WorkOrder) Key() string { return w.ID }

// IsCompleted reports whether the order reached the completed status.
func (w WorkOrder) IsCompleted() bool { return w.Status == WorkOrderStatusCompleted }

// Progress returns completed/planned as a whole percentage. It is not clamped,
// so over-production reports more than 100.
func (w WorkOrder) Progress() int {
	if w.QuantityPlanned <= 0 {
		return 0
	}
	return int(math.Floor(float64(w.QuantityCompleted)*100/float64(w.QuantityPlanned) + 0.5))
}

// WorkOrderInput holds the fields required to create a work order.
type WorkOrderInput struct {
	OrderNumber       string            `json:"order_number" validate:"required"`
	ProductName       string            `json:"product_name" validate:"required"`
	QuantityPlanned   int               `json:"quantity_planned" validate:"min=1"`
	QuantityCompleted int               `json:"quantity_completed" validate:"min=0"`
	Status            WorkOrderStatus   `json:"status" validate:"omitempty,oneof=pending in_progress completed on_hold"`
	Priority          WorkOrderPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	StartDate         time.Time         `json:"start_date" validate:"required"`
	DueDate           time.Time         `json:"due_date" validate:"required"`
	AssignedLine      string            `json:"assigned_line" validate:"required"`
}

// WorkOrderPatch is a partial update; nil fields are left unchanged.
type WorkOrderPatch struct {
	OrderNumber       *string            `json:"order_number,omitempty" validate:"omitempty,min=1"`
	ProductName       *string            `json:"product_name,omitempty" validate:"omitempty,min=1"`
	QuantityPlanned   *int               `json:"quantity_planned,omitempty" validate:"omitempty,min=1"`
	QuantityCompleted *int               `json:"quantity_completed,omitempty" validate:"omitempty,min=0"`
	Status            *WorkOrderStatus   `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed on_hold"`
	Priority          *WorkOrderPriority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	StartDate         *time.Time         `json:"start_date,omitempty"`
	DueDate           *time.Time         `json:"due_date,omitempty"`
	AssignedLine      *string            `json:"assigned_line,omitempty" validate:"omitempty,min=1"`
}
