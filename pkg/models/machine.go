package models

import "time"

// MachineStatus is the operating state reported for a machine.
type MachineStatus string

const (
	MachineStatusRunning     MachineStatus = "running"
	MachineStatusIdle        MachineStatus = "idle"
	MachineStatusMaintenance MachineStatus = "maintenance"
	MachineStatusError       MachineStatus = "error"
)

// ValidMachineStatus reports whether s is a known machine status.
func ValidMachineStatus(s string) bool {
	switch MachineStatus(s) {
	case MachineStatusRunning, MachineStatusIdle, MachineStatusMaintenance, MachineStatusError:
		return true
	}
	return false
}

// Machine is a piece of production equipment.
// CurrentWorkOrder and CurrentWorkOrderProduct are denormalized from the
// referenced work order when the row is read and go stale until re-fetched.
type Machine struct {
	ID                      string        `json:"id"`
	Name                    string        `json:"name"`
	Type                    string        `json:"type"`
	Status                  MachineStatus `json:"status"`
	CurrentWorkOrderID      *string       `json:"current_work_order_id,omitempty"`
	CurrentWorkOrder        string        `json:"current_work_order,omitempty"`
	CurrentWorkOrderProduct string        `json:"current_work_order_product,omitempty"`
	Efficiency              float64       `json:"efficiency"`
	LastMaintenance         time.Time     `json:"last_maintenance"`
	Location                string        `json:"location"`
	CreatedAt               time.Time     `json:"created_at"`
}

// Key returns the in-memory identity of the machine.
func (m Machine) Key() string { return m.ID }

// IsDown reports whether the machine counts towards downtime.
func (m Machine) IsDown() bool {
	return m.Status == MachineStatusError || m.Status == MachineStatusMaintenance
}

// MachineInput holds the fields required to create a machine.
type MachineInput struct {
	Name               string        `json:"name" validate:"required"`
	Type               string        `json:"type" validate:"required"`
	Status             MachineStatus `json:"status" validate:"omitempty,oneof=running idle maintenance error"`
	CurrentWorkOrderID *string       `json:"current_work_order_id,omitempty" validate:"omitempty,numeric"`
	Efficiency         float64       `json:"efficiency" validate:"min=0,max=100"`
	LastMaintenance    time.Time     `json:"last_maintenance"`
	Location           string        `json:"location" validate:"required"`
}

// MachinePatch is a partial update. CurrentWorkOrderID distinguishes an
// absent field from an explicit null that detaches the work order.
type MachinePatch struct {
	Name               *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	Type               *string          `json:"type,omitempty" validate:"omitempty,min=1"`
	Status             *MachineStatus   `json:"status,omitempty" validate:"omitempty,oneof=running idle maintenance error"`
	CurrentWorkOrderID Optional[string] `json:"current_work_order_id"`
	Efficiency         *float64         `json:"efficiency,omitempty" validate:"omitempty,min=0,max=100"`
	LastMaintenance    *time.Time       `json:"last_maintenance,omitempty"`
	Location           *string          `json:"location,omitempty" validate:"omitempty,min=1"`
}
