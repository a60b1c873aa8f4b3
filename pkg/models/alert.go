package models

import (
	"time"

	"github.com/google/uuid"
)

// AlertType is the severity class of a dashboard alert.
type AlertType string

const (
	AlertTypeError   AlertType = "error"
	AlertTypeWarning AlertType = "warning"
	AlertTypeInfo    AlertType = "info"
	AlertTypeSuccess AlertType = "success"
)

// ValidAlertType reports whether t is a known alert type.
func ValidAlertType(t string) bool {
	switch AlertType(t) {
	case AlertTypeError, AlertTypeWarning, AlertTypeInfo, AlertTypeSuccess:
		return true
	}
	return false
}

// Alert sources used by the synthesized feed.
const (
	AlertSourceMachineMonitor     = "Machine Monitor"
	AlertSourceQualityControl     = "Quality Control"
	AlertSourceProductionPlanning = "Production Planning"
)

// Alert is an ephemeral dashboard notification. ID is the removal key and
// Timestamp drives the "time ago" display.
type Alert struct {
	ID        uuid.UUID `json:"id"`
	Type      AlertType `json:"type"`
	Message   string    `json:"message"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AlertCandidate is an alert before it is given an identity and timestamp.
// Two alerts are considered the same when their candidates are equal.
type AlertCandidate struct {
	Type    AlertType `json:"type"`
	Message string    `json:"message"`
	Source  string    `json:"source,omitempty"`
}

// Candidate strips identity and timestamp from the alert.
func (a Alert) Candidate() AlertCandidate {
	return AlertCandidate{Type: a.Type, Message: a.Message, Source: a.Source}
}
