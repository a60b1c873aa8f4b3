package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func TestSynthesize_RuleOrder(t *testing.T) {
	snap := models.Snapshot{
		Machines: []models.Machine{
			{Name: "Press 1", Status: models.MachineStatusMaintenance},
			{Name: "Lathe 2", Status: models.MachineStatusError},
			{Name: "Mill 3", Status: models.MachineStatusRunning},
			{Name: "Drill 4", Status: models.MachineStatusError},
		},
		WorkOrders: []models.WorkOrder{
			{ID: "1", OrderNumber: "WO-001", Status: models.WorkOrderStatusPending, DueDate: testNow.Add(-36 * time.Hour)},
			{ID: "2", OrderNumber: "WO-002", Status: models.WorkOrderStatusCompleted, DueDate: testNow.Add(-72 * time.Hour)},
			{ID: "3", OrderNumber: "WO-003", Status: models.WorkOrderStatusInProgress, DueDate: testNow.Add(time.Hour)},
		},
		QualityChecks: []models.QualityCheck{
			{WorkOrderID: "1", CheckType: "visual", Result: models.QualityResultFail},
			{WorkOrderID: "2", CheckType: "dimensional", Result: models.QualityResultPass},
		},
	}

	got := Synthesize(snap, testNow)

	assert.Equal(t, []models.AlertCandidate{
		{Type: models.AlertTypeError, Message: "Machine Lathe 2 is in error state!", Source: models.AlertSourceMachineMonitor},
		{Type: models.AlertTypeError, Message: "Machine Drill 4 is in error state!", Source: models.AlertSourceMachineMonitor},
		{Type: models.AlertTypeWarning, Message: "Machine Press 1 requires maintenance", Source: models.AlertSourceMachineMonitor},
		{Type: models.AlertTypeError, Message: "Quality check failed for Work Order WO-001 (visual)", Source: models.AlertSourceQualityControl},
		{Type: models.AlertTypeWarning, Message: "Work Order WO-001 is 2 days overdue!", Source: models.AlertSourceProductionPlanning},
	}, got)
}

func TestSynthesize_OverdueFiftyHours(t *testing.T) {
	snap := models.Snapshot{
		WorkOrders: []models.WorkOrder{
			{ID: "7", OrderNumber: "WO-7", Status: models.WorkOrderStatusInProgress, DueDate: testNow.Add(-50 * time.Hour)},
		},
	}

	got := Synthesize(snap, testNow)

	require.Len(t, got, 1)
	assert.Equal(t, models.AlertTypeWarning, got[0].Type)
	assert.Contains(t, got[0].Message, "3 days overdue")
}

func TestSynthesize_SingularDay(t *testing.T) {
	snap := models.Snapshot{
		WorkOrders: []models.WorkOrder{
			{ID: "1", OrderNumber: "WO-1", Status: models.WorkOrderStatusOnHold, DueDate: testNow.Add(-time.Minute)},
		},
	}

	got := Synthesize(snap, testNow)

	require.Len(t, got, 1)
	assert.Equal(t, "Work Order WO-1 is 1 day overdue!", got[0].Message)
}

func TestSynthesize_DueExactlyNowIsNotOverdue(t *testing.T) {
	snap := models.Snapshot{
		WorkOrders: []models.WorkOrder{
			{ID: "1", OrderNumber: "WO-1", Status: models.WorkOrderStatusPending, DueDate: testNow},
		},
	}

	assert.Empty(t, Synthesize(snap, testNow))
}

func TestSynthesize_FailedCheckForMissingWorkOrder(t *testing.T) {
	snap := models.Snapshot{
		QualityChecks: []models.QualityCheck{
			{WorkOrderID: "404", CheckType: "visual", Result: models.QualityResultFail},
		},
	}

	var got []models.AlertCandidate
	assert.NotPanics(t, func() { got = Synthesize(snap, testNow) })
	assert.Empty(t, got)
}

func TestSynthesize_EmptySnapshot(t *testing.T) {
	got := Synthesize(models.Snapshot{}, testNow)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDaysOverdue(t *testing.T) {
	tests := []struct {
		late time.Duration
		want int64
	}{
		{0, 0},
		{time.Millisecond, 1},
		{24 * time.Hour, 1},
		{24*time.Hour + time.Millisecond, 2},
		{36 * time.Hour, 2},
		{50 * time.Hour, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysOverdue(testNow.Add(-tt.late), testNow), "late by %s", tt.late)
	}
}
