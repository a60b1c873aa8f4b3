// Package alerts synthesizes dashboard alerts from a domain snapshot and
// keeps the process-wide alert feed.
package alerts

import (
	"fmt"
	"time"

	"github.com/jinzhu/inflection"

	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

const millisPerDay = int64(24 * time.Hour / time.Millisecond)

// Synthesize evaluates the alert rules over the full snapshot. Candidates are
// returned in rule order and, within a rule, in collection order:
// machines in error, machines in maintenance, failed quality checks, then
// overdue work orders.
func Synthesize(s models.Snapshot, now time.Time) []models.AlertCandidate {
	candidates := make([]models.AlertCandidate, 0)

	for _, m := range s.Machines {
		if m.Status == models.MachineStatusError {
			candidates = append(candidates, models.AlertCandidate{
				Type:    models.AlertTypeError,
				Message: fmt.Sprintf("Machine %s is in error state!", m.Name),
				Source:  models.AlertSourceMachineMonitor,
			})
		}
	}

	for _, m := range s.Machines {
		if m.Status == models.MachineStatusMaintenance {
			candidates = append(candidates, models.AlertCandidate{
				Type:    models.AlertTypeWarning,
				Message: fmt.Sprintf("Machine %s requires maintenance", m.Name),
				Source:  models.AlertSourceMachineMonitor,
			})
		}
	}

	orders := s.WorkOrderByID()
	for _, qc := range s.QualityChecks {
		if qc.Result != models.QualityResultFail {
			continue
		}
		wo, ok := orders[qc.WorkOrderID]
		if !ok {
			continue
		}
		candidates = append(candidates, models.AlertCandidate{
			Type:    models.AlertTypeError,
			Message: fmt.Sprintf("Quality check failed for Work Order %s (%s)", wo.OrderNumber, qc.CheckType),
			Source:  models.AlertSourceQualityControl,
		})
	}

	for _, wo := range s.WorkOrders {
		if wo.IsCompleted() || !wo.DueDate.Before(now) {
			continue
		}
		days := DaysOverdue(wo.DueDate, now)
		candidates = append(candidates, models.AlertCandidate{
			Type:    models.AlertTypeWarning,
			Message: fmt.Sprintf("Work Order %s is %d %s overdue!", wo.OrderNumber, days, dayUnit(days)),
			Source:  models.AlertSourceProductionPlanning,
		})
	}

	return candidates
}

// DaysOverdue is the number of started days between due and now, in whole
// milliseconds, rounded up.
func DaysOverdue(due, now time.Time) int64 {
	ms := now.Sub(due).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return (ms + millisPerDay - 1) / millisPerDay
}

func dayUnit(n int64) string {
	if n == 1 {
		return "day"
	}
	return inflection.Plural("day")
}
