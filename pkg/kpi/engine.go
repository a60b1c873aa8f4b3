// Package kpi derives operational KPIs from a snapshot of the domain
// collections. Every function here is pure: no I/O and no retained state.
package kpi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

var (
	hundred         = decimal.NewFromInt(100)
	tenThousand     = decimal.NewFromInt(10000)
	hoursPerDay     = decimal.NewFromInt(24)
	minutesPerPoint = decimal.RequireFromString("4.8")
)

// Dashboard is the headline KPI set shown on the live dashboard.
type Dashboard struct {
	OEE                float64 `json:"oee" yaml:"oee"`
	Availability       float64 `json:"availability" yaml:"availability"`
	AvgEfficiency      float64 `json:"avg_efficiency" yaml:"avg_efficiency"`
	QualityRate        float64 `json:"quality_rate" yaml:"quality_rate"`
	ActiveWorkOrders   int     `json:"active_work_orders" yaml:"active_work_orders"`
	ProductionRate     int64   `json:"production_rate" yaml:"production_rate"`
	DowntimePercentage float64 `json:"downtime_percentage" yaml:"downtime_percentage"`
	DowntimeMinutes    int64   `json:"downtime_minutes" yaml:"downtime_minutes"`
	ActiveAlerts       int     `json:"active_alerts" yaml:"active_alerts"`
}

// Analytics is the KPI set for a date window. Machines and operators are
// never windowed, so only the order and quality figures depend on Window.
type Analytics struct {
	Window               Window  `json:"window" yaml:"window"`
	OEE                  float64 `json:"oee" yaml:"oee"`
	Availability         float64 `json:"availability" yaml:"availability"`
	Performance          float64 `json:"performance" yaml:"performance"`
	Quality              float64 `json:"quality" yaml:"quality"`
	ProductionEfficiency float64 `json:"production_efficiency" yaml:"production_efficiency"`
	ActiveWorkOrders     int     `json:"active_work_orders" yaml:"active_work_orders"`
	CompletedOrders      int     `json:"completed_orders" yaml:"completed_orders"`
	TotalOrders          int     `json:"total_orders" yaml:"total_orders"`
	DowntimePercentage   float64 `json:"downtime_percentage" yaml:"downtime_percentage"`
	ActiveOperators      int     `json:"active_operators" yaml:"active_operators"`
	TotalOperators       int     `json:"total_operators" yaml:"total_operators"`
}

// ComputeDashboard folds the full snapshot into dashboard KPIs. The quality
// rate uses the optimistic convention: no checks reads as 100.
func ComputeDashboard(s models.Snapshot, now time.Time) Dashboard {
	availability := Availability(s.Machines)
	performance := Performance(s.Machines)
	quality := QualityRateOptimistic(s.QualityChecks)
	downtime := DowntimePercentage(s.Machines)

	return Dashboard{
		OEE:                Round1(OEE(availability, performance, quality)),
		Availability:       Round1(availability),
		AvgEfficiency:      Round1(performance),
		QualityRate:        Round1(quality),
		ActiveWorkOrders:   ActiveWorkOrders(s.WorkOrders),
		ProductionRate:     ProductionRate(s.WorkOrders, now),
		DowntimePercentage: Round1(downtime),
		DowntimeMinutes:    downtime.Mul(minutesPerPoint).Round(0).IntPart(),
		ActiveAlerts:       countMachines(s.Machines, models.MachineStatusError) + countChecks(s.QualityChecks, models.QualityResultFail),
	}
}

// ComputeAnalytics computes KPIs over the window. The quality rate uses the
// strict convention: no checks in the window reads as 0.
func ComputeAnalytics(s models.Snapshot, w Window) Analytics {
	windowed := w.Apply(s)

	availability := Availability(windowed.Machines)
	performance := Performance(windowed.Machines)
	quality := QualityRateStrict(windowed.QualityChecks)

	completed := 0
	for _, wo := range windowed.WorkOrders {
		if wo.IsCompleted() {
			completed++
		}
	}
	activeOperators := 0
	for _, op := range windowed.Operators {
		if op.IsAssigned() {
			activeOperators++
		}
	}

	return Analytics{
		Window:               w,
		OEE:                  Round1(OEE(availability, performance, quality)),
		Availability:         Round1(availability),
		Performance:          Round1(performance),
		Quality:              Round1(quality),
		ProductionEfficiency: Round1(ProductionEfficiency(windowed.WorkOrders)),
		ActiveWorkOrders:     ActiveWorkOrders(windowed.WorkOrders),
		CompletedOrders:      completed,
		TotalOrders:          len(windowed.WorkOrders),
		DowntimePercentage:   Round1(DowntimePercentage(windowed.Machines)),
		ActiveOperators:      activeOperators,
		TotalOperators:       len(windowed.Operators),
	}
}

// Availability is the share of machines currently running; 0 with no machines.
func Availability(machines []models.Machine) decimal.Decimal {
	return percentOf(countMachines(machines, models.MachineStatusRunning), len(machines))
}

// Performance is the mean machine efficiency; 0 with no machines.
func Performance(machines []models.Machine) decimal.Decimal {
	if len(machines) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, m := range machines {
		sum = sum.Add(decimal.NewFromFloat(m.Efficiency))
	}
	return sum.Div(decimal.NewFromInt(int64(len(machines))))
}

// QualityRateOptimistic is the pass share of checks, 100 when there are none.
func QualityRateOptimistic(checks []models.QualityCheck) decimal.Decimal {
	if len(checks) == 0 {
		return hundred
	}
	return percentOf(countChecks(checks, models.QualityResultPass), len(checks))
}

// QualityRateStrict is the pass share of checks, 0 when there are none.
func QualityRateStrict(checks []models.QualityCheck) decimal.Decimal {
	return percentOf(countChecks(checks, models.QualityResultPass), len(checks))
}

// OEE combines the three percentage factors into a percentage.
func OEE(availability, performance, quality decimal.Decimal) decimal.Decimal {
	return availability.Mul(performance).Mul(quality).Div(tenThousand)
}

// ProductionEfficiency is completed over planned quantity. It is not clamped,
// so over-production reports more than 100.
func ProductionEfficiency(orders []models.WorkOrder) decimal.Decimal {
	var planned, completed int64
	for _, wo := range orders {
		planned += int64(wo.QuantityPlanned)
		completed += int64(wo.QuantityCompleted)
	}
	if planned == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(completed).Mul(hundred).Div(decimal.NewFromInt(planned))
}

// DowntimePercentage is the share of machines in error or maintenance.
func DowntimePercentage(machines []models.Machine) decimal.Decimal {
	down := 0
	for _, m := range machines {
		if m.IsDown() {
			down++
		}
	}
	return percentOf(down, len(machines))
}

// ActiveWorkOrders counts orders that are not completed.
func ActiveWorkOrders(orders []models.WorkOrder) int {
	n := 0
	for _, wo := range orders {
		if !wo.IsCompleted() {
			n++
		}
	}
	return n
}

// ProductionRate is the hourly run-rate over the last 24 hours: completed
// quantity of orders that reached completed and were updated in that span.
func ProductionRate(orders []models.WorkOrder, now time.Time) int64 {
	since := now.Add(-24 * time.Hour)
	var sum int64
	for _, wo := range orders {
		if wo.IsCompleted() && !wo.UpdatedAt.Before(since) {
			sum += int64(wo.QuantityCompleted)
		}
	}
	return decimal.NewFromInt(sum).Div(hoursPerDay).Round(0).IntPart()
}

// Round1 rounds half away from zero to one decimal place.
func Round1(d decimal.Decimal) float64 {
	return d.Round(1).InexactFloat64()
}

func percentOf(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(total)))
}

func countMachines(machines []models.Machine, status models.MachineStatus) int {
	n := 0
	for _, m := range machines {
		if m.Status == status {
			n++
		}
	}
	return n
}

func countChecks(checks []models.QualityCheck, result models.QualityResult) int {
	n := 0
	for _, qc := range checks {
		if qc.Result == result {
			n++
		}
	}
	return n
}
