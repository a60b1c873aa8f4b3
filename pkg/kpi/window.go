package kpi

import (
	"fmt"
	"time"

	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// Range is a named analytics date window.
type Range string

const (
	Range7d     Range = "7d"
	Range30d    Range = "30d"
	Range90d    Range = "90d"
	RangeCustom Range = "custom"
)

var rangeDays = map[Range]int{
	Range7d:  7,
	Range30d: 30,
	Range90d: 90,
}

// ParseRange validates a range name.
func ParseRange(s string) (Range, error) {
	r := Range(s)
	if _, ok := rangeDays[r]; ok || r == RangeCustom {
		return r, nil
	}
	return "", fmt.Errorf("unknown range %q (want 7d, 30d, 90d or custom)", s)
}

// ParseDate reads a window bound as an RFC 3339 timestamp or a plain date
// (YYYY-MM-DD). Plain dates are midnight in loc, so the bound stays on the
// calendar day that was asked for.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("want a date (YYYY-MM-DD) or RFC 3339 timestamp, got %q", raw)
}

// Window is an inclusive time interval used to filter work orders by
// created_at and quality checks by checked_at.
type Window struct {
	Range Range     `json:"range" yaml:"range"`
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// ResolveWindow turns a range into concrete day boundaries in loc.
// Presets span from the start of the day N days ago to the end of today.
// For custom ranges a nil start or end falls back to the 30-day start or the
// end of today.
func ResolveWindow(r Range, now time.Time, loc *time.Location, customStart, customEnd *time.Time) Window {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	end := endOfDay(now)

	var start time.Time
	switch r {
	case RangeCustom:
		start = startOfDay(now.AddDate(0, 0, -rangeDays[Range30d]))
		if customStart != nil {
			start = startOfDay(customStart.In(loc))
		}
		if customEnd != nil {
			end = endOfDay(customEnd.In(loc))
		}
	default:
		days, ok := rangeDays[r]
		if !ok {
			r, days = Range30d, rangeDays[Range30d]
		}
		start = startOfDay(now.AddDate(0, 0, -days))
	}

	return Window{Range: r, Start: start, End: end}
}

// Contains reports whether t falls within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Apply returns a snapshot with work orders and quality checks restricted to
// the window.
func (w Window) Apply(s models.Snapshot) models.Snapshot {
	out := models.Snapshot{
		Machines:      s.Machines,
		Operators:     s.Operators,
		WorkOrders:    make([]models.WorkOrder, 0, len(s.WorkOrders)),
		QualityChecks: make([]models.QualityCheck, 0, len(s.QualityChecks)),
	}
	for _, wo := range s.WorkOrders {
		if w.Contains(wo.CreatedAt) {
			out.WorkOrders = append(out.WorkOrders, wo)
		}
	}
	for _, qc := range s.QualityChecks {
		if w.Contains(qc.CheckedAt) {
			out.QualityChecks = append(out.QualityChecks, qc)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
