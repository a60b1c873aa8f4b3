// Package export renders the analytics report for download.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ekaya-inc/ekaya-mes/pkg/kpi"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// Format is a report encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name; empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown export format %q (want json or xlsx)", s)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json"
}

// Report is the analytics export: windowed KPIs plus collection sizes.
type Report struct {
	DateRange     string        `json:"date_range"`
	KPIs          kpi.Analytics `json:"kpis"`
	WorkOrders    int           `json:"work_orders"`
	QualityChecks int           `json:"quality_checks"`
	Machines      int           `json:"machines"`
	Operators     int           `json:"operators"`
	GeneratedAt   time.Time     `json:"generated_at"`
}

// NewReport computes the report for the window over the snapshot.
func NewReport(s models.Snapshot, w kpi.Window, now time.Time) Report {
	windowed := w.Apply(s)
	return Report{
		DateRange:     fmt.Sprintf("%s to %s", w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly)),
		KPIs:          kpi.ComputeAnalytics(s, w),
		WorkOrders:    len(windowed.WorkOrders),
		QualityChecks: len(windowed.QualityChecks),
		Machines:      len(windowed.Machines),
		Operators:     len(windowed.Operators),
		GeneratedAt:   now.UTC(),
	}
}

// Filename is the download name, stamped with the generation date.
func (r Report) Filename(f Format) string {
	return fmt.Sprintf("mes-analytics-%s.%s", r.GeneratedAt.Format(time.DateOnly), f)
}

// Write encodes the report in the given format.
func Write(w io.Writer, r Report, f Format) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, r)
	default:
		return WriteJSON(w, r)
	}
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
