package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	kpiSheet     = "KPIs"
	summarySheet = "Summary"
)

// WriteXLSX writes the report as a workbook with a KPI sheet and a summary
// sheet.
func WriteXLSX(w io.Writer, r Report) (err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", closeErr)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), kpiSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	k := r.KPIs
	kpiRows := [][]any{
		{"Metric", "Value"},
		{"OEE (%)", k.OEE},
		{"Availability (%)", k.Availability},
		{"Performance (%)", k.Performance},
		{"Quality (%)", k.Quality},
		{"Production Efficiency (%)", k.ProductionEfficiency},
		{"Downtime (%)", k.DowntimePercentage},
		{"Active Work Orders", k.ActiveWorkOrders},
		{"Completed Orders", k.CompletedOrders},
		{"Total Orders", k.TotalOrders},
		{"Active Operators", k.ActiveOperators},
		{"Total Operators", k.TotalOperators},
	}
	if err := writeRows(f, kpiSheet, kpiRows); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	summaryRows := [][]any{
		{"Field", "Value"},
		{"Date Range", r.DateRange},
		{"Range", string(k.Window.Range)},
		{"Work Orders", r.WorkOrders},
		{"Quality Checks", r.QualityChecks},
		{"Machines", r.Machines},
		{"Operators", r.Operators},
		{"Generated At", r.GeneratedAt.Format(time.RFC3339)},
	}
	if err := writeRows(f, summarySheet, summaryRows); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("failed to set cell value: %w", err)
			}
		}
	}
	return nil
}
