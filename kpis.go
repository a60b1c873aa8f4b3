package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/ekaya-mes/pkg/kpi"
	"github.com/ekaya-inc/ekaya-mes/pkg/services"
)

var (
	kpisRange  string
	kpisStart  string
	kpisEnd    string
	kpisFormat string
)

func runKPIs(cmd *cobra.Command, args []string) error {
	if kpisFormat != "yaml" && kpisFormat != "json" {
		return fmt.Errorf("unknown format %q (want yaml or json)", kpisFormat)
	}

	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	start, err := parseDateFlag("start", kpisStart, a.cfg.Analytics.Location)
	if err != nil {
		return err
	}
	end, err := parseDateFlag("end", kpisEnd, a.cfg.Analytics.Location)
	if err != nil {
		return err
	}

	set := a.collections()
	if err := set.LoadAll(ctx); err != nil {
		return fmt.Errorf("failed to load collections: %w", err)
	}
	dashboardService := services.NewDashboardService(set, a.cfg.Analytics.Location, kpi.Range(a.cfg.Analytics.DefaultRange), a.logger)

	var out any
	if kpisRange == "" && start == nil && end == nil {
		out = dashboardService.Dashboard(ctx)
	} else {
		analytics, err := dashboardService.Analytics(ctx, services.AnalyticsQuery{Range: kpisRange, Start: start, End: end})
		if err != nil {
			return err
		}
		out = analytics
	}
	return printKPIs(cmd.OutOrStdout(), kpisFormat, out)
}

func printKPIs(w io.Writer, format string, v any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// parseDateFlag reads a date bound in loc, the zone the window is resolved in.
func parseDateFlag(name, value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := kpi.ParseDate(value, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &t, nil
}
