package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-mes/pkg/collections"
	"github.com/ekaya-inc/ekaya-mes/pkg/export"
	"github.com/ekaya-inc/ekaya-mes/pkg/kpi"
)

// AnalyticsQuery selects an analytics window. Range empty means the
// configured default; Start and End only apply to the custom range.
type AnalyticsQuery struct {
	Range string
	Start *time.Time
	End   *time.Time
}

// DashboardService computes KPI views over the current collections.
type DashboardService interface {
	Dashboard(ctx context.Context) kpi.Dashboard
	Analytics(ctx context.Context, q AnalyticsQuery) (kpi.Analytics, error)
	Report(ctx context.Context, q AnalyticsQuery) (export.Report, error)

	// Refetch reloads all four collections from the store.
	Refetch(ctx context.Context) error
	CollectionStates() map[string]collections.State

	// Location is the zone analytics windows are resolved in.
	Location() *time.Location
}

type dashboardService struct {
	set          *collections.Set
	location     *time.Location
	defaultRange kpi.Range
	now          func() time.Time
	logger       *zap.Logger
}

func NewDashboardService(set *collections.Set, location *time.Location, defaultRange kpi.Range, logger *zap.Logger) DashboardService {
	if location == nil {
		location = time.UTC
	}
	if defaultRange == "" {
		defaultRange = kpi.Range30d
	}
	return &dashboardService{
		set:          set,
		location:     location,
		defaultRange: defaultRange,
		now:          time.Now,
		logger:       logger.Named("dashboard-service"),
	}
}

var _ DashboardService = (*dashboardService)(nil)

func (s *dashboardService) Dashboard(ctx context.Context) kpi.Dashboard {
	return kpi.ComputeDashboard(s.set.Snapshot(), s.now())
}

func (s *dashboardService) Analytics(ctx context.Context, q AnalyticsQuery) (kpi.Analytics, error) {
	w, err := s.window(q)
	if err != nil {
		return kpi.Analytics{}, err
	}
	return kpi.ComputeAnalytics(s.set.Snapshot(), w), nil
}

func (s *dashboardService) Report(ctx context.Context, q AnalyticsQuery) (export.Report, error) {
	w, err := s.window(q)
	if err != nil {
		return export.Report{}, err
	}
	report := export.NewReport(s.set.Snapshot(), w, s.now())
	s.logger.Info("Generated analytics report",
		zap.String("range", string(w.Range)),
		zap.String("date_range", report.DateRange))
	return report, nil
}

func (s *dashboardService) Refetch(ctx context.Context) error {
	if err := s.set.LoadAll(ctx); err != nil {
		return fmt.Errorf("failed to refetch collections: %w", err)
	}
	return nil
}

func (s *dashboardService) CollectionStates() map[string]collections.State {
	return s.set.States()
}

func (s *dashboardService) Location() *time.Location {
	return s.location
}

func (s *dashboardService) window(q AnalyticsQuery) (kpi.Window, error) {
	r := s.defaultRange
	if q.Range != "" {
		parsed, err := kpi.ParseRange(q.Range)
		if err != nil {
			return kpi.Window{}, apperrors.Validation("%v", err)
		}
		r = parsed
	}
	if r != kpi.RangeCustom && (q.Start != nil || q.End != nil) {
		return kpi.Window{}, apperrors.Validation("start and end require range=custom")
	}

	w := kpi.ResolveWindow(r, s.now(), s.location, q.Start, q.End)
	if w.End.Before(w.Start) {
		return kpi.Window{}, apperrors.Validation("end date is before start date")
	}
	return w, nil
}
