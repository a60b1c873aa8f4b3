package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/alerts"
	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// AlertInput is a manually raised alert.
type AlertInput struct {
	Type    models.AlertType `json:"type" validate:"required,oneof=error warning info success"`
	Message string           `json:"message" validate:"required"`
	Source  string           `json:"source"`
}

// AlertView is an alert with its human-readable age.
type AlertView struct {
	models.Alert
	Age string `json:"age"`
}

// AlertFeed is a filtered view of the feed plus stats over the whole feed.
type AlertFeed struct {
	Alerts []AlertView  `json:"alerts"`
	Stats  alerts.Stats `json:"stats"`
}

// AlertService exposes the alert store to the API.
type AlertService interface {
	Feed(ctx context.Context, q alerts.Query) AlertFeed
	Add(ctx context.Context, input AlertInput) (models.Alert, error)
	Remove(ctx context.Context, id string) error
	ClearAll(ctx context.Context)
}

type alertService struct {
	store  *alerts.Store
	now    func() time.Time
	logger *zap.Logger
}

func NewAlertService(store *alerts.Store, logger *zap.Logger) AlertService {
	return &alertService{
		store:  store,
		now:    time.Now,
		logger: logger.Named("alert-service"),
	}
}

var _ AlertService = (*alertService)(nil)

func (s *alertService) Feed(ctx context.Context, q alerts.Query) AlertFeed {
	all := s.store.List()
	now := s.now()

	filtered := alerts.Filter(all, q)
	views := make([]AlertView, len(filtered))
	for i, a := range filtered {
		views[i] = AlertView{Alert: a, Age: alerts.FormatAge(a.Timestamp, now)}
	}
	return AlertFeed{Alerts: views, Stats: alerts.ComputeStats(all)}
}

func (s *alertService) Add(ctx context.Context, input AlertInput) (models.Alert, error) {
	if err := validateStruct(input); err != nil {
		return models.Alert{}, err
	}
	alert := s.store.Add(input.Type, input.Message, input.Source)
	s.logger.Info("Alert added",
		zap.String("id", alert.ID.String()),
		zap.String("type", string(alert.Type)))
	return alert, nil
}

func (s *alertService) Remove(ctx context.Context, id string) error {
	alertID, err := uuid.Parse(id)
	if err != nil {
		return apperrors.Validation("invalid alert id %q", id)
	}
	if !s.store.Remove(alertID) {
		return fmt.Errorf("alert %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (s *alertService) ClearAll(ctx context.Context) {
	s.store.ClearAll()
	s.logger.Info("Alerts cleared")
}
