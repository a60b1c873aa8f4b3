package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/collections"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// QualityCheckService manages quality checks.
type QualityCheckService interface {
	// List returns checks, most recent first, optionally for one work order.
	List(ctx context.Context, workOrderID string) ([]models.QualityCheck, error)
	Get(ctx context.Context, id string) (models.QualityCheck, error)
	Create(ctx context.Context, input models.QualityCheckInput) (models.QualityCheck, error)
	Update(ctx context.Context, id string, patch models.QualityCheckPatch) (models.QualityCheck, error)
	Delete(ctx context.Context, id string) error
}

type qualityCheckService struct {
	entityService[models.QualityCheck, models.QualityCheckInput, models.QualityCheckPatch]
}

func NewQualityCheckService(coll *collections.QualityChecks, logger *zap.Logger) QualityCheckService {
	return &qualityCheckService{
		entityService: entityService[models.QualityCheck, models.QualityCheckInput, models.QualityCheckPatch]{
			entity: "quality check",
			coll:   coll,
			logger: logger.Named("quality-check-service"),
		},
	}
}

var _ QualityCheckService = (*qualityCheckService)(nil)

func (s *qualityCheckService) List(ctx context.Context, workOrderID string) ([]models.QualityCheck, error) {
	items := s.coll.Items()
	if workOrderID == "" {
		return items, nil
	}

	filtered := make([]models.QualityCheck, 0)
	for _, qc := range items {
		if qc.WorkOrderID == workOrderID {
			filtered = append(filtered, qc)
		}
	}
	return filtered, nil
}

func (s *qualityCheckService) Get(ctx context.Context, id string) (models.QualityCheck, error) {
	return s.get(id)
}

func (s *qualityCheckService) Create(ctx context.Context, input models.QualityCheckInput) (models.QualityCheck, error) {
	return s.create(ctx, input)
}

func (s *qualityCheckService) Update(ctx context.Context, id string, patch models.QualityCheckPatch) (models.QualityCheck, error) {
	return s.update(ctx, id, patch)
}

func (s *qualityCheckService) Delete(ctx context.Context, id string) error {
	return s.delete(ctx, id)
}
