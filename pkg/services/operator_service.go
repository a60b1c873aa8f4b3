package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/collections"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// OperatorService manages operators.
type OperatorService interface {
	List(ctx context.Context) ([]models.Operator, error)
	Get(ctx context.Context, id string) (models.Operator, error)
	Create(ctx context.Context, input models.OperatorInput) (models.Operator, error)
	Update(ctx context.Context, id string, patch models.OperatorPatch) (models.Operator, error)
	Delete(ctx context.Context, id string) error
}

type operatorService struct {
	entityService[models.Operator, models.OperatorInput, models.OperatorPatch]
}

func NewOperatorService(coll *collections.Operators, logger *zap.Logger) OperatorService {
	return &operatorService{
		entityService: entityService[models.Operator, models.OperatorInput, models.OperatorPatch]{
			entity: "operator",
			coll:   coll,
			logger: logger.Named("operator-service"),
		},
	}
}

var _ OperatorService = (*operatorService)(nil)

func (s *operatorService) List(ctx context.Context) ([]models.Operator, error) {
	return s.coll.Items(), nil
}

func (s *operatorService) Get(ctx context.Context, id string) (models.Operator, error) {
	return s.get(id)
}

func (s *operatorService) Create(ctx context.Context, input models.OperatorInput) (models.Operator, error) {
	return s.create(ctx, input)
}

func (s *operatorService) Update(ctx context.Context, id string, patch models.OperatorPatch) (models.Operator, error) {
	return s.update(ctx, id, patch)
}

func (s *operatorService) Delete(ctx context.Context, id string) error {
	return s.delete(ctx, id)
}
