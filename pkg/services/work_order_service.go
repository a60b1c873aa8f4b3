package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-mes/pkg/collections"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// WorkOrderService manages work orders.
type WorkOrderService interface {
	// List returns work orders, newest first, optionally filtered by status.
	List(ctx context.Context, status string) ([]models.WorkOrder, error)
	Get(ctx context.Context, id string) (models.WorkOrder, error)
	Create(ctx context.Context, input models.WorkOrderInput) (models.WorkOrder, error)
	Update(ctx context.Context, id string, patch models.WorkOrderPatch) (models.WorkOrder, error)
	// UpdateProduction records the completed quantity typed in from the shop floor.
	UpdateProduction(ctx context.Context, id string, quantityCompleted int) (models.WorkOrder, error)
	Delete(ctx context.Context, id string) error
}

type workOrderService struct {
	entityService[models.WorkOrder, models.WorkOrderInput, models.WorkOrderPatch]
}

func NewWorkOrderService(coll *collections.WorkOrders, logger *zap.Logger) WorkOrderService {
	return &workOrderService{
		entityService: entityService[models.WorkOrder, models.WorkOrderInput, models.WorkOrderPatch]{
			entity: "work order",
			coll:   coll,
			logger: logger.Named("work-order-service"),
		},
	}
}

var _ WorkOrderService = (*workOrderService)(nil)

func (s *workOrderService) List(ctx context.Context, status string) ([]models.WorkOrder, error) {
	items := s.coll.Items()
	if status == "" {
		return items, nil
	}
	if !models.ValidWorkOrderStatus(status) {
		return nil, apperrors.Validation("unknown work order status %q", status)
	}

	filtered := make([]models.WorkOrder, 0, len(items))
	for _, wo := range items {
		if string(wo.Status) == status {
			filtered = append(filtered, wo)
		}
	}
	return filtered, nil
}

func (s *workOrderService) Get(ctx context.Context, id string) (models.WorkOrder, error) {
	return s.get(id)
}

func (s *workOrderService) Create(ctx context.Context, input models.WorkOrderInput) (models.WorkOrder, error) {
	return s.create(ctx, input)
}

func (s *workOrderService) Update(ctx context.Context, id string, patch models.WorkOrderPatch) (models.WorkOrder, error) {
	return s.update(ctx, id, patch)
}

func (s *workOrderService) UpdateProduction(ctx context.Context, id string, quantityCompleted int) (models.WorkOrder, error) {
	return s.update(ctx, id, models.WorkOrderPatch{QuantityCompleted: &quantityCompleted})
}

func (s *workOrderService) Delete(ctx context.Context, id string) error {
	return s.delete(ctx, id)
}
