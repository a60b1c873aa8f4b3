package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-mes/pkg/collections"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// MachineService manages machines, including the inline status and work
// order assignment edits from the machine list.
type MachineService interface {
	List(ctx context.Context, status string) ([]models.Machine, error)
	Get(ctx context.Context, id string) (models.Machine, error)
	Create(ctx context.Context, input models.MachineInput) (models.Machine, error)
	Update(ctx context.Context, id string, patch models.MachinePatch) (models.Machine, error)
	UpdateStatus(ctx context.Context, id string, status models.MachineStatus) (models.Machine, error)
	// AssignWorkOrder sets the current work order; nil detaches it.
	AssignWorkOrder(ctx context.Context, id string, workOrderID *string) (models.Machine, error)
	Delete(ctx context.Context, id string) error
}

type machineService struct {
	entityService[models.Machine, models.MachineInput, models.MachinePatch]
}

func NewMachineService(coll *collections.Machines, logger *zap.Logger) MachineService {
	return &machineService{
		entityService: entityService[models.Machine, models.MachineInput, models.MachinePatch]{
			entity: "machine",
			coll:   coll,
			logger: logger.Named("machine-service"),
		},
	}
}

var _ MachineService = (*machineService)(nil)

func (s *machineService) List(ctx context.Context, status string) ([]models.Machine, error) {
	items := s.coll.Items()
	if status == "" {
		return items, nil
	}
	if !models.ValidMachineStatus(status) {
		return nil, apperrors.Validation("unknown machine status %q", status)
	}

	filtered := make([]models.Machine, 0, len(items))
	for _, m := range items {
		if string(m.Status) == status {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

func (s *machineService) Get(ctx context.Context, id string) (models.Machine, error) {
	return s.get(id)
}

func (s *machineService) Create(ctx context.Context, input models.MachineInput) (models.Machine, error) {
	return s.create(ctx, input)
}

func (s *machineService) Update(ctx context.Context, id string, patch models.MachinePatch) (models.Machine, error) {
	if err := validateOptionalID("current_work_order_id", patch.CurrentWorkOrderID); err != nil {
		return models.Machine{}, err
	}
	return s.update(ctx, id, patch)
}

func (s *machineService) UpdateStatus(ctx context.Context, id string, status models.MachineStatus) (models.Machine, error) {
	if !models.ValidMachineStatus(string(status)) {
		return models.Machine{}, apperrors.Validation("unknown machine status %q", status)
	}
	return s.update(ctx, id, models.MachinePatch{Status: &status})
}

func (s *machineService) AssignWorkOrder(ctx context.Context, id string, workOrderID *string) (models.Machine, error) {
	patch := models.MachinePatch{CurrentWorkOrderID: models.Null[string]()}
	if workOrderID != nil && *workOrderID != "" {
		patch.CurrentWorkOrderID = models.Some(*workOrderID)
	}
	return s.Update(ctx, id, patch)
}

func (s *machineService) Delete(ctx context.Context, id string) error {
	return s.delete(ctx, id)
}

// validateOptionalID rejects a set, non-empty Optional that is not numeric.
func validateOptionalID(field string, o models.Optional[string]) error {
	if !o.Set || o.Value == nil || *o.Value == "" {
		return nil
	}
	if err := validate.Var(*o.Value, "numeric"); err != nil {
		return apperrors.Validation("%s must be a numeric id", field)
	}
	return nil
}
