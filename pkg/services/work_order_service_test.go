package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-mes/pkg/collections"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

func setupWorkOrderService(t *testing.T, items ...models.WorkOrder) (WorkOrderService, *mockWorkOrderSource) {
	t.Helper()
	src := newMockWorkOrderSource(items...)
	coll := collections.New("work-orders", src, zap.NewNop())
	require.NoError(t, coll.Fetch(context.Background()))
	return NewWorkOrderService(coll, zap.NewNop()), src
}

func validWorkOrderInput() models.WorkOrderInput {
	now := time.Now()
	return models.WorkOrderInput{
		OrderNumber:     "WO-100",
		ProductName:     "Hinge",
		QuantityPlanned: 50,
		StartDate:       now,
		DueDate:         now.Add(24 * time.Hour),
		AssignedLine:    "Line 1",
	}
}

func TestWorkOrderService_Create_Valid(t *testing.T) {
	svc, src := setupWorkOrderService(t)

	wo, err := svc.Create(context.Background(), validWorkOrderInput())
	require.NoError(t, err)
	assert.Equal(t, "WO-100", wo.OrderNumber)
	assert.Len(t, src.items, 1)

	list, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, wo.ID, list[0].ID)
}

func TestWorkOrderService_Create_MissingFields(t *testing.T) {
	svc, src := setupWorkOrderService(t)

	input := validWorkOrderInput()
	input.OrderNumber = ""
	input.QuantityPlanned = 0

	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "order_number is required")
	assert.Contains(t, err.Error(), "quantity_planned must be at least 1")
	assert.Empty(t, src.items)
}

func TestWorkOrderService_Create_InvalidStatus(t *testing.T) {
	svc, _ := setupWorkOrderService(t)

	input := validWorkOrderInput()
	input.Status = "shipped"

	_, err := svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestWorkOrderService_Create_RemoteErrorWrapped(t *testing.T) {
	svc, src := setupWorkOrderService(t)
	src.err = &apperrors.RemoteError{Message: "duplicate key", Code: "23505"}

	_, err := svc.Create(context.Background(), validWorkOrderInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), "failed to create work order")
}

func TestWorkOrderService_ListByStatus(t *testing.T) {
	svc, _ := setupWorkOrderService(t,
		models.WorkOrder{ID: "1", Status: models.WorkOrderStatusPending},
		models.WorkOrder{ID: "2", Status: models.WorkOrderStatusCompleted},
		models.WorkOrder{ID: "3", Status: models.WorkOrderStatusPending},
	)

	pending, err := svc.List(context.Background(), "pending")
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = svc.List(context.Background(), "bogus")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestWorkOrderService_Get(t *testing.T) {
	svc, _ := setupWorkOrderService(t, models.WorkOrder{ID: "1", OrderNumber: "WO-1"})

	wo, err := svc.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "WO-1", wo.OrderNumber)

	_, err = svc.Get(context.Background(), "2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWorkOrderService_UpdateProduction(t *testing.T) {
	svc, src := setupWorkOrderService(t, models.WorkOrder{ID: "1", QuantityPlanned: 100})

	wo, err := svc.UpdateProduction(context.Background(), "1", 120)
	require.NoError(t, err)
	assert.Equal(t, 120, wo.QuantityCompleted)
	assert.Equal(t, 120, wo.Progress())
	require.NotNil(t, src.lastPatch.QuantityCompleted)
	assert.Nil(t, src.lastPatch.Status)

	cached, err := svc.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 120, cached.QuantityCompleted)
}

func TestWorkOrderService_UpdateProduction_Negative(t *testing.T) {
	svc, _ := setupWorkOrderService(t, models.WorkOrder{ID: "1", QuantityPlanned: 100})

	_, err := svc.UpdateProduction(context.Background(), "1", -5)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestWorkOrderService_Delete(t *testing.T) {
	svc, _ := setupWorkOrderService(t, models.WorkOrder{ID: "1"})

	require.NoError(t, svc.Delete(context.Background(), "1"))
	_, err := svc.Get(context.Background(), "1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = svc.Delete(context.Background(), "1")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
