package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-mes/pkg/collections"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

func TestOperatorService_CRUD(t *testing.T) {
	src := newMockOperatorSource()
	coll := collections.New("operators", src, zap.NewNop())
	require.NoError(t, coll.Fetch(context.Background()))
	svc := NewOperatorService(coll, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Create(ctx, models.OperatorInput{Name: "Ana", EmployeeID: "E-1", Shift: "weekend"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, models.OperatorInput{Name: "Ana", EmployeeID: "E-1", Shift: models.ShiftDay, Skills: []string{""}})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	op, err := svc.Create(ctx, models.OperatorInput{Name: "Ana", EmployeeID: "E-1", Shift: models.ShiftNight, Skills: []string{"welding"}})
	require.NoError(t, err)

	name := "Ana B."
	updated, err := svc.Update(ctx, op.ID, models.OperatorPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ana B.", updated.Name)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, op.ID))
	_, err = svc.Get(ctx, op.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
