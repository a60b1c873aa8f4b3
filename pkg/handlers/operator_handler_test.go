package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

func TestOperatorHandler_CreateAndGet(t *testing.T) {
	api := newTestAPI(t)
	api.load(t)

	rec := api.do(t, http.MethodPost, "/api/operators", map[string]any{
		"name": "Ana", "employee_id": "E-1", "shift": "night", "skills": []string{"welding"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var op models.Operator
	decodeData(t, rec, &op)
	assert.Equal(t, models.ShiftNight, op.Shift)

	rec = api.do(t, http.MethodGet, "/api/operators/"+op.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Operator
	decodeData(t, rec, &got)
	assert.Equal(t, "Ana", got.Name)

	rec = api.do(t, http.MethodGet, "/api/operators", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Operator
	decodeData(t, rec, &list)
	assert.Len(t, list, 1)
}

func TestOperatorHandler_CreateValidation(t *testing.T) {
	api := newTestAPI(t)
	api.load(t)

	tests := []struct {
		name    string
		body    map[string]any
		message string
	}{
		{"missing name", map[string]any{"employee_id": "E-2", "shift": "day"}, "name is required"},
		{"missing employee id", map[string]any{"name": "Bo", "shift": "day"}, "employee_id is required"},
		{"unknown shift", map[string]any{"name": "Bo", "employee_id": "E-2", "shift": "weekend"}, "shift must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodPost, "/api/operators", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeData(t, rec, nil)
			assert.Equal(t, "validation_failed", resp.Error)
			assert.Contains(t, resp.Message, tt.message)
		})
	}

	rec := api.do(t, http.MethodPost, "/api/operators", `{"name": "Bo", "rank": 3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeData(t, rec, nil).Error)
}

func TestOperatorHandler_UpdateAssignment(t *testing.T) {
	api := newTestAPI(t)
	assignment := "Line 3"
	api.operators.items = []models.Operator{{ID: "1", Name: "Ana", Shift: models.ShiftDay, CurrentAssignment: &assignment}}
	api.load(t)

	rec := api.do(t, http.MethodPatch, "/api/operators/1", `{"name": "Ana B."}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var op models.Operator
	decodeData(t, rec, &op)
	assert.Equal(t, "Ana B.", op.Name)
	require.NotNil(t, op.CurrentAssignment)

	rec = api.do(t, http.MethodPatch, "/api/operators/1", `{"current_assignment": null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &op)
	assert.Nil(t, op.CurrentAssignment)

	rec = api.do(t, http.MethodPatch, "/api/operators/1", `{"shift": "weekend"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOperatorHandler_MissingOperator(t *testing.T) {
	api := newTestAPI(t)
	api.load(t)

	rec := api.do(t, http.MethodGet, "/api/operators/9", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodPatch, "/api/operators/9", `{"name": "Nobody"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeData(t, rec, nil).Error)

	rec = api.do(t, http.MethodDelete, "/api/operators/9", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOperatorHandler_Delete(t *testing.T) {
	api := newTestAPI(t)
	api.operators.items = []models.Operator{{ID: "1", Name: "Ana"}}
	api.load(t)

	rec := api.do(t, http.MethodDelete, "/api/operators/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/operators/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
