package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/alerts"
	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-mes/pkg/collections"
	"github.com/ekaya-inc/ekaya-mes/pkg/config"
	"github.com/ekaya-inc/ekaya-mes/pkg/kpi"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
	"github.com/ekaya-inc/ekaya-mes/pkg/services"
)

// memSource is an in-memory collection source. build turns a create input
// into a record and apply merges a patch.
type memSource[T collections.Keyed, C any, U any] struct {
	items  []T
	err    error
	nextID int
	build  func(id string, input C) T
	apply  func(item T, patch U) T
}

func (m *memSource[T, C, U]) List(ctx context.Context) ([]T, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]T(nil), m.items...), nil
}

func (m *memSource[T, C, U]) Insert(ctx context.Context, input C) (T, error) {
	var zero T
	if m.err != nil {
		return zero, m.err
	}
	m.nextID++
	item := m.build(strconv.Itoa(m.nextID), input)
	m.items = append([]T{item}, m.items...)
	return item, nil
}

func (m *memSource[T, C, U]) Update(ctx context.Context, id string, patch U) (T, error) {
	var zero T
	if m.err != nil {
		return zero, m.err
	}
	for i, item := range m.items {
		if item.Key() == id {
			m.items[i] = m.apply(item, patch)
			return m.items[i], nil
		}
	}
	return zero, apperrors.ErrNotFound
}

func (m *memSource[T, C, U]) Delete(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	for i, item := range m.items {
		if item.Key() == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// testAPI is the full HTTP surface over in-memory sources.
type testAPI struct {
	mux        *http.ServeMux
	set        *collections.Set
	store      *alerts.Store
	workOrders *memSource[models.WorkOrder, models.WorkOrderInput, models.WorkOrderPatch]
	machines   *memSource[models.Machine, models.MachineInput, models.MachinePatch]
	operators  *memSource[models.Operator, models.OperatorInput, models.OperatorPatch]
	checks     *memSource[models.QualityCheck, models.QualityCheckInput, models.QualityCheckPatch]
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	api := &testAPI{
		store: alerts.NewStore(),
		workOrders: &memSource[models.WorkOrder, models.WorkOrderInput, models.WorkOrderPatch]{
			build: func(id string, in models.WorkOrderInput) models.WorkOrder {
				return models.WorkOrder{
					ID: id, OrderNumber: in.OrderNumber, ProductName: in.ProductName,
					QuantityPlanned: in.QuantityPlanned, QuantityCompleted: in.QuantityCompleted,
					Status: in.Status, Priority: in.Priority, StartDate: in.StartDate, DueDate: in.DueDate,
					AssignedLine: in.AssignedLine, CreatedAt: time.Now(), UpdatedAt: time.Now(),
				}
			},
			apply: func(wo models.WorkOrder, p models.WorkOrderPatch) models.WorkOrder {
				if p.QuantityCompleted != nil {
					wo.QuantityCompleted = *p.QuantityCompleted
				}
				if p.Status != nil {
					wo.Status = *p.Status
				}
				return wo
			},
		},
		machines: &memSource[models.Machine, models.MachineInput, models.MachinePatch]{
			build: func(id string, in models.MachineInput) models.Machine {
				return models.Machine{ID: id, Name: in.Name, Type: in.Type, Status: in.Status, Location: in.Location}
			},
			apply: func(m models.Machine, p models.MachinePatch) models.Machine {
				if p.Status != nil {
					m.Status = *p.Status
				}
				if p.CurrentWorkOrderID.Set {
					m.CurrentWorkOrderID = p.CurrentWorkOrderID.Value
				}
				return m
			},
		},
		operators: &memSource[models.Operator, models.OperatorInput, models.OperatorPatch]{
			build: func(id string, in models.OperatorInput) models.Operator {
				return models.Operator{ID: id, Name: in.Name, EmployeeID: in.EmployeeID, Shift: in.Shift, Skills: in.Skills}
			},
			apply: func(op models.Operator, p models.OperatorPatch) models.Operator {
				if p.Name != nil {
					op.Name = *p.Name
				}
				if p.CurrentAssignment.Set {
					op.CurrentAssignment = p.CurrentAssignment.Value
				}
				return op
			},
		},
		checks: &memSource[models.QualityCheck, models.QualityCheckInput, models.QualityCheckPatch]{
			build: func(id string, in models.QualityCheckInput) models.QualityCheck {
				return models.QualityCheck{ID: id, WorkOrderID: in.WorkOrderID, CheckType: in.CheckType, Result: in.Result, CheckedAt: in.CheckedAt}
			},
			apply: func(qc models.QualityCheck, p models.QualityCheckPatch) models.QualityCheck {
				if p.Result != nil {
					qc.Result = *p.Result
				}
				return qc
			},
		},
	}
	api.set = collections.NewSet(collections.Sources{
		WorkOrders:    api.workOrders,
		Machines:      api.machines,
		Operators:     api.operators,
		QualityChecks: api.checks,
	}, zap.NewNop())

	logger := zap.NewNop()
	dashboard := services.NewDashboardService(api.set, time.UTC, kpi.Range30d, logger)
	monitor := services.NewAlertMonitor(api.set, api.store, logger)

	api.mux = http.NewServeMux()
	NewHealthHandler(&config.Config{Version: "test", Env: "test"}, dashboard, logger).RegisterRoutes(api.mux)
	NewWorkOrderHandler(services.NewWorkOrderService(api.set.WorkOrders, logger), logger).RegisterRoutes(api.mux)
	NewMachineHandler(services.NewMachineService(api.set.Machines, logger), logger).RegisterRoutes(api.mux)
	NewOperatorHandler(services.NewOperatorService(api.set.Operators, logger), logger).RegisterRoutes(api.mux)
	NewQualityCheckHandler(services.NewQualityCheckService(api.set.QualityChecks, logger), logger).RegisterRoutes(api.mux)
	NewDashboardHandler(dashboard, logger).RegisterRoutes(api.mux)
	NewAlertHandler(services.NewAlertService(api.store, logger), monitor, logger).RegisterRoutes(api.mux)
	return api
}

// load fetches every collection from the sources.
func (api *testAPI) load(t *testing.T) {
	t.Helper()
	require.NoError(t, api.set.LoadAll(context.Background()))
}

func (api *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	rec := httptest.NewRecorder()
	api.mux.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
	return rec
}

// decodeData unmarshals the data field of an ApiResponse into v.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) ApiResponse {
	t.Helper()
	var envelope struct {
		ApiResponse
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	if v != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, v))
	}
	return envelope.ApiResponse
}
