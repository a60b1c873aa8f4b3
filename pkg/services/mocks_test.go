package services

import (
	"context"
	"strconv"

	"github.com/ekaya-inc/ekaya-mes/pkg/apperrors"
	"github.com/ekaya-inc/ekaya-mes/pkg/collections"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// mockSource is an in-memory collection source. build turns a create input
// into a record with the given id, apply applies a patch.
type mockSource[T collections.Keyed, C any, U any] struct {
	items  []T
	err    error
	nextID int
	build  func(id string, input C) T
	apply  func(item T, patch U) T

	lastPatch U
}

func (m *mockSource[T, C, U]) List(ctx context.Context) ([]T, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]T(nil), m.items...), nil
}

func (m *mockSource[T, C, U]) Insert(ctx context.Context, input C) (T, error) {
	var zero T
	if m.err != nil {
		return zero, m.err
	}
	m.nextID++
	item := m.build(strconv.Itoa(100+m.nextID), input)
	m.items = append([]T{item}, m.items...)
	return item, nil
}

func (m *mockSource[T, C, U]) Update(ctx context.Context, id string, patch U) (T, error) {
	var zero T
	if m.err != nil {
		return zero, m.err
	}
	m.lastPatch = patch
	for i, item := range m.items {
		if item.Key() == id {
			m.items[i] = m.apply(item, patch)
			return m.items[i], nil
		}
	}
	return zero, apperrors.ErrNotFound
}

func (m *mockSource[T, C, U]) Delete(ctx context.Context, id string) error {
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

type (
	mockWorkOrderSource    = mockSource[models.WorkOrder, models.WorkOrderInput, models.WorkOrderPatch]
	mockMachineSource      = mockSource[models.Machine, models.MachineInput, models.MachinePatch]
	mockOperatorSource     = mockSource[models.Operator, models.OperatorInput, models.OperatorPatch]
	mockQualityCheckSource = mockSource[models.QualityCheck, models.QualityCheckInput, models.QualityCheckPatch]
)

func newMockWorkOrderSource(items ...models.WorkOrder) *mockWorkOrderSource {
	return &mockWorkOrderSource{
		items: items,
		build: func(id string, in models.WorkOrderInput) models.WorkOrder {
			return models.WorkOrder{
				ID: id, OrderNumber: in.OrderNumber, ProductName: in.ProductName,
				QuantityPlanned: in.QuantityPlanned, QuantityCompleted: in.QuantityCompleted,
				Status: in.Status, Priority: in.Priority, StartDate: in.StartDate, DueDate: in.DueDate,
				AssignedLine: in.AssignedLine,
			}
		},
		apply: func(wo models.WorkOrder, p models.WorkOrderPatch) models.WorkOrder {
			if p.QuantityCompleted != nil {
				wo.QuantityCompleted = *p.QuantityCompleted
			}
			if p.Status != nil {
				wo.Status = *p.Status
			}
			if p.ProductName != nil {
				wo.ProductName = *p.ProductName
			}
			return wo
		},
	}
}

func newMockMachineSource(items ...models.Machine) *mockMachineSource {
	return &mockMachineSource{
		items: items,
		build: func(id string, in models.MachineInput) models.Machine {
			return models.Machine{
				ID: id, Name: in.Name, Type: in.Type, Status: in.Status,
				CurrentWorkOrderID: in.CurrentWorkOrderID, Efficiency: in.Efficiency, Location: in.Location,
			}
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
	}
}

func newMockOperatorSource(items ...models.Operator) *mockOperatorSource {
	return &mockOperatorSource{
		items: items,
		build: func(id string, in models.OperatorInput) models.Operator {
			return models.Operator{ID: id, Name: in.Name, EmployeeID: in.EmployeeID, Shift: in.Shift, Skills: in.Skills}
		},
		apply: func(op models.Operator, p models.OperatorPatch) models.Operator {
			if p.Name != nil {
				op.Name = *p.Name
			}
			return op
		},
	}
}

func newMockQualityCheckSource(items ...models.QualityCheck) *mockQualityCheckSource {
	return &mockQualityCheckSource{
		items: items,
		build: func(id string, in models.QualityCheckInput) models.QualityCheck {
			return models.QualityCheck{
				ID: id, WorkOrderID: in.WorkOrderID, CheckType: in.CheckType, Result: in.Result,
				InspectorID: in.InspectorID, Notes: in.Notes, CheckedAt: in.CheckedAt,
			}
		},
		apply: func(qc models.QualityCheck, p models.QualityCheckPatch) models.QualityCheck {
			if p.Result != nil {
				qc.Result = *p.Result
			}
			return qc
		},
	}
}

// testSources bundles the four mock sources behind a collections.Set.
type testSources struct {
	workOrders *mockWorkOrderSource
	machines   *mockMachineSource
	operators  *mockOperatorSource
	checks     *mockQualityCheckSource
}

func newTestSources() *testSources {
	return &testSources{
		workOrders: newMockWorkOrderSource(),
		machines:   newMockMachineSource(),
		operators:  newMockOperatorSource(),
		checks:     newMockQualityCheckSource(),
	}
}

func (ts *testSources) sources() collections.Sources {
	return collections.Sources{
		WorkOrders:    ts.workOrders,
		Machines:      ts.machines,
		Operators:     ts.operators,
		QualityChecks: ts.checks,
	}
}
