package collections

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ekaya-inc/ekaya-mes/pkg/models"
	"github.com/ekaya-inc/ekaya-mes/pkg/repositories"
)

type (
	WorkOrders    = Collection[models.WorkOrder, models.WorkOrderInput, models.WorkOrderPatch]
	Machines      = Collection[models.Machine, models.MachineInput, models.MachinePatch]
	Operators     = Collection[models.Operator, models.OperatorInput, models.OperatorPatch]
	QualityChecks = Collection[models.QualityCheck, models.QualityCheckInput, models.QualityCheckPatch]
)

// Sources bundles the remote stores for the four collections.
type Sources struct {
	WorkOrders    Source[models.WorkOrder, models.WorkOrderInput, models.WorkOrderPatch]
	Machines      Source[models.Machine, models.MachineInput, models.MachinePatch]
	Operators     Source[models.Operator, models.OperatorInput, models.OperatorPatch]
	QualityChecks Source[models.QualityCheck, models.QualityCheckInput, models.QualityCheckPatch]
}

// SourcesFromDB wires the Postgres repositories as collection sources.
func SourcesFromDB(
	workOrders repositories.WorkOrderRepository,
	machines repositories.MachineRepository,
	operators repositories.OperatorRepository,
	checks repositories.QualityCheckRepository,
) Sources {
	return Sources{
		WorkOrders:    workOrders,
		Machines:      machines,
		Operators:     operators,
		QualityChecks: checks,
	}
}

// Set is the four domain collections the dashboard works from.
type Set struct {
	WorkOrders    *WorkOrders
	Machines      *Machines
	Operators     *Operators
	QualityChecks *QualityChecks

	logger *zap.Logger
}

// NewSet creates empty collections over the given sources.
func NewSet(sources Sources, logger *zap.Logger) *Set {
	return &Set{
		WorkOrders:    New("work-orders", sources.WorkOrders, logger),
		Machines:      New("machines", sources.Machines, logger),
		Operators:     New("operators", sources.Operators, logger),
		QualityChecks: New("quality-checks", sources.QualityChecks, logger),
		logger:        logger.Named("collections"),
	}
}

// LoadAll fetches the four collections concurrently. A failure in one does
// not stop the others; the first error is returned.
func (s *Set) LoadAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.WorkOrders.Fetch(ctx) })
	g.Go(func() error { return s.Machines.Fetch(ctx) })
	g.Go(func() error { return s.Operators.Fetch(ctx) })
	g.Go(func() error { return s.QualityChecks.Fetch(ctx) })

	err := g.Wait()
	if err != nil {
		s.logger.Warn("Collections loaded with errors", zap.Error(err))
	} else {
		s.logger.Info("Collections loaded",
			zap.Int("work_orders", s.WorkOrders.State().Count),
			zap.Int("machines", s.Machines.State().Count),
			zap.Int("operators", s.Operators.State().Count),
			zap.Int("quality_checks", s.QualityChecks.State().Count))
	}
	return err
}

// WaitReady blocks until every collection finished its initial load.
func (s *Set) WaitReady(ctx context.Context) error {
	for _, ready := range []<-chan struct{}{
		s.WorkOrders.Ready(),
		s.Machines.Ready(),
		s.Operators.Ready(),
		s.QualityChecks.Ready(),
	} {
		select {
		case <-ready:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Snapshot copies each collection under its own read lock.
func (s *Set) Snapshot() models.Snapshot {
	return models.Snapshot{
		WorkOrders:    s.WorkOrders.Items(),
		Machines:      s.Machines.Items(),
		Operators:     s.Operators.Items(),
		QualityChecks: s.QualityChecks.Items(),
	}
}

// States reports the load status of every collection keyed by name.
func (s *Set) States() map[string]State {
	return map[string]State{
		s.WorkOrders.Name():    s.WorkOrders.State(),
		s.Machines.Name():      s.Machines.State(),
		s.Operators.Name():     s.Operators.State(),
		s.QualityChecks.Name(): s.QualityChecks.State(),
	}
}
