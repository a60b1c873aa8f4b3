package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/alerts"
	"github.com/ekaya-inc/ekaya-mes/pkg/collections"
	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// manualTicker only fires when the test sends on ch.
type manualTicker struct {
	ch chan time.Time
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }
func (m *manualTicker) Stop()               {}

func setupAlertMonitor(t *testing.T, ts *testSources) (*alertMonitor, *collections.Set, *alerts.Store, *manualTicker) {
	t.Helper()
	set := collections.NewSet(ts.sources(), zap.NewNop())
	store := alerts.NewStore()
	mon := NewAlertMonitor(set, store, zap.NewNop()).(*alertMonitor)
	mon.now = func() time.Time { return fixedNow }
	ticker := &manualTicker{ch: make(chan time.Time)}
	mon.newTicker = func(time.Duration) alerts.Ticker { return ticker }
	return mon, set, store, ticker
}

func TestAlertMonitor_Refresh(t *testing.T) {
	ts := newTestSources()
	ts.machines.items = []models.Machine{{ID: "1", Name: "Press 1", Status: models.MachineStatusError}}
	mon, set, store, _ := setupAlertMonitor(t, ts)
	require.NoError(t, set.LoadAll(context.Background()))

	assert.True(t, mon.Refresh(context.Background()))
	first := store.List()
	require.Len(t, first, 1)
	assert.Equal(t, "Machine Press 1 is in error state!", first[0].Message)

	assert.False(t, mon.Refresh(context.Background()))
	assert.Equal(t, first, store.List())
}

func TestAlertMonitor_SchedulerWaitsForInitialLoad(t *testing.T) {
	ts := newTestSources()
	ts.workOrders.items = []models.WorkOrder{
		{ID: "1", OrderNumber: "WO-1", Status: models.WorkOrderStatusPending, DueDate: fixedNow.Add(-50 * time.Hour)},
	}
	mon, set, store, ticker := setupAlertMonitor(t, ts)

	mon.RunScheduler(context.Background(), time.Minute)
	defer mon.Stop()

	// Nothing runs until every collection has loaded.
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, store.Len())

	require.NoError(t, set.LoadAll(context.Background()))
	require.Eventually(t, func() bool { return store.Len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Contains(t, store.List()[0].Message, "3 days overdue")

	// The order is completed; the next tick clears the alert.
	ts.workOrders.items[0].Status = models.WorkOrderStatusCompleted
	require.NoError(t, set.WorkOrders.Fetch(context.Background()))
	ticker.ch <- fixedNow
	require.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestAlertMonitor_StopWithoutStart(t *testing.T) {
	mon, _, _, _ := setupAlertMonitor(t, newTestSources())
	assert.NotPanics(t, mon.Stop)
}
