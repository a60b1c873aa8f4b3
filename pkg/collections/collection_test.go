package collections

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// mockOperatorSource is an in-memory Source for operators.
type mockOperatorSource struct {
	mu        sync.Mutex
	listed    []models.Operator
	listErr   error
	insertErr error
	updateErr error
	deleteErr error
	nextID    int
	// block, when set, holds List until released; entered is closed first.
	block   chan struct{}
	entered chan struct{}
}

func (m *mockOperatorSource) List(ctx context.Context) ([]models.Operator, error) {
	m.mu.Lock()
	block := m.block
	listed, err := m.listed, m.listErr
	m.mu.Unlock()
	if block != nil {
		close(m.entered)
		<-block
	}
	if err != nil {
		return nil, err
	}
	out := make([]models.Operator, len(listed))
	copy(out, listed)
	return out, nil
}

func (m *mockOperatorSource) Insert(ctx context.Context, input models.OperatorInput) (models.Operator, error) {
	if m.insertErr != nil {
		return models.Operator{}, m.insertErr
	}
	m.nextID++
	return models.Operator{
		ID:         string(rune('0' + m.nextID)),
		Name:       input.Name,
		EmployeeID: input.EmployeeID,
		Shift:      input.Shift,
		Skills:     input.Skills,
	}, nil
}

func (m *mockOperatorSource) Update(ctx context.Context, id string, patch models.OperatorPatch) (models.Operator, error) {
	if m.updateErr != nil {
		return models.Operator{}, m.updateErr
	}
	op := models.Operator{ID: id}
	if patch.Name != nil {
		op.Name = *patch.Name
	}
	return op, nil
}

func (m *mockOperatorSource) Delete(ctx context.Context, id string) error {
	return m.deleteErr
}

func newOperators(src *mockOperatorSource) *Operators {
	return New("operators", src, zap.NewNop())
}

func TestCollection_FetchPopulates(t *testing.T) {
	src := &mockOperatorSource{listed: []models.Operator{{ID: "1", Name: "Ana"}, {ID: "2", Name: "Ben"}}}
	c := newOperators(src)

	require.NoError(t, c.Fetch(context.Background()))

	assert.Len(t, c.Items(), 2)
	state := c.State()
	assert.True(t, state.Loaded)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Equal(t, 2, state.Count)

	op, ok := c.Get("2")
	require.True(t, ok)
	assert.Equal(t, "Ben", op.Name)

	_, ok = c.Get("3")
	assert.False(t, ok)
}

func TestCollection_FetchFailureReadsEmpty(t *testing.T) {
	src := &mockOperatorSource{listed: []models.Operator{{ID: "1"}}}
	c := newOperators(src)
	require.NoError(t, c.Fetch(context.Background()))

	src.listErr = errors.New("connection refused")
	err := c.Fetch(context.Background())
	require.Error(t, err)

	assert.Empty(t, c.Items())
	state := c.State()
	assert.False(t, state.Loaded)
	assert.Equal(t, "connection refused", state.Error)

	select {
	case <-c.Ready():
	default:
		t.Fatal("collection should be ready after a failed fetch")
	}
}

func TestCollection_ReadyOnlyAfterFirstFetch(t *testing.T) {
	c := newOperators(&mockOperatorSource{})

	select {
	case <-c.Ready():
		t.Fatal("collection should not be ready before fetching")
	default:
	}

	require.NoError(t, c.Fetch(context.Background()))
	<-c.Ready()
}

func TestCollection_StaleFetchDiscarded(t *testing.T) {
	src := &mockOperatorSource{
		listed:  []models.Operator{{ID: "old"}},
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	c := newOperators(src)

	done := make(chan struct{})
	go func() {
		_ = c.Fetch(context.Background())
		close(done)
	}()

	select {
	case <-src.entered:
	case <-time.After(time.Second):
		t.Fatal("first fetch never reached the source")
	}

	src.mu.Lock()
	release := src.block
	src.block = nil
	src.listed = []models.Operator{{ID: "new"}}
	src.mu.Unlock()

	require.NoError(t, c.Fetch(context.Background()))
	close(release)
	<-done

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "new", items[0].ID)
}

// startBlockedFetch runs Fetch in the background and returns once it is
// parked inside List, with a release func that lets it finish.
func startBlockedFetch(t *testing.T, c *Operators, src *mockOperatorSource) func() {
	t.Helper()
	src.block = make(chan struct{})
	src.entered = make(chan struct{})

	done := make(chan struct{})
	go func() {
		_ = c.Fetch(context.Background())
		close(done)
	}()

	select {
	case <-src.entered:
	case <-time.After(time.Second):
		t.Fatal("fetch never reached the source")
	}

	src.mu.Lock()
	release := src.block
	src.block = nil
	src.mu.Unlock()

	return func() {
		close(release)
		<-done
	}
}

func TestCollection_MutationsDuringFetchSurvive(t *testing.T) {
	src := &mockOperatorSource{listed: []models.Operator{{ID: "7", Name: "Old"}, {ID: "8", Name: "Gone"}}}
	c := newOperators(src)

	finish := startBlockedFetch(t, c, src)

	created, err := c.Create(context.Background(), models.OperatorInput{Name: "Ana", Shift: models.ShiftDay})
	require.NoError(t, err)
	name := "Renamed"
	_, err = c.Update(context.Background(), "7", models.OperatorPatch{Name: &name})
	require.NoError(t, err)
	require.NoError(t, c.Delete(context.Background(), "8"))

	finish()

	got, ok := c.Get(created.ID)
	require.True(t, ok, "created operator lost when the fetch landed")
	assert.Equal(t, "Ana", got.Name)

	updated, ok := c.Get("7")
	require.True(t, ok)
	assert.Equal(t, "Renamed", updated.Name)

	_, ok = c.Get("8")
	assert.False(t, ok)
	assert.Len(t, c.Items(), 2)
	assert.True(t, c.State().Loaded)
}

func TestCollection_CreateDuringFetchNotDuplicated(t *testing.T) {
	// The listing already includes the row the concurrent create inserts.
	src := &mockOperatorSource{listed: []models.Operator{{ID: "1", Name: "Ana"}}}
	c := newOperators(src)

	finish := startBlockedFetch(t, c, src)
	created, err := c.Create(context.Background(), models.OperatorInput{Name: "Ana"})
	require.NoError(t, err)
	require.Equal(t, "1", created.ID)
	finish()

	assert.Len(t, c.Items(), 1)
}

func TestCollection_CreatePrepends(t *testing.T) {
	src := &mockOperatorSource{listed: []models.Operator{{ID: "9", Name: "Existing"}}}
	c := newOperators(src)
	require.NoError(t, c.Fetch(context.Background()))

	op, err := c.Create(context.Background(), models.OperatorInput{Name: "Ana", Shift: models.ShiftDay})
	require.NoError(t, err)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, op.ID, items[0].ID)
	assert.Equal(t, "9", items[1].ID)
}

func TestCollection_FailedMutationsLeaveItemsUnchanged(t *testing.T) {
	boom := errors.New("boom")
	src := &mockOperatorSource{
		listed:    []models.Operator{{ID: "1", Name: "Ana"}},
		insertErr: boom,
		updateErr: boom,
		deleteErr: boom,
	}
	c := newOperators(src)
	require.NoError(t, c.Fetch(context.Background()))
	before := c.Items()

	_, err := c.Create(context.Background(), models.OperatorInput{Name: "Ben"})
	assert.ErrorIs(t, err, boom)

	name := "Changed"
	_, err = c.Update(context.Background(), "1", models.OperatorPatch{Name: &name})
	assert.ErrorIs(t, err, boom)

	assert.ErrorIs(t, c.Delete(context.Background(), "1"), boom)

	assert.Equal(t, before, c.Items())
}

func TestCollection_UpdateReplacesInPlace(t *testing.T) {
	src := &mockOperatorSource{listed: []models.Operator{{ID: "1", Name: "Ana"}, {ID: "2", Name: "Ben"}}}
	c := newOperators(src)
	require.NoError(t, c.Fetch(context.Background()))

	name := "Bea"
	_, err := c.Update(context.Background(), "2", models.OperatorPatch{Name: &name})
	require.NoError(t, err)

	items := c.Items()
	assert.Equal(t, "Ana", items[0].Name)
	assert.Equal(t, "Bea", items[1].Name)
}

func TestCollection_DeleteFilters(t *testing.T) {
	src := &mockOperatorSource{listed: []models.Operator{{ID: "1"}, {ID: "2"}, {ID: "3"}}}
	c := newOperators(src)
	require.NoError(t, c.Fetch(context.Background()))

	require.NoError(t, c.Delete(context.Background(), "2"))

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "3", items[1].ID)
}

func TestCollection_ItemsIsACopy(t *testing.T) {
	src := &mockOperatorSource{listed: []models.Operator{{ID: "1", Name: "Ana"}}}
	c := newOperators(src)
	require.NoError(t, c.Fetch(context.Background()))

	items := c.Items()
	items[0].Name = "Mutated"

	op, _ := c.Get("1")
	assert.Equal(t, "Ana", op.Name)
}
