package alerts

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ekaya-inc/ekaya-mes/pkg/models"
)

// Store holds the live alert feed. It is safe for concurrent use and is
// never persisted.
type Store struct {
	mu     sync.RWMutex
	alerts []models.Alert

	now   func() time.Time
	newID func() uuid.UUID
}

// NewStore creates an empty alert store.
func NewStore() *Store {
	return &Store{
		alerts: make([]models.Alert, 0),
		now:    time.Now,
		newID:  uuid.New,
	}
}

// Add prepends a new alert. There is no dedup at this layer.
func (s *Store) Add(alertType models.AlertType, message, source string) models.Alert {
	alert := s.stamp(models.AlertCandidate{Type: alertType, Message: message, Source: source}, s.now())

	s.mu.Lock()
	s.alerts = append([]models.Alert{alert}, s.alerts...)
	s.mu.Unlock()

	return alert
}

// Remove drops the alert with the given id and reports whether it existed.
func (s *Store) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.alerts {
		if a.ID == id {
			s.alerts = slices.Delete(s.alerts, i, i+1)
			return true
		}
	}
	return false
}

// ClearAll empties the feed.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.alerts = make([]models.Alert, 0)
	s.mu.Unlock()
}

// List returns a copy of the feed, newest first.
func (s *Store) List() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.alerts)
}

// Len returns the number of alerts in the feed.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.alerts)
}

// Reconcile replaces the feed with candidates unless the two are the same
// multiset of (type, message, source). On any difference every alert is
// replaced, so ids and timestamps of unchanged alerts churn too. It reports
// whether the feed was replaced.
func (s *Store) Reconcile(candidates []models.AlertCandidate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := make([]models.AlertCandidate, len(s.alerts))
	for i, a := range s.alerts {
		current[i] = a.Candidate()
	}
	if sameCandidates(current, candidates) {
		return false
	}

	now := s.now()
	next := make([]models.Alert, len(candidates))
	for i, c := range candidates {
		next[i] = s.stamp(c, now)
	}
	s.alerts = next
	return true
}

func (s *Store) stamp(c models.AlertCandidate, at time.Time) models.Alert {
	return models.Alert{
		ID:        s.newID(),
		Type:      c.Type,
		Message:   c.Message,
		Source:    c.Source,
		Timestamp: at,
	}
}

func sameCandidates(a, b []models.AlertCandidate) bool {
	if len(a) != len(b) {
		return false
	}
	a, b = slices.Clone(a), slices.Clone(b)
	slices.SortFunc(a, compareCandidates)
	slices.SortFunc(b, compareCandidates)
	return slices.Equal(a, b)
}

// compareCandidates orders by type, message, then source, byte-wise.
func compareCandidates(x, y models.AlertCandidate) int {
	return cmp.Or(
		cmp.Compare(x.Type, y.Type),
		cmp.Compare(x.Message, y.Message),
		cmp.Compare(x.Source, y.Source),
	)
}
