package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/stageorder/internal/domain/model"
	"github.com/okian/stageorder/pkg/metrics"
)

const memoryStoreName = "memory"

// MemoryStore keeps lineups in a map. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	lineups map[string]model.Lineup
	closed  bool
}

// NewMemoryStore creates an empty store, optionally seeded.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{lineups: make(map[string]model.Lineup)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores or replaces the lineup of l.EventID.
func (s *MemoryStore) Put(_ context.Context, l model.Lineup) error {
	if l.EventID == "" {
		return fmt.Errorf("%w: missing event_id", ErrInvalidLineup)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.lineups[l.EventID] = l
	return nil
}

// Lineup returns the stored lineup for eventID.
func (s *MemoryStore) Lineup(_ context.Context, eventID string) (model.Lineup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return model.Lineup{}, ErrClosed
	}
	l, ok := s.lineups[eventID]
	if !ok || len(l.Bands) == 0 {
		metrics.RecordLineupLookup(memoryStoreName, "miss")
		return model.Lineup{}, fmt.Errorf("%w: %s", ErrNotFound, eventID)
	}
	metrics.RecordLineupLookup(memoryStoreName, "hit")
	return l, nil
}

// Events lists stored event ids.
func (s *MemoryStore) Events(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]string, 0, len(s.lineups))
	for id := range s.lineups {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
