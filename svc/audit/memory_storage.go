package audit

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// memoryStorage keeps events in process memory, newest last. Used in tests
// and local development.
type memoryStorage struct {
	mu     sync.RWMutex
	events map[uuid.UUID][]Event
}

// NewMemoryStorage returns an in-memory security event store.
func NewMemoryStorage() Storage {
	return &memoryStorage{events: make(map[uuid.UUID][]Event)}
}

func (s *memoryStorage) Store(ctx context.Context, event Event) error {
	s.mu.Lock()
	s.events[event.UserID] = append(s.events[event.UserID], event)
	s.mu.Unlock()
	return nil
}

func (s *memoryStorage) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.events[userID]
	out := make([]Event, 0, min(limit, len(stored)))
	for i := len(stored) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, stored[i])
	}

	// Insertion order approximates time order; sort to make it exact when
	// callers backfill events.
	slices.SortFunc(out, func(a, b Event) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}
