package entitlement

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// memoryStore keeps snapshots in process memory. Used in tests and as the
// session-scoped cache when no durable backend is configured.
type memoryStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID][]byte
}

// NewMemoryStore returns an in-memory snapshot store.
func NewMemoryStore() Store {
	return &memoryStore{items: make(map[uuid.UUID][]byte)}
}

func (s *memoryStore) Load(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	s.mu.RLock()
	raw, ok := s.items[userID]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return UnmarshalSnapshot(raw)
}

func (s *memoryStore) Save(ctx context.Context, sub *Subscription) error {
	raw, err := MarshalSnapshot(sub)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.items[sub.UserID] = raw
	s.mu.Unlock()
	return nil
}
