package quota

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mentorly/entitlement/svc/entitlement"
)

// memoryCounter keeps counters in process memory. Used in tests and local
// development where standing up Redis is overkill.
type memoryCounter struct {
	mu     sync.RWMutex
	counts map[string]int64
	now    func() time.Time
}

// MemoryCounterOption configures an in-memory counter.
type MemoryCounterOption func(*memoryCounter)

// WithMemoryCounterClock overrides the clock used for day bucketing.
func WithMemoryCounterClock(now func() time.Time) MemoryCounterOption {
	return func(c *memoryCounter) { c.now = now }
}

// NewMemoryCounter returns an in-memory Counter.
func NewMemoryCounter(opts ...MemoryCounterOption) Counter {
	c := &memoryCounter{counts: make(map[string]int64), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *memoryCounter) key(userID uuid.UUID, feature entitlement.Feature) string {
	return fmt.Sprintf("%s:%s:%s", dayOf(c.now()), userID, feature)
}

func (c *memoryCounter) Increment(ctx context.Context, userID uuid.UUID, feature entitlement.Feature) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.key(userID, feature)
	c.counts[key]++
	return c.counts[key], nil
}

func (c *memoryCounter) Count(ctx context.Context, userID uuid.UUID, feature entitlement.Feature) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counts[c.key(userID, feature)], nil
}

func (c *memoryCounter) Usage(ctx context.Context, userID uuid.UUID) (map[entitlement.Feature]int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	usage := make(map[entitlement.Feature]int64)
	for _, f := range entitlement.MeteredFeatures() {
		usage[f] = c.counts[c.key(userID, f)]
	}
	return usage, nil
}
