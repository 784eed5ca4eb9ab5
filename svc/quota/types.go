// Package quota implements the authoritative daily usage counters and the
// client/server pair that exposes them. Counters live server-side keyed by
// user, feature and UTC calendar day, so wiping local state never resets a
// user's allowance.
package quota

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mentorly/entitlement/svc/entitlement"
)

// Counter is the daily usage ledger a quota deployment keeps per user. Keys
// roll over at UTC midnight.
type Counter interface {
	// Increment adds one use of feature for userID on the current UTC day
	// and returns the new count.
	Increment(ctx context.Context, userID uuid.UUID, feature entitlement.Feature) (int64, error)

	// Count returns today's count for userID and feature. Missing keys
	// count as zero.
	Count(ctx context.Context, userID uuid.UUID, feature entitlement.Feature) (int64, error)

	// Usage returns today's counts for every metered feature.
	Usage(ctx context.Context, userID uuid.UUID) (map[entitlement.Feature]int64, error)
}

// Limiter is the consumer-side view of the quota service. Implementations
// return an error when the authority cannot answer; the caller decides the
// failure posture per operation.
type Limiter interface {
	// Check reports whether userID may consume feature given the cap. A cap
	// of entitlement.Unlimited always passes.
	Check(ctx context.Context, userID uuid.UUID, feature entitlement.Feature, limit int64) (bool, error)

	// Increment records one consumed use with the authority.
	Increment(ctx context.Context, userID uuid.UUID, feature entitlement.Feature) error

	// Usage returns the authority's counters for today, for reconciliation.
	Usage(ctx context.Context, userID uuid.UUID) (map[entitlement.Feature]int64, error)
}

// dayOf truncates t to its UTC calendar day in the key format counters use.
func dayOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
