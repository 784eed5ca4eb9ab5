package entitlement

import (
	"time"

	"github.com/google/uuid"

	"github.com/mentorly/entitlement/svc/catalog"
)

// Subscription is the single mutable record describing one user's
// entitlement state. All mutations go through the Service, which replaces
// the whole record under a single writer, so methods here are pure reads
// over a consistent aggregate.
type Subscription struct {
	UserID    uuid.UUID
	Plan      *catalog.Plan // nil means free tier
	IsActive  bool
	ExpiresAt *time.Time

	// DailyUsage is reset to zero at the user's local-day boundary by an
	// external scheduler calling ResetDaily; TotalUsage is never reset.
	DailyUsage map[Feature]int64
	TotalUsage map[Feature]int64

	UpdatedAt time.Time
}

// NewFreeSubscription returns a fresh free-tier record with zeroed counters.
func NewFreeSubscription(userID uuid.UUID) *Subscription {
	sub := &Subscription{
		UserID:     userID,
		DailyUsage: make(map[Feature]int64, len(MeteredFeatures())),
		TotalUsage: make(map[Feature]int64, len(MeteredFeatures())),
	}
	for _, f := range MeteredFeatures() {
		sub.DailyUsage[f] = 0
		sub.TotalUsage[f] = 0
	}
	return sub
}

// clone deep-copies the record so the service can mutate a replacement
// without exposing partial updates.
func (s *Subscription) clone() *Subscription {
	cp := *s
	if s.Plan != nil {
		plan := *s.Plan
		plan.Features = append([]string(nil), s.Plan.Features...)
		cp.Plan = &plan
	}
	if s.ExpiresAt != nil {
		expires := *s.ExpiresAt
		cp.ExpiresAt = &expires
	}
	cp.DailyUsage = make(map[Feature]int64, len(s.DailyUsage))
	for f, n := range s.DailyUsage {
		cp.DailyUsage[f] = n
	}
	cp.TotalUsage = make(map[Feature]int64, len(s.TotalUsage))
	for f, n := range s.TotalUsage {
		cp.TotalUsage[f] = n
	}
	return &cp
}

// ActiveAt reports whether the subscription grants paid entitlements at the
// given instant. Activity is derived, not cached: a subscription past its
// expiry reads as inactive even though the stored IsActive flag still says
// true until the next lifecycle operation.
func (s *Subscription) ActiveAt(now time.Time) bool {
	if !s.IsActive || s.Plan == nil {
		return false
	}
	if s.ExpiresAt == nil {
		return true
	}
	return now.Before(*s.ExpiresAt)
}

// CanUseAt is the pure admission decision over this record: an active paid
// plan grants every feature; the free tier is denied pro-only features
// outright and otherwise capped by the limit table. Features absent from
// the table are permitted.
func (s *Subscription) CanUseAt(limits LimitTable, feature Feature, now time.Time) bool {
	if s.ActiveAt(now) {
		return true
	}
	if feature.ProOnly() {
		return false
	}
	cap, known := limits[feature]
	if !known {
		return true
	}
	return s.DailyUsage[feature] < cap
}

// RemainingAt returns today's remaining free-tier quota for the feature, or
// Unlimited for an active paid plan. Never negative.
func (s *Subscription) RemainingAt(limits LimitTable, feature Feature, now time.Time) int64 {
	if s.ActiveAt(now) {
		return Unlimited
	}
	if feature.ProOnly() {
		return 0
	}
	cap, known := limits[feature]
	if !known {
		return Unlimited
	}
	return max(0, cap-s.DailyUsage[feature])
}
