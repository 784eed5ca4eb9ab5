package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mentorly/entitlement/pkg/logger"
	"github.com/mentorly/entitlement/svc/catalog"
)

// Service owns the subscription aggregate. Every mutation loads the current
// record, builds a replacement under the single writer lock, and persists it
// as a whole, so daily and lifetime counters can never drift apart within a
// record and readers never observe a partial update.
type Service struct {
	mu     sync.Mutex
	store  Store
	limits LimitTable
	log    *slog.Logger
	now    func() time.Time
}

// ServiceOption configures a Service during construction.
type ServiceOption func(*Service)

// WithLimits overrides the default free-tier limit table.
func WithLimits(limits LimitTable) ServiceOption {
	return func(s *Service) {
		if limits != nil {
			s.limits = limits
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock injects a time source for deterministic tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service backed by the given snapshot store.
func NewService(store Store, opts ...ServiceOption) *Service {
	if store == nil {
		panic("entitlement: store cannot be nil")
	}
	s := &Service{
		store:  store,
		limits: DefaultLimits(),
		log:    slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limits returns the free-tier limit table in use.
func (s *Service) Limits() LimitTable {
	out := make(LimitTable, len(s.limits))
	for f, c := range s.limits {
		out[f] = c
	}
	return out
}

// Subscription returns the user's current record. A missing or unreadable
// snapshot is not an error: the user simply starts over on the free tier,
// and the corruption is logged for operators.
func (s *Service) Subscription(ctx context.Context, userID uuid.UUID) *Subscription {
	sub, err := s.store.Load(ctx, userID)
	switch {
	case err == nil:
		return sub
	case errors.Is(err, ErrSnapshotNotFound):
	case errors.Is(err, ErrSnapshotCorrupted):
		s.log.WarnContext(ctx, "discarding corrupted subscription snapshot",
			logger.UserID(userID), logger.Error(err))
	default:
		s.log.ErrorContext(ctx, "subscription snapshot load failed",
			logger.UserID(userID), logger.Error(err))
	}
	return NewFreeSubscription(userID)
}

// Subscribe activates the plan for the user, computing the expiry from the
// plan's billing cycle. It overwrites any existing plan unconditionally and
// leaves all usage counters untouched.
func (s *Service) Subscribe(ctx context.Context, userID uuid.UUID, plan catalog.Plan) (*Subscription, error) {
	return s.update(ctx, userID, func(sub *Subscription) error {
		now := s.now()
		expires := plan.Cycle.ExpiryFrom(now)

		planCopy := plan
		planCopy.Features = append([]string(nil), plan.Features...)

		sub.Plan = &planCopy
		sub.IsActive = true
		sub.ExpiresAt = &expires
		return nil
	})
}

// Cancel drops the user back to the free tier. Usage counters are untouched.
func (s *Service) Cancel(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	return s.update(ctx, userID, func(sub *Subscription) error {
		sub.Plan = nil
		sub.IsActive = false
		sub.ExpiresAt = nil
		return nil
	})
}

// RecordUsage increments the feature's daily and lifetime counters together.
// It enforces no ceiling: capping is an admission decision, so callers must
// consult CanUse (or the admission gate) before performing the action.
func (s *Service) RecordUsage(ctx context.Context, userID uuid.UUID, feature Feature) (*Subscription, error) {
	if !feature.Metered() {
		return nil, ErrFeatureNotMetered
	}
	return s.update(ctx, userID, func(sub *Subscription) error {
		sub.DailyUsage[feature]++
		sub.TotalUsage[feature]++
		return nil
	})
}

// ResetDaily zeroes all daily counters. Lifetime counters are untouched.
// The service owns no timer; an external scheduler invokes this at the
// user's local-day boundary.
func (s *Service) ResetDaily(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	return s.update(ctx, userID, func(sub *Subscription) error {
		for f := range sub.DailyUsage {
			sub.DailyUsage[f] = 0
		}
		return nil
	})
}

// SyncDailyUsage raises local daily counters to at least the authoritative
// remote values. Used by the reconciliation pass at session start; counters
// are never lowered, so a session's own usage is preserved.
func (s *Service) SyncDailyUsage(ctx context.Context, userID uuid.UUID, remote map[Feature]int64) (*Subscription, error) {
	return s.update(ctx, userID, func(sub *Subscription) error {
		for f, n := range remote {
			if !f.Metered() {
				continue
			}
			if n > sub.DailyUsage[f] {
				sub.DailyUsage[f] = n
			}
		}
		return nil
	})
}

// CanUse answers the local, advisory admission question for the feature.
func (s *Service) CanUse(ctx context.Context, userID uuid.UUID, feature Feature) bool {
	return s.Subscription(ctx, userID).CanUseAt(s.limits, feature, s.now())
}

// Remaining returns today's remaining quota for the feature, or Unlimited
// for an active paid plan.
func (s *Service) Remaining(ctx context.Context, userID uuid.UUID, feature Feature) int64 {
	return s.Subscription(ctx, userID).RemainingAt(s.limits, feature, s.now())
}

// update applies fn to a replacement copy of the user's record and persists
// the result. The lock serializes writers so the load-modify-save sequence
// behaves as a single logical transaction.
func (s *Service) update(ctx context.Context, userID uuid.UUID, fn func(*Subscription) error) (*Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.Subscription(ctx, userID).clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now().UTC()

	if err := s.store.Save(ctx, next); err != nil {
		return nil, errors.Join(ErrSaveFailed, err)
	}
	return next, nil
}
