package quota

import (
	"context"

	"github.com/google/uuid"

	"github.com/mentorly/entitlement/svc/entitlement"
)

// Service answers limit checks straight from a Counter. It backs the HTTP
// handler and doubles as an in-process Limiter when the counters live in the
// same deployment.
type Service struct {
	counter Counter
}

// NewService returns a Limiter evaluating caps against the given counter.
func NewService(counter Counter) *Service {
	if counter == nil {
		panic("quota: counter cannot be nil")
	}
	return &Service{counter: counter}
}

// Check reports whether one more use of feature fits under limit.
func (s *Service) Check(ctx context.Context, userID uuid.UUID, feature entitlement.Feature, limit int64) (bool, error) {
	if limit == entitlement.Unlimited {
		return true, nil
	}
	if limit <= 0 {
		return false, nil
	}

	count, err := s.counter.Count(ctx, userID, feature)
	if err != nil {
		return false, err
	}
	return count < limit, nil
}

// Increment records one consumed use.
func (s *Service) Increment(ctx context.Context, userID uuid.UUID, feature entitlement.Feature) error {
	_, err := s.counter.Increment(ctx, userID, feature)
	return err
}

// Usage returns today's counters for every metered feature.
func (s *Service) Usage(ctx context.Context, userID uuid.UUID) (map[entitlement.Feature]int64, error) {
	return s.counter.Usage(ctx, userID)
}
