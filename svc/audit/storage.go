package audit

import (
	"context"

	"github.com/google/uuid"
)

// Storage persists security events.
type Storage interface {
	// Store appends one event to the trail.
	Store(ctx context.Context, event Event) error

	// ListByUser returns up to limit events for userID, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Event, error)
}
