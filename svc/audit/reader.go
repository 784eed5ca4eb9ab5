package audit

import (
	"context"

	"github.com/google/uuid"
)

// MaxTrailEvents caps how many events the security page shows.
const MaxTrailEvents = 50

// Reader serves the account security page: a user's own recent events,
// newest first.
type Reader struct {
	storage Storage
}

// NewReader returns a reader over the given storage.
func NewReader(storage Storage) *Reader {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	return &Reader{storage: storage}
}

// Recent returns up to MaxTrailEvents events belonging to userID. The
// requestor must be the same user; the trail is not visible across accounts.
func (r *Reader) Recent(ctx context.Context, requestorID, userID uuid.UUID) ([]Event, error) {
	if requestorID != userID {
		return nil, ErrForbidden
	}
	return r.storage.ListByUser(ctx, userID, MaxTrailEvents)
}
