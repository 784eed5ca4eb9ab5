package entitlement

import (
	"context"

	"github.com/google/uuid"
)

// SnapshotNamespace is the fixed key prefix under which subscription
// snapshots are persisted, regardless of backend.
const SnapshotNamespace = "entitlement.subscription"

// Store persists the local subscription snapshot across sessions.
//
// Load returns ErrSnapshotNotFound when the user has no snapshot and
// ErrSnapshotCorrupted when one exists but cannot be decoded; the service
// turns both into a fresh free-tier record rather than failing the caller.
type Store interface {
	Load(ctx context.Context, userID uuid.UUID) (*Subscription, error)
	Save(ctx context.Context, sub *Subscription) error
}
