package entitlement

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mentorly/entitlement/pkg/pg"
)

// pgStore persists snapshots in the subscription_snapshots table (see
// migrations/). The whole record is stored as jsonb through the same codec
// every other backend uses, so round-tripping is uniform.
type pgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore returns a snapshot store backed by PostgreSQL.
func NewPgStore(pool *pgxpool.Pool) Store {
	if pool == nil {
		panic("entitlement: pgx pool cannot be nil")
	}
	return &pgStore{pool: pool}
}

func (s *pgStore) Load(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT snapshot FROM subscription_snapshots WHERE user_id = $1`,
		userID,
	).Scan(&raw)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return UnmarshalSnapshot(raw)
}

func (s *pgStore) Save(ctx context.Context, sub *Subscription) error {
	raw, err := MarshalSnapshot(sub)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO subscription_snapshots (user_id, snapshot, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET snapshot = $2, updated_at = now()`,
		sub.UserID, raw,
	)
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}
