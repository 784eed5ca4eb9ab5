package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgStorage writes the trail to the security_events table (see migrations/).
type pgStorage struct {
	pool *pgxpool.Pool
}

// NewPgStorage returns a security event store backed by PostgreSQL.
func NewPgStorage(pool *pgxpool.Pool) Storage {
	if pool == nil {
		panic("audit: pgx pool cannot be nil")
	}
	return &pgStorage{pool: pool}
}

func (s *pgStorage) Store(ctx context.Context, event Event) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO security_events (id, user_id, event_type, description, ip, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, event.UserID, event.Type, event.Description, event.IP, event.UserAgent, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("audit: store event: %w", err)
	}
	return nil
}

func (s *pgStorage) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]Event, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, event_type, description, ip, user_agent, created_at
		 FROM security_events
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("audit: list events: %w", err)
	}
	defer rows.Close()

	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Event, error) {
		var e Event
		err := row.Scan(&e.ID, &e.UserID, &e.Type, &e.Description, &e.IP, &e.UserAgent, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("audit: scan events: %w", err)
	}
	return events, nil
}
