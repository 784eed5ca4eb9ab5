package entitlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisStore keeps snapshots in Redis under the fixed namespace, one key per
// user. Snapshots carry no TTL: subscription state must survive sessions.
type redisStore struct {
	client redis.UniversalClient
}

// NewRedisStore returns a snapshot store backed by Redis.
func NewRedisStore(client redis.UniversalClient) Store {
	if client == nil {
		panic("entitlement: redis client cannot be nil")
	}
	return &redisStore{client: client}
}

func snapshotKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", SnapshotNamespace, userID)
}

func (s *redisStore) Load(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	raw, err := s.client.Get(ctx, snapshotKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return UnmarshalSnapshot(raw)
}

func (s *redisStore) Save(ctx context.Context, sub *Subscription) error {
	raw, err := MarshalSnapshot(sub)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, snapshotKey(sub.UserID), raw, 0).Err(); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}
