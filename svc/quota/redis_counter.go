package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mentorly/entitlement/svc/entitlement"
)

// counterTTL keeps a day's counters around long enough for late
// reconciliation across timezones before Redis reclaims them.
const counterTTL = 48 * time.Hour

// redisCounter stores one Redis key per (user, feature, UTC day). INCR plus
// EXPIRE runs in a pipeline so a counter never lingers without a TTL.
type redisCounter struct {
	client redis.UniversalClient
	now    func() time.Time
}

// RedisCounterOption configures a Redis-backed counter.
type RedisCounterOption func(*redisCounter)

// WithCounterClock overrides the clock used for day bucketing. Tests use it
// to pin the UTC day.
func WithCounterClock(now func() time.Time) RedisCounterOption {
	return func(c *redisCounter) { c.now = now }
}

// NewRedisCounter returns a Counter backed by Redis.
func NewRedisCounter(client redis.UniversalClient, opts ...RedisCounterOption) Counter {
	if client == nil {
		panic("quota: redis client cannot be nil")
	}
	c := &redisCounter{client: client, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func counterKey(userID uuid.UUID, feature entitlement.Feature, day string) string {
	return fmt.Sprintf("quota:%s:%s:%s", day, userID, feature)
}

func (c *redisCounter) Increment(ctx context.Context, userID uuid.UUID, feature entitlement.Feature) (int64, error) {
	key := counterKey(userID, feature, dayOf(c.now()))

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, counterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, errors.Join(ErrUnavailable, err)
	}
	return incr.Val(), nil
}

func (c *redisCounter) Count(ctx context.Context, userID uuid.UUID, feature entitlement.Feature) (int64, error) {
	count, err := c.client.Get(ctx, counterKey(userID, feature, dayOf(c.now()))).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, errors.Join(ErrUnavailable, err)
	}
	return count, nil
}

func (c *redisCounter) Usage(ctx context.Context, userID uuid.UUID) (map[entitlement.Feature]int64, error) {
	features := entitlement.MeteredFeatures()
	day := dayOf(c.now())

	keys := make([]string, len(features))
	for i, f := range features {
		keys[i] = counterKey(userID, f, day)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}

	usage := make(map[entitlement.Feature]int64, len(features))
	for i, f := range features {
		usage[f] = 0
		if s, ok := values[i].(string); ok {
			var n int64
			if _, err := fmt.Sscan(s, &n); err == nil {
				usage[f] = n
			}
		}
	}
	return usage, nil
}
