package audit_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorly/entitlement/pkg/clientip"
	"github.com/mentorly/entitlement/svc/audit"
)

func TestTrail_Record(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("fills context fields and timestamp", func(t *testing.T) {
		t.Parallel()
		storage := audit.NewMemoryStorage()
		trail := audit.NewTrail(storage, audit.WithTrailClock(func() time.Time { return now }))
		userID := uuid.New()

		ctx := clientip.WithContext(t.Context(), "203.0.113.7")
		ctx = audit.WithUserAgentContext(ctx, "vscode/1.92")

		require.NoError(t, trail.Record(ctx, userID, audit.EventLoginSuccess,
			audit.WithDescription("password login")))

		events, err := storage.ListByUser(t.Context(), userID, 10)
		require.NoError(t, err)
		require.Len(t, events, 1)

		e := events[0]
		assert.NotEqual(t, uuid.Nil, e.ID)
		assert.Equal(t, audit.EventLoginSuccess, e.Type)
		assert.Equal(t, "password login", e.Description)
		assert.Equal(t, "203.0.113.7", e.IP)
		assert.Equal(t, "vscode/1.92", e.UserAgent)
		assert.Equal(t, now, e.CreatedAt)
	})

	t.Run("explicit options beat context values", func(t *testing.T) {
		t.Parallel()
		storage := audit.NewMemoryStorage()
		trail := audit.NewTrail(storage)
		userID := uuid.New()

		ctx := clientip.WithContext(t.Context(), "203.0.113.7")
		require.NoError(t, trail.Record(ctx, userID, audit.EventLogout,
			audit.WithIP("198.51.100.4")))

		events, err := storage.ListByUser(t.Context(), userID, 1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "198.51.100.4", events[0].IP)
	})

	t.Run("rejects invalid events", func(t *testing.T) {
		t.Parallel()
		trail := audit.NewTrail(audit.NewMemoryStorage())

		err := trail.Record(t.Context(), uuid.Nil, audit.EventLoginSuccess)
		assert.ErrorIs(t, err, audit.ErrEventValidation)

		err = trail.Record(t.Context(), uuid.New(), audit.EventType("account_deleted"))
		assert.ErrorIs(t, err, audit.ErrEventValidation)
	})

	t.Run("MustRecord swallows storage failures", func(t *testing.T) {
		t.Parallel()
		trail := audit.NewTrail(failingStorage{})

		// Must not panic or block.
		trail.MustRecord(t.Context(), uuid.New(), audit.EventLoginFailure)
	})
}

type failingStorage struct{}

func (failingStorage) Store(ctx context.Context, event audit.Event) error {
	return assert.AnError
}

func (failingStorage) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]audit.Event, error) {
	return nil, assert.AnError
}

func TestReader_Recent(t *testing.T) {
	t.Parallel()

	storage := audit.NewMemoryStorage()
	userID := uuid.New()
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	for i := range 60 {
		require.NoError(t, storage.Store(t.Context(), audit.Event{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      audit.EventLoginSuccess,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	reader := audit.NewReader(storage)

	t.Run("caps at fifty newest first", func(t *testing.T) {
		t.Parallel()
		events, err := reader.Recent(t.Context(), userID, userID)
		require.NoError(t, err)
		require.Len(t, events, audit.MaxTrailEvents)

		assert.Equal(t, base.Add(59*time.Minute), events[0].CreatedAt)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i].CreatedAt.After(events[i-1].CreatedAt), "order at %d", i)
		}
	})

	t.Run("denies other users' trails", func(t *testing.T) {
		t.Parallel()
		_, err := reader.Recent(t.Context(), uuid.New(), userID)
		assert.ErrorIs(t, err, audit.ErrForbidden)
	})
}

func TestAsyncStorage(t *testing.T) {
	t.Parallel()

	t.Run("events land after close drains the queue", func(t *testing.T) {
		t.Parallel()
		inner := audit.NewMemoryStorage()
		async, closeFn := audit.NewAsyncStorage(inner, 16, nil)
		userID := uuid.New()

		trail := audit.NewTrail(async)
		require.NoError(t, trail.Record(t.Context(), userID, audit.EventPasswordResetRequested))
		require.NoError(t, trail.Record(t.Context(), userID, audit.EventPasswordResetCompleted))

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, closeFn(ctx))

		events, err := inner.ListByUser(t.Context(), userID, 10)
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("store after close is refused", func(t *testing.T) {
		t.Parallel()
		async, closeFn := audit.NewAsyncStorage(audit.NewMemoryStorage(), 16, nil)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, closeFn(ctx))

		err := async.Store(t.Context(), audit.Event{ID: uuid.New(), UserID: uuid.New(), Type: audit.EventLogout})
		assert.ErrorIs(t, err, audit.ErrStorageNotAvailable)
	})
}
