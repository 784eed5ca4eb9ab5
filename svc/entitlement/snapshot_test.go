package entitlement_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorly/entitlement/svc/entitlement"
)

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("full subscription", func(t *testing.T) {
		t.Parallel()

		plan := monthlyPlan()
		expiry := time.Date(2025, 7, 15, 10, 30, 45, 123456789, time.UTC)
		orig := entitlement.NewFreeSubscription(uuid.New())
		orig.Plan = &plan
		orig.IsActive = true
		orig.ExpiresAt = &expiry
		orig.DailyUsage[entitlement.FeatureCodeAnalysis] = 2
		orig.TotalUsage[entitlement.FeatureCodeAnalysis] = 14
		orig.TotalUsage[entitlement.FeatureCodeGeneration] = 5
		orig.UpdatedAt = time.Date(2025, 6, 20, 8, 0, 0, 0, time.UTC)

		raw, err := entitlement.MarshalSnapshot(orig)
		require.NoError(t, err)

		got, err := entitlement.UnmarshalSnapshot(raw)
		require.NoError(t, err)

		assert.Equal(t, orig.UserID, got.UserID)
		require.NotNil(t, got.Plan)
		assert.Equal(t, plan.ID, got.Plan.ID)
		assert.Equal(t, plan.PriceCents, got.Plan.PriceCents)
		assert.True(t, got.IsActive)
		// The expiry must survive serialization as an exact instant, down to
		// the nanosecond, or renewals drift.
		require.NotNil(t, got.ExpiresAt)
		assert.True(t, expiry.Equal(*got.ExpiresAt), "want %s got %s", expiry, got.ExpiresAt)
		assert.Equal(t, orig.DailyUsage, got.DailyUsage)
		assert.Equal(t, orig.TotalUsage, got.TotalUsage)
	})

	t.Run("free tier with nil expiry", func(t *testing.T) {
		t.Parallel()

		orig := entitlement.NewFreeSubscription(uuid.New())
		raw, err := entitlement.MarshalSnapshot(orig)
		require.NoError(t, err)

		got, err := entitlement.UnmarshalSnapshot(raw)
		require.NoError(t, err)
		assert.Nil(t, got.Plan)
		assert.Nil(t, got.ExpiresAt)
		assert.False(t, got.IsActive)
		assert.NotNil(t, got.DailyUsage)
		assert.NotNil(t, got.TotalUsage)
	})

	t.Run("garbage bytes", func(t *testing.T) {
		t.Parallel()

		_, err := entitlement.UnmarshalSnapshot([]byte("{not json"))
		assert.ErrorIs(t, err, entitlement.ErrSnapshotCorrupted)
	})

	t.Run("bad timestamp", func(t *testing.T) {
		t.Parallel()

		_, err := entitlement.UnmarshalSnapshot([]byte(`{"user_id":"` + uuid.NewString() + `","expires_at":"yesterday"}`))
		assert.ErrorIs(t, err, entitlement.ErrSnapshotCorrupted)
	})
}

func TestStores(t *testing.T) {
	t.Parallel()

	expiry := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	newSub := func() *entitlement.Subscription {
		plan := monthlyPlan()
		sub := entitlement.NewFreeSubscription(uuid.New())
		sub.Plan = &plan
		sub.IsActive = true
		sub.ExpiresAt = &expiry
		sub.DailyUsage[entitlement.FeatureProblemSolving] = 1
		return sub
	}

	stores := map[string]func(t *testing.T) entitlement.Store{
		"memory": func(t *testing.T) entitlement.Store {
			return entitlement.NewMemoryStore()
		},
		"file": func(t *testing.T) entitlement.Store {
			store, err := entitlement.NewFileStore(t.TempDir())
			require.NoError(t, err)
			return store
		},
	}

	for name, factory := range stores {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			store := factory(t)
			ctx := t.Context()

			t.Run("missing user", func(t *testing.T) {
				_, err := store.Load(ctx, uuid.New())
				assert.ErrorIs(t, err, entitlement.ErrSnapshotNotFound)
			})

			t.Run("save then load", func(t *testing.T) {
				sub := newSub()
				require.NoError(t, store.Save(ctx, sub))

				got, err := store.Load(ctx, sub.UserID)
				require.NoError(t, err)
				assert.Equal(t, sub.UserID, got.UserID)
				require.NotNil(t, got.ExpiresAt)
				assert.True(t, expiry.Equal(*got.ExpiresAt))
				assert.Equal(t, int64(1), got.DailyUsage[entitlement.FeatureProblemSolving])
			})

			t.Run("overwrite", func(t *testing.T) {
				sub := newSub()
				require.NoError(t, store.Save(ctx, sub))

				sub.DailyUsage[entitlement.FeatureProblemSolving] = 2
				require.NoError(t, store.Save(ctx, sub))

				got, err := store.Load(ctx, sub.UserID)
				require.NoError(t, err)
				assert.Equal(t, int64(2), got.DailyUsage[entitlement.FeatureProblemSolving])
			})
		})
	}
}
