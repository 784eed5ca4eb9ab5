package quota_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorly/entitlement/svc/entitlement"
	"github.com/mentorly/entitlement/svc/quota"
)

func TestService_Check(t *testing.T) {
	t.Parallel()

	svc := quota.NewService(quota.NewMemoryCounter())
	userID := uuid.New()
	ctx := t.Context()

	t.Run("unlimited always passes", func(t *testing.T) {
		ok, err := svc.Check(ctx, userID, entitlement.FeatureCodeAnalysis, entitlement.Unlimited)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("zero cap always denies", func(t *testing.T) {
		ok, err := svc.Check(ctx, userID, entitlement.FeatureVideoGeneration, 0)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("denies at the cap", func(t *testing.T) {
		for i := range 3 {
			ok, err := svc.Check(ctx, userID, entitlement.FeatureCodeAnalysis, 3)
			require.NoError(t, err)
			assert.True(t, ok, "check %d", i+1)
			require.NoError(t, svc.Increment(ctx, userID, entitlement.FeatureCodeAnalysis))
		}

		ok, err := svc.Check(ctx, userID, entitlement.FeatureCodeAnalysis, 3)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestService_Usage(t *testing.T) {
	t.Parallel()

	svc := quota.NewService(quota.NewMemoryCounter())
	userID := uuid.New()
	ctx := t.Context()

	require.NoError(t, svc.Increment(ctx, userID, entitlement.FeatureCodeGeneration))
	require.NoError(t, svc.Increment(ctx, userID, entitlement.FeatureCodeGeneration))

	usage, err := svc.Usage(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), usage[entitlement.FeatureCodeGeneration])
	assert.Equal(t, int64(0), usage[entitlement.FeatureCodeAnalysis])
	// Only metered features appear.
	_, ok := usage[entitlement.FeatureVideoGeneration]
	assert.False(t, ok)
}

func TestCounter_DayRollover(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 15, 23, 59, 0, 0, time.UTC)
	counter := quota.NewMemoryCounter(quota.WithMemoryCounterClock(func() time.Time { return now }))
	userID := uuid.New()
	ctx := t.Context()

	_, err := counter.Increment(ctx, userID, entitlement.FeatureCodeAnalysis)
	require.NoError(t, err)

	count, err := counter.Count(ctx, userID, entitlement.FeatureCodeAnalysis)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Two minutes later it is a new UTC day and the counter starts fresh.
	now = now.Add(2 * time.Minute)
	count, err = counter.Count(ctx, userID, entitlement.FeatureCodeAnalysis)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
