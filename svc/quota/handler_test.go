package quota_test

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorly/entitlement/svc/entitlement"
	"github.com/mentorly/entitlement/svc/quota"
)

// Spins up the real handler over httptest and drives it with the real
// client, so both sides of the wire format are covered at once.
func TestClientAgainstHandler(t *testing.T) {
	t.Parallel()

	newServer := func(t *testing.T, opts ...quota.HandlerOption) *httptest.Server {
		t.Helper()
		handler := quota.NewHandler(quota.NewService(quota.NewMemoryCounter()), opts...)
		srv := httptest.NewServer(handler.Routes())
		t.Cleanup(srv.Close)
		return srv
	}

	t.Run("check increment usage round trip", func(t *testing.T) {
		t.Parallel()
		srv := newServer(t)
		client := quota.NewClient(srv.URL)
		userID := uuid.New()
		ctx := t.Context()

		ok, err := client.Check(ctx, userID, entitlement.FeatureCodeAnalysis, 2)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, client.Increment(ctx, userID, entitlement.FeatureCodeAnalysis))
		require.NoError(t, client.Increment(ctx, userID, entitlement.FeatureCodeAnalysis))

		ok, err = client.Check(ctx, userID, entitlement.FeatureCodeAnalysis, 2)
		require.NoError(t, err)
		assert.False(t, ok)

		usage, err := client.Usage(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), usage[entitlement.FeatureCodeAnalysis])
	})

	t.Run("api key enforced", func(t *testing.T) {
		t.Parallel()
		srv := newServer(t, quota.WithAPIKey("sekret"))

		noKey := quota.NewClient(srv.URL)
		_, err := noKey.Check(t.Context(), uuid.New(), entitlement.FeatureCodeAnalysis, 3)
		assert.ErrorIs(t, err, quota.ErrUnauthorized)

		withKey := quota.NewClient(srv.URL, quota.WithClientAPIKey("sekret"))
		ok, err := withKey.Check(t.Context(), uuid.New(), entitlement.FeatureCodeAnalysis, 3)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("malformed payload rejected", func(t *testing.T) {
		t.Parallel()
		srv := newServer(t)
		client := quota.NewClient(srv.URL)

		_, err := client.Check(t.Context(), uuid.Nil, entitlement.FeatureCodeAnalysis, 3)
		assert.ErrorIs(t, err, quota.ErrBadRequest)
	})

	t.Run("unreachable server maps to unavailable", func(t *testing.T) {
		t.Parallel()
		srv := newServer(t)
		srv.Close()

		client := quota.NewClient(srv.URL)
		_, err := client.Check(t.Context(), uuid.New(), entitlement.FeatureCodeAnalysis, 3)
		assert.ErrorIs(t, err, quota.ErrUnavailable)

		err = client.Increment(t.Context(), uuid.New(), entitlement.FeatureCodeAnalysis)
		assert.ErrorIs(t, err, quota.ErrUnavailable)
	})
}
