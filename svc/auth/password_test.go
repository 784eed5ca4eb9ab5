package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mentorly/entitlement/svc/audit"
	"github.com/mentorly/entitlement/svc/auth"
	"github.com/mentorly/entitlement/svc/catalog"
	"github.com/mentorly/entitlement/svc/entitlement"
)

func newService(t *testing.T, opts ...auth.Option) (*auth.Service, audit.Storage) {
	t.Helper()
	events := audit.NewMemoryStorage()
	trail := audit.NewTrail(events)
	opts = append([]auth.Option{auth.WithBcryptCost(bcrypt.MinCost)}, opts...)
	return auth.NewService(auth.NewMemoryStorage(), trail, opts...), events
}

func trailTypes(t *testing.T, events audit.Storage, userID uuid.UUID) []audit.EventType {
	t.Helper()
	list, err := events.ListByUser(t.Context(), userID, 50)
	require.NoError(t, err)
	types := make([]audit.EventType, len(list))
	for i, e := range list {
		types[i] = e.Type
	}
	return types
}

func TestService_Register(t *testing.T) {
	t.Parallel()

	t.Run("creates a free user", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t)

		user, err := svc.Register(t.Context(), " Dev@Example.COM ", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, "dev@example.com", user.Email)
		assert.Equal(t, auth.RoleFreeUser, user.Role)
		assert.Empty(t, user.PlanID)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t)

		_, err := svc.Register(t.Context(), "dev@example.com", "correct horse")
		require.NoError(t, err)
		_, err = svc.Register(t.Context(), "DEV@example.com", "other password")
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t)

		_, err := svc.Register(t.Context(), "dev@example.com", "short")
		assert.ErrorIs(t, err, auth.ErrWeakPassword)
	})
}

func TestService_Authenticate(t *testing.T) {
	t.Parallel()

	t.Run("success is recorded", func(t *testing.T) {
		t.Parallel()
		svc, events := newService(t)
		user, err := svc.Register(t.Context(), "dev@example.com", "correct horse")
		require.NoError(t, err)

		got, err := svc.Authenticate(t.Context(), "dev@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Contains(t, trailTypes(t, events, user.ID), audit.EventLoginSuccess)
	})

	t.Run("wrong password is recorded and indistinguishable", func(t *testing.T) {
		t.Parallel()
		svc, events := newService(t)
		user, err := svc.Register(t.Context(), "dev@example.com", "correct horse")
		require.NoError(t, err)

		_, err = svc.Authenticate(t.Context(), "dev@example.com", "wrong password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

		_, unknownErr := svc.Authenticate(t.Context(), "ghost@example.com", "whatever pass")
		assert.Equal(t, err, unknownErr)

		assert.Contains(t, trailTypes(t, events, user.ID), audit.EventLoginFailure)
	})
}

func TestService_Logout(t *testing.T) {
	t.Parallel()

	svc, events := newService(t)
	user, err := svc.Register(t.Context(), "dev@example.com", "correct horse")
	require.NoError(t, err)

	svc.Logout(t.Context(), user.ID)
	assert.Contains(t, trailTypes(t, events, user.ID), audit.EventLogout)
}

func TestService_PasswordReset(t *testing.T) {
	t.Parallel()

	t.Run("full flow", func(t *testing.T) {
		t.Parallel()
		svc, events := newService(t)
		user, err := svc.Register(t.Context(), "dev@example.com", "correct horse")
		require.NoError(t, err)

		req, err := svc.ForgotPassword(t.Context(), "dev@example.com")
		require.NoError(t, err)
		assert.NotEmpty(t, req.Token)

		_, err = svc.ResetPassword(t.Context(), req.Token, "new long password")
		require.NoError(t, err)

		_, err = svc.Authenticate(t.Context(), "dev@example.com", "correct horse")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		_, err = svc.Authenticate(t.Context(), "dev@example.com", "new long password")
		require.NoError(t, err)

		types := trailTypes(t, events, user.ID)
		assert.Contains(t, types, audit.EventPasswordResetRequested)
		assert.Contains(t, types, audit.EventPasswordResetCompleted)
	})

	t.Run("tokens are single use", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t)
		_, err := svc.Register(t.Context(), "dev@example.com", "correct horse")
		require.NoError(t, err)

		req, err := svc.ForgotPassword(t.Context(), "dev@example.com")
		require.NoError(t, err)

		_, err = svc.ResetPassword(t.Context(), req.Token, "new long password")
		require.NoError(t, err)
		_, err = svc.ResetPassword(t.Context(), req.Token, "another password")
		assert.ErrorIs(t, err, auth.ErrInvalidResetToken)
	})

	t.Run("expired tokens are rejected", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
		svc, _ := newService(t,
			auth.WithClock(func() time.Time { return now }),
			auth.WithResetTokenTTL(time.Hour))
		_, err := svc.Register(t.Context(), "dev@example.com", "correct horse")
		require.NoError(t, err)

		req, err := svc.ForgotPassword(t.Context(), "dev@example.com")
		require.NoError(t, err)

		now = now.Add(2 * time.Hour)
		_, err = svc.ResetPassword(t.Context(), req.Token, "new long password")
		assert.ErrorIs(t, err, auth.ErrResetTokenExpired)
	})
}

func TestService_SyncSubscription(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	expiry := now.AddDate(0, 1, 0)
	plan := catalog.Plan{ID: "pro-monthly", Name: "Pro", PriceCents: 1299, Currency: "USD", Cycle: catalog.CycleMonthly}

	activeSub := func(userID uuid.UUID) *entitlement.Subscription {
		sub := entitlement.NewFreeSubscription(userID)
		sub.Plan = &plan
		sub.IsActive = true
		sub.ExpiresAt = &expiry
		return sub
	}

	t.Run("active subscription promotes to pro", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t, auth.WithClock(func() time.Time { return now }))
		user, err := svc.Register(t.Context(), "dev@example.com", "correct horse")
		require.NoError(t, err)

		got, err := svc.SyncSubscription(t.Context(), user.ID, activeSub(user.ID))
		require.NoError(t, err)
		assert.Equal(t, auth.RoleProUser, got.Role)
		assert.Equal(t, "pro-monthly", got.PlanID)
		require.NotNil(t, got.SubscriptionExpiresAt)
		assert.True(t, got.Pro(now))
	})

	t.Run("lapsed subscription demotes to free", func(t *testing.T) {
		t.Parallel()
		svc, _ := newService(t, auth.WithClock(func() time.Time { return now }))
		user, err := svc.Register(t.Context(), "dev@example.com", "correct horse")
		require.NoError(t, err)

		_, err = svc.SyncSubscription(t.Context(), user.ID, activeSub(user.ID))
		require.NoError(t, err)

		got, err := svc.SyncSubscription(t.Context(), user.ID, entitlement.NewFreeSubscription(user.ID))
		require.NoError(t, err)
		assert.Equal(t, auth.RoleFreeUser, got.Role)
		assert.Empty(t, got.PlanID)
		assert.Nil(t, got.SubscriptionExpiresAt)
	})
}
