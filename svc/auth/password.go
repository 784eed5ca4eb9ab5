package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mentorly/entitlement/svc/audit"
	"github.com/mentorly/entitlement/svc/entitlement"
)

const (
	minPasswordLength = 8
	// bcrypt silently truncates beyond 72 bytes; reject instead.
	maxPasswordLength = 72
)

// Service provides password authentication. Every flow writes its outcome
// to the security trail best-effort.
type Service struct {
	storage       UserStorage
	trail         *audit.Trail
	log           *slog.Logger
	bcryptCost    int
	resetTokenTTL time.Duration
	now           func() time.Time

	resetMu     sync.Mutex
	resetTokens map[string]resetToken
}

type resetToken struct {
	userID    uuid.UUID
	expiresAt time.Time
}

// PasswordResetRequest carries the generated token back to the caller, which
// is responsible for delivering it to the user.
type PasswordResetRequest struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Option configures the auth service.
type Option func(*Service)

// WithBcryptCost sets the bcrypt cost. Tests lower it to bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

// WithResetTokenTTL sets how long password reset tokens stay valid.
func WithResetTokenTTL(ttl time.Duration) Option {
	return func(s *Service) { s.resetTokenTTL = ttl }
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a password auth service recording to trail.
func NewService(storage UserStorage, trail *audit.Trail, opts ...Option) *Service {
	if storage == nil {
		panic("auth: storage cannot be nil")
	}
	if trail == nil {
		panic("auth: audit trail cannot be nil")
	}

	s := &Service{
		storage:       storage,
		trail:         trail,
		log:           slog.Default(),
		bcryptCost:    bcrypt.DefaultCost,
		resetTokenTTL: time.Hour,
		now:           time.Now,
		resetTokens:   make(map[string]resetToken),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a free-tier account with the given credentials.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidCredentials
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	now := s.now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Role:      RoleFreeUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	if err := s.storage.StorePasswordHash(ctx, user.ID, hash); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials and records the attempt. Wrong email and
// wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.storage.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	hash, err := s.storage.GetPasswordHash(ctx, user.ID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		s.trail.MustRecord(ctx, user.ID, audit.EventLoginFailure,
			audit.WithDescription("wrong password"))
		return nil, ErrInvalidCredentials
	}

	s.trail.MustRecord(ctx, user.ID, audit.EventLoginSuccess)
	return user, nil
}

// Logout records the end of a session. There is no server-side session state
// to tear down here, the entry exists for the security trail.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) {
	s.trail.MustRecord(ctx, userID, audit.EventLogout)
}

// ForgotPassword issues a reset token for the account. Unknown emails
// return ErrUserNotFound; callers typically hide that from the requester.
func (s *Service) ForgotPassword(ctx context.Context, email string) (*PasswordResetRequest, error) {
	user, err := s.storage.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("auth: generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)
	expiresAt := s.now().Add(s.resetTokenTTL)

	s.resetMu.Lock()
	s.resetTokens[token] = resetToken{userID: user.ID, expiresAt: expiresAt}
	s.resetMu.Unlock()

	s.trail.MustRecord(ctx, user.ID, audit.EventPasswordResetRequested)

	return &PasswordResetRequest{Email: user.Email, Token: token, ExpiresAt: expiresAt}, nil
}

// ResetPassword redeems a reset token and installs the new password. Tokens
// are single use.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (*User, error) {
	if err := checkPassword(newPassword); err != nil {
		return nil, err
	}

	s.resetMu.Lock()
	rt, ok := s.resetTokens[token]
	if ok {
		delete(s.resetTokens, token)
	}
	s.resetMu.Unlock()

	if !ok {
		return nil, ErrInvalidResetToken
	}
	if s.now().After(rt.expiresAt) {
		return nil, ErrResetTokenExpired
	}

	user, err := s.storage.GetUserByID(ctx, rt.userID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	if err := s.storage.StorePasswordHash(ctx, user.ID, hash); err != nil {
		return nil, err
	}

	s.trail.MustRecord(ctx, user.ID, audit.EventPasswordResetCompleted)
	return user, nil
}

// SyncSubscription mirrors the entitlement snapshot onto the account record:
// role, plan id and expiry. Admin roles are never downgraded by billing
// state.
func (s *Service) SyncSubscription(ctx context.Context, userID uuid.UUID, sub *entitlement.Subscription) (*User, error) {
	user, err := s.storage.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if sub != nil && sub.ActiveAt(s.now()) {
		if !user.Role.Admin() {
			user.Role = RoleProUser
		}
		user.PlanID = sub.Plan.ID
		user.SubscriptionExpiresAt = sub.ExpiresAt
	} else {
		if !user.Role.Admin() {
			user.Role = RoleFreeUser
		}
		user.PlanID = ""
		user.SubscriptionExpiresAt = nil
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.storage.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func checkPassword(password string) error {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
