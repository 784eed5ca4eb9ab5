package auth

import "errors"

var (
	// ErrInvalidCredentials is returned on a wrong email/password pair.
	// Deliberately the same error for both cases.
	ErrInvalidCredentials = errors.New("auth.errors.invalid_credentials")
	// ErrEmailTaken is returned when registering an existing email.
	ErrEmailTaken = errors.New("auth.errors.email_taken")
	// ErrUserNotFound is returned when no account matches.
	ErrUserNotFound = errors.New("auth.errors.user_not_found")
	// ErrWeakPassword is returned when a password fails the minimum policy.
	ErrWeakPassword = errors.New("auth.errors.weak_password")
	// ErrInvalidResetToken is returned for unknown or already-used tokens.
	ErrInvalidResetToken = errors.New("auth.errors.invalid_reset_token")
	// ErrResetTokenExpired is returned when the reset window has passed.
	ErrResetTokenExpired = errors.New("auth.errors.reset_token_expired")
)
