// Package audit keeps the security trail: authentication and account events
// recorded per user for later display on the account's security page.
// Recording is best effort and never blocks or fails the action being
// audited.
package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType classifies a security event.
type EventType string

const (
	EventLoginSuccess           EventType = "login_success"
	EventLoginFailure           EventType = "login_failure"
	EventLogout                 EventType = "logout"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordResetCompleted EventType = "password_reset_completed"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventLoginSuccess, EventLoginFailure, EventLogout,
		EventPasswordResetRequested, EventPasswordResetCompleted:
		return true
	}
	return false
}

// Event is a single security trail entry.
type Event struct {
	ID          uuid.UUID `json:"id" bson:"_id"`
	UserID      uuid.UUID `json:"user_id" bson:"user_id"`
	Type        EventType `json:"event_type" bson:"event_type"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	IP          string    `json:"ip,omitempty" bson:"ip,omitempty"`
	UserAgent   string    `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Validate checks the event carries the required fields.
func (e *Event) Validate() error {
	if e.UserID == uuid.Nil {
		return fmt.Errorf("%w: user id is required", ErrEventValidation)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown event type %q", ErrEventValidation, e.Type)
	}
	return nil
}

// EventOption applies extra fields to an Event during recording.
type EventOption func(*Event)

// WithDescription attaches a human-readable note to the event.
func WithDescription(desc string) EventOption {
	return func(e *Event) { e.Description = desc }
}

// WithIP overrides the IP taken from context.
func WithIP(ip string) EventOption {
	return func(e *Event) { e.IP = ip }
}

// WithUserAgent overrides the user agent taken from context.
func WithUserAgent(ua string) EventOption {
	return func(e *Event) { e.UserAgent = ua }
}
