package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mentorly/entitlement/pkg/clientip"
)

// contextExtractor pulls a string out of context. The second return reports
// whether a value was present.
type contextExtractor func(context.Context) (string, bool)

// Trail records security events. Writes go through the configured Storage;
// wrap it with NewAsyncStorage when the caller must never wait on I/O.
type Trail struct {
	storage            Storage
	ipExtractor        contextExtractor
	userAgentExtractor contextExtractor
	now                func() time.Time
	log                *slog.Logger
}

// TrailOption configures a Trail.
type TrailOption func(*Trail)

// WithIPExtractor replaces how the client IP is read from context.
func WithIPExtractor(fn contextExtractor) TrailOption {
	return func(t *Trail) { t.ipExtractor = fn }
}

// WithUserAgentExtractor replaces how the user agent is read from context.
func WithUserAgentExtractor(fn contextExtractor) TrailOption {
	return func(t *Trail) { t.userAgentExtractor = fn }
}

// WithTrailClock overrides the event timestamp source.
func WithTrailClock(now func() time.Time) TrailOption {
	return func(t *Trail) { t.now = now }
}

// WithTrailLogger sets the logger used for failed best-effort writes.
func WithTrailLogger(log *slog.Logger) TrailOption {
	return func(t *Trail) { t.log = log }
}

// NewTrail returns a security event recorder writing to storage.
func NewTrail(storage Storage, opts ...TrailOption) *Trail {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	t := &Trail{
		storage: storage,
		ipExtractor: func(ctx context.Context) (string, bool) {
			ip := clientip.FromContext(ctx)
			return ip, ip != ""
		},
		userAgentExtractor: UserAgentFromContext,
		now:                time.Now,
		log:                slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record stores one security event for userID, filling IP and user agent
// from context. The error is returned for callers that care; most audit
// sites log and move on.
func (t *Trail) Record(ctx context.Context, userID uuid.UUID, eventType EventType, opts ...EventOption) error {
	event := Event{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      eventType,
		CreatedAt: t.now().UTC(),
	}

	if ip, ok := t.ipExtractor(ctx); ok {
		event.IP = ip
	}
	if ua, ok := t.userAgentExtractor(ctx); ok {
		event.UserAgent = ua
	}

	for _, opt := range opts {
		opt(&event)
	}

	if err := event.Validate(); err != nil {
		return err
	}
	return t.storage.Store(ctx, event)
}

// MustRecord is Record for best-effort call sites: failures are logged and
// swallowed so the audited action is never blocked.
func (t *Trail) MustRecord(ctx context.Context, userID uuid.UUID, eventType EventType, opts ...EventOption) {
	if err := t.Record(ctx, userID, eventType, opts...); err != nil {
		t.log.ErrorContext(ctx, "security event not recorded",
			"error", err, "user_id", userID, "event_type", eventType)
	}
}
