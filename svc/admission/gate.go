// Package admission decides whether a feature consumption goes ahead. It
// layers two verdicts: the local entitlement evaluator, which answers
// instantly from the session snapshot, and the remote quota authority, whose
// counters survive reinstalls and clock tampering. Both are reported
// separately in the Decision so callers can tell a genuine denial from an
// unreachable authority.
package admission

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mentorly/entitlement/svc/entitlement"
	"github.com/mentorly/entitlement/svc/quota"
)

// Decision is the outcome of an admission check. RemoteChecked is false when
// the authority was not consulted, for subscribers and unmetered features
// the local verdict stands alone.
type Decision struct {
	Allowed       bool
	LocalAllowed  bool
	RemoteAllowed bool
	RemoteChecked bool
}

// Gate composes the local evaluator with the remote limiter.
type Gate struct {
	ent      *entitlement.Service
	limiter  quota.Limiter
	limits   entitlement.LimitTable
	recorder *recorder
	log      *slog.Logger
	now      func() time.Time
}

// GateOption configures a Gate.
type GateOption func(*gateConfig)

type gateConfig struct {
	limits     entitlement.LimitTable
	log        *slog.Logger
	bufferSize int
	now        func() time.Time
}

// WithLimits overrides the free-tier limit table used for remote checks.
// Must match the table the entitlement service runs with.
func WithLimits(limits entitlement.LimitTable) GateOption {
	return func(c *gateConfig) { c.limits = limits }
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) GateOption {
	return func(c *gateConfig) { c.log = log }
}

// WithClock overrides the time source. Tests use it for determinism.
func WithClock(now func() time.Time) GateOption {
	return func(c *gateConfig) { c.now = now }
}

// WithRecorderBuffer sets the async increment queue size.
func WithRecorderBuffer(n int) GateOption {
	return func(c *gateConfig) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// NewGate returns an admission gate. Call Close during shutdown to flush
// pending remote increments.
func NewGate(ent *entitlement.Service, limiter quota.Limiter, opts ...GateOption) *Gate {
	if ent == nil {
		panic("admission: entitlement service cannot be nil")
	}
	if limiter == nil {
		panic("admission: limiter cannot be nil")
	}

	cfg := gateConfig{
		limits:     entitlement.DefaultLimits(),
		log:        slog.Default(),
		bufferSize: 256,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Gate{
		ent:      ent,
		limiter:  limiter,
		limits:   cfg.limits,
		recorder: newRecorder(limiter, cfg.bufferSize, cfg.log),
		log:      cfg.log,
		now:      cfg.now,
	}
}

// Admit evaluates both ledgers without consuming anything. A remote failure
// returns ErrLimiterUnavailable with a denying Decision: when the authority
// cannot answer, metered free-tier consumption does not proceed.
func (g *Gate) Admit(ctx context.Context, userID uuid.UUID, feature entitlement.Feature) (Decision, error) {
	local := g.ent.CanUse(ctx, userID, feature)
	d := Decision{LocalAllowed: local}

	if !local {
		return d, nil
	}

	// Subscribers and unmetered features are settled locally. The authority
	// only arbitrates free-tier daily caps.
	if !g.remoteApplies(ctx, userID, feature) {
		d.Allowed = true
		return d, nil
	}

	d.RemoteChecked = true
	allowed, err := g.limiter.Check(ctx, userID, feature, g.limits[feature])
	if err != nil {
		return d, errors.Join(ErrLimiterUnavailable, err)
	}

	d.RemoteAllowed = allowed
	d.Allowed = allowed
	if !allowed {
		return d, ErrQuotaExceeded
	}
	return d, nil
}

// Consume runs Admit and, when allowed, records the usage on both ledgers.
// The local counters update synchronously; the remote increment goes through
// the background recorder and never blocks or fails the call.
func (g *Gate) Consume(ctx context.Context, userID uuid.UUID, feature entitlement.Feature) (Decision, error) {
	d, err := g.Admit(ctx, userID, feature)
	if err != nil || !d.Allowed {
		return d, err
	}

	if !feature.Metered() {
		return d, nil
	}

	if _, err := g.ent.RecordUsage(ctx, userID, feature); err != nil {
		return d, err
	}
	if err := g.recorder.enqueue(userID, feature); err != nil {
		g.log.WarnContext(ctx, "remote increment not queued", "error", err, "user_id", userID)
	}
	return d, nil
}

// Reconcile pulls the authority's counters and raises the local daily ledger
// to match. Run it at session start, before the first admission check.
func (g *Gate) Reconcile(ctx context.Context, userID uuid.UUID) error {
	usage, err := g.limiter.Usage(ctx, userID)
	if err != nil {
		return errors.Join(ErrLimiterUnavailable, err)
	}

	if _, err := g.ent.SyncDailyUsage(ctx, userID, usage); err != nil {
		return err
	}
	return nil
}

// Close flushes pending remote increments. The context bounds the drain.
func (g *Gate) Close(ctx context.Context) error {
	return g.recorder.close(ctx)
}

// remoteApplies reports whether the authority has a say: only metered
// features consumed without an active subscription.
func (g *Gate) remoteApplies(ctx context.Context, userID uuid.UUID, feature entitlement.Feature) bool {
	if !feature.Metered() {
		return false
	}
	sub := g.ent.Subscription(ctx, userID)
	return !sub.ActiveAt(g.now())
}
