package admission

import "errors"

var (
	// ErrQuotaExceeded is returned when the authoritative counters deny a
	// consumption that the local evaluator would have allowed.
	ErrQuotaExceeded = errors.New("admission.errors.quota_exceeded")
	// ErrLimiterUnavailable is returned when the remote authority cannot be
	// consulted. Consumption is denied in this case, never waved through.
	ErrLimiterUnavailable = errors.New("admission.errors.limiter_unavailable")
	// ErrRecorderClosed is returned when enqueueing after shutdown.
	ErrRecorderClosed = errors.New("admission.errors.recorder_closed")
)
