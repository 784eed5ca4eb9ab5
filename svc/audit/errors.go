package audit

import "errors"

var (
	// ErrEventValidation is returned when an event misses required fields.
	ErrEventValidation = errors.New("audit.errors.event_validation")
	// ErrStorageNotAvailable is returned when recording after shutdown.
	ErrStorageNotAvailable = errors.New("audit.errors.storage_not_available")
	// ErrForbidden is returned when a user requests another user's trail.
	ErrForbidden = errors.New("audit.errors.forbidden")
)
