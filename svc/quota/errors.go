package quota

import "errors"

var (
	// ErrUnavailable is returned when the remote quota service cannot be
	// reached or answers with a server error. Callers treat consumption
	// checks as denied in this case.
	ErrUnavailable = errors.New("quota.errors.unavailable")
	// ErrBadRequest is returned when the quota service rejects the request
	// payload.
	ErrBadRequest = errors.New("quota.errors.bad_request")
	// ErrUnauthorized is returned when the quota service rejects the API key.
	ErrUnauthorized = errors.New("quota.errors.unauthorized")
)
