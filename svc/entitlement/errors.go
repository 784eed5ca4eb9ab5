package entitlement

import "errors"

var (
	// ErrSnapshotNotFound is returned by stores when no snapshot exists for
	// the user. The service maps it to a fresh free-tier record.
	ErrSnapshotNotFound = errors.New("entitlement.errors.snapshot_not_found")

	// ErrSnapshotCorrupted is returned by stores when a snapshot exists but
	// cannot be decoded. The service treats it like a missing snapshot.
	ErrSnapshotCorrupted = errors.New("entitlement.errors.snapshot_corrupted")

	// ErrSaveFailed wraps storage write failures.
	ErrSaveFailed = errors.New("entitlement.errors.save_failed")

	// ErrFeatureNotMetered is returned when usage is recorded for a feature
	// that carries no counters.
	ErrFeatureNotMetered = errors.New("entitlement.errors.feature_not_metered")
)
