package config

import "errors"

var (
	// ErrNilConfig is returned when a nil pointer is passed to Load.
	ErrNilConfig = errors.New("config.errors.nil_config")

	// ErrParseFailed is returned when environment variables cannot be parsed
	// into the target struct.
	ErrParseFailed = errors.New("config.errors.parse_failed")
)
