package config

import "errors"

var (
	// ErrMissingListenAddr is returned when the listen address is not set.
	ErrMissingListenAddr = errors.New("listen address is required")

	// ErrInvalidRequestTimeout is returned when the request timeout is invalid.
	ErrInvalidRequestTimeout = errors.New("request timeout must be greater than 0")

	// ErrInvalidConcurrency is returned when max concurrent schedules is invalid.
	ErrInvalidConcurrency = errors.New("max concurrent schedules must be greater than 0")
)
