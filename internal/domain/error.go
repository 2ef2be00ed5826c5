package domain

import "errors"

var (
	// Common domain errors
	ErrJobNotFound     = errors.New("job not found")
	ErrToolUnavailable = errors.New("tool unavailable")
	ErrStreamTimeout   = errors.New("stream timeout")
	ErrConfigMissing   = errors.New("required configuration missing")
)
