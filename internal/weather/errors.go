package weather

import "errors"

// Failure kinds surfaced to callers. Every error returned by clients, stores
// and the service wraps exactly one of these, so callers can branch with
// errors.Is without knowing which provider failed.
var (
	// ErrNetwork covers transport failures, timeouts and non-success statuses.
	ErrNetwork = errors.New("upstream request failed")

	// ErrParse covers malformed or unexpectedly shaped provider responses.
	ErrParse = errors.New("malformed upstream response")

	// ErrNotFound is returned when a required lookup produced zero results.
	ErrNotFound = errors.New("not found")

	// ErrStorage covers pin-file and image-cache I/O failures.
	ErrStorage = errors.New("local storage failure")
)
