package sift

import "errors"

// Pre-flight errors abort the run before any transfer executes.
// Per-item transfer failures are captured in outcomes, never returned.
var (
	// ErrInvalidPattern is returned when the key pattern does not compile.
	ErrInvalidPattern = errors.New("invalid key pattern")

	// ErrListingFailed is returned when the source bucket cannot be
	// listed (or a later page request fails).
	ErrListingFailed = errors.New("listing failed")
)
