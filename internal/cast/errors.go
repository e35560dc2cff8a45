package cast

import "errors"

// Errors returned by recording operations.
var (
	// ErrBadHeader indicates a missing or malformed asciicast header line.
	ErrBadHeader = errors.New("bad asciicast header")

	// ErrBadEvent indicates a malformed asciicast event line.
	ErrBadEvent = errors.New("bad asciicast event")
)
