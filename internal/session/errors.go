package session

import "errors"

// Sentinel errors for the session package.
var (
	// ErrSessionClosed is returned when operations are attempted on a closed session.
	ErrSessionClosed = errors.New("session is closed")

	// ErrSessionNotFound is returned when a session ID is not found.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidSize is returned when a requested size is invalid.
	ErrInvalidSize = errors.New("invalid session size")

	// ErrShellNotFound is returned when the shell executable is not found.
	ErrShellNotFound = errors.New("shell not found")

	// ErrManagerClosed is returned when operations are attempted on a closed manager.
	ErrManagerClosed = errors.New("session manager is closed")
)
