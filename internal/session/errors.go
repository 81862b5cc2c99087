package session

import "errors"

var (
	// ErrAlreadyStarted is delivered when Start is called more than once.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("session closed")

	// ErrNoWatchPath is returned by Watch when the session has no catalog file.
	ErrNoWatchPath = errors.New("no catalog file to watch")
)
