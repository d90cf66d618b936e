package tui

import "errors"

var (
	// ErrAborted is returned when the user interrupts a prompt (Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrCancelled is returned when the user declines to save the data.
	ErrCancelled = errors.New("tui: cancelled")

	errNotANumber = errors.New("not a number")
	errNotADate   = errors.New("expected YYYY-MM-DD")
)
