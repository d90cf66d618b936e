package scheduling

import "errors"

var (
	// ErrSelectionRequired is returned when study, subject or procedure is
	// missing from a draft.
	ErrSelectionRequired = errors.New("scheduling: please select study, subject, and procedure")
	// ErrEndBeforeStart is returned when the draft ends before it starts.
	ErrEndBeforeStart = errors.New("scheduling: end time is before start time")
	// ErrProcedureMismatch is returned when an event and procedure disagree.
	ErrProcedureMismatch = errors.New("scheduling: procedure does not match event")
)
