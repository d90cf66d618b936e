package tz

import "errors"

var (
	// ErrInvalidTimestamp is returned when an input string matches none of
	// the accepted ISO-8601 layouts.
	ErrInvalidTimestamp = errors.New("tz: invalid timestamp")
	// ErrUnknownZone is returned for names the zone database cannot resolve.
	ErrUnknownZone = errors.New("tz: unknown timezone")
	// ErrNilLocation is returned when a conversion is attempted without a zone.
	ErrNilLocation = errors.New("tz: location is nil")
)
