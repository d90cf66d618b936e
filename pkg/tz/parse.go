package tz

import (
	"fmt"
	"strings"
	"time"
)

// LocalInputLayout is the wall-clock layout of a datetime editing field.
const LocalInputLayout = "2006-01-02T15:04"

// UTCLayout is the wire layout produced by ToUTC.
const UTCLayout = "2006-01-02T15:04:05Z"

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	LocalInputLayout,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseInstant reads an ISO-8601 timestamp. Values without a zone designator
// are UTC, matching how the API stores datetimes.
func ParseInstant(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return parseNaive(s, time.UTC)
}

// ParseLocal reads a naive wall-clock string in loc.
func ParseLocal(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		return time.Time{}, ErrNilLocation
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}
	return parseNaive(s, loc)
}

func parseNaive(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// LoadLocation resolves an IANA name, wrapping failures in ErrUnknownZone.
func LoadLocation(name string) (*time.Location, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownZone)
	}
	loc, err := time.LoadLocation(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownZone, trimmed, err)
	}
	return loc, nil
}
