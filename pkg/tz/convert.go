package tz

import (
	"time"
)

// FromUTC returns the wall-clock reading of instant in loc, rebuilt in the
// host local zone. Sub-second precision is dropped. A nil loc is
// ErrNilLocation.
func FromUTC(instant time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		return time.Time{}, ErrNilLocation
	}
	return fromUTC(instant, loc, time.Local), nil
}

// FromUTCString parses raw with ParseInstant before converting.
func FromUTCString(raw string, loc *time.Location) (time.Time, error) {
	instant, err := ParseInstant(raw)
	if err != nil {
		return time.Time{}, err
	}
	return FromUTC(instant, loc)
}

// ToUTC interprets local as a wall-clock value in loc and returns the UTC
// timestamp in UTCLayout. The zone offset is measured at the current moment;
// see the package documentation for the DST caveat.
func ToUTC(local string, loc *time.Location) (string, error) {
	return toUTC(local, loc, time.Local, time.Now())
}

// ToUTCExact is ToUTC with the offset resolved at the converted wall-clock
// time. Wall-clock values skipped by a DST gap are normalised forward by
// the time package.
func ToUTCExact(local string, loc *time.Location) (string, error) {
	t, err := ParseLocal(local, loc)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(UTCLayout), nil
}

// FormatLocalInput renders t in LocalInputLayout using its own location.
func FormatLocalInput(t time.Time) string {
	return t.Format(LocalInputLayout)
}

func fromUTC(instant time.Time, loc, local *time.Location) time.Time {
	w := instant.In(loc)
	return time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), 0, local)
}

func toUTC(local string, loc, host *time.Location, now time.Time) (string, error) {
	if loc == nil {
		return "", ErrNilLocation
	}
	parsed, err := ParseLocal(local, host)
	if err != nil {
		return "", err
	}
	// Offset between the host zone and loc, taken at now rather than at parsed.
	now = now.Truncate(time.Second)
	w := now.In(loc)
	target := time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), 0, host)
	offset := now.Sub(target)
	return parsed.Add(offset).UTC().Format(UTCLayout), nil
}
