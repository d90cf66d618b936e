package tz_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-studyform/pkg/tz"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := tz.LoadLocation(name)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return loc
}

func fixedClock(at time.Time) tz.Clock {
	return func() time.Time { return at }
}

func TestParseInstantTreatsNaiveAsUTC(t *testing.T) {
	naive, err := tz.ParseInstant("2024-01-15T02:05:09")
	if err != nil {
		t.Fatalf("parse naive: %v", err)
	}
	zoned, err := tz.ParseInstant("2024-01-15T10:05:09+08:00")
	if err != nil {
		t.Fatalf("parse zoned: %v", err)
	}
	if !naive.Equal(zoned) {
		t.Fatalf("expected %s == %s", naive, zoned)
	}
	if _, err := tz.ParseInstant("yesterday"); !errors.Is(err, tz.ErrInvalidTimestamp) {
		t.Fatalf("expected ErrInvalidTimestamp, got %v", err)
	}
}

func TestFromUTCRebuildsWallClockInHostZone(t *testing.T) {
	conv, err := tz.NewConverter("Asia/Hong_Kong", tz.WithLocal(time.UTC))
	if err != nil {
		t.Fatalf("converter: %v", err)
	}
	got, err := conv.FromUTCString("2024-01-15T02:05:09.500")
	if err != nil {
		t.Fatalf("from utc: %v", err)
	}
	want := time.Date(2024, time.January, 15, 10, 5, 9, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
	if in := tz.FormatLocalInput(got); in != "2024-01-15T10:05" {
		t.Fatalf("local input mismatch: %q", in)
	}
}

func TestRoundTripWithStableOffset(t *testing.T) {
	now := time.Date(2024, time.March, 1, 6, 30, 0, 0, time.UTC)
	host := time.FixedZone("HOST", -3*60*60)
	conv, err := tz.NewConverter("Asia/Tokyo", tz.WithLocal(host), tz.WithClock(fixedClock(now)))
	if err != nil {
		t.Fatalf("converter: %v", err)
	}

	instant := now.Add(45 * 24 * time.Hour).Add(17 * time.Minute)
	local := tz.FormatLocalInput(conv.FromUTC(instant))

	got, err := conv.ToUTC(local)
	if err != nil {
		t.Fatalf("to utc: %v", err)
	}
	want := instant.Truncate(time.Minute).Format(tz.UTCLayout)
	if got != want {
		t.Fatalf("round trip mismatch: got %s want %s", got, want)
	}
}

func TestRoundTripWithHostClock(t *testing.T) {
	loc := mustLoad(t, "Asia/Kolkata")
	instant := time.Now().UTC().Add(60 * 24 * time.Hour)

	_, offNow := time.Now().Zone()
	_, offThen := instant.In(time.Local).Zone()
	if offNow != offThen {
		t.Skip("host zone changes offset before the target date")
	}

	local, err := tz.FromUTC(instant, loc)
	if err != nil {
		t.Fatalf("from utc: %v", err)
	}
	got, err := tz.ToUTC(tz.FormatLocalInput(local), loc)
	if err != nil {
		t.Fatalf("to utc: %v", err)
	}
	if want := instant.Truncate(time.Minute).Format(tz.UTCLayout); got != want {
		t.Fatalf("round trip mismatch: got %s want %s", got, want)
	}
}

func TestToUTCUsesCurrentOffsetAcrossDST(t *testing.T) {
	winter := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	conv, err := tz.NewConverter("America/New_York", tz.WithLocal(time.UTC), tz.WithClock(fixedClock(winter)))
	if err != nil {
		t.Fatalf("converter: %v", err)
	}

	approx, err := conv.ToUTC("2024-07-01T09:00")
	if err != nil {
		t.Fatalf("to utc: %v", err)
	}
	// EST offset measured in January, applied to a July (EDT) wall clock.
	if approx != "2024-07-01T14:00:00Z" {
		t.Fatalf("approximate conversion changed: %s", approx)
	}

	exact, err := conv.ToUTCExact("2024-07-01T09:00")
	if err != nil {
		t.Fatalf("to utc exact: %v", err)
	}
	if exact != "2024-07-01T13:00:00Z" {
		t.Fatalf("exact conversion mismatch: %s", exact)
	}
}

func TestNilLocationIsAnError(t *testing.T) {
	at := time.Date(2024, time.January, 15, 20, 0, 0, 0, time.UTC)

	if _, err := tz.FromUTC(at, nil); !errors.Is(err, tz.ErrNilLocation) {
		t.Fatalf("from utc: expected ErrNilLocation, got %v", err)
	}
	if _, err := tz.FromUTCString("2024-01-15T20:00:00Z", nil); !errors.Is(err, tz.ErrNilLocation) {
		t.Fatalf("from utc string: expected ErrNilLocation, got %v", err)
	}
	if _, err := tz.FormatInTZ(at, nil, tz.FormatOptions{}); !errors.Is(err, tz.ErrNilLocation) {
		t.Fatalf("format: expected ErrNilLocation, got %v", err)
	}
	if _, err := tz.ToUTC("2024-01-15T10:00", nil); !errors.Is(err, tz.ErrNilLocation) {
		t.Fatalf("to utc: expected ErrNilLocation, got %v", err)
	}
}

func TestNewConverterRejectsUnknownZone(t *testing.T) {
	if _, err := tz.NewConverter("Mars/Olympus_Mons"); !errors.Is(err, tz.ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
	if _, err := tz.NewConverter(""); !errors.Is(err, tz.ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone for empty name, got %v", err)
	}
}

func TestFormatInTZ(t *testing.T) {
	hk := mustLoad(t, "Asia/Hong_Kong")
	morning := time.Date(2024, time.January, 15, 2, 5, 9, 0, time.UTC)
	afternoon := time.Date(2024, time.January, 15, 6, 30, 0, 0, time.UTC)

	cases := []struct {
		name    string
		instant time.Time
		opts    tz.FormatOptions
		want    string
	}{
		{name: "default", instant: morning, want: "15/1/2024"},
		{name: "calendar header", instant: morning, opts: tz.FormatOptions{Weekday: tz.StyleShort, Day: tz.StyleNumeric}, want: "Mon 15"},
		{name: "month title", instant: morning, opts: tz.FormatOptions{Month: tz.StyleLong, Year: tz.StyleNumeric}, want: "January 2024"},
		{
			name:    "full",
			instant: morning,
			opts: tz.FormatOptions{
				Weekday: tz.StyleShort, Day: tz.StyleNumeric, Month: tz.StyleShort, Year: tz.StyleNumeric,
				Hour: tz.Style2Digit, Minute: tz.Style2Digit,
			},
			want: "Mon, 15 Jan 2024, 10:05",
		},
		{name: "12 hour", instant: afternoon, opts: tz.FormatOptions{Hour: tz.StyleNumeric, Minute: tz.Style2Digit, Hour12: true}, want: "2:30 pm"},
		{name: "seconds", instant: morning, opts: tz.FormatOptions{Hour: tz.Style2Digit, Minute: tz.Style2Digit, Second: tz.Style2Digit}, want: "10:05:09"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tz.FormatInTZ(tc.instant, hk, tc.opts)
			if err != nil {
				t.Fatalf("format: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestFormatStringInTZAppendsUTC(t *testing.T) {
	hk := mustLoad(t, "Asia/Hong_Kong")
	got, err := tz.FormatStringInTZ("2024-01-15T20:00:00", hk, tz.FormatOptions{})
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if got != "16/1/2024" {
		t.Fatalf("expected next day in Hong Kong, got %q", got)
	}
}
