package tz

import (
	"fmt"
	"strings"
	"time"
)

// Style selects how a date component is written. The empty style omits the
// component.
type Style string

const (
	StyleNone    Style = ""
	StyleNumeric Style = "numeric"
	Style2Digit  Style = "2-digit"
	StyleShort   Style = "short"
	StyleLong    Style = "long"
	StyleNarrow  Style = "narrow"
)

// FormatOptions picks the components FormatInTZ writes. The zero value
// formats the date as d/m/yyyy.
type FormatOptions struct {
	Weekday Style
	Day     Style
	Month   Style
	Year    Style
	Hour    Style
	Minute  Style
	Second  Style
	Hour12  bool
}

// DateOnly is the day/month/year default.
var DateOnly = FormatOptions{Day: StyleNumeric, Month: StyleNumeric, Year: StyleNumeric}

func (o FormatOptions) empty() bool {
	return o.Weekday == "" && o.Day == "" && o.Month == "" && o.Year == "" &&
		o.Hour == "" && o.Minute == "" && o.Second == ""
}

// FormatInTZ renders instant as seen in loc. Date parts follow the
// day-month-year order used in Hong Kong English; textual months are written
// "15 Jan 2024" and numeric ones "15/1/2024". A nil loc is ErrNilLocation.
func FormatInTZ(instant time.Time, loc *time.Location, opts FormatOptions) (string, error) {
	if loc == nil {
		return "", ErrNilLocation
	}
	return formatInTZ(instant, loc, opts), nil
}

func formatInTZ(instant time.Time, loc *time.Location, opts FormatOptions) string {
	if opts.empty() {
		opts = DateOnly
	}
	t := instant.In(loc)

	var parts []string
	if date := formatDate(t, opts); date != "" {
		parts = append(parts, date)
	}
	if clock := formatClock(t, opts); clock != "" {
		parts = append(parts, clock)
	}
	return strings.Join(parts, ", ")
}

// FormatStringInTZ parses raw with ParseInstant before formatting.
func FormatStringInTZ(raw string, loc *time.Location, opts FormatOptions) (string, error) {
	instant, err := ParseInstant(raw)
	if err != nil {
		return "", err
	}
	return FormatInTZ(instant, loc, opts)
}

func formatDate(t time.Time, o FormatOptions) string {
	weekday := formatWeekday(t.Weekday(), o.Weekday)
	day := formatNumber(t.Day(), o.Day)
	year := formatYear(t.Year(), o.Year)

	var body string
	switch o.Month {
	case StyleShort, StyleLong, StyleNarrow:
		body = joinNonEmpty(" ", day, formatMonthName(t.Month(), o.Month), year)
	case StyleNumeric, Style2Digit:
		body = joinNonEmpty("/", day, formatNumber(int(t.Month()), o.Month), year)
	default:
		body = joinNonEmpty(" ", day, year)
	}

	switch {
	case weekday == "":
		return body
	case body == "":
		return weekday
	case o.Month == StyleNone:
		return weekday + " " + body
	default:
		return weekday + ", " + body
	}
}

func formatClock(t time.Time, o FormatOptions) string {
	if o.Hour == "" && o.Minute == "" && o.Second == "" {
		return ""
	}
	hour := t.Hour()
	suffix := ""
	if o.Hour12 {
		suffix = " am"
		if hour >= 12 {
			suffix = " pm"
		}
		hour %= 12
		if hour == 0 {
			hour = 12
		}
	}

	var fields []string
	if o.Hour != "" {
		if o.Hour12 {
			fields = append(fields, formatNumber(hour, o.Hour))
		} else {
			fields = append(fields, fmt.Sprintf("%02d", hour))
		}
	}
	if o.Minute != "" {
		fields = append(fields, fmt.Sprintf("%02d", t.Minute()))
	}
	if o.Second != "" {
		fields = append(fields, fmt.Sprintf("%02d", t.Second()))
	}
	clock := strings.Join(fields, ":")
	if o.Hour != "" {
		clock += suffix
	}
	return clock
}

func formatWeekday(d time.Weekday, style Style) string {
	name := d.String()
	switch style {
	case StyleLong:
		return name
	case StyleShort, StyleNumeric, Style2Digit:
		return name[:3]
	case StyleNarrow:
		return name[:1]
	default:
		return ""
	}
}

func formatMonthName(m time.Month, style Style) string {
	name := m.String()
	switch style {
	case StyleLong:
		return name
	case StyleNarrow:
		return name[:1]
	default:
		return name[:3]
	}
}

func formatNumber(n int, style Style) string {
	switch style {
	case Style2Digit:
		return fmt.Sprintf("%02d", n%100)
	case StyleNone:
		return ""
	default:
		return fmt.Sprintf("%d", n)
	}
}

func formatYear(y int, style Style) string {
	switch style {
	case Style2Digit:
		return fmt.Sprintf("%02d", y%100)
	case StyleNone:
		return ""
	default:
		return fmt.Sprintf("%d", y)
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
