package tz

import "time"

// Clock returns the current time.
type Clock func() time.Time

// Converter binds conversions to the configured site zone. The host zone and
// clock are injectable so results are deterministic under test.
type Converter struct {
	loc   *time.Location
	local *time.Location
	now   Clock
}

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithLocal overrides the host zone (time.Local by default).
func WithLocal(loc *time.Location) ConverterOption {
	return func(c *Converter) {
		if loc != nil {
			c.local = loc
		}
	}
}

// WithClock overrides time.Now.
func WithClock(clock Clock) ConverterOption {
	return func(c *Converter) {
		if clock != nil {
			c.now = clock
		}
	}
}

// NewConverter resolves timezone and returns a converter bound to it.
func NewConverter(timezone string, opts ...ConverterOption) (*Converter, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return NewConverterForLocation(loc, opts...), nil
}

// NewConverterForLocation is NewConverter for an already resolved location.
func NewConverterForLocation(loc *time.Location, opts ...ConverterOption) *Converter {
	c := &Converter{
		loc:   loc,
		local: time.Local,
		now:   time.Now,
	}
	if c.loc == nil {
		c.loc = time.UTC
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Location returns the site zone.
func (c *Converter) Location() *time.Location { return c.loc }

// Local returns the host zone used for naive values.
func (c *Converter) Local() *time.Location { return c.local }

// Now returns the converter clock reading.
func (c *Converter) Now() time.Time { return c.now() }

// FromUTC converts instant to site wall-clock time in the host zone.
func (c *Converter) FromUTC(instant time.Time) time.Time {
	return fromUTC(instant, c.loc, c.local)
}

// FromUTCString parses raw as a UTC timestamp and converts it.
func (c *Converter) FromUTCString(raw string) (time.Time, error) {
	instant, err := ParseInstant(raw)
	if err != nil {
		return time.Time{}, err
	}
	return c.FromUTC(instant), nil
}

// ToUTC converts a site wall-clock string to UTC using the offset observed
// now.
func (c *Converter) ToUTC(local string) (string, error) {
	return toUTC(local, c.loc, c.local, c.now())
}

// ToUTCExact converts a site wall-clock string to UTC using the offset at
// that wall-clock time.
func (c *Converter) ToUTCExact(local string) (string, error) {
	return ToUTCExact(local, c.loc)
}

// Format renders instant in the site zone.
func (c *Converter) Format(instant time.Time, opts FormatOptions) string {
	return formatInTZ(instant, c.loc, opts)
}

// LocalInput renders instant as the editing-field value in the site zone.
func (c *Converter) LocalInput(instant time.Time) string {
	return FormatLocalInput(c.FromUTC(instant))
}

// Today returns midnight of the current site day, expressed in the site zone.
func (c *Converter) Today() time.Time {
	n := c.now().In(c.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, c.loc)
}
