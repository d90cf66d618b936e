package timezones

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Option is a picker entry. Label carries the zone's current UTC offset.
type Option struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Offset string `json:"offset,omitempty"`
}

// IsKnown reports whether zone is in the embedded list.
func IsKnown(zone string) bool {
	zones, err := DefaultZones()
	if err != nil {
		return false
	}
	idx := sort.SearchStrings(zones, zone)
	return idx < len(zones) && zones[idx] == zone
}

// Lookup resolves zone, rejecting names missing from the embedded list even
// when the host tz database would accept them.
func Lookup(zone string) (*time.Location, error) {
	zone = strings.TrimSpace(zone)
	if !IsKnown(zone) {
		return nil, fmt.Errorf("timezones: unknown zone %q", zone)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("timezones: load %q: %w", zone, err)
	}
	return loc, nil
}

// OffsetLabel formats the offset of loc at the given instant as
// "UTC+08:00".
func OffsetLabel(loc *time.Location, at time.Time) string {
	if loc == nil {
		loc = time.UTC
	}
	_, offset := at.In(loc).Zone()
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offset/3600, (offset%3600)/60)
}

func newOption(zone string, now time.Time) Option {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Option{Value: zone, Label: zone}
	}
	offset := OffsetLabel(loc, now)
	return Option{Value: zone, Label: zone + " (" + offset + ")", Offset: offset}
}
