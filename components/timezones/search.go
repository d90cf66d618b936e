package timezones

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Match ranks, best first.
const (
	rankPrefix  = iota // "asia/h" on Asia/Hong_Kong
	rankSegment        // "hong" on Asia/Hong_Kong
	rankContains
)

// Search returns zones matching query, case-insensitively. Spaces match
// underscores so "hong kong" finds Asia/Hong_Kong. Whole-name prefixes rank
// first, then matches at the start of a path segment, then plain substrings;
// ties sort alphabetically.
//
// A query shaped like an offset ("+8", "UTC+08:00", "-05:30") instead lists
// the zones observing that offset at opts.Now.
func Search(zones []string, query string, limit int, opts Options) []string {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode != EmptySearchTop {
			return nil
		}
		return slices.Clone(zones[:min(limit, len(zones))])
	}

	if offset, ok := parseOffsetQuery(query); ok {
		return byOffset(zones, offset, limit, opts.now())
	}

	q := strings.ToLower(strings.ReplaceAll(query, " ", "_"))
	matches := make([]matchedZone, 0, 32)
	for _, zone := range zones {
		if rank, ok := matchRank(strings.ToLower(zone), q); ok {
			matches = append(matches, matchedZone{name: zone, rank: rank})
		}
	}
	slices.SortStableFunc(matches, func(a, b matchedZone) int {
		if a.rank != b.rank {
			return a.rank - b.rank
		}
		return strings.Compare(a.name, b.name)
	})

	out := make([]string, 0, min(limit, len(matches)))
	for _, match := range matches[:min(limit, len(matches))] {
		out = append(out, match.name)
	}
	return out
}

// SearchOptions is Search mapped to picker options labelled with the offset
// each zone has at opts.Now.
func SearchOptions(zones []string, query string, limit int, opts Options) []Option {
	results := Search(zones, query, limit, opts)
	if len(results) == 0 {
		return nil
	}

	now := opts.now()
	out := make([]Option, 0, len(results))
	for _, zone := range results {
		out = append(out, newOption(zone, now))
	}
	return out
}

type matchedZone struct {
	name string
	rank int
}

func matchRank(zone, q string) (int, bool) {
	idx := strings.Index(zone, q)
	switch {
	case idx < 0:
		return 0, false
	case idx == 0:
		return rankPrefix, true
	case strings.Contains(zone, "/"+q):
		return rankSegment, true
	default:
		return rankContains, true
	}
}

var offsetQuery = regexp.MustCompile(`^(?i:utc|gmt)?\s*([+-])(\d{1,2})(?::?(\d{2}))?$`)

// parseOffsetQuery normalises an offset query to the OffsetLabel form.
func parseOffsetQuery(q string) (string, bool) {
	m := offsetQuery.FindStringSubmatch(q)
	if m == nil {
		return "", false
	}
	hours, _ := strconv.Atoi(m[2])
	minutes := 0
	if m[3] != "" {
		minutes, _ = strconv.Atoi(m[3])
	}
	if hours > 14 || minutes > 59 {
		return "", false
	}
	return fmt.Sprintf("UTC%s%02d:%02d", m[1], hours, minutes), true
}

func byOffset(zones []string, offset string, limit int, at time.Time) []string {
	var out []string
	for _, zone := range zones {
		loc, err := time.LoadLocation(zone)
		if err != nil || OffsetLabel(loc, at) != offset {
			continue
		}
		out = append(out, zone)
		if len(out) == limit {
			break
		}
	}
	return out
}
