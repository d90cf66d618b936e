package timezones

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
)

//go:embed data/iana_timezones.txt
var dataFS embed.FS

const defaultListPath = "data/iana_timezones.txt"

var loadDefault = sync.OnceValues(func() ([]string, error) {
	f, err := dataFS.Open(defaultListPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return LoadZones(f)
})

// DefaultZones returns a copy of the embedded, sorted zone list.
func DefaultZones() ([]string, error) {
	zones, err := loadDefault()
	if err != nil {
		return nil, fmt.Errorf("timezones: embedded list: %w", err)
	}
	return slices.Clone(zones), nil
}

// LoadZones reads one zone per line. Blank lines and # comments, whole-line
// or trailing, are skipped. The result is sorted without duplicates. A line
// holding more than one word is an error.
func LoadZones(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("timezones: missing reader")
	}

	var zones []string
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line, _, _ := strings.Cut(scanner.Text(), "#")
		fields := strings.Fields(line)
		switch len(fields) {
		case 0:
			continue
		case 1:
			zones = append(zones, fields[0])
		default:
			return nil, fmt.Errorf("timezones: line %d: expected one zone, got %q", n, strings.TrimSpace(line))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	slices.Sort(zones)
	return slices.Compact(zones), nil
}
