package reconciler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var workedComponent = regexp.MustCompile(`(\d+)\s*([hms])`)

// ParseWorked parses a server "worked" duration string into seconds.
// Two wire forms exist: component style ("2h 15m 30s", any subset), and
// clock style ("07:25" or "07:25:12"). Returns false when nothing in the
// string looks like a duration.
func ParseWorked(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		var total float64
		switch len(parts) {
		case 2, 3:
			for _, p := range parts {
				v, err := strconv.Atoi(strings.TrimSpace(p))
				if err != nil {
					return 0, false
				}
				total = total*60 + float64(v)
			}
			if len(parts) == 2 {
				// HH:MM, no seconds field
				total *= 60
			}
			return total, true
		default:
			return 0, false
		}
	}

	matches := workedComponent.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, false
	}
	var total float64
	for _, m := range matches {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		switch m[2] {
		case "h":
			total += float64(v) * 3600
		case "m":
			total += float64(v) * 60
		case "s":
			total += float64(v)
		}
	}
	return total, true
}

// punchLayouts are tried in order against the free-text punch-in field.
// Time-only layouts are completed with today's date.
var punchLayouts = []struct {
	layout   string
	timeOnly bool
}{
	{time.RFC3339, false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02T15:04:05", false},
	{"03:04:05 PM", true},
	{"3:04:05 PM", true},
	{"03:04 PM", true},
	{"3:04 PM", true},
	{"15:04:05", true},
	{"15:04", true},
}

// ParsePunchTime parses a flexible punch-in timestamp, using now's date
// when the string carries only a time. Falls back to manual HH:MM[:SS]
// splitting when no layout matches.
func ParsePunchTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty punch time")
	}

	for _, pl := range punchLayouts {
		t, err := time.Parse(pl.layout, s)
		if err != nil {
			continue
		}
		if pl.timeOnly {
			return time.Date(now.Year(), now.Month(), now.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, now.Location()), nil
		}
		return t.In(now.Location()), nil
	}

	// Manual fallback: strip any AM/PM marker, split on colons.
	manual := strings.ToUpper(s)
	pm := strings.Contains(manual, "PM")
	am := strings.Contains(manual, "AM")
	manual = strings.TrimSpace(strings.NewReplacer("AM", "", "PM", "").Replace(manual))

	parts := strings.Split(manual, ":")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("unparseable punch time %q", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable punch time %q", s)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable punch time %q", s)
	}
	sec := 0
	if len(parts) > 2 {
		if v, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
			sec = v
		}
	}
	if pm && h < 12 {
		h += 12
	}
	if am && h == 12 {
		h = 0
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return time.Time{}, fmt.Errorf("unparseable punch time %q", s)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), h, m, sec, 0, now.Location()), nil
}
