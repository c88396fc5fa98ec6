// Package timefmt parses gateway timestamps. The gateway emits timestamps
// both with and without a zone suffix; zone-less values are UTC.
package timefmt

import (
	"regexp"
	"strings"
	"time"
)

// DisplayLayout is used for every timestamp rendered in the dashboard.
const DisplayLayout = "2006-01-02 15:04:05"

var zoneSuffix = regexp.MustCompile(`(?:Z|[+-]\d{2}(?::?\d{2})?)$`)

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07",
}

// HasZone reports whether the time part of s ends with a zone marker.
func HasZone(s string) bool {
	sep := strings.IndexAny(s, "T ")
	if sep < 0 {
		return false
	}
	return zoneSuffix.MatchString(s[sep+1:])
}

// Normalize appends a UTC marker to zone-less timestamps. It is idempotent.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || HasZone(s) {
		return s
	}
	return s + "Z"
}

func Parse(s string) (time.Time, error) {
	s = Normalize(s)
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// Format renders s in loc. Empty input renders as "-" and unparseable
// input is returned unchanged.
func Format(s string, loc *time.Location) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	t, err := Parse(s)
	if err != nil {
		return s
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayLayout)
}
