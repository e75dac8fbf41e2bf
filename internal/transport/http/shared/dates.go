package shared

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

var dateLayouts = []string{DateLayout, time.RFC3339}

// ParseDate reads a calendar date or an RFC3339 timestamp. Blank input is
// the zero time, which callers treat as absent.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q: want %s", value, DateLayout)
}
