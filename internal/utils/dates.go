package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by the dashboard date pickers
const DateLayout = "2006-01-02"

// ParseDate accepts a YYYY-MM-DD calendar date or an RFC 3339 timestamp.
// Calendar dates are interpreted as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC 3339", value)
	}
	return t.UTC(), nil
}
