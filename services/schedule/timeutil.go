// File: services/schedule/timeutil.go
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseClock converts a canonical "HH:MM" string into minutes from
// midnight. Anything it cannot parse is a validation failure upstream.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}

// NormalizeClock reduces the time representations seen in booking
// records ("HH:MM", "HH:MM:SS", "HH:MM AM/PM", "H:MM pm") to the
// canonical zero-padded 24h "HH:MM" form used as the reconciliation key.
func NormalizeClock(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	upper := strings.ToUpper(s)
	meridiem := ""
	switch {
	case strings.HasSuffix(upper, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(upper, "PM"):
		meridiem = "PM"
	}
	if meridiem != "" {
		s = strings.TrimSpace(upper[:len(upper)-2])
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return "", false
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minute < 0 || minute > 59 {
		return "", false
	}

	switch meridiem {
	case "AM":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour < 0 || hour > 23 {
			return "", false
		}
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// FormatDate builds the canonical "YYYY-MM-DD" key from explicit
// calendar components, never through a timezone-aware serialization.
func FormatDate(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

// DateOf returns the canonical date key for t's local calendar day.
func DateOf(t time.Time) string {
	return FormatDate(t.Year(), t.Month(), t.Day())
}

// monthBounds returns the first and last date keys of a calendar month.
func monthBounds(year, month int) (string, string) {
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return FormatDate(year, time.Month(month), 1), FormatDate(year, time.Month(month), last)
}

// yearBounds returns the first and last date keys of a calendar year.
func yearBounds(year int) (string, string) {
	return FormatDate(year, time.January, 1), FormatDate(year, time.December, 31)
}
