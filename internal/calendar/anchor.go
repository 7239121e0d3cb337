package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the local calendar date form used throughout the engine.
	DateLayout = "2006-01-02"

	timeLayoutShort = "15:04"
	timeLayoutLong  = "15:04:05"
)

// ErrInvalidAnchor indicates the actionable's start date or time cannot be
// composed into an instant.
var ErrInvalidAnchor = errors.New("calendar: invalid anchor date or time")

// Anchor composes a local civil date and time-of-day in the given zone into an
// absolute instant. The UTC offset in effect at that civil time is resolved
// from the zone database, so anchors near DST transitions land on the correct
// instant rather than a fixed-offset approximation.
func Anchor(date, timeOfDay string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	day, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidAnchor, date)
	}

	hour, minute, second, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, second, 0, loc), nil
}

// LocalDateKey returns the calendar date the instant falls on in the given
// zone, formatted as YYYY-MM-DD. Exception dates are matched against this key
// rather than the UTC date of the instant.
func LocalDateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

func parseTimeOfDay(value string) (hour, minute, second int, err error) {
	trimmed := strings.TrimSpace(value)

	parsed, parseErr := time.Parse(timeLayoutLong, trimmed)
	if parseErr != nil {
		parsed, parseErr = time.Parse(timeLayoutShort, trimmed)
	}
	if parseErr != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidAnchor, value)
	}

	return parsed.Hour(), parsed.Minute(), parsed.Second(), nil
}
