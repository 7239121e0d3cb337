package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Frequency identifies the supported recurrence frequencies.
type Frequency int

const (
	// FrequencyDaily repeats every INTERVAL days.
	FrequencyDaily Frequency = iota + 1
	// FrequencyWeekly repeats every INTERVAL weeks on the selected weekdays.
	FrequencyWeekly
	// FrequencyMonthly repeats every INTERVAL months on the anchor's day of month.
	FrequencyMonthly
)

// ErrInvalidRule indicates a recurrence expression could not be parsed.
var ErrInvalidRule = errors.New("calendar: invalid recurrence rule")

// Rule is a parsed recurrence expression restricted to the supported grammar:
// FREQ=DAILY|WEEKLY|MONTHLY, optional INTERVAL=n, optional BYDAY weekday list
// (meaningful for WEEKLY) and optional UNTIL upper bound.
type Rule struct {
	Freq     Frequency
	Interval int
	Weekdays []time.Weekday
	Until    *time.Time
}

var weekdayCodes = map[string]time.Weekday{
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
	"SU": time.Sunday,
}

var untilLayouts = []string{
	"20060102T150405Z",
	time.RFC3339,
}

var untilDateLayouts = []string{
	"20060102",
	DateLayout,
}

// ParseRule parses a recurrence expression. A rule without FREQ, with an
// unknown frequency, or with malformed components is rejected.
func ParseRule(raw string) (Rule, error) {
	rule := Rule{Interval: 1}

	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			return Rule{}, fmt.Errorf("%w: component %q", ErrInvalidRule, part)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "FREQ":
			switch strings.ToUpper(value) {
			case "DAILY":
				rule.Freq = FrequencyDaily
			case "WEEKLY":
				rule.Freq = FrequencyWeekly
			case "MONTHLY":
				rule.Freq = FrequencyMonthly
			default:
				return Rule{}, fmt.Errorf("%w: unsupported frequency %q", ErrInvalidRule, value)
			}
		case "INTERVAL":
			interval, err := strconv.Atoi(value)
			if err != nil || interval <= 0 {
				return Rule{}, fmt.Errorf("%w: interval %q", ErrInvalidRule, value)
			}
			rule.Interval = interval
		case "BYDAY":
			weekdays, err := parseWeekdays(value)
			if err != nil {
				return Rule{}, err
			}
			rule.Weekdays = weekdays
		case "UNTIL":
			until, err := parseUntil(value)
			if err != nil {
				return Rule{}, err
			}
			rule.Until = &until
		default:
			// Unknown components outside the supported grammar are ignored
			// rather than rejected, matching the tolerant source behavior.
		}
	}

	if rule.Freq == 0 {
		return Rule{}, fmt.Errorf("%w: missing FREQ", ErrInvalidRule)
	}

	return rule, nil
}

func parseWeekdays(value string) ([]time.Weekday, error) {
	codes := strings.Split(value, ",")
	weekdays := make([]time.Weekday, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		weekday, ok := weekdayCodes[code]
		if !ok {
			return nil, fmt.Errorf("%w: weekday code %q", ErrInvalidRule, code)
		}
		weekdays = append(weekdays, weekday)
	}
	return weekdays, nil
}

// parseUntil accepts either an instant form or a bare date. Bare dates are
// normalized to the end of that day in UTC so the whole final day remains
// eligible.
func parseUntil(value string) (time.Time, error) {
	for _, layout := range untilLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	for _, layout := range untilDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: until %q", ErrInvalidRule, value)
}
