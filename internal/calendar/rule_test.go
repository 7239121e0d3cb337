package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestParseRule_SupportedGrammar(t *testing.T) {
	t.Parallel()

	t.Run("daily defaults interval to one", func(t *testing.T) {
		t.Parallel()

		rule, err := ParseRule("FREQ=DAILY")
		if err != nil {
			t.Fatalf("ParseRule returned error: %v", err)
		}
		if rule.Freq != FrequencyDaily || rule.Interval != 1 {
			t.Fatalf("unexpected rule: %+v", rule)
		}
	})

	t.Run("weekly with byday and interval", func(t *testing.T) {
		t.Parallel()

		rule, err := ParseRule("FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE")
		if err != nil {
			t.Fatalf("ParseRule returned error: %v", err)
		}
		if rule.Freq != FrequencyWeekly || rule.Interval != 2 {
			t.Fatalf("unexpected rule: %+v", rule)
		}
		if len(rule.Weekdays) != 2 || rule.Weekdays[0] != time.Monday || rule.Weekdays[1] != time.Wednesday {
			t.Fatalf("unexpected weekdays: %v", rule.Weekdays)
		}
	})

	t.Run("bare until date becomes end of day UTC", func(t *testing.T) {
		t.Parallel()

		rule, err := ParseRule("FREQ=MONTHLY;UNTIL=20240615")
		if err != nil {
			t.Fatalf("ParseRule returned error: %v", err)
		}
		want := time.Date(2024, time.June, 15, 23, 59, 59, 0, time.UTC)
		if rule.Until == nil || !rule.Until.Equal(want) {
			t.Fatalf("Until = %v, want %v", rule.Until, want)
		}
	})

	t.Run("instant until is kept as given", func(t *testing.T) {
		t.Parallel()

		rule, err := ParseRule("FREQ=DAILY;UNTIL=20240615T120000Z")
		if err != nil {
			t.Fatalf("ParseRule returned error: %v", err)
		}
		want := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
		if rule.Until == nil || !rule.Until.Equal(want) {
			t.Fatalf("Until = %v, want %v", rule.Until, want)
		}
	})

	t.Run("lowercase and whitespace tolerated", func(t *testing.T) {
		t.Parallel()

		rule, err := ParseRule(" freq=weekly; byday=mo ")
		if err != nil {
			t.Fatalf("ParseRule returned error: %v", err)
		}
		if rule.Freq != FrequencyWeekly || len(rule.Weekdays) != 1 || rule.Weekdays[0] != time.Monday {
			t.Fatalf("unexpected rule: %+v", rule)
		}
	})
}

func TestParseRule_RejectsMalformedRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{name: "missing freq", raw: "INTERVAL=2;BYDAY=MO"},
		{name: "unsupported freq", raw: "FREQ=YEARLY"},
		{name: "zero interval", raw: "FREQ=DAILY;INTERVAL=0"},
		{name: "negative interval", raw: "FREQ=DAILY;INTERVAL=-3"},
		{name: "bad weekday code", raw: "FREQ=WEEKLY;BYDAY=MONDAY"},
		{name: "bad until", raw: "FREQ=DAILY;UNTIL=whenever"},
		{name: "component without equals", raw: "FREQ=DAILY;NONSENSE"},
		{name: "empty", raw: ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseRule(tc.raw); !errors.Is(err, ErrInvalidRule) {
				t.Fatalf("expected ErrInvalidRule, got %v", err)
			}
		})
	}
}
