package calendar

import (
	"testing"
	"time"
)

func mustAnchor(t *testing.T, date, timeOfDay string, loc *time.Location) time.Time {
	t.Helper()
	anchor, err := Anchor(date, timeOfDay, loc)
	if err != nil {
		t.Fatalf("failed to build anchor: %v", err)
	}
	return anchor
}

func mustParseRule(t *testing.T, raw string) *Rule {
	t.Helper()
	rule, err := ParseRule(raw)
	if err != nil {
		t.Fatalf("failed to parse rule %q: %v", raw, err)
	}
	return &rule
}

func assertInstants(t *testing.T, got []time.Time, want ...time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("occurrence %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExpand_NoRule(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)
	windowStart := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

	t.Run("anchor inside window is the single occurrence", func(t *testing.T) {
		t.Parallel()
		assertInstants(t, Expand(anchor, nil, time.UTC, windowStart, windowEnd), anchor)
	})

	t.Run("anchor outside window yields nothing", func(t *testing.T) {
		t.Parallel()
		got := Expand(anchor, nil, time.UTC, anchor.Add(time.Second), windowEnd)
		if len(got) != 0 {
			t.Fatalf("expected no occurrences, got %v", got)
		}
	})

	t.Run("window bounds are inclusive", func(t *testing.T) {
		t.Parallel()
		assertInstants(t, Expand(anchor, nil, time.UTC, anchor, anchor), anchor)
	})
}

// The spring-forward case from the engine contract: a daily 07:00 rule in
// America/New_York queried across the 2024-03-10 transition must stay at
// 07:00 local, shifting from 12:00 UTC to 11:00 UTC.
func TestExpand_DailyAcrossSpringForward(t *testing.T) {
	t.Parallel()

	newYork := mustLoadLocation(t, "America/New_York")
	anchor := mustAnchor(t, "2024-03-01", "07:00", newYork)

	got := Expand(
		anchor,
		mustParseRule(t, "FREQ=DAILY"),
		newYork,
		time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC),
	)

	assertInstants(t, got,
		time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 10, 11, 0, 0, 0, time.UTC),
	)
}

func TestExpand_DailyAcrossFallBack(t *testing.T) {
	t.Parallel()

	newYork := mustLoadLocation(t, "America/New_York")
	anchor := mustAnchor(t, "2024-11-01", "07:00", newYork)

	got := Expand(
		anchor,
		mustParseRule(t, "FREQ=DAILY"),
		newYork,
		time.Date(2024, time.November, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.November, 4, 23, 0, 0, 0, time.UTC),
	)

	// EDT (UTC-4) through Nov 2, EST (UTC-5) from Nov 3.
	assertInstants(t, got,
		time.Date(2024, time.November, 2, 11, 0, 0, 0, time.UTC),
		time.Date(2024, time.November, 3, 12, 0, 0, 0, time.UTC),
		time.Date(2024, time.November, 4, 12, 0, 0, 0, time.UTC),
	)
}

func TestExpand_DailyInterval(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)

	got := Expand(
		anchor,
		mustParseRule(t, "FREQ=DAILY;INTERVAL=3"),
		time.UTC,
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 10, 23, 59, 59, 0, time.UTC),
	)

	assertInstants(t, got,
		time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 7, 8, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC),
	)
}

func TestExpand_DailyIntervalAlignmentSurvivesLateWindow(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)

	// A window opening mid-cycle must keep the anchor's alignment: with a
	// 3-day interval from Jan 1, the first hit at or after Jan 30 is Jan 31.
	got := Expand(
		anchor,
		mustParseRule(t, "FREQ=DAILY;INTERVAL=3"),
		time.UTC,
		time.Date(2024, time.January, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 3, 23, 59, 59, 0, time.UTC),
	)

	assertInstants(t, got,
		time.Date(2024, time.January, 31, 8, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 3, 8, 0, 0, 0, time.UTC),
	)
}

// The weekly contract case: FREQ=WEEKLY;BYDAY=MO,WE anchored on a Monday over
// a 14-day window yields exactly four occurrences, Mondays and Wednesdays.
func TestExpand_WeeklyByDay(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC) // Monday

	got := Expand(
		anchor,
		mustParseRule(t, "FREQ=WEEKLY;BYDAY=MO,WE"),
		time.UTC,
		time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 17, 23, 59, 59, 0, time.UTC),
	)

	assertInstants(t, got,
		time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 6, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 11, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC),
	)

	for _, occ := range got {
		if wd := occ.Weekday(); wd != time.Monday && wd != time.Wednesday {
			t.Fatalf("occurrence %v falls on %v", occ, wd)
		}
	}
}

func TestExpand_WeeklyDefaultsToAnchorWeekday(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC) // Tuesday

	got := Expand(
		anchor,
		mustParseRule(t, "FREQ=WEEKLY"),
		time.UTC,
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
	)

	assertInstants(t, got,
		time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 19, 9, 0, 0, 0, time.UTC),
	)
}

func TestExpand_WeeklyNeverEmitsBeforeAnchor(t *testing.T) {
	t.Parallel()

	// Anchored on a Wednesday with BYDAY=MO,WE: the Monday of the anchor
	// week precedes the anchor and must not appear.
	anchor := time.Date(2024, time.March, 6, 9, 0, 0, 0, time.UTC) // Wednesday

	got := Expand(
		anchor,
		mustParseRule(t, "FREQ=WEEKLY;BYDAY=MO,WE"),
		time.UTC,
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC),
	)

	assertInstants(t, got,
		time.Date(2024, time.March, 6, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 11, 9, 0, 0, 0, time.UTC),
	)
}

func TestExpand_WeeklyInterval(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC) // Monday

	got := Expand(
		anchor,
		mustParseRule(t, "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO"),
		time.UTC,
		time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC),
	)

	assertInstants(t, got,
		time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 18, 9, 0, 0, 0, time.UTC),
		time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC),
	)
}

func TestExpand_MonthlySkipsShortMonths(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC)

	got := Expand(
		anchor,
		mustParseRule(t, "FREQ=MONTHLY"),
		time.UTC,
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.May, 31, 23, 59, 59, 0, time.UTC),
	)

	// February lacks a 31st and contributes nothing; April likewise.
	assertInstants(t, got,
		time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 31, 10, 0, 0, 0, time.UTC),
		time.Date(2024, time.May, 31, 10, 0, 0, 0, time.UTC),
	)
}

func TestExpand_MonthlyWithLateWindow(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

	got := Expand(
		anchor,
		mustParseRule(t, "FREQ=MONTHLY"),
		time.UTC,
		time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC),
	)

	assertInstants(t, got,
		time.Date(2024, time.July, 15, 10, 0, 0, 0, time.UTC),
	)
}

func TestExpand_UntilBoundsExpansion(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)

	got := Expand(
		anchor,
		mustParseRule(t, "FREQ=DAILY;UNTIL=20240303"),
		time.UTC,
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
	)

	assertInstants(t, got,
		time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 2, 8, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 3, 8, 0, 0, 0, time.UTC),
	)
}

func TestExpand_Deterministic(t *testing.T) {
	t.Parallel()

	newYork := mustLoadLocation(t, "America/New_York")
	anchor := mustAnchor(t, "2024-03-01", "07:00", newYork)
	rule := mustParseRule(t, "FREQ=WEEKLY;BYDAY=MO,WE,FR")
	windowStart := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC)

	first := Expand(anchor, rule, newYork, windowStart, windowEnd)
	second := Expand(anchor, rule, newYork, windowStart, windowEnd)

	if len(first) == 0 {
		t.Fatal("expected occurrences")
	}
	assertInstants(t, second, first...)
}

func TestExpand_AscendingOrder(t *testing.T) {
	t.Parallel()

	anchor := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)

	got := Expand(
		anchor,
		mustParseRule(t, "FREQ=WEEKLY;BYDAY=FR,MO,WE"),
		time.UTC,
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
	)

	for i := 1; i < len(got); i++ {
		if !got[i].After(got[i-1]) {
			t.Fatalf("occurrences out of order at %d: %v then %v", i, got[i-1], got[i])
		}
	}
}
