package calendar

import (
	"errors"
	"testing"
	"time"
)

func weeklyActionable() Actionable {
	return Actionable{
		ID:              "act-1",
		GoalID:          "goal-1",
		Title:           "Morning run",
		RecurrenceRule:  "FREQ=WEEKLY;BYDAY=MO,WE",
		StartDate:       "2024-03-04", // Monday
		StartTime:       "09:00",
		DurationMinutes: 45,
		Timezone:        "UTC",
	}
}

func marchWindow() (time.Time, time.Time) {
	return time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 17, 23, 59, 59, 0, time.UTC)
}

func TestMaterializer_WeeklyOccurrences(t *testing.T) {
	t.Parallel()

	m := NewMaterializer(MaterializerOptions{})
	windowStart, windowEnd := marchWindow()

	events, err := m.Materialize(weeklyActionable(), nil, windowStart, windowEnd)
	if err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}

	first := events[0]
	if first.ID != "act-1:1709542800" {
		t.Errorf("unexpected event id %q", first.ID)
	}
	wantStart := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	if !first.Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", first.Start, wantStart)
	}
	if first.End == nil || !first.End.Equal(wantStart.Add(45*time.Minute)) {
		t.Errorf("end = %v, want start+45m", first.End)
	}
	if first.AllDay {
		t.Error("occurrence events must not be all-day")
	}
	if first.ExtendedProps.EntityType != EntityTypeActionable || first.ExtendedProps.GoalID != "goal-1" {
		t.Errorf("unexpected extended props: %+v", first.ExtendedProps)
	}
	if first.BackgroundColor != pendingBackground || first.BorderColor != pendingBorder {
		t.Errorf("unexpected pending styling: %s / %s", first.BackgroundColor, first.BorderColor)
	}
}

// The exception contract case: excluding the second Monday's local date from
// the weekly actionable leaves three occurrences.
func TestMaterializer_ExceptionDateSuppressesOccurrence(t *testing.T) {
	t.Parallel()

	actionable := weeklyActionable()
	actionable.ExceptionDates = "2024-03-11"

	m := NewMaterializer(MaterializerOptions{})
	windowStart, windowEnd := marchWindow()

	events, err := m.Materialize(actionable, nil, windowStart, windowEnd)
	if err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for _, event := range events {
		if LocalDateKey(event.Start, time.UTC) == "2024-03-11" {
			t.Fatalf("excluded date still present: %v", event.Start)
		}
	}
}

func TestMaterializer_ExceptionMatchesLocalDateNotUTC(t *testing.T) {
	t.Parallel()

	tokyo := "Asia/Tokyo"
	actionable := Actionable{
		ID:             "act-tokyo",
		Title:          "Evening review",
		RecurrenceRule: "FREQ=DAILY",
		StartDate:      "2024-03-10",
		StartTime:      "06:00", // 2024-03-09T21:00Z on the previous UTC day
		Timezone:       tokyo,
		ExceptionDates: "2024-03-11",
	}

	m := NewMaterializer(MaterializerOptions{})
	events, err := m.Materialize(actionable, nil,
		time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}

	// Tokyo-local 03-10 and 03-12 survive; 03-11 is excluded even though its
	// instant falls on 03-10 in UTC.
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	loc := mustLoadLocation(t, tokyo)
	for _, event := range events {
		if LocalDateKey(event.Start, loc) == "2024-03-11" {
			t.Fatalf("excluded local date still present: %v", event.Start)
		}
	}
}

func TestMaterializer_ArchivedContributesNothing(t *testing.T) {
	t.Parallel()

	actionable := weeklyActionable()
	actionable.IsArchived = true

	m := NewMaterializer(MaterializerOptions{})
	windowStart, windowEnd := marchWindow()

	events, err := m.Materialize(actionable, nil, windowStart, windowEnd)
	if err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("archived actionable produced %d events", len(events))
	}
}

func TestMaterializer_PauseSuppression(t *testing.T) {
	t.Parallel()

	m := NewMaterializer(MaterializerOptions{})
	windowStart, windowEnd := marchWindow()

	t.Run("paused indefinitely", func(t *testing.T) {
		t.Parallel()

		actionable := weeklyActionable()
		actionable.IsPaused = true

		events, err := m.Materialize(actionable, nil, windowStart, windowEnd)
		if err != nil {
			t.Fatalf("Materialize returned error: %v", err)
		}
		if len(events) != 0 {
			t.Fatalf("paused actionable produced %d events", len(events))
		}
	})

	t.Run("paused until mid-window", func(t *testing.T) {
		t.Parallel()

		resume := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
		actionable := weeklyActionable()
		actionable.IsPaused = true
		actionable.PausedUntil = &resume

		events, err := m.Materialize(actionable, nil, windowStart, windowEnd)
		if err != nil {
			t.Fatalf("Materialize returned error: %v", err)
		}
		// Only the second week's Monday and Wednesday remain.
		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(events))
		}
		for _, event := range events {
			if event.Start.Before(resume) {
				t.Fatalf("occurrence %v precedes the resume instant", event.Start)
			}
		}
	})
}

func TestMaterializer_CompletionOverlay(t *testing.T) {
	t.Parallel()

	completedStart := time.Date(2024, time.March, 6, 9, 0, 0, 0, time.UTC)
	index := IndexCompletions([]Completion{
		{
			ID:              "comp-1",
			ActionableID:    "act-1",
			OccurrenceStart: completedStart,
			Notes:           "felt great",
			CompletedAt:     completedStart.Add(time.Hour),
		},
		{
			// Orphaned record: instant matches no occurrence, must not match.
			ID:              "comp-2",
			ActionableID:    "act-1",
			OccurrenceStart: completedStart.Add(30 * time.Minute),
		},
		{
			// Different actionable at an identical instant must not match.
			ID:              "comp-3",
			ActionableID:    "act-other",
			OccurrenceStart: completedStart,
		},
	})

	m := NewMaterializer(MaterializerOptions{})
	windowStart, windowEnd := marchWindow()

	events, err := m.Materialize(weeklyActionable(), index, windowStart, windowEnd)
	if err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}

	completedCount := 0
	for _, event := range events {
		if !event.ExtendedProps.Completed {
			continue
		}
		completedCount++
		if !event.Start.Equal(completedStart) {
			t.Errorf("wrong occurrence flagged completed: %v", event.Start)
		}
		if event.ExtendedProps.CompletionNotes != "felt great" {
			t.Errorf("notes = %q", event.ExtendedProps.CompletionNotes)
		}
		if event.BackgroundColor != completedBackground || event.BorderColor != completedBorder {
			t.Errorf("unexpected completed styling: %s / %s", event.BackgroundColor, event.BorderColor)
		}
	}
	if completedCount != 1 {
		t.Fatalf("expected exactly 1 completed occurrence, got %d", completedCount)
	}
}

func TestMaterializer_CustomColorKeepsStateBorder(t *testing.T) {
	t.Parallel()

	actionable := weeklyActionable()
	actionable.Color = "#ff8800"

	m := NewMaterializer(MaterializerOptions{})
	windowStart, windowEnd := marchWindow()

	events, err := m.Materialize(actionable, nil, windowStart, windowEnd)
	if err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected events")
	}
	if events[0].BackgroundColor != "#ff8800" {
		t.Errorf("background = %s, want custom color", events[0].BackgroundColor)
	}
	if events[0].BorderColor != pendingBorder {
		t.Errorf("border = %s, want pending border", events[0].BorderColor)
	}
}

func TestMaterializer_DefaultsApplied(t *testing.T) {
	t.Parallel()

	actionable := Actionable{
		ID:        "act-min",
		Title:     "Minimal",
		StartDate: "2024-03-05",
		// StartTime, DurationMinutes, Timezone all unset.
	}

	m := NewMaterializer(MaterializerOptions{
		DefaultStartTime:       "07:30",
		DefaultDurationMinutes: 20,
		DefaultTimezone:        "UTC",
	})

	events, err := m.Materialize(actionable, nil,
		time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	wantStart := time.Date(2024, time.March, 5, 7, 30, 0, 0, time.UTC)
	if !events[0].Start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", events[0].Start, wantStart)
	}
	if events[0].End == nil || !events[0].End.Equal(wantStart.Add(20*time.Minute)) {
		t.Errorf("end = %v, want start+20m", events[0].End)
	}
}

func TestMaterializer_EndDateBoundsRecurrence(t *testing.T) {
	t.Parallel()

	actionable := weeklyActionable()
	actionable.RecurrenceRule = "FREQ=DAILY"
	actionable.EndDate = "2024-03-06"

	m := NewMaterializer(MaterializerOptions{})
	windowStart, windowEnd := marchWindow()

	events, err := m.Materialize(actionable, nil, windowStart, windowEnd)
	if err != nil {
		t.Fatalf("Materialize returned error: %v", err)
	}
	// March 4 through the end date's day, inclusive.
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
}

func TestMaterializer_MalformedInputsReturnErrors(t *testing.T) {
	t.Parallel()

	m := NewMaterializer(MaterializerOptions{})
	windowStart, windowEnd := marchWindow()

	t.Run("bad start date", func(t *testing.T) {
		t.Parallel()

		actionable := weeklyActionable()
		actionable.StartDate = "someday"

		if _, err := m.Materialize(actionable, nil, windowStart, windowEnd); !errors.Is(err, ErrInvalidAnchor) {
			t.Fatalf("expected ErrInvalidAnchor, got %v", err)
		}
	})

	t.Run("bad start time", func(t *testing.T) {
		t.Parallel()

		actionable := weeklyActionable()
		actionable.StartTime = "early"

		if _, err := m.Materialize(actionable, nil, windowStart, windowEnd); !errors.Is(err, ErrInvalidAnchor) {
			t.Fatalf("expected ErrInvalidAnchor, got %v", err)
		}
	})

	t.Run("bad recurrence rule", func(t *testing.T) {
		t.Parallel()

		actionable := weeklyActionable()
		actionable.RecurrenceRule = "INTERVAL=2"

		if _, err := m.Materialize(actionable, nil, windowStart, windowEnd); !errors.Is(err, ErrInvalidRule) {
			t.Fatalf("expected ErrInvalidRule, got %v", err)
		}
	})

	t.Run("unknown timezone", func(t *testing.T) {
		t.Parallel()

		actionable := weeklyActionable()
		actionable.Timezone = "Mars/Olympus_Mons"

		if _, err := m.Materialize(actionable, nil, windowStart, windowEnd); err == nil {
			t.Fatal("expected an error for an unknown timezone")
		}
	})
}

func TestGoalEvent(t *testing.T) {
	t.Parallel()

	t.Run("deadline keyed", func(t *testing.T) {
		t.Parallel()

		event := GoalEvent(Goal{ID: "goal-7", Title: "Run a marathon", Deadline: "2025-06-15"})

		if event.ID != "goal:goal-7" {
			t.Errorf("id = %q", event.ID)
		}
		want := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
		if !event.Start.Equal(want) {
			t.Errorf("start = %v, want %v", event.Start, want)
		}
		if !event.AllDay {
			t.Error("goal events must be all-day")
		}
		if event.ExtendedProps.EntityType != EntityTypeGoal {
			t.Errorf("entity type = %q", event.ExtendedProps.EntityType)
		}
	})

	t.Run("falls back to creation date", func(t *testing.T) {
		t.Parallel()

		created := time.Date(2024, time.February, 10, 18, 45, 0, 0, time.UTC)
		event := GoalEvent(Goal{ID: "goal-8", Title: "Learn Go", CreatedAt: created})

		want := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
		if !event.Start.Equal(want) {
			t.Errorf("start = %v, want %v", event.Start, want)
		}
		if !event.AllDay {
			t.Error("goal events must be all-day")
		}
	})
}
