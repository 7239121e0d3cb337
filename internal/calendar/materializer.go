package calendar

import (
	"fmt"
	"time"
)

// Actionable is the engine's read-only view of a habit or task record. The
// owning subsystem manages its lifecycle; the engine only materializes
// occurrences from it.
type Actionable struct {
	ID              string
	GoalID          string
	Title           string
	Description     string
	RecurrenceRule  string
	StartDate       string
	EndDate         string
	StartTime       string
	DurationMinutes int
	Timezone        string
	IsPaused        bool
	PausedUntil     *time.Time
	IsArchived      bool
	Color           string
	ExceptionDates  string
}

// Goal is the engine's read-only view of a goal record. Each goal contributes
// one all-day event keyed by its deadline, or its creation date without one.
type Goal struct {
	ID        string
	Title     string
	Deadline  string
	CreatedAt time.Time
}

// Default styling for materialized occurrences. A custom actionable color
// replaces the background; the border always reflects completion state.
const (
	pendingBackground   = "#3b82f6"
	pendingBorder       = "#1d4ed8"
	completedBackground = "#22c55e"
	completedBorder     = "#15803d"
	goalBackground      = "#8b5cf6"
	goalBorder          = "#6d28d9"
)

// Materializer turns a single actionable into its calendar-visible
// occurrences for a window. Unset actionable fields fall back to the
// configured defaults.
type Materializer struct {
	defaultStartTime       string
	defaultDurationMinutes int
	defaultTimezone        string
}

// MaterializerOptions overrides the fallback values applied to actionables
// with missing start time, duration, or timezone.
type MaterializerOptions struct {
	DefaultStartTime       string
	DefaultDurationMinutes int
	DefaultTimezone        string
}

// NewMaterializer constructs a Materializer, applying standard defaults for
// any unset option.
func NewMaterializer(opts MaterializerOptions) *Materializer {
	if opts.DefaultStartTime == "" {
		opts.DefaultStartTime = "09:00"
	}
	if opts.DefaultDurationMinutes <= 0 {
		opts.DefaultDurationMinutes = 30
	}
	if opts.DefaultTimezone == "" {
		opts.DefaultTimezone = "UTC"
	}
	return &Materializer{
		defaultStartTime:       opts.DefaultStartTime,
		defaultDurationMinutes: opts.DefaultDurationMinutes,
		defaultTimezone:        opts.DefaultTimezone,
	}
}

// Materialize produces the calendar events for one actionable within the
// inclusive window.
//
// Archived actionables and actionables paused without a resume instant
// contribute nothing and return no error. A malformed start date, start time,
// timezone, or recurrence rule returns an error so the caller can log it and
// continue with other actionables; the failing actionable contributes zero
// occurrences either way.
func (m *Materializer) Materialize(actionable Actionable, completions CompletionIndex, windowStart, windowEnd time.Time) ([]EventItem, error) {
	if m == nil {
		return nil, fmt.Errorf("Materializer is nil")
	}

	if actionable.IsArchived {
		return nil, nil
	}

	tz := actionable.Timezone
	if tz == "" {
		tz = m.defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("actionable %s: unknown timezone %q: %w", actionable.ID, tz, err)
	}

	startTime := actionable.StartTime
	if startTime == "" {
		startTime = m.defaultStartTime
	}
	anchor, err := Anchor(actionable.StartDate, startTime, loc)
	if err != nil {
		return nil, fmt.Errorf("actionable %s: %w", actionable.ID, err)
	}

	effectiveStart, active := ResolveWindowStart(actionable.IsPaused, actionable.PausedUntil, windowStart)
	if !active {
		return nil, nil
	}

	var rule *Rule
	if actionable.RecurrenceRule != "" {
		parsed, err := ParseRule(actionable.RecurrenceRule)
		if err != nil {
			return nil, fmt.Errorf("actionable %s: %w", actionable.ID, err)
		}
		rule = &parsed
	}

	upper := windowEnd
	if actionable.EndDate != "" {
		if endDay, err := time.Parse(DateLayout, actionable.EndDate); err == nil {
			endOfDay := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 23, 59, 59, 0, loc)
			if endOfDay.Before(upper) {
				upper = endOfDay
			}
		}
	}

	exceptions := ParseExceptionDates(actionable.ExceptionDates)

	duration := time.Duration(actionable.DurationMinutes) * time.Minute
	if actionable.DurationMinutes <= 0 {
		duration = time.Duration(m.defaultDurationMinutes) * time.Minute
	}

	events := make([]EventItem, 0)
	for _, start := range Expand(anchor, rule, loc, effectiveStart, upper) {
		if exceptions.Contains(LocalDateKey(start, loc)) {
			continue
		}
		events = append(events, m.buildEvent(actionable, completions, start, duration))
	}
	return events, nil
}

func (m *Materializer) buildEvent(actionable Actionable, completions CompletionIndex, start time.Time, duration time.Duration) EventItem {
	end := start.Add(duration)
	completion, completed := completions.Lookup(actionable.ID, start)

	background := pendingBackground
	border := pendingBorder
	if completed {
		background = completedBackground
		border = completedBorder
	}
	if actionable.Color != "" {
		background = actionable.Color
	}

	return EventItem{
		ID:              fmt.Sprintf("%s:%d", actionable.ID, start.Unix()),
		Title:           actionable.Title,
		Start:           start,
		End:             &end,
		BackgroundColor: background,
		BorderColor:     border,
		ExtendedProps: ExtendedProps{
			EntityType:      EntityTypeActionable,
			GoalID:          actionable.GoalID,
			ActionableID:    actionable.ID,
			Description:     actionable.Description,
			Completed:       completed,
			CompletionNotes: completion.Notes,
		},
	}
}

// GoalEvent converts a goal into its single all-day marker event. The event
// starts at UTC midnight of the deadline date, or of the creation date when
// no deadline is set.
func GoalEvent(goal Goal) EventItem {
	var day time.Time
	parsed, err := time.Parse(DateLayout, goal.Deadline)
	if err == nil {
		day = parsed
	} else {
		created := goal.CreatedAt.UTC()
		day = time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, time.UTC)
	}

	return EventItem{
		ID:              "goal:" + goal.ID,
		Title:           goal.Title,
		Start:           time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		AllDay:          true,
		BackgroundColor: goalBackground,
		BorderColor:     goalBorder,
		ExtendedProps: ExtendedProps{
			EntityType: EntityTypeGoal,
			GoalID:     goal.ID,
		},
	}
}
