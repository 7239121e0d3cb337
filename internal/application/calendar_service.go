package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/example/goal-tracker/internal/calendar"
)

// OccurrenceLister materializes the calendar events visible to a user inside
// a range.
type OccurrenceLister interface {
	ListForRange(ctx context.Context, userID string, rangeStart, rangeEnd time.Time) ([]calendar.EventItem, error)
}

// CalendarService fronts the materialization engine with authorization and
// export concerns.
type CalendarService struct {
	occurrences OccurrenceLister
	now         func() time.Time
	logger      *slog.Logger
}

// NewCalendarService wires dependencies for calendar queries.
func NewCalendarService(occurrences OccurrenceLister, now func() time.Time, logger *slog.Logger) *CalendarService {
	if now == nil {
		now = time.Now
	}
	return &CalendarService{
		occurrences: occurrences,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *CalendarService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CalendarService", operation, attrs...)
}

// ListCalendar materializes the event list for a user's calendar range.
func (s *CalendarService) ListCalendar(ctx context.Context, params ListCalendarParams) ([]calendar.EventItem, error) {
	if s == nil || s.occurrences == nil {
		return nil, fmt.Errorf("occurrence lister not configured")
	}

	userID := params.UserID
	if userID == "" {
		userID = params.Principal.UserID
	}
	if userID != params.Principal.UserID && !params.Principal.IsAdmin {
		return nil, ErrUnauthorized
	}

	events, err := s.occurrences.ListForRange(ctx, userID, params.RangeStart, params.RangeEnd)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidRange) {
			vErr := &ValidationError{}
			vErr.add("range", "start must be an instant at or before end")
			return nil, vErr
		}
		return nil, err
	}

	s.loggerWith(ctx, "ListCalendar",
		"user_id", userID,
		"event_count", len(events),
	).DebugContext(ctx, "calendar materialized")
	return events, nil
}

// ExportICS renders a user's calendar range as an iCalendar document so that
// external calendar clients can subscribe to it.
func (s *CalendarService) ExportICS(ctx context.Context, params ListCalendarParams) (string, error) {
	events, err := s.ListCalendar(ctx, params)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//goal-tracker//calendar//EN")
	cal.SetName("Goal Tracker")

	stamp := s.now().UTC()
	for _, event := range events {
		vevent := cal.AddEvent(event.ID)
		vevent.SetDtStampTime(stamp)
		vevent.SetSummary(event.Title)
		if event.ExtendedProps.Description != "" {
			vevent.SetDescription(event.ExtendedProps.Description)
		}
		if event.AllDay {
			vevent.SetAllDayStartAt(event.Start)
			vevent.SetAllDayEndAt(event.Start.AddDate(0, 0, 1))
		} else {
			vevent.SetStartAt(event.Start)
			if event.End != nil {
				vevent.SetEndAt(*event.End)
			}
		}
		if event.ExtendedProps.Completed {
			vevent.SetStatus(ics.ObjectStatusCompleted)
		}
	}

	return cal.Serialize(), nil
}
