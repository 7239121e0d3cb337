package calendar

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// GoalSource supplies the goal records owned by a user, already filtered by
// the authorization layer.
type GoalSource interface {
	ListGoalsForUser(ctx context.Context, userID string) ([]Goal, error)
}

// ActionableSource supplies the actionable records belonging to a user's
// goals, already filtered by the authorization layer.
type ActionableSource interface {
	ListActionablesForUser(ctx context.Context, userID string) ([]Actionable, error)
}

// CompletionSource supplies the completion records for a user's actionables
// whose occurrence start falls inside the requested range.
type CompletionSource interface {
	ListCompletionsForUser(ctx context.Context, userID string, rangeStart, rangeEnd time.Time) ([]Completion, error)
}

// ErrInvalidRange indicates the requested range bounds are missing or
// inverted. Unlike per-actionable failures this is surfaced to the caller.
var ErrInvalidRange = errors.New("calendar: range start must not be after range end")

// Coordinator is the engine's top-level entry point. It fetches the user's
// goals, actionables, and completions through the injected read-only sources
// and materializes the flat calendar event list for a range.
type Coordinator struct {
	goals        GoalSource
	actionables  ActionableSource
	completions  CompletionSource
	materializer *Materializer
	logger       *slog.Logger
}

// NewCoordinator wires the coordinator's collaborators. A nil materializer is
// replaced with one carrying standard defaults; a nil logger falls back to
// slog.Default.
func NewCoordinator(goals GoalSource, actionables ActionableSource, completions CompletionSource, materializer *Materializer, logger *slog.Logger) *Coordinator {
	if materializer == nil {
		materializer = NewMaterializer(MaterializerOptions{})
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		goals:        goals,
		actionables:  actionables,
		completions:  completions,
		materializer: materializer,
		logger:       logger,
	}
}

// ListForRange materializes the calendar events visible to a user between
// rangeStart and rangeEnd inclusive.
//
// Goal deadline events are emitted regardless of whether they fall inside the
// range; they act as always-visible markers. Goal events precede actionable
// events; actionable events follow input order. An actionable that fails to
// materialize is logged and skipped so one corrupt record cannot fail the
// whole calendar view.
func (c *Coordinator) ListForRange(ctx context.Context, userID string, rangeStart, rangeEnd time.Time) ([]EventItem, error) {
	if c == nil {
		return nil, errors.New("calendar: Coordinator is nil")
	}
	if rangeStart.IsZero() || rangeEnd.IsZero() || rangeStart.After(rangeEnd) {
		return nil, ErrInvalidRange
	}

	events := make([]EventItem, 0)

	if c.goals != nil {
		goals, err := c.goals.ListGoalsForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, goal := range goals {
			events = append(events, GoalEvent(goal))
		}
	}

	if c.actionables == nil {
		return events, nil
	}

	actionables, err := c.actionables.ListActionablesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var completions []Completion
	if c.completions != nil {
		completions, err = c.completions.ListCompletionsForUser(ctx, userID, rangeStart, rangeEnd)
		if err != nil {
			return nil, err
		}
	}
	index := IndexCompletions(completions)

	for _, actionable := range actionables {
		items, err := c.materializer.Materialize(actionable, index, rangeStart, rangeEnd)
		if err != nil {
			c.logger.WarnContext(ctx, "skipping actionable", "actionable_id", actionable.ID, "error", err)
			continue
		}
		events = append(events, items...)
	}

	return events, nil
}
