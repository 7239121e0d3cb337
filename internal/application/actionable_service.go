package application

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/example/goal-tracker/internal/calendar"
)

// ActionableRepository captures the persistence interactions needed by the
// actionable service.
type ActionableRepository interface {
	CreateActionable(ctx context.Context, actionable Actionable) (Actionable, error)
	UpdateActionable(ctx context.Context, actionable Actionable) (Actionable, error)
	GetActionable(ctx context.Context, id string) (Actionable, error)
	ListActionablesForGoal(ctx context.Context, goalID string) ([]Actionable, error)
	DeleteActionable(ctx context.Context, id string) error
}

// GoalFinder resolves goals for ownership checks.
type GoalFinder interface {
	GetGoal(ctx context.Context, id string) (Goal, error)
}

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ActionableService manages recurring actionables and their lifecycle state.
type ActionableService struct {
	actionables ActionableRepository
	goals       GoalFinder
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewActionableService wires dependencies for actionable operations.
func NewActionableService(actionables ActionableRepository, goals GoalFinder, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ActionableService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ActionableService{
		actionables: actionables,
		goals:       goals,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *ActionableService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ActionableService", operation, attrs...)
}

// CreateActionable validates scheduling fields before persisting.
func (s *ActionableService) CreateActionable(ctx context.Context, params CreateActionableParams) (Actionable, error) {
	if s == nil || s.actionables == nil {
		return Actionable{}, fmt.Errorf("actionable repository not configured")
	}

	input := params.Input

	if err := s.authorizeGoalAccess(ctx, params.Principal, input.GoalID); err != nil {
		return Actionable{}, err
	}

	vErr := &ValidationError{}
	validateActionableCore(input, vErr)
	if vErr.HasErrors() {
		return Actionable{}, vErr
	}

	createdAt := s.now()
	actionable := Actionable{
		ID:              s.idGenerator(),
		GoalID:          input.GoalID,
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		RecurrenceRule:  input.RecurrenceRule,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
		Timezone:        input.Timezone,
		Color:           input.Color,
		ExceptionDates:  input.ExceptionDates,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}

	persisted, err := s.actionables.CreateActionable(ctx, actionable)
	if err != nil {
		return Actionable{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "CreateActionable", "actionable_id", persisted.ID, "goal_id", persisted.GoalID).
		InfoContext(ctx, "actionable created")
	return persisted, nil
}

// UpdateActionable applies validation and authorization before updating.
// Lifecycle flags are managed through Pause, Resume, and Archive, not here.
func (s *ActionableService) UpdateActionable(ctx context.Context, params UpdateActionableParams) (Actionable, error) {
	if s == nil || s.actionables == nil {
		return Actionable{}, fmt.Errorf("actionable repository not configured")
	}

	existing, err := s.actionables.GetActionable(ctx, params.ActionableID)
	if err != nil {
		return Actionable{}, mapRepoError(err)
	}
	if err := s.authorizeGoalAccess(ctx, params.Principal, existing.GoalID); err != nil {
		return Actionable{}, err
	}

	input := params.Input

	vErr := &ValidationError{}
	if input.GoalID != "" && input.GoalID != existing.GoalID {
		vErr.add("goal_id", "actionable cannot move between goals")
	}
	validateActionableCore(input, vErr)
	if vErr.HasErrors() {
		return Actionable{}, vErr
	}

	updated := existing
	updated.Title = strings.TrimSpace(input.Title)
	updated.Description = input.Description
	updated.RecurrenceRule = input.RecurrenceRule
	updated.StartDate = input.StartDate
	updated.EndDate = input.EndDate
	updated.StartTime = input.StartTime
	updated.DurationMinutes = input.DurationMinutes
	updated.Timezone = input.Timezone
	updated.Color = input.Color
	updated.ExceptionDates = input.ExceptionDates
	updated.UpdatedAt = s.now()

	persisted, err := s.actionables.UpdateActionable(ctx, updated)
	if err != nil {
		return Actionable{}, mapRepoError(err)
	}
	return persisted, nil
}

// GetActionable retrieves a single actionable visible to the principal.
func (s *ActionableService) GetActionable(ctx context.Context, principal Principal, actionableID string) (Actionable, error) {
	if s == nil || s.actionables == nil {
		return Actionable{}, fmt.Errorf("actionable repository not configured")
	}

	actionable, err := s.actionables.GetActionable(ctx, actionableID)
	if err != nil {
		return Actionable{}, mapRepoError(err)
	}
	if err := s.authorizeGoalAccess(ctx, principal, actionable.GoalID); err != nil {
		return Actionable{}, err
	}
	return actionable, nil
}

// ListActionables enumerates the actionables attached to a goal.
func (s *ActionableService) ListActionables(ctx context.Context, principal Principal, goalID string) ([]Actionable, error) {
	if s == nil || s.actionables == nil {
		return nil, fmt.Errorf("actionable repository not configured")
	}
	if err := s.authorizeGoalAccess(ctx, principal, goalID); err != nil {
		return nil, err
	}

	actionables, err := s.actionables.ListActionablesForGoal(ctx, goalID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return actionables, nil
}

// Pause suspends occurrence generation. A nil Until pauses indefinitely.
func (s *ActionableService) Pause(ctx context.Context, params PauseActionableParams) (Actionable, error) {
	return s.transition(ctx, params.Principal, params.ActionableID, "Pause", func(a *Actionable) error {
		if a.IsArchived {
			vErr := &ValidationError{}
			vErr.add("state", "archived actionables cannot be paused")
			return vErr
		}
		a.IsPaused = true
		a.PausedUntil = params.Until
		return nil
	})
}

// Resume clears a pause so that occurrences generate again immediately.
func (s *ActionableService) Resume(ctx context.Context, principal Principal, actionableID string) (Actionable, error) {
	return s.transition(ctx, principal, actionableID, "Resume", func(a *Actionable) error {
		a.IsPaused = false
		a.PausedUntil = nil
		return nil
	})
}

// Archive removes the actionable from calendars while preserving its history.
func (s *ActionableService) Archive(ctx context.Context, principal Principal, actionableID string) (Actionable, error) {
	return s.transition(ctx, principal, actionableID, "Archive", func(a *Actionable) error {
		a.IsArchived = true
		a.IsPaused = false
		a.PausedUntil = nil
		return nil
	})
}

// DeleteActionable removes an actionable and its completion records.
func (s *ActionableService) DeleteActionable(ctx context.Context, principal Principal, actionableID string) error {
	if s == nil || s.actionables == nil {
		return fmt.Errorf("actionable repository not configured")
	}

	existing, err := s.actionables.GetActionable(ctx, actionableID)
	if err != nil {
		return mapRepoError(err)
	}
	if err := s.authorizeGoalAccess(ctx, principal, existing.GoalID); err != nil {
		return err
	}

	if err := s.actionables.DeleteActionable(ctx, actionableID); err != nil {
		return mapRepoError(err)
	}

	s.loggerWith(ctx, "DeleteActionable", "actionable_id", actionableID).InfoContext(ctx, "actionable deleted")
	return nil
}

func (s *ActionableService) transition(ctx context.Context, principal Principal, actionableID, operation string, apply func(*Actionable) error) (Actionable, error) {
	if s == nil || s.actionables == nil {
		return Actionable{}, fmt.Errorf("actionable repository not configured")
	}

	existing, err := s.actionables.GetActionable(ctx, actionableID)
	if err != nil {
		return Actionable{}, mapRepoError(err)
	}
	if err := s.authorizeGoalAccess(ctx, principal, existing.GoalID); err != nil {
		return Actionable{}, err
	}

	updated := existing
	if err := apply(&updated); err != nil {
		return Actionable{}, err
	}
	updated.UpdatedAt = s.now()

	persisted, err := s.actionables.UpdateActionable(ctx, updated)
	if err != nil {
		return Actionable{}, mapRepoError(err)
	}

	s.loggerWith(ctx, operation, "actionable_id", actionableID).InfoContext(ctx, "actionable state changed")
	return persisted, nil
}

func (s *ActionableService) authorizeGoalAccess(ctx context.Context, principal Principal, goalID string) error {
	if goalID == "" {
		vErr := &ValidationError{}
		vErr.add("goal_id", "goal_id is required")
		return vErr
	}
	if s.goals == nil {
		return nil
	}
	goal, err := s.goals.GetGoal(ctx, goalID)
	if err != nil {
		return mapRepoError(err)
	}
	if goal.OwnerID != principal.UserID && !principal.IsAdmin {
		return ErrUnauthorized
	}
	return nil
}

func validateActionableCore(input ActionableInput, vErr *ValidationError) {
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}

	loc := time.UTC
	if input.Timezone != nil {
		parsed, err := time.LoadLocation(*input.Timezone)
		if err != nil {
			vErr.add("timezone", "timezone must be a valid IANA zone name")
		} else {
			loc = parsed
		}
	}

	if input.StartDate == "" {
		vErr.add("start_date", "start_date is required")
	} else if _, err := time.ParseInLocation(calendar.DateLayout, input.StartDate, loc); err != nil {
		vErr.add("start_date", "start_date must be a YYYY-MM-DD date")
	}

	if input.EndDate != nil {
		if _, err := time.ParseInLocation(calendar.DateLayout, *input.EndDate, loc); err != nil {
			vErr.add("end_date", "end_date must be a YYYY-MM-DD date")
		} else if input.StartDate != "" && *input.EndDate < input.StartDate {
			vErr.add("end_date", "end_date must not precede start_date")
		}
	}

	if input.StartTime != nil {
		if _, err := calendar.Anchor("2000-01-01", *input.StartTime, loc); err != nil {
			vErr.add("start_time", "start_time must be an HH:MM clock time")
		}
	}

	if input.DurationMinutes != nil && *input.DurationMinutes <= 0 {
		vErr.add("duration_minutes", "duration_minutes must be positive")
	}

	if input.RecurrenceRule != nil {
		if _, err := calendar.ParseRule(*input.RecurrenceRule); err != nil {
			vErr.add("recurrence_rule", "recurrence_rule is not a valid recurrence expression")
		}
	}

	if input.Color != nil && !colorPattern.MatchString(*input.Color) {
		vErr.add("color", "color must be a #RRGGBB hex value")
	}
}
