package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// CompletionRepository captures the persistence interactions needed by the
// completion service.
type CompletionRepository interface {
	CreateCompletion(ctx context.Context, completion Completion) (Completion, error)
	GetCompletion(ctx context.Context, id string) (Completion, error)
	DeleteCompletion(ctx context.Context, id string) error
}

// ActionableFinder resolves actionables for ownership checks.
type ActionableFinder interface {
	GetActionable(ctx context.Context, id string) (Actionable, error)
}

// CompletionService records and removes per-occurrence completion state.
type CompletionService struct {
	completions CompletionRepository
	actionables ActionableFinder
	goals       GoalFinder
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCompletionService wires dependencies for completion operations.
func NewCompletionService(completions CompletionRepository, actionables ActionableFinder, goals GoalFinder, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CompletionService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CompletionService{
		completions: completions,
		actionables: actionables,
		goals:       goals,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *CompletionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CompletionService", operation, attrs...)
}

// RecordCompletion marks a single occurrence as done. The occurrence start
// instant identifies which occurrence; recording the same occurrence twice
// yields ErrAlreadyExists.
func (s *CompletionService) RecordCompletion(ctx context.Context, params RecordCompletionParams) (Completion, error) {
	if s == nil || s.completions == nil {
		return Completion{}, fmt.Errorf("completion repository not configured")
	}

	input := params.Input

	vErr := &ValidationError{}
	if input.ActionableID == "" {
		vErr.add("actionable_id", "actionable_id is required")
	}
	if input.OccurrenceStart.IsZero() {
		vErr.add("occurrence_start", "occurrence_start is required")
	}
	if vErr.HasErrors() {
		return Completion{}, vErr
	}

	if err := s.authorizeActionableAccess(ctx, params.Principal, input.ActionableID); err != nil {
		return Completion{}, err
	}

	completion := Completion{
		ID:              s.idGenerator(),
		ActionableID:    input.ActionableID,
		OccurrenceStart: input.OccurrenceStart.UTC(),
		Notes:           input.Notes,
		CompletedAt:     s.now(),
	}

	persisted, err := s.completions.CreateCompletion(ctx, completion)
	if err != nil {
		return Completion{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "RecordCompletion",
		"completion_id", persisted.ID,
		"actionable_id", persisted.ActionableID,
	).InfoContext(ctx, "occurrence completed")
	return persisted, nil
}

// DeleteCompletion reverts an occurrence to its pending state.
func (s *CompletionService) DeleteCompletion(ctx context.Context, principal Principal, completionID string) error {
	if s == nil || s.completions == nil {
		return fmt.Errorf("completion repository not configured")
	}

	existing, err := s.completions.GetCompletion(ctx, completionID)
	if err != nil {
		return mapRepoError(err)
	}
	if err := s.authorizeActionableAccess(ctx, principal, existing.ActionableID); err != nil {
		return err
	}

	if err := s.completions.DeleteCompletion(ctx, completionID); err != nil {
		return mapRepoError(err)
	}

	s.loggerWith(ctx, "DeleteCompletion", "completion_id", completionID).InfoContext(ctx, "completion removed")
	return nil
}

func (s *CompletionService) authorizeActionableAccess(ctx context.Context, principal Principal, actionableID string) error {
	if s.actionables == nil || s.goals == nil {
		return nil
	}
	actionable, err := s.actionables.GetActionable(ctx, actionableID)
	if err != nil {
		return mapRepoError(err)
	}
	goal, err := s.goals.GetGoal(ctx, actionable.GoalID)
	if err != nil {
		return mapRepoError(err)
	}
	if goal.OwnerID != principal.UserID && !principal.IsAdmin {
		return ErrUnauthorized
	}
	return nil
}
