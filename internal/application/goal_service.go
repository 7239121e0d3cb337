package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/goal-tracker/internal/persistence"
)

// GoalRepository captures the persistence interactions needed by the goal
// service.
type GoalRepository interface {
	CreateGoal(ctx context.Context, goal Goal) (Goal, error)
	UpdateGoal(ctx context.Context, goal Goal) (Goal, error)
	GetGoal(ctx context.Context, id string) (Goal, error)
	ListGoalsForUser(ctx context.Context, ownerID string) ([]Goal, error)
	DeleteGoal(ctx context.Context, id string) error
}

// CommunityCatalog exposes community lookup operations.
type CommunityCatalog interface {
	CommunityExists(ctx context.Context, id string) (bool, error)
}

// GoalService orchestrates validation and persistence for goal operations.
type GoalService struct {
	goals       GoalRepository
	communities CommunityCatalog
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewGoalService wires dependencies for goal operations.
func NewGoalService(goals GoalRepository, communities CommunityCatalog, idGenerator func() string, now func() time.Time, logger *slog.Logger) *GoalService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &GoalService{
		goals:       goals,
		communities: communities,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *GoalService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "GoalService", operation, attrs...)
}

// CreateGoal validates the request before delegating to persistence.
func (s *GoalService) CreateGoal(ctx context.Context, params CreateGoalParams) (Goal, error) {
	if s == nil || s.goals == nil {
		return Goal{}, fmt.Errorf("goal repository not configured")
	}

	input := params.Input
	principal := params.Principal

	if input.OwnerID == "" {
		input.OwnerID = principal.UserID
	}
	if input.OwnerID != principal.UserID && !principal.IsAdmin {
		return Goal{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	validateGoalCore(input, vErr)
	if vErr.HasErrors() {
		return Goal{}, vErr
	}

	if err := s.ensureCommunityExists(ctx, input.CommunityID); err != nil {
		return Goal{}, err
	}

	createdAt := s.now()
	goal := Goal{
		ID:          s.idGenerator(),
		OwnerID:     input.OwnerID,
		CommunityID: input.CommunityID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Deadline:    input.Deadline,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	persisted, err := s.goals.CreateGoal(ctx, goal)
	if err != nil {
		return Goal{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "CreateGoal", "goal_id", persisted.ID).InfoContext(ctx, "goal created")
	return persisted, nil
}

// UpdateGoal applies validation and authorization before updating persistence
// state.
func (s *GoalService) UpdateGoal(ctx context.Context, params UpdateGoalParams) (Goal, error) {
	if s == nil || s.goals == nil {
		return Goal{}, fmt.Errorf("goal repository not configured")
	}

	existing, err := s.goals.GetGoal(ctx, params.GoalID)
	if err != nil {
		return Goal{}, mapRepoError(err)
	}

	principal := params.Principal
	input := params.Input

	if existing.OwnerID != principal.UserID && !principal.IsAdmin {
		return Goal{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	if input.OwnerID != "" && input.OwnerID != existing.OwnerID {
		vErr.add("owner_id", "owner cannot be changed")
	}
	validateGoalCore(input, vErr)
	if vErr.HasErrors() {
		return Goal{}, vErr
	}

	if err := s.ensureCommunityExists(ctx, input.CommunityID); err != nil {
		return Goal{}, err
	}

	updated := existing
	updated.CommunityID = input.CommunityID
	updated.Title = strings.TrimSpace(input.Title)
	updated.Description = input.Description
	updated.Deadline = input.Deadline
	updated.UpdatedAt = s.now()

	persisted, err := s.goals.UpdateGoal(ctx, updated)
	if err != nil {
		return Goal{}, mapRepoError(err)
	}
	return persisted, nil
}

// GetGoal retrieves a single goal visible to the principal.
func (s *GoalService) GetGoal(ctx context.Context, principal Principal, goalID string) (Goal, error) {
	if s == nil || s.goals == nil {
		return Goal{}, fmt.Errorf("goal repository not configured")
	}

	goal, err := s.goals.GetGoal(ctx, goalID)
	if err != nil {
		return Goal{}, mapRepoError(err)
	}
	if goal.OwnerID != principal.UserID && !principal.IsAdmin {
		return Goal{}, ErrUnauthorized
	}
	return goal, nil
}

// ListGoals enumerates the goals owned by the given user.
func (s *GoalService) ListGoals(ctx context.Context, principal Principal, ownerID string) ([]Goal, error) {
	if s == nil || s.goals == nil {
		return nil, fmt.Errorf("goal repository not configured")
	}
	if ownerID == "" {
		ownerID = principal.UserID
	}
	if ownerID != principal.UserID && !principal.IsAdmin {
		return nil, ErrUnauthorized
	}

	goals, err := s.goals.ListGoalsForUser(ctx, ownerID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return goals, nil
}

// DeleteGoal ensures authorization before delegating to persistence. The
// goal's actionables and their completions are removed with it.
func (s *GoalService) DeleteGoal(ctx context.Context, principal Principal, goalID string) error {
	if s == nil || s.goals == nil {
		return fmt.Errorf("goal repository not configured")
	}

	existing, err := s.goals.GetGoal(ctx, goalID)
	if err != nil {
		return mapRepoError(err)
	}
	if existing.OwnerID != principal.UserID && !principal.IsAdmin {
		return ErrUnauthorized
	}

	if err := s.goals.DeleteGoal(ctx, goalID); err != nil {
		return mapRepoError(err)
	}

	s.loggerWith(ctx, "DeleteGoal", "goal_id", goalID).InfoContext(ctx, "goal deleted")
	return nil
}

func (s *GoalService) ensureCommunityExists(ctx context.Context, communityID *string) error {
	if communityID == nil || s.communities == nil {
		return nil
	}
	exists, err := s.communities.CommunityExists(ctx, *communityID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	vErr := &ValidationError{}
	vErr.add("community_id", "community does not exist")
	return vErr
}

func validateGoalCore(input GoalInput, vErr *ValidationError) {
	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if input.Deadline != nil {
		if _, err := time.Parse("2006-01-02", *input.Deadline); err != nil {
			vErr.add("deadline", "deadline must be a YYYY-MM-DD date")
		}
	}
}

// mapRepoError translates persistence sentinels into application errors.
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		vErr := &ValidationError{}
		vErr.add("references", "related records are missing")
		return vErr
	case errors.Is(err, persistence.ErrConstraintViolation):
		vErr := &ValidationError{}
		vErr.add("input", "input violates a storage constraint")
		return vErr
	}
	return err
}
