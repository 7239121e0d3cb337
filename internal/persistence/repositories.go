package persistence

import (
	"context"
	"time"
)

// UserRepository exposes CRUD operations for member accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// CommunityRepository exposes CRUD operations for communities.
type CommunityRepository interface {
	CreateCommunity(ctx context.Context, community Community) error
	UpdateCommunity(ctx context.Context, community Community) error
	GetCommunity(ctx context.Context, id string) (Community, error)
	ListCommunities(ctx context.Context) ([]Community, error)
	DeleteCommunity(ctx context.Context, id string) error
}

// GoalRepository stores goals owned by users.
type GoalRepository interface {
	CreateGoal(ctx context.Context, goal Goal) error
	UpdateGoal(ctx context.Context, goal Goal) error
	GetGoal(ctx context.Context, id string) (Goal, error)
	ListGoalsForUser(ctx context.Context, ownerID string) ([]Goal, error)
	DeleteGoal(ctx context.Context, id string) error
}

// ActionableRepository stores actionables attached to goals.
type ActionableRepository interface {
	CreateActionable(ctx context.Context, actionable Actionable) error
	UpdateActionable(ctx context.Context, actionable Actionable) error
	GetActionable(ctx context.Context, id string) (Actionable, error)
	ListActionablesForGoal(ctx context.Context, goalID string) ([]Actionable, error)
	ListActionablesForUser(ctx context.Context, ownerID string) ([]Actionable, error)
	DeleteActionable(ctx context.Context, id string) error
}

// CompletionRepository stores per-occurrence completion records.
type CompletionRepository interface {
	CreateCompletion(ctx context.Context, completion ActionableCompletion) error
	GetCompletion(ctx context.Context, id string) (ActionableCompletion, error)
	ListCompletionsForUser(ctx context.Context, ownerID string, rangeStart, rangeEnd time.Time) ([]ActionableCompletion, error)
	DeleteCompletion(ctx context.Context, id string) error
	DeleteCompletionsForActionable(ctx context.Context, actionableID string) error
}
