package http

import (
	"context"

	"github.com/example/goal-tracker/internal/application"
)

type contextKey string

const (
	principalContextKey    contextKey = "principal"
	goalIDContextKey       contextKey = "goal_id"
	actionableIDContextKey contextKey = "actionable_id"
	communityIDContextKey  contextKey = "community_id"
	userIDContextKey       contextKey = "user_id"
	completionIDContextKey contextKey = "completion_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated
// principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if
// available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithGoalID injects the goal identifier resolved from the request path.
func ContextWithGoalID(ctx context.Context, goalID string) context.Context {
	return context.WithValue(ctx, goalIDContextKey, goalID)
}

// GoalIDFromContext extracts a goal identifier previously associated with the
// context.
func GoalIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(goalIDContextKey).(string)
	return id, ok
}

// ContextWithActionableID injects the actionable identifier resolved from the
// request path.
func ContextWithActionableID(ctx context.Context, actionableID string) context.Context {
	return context.WithValue(ctx, actionableIDContextKey, actionableID)
}

// ActionableIDFromContext extracts an actionable identifier previously
// associated with the context.
func ActionableIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(actionableIDContextKey).(string)
	return id, ok
}

// ContextWithCommunityID injects the community identifier resolved from the
// request path.
func ContextWithCommunityID(ctx context.Context, communityID string) context.Context {
	return context.WithValue(ctx, communityIDContextKey, communityID)
}

// CommunityIDFromContext extracts a community identifier previously
// associated with the context.
func CommunityIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(communityIDContextKey).(string)
	return id, ok
}

// ContextWithUserID injects the user identifier resolved from the request
// path.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext extracts a user identifier previously associated with the
// context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok
}

// ContextWithCompletionID injects the completion identifier resolved from the
// request path.
func ContextWithCompletionID(ctx context.Context, completionID string) context.Context {
	return context.WithValue(ctx, completionIDContextKey, completionID)
}

// CompletionIDFromContext extracts a completion identifier previously
// associated with the context.
func CompletionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(completionIDContextKey).(string)
	return id, ok
}
