package main

import (
	"context"
	"errors"
	"time"

	"github.com/example/goal-tracker/internal/application"
	"github.com/example/goal-tracker/internal/calendar"
	"github.com/example/goal-tracker/internal/persistence"
)

// The adapters below bridge the application layer's consumer interfaces to
// the persistence layer. Persistence repositories accept and return
// persistence models; the application services speak in their own types, so
// each adapter converts on the way in and reads the stored row back on the
// way out.

type goalRepositoryAdapter struct {
	repo persistence.GoalRepository
}

func newGoalRepositoryAdapter(repo persistence.GoalRepository) *goalRepositoryAdapter {
	return &goalRepositoryAdapter{repo: repo}
}

func (a *goalRepositoryAdapter) CreateGoal(ctx context.Context, goal application.Goal) (application.Goal, error) {
	if err := a.repo.CreateGoal(ctx, toPersistenceGoal(goal)); err != nil {
		return application.Goal{}, err
	}
	stored, err := a.repo.GetGoal(ctx, goal.ID)
	if err != nil {
		return application.Goal{}, err
	}
	return toApplicationGoal(stored), nil
}

func (a *goalRepositoryAdapter) UpdateGoal(ctx context.Context, goal application.Goal) (application.Goal, error) {
	if err := a.repo.UpdateGoal(ctx, toPersistenceGoal(goal)); err != nil {
		return application.Goal{}, err
	}
	stored, err := a.repo.GetGoal(ctx, goal.ID)
	if err != nil {
		return application.Goal{}, err
	}
	return toApplicationGoal(stored), nil
}

func (a *goalRepositoryAdapter) GetGoal(ctx context.Context, id string) (application.Goal, error) {
	stored, err := a.repo.GetGoal(ctx, id)
	if err != nil {
		return application.Goal{}, err
	}
	return toApplicationGoal(stored), nil
}

func (a *goalRepositoryAdapter) ListGoalsForUser(ctx context.Context, ownerID string) ([]application.Goal, error) {
	models, err := a.repo.ListGoalsForUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	goals := make([]application.Goal, 0, len(models))
	for _, model := range models {
		goals = append(goals, toApplicationGoal(model))
	}
	return goals, nil
}

func (a *goalRepositoryAdapter) DeleteGoal(ctx context.Context, id string) error {
	return a.repo.DeleteGoal(ctx, id)
}

type communityCatalogAdapter struct {
	repo persistence.CommunityRepository
}

func newCommunityCatalogAdapter(repo persistence.CommunityRepository) *communityCatalogAdapter {
	return &communityCatalogAdapter{repo: repo}
}

func (a *communityCatalogAdapter) CommunityExists(ctx context.Context, id string) (bool, error) {
	if _, err := a.repo.GetCommunity(ctx, id); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type actionableRepositoryAdapter struct {
	repo persistence.ActionableRepository
}

func newActionableRepositoryAdapter(repo persistence.ActionableRepository) *actionableRepositoryAdapter {
	return &actionableRepositoryAdapter{repo: repo}
}

func (a *actionableRepositoryAdapter) CreateActionable(ctx context.Context, actionable application.Actionable) (application.Actionable, error) {
	if err := a.repo.CreateActionable(ctx, toPersistenceActionable(actionable)); err != nil {
		return application.Actionable{}, err
	}
	stored, err := a.repo.GetActionable(ctx, actionable.ID)
	if err != nil {
		return application.Actionable{}, err
	}
	return toApplicationActionable(stored), nil
}

func (a *actionableRepositoryAdapter) UpdateActionable(ctx context.Context, actionable application.Actionable) (application.Actionable, error) {
	if err := a.repo.UpdateActionable(ctx, toPersistenceActionable(actionable)); err != nil {
		return application.Actionable{}, err
	}
	stored, err := a.repo.GetActionable(ctx, actionable.ID)
	if err != nil {
		return application.Actionable{}, err
	}
	return toApplicationActionable(stored), nil
}

func (a *actionableRepositoryAdapter) GetActionable(ctx context.Context, id string) (application.Actionable, error) {
	stored, err := a.repo.GetActionable(ctx, id)
	if err != nil {
		return application.Actionable{}, err
	}
	return toApplicationActionable(stored), nil
}

func (a *actionableRepositoryAdapter) ListActionablesForGoal(ctx context.Context, goalID string) ([]application.Actionable, error) {
	models, err := a.repo.ListActionablesForGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	actionables := make([]application.Actionable, 0, len(models))
	for _, model := range models {
		actionables = append(actionables, toApplicationActionable(model))
	}
	return actionables, nil
}

func (a *actionableRepositoryAdapter) DeleteActionable(ctx context.Context, id string) error {
	return a.repo.DeleteActionable(ctx, id)
}

type completionRepositoryAdapter struct {
	repo persistence.CompletionRepository
}

func newCompletionRepositoryAdapter(repo persistence.CompletionRepository) *completionRepositoryAdapter {
	return &completionRepositoryAdapter{repo: repo}
}

func (a *completionRepositoryAdapter) CreateCompletion(ctx context.Context, completion application.Completion) (application.Completion, error) {
	record := persistence.ActionableCompletion{
		ID:              completion.ID,
		ActionableID:    completion.ActionableID,
		OccurrenceStart: completion.OccurrenceStart,
		Notes:           completion.Notes,
		CompletedAt:     completion.CompletedAt,
		CreatedAt:       completion.CompletedAt,
	}
	if err := a.repo.CreateCompletion(ctx, record); err != nil {
		return application.Completion{}, err
	}
	stored, err := a.repo.GetCompletion(ctx, completion.ID)
	if err != nil {
		return application.Completion{}, err
	}
	return toApplicationCompletion(stored), nil
}

func (a *completionRepositoryAdapter) GetCompletion(ctx context.Context, id string) (application.Completion, error) {
	stored, err := a.repo.GetCompletion(ctx, id)
	if err != nil {
		return application.Completion{}, err
	}
	return toApplicationCompletion(stored), nil
}

func (a *completionRepositoryAdapter) DeleteCompletion(ctx context.Context, id string) error {
	return a.repo.DeleteCompletion(ctx, id)
}

type communityRepositoryAdapter struct {
	repo persistence.CommunityRepository
}

func newCommunityRepositoryAdapter(repo persistence.CommunityRepository) *communityRepositoryAdapter {
	return &communityRepositoryAdapter{repo: repo}
}

func (a *communityRepositoryAdapter) CreateCommunity(ctx context.Context, community application.Community) (application.Community, error) {
	if err := a.repo.CreateCommunity(ctx, toPersistenceCommunity(community)); err != nil {
		return application.Community{}, err
	}
	stored, err := a.repo.GetCommunity(ctx, community.ID)
	if err != nil {
		return application.Community{}, err
	}
	return toApplicationCommunity(stored), nil
}

func (a *communityRepositoryAdapter) UpdateCommunity(ctx context.Context, community application.Community) (application.Community, error) {
	if err := a.repo.UpdateCommunity(ctx, toPersistenceCommunity(community)); err != nil {
		return application.Community{}, err
	}
	stored, err := a.repo.GetCommunity(ctx, community.ID)
	if err != nil {
		return application.Community{}, err
	}
	return toApplicationCommunity(stored), nil
}

func (a *communityRepositoryAdapter) GetCommunity(ctx context.Context, id string) (application.Community, error) {
	stored, err := a.repo.GetCommunity(ctx, id)
	if err != nil {
		return application.Community{}, err
	}
	return toApplicationCommunity(stored), nil
}

func (a *communityRepositoryAdapter) ListCommunities(ctx context.Context) ([]application.Community, error) {
	models, err := a.repo.ListCommunities(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	communities := make([]application.Community, 0, len(models))
	for _, model := range models {
		communities = append(communities, toApplicationCommunity(model))
	}
	return communities, nil
}

func (a *communityRepositoryAdapter) DeleteCommunity(ctx context.Context, id string) error {
	return a.repo.DeleteCommunity(ctx, id)
}

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	record := persistence.User{
		ID:           user.ID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		IsAdmin:      user.IsAdmin,
		PasswordHash: passwordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if err := a.repo.CreateUser(ctx, record); err != nil {
		return application.User{}, err
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

// UpdateUser keeps the stored password hash and lockout counters when the
// caller passes an empty hash, which is how the user service expresses "no
// password change".
func (a *userRepositoryAdapter) UpdateUser(ctx context.Context, user application.User, passwordHash string) (application.User, error) {
	current, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, err
	}
	if passwordHash == "" {
		passwordHash = current.PasswordHash
	}
	record := persistence.User{
		ID:             user.ID,
		Email:          user.Email,
		DisplayName:    user.DisplayName,
		IsAdmin:        user.IsAdmin,
		PasswordHash:   passwordHash,
		Disabled:       current.Disabled,
		FailedAttempts: current.FailedAttempts,
		LastFailedAt:   current.LastFailedAt,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
	if err := a.repo.UpdateUser(ctx, record); err != nil {
		return application.User{}, err
	}
	stored, err := a.repo.GetUser(ctx, user.ID)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) DeleteUser(ctx context.Context, id string) error {
	return a.repo.DeleteUser(ctx, id)
}

func (a *userRepositoryAdapter) ListUsers(ctx context.Context) ([]application.User, error) {
	models, err := a.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	users := make([]application.User, 0, len(models))
	for _, model := range models {
		users = append(users, toApplicationUser(model))
	}
	return users, nil
}

type credentialStoreAdapter struct {
	repo persistence.UserRepository
}

func newCredentialStoreAdapter(repo persistence.UserRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetUserCredentialsByEmail(ctx context.Context, email string) (application.UserCredentials, error) {
	stored, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return application.UserCredentials{}, err
	}
	return application.UserCredentials{
		User:           toApplicationUser(stored),
		PasswordHash:   stored.PasswordHash,
		Disabled:       stored.Disabled,
		FailedAttempts: stored.FailedAttempts,
		LastFailedAt:   stored.LastFailedAt,
	}, nil
}

func (a *credentialStoreAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, err
	}
	return toApplicationUser(stored), nil
}

func (a *credentialStoreAdapter) RecordFailedAttempt(ctx context.Context, userID string, at time.Time) error {
	stored, err := a.repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	stored.FailedAttempts++
	failedAt := at
	stored.LastFailedAt = &failedAt
	return a.repo.UpdateUser(ctx, stored)
}

func (a *credentialStoreAdapter) ClearFailedAttempts(ctx context.Context, userID string) error {
	stored, err := a.repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if stored.FailedAttempts == 0 && stored.LastFailedAt == nil {
		return nil
	}
	stored.FailedAttempts = 0
	stored.LastFailedAt = nil
	return a.repo.UpdateUser(ctx, stored)
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return a.repo.DeleteExpiredSessions(ctx, reference)
}

// ------------------------- calendar engine sources -------------------------

type goalSourceAdapter struct {
	repo persistence.GoalRepository
}

func newGoalSourceAdapter(repo persistence.GoalRepository) *goalSourceAdapter {
	return &goalSourceAdapter{repo: repo}
}

func (a *goalSourceAdapter) ListGoalsForUser(ctx context.Context, userID string) ([]calendar.Goal, error) {
	models, err := a.repo.ListGoalsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	goals := make([]calendar.Goal, 0, len(models))
	for _, model := range models {
		goals = append(goals, calendar.Goal{
			ID:        model.ID,
			Title:     model.Title,
			Deadline:  derefString(model.Deadline),
			CreatedAt: model.CreatedAt,
		})
	}
	return goals, nil
}

type actionableSourceAdapter struct {
	repo persistence.ActionableRepository
}

func newActionableSourceAdapter(repo persistence.ActionableRepository) *actionableSourceAdapter {
	return &actionableSourceAdapter{repo: repo}
}

func (a *actionableSourceAdapter) ListActionablesForUser(ctx context.Context, userID string) ([]calendar.Actionable, error) {
	models, err := a.repo.ListActionablesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	actionables := make([]calendar.Actionable, 0, len(models))
	for _, model := range models {
		actionables = append(actionables, calendar.Actionable{
			ID:              model.ID,
			GoalID:          model.GoalID,
			Title:           model.Title,
			Description:     model.Description,
			RecurrenceRule:  derefString(model.RecurrenceRule),
			StartDate:       model.StartDate,
			EndDate:         derefString(model.EndDate),
			StartTime:       derefString(model.StartTime),
			DurationMinutes: derefInt(model.DurationMinutes),
			Timezone:        derefString(model.Timezone),
			IsPaused:        model.IsPaused,
			PausedUntil:     model.PausedUntil,
			IsArchived:      model.IsArchived,
			Color:           derefString(model.Color),
			ExceptionDates:  derefString(model.ExceptionDates),
		})
	}
	return actionables, nil
}

type completionSourceAdapter struct {
	repo persistence.CompletionRepository
}

func newCompletionSourceAdapter(repo persistence.CompletionRepository) *completionSourceAdapter {
	return &completionSourceAdapter{repo: repo}
}

func (a *completionSourceAdapter) ListCompletionsForUser(ctx context.Context, userID string, rangeStart, rangeEnd time.Time) ([]calendar.Completion, error) {
	models, err := a.repo.ListCompletionsForUser(ctx, userID, rangeStart, rangeEnd)
	if err != nil {
		return nil, err
	}
	completions := make([]calendar.Completion, 0, len(models))
	for _, model := range models {
		completions = append(completions, calendar.Completion{
			ID:              model.ID,
			ActionableID:    model.ActionableID,
			OccurrenceStart: model.OccurrenceStart,
			Notes:           derefString(model.Notes),
			CompletedAt:     model.CompletedAt,
		})
	}
	return completions, nil
}

// ------------------------------ conversions ------------------------------

func toPersistenceGoal(goal application.Goal) persistence.Goal {
	return persistence.Goal{
		ID:          goal.ID,
		OwnerID:     goal.OwnerID,
		CommunityID: goal.CommunityID,
		Title:       goal.Title,
		Description: goal.Description,
		Deadline:    goal.Deadline,
		CreatedAt:   goal.CreatedAt,
		UpdatedAt:   goal.UpdatedAt,
	}
}

func toApplicationGoal(goal persistence.Goal) application.Goal {
	return application.Goal{
		ID:          goal.ID,
		OwnerID:     goal.OwnerID,
		CommunityID: goal.CommunityID,
		Title:       goal.Title,
		Description: goal.Description,
		Deadline:    goal.Deadline,
		CreatedAt:   goal.CreatedAt,
		UpdatedAt:   goal.UpdatedAt,
	}
}

func toPersistenceActionable(actionable application.Actionable) persistence.Actionable {
	return persistence.Actionable{
		ID:              actionable.ID,
		GoalID:          actionable.GoalID,
		Title:           actionable.Title,
		Description:     actionable.Description,
		RecurrenceRule:  actionable.RecurrenceRule,
		StartDate:       actionable.StartDate,
		EndDate:         actionable.EndDate,
		StartTime:       actionable.StartTime,
		DurationMinutes: actionable.DurationMinutes,
		Timezone:        actionable.Timezone,
		IsPaused:        actionable.IsPaused,
		PausedUntil:     actionable.PausedUntil,
		IsArchived:      actionable.IsArchived,
		Color:           actionable.Color,
		ExceptionDates:  actionable.ExceptionDates,
		CreatedAt:       actionable.CreatedAt,
		UpdatedAt:       actionable.UpdatedAt,
	}
}

func toApplicationActionable(actionable persistence.Actionable) application.Actionable {
	return application.Actionable{
		ID:              actionable.ID,
		GoalID:          actionable.GoalID,
		Title:           actionable.Title,
		Description:     actionable.Description,
		RecurrenceRule:  actionable.RecurrenceRule,
		StartDate:       actionable.StartDate,
		EndDate:         actionable.EndDate,
		StartTime:       actionable.StartTime,
		DurationMinutes: actionable.DurationMinutes,
		Timezone:        actionable.Timezone,
		IsPaused:        actionable.IsPaused,
		PausedUntil:     actionable.PausedUntil,
		IsArchived:      actionable.IsArchived,
		Color:           actionable.Color,
		ExceptionDates:  actionable.ExceptionDates,
		CreatedAt:       actionable.CreatedAt,
		UpdatedAt:       actionable.UpdatedAt,
	}
}

func toPersistenceCommunity(community application.Community) persistence.Community {
	return persistence.Community{
		ID:          community.ID,
		Name:        community.Name,
		Description: community.Description,
		CreatedAt:   community.CreatedAt,
		UpdatedAt:   community.UpdatedAt,
	}
}

func toApplicationCommunity(community persistence.Community) application.Community {
	return application.Community{
		ID:          community.ID,
		Name:        community.Name,
		Description: community.Description,
		CreatedAt:   community.CreatedAt,
		UpdatedAt:   community.UpdatedAt,
	}
}

func toApplicationUser(user persistence.User) application.User {
	return application.User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsAdmin:     user.IsAdmin,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func toApplicationCompletion(completion persistence.ActionableCompletion) application.Completion {
	return application.Completion{
		ID:              completion.ID,
		ActionableID:    completion.ActionableID,
		OccurrenceStart: completion.OccurrenceStart,
		Notes:           completion.Notes,
		CompletedAt:     completion.CompletedAt,
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:          session.ID,
		UserID:      session.UserID,
		Token:       session.Token,
		Fingerprint: session.Fingerprint,
		ExpiresAt:   session.ExpiresAt,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
		RevokedAt:   session.RevokedAt,
	}
}

func toApplicationSession(session persistence.Session) application.Session {
	return application.Session{
		ID:          session.ID,
		UserID:      session.UserID,
		Token:       session.Token,
		Fingerprint: session.Fingerprint,
		ExpiresAt:   session.ExpiresAt,
		CreatedAt:   session.CreatedAt,
		UpdatedAt:   session.UpdatedAt,
		RevokedAt:   session.RevokedAt,
	}
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefInt(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}
