package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/goal-tracker/internal/persistence"
)

const goalColumns = `id, owner_id, community_id, title, description, deadline, created_at, updated_at`

// CreateGoal inserts a new goal.
func (s *Store) CreateGoal(ctx context.Context, goal persistence.Goal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID,
		goal.OwnerID,
		encodeStringPtr(goal.CommunityID),
		goal.Title,
		goal.Description,
		encodeStringPtr(goal.Deadline),
		encodeTime(goal.CreatedAt),
		encodeTime(goal.UpdatedAt),
	)
	return mapError(err)
}

// UpdateGoal updates an existing goal. Ownership never changes.
func (s *Store) UpdateGoal(ctx context.Context, goal persistence.Goal) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE goals SET community_id = ?, title = ?, description = ?, deadline = ?, updated_at = ? WHERE id = ?`,
		encodeStringPtr(goal.CommunityID),
		goal.Title,
		goal.Description,
		encodeStringPtr(goal.Deadline),
		encodeTime(goal.UpdatedAt),
		goal.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// GetGoal retrieves a goal by ID.
func (s *Store) GetGoal(ctx context.Context, id string) (persistence.Goal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	return scanGoal(row)
}

// ListGoalsForUser enumerates a user's goals ordered by creation time.
func (s *Store) ListGoalsForUser(ctx context.Context, ownerID string) ([]persistence.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	goals := make([]persistence.Goal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, mapError(rows.Err())
}

// DeleteGoal removes a goal and cascades to its actionables and completions.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

func scanGoal(row rowScanner) (persistence.Goal, error) {
	var (
		goal        persistence.Goal
		communityID sql.NullString
		deadline    sql.NullString
		createdAt   string
		updatedAt   string
	)
	err := row.Scan(
		&goal.ID,
		&goal.OwnerID,
		&communityID,
		&goal.Title,
		&goal.Description,
		&deadline,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Goal{}, persistence.ErrNotFound
		}
		return persistence.Goal{}, mapError(err)
	}

	goal.CommunityID = decodeStringPtr(communityID)
	goal.Deadline = decodeStringPtr(deadline)
	if goal.CreatedAt, err = decodeTime(createdAt); err != nil {
		return persistence.Goal{}, err
	}
	if goal.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return persistence.Goal{}, err
	}
	return goal, nil
}
