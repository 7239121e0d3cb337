package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/goal-tracker/internal/persistence"
)

const actionableColumns = `id, goal_id, title, description, recurrence_rule, start_date, end_date, start_time, duration_minutes, timezone, is_paused, paused_until, is_archived, color, exception_dates, created_at, updated_at`

// CreateActionable inserts a new actionable.
func (s *Store) CreateActionable(ctx context.Context, actionable persistence.Actionable) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO actionables (`+actionableColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		actionable.ID,
		actionable.GoalID,
		actionable.Title,
		actionable.Description,
		encodeStringPtr(actionable.RecurrenceRule),
		actionable.StartDate,
		encodeStringPtr(actionable.EndDate),
		encodeStringPtr(actionable.StartTime),
		encodeIntPtr(actionable.DurationMinutes),
		encodeStringPtr(actionable.Timezone),
		encodeBool(actionable.IsPaused),
		encodeTimePtr(actionable.PausedUntil),
		encodeBool(actionable.IsArchived),
		encodeStringPtr(actionable.Color),
		encodeStringPtr(actionable.ExceptionDates),
		encodeTime(actionable.CreatedAt),
		encodeTime(actionable.UpdatedAt),
	)
	return mapError(err)
}

// UpdateActionable updates an existing actionable. The owning goal never
// changes.
func (s *Store) UpdateActionable(ctx context.Context, actionable persistence.Actionable) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE actionables SET title = ?, description = ?, recurrence_rule = ?, start_date = ?, end_date = ?, start_time = ?, duration_minutes = ?, timezone = ?, is_paused = ?, paused_until = ?, is_archived = ?, color = ?, exception_dates = ?, updated_at = ? WHERE id = ?`,
		actionable.Title,
		actionable.Description,
		encodeStringPtr(actionable.RecurrenceRule),
		actionable.StartDate,
		encodeStringPtr(actionable.EndDate),
		encodeStringPtr(actionable.StartTime),
		encodeIntPtr(actionable.DurationMinutes),
		encodeStringPtr(actionable.Timezone),
		encodeBool(actionable.IsPaused),
		encodeTimePtr(actionable.PausedUntil),
		encodeBool(actionable.IsArchived),
		encodeStringPtr(actionable.Color),
		encodeStringPtr(actionable.ExceptionDates),
		encodeTime(actionable.UpdatedAt),
		actionable.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// GetActionable retrieves an actionable by ID.
func (s *Store) GetActionable(ctx context.Context, id string) (persistence.Actionable, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+actionableColumns+` FROM actionables WHERE id = ?`, id)
	return scanActionable(row)
}

// ListActionablesForGoal enumerates the actionables attached to one goal.
func (s *Store) ListActionablesForGoal(ctx context.Context, goalID string) ([]persistence.Actionable, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+actionableColumns+` FROM actionables WHERE goal_id = ? ORDER BY created_at, id`, goalID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return collectActionables(rows)
}

// ListActionablesForUser enumerates every actionable belonging to the user's
// goals.
func (s *Store) ListActionablesForUser(ctx context.Context, ownerID string) ([]persistence.Actionable, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.goal_id, a.title, a.description, a.recurrence_rule, a.start_date, a.end_date, a.start_time, a.duration_minutes, a.timezone, a.is_paused, a.paused_until, a.is_archived, a.color, a.exception_dates, a.created_at, a.updated_at
		 FROM actionables a
		 JOIN goals g ON g.id = a.goal_id
		 WHERE g.owner_id = ?
		 ORDER BY a.created_at, a.id`, ownerID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return collectActionables(rows)
}

// DeleteActionable removes an actionable and cascades to its completions.
func (s *Store) DeleteActionable(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM actionables WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

func collectActionables(rows *sql.Rows) ([]persistence.Actionable, error) {
	actionables := make([]persistence.Actionable, 0)
	for rows.Next() {
		actionable, err := scanActionable(rows)
		if err != nil {
			return nil, err
		}
		actionables = append(actionables, actionable)
	}
	return actionables, mapError(rows.Err())
}

func scanActionable(row rowScanner) (persistence.Actionable, error) {
	var (
		actionable      persistence.Actionable
		recurrenceRule  sql.NullString
		endDate         sql.NullString
		startTime       sql.NullString
		durationMinutes sql.NullInt64
		timezone        sql.NullString
		isPaused        int
		pausedUntil     sql.NullString
		isArchived      int
		color           sql.NullString
		exceptionDates  sql.NullString
		createdAt       string
		updatedAt       string
	)
	err := row.Scan(
		&actionable.ID,
		&actionable.GoalID,
		&actionable.Title,
		&actionable.Description,
		&recurrenceRule,
		&actionable.StartDate,
		&endDate,
		&startTime,
		&durationMinutes,
		&timezone,
		&isPaused,
		&pausedUntil,
		&isArchived,
		&color,
		&exceptionDates,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Actionable{}, persistence.ErrNotFound
		}
		return persistence.Actionable{}, mapError(err)
	}

	actionable.RecurrenceRule = decodeStringPtr(recurrenceRule)
	actionable.EndDate = decodeStringPtr(endDate)
	actionable.StartTime = decodeStringPtr(startTime)
	actionable.DurationMinutes = decodeIntPtr(durationMinutes)
	actionable.Timezone = decodeStringPtr(timezone)
	actionable.IsPaused = isPaused != 0
	actionable.IsArchived = isArchived != 0
	actionable.Color = decodeStringPtr(color)
	actionable.ExceptionDates = decodeStringPtr(exceptionDates)
	if actionable.PausedUntil, err = decodeTimePtr(pausedUntil); err != nil {
		return persistence.Actionable{}, err
	}
	if actionable.CreatedAt, err = decodeTime(createdAt); err != nil {
		return persistence.Actionable{}, err
	}
	if actionable.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return persistence.Actionable{}, err
	}
	return actionable, nil
}
