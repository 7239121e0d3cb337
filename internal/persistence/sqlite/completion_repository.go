package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/goal-tracker/internal/persistence"
)

const completionColumns = `id, actionable_id, occurrence_start, notes, completed_at, created_at`

// CreateCompletion records a completed occurrence. The (actionable,
// occurrence start) pair is unique; completing the same occurrence twice
// surfaces as a duplicate error.
func (s *Store) CreateCompletion(ctx context.Context, completion persistence.ActionableCompletion) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO actionable_completions (`+completionColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		completion.ID,
		completion.ActionableID,
		encodeTime(completion.OccurrenceStart),
		encodeStringPtr(completion.Notes),
		encodeTime(completion.CompletedAt),
		encodeTime(completion.CreatedAt),
	)
	return mapError(err)
}

// GetCompletion retrieves a completion record by ID.
func (s *Store) GetCompletion(ctx context.Context, id string) (persistence.ActionableCompletion, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+completionColumns+` FROM actionable_completions WHERE id = ?`, id)
	return scanCompletion(row)
}

// ListCompletionsForUser enumerates the user's completion records whose
// occurrence start falls inside the inclusive range.
func (s *Store) ListCompletionsForUser(ctx context.Context, ownerID string, rangeStart, rangeEnd time.Time) ([]persistence.ActionableCompletion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.actionable_id, c.occurrence_start, c.notes, c.completed_at, c.created_at
		 FROM actionable_completions c
		 JOIN actionables a ON a.id = c.actionable_id
		 JOIN goals g ON g.id = a.goal_id
		 WHERE g.owner_id = ? AND c.occurrence_start >= ? AND c.occurrence_start <= ?
		 ORDER BY c.occurrence_start, c.id`,
		ownerID,
		encodeTime(rangeStart),
		encodeTime(rangeEnd),
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	completions := make([]persistence.ActionableCompletion, 0)
	for rows.Next() {
		completion, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		completions = append(completions, completion)
	}
	return completions, mapError(rows.Err())
}

// DeleteCompletion removes a single completion record.
func (s *Store) DeleteCompletion(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM actionable_completions WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// DeleteCompletionsForActionable removes every completion attached to an
// actionable.
func (s *Store) DeleteCompletionsForActionable(ctx context.Context, actionableID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM actionable_completions WHERE actionable_id = ?`, actionableID)
	return mapError(err)
}

func scanCompletion(row rowScanner) (persistence.ActionableCompletion, error) {
	var (
		completion      persistence.ActionableCompletion
		occurrenceStart string
		notes           sql.NullString
		completedAt     string
		createdAt       string
	)
	err := row.Scan(
		&completion.ID,
		&completion.ActionableID,
		&occurrenceStart,
		&notes,
		&completedAt,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.ActionableCompletion{}, persistence.ErrNotFound
		}
		return persistence.ActionableCompletion{}, mapError(err)
	}

	completion.Notes = decodeStringPtr(notes)
	if completion.OccurrenceStart, err = decodeTime(occurrenceStart); err != nil {
		return persistence.ActionableCompletion{}, err
	}
	if completion.CompletedAt, err = decodeTime(completedAt); err != nil {
		return persistence.ActionableCompletion{}, err
	}
	if completion.CreatedAt, err = decodeTime(createdAt); err != nil {
		return persistence.ActionableCompletion{}, err
	}
	return completion, nil
}
