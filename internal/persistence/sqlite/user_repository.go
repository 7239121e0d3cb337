package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/goal-tracker/internal/persistence"
)

const userColumns = `id, email, display_name, is_admin, password_hash, disabled, failed_attempts, last_failed_at, created_at, updated_at`

// CreateUser inserts a new member account.
func (s *Store) CreateUser(ctx context.Context, user persistence.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.DisplayName,
		encodeBool(user.IsAdmin),
		user.PasswordHash,
		encodeBool(user.Disabled),
		user.FailedAttempts,
		encodeTimePtr(user.LastFailedAt),
		encodeTime(user.CreatedAt),
		encodeTime(user.UpdatedAt),
	)
	return mapError(err)
}

// UpdateUser updates an existing member account.
func (s *Store) UpdateUser(ctx context.Context, user persistence.User) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET email = ?, display_name = ?, is_admin = ?, password_hash = ?, disabled = ?, failed_attempts = ?, last_failed_at = ?, updated_at = ? WHERE id = ?`,
		user.Email,
		user.DisplayName,
		encodeBool(user.IsAdmin),
		user.PasswordHash,
		encodeBool(user.Disabled),
		user.FailedAttempts,
		encodeTimePtr(user.LastFailedAt),
		encodeTime(user.UpdatedAt),
		user.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// GetUser retrieves a member account by ID.
func (s *Store) GetUser(ctx context.Context, id string) (persistence.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail retrieves a member account by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// ListUsers enumerates all member accounts ordered by creation time.
func (s *Store) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	users := make([]persistence.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, mapError(rows.Err())
}

// DeleteUser removes a member account and cascades to its sessions and goals.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (persistence.User, error) {
	var (
		user         persistence.User
		isAdmin      int
		disabled     int
		lastFailedAt sql.NullString
		createdAt    string
		updatedAt    string
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&isAdmin,
		&user.PasswordHash,
		&disabled,
		&user.FailedAttempts,
		&lastFailedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.User{}, persistence.ErrNotFound
		}
		return persistence.User{}, mapError(err)
	}

	user.IsAdmin = isAdmin != 0
	user.Disabled = disabled != 0
	if user.LastFailedAt, err = decodeTimePtr(lastFailedAt); err != nil {
		return persistence.User{}, err
	}
	if user.CreatedAt, err = decodeTime(createdAt); err != nil {
		return persistence.User{}, err
	}
	if user.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
