package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/goal-tracker/internal/persistence"
)

const communityColumns = `id, name, description, created_at, updated_at`

// CreateCommunity inserts a new community.
func (s *Store) CreateCommunity(ctx context.Context, community persistence.Community) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO communities (`+communityColumns+`) VALUES (?, ?, ?, ?, ?)`,
		community.ID,
		community.Name,
		community.Description,
		encodeTime(community.CreatedAt),
		encodeTime(community.UpdatedAt),
	)
	return mapError(err)
}

// UpdateCommunity updates an existing community.
func (s *Store) UpdateCommunity(ctx context.Context, community persistence.Community) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE communities SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		community.Name,
		community.Description,
		encodeTime(community.UpdatedAt),
		community.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// GetCommunity retrieves a community by ID.
func (s *Store) GetCommunity(ctx context.Context, id string) (persistence.Community, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+communityColumns+` FROM communities WHERE id = ?`, id)
	return scanCommunity(row)
}

// ListCommunities enumerates all communities ordered by name.
func (s *Store) ListCommunities(ctx context.Context) ([]persistence.Community, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+communityColumns+` FROM communities ORDER BY name, id`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	communities := make([]persistence.Community, 0)
	for rows.Next() {
		community, err := scanCommunity(rows)
		if err != nil {
			return nil, err
		}
		communities = append(communities, community)
	}
	return communities, mapError(rows.Err())
}

// DeleteCommunity removes a community; goals referencing it keep existing
// with their community link cleared.
func (s *Store) DeleteCommunity(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM communities WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

func scanCommunity(row rowScanner) (persistence.Community, error) {
	var (
		community persistence.Community
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&community.ID,
		&community.Name,
		&community.Description,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Community{}, persistence.ErrNotFound
		}
		return persistence.Community{}, mapError(err)
	}

	if community.CreatedAt, err = decodeTime(createdAt); err != nil {
		return persistence.Community{}, err
	}
	if community.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return persistence.Community{}, err
	}
	return community, nil
}
