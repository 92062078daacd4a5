package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/scout-scheduler/internal/persistence"
)

// BadgeRepository implements persistence.BadgeRepository on the shared Store.
type BadgeRepository struct {
	store *Store
}

// NewBadgeRepository wires a badge repository to the store.
func NewBadgeRepository(store *Store) *BadgeRepository {
	return &BadgeRepository{store: store}
}

// CreateBadge inserts a new catalogue entry.
func (r *BadgeRepository) CreateBadge(ctx context.Context, badge persistence.Badge) error {
	if badge.Name == "" {
		return persistence.ErrConstraintViolation
	}

	requirements, err := encodeRequirements(badge.Requirements)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if badge.CreatedAt.IsZero() {
		badge.CreatedAt = now
	}
	if badge.UpdatedAt.IsZero() {
		badge.UpdatedAt = now
	}

	const query = `
		INSERT INTO badges (name, sessions_required, completion, status, description, requirements, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.store.db.ExecContext(ctx, query,
		badge.Name,
		badge.SessionsRequired,
		badge.Completion,
		badge.Status,
		badge.Description,
		requirements,
		formatTimestamp(badge.CreatedAt),
		formatTimestamp(badge.UpdatedAt),
	)
	return mapError(err)
}

// UpdateBadge replaces the stored fields of an existing badge.
func (r *BadgeRepository) UpdateBadge(ctx context.Context, badge persistence.Badge) error {
	requirements, err := encodeRequirements(badge.Requirements)
	if err != nil {
		return err
	}

	badge.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE badges
		SET sessions_required = ?, completion = ?, status = ?, description = ?, requirements = ?, updated_at = ?
		WHERE name = ?
	`
	result, err := r.store.db.ExecContext(ctx, query,
		badge.SessionsRequired,
		badge.Completion,
		badge.Status,
		badge.Description,
		requirements,
		formatTimestamp(badge.UpdatedAt),
		badge.Name,
	)
	if err != nil {
		return mapError(err)
	}
	return ensureRowAffected(result)
}

// GetBadge fetches one badge by name.
func (r *BadgeRepository) GetBadge(ctx context.Context, name string) (persistence.Badge, error) {
	const query = `
		SELECT name, sessions_required, completion, status, description, requirements, created_at, updated_at
		FROM badges WHERE name = ?
	`
	return scanBadge(r.store.db.QueryRowContext(ctx, query, name))
}

// ListBadges returns the catalogue ordered by name.
func (r *BadgeRepository) ListBadges(ctx context.Context) ([]persistence.Badge, error) {
	const query = `
		SELECT name, sessions_required, completion, status, description, requirements, created_at, updated_at
		FROM badges ORDER BY name
	`
	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var badges []persistence.Badge
	for rows.Next() {
		badge, err := scanBadge(rows)
		if err != nil {
			return nil, err
		}
		badges = append(badges, badge)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return badges, nil
}

// DeleteBadge removes one badge by name.
func (r *BadgeRepository) DeleteBadge(ctx context.Context, name string) error {
	result, err := r.store.db.ExecContext(ctx, `DELETE FROM badges WHERE name = ?`, name)
	if err != nil {
		return mapError(err)
	}
	return ensureRowAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBadge(row rowScanner) (persistence.Badge, error) {
	var badge persistence.Badge
	var requirements, createdAt, updatedAt string

	if err := row.Scan(
		&badge.Name,
		&badge.SessionsRequired,
		&badge.Completion,
		&badge.Status,
		&badge.Description,
		&requirements,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Badge{}, mapError(err)
	}

	if requirements != "" {
		if err := json.Unmarshal([]byte(requirements), &badge.Requirements); err != nil {
			return persistence.Badge{}, fmt.Errorf("sqlite: decode badge requirements: %w", err)
		}
	}

	var err error
	if badge.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Badge{}, fmt.Errorf("sqlite: decode badge created_at: %w", err)
	}
	if badge.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Badge{}, fmt.Errorf("sqlite: decode badge updated_at: %w", err)
	}
	return badge, nil
}

func encodeRequirements(requirements []string) (string, error) {
	if len(requirements) == 0 {
		return "[]", nil
	}
	encoded, err := json.Marshal(requirements)
	if err != nil {
		return "", fmt.Errorf("sqlite: encode badge requirements: %w", err)
	}
	return string(encoded), nil
}

func ensureRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
