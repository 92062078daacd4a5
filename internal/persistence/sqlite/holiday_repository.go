package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/scout-scheduler/internal/persistence"
)

// HolidayRepository implements persistence.HolidayRepository on the shared
// Store. The end_date >= start_date check lives in the schema, so a reversed
// range surfaces as ErrConstraintViolation.
type HolidayRepository struct {
	store *Store
}

// NewHolidayRepository wires a holiday repository to the store.
func NewHolidayRepository(store *Store) *HolidayRepository {
	return &HolidayRepository{store: store}
}

// CreateHoliday inserts a named blackout range.
func (r *HolidayRepository) CreateHoliday(ctx context.Context, holiday persistence.Holiday) error {
	if holiday.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if holiday.CreatedAt.IsZero() {
		holiday.CreatedAt = now
	}
	if holiday.UpdatedAt.IsZero() {
		holiday.UpdatedAt = now
	}

	const query = `
		INSERT INTO holidays (id, name, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.store.db.ExecContext(ctx, query,
		holiday.ID,
		holiday.Name,
		formatDate(holiday.Start),
		formatDate(holiday.End),
		formatTimestamp(holiday.CreatedAt),
		formatTimestamp(holiday.UpdatedAt),
	)
	return mapError(err)
}

// GetHoliday fetches one holiday by id.
func (r *HolidayRepository) GetHoliday(ctx context.Context, id string) (persistence.Holiday, error) {
	const query = `
		SELECT id, name, start_date, end_date, created_at, updated_at
		FROM holidays WHERE id = ?
	`
	return scanHoliday(r.store.db.QueryRowContext(ctx, query, id))
}

// ListHolidays returns every blackout range ordered by start date.
func (r *HolidayRepository) ListHolidays(ctx context.Context) ([]persistence.Holiday, error) {
	const query = `
		SELECT id, name, start_date, end_date, created_at, updated_at
		FROM holidays ORDER BY start_date
	`
	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var holidays []persistence.Holiday
	for rows.Next() {
		holiday, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, holiday)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return holidays, nil
}

// DeleteHoliday removes one holiday by id.
func (r *HolidayRepository) DeleteHoliday(ctx context.Context, id string) error {
	result, err := r.store.db.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return ensureRowAffected(result)
}

func scanHoliday(row rowScanner) (persistence.Holiday, error) {
	var holiday persistence.Holiday
	var start, end, createdAt, updatedAt string

	if err := row.Scan(
		&holiday.ID,
		&holiday.Name,
		&start,
		&end,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Holiday{}, mapError(err)
	}

	var err error
	if holiday.Start, err = parseDate(start); err != nil {
		return persistence.Holiday{}, fmt.Errorf("sqlite: decode holiday start: %w", err)
	}
	if holiday.End, err = parseDate(end); err != nil {
		return persistence.Holiday{}, fmt.Errorf("sqlite: decode holiday end: %w", err)
	}
	if holiday.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Holiday{}, fmt.Errorf("sqlite: decode holiday created_at: %w", err)
	}
	if holiday.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Holiday{}, fmt.Errorf("sqlite: decode holiday updated_at: %w", err)
	}
	return holiday, nil
}
