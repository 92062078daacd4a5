package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/scout-scheduler/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository on the shared
// Store. The sessions table carries a unique index on the date column, which
// is what enforces the one-session-per-day invariant.
type SessionRepository struct {
	store *Store
}

// NewSessionRepository wires a session repository to the store.
func NewSessionRepository(store *Store) *SessionRepository {
	return &SessionRepository{store: store}
}

// CreateSession books a session. A date collision surfaces as ErrDuplicate.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) error {
	if session.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = now
	}

	const query = `
		INSERT INTO sessions (id, date, time, badge_name, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.store.db.ExecContext(ctx, query,
		session.ID,
		formatDate(session.Date),
		session.Time,
		session.BadgeName,
		session.Title,
		formatTimestamp(session.CreatedAt),
		formatTimestamp(session.UpdatedAt),
	)
	return mapError(err)
}

// GetSession fetches one session by id.
func (r *SessionRepository) GetSession(ctx context.Context, id string) (persistence.Session, error) {
	const query = `
		SELECT id, date, time, badge_name, title, created_at, updated_at
		FROM sessions WHERE id = ?
	`
	return scanSession(r.store.db.QueryRowContext(ctx, query, id))
}

// ListSessions returns every booked session ordered by date ascending.
func (r *SessionRepository) ListSessions(ctx context.Context) ([]persistence.Session, error) {
	const query = `
		SELECT id, date, time, badge_name, title, created_at, updated_at
		FROM sessions ORDER BY date
	`
	rows, err := r.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var sessions []persistence.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return sessions, nil
}

// DeleteSession removes one session by id.
func (r *SessionRepository) DeleteSession(ctx context.Context, id string) error {
	result, err := r.store.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return ensureRowAffected(result)
}

func scanSession(row rowScanner) (persistence.Session, error) {
	var session persistence.Session
	var day, createdAt, updatedAt string

	if err := row.Scan(
		&session.ID,
		&day,
		&session.Time,
		&session.BadgeName,
		&session.Title,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Session{}, mapError(err)
	}

	var err error
	if session.Date, err = parseDate(day); err != nil {
		return persistence.Session{}, fmt.Errorf("sqlite: decode session date: %w", err)
	}
	if session.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Session{}, fmt.Errorf("sqlite: decode session created_at: %w", err)
	}
	if session.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Session{}, fmt.Errorf("sqlite: decode session updated_at: %w", err)
	}
	return session, nil
}
