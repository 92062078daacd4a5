package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/scout-scheduler/internal/persistence"
)

// LeaderRepository implements persistence.LeaderRepository on the shared Store.
type LeaderRepository struct {
	store *Store
}

// NewLeaderRepository wires a leader repository to the store.
func NewLeaderRepository(store *Store) *LeaderRepository {
	return &LeaderRepository{store: store}
}

// UpsertLeader inserts the leader account or refreshes its credentials when
// the email already exists. Startup uses this to bootstrap from configuration.
func (r *LeaderRepository) UpsertLeader(ctx context.Context, leader persistence.Leader) error {
	if leader.ID == "" || leader.Email == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if leader.CreatedAt.IsZero() {
		leader.CreatedAt = now
	}
	leader.UpdatedAt = now

	const query = `
		INSERT INTO leaders (id, email, display_name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			display_name = excluded.display_name,
			password_hash = excluded.password_hash,
			updated_at = excluded.updated_at
	`
	_, err := r.store.db.ExecContext(ctx, query,
		leader.ID,
		strings.ToLower(leader.Email),
		leader.DisplayName,
		leader.PasswordHash,
		formatTimestamp(leader.CreatedAt),
		formatTimestamp(leader.UpdatedAt),
	)
	return mapError(err)
}

// GetLeaderByEmail fetches a leader account by email, case-insensitively.
func (r *LeaderRepository) GetLeaderByEmail(ctx context.Context, email string) (persistence.Leader, error) {
	const query = `
		SELECT id, email, display_name, password_hash, created_at, updated_at
		FROM leaders WHERE email = ?
	`
	return scanLeader(r.store.db.QueryRowContext(ctx, query, strings.ToLower(email)))
}

// GetLeader fetches a leader account by id.
func (r *LeaderRepository) GetLeader(ctx context.Context, id string) (persistence.Leader, error) {
	const query = `
		SELECT id, email, display_name, password_hash, created_at, updated_at
		FROM leaders WHERE id = ?
	`
	return scanLeader(r.store.db.QueryRowContext(ctx, query, id))
}

func scanLeader(row rowScanner) (persistence.Leader, error) {
	var leader persistence.Leader
	var createdAt, updatedAt string

	if err := row.Scan(
		&leader.ID,
		&leader.Email,
		&leader.DisplayName,
		&leader.PasswordHash,
		&createdAt,
		&updatedAt,
	); err != nil {
		return persistence.Leader{}, mapError(err)
	}

	var err error
	if leader.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Leader{}, fmt.Errorf("sqlite: decode leader created_at: %w", err)
	}
	if leader.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Leader{}, fmt.Errorf("sqlite: decode leader updated_at: %w", err)
	}
	return leader, nil
}

// AuthSessionRepository implements persistence.AuthSessionRepository on the
// shared Store.
type AuthSessionRepository struct {
	store *Store
}

// NewAuthSessionRepository wires an auth session repository to the store.
func NewAuthSessionRepository(store *Store) *AuthSessionRepository {
	return &AuthSessionRepository{store: store}
}

// CreateAuthSession stores a freshly issued login session.
func (r *AuthSessionRepository) CreateAuthSession(ctx context.Context, session persistence.AuthSession) (persistence.AuthSession, error) {
	if session.ID == "" || session.Token == "" {
		return persistence.AuthSession{}, persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = now
	}

	const query = `
		INSERT INTO auth_sessions (id, leader_id, token, expires_at, created_at, updated_at, revoked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.store.db.ExecContext(ctx, query,
		session.ID,
		session.LeaderID,
		session.Token,
		formatTimestamp(session.ExpiresAt),
		formatTimestamp(session.CreatedAt),
		formatTimestamp(session.UpdatedAt),
		nullableTimestamp(session.RevokedAt),
	)
	if err != nil {
		return persistence.AuthSession{}, mapError(err)
	}
	return session, nil
}

// GetAuthSession fetches a login session by its token.
func (r *AuthSessionRepository) GetAuthSession(ctx context.Context, token string) (persistence.AuthSession, error) {
	const query = `
		SELECT id, leader_id, token, expires_at, created_at, updated_at, revoked_at
		FROM auth_sessions WHERE token = ?
	`
	return scanAuthSession(r.store.db.QueryRowContext(ctx, query, token))
}

// RevokeAuthSession marks a login session as revoked and returns the updated
// record. The update and the read-back run in one transaction so the caller
// never observes a half-revoked session.
func (r *AuthSessionRepository) RevokeAuthSession(ctx context.Context, token string, revokedAt time.Time) (persistence.AuthSession, error) {
	var revoked persistence.AuthSession
	err := r.store.WithTransaction(ctx, func(tx *sql.Tx) error {
		const query = `
			UPDATE auth_sessions SET revoked_at = ?, updated_at = ? WHERE token = ?
		`
		result, err := tx.ExecContext(ctx, query,
			formatTimestamp(revokedAt),
			formatTimestamp(time.Now().UTC()),
			token,
		)
		if err != nil {
			return mapError(err)
		}
		if err := ensureRowAffected(result); err != nil {
			return err
		}

		const lookup = `
			SELECT id, leader_id, token, expires_at, created_at, updated_at, revoked_at
			FROM auth_sessions WHERE token = ?
		`
		revoked, err = scanAuthSession(tx.QueryRowContext(ctx, lookup, token))
		return err
	})
	if err != nil {
		return persistence.AuthSession{}, err
	}
	return revoked, nil
}

// DeleteExpiredAuthSessions removes login sessions that expired at or before
// the reference time.
func (r *AuthSessionRepository) DeleteExpiredAuthSessions(ctx context.Context, reference time.Time) error {
	_, err := r.store.db.ExecContext(ctx,
		`DELETE FROM auth_sessions WHERE expires_at <= ?`,
		formatTimestamp(reference),
	)
	return mapError(err)
}

func scanAuthSession(row rowScanner) (persistence.AuthSession, error) {
	var session persistence.AuthSession
	var expiresAt, createdAt, updatedAt string
	var revokedAt sql.NullString

	if err := row.Scan(
		&session.ID,
		&session.LeaderID,
		&session.Token,
		&expiresAt,
		&createdAt,
		&updatedAt,
		&revokedAt,
	); err != nil {
		return persistence.AuthSession{}, mapError(err)
	}

	var err error
	if session.ExpiresAt, err = parseTimestamp(expiresAt); err != nil {
		return persistence.AuthSession{}, fmt.Errorf("sqlite: decode auth session expires_at: %w", err)
	}
	if session.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.AuthSession{}, fmt.Errorf("sqlite: decode auth session created_at: %w", err)
	}
	if session.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.AuthSession{}, fmt.Errorf("sqlite: decode auth session updated_at: %w", err)
	}
	if revokedAt.Valid {
		ts, err := parseTimestamp(revokedAt.String)
		if err != nil {
			return persistence.AuthSession{}, fmt.Errorf("sqlite: decode auth session revoked_at: %w", err)
		}
		session.RevokedAt = &ts
	}
	return session, nil
}

func nullableTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTimestamp(*t)
}
