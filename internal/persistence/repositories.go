package persistence

import (
	"context"
	"time"
)

// BadgeRepository exposes CRUD operations for the badge catalogue, keyed by
// badge name.
type BadgeRepository interface {
	CreateBadge(ctx context.Context, badge Badge) error
	UpdateBadge(ctx context.Context, badge Badge) error
	GetBadge(ctx context.Context, name string) (Badge, error)
	ListBadges(ctx context.Context) ([]Badge, error)
	DeleteBadge(ctx context.Context, name string) error
}

// SessionRepository stores booked sessions. Creation fails with ErrDuplicate
// when the date is already taken.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	ListSessions(ctx context.Context) ([]Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// HolidayRepository stores named blackout ranges.
type HolidayRepository interface {
	CreateHoliday(ctx context.Context, holiday Holiday) error
	GetHoliday(ctx context.Context, id string) (Holiday, error)
	ListHolidays(ctx context.Context) ([]Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
}

// LeaderRepository stores leader accounts and their credentials.
type LeaderRepository interface {
	UpsertLeader(ctx context.Context, leader Leader) error
	GetLeaderByEmail(ctx context.Context, email string) (Leader, error)
	GetLeader(ctx context.Context, id string) (Leader, error)
}

// AuthSessionRepository stores issued login sessions.
type AuthSessionRepository interface {
	CreateAuthSession(ctx context.Context, session AuthSession) (AuthSession, error)
	GetAuthSession(ctx context.Context, token string) (AuthSession, error)
	RevokeAuthSession(ctx context.Context, token string, revokedAt time.Time) (AuthSession, error)
	DeleteExpiredAuthSessions(ctx context.Context, reference time.Time) error
}
