package persistence

import "time"

// Badge is the single typed shape for a catalogue entry. Historical stores
// kept several ad hoc JSON shapes for badges; everything is migrated into
// this one on the way in.
type Badge struct {
	Name             string
	SessionsRequired int
	Completion       int
	Status           string
	Description      string
	Requirements     []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Session is a booked meeting occurrence tied to a calendar date. At most one
// session exists per date.
type Session struct {
	ID        string
	Date      time.Time
	Time      string
	BadgeName string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Holiday is a named inclusive blackout range.
type Holiday struct {
	ID        string
	Name      string
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Leader is the account that owns the dashboard.
type Leader struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthSession is an issued login session for a leader.
type AuthSession struct {
	ID        string
	LeaderID  string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
