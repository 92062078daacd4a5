package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/scout-scheduler/internal/application"
	"github.com/example/scout-scheduler/internal/persistence"
)

var (
	badgeCounter       uint64
	sessionCounter     uint64
	holidayCounter     uint64
	leaderCounter      uint64
	authSessionCounter uint64
)

var referenceTime = time.Date(2025, time.August, 30, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// BadgeFixture is a deterministic badge catalogue entry.
type BadgeFixture struct {
	Name             string
	SessionsRequired int
	Completion       int
	Status           string
	Requirements     []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BadgeOption configures the generated badge fixture.
type BadgeOption func(*BadgeFixture)

// NewBadgeFixture returns a deterministic badge fixture with optional overrides.
func NewBadgeFixture(opts ...BadgeOption) BadgeFixture {
	idx := atomic.AddUint64(&badgeCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := BadgeFixture{
		Name:             fmt.Sprintf("Badge %03d", idx),
		SessionsRequired: 4,
		Status:           "Not Started",
		Requirements:     []string{},
		CreatedAt:        created,
		UpdatedAt:        created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBadgeName overrides the generated badge name.
func WithBadgeName(name string) BadgeOption {
	return func(f *BadgeFixture) {
		f.Name = name
	}
}

// WithBadgeSessionsRequired sets the number of sessions the badge needs.
func WithBadgeSessionsRequired(sessions int) BadgeOption {
	return func(f *BadgeFixture) {
		f.SessionsRequired = sessions
	}
}

// WithBadgeProgress sets the completion percentage and status together.
func WithBadgeProgress(completion int, status string) BadgeOption {
	return func(f *BadgeFixture) {
		f.Completion = completion
		f.Status = status
	}
}

// WithBadgeCompleted marks the fixture as fully earned.
func WithBadgeCompleted() BadgeOption {
	return func(f *BadgeFixture) {
		f.Completion = 100
		f.Status = "Completed"
	}
}

// Persistence returns the fixture as a persistence.Badge record.
func (f BadgeFixture) Persistence() persistence.Badge {
	return persistence.Badge{
		Name:             f.Name,
		SessionsRequired: f.SessionsRequired,
		Completion:       f.Completion,
		Status:           f.Status,
		Requirements:     append([]string(nil), f.Requirements...),
		CreatedAt:        f.CreatedAt,
		UpdatedAt:        f.UpdatedAt,
	}
}

// SessionFixture is a deterministic troop diary entry. Generated sessions land
// on consecutive days so callers get unique dates by default.
type SessionFixture struct {
	ID        string
	Date      time.Time
	Time      string
	BadgeName string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture with optional overrides.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	day := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(idx-1))
	fixture := SessionFixture{
		ID:        fmt.Sprintf("session-%03d", idx),
		Date:      day,
		Time:      "18:00",
		Title:     "Troop night",
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionID overrides the session ID.
func WithSessionID(id string) SessionOption {
	return func(f *SessionFixture) {
		f.ID = id
	}
}

// WithSessionDate sets the calendar date.
func WithSessionDate(date time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.Date = date
	}
}

// Persistence returns the fixture as a persistence.Session record.
func (f SessionFixture) Persistence() persistence.Session {
	return persistence.Session{
		ID:        f.ID,
		Date:      f.Date,
		Time:      f.Time,
		BadgeName: f.BadgeName,
		Title:     f.Title,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// HolidayFixture is a deterministic blackout range. Generated holidays are
// non-overlapping week-long ranges.
type HolidayFixture struct {
	ID        string
	Name      string
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HolidayOption configures the generated holiday fixture.
type HolidayOption func(*HolidayFixture)

// NewHolidayFixture returns a deterministic holiday fixture with optional overrides.
func NewHolidayFixture(opts ...HolidayOption) HolidayFixture {
	idx := atomic.AddUint64(&holidayCounter, 1)
	start := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(idx-1)*14)
	fixture := HolidayFixture{
		ID:        fmt.Sprintf("holiday-%03d", idx),
		Name:      fmt.Sprintf("Holiday %03d", idx),
		Start:     start,
		End:       start.AddDate(0, 0, 6),
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithHolidayName sets the display name.
func WithHolidayName(name string) HolidayOption {
	return func(f *HolidayFixture) {
		f.Name = name
	}
}

// WithHolidayRange sets the inclusive start and end dates.
func WithHolidayRange(start, end time.Time) HolidayOption {
	return func(f *HolidayFixture) {
		f.Start = start
		f.End = end
	}
}

// Persistence returns the fixture as a persistence.Holiday record.
func (f HolidayFixture) Persistence() persistence.Holiday {
	return persistence.Holiday{
		ID:        f.ID,
		Name:      f.Name,
		Start:     f.Start,
		End:       f.End,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// LeaderFixture is a deterministic leader account.
type LeaderFixture struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LeaderOption configures the generated leader fixture.
type LeaderOption func(*LeaderFixture)

// NewLeaderFixture returns a deterministic leader fixture with optional overrides.
func NewLeaderFixture(opts ...LeaderOption) LeaderFixture {
	idx := atomic.AddUint64(&leaderCounter, 1)
	id := fmt.Sprintf("leader-%03d", idx)
	fixture := LeaderFixture{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.org", id),
		DisplayName:  fmt.Sprintf("Leader %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    referenceTime,
		UpdatedAt:    referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithLeaderID overrides the generated leader ID.
func WithLeaderID(id string) LeaderOption {
	return func(f *LeaderFixture) {
		f.ID = id
	}
}

// WithLeaderEmail overrides the generated email address.
func WithLeaderEmail(email string) LeaderOption {
	return func(f *LeaderFixture) {
		f.Email = email
	}
}

// WithLeaderDisplayName overrides the generated display name.
func WithLeaderDisplayName(name string) LeaderOption {
	return func(f *LeaderFixture) {
		f.DisplayName = name
	}
}

// WithLeaderPasswordHash overrides the generated password hash.
func WithLeaderPasswordHash(hash string) LeaderOption {
	return func(f *LeaderFixture) {
		f.PasswordHash = hash
	}
}

// Application returns the fixture as an application.Leader value.
func (f LeaderFixture) Application() application.Leader {
	return application.Leader{
		ID:          f.ID,
		Email:       f.Email,
		DisplayName: f.DisplayName,
	}
}

// Persistence returns the fixture as a persistence.Leader record.
func (f LeaderFixture) Persistence() persistence.Leader {
	return persistence.Leader{
		ID:           f.ID,
		Email:        f.Email,
		DisplayName:  f.DisplayName,
		PasswordHash: f.PasswordHash,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// AuthSessionFixture is a deterministic login session.
type AuthSessionFixture struct {
	ID        string
	LeaderID  string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthSessionOption configures the generated auth session fixture.
type AuthSessionOption func(*AuthSessionFixture)

// NewAuthSessionFixture returns a deterministic auth session fixture with
// optional overrides.
func NewAuthSessionFixture(opts ...AuthSessionOption) AuthSessionFixture {
	idx := atomic.AddUint64(&authSessionCounter, 1)
	fixture := AuthSessionFixture{
		ID:        fmt.Sprintf("auth-session-%03d", idx),
		LeaderID:  fmt.Sprintf("leader-%03d", idx),
		Token:     fmt.Sprintf("token-%03d", idx),
		ExpiresAt: referenceTime.Add(24 * time.Hour),
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithAuthSessionToken overrides the token value.
func WithAuthSessionToken(token string) AuthSessionOption {
	return func(f *AuthSessionFixture) {
		f.Token = token
	}
}

// WithAuthSessionExpiresAt sets the expiration timestamp.
func WithAuthSessionExpiresAt(t time.Time) AuthSessionOption {
	return func(f *AuthSessionFixture) {
		f.ExpiresAt = t
	}
}

// Application returns the fixture as an application.AuthSession value.
func (f AuthSessionFixture) Application() application.AuthSession {
	return application.AuthSession{
		ID:        f.ID,
		LeaderID:  f.LeaderID,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}
