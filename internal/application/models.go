package application

import "time"

// Principal represents the authenticated leader invoking a service method.
type Principal struct {
	LeaderID string
	Email    string
}

// BadgeInput captures caller provided badge fields.
type BadgeInput struct {
	Name             string
	SessionsRequired int
	Completion       int
	Status           string
	Description      string
	Requirements     []string
}

// Badge represents a catalogue entry exposed by the application services.
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

// SessionInput captures caller provided session fields.
type SessionInput struct {
	Date      time.Time
	Time      string
	BadgeName string
	Title     string
}

// Session represents a booked meeting in the troop diary.
type Session struct {
	ID        string
	Date      time.Time
	Time      string
	BadgeName string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HolidayInput captures caller provided holiday fields.
type HolidayInput struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Holiday represents a named inclusive blackout range.
type Holiday struct {
	ID        string
	Name      string
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlanPreferences carries the scheduling knobs accepted from callers.
type PlanPreferences struct {
	WeekendOnly        bool
	TimeOfDay          string
	MaxSessionsPerWeek *int
	MinDaysBetween     int
}

// PlanParams wraps the data required to generate a plan.
type PlanParams struct {
	WindowStart    time.Time
	WindowEnd      time.Time
	Strategy       string
	Preferences    PlanPreferences
	IncludeSummary bool
}

// ProposedSession is one slot the planner suggests booking.
type ProposedSession struct {
	Date      time.Time
	Time      string
	BadgeName string
	Title     string
}

// Plan is the outcome of a planning run. Warnings carry degraded-input
// notices; the proposals themselves are always usable.
type Plan struct {
	WindowStart time.Time
	WindowEnd   time.Time
	Proposals   []ProposedSession
	Warnings    []string
	Summary     string
}

// CommitResult reports which proposals were booked and which were skipped.
type CommitResult struct {
	Sessions []Session
	Warnings []string
}

// Leader represents the account that owns the dashboard.
type Leader struct {
	ID          string
	Email       string
	DisplayName string
}

// AuthSession represents an issued login session for a leader.
type AuthSession struct {
	ID        string
	LeaderID  string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams captures the data required to authenticate a leader.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful login.
type AuthenticateResult struct {
	Leader  Leader
	Session AuthSession
}
