package scheduler

import "math"

// CompletionState tracks how far a badge has progressed.
type CompletionState string

const (
	// StateNotStarted indicates no sessions have been run for the badge.
	StateNotStarted CompletionState = "Not Started"
	// StateInProgress indicates some sessions have been run for the badge.
	StateInProgress CompletionState = "In Progress"
	// StateCompleted indicates the badge has been fully earned.
	StateCompleted CompletionState = "Completed"
)

// Badge describes a scouting achievement as seen by the scheduling engine.
type Badge struct {
	Name             string
	SessionsRequired int
	// Completion is a percentage in [0, 100].
	Completion int
	State      CompletionState
}

// SessionsLeft estimates how many more sessions the badge needs.
//
// A completed badge always needs zero. Any other badge needs at least one:
// remaining sessions are derived from the completion percentage, rounded to
// the nearest whole session, and clamped to a minimum of one. The clamp means
// a badge at 99% completion with one required session is still scheduled one
// more session. That is intended behavior: an incomplete badge always earns
// another slot on the calendar.
func (b Badge) SessionsLeft() int {
	if b.State == StateCompleted {
		return 0
	}
	remaining := float64(100-b.Completion) / 100 * float64(b.SessionsRequired)
	left := int(math.Round(remaining))
	if left < 1 {
		return 1
	}
	return left
}
