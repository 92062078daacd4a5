package scheduler

import (
	"errors"
	"fmt"
	"time"
)

// TimeOfDay expresses when in the day proposed sessions should run.
type TimeOfDay string

const (
	// TimeAny leaves the choice to the scheduler's evening default.
	TimeAny TimeOfDay = "any"
	// TimeMorning schedules sessions in the morning.
	TimeMorning TimeOfDay = "morning"
	// TimeAfternoon schedules sessions in the afternoon.
	TimeAfternoon TimeOfDay = "afternoon"
)

// defaultSessionTime is the fixed wall-clock time inherited from the troop's
// regular meeting slot.
const defaultSessionTime = "18:00"

// Clock returns the wall-clock time assigned to sessions for the preference.
func (t TimeOfDay) Clock() string {
	switch t {
	case TimeMorning:
		return "10:00"
	case TimeAfternoon:
		return "14:00"
	default:
		return defaultSessionTime
	}
}

// Strategy selects which assignment algorithm a scheduling run uses.
type Strategy string

const (
	// StrategyGreedyNeeds assigns every remaining session of every badge,
	// preferring the badge with the most sessions left on each candidate date.
	StrategyGreedyNeeds Strategy = "greedy-needs-based"
	// StrategyOnePerBadge assigns exactly one session per incomplete badge in
	// catalogue order, walking forward from the window start one day at a
	// time. It ignores weekly caps, day-of-week preferences and the
	// sessions-left count, matching the simpler planner the troop used before
	// needs-based scheduling existed. The two strategies intentionally
	// produce different output for the same input.
	StrategyOnePerBadge Strategy = "one-per-badge"
)

// Preferences tune a single scheduling run. The zero value schedules on
// weekdays at the default evening time with no cap and no spacing.
type Preferences struct {
	WeekendOnly bool
	TimeOfDay   TimeOfDay
	// MaxSessionsPerWeek caps assignments per ISO week when non-nil.
	MaxSessionsPerWeek *int
	// MinDaysBetween is the minimum gap in days between consecutive
	// assignments produced by the run. Zero or negative means no spacing.
	MinDaysBetween int
}

// Request carries every input of one scheduling run. The engine never
// mutates the request and performs no I/O.
type Request struct {
	Badges        []Badge
	ExistingDates []time.Time
	Holidays      []HolidayRange
	Preferences   Preferences
	Window        Window
	Strategy      Strategy
}

// Assignment proposes one session for a badge on a specific date.
type Assignment struct {
	Date      time.Time
	Time      string
	BadgeName string
	Title     string
}

var (
	// ErrInvalidWeeklyCap indicates a configured weekly cap that is zero or
	// negative.
	ErrInvalidWeeklyCap = errors.New("scheduler: max sessions per week must be positive")
	// ErrNegativeSessionsRequired indicates a badge with a negative required
	// session count.
	ErrNegativeSessionsRequired = errors.New("scheduler: sessions required must not be negative")
	// ErrUnknownStrategy indicates an unrecognized assignment strategy.
	ErrUnknownStrategy = errors.New("scheduler: unknown assignment strategy")
)

// Schedule runs the selected assignment strategy over the request and returns
// the ordered list of proposed sessions.
//
// Exhausting the window before every need is met is not an error: the engine
// returns the partial list and the caller decides whether to widen the
// window. Only contract violations on the inputs fail the run.
func Schedule(req Request) ([]Assignment, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	switch req.Strategy {
	case StrategyGreedyNeeds, "":
		return scheduleGreedy(req), nil
	case StrategyOnePerBadge:
		return scheduleOnePerBadge(req), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, req.Strategy)
	}
}

func validate(req Request) error {
	for _, badge := range req.Badges {
		if badge.SessionsRequired < 0 {
			return fmt.Errorf("%w: badge %q", ErrNegativeSessionsRequired, badge.Name)
		}
	}
	if cap := req.Preferences.MaxSessionsPerWeek; cap != nil && *cap <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWeeklyCap, *cap)
	}
	return nil
}

// weekKey identifies an ISO week bucket for weekly-cap accounting.
type weekKey struct {
	year int
	week int
}

func isoWeekOf(day time.Time) weekKey {
	year, week := day.ISOWeek()
	return weekKey{year: year, week: week}
}

// scheduleGreedy walks candidate dates in ascending order and, on each date
// that survives the weekly cap and spacing checks, assigns a session to the
// badge with the most sessions left. Ties keep catalogue order so output is
// deterministic. The walk stops as soon as every badge is satisfied.
func scheduleGreedy(req Request) []Assignment {
	left := make([]int, len(req.Badges))
	total := 0
	for i, badge := range req.Badges {
		left[i] = badge.SessionsLeft()
		total += left[i]
	}
	if total == 0 {
		return nil
	}

	booked := dateSet(req.ExistingDates)
	perWeek := make(map[weekKey]int)
	sessionTime := req.Preferences.TimeOfDay.Clock()

	var assignments []Assignment
	var lastAssigned time.Time

	for day := range Candidates(req.Window, req.Holidays, booked, req.Preferences.WeekendOnly) {
		if cap := req.Preferences.MaxSessionsPerWeek; cap != nil {
			if perWeek[isoWeekOf(day)] >= *cap {
				continue
			}
		}
		if gap := req.Preferences.MinDaysBetween; gap > 0 && !lastAssigned.IsZero() {
			if day.Sub(lastAssigned) < time.Duration(gap)*24*time.Hour {
				continue
			}
		}

		pick := -1
		for i := range req.Badges {
			if left[i] <= 0 {
				continue
			}
			if pick == -1 || left[i] > left[pick] {
				pick = i
			}
		}

		assignments = append(assignments, Assignment{
			Date:      day,
			Time:      sessionTime,
			BadgeName: req.Badges[pick].Name,
			Title:     sessionTitle(req.Badges[pick].Name),
		})
		left[pick]--
		total--
		perWeek[isoWeekOf(day)]++
		lastAssigned = day

		if total == 0 {
			break
		}
	}

	return assignments
}

// scheduleOnePerBadge books the first free day at or after the window start
// for each incomplete badge in catalogue order. Days already holding a
// session, whether pre-existing or assigned earlier in the same run, are
// skipped, as are holidays. Sessions always land on the default evening slot.
func scheduleOnePerBadge(req Request) []Assignment {
	booked := dateSet(req.ExistingDates)
	day := Day(req.Window.Start)
	end := Day(req.Window.End)

	var assignments []Assignment
	for _, badge := range req.Badges {
		if badge.State == StateCompleted {
			continue
		}

		for !day.After(end) {
			_, taken := booked[day]
			if !taken && !inHoliday(req.Holidays, day) {
				break
			}
			day = day.AddDate(0, 0, 1)
		}
		if day.After(end) {
			break
		}

		assignments = append(assignments, Assignment{
			Date:      day,
			Time:      defaultSessionTime,
			BadgeName: badge.Name,
			Title:     sessionTitle(badge.Name),
		})
		booked[day] = struct{}{}
		day = day.AddDate(0, 0, 1)
	}

	return assignments
}

func sessionTitle(badgeName string) string {
	return fmt.Sprintf("Work on %s", badgeName)
}
