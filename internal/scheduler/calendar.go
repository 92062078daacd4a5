package scheduler

import (
	"iter"
	"time"
)

// HolidayRange is an inclusive blackout interval during which no sessions may
// be scheduled.
type HolidayRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether day falls inside the range. Both bounds are
// inclusive and compared at day granularity.
func (r HolidayRange) Contains(day time.Time) bool {
	day = Day(day)
	return !day.Before(Day(r.Start)) && !day.After(Day(r.End))
}

// Window bounds the inclusive date range searched for candidate dates.
type Window struct {
	Start time.Time
	End   time.Time
}

// DefaultWindow returns the search window used when the caller supplies none:
// the day after the reference date through thirty days after it.
func DefaultWindow(now time.Time) Window {
	today := Day(now)
	return Window{
		Start: today.AddDate(0, 0, 1),
		End:   today.AddDate(0, 0, 30),
	}
}

// Day truncates a timestamp to its calendar date, normalized to UTC midnight.
// All date comparisons inside the engine happen on Day-normalized values.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Candidates produces the ascending sequence of dates eligible for session
// assignment within the window. A candidate is a weekday (or a weekend day
// when weekendOnly is set), falls outside every holiday range, and is not
// already booked. The sequence is lazy and can be ranged over more than once;
// a window whose start is after its end yields nothing.
func Candidates(window Window, holidays []HolidayRange, booked map[time.Time]struct{}, weekendOnly bool) iter.Seq[time.Time] {
	start := Day(window.Start)
	end := Day(window.End)

	return func(yield func(time.Time) bool) {
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			if isWeekend(day) != weekendOnly {
				continue
			}
			if inHoliday(holidays, day) {
				continue
			}
			if _, taken := booked[day]; taken {
				continue
			}
			if !yield(day) {
				return
			}
		}
	}
}

func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func inHoliday(holidays []HolidayRange, day time.Time) bool {
	for _, r := range holidays {
		if r.Contains(day) {
			return true
		}
	}
	return false
}

func dateSet(dates []time.Time) map[time.Time]struct{} {
	set := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		set[Day(d)] = struct{}{}
	}
	return set
}
