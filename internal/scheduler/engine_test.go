package scheduler

import (
	"errors"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

// Scenario: one badge needing two sessions across a Monday-to-Sunday window
// lands on the first two weekdays.
func TestSchedule_GreedyFillsFirstWeekdays(t *testing.T) {
	t.Parallel()

	got, err := Schedule(Request{
		Badges: []Badge{{Name: "A", SessionsRequired: 2, State: StateNotStarted}},
		Window: Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 7)},
	})
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 assignments, got %d: %v", len(got), got)
	}
	if !got[0].Date.Equal(date(2025, time.September, 1)) || !got[1].Date.Equal(date(2025, time.September, 2)) {
		t.Fatalf("expected Mon and Tue assignments, got %v and %v", got[0].Date, got[1].Date)
	}
	for _, a := range got {
		if a.BadgeName != "A" {
			t.Fatalf("expected badge A, got %q", a.BadgeName)
		}
		if a.Title != "Work on A" {
			t.Fatalf("unexpected title %q", a.Title)
		}
		if a.Time != "18:00" {
			t.Fatalf("expected default session time, got %q", a.Time)
		}
	}
}

// Scenario: a holiday on the first weekday pushes both sessions later.
func TestSchedule_GreedySkipsHoliday(t *testing.T) {
	t.Parallel()

	got, err := Schedule(Request{
		Badges:   []Badge{{Name: "A", SessionsRequired: 2, State: StateNotStarted}},
		Holidays: []HolidayRange{{Start: date(2025, time.September, 1), End: date(2025, time.September, 1)}},
		Window:   Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 7)},
	})
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(got))
	}
	if !got[0].Date.Equal(date(2025, time.September, 2)) || !got[1].Date.Equal(date(2025, time.September, 3)) {
		t.Fatalf("expected Tue and Wed, got %v and %v", got[0].Date, got[1].Date)
	}
}

// Scenario: a completed badge never appears in the output.
func TestSchedule_CompletedBadgeIsNeverScheduled(t *testing.T) {
	t.Parallel()

	for _, strategy := range []Strategy{StrategyGreedyNeeds, StrategyOnePerBadge} {
		got, err := Schedule(Request{
			Badges:   []Badge{{Name: "A", SessionsRequired: 1, Completion: 100, State: StateCompleted}},
			Window:   Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 30)},
			Strategy: strategy,
		})
		if err != nil {
			t.Fatalf("Schedule(%s) error = %v", strategy, err)
		}
		if len(got) != 0 {
			t.Fatalf("Schedule(%s) scheduled a completed badge: %v", strategy, got)
		}
	}
}

// Scenario: the weekly cap limits each ISO week bucket and the needier badge
// wins contested dates.
func TestSchedule_GreedyHonorsWeeklyCapAndNeedOrder(t *testing.T) {
	t.Parallel()

	// Thu 2025-09-04 and Fri 2025-09-05 sit in ISO week 36, Mon 2025-09-08
	// and Tue 2025-09-09 in week 37. Everything else is blacked out.
	got, err := Schedule(Request{
		Badges: []Badge{
			{Name: "A", SessionsRequired: 3, State: StateNotStarted},
			{Name: "B", SessionsRequired: 1, State: StateNotStarted},
		},
		Holidays: []HolidayRange{
			{Start: date(2025, time.September, 1), End: date(2025, time.September, 3)},
			{Start: date(2025, time.September, 10), End: date(2025, time.September, 12)},
		},
		Preferences: Preferences{MaxSessionsPerWeek: intPtr(2)},
		Window:      Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 12)},
	})
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	if len(got) != 4 {
		t.Fatalf("expected 4 assignments, got %d: %v", len(got), got)
	}

	perWeek := make(map[weekKey]int)
	for _, a := range got {
		perWeek[isoWeekOf(a.Date)]++
	}
	for week, count := range perWeek {
		if count > 2 {
			t.Fatalf("week %v holds %d assignments, cap is 2", week, count)
		}
	}

	// A has three left against B's one, so A takes the first two dates, then
	// the tie at one-left each resolves in catalogue order: A before B.
	wantBadges := []string{"A", "A", "A", "B"}
	for i, a := range got {
		if a.BadgeName != wantBadges[i] {
			t.Fatalf("assignment %d went to %q, want %q (full: %v)", i, a.BadgeName, wantBadges[i], got)
		}
	}
}

// Scenario: exhausting the window yields a partial result, not an error.
func TestSchedule_GreedyReturnsPartialResultWhenWindowExhausted(t *testing.T) {
	t.Parallel()

	got, err := Schedule(Request{
		Badges: []Badge{
			{Name: "A", SessionsRequired: 1, State: StateNotStarted},
			{Name: "B", SessionsRequired: 1, State: StateNotStarted},
		},
		// Single candidate date.
		Window: Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 1)},
	})
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 assignment from a 1-day window, got %d", len(got))
	}
}

func TestSchedule_GreedyNeverCollidesWithExistingSessions(t *testing.T) {
	t.Parallel()

	existing := []time.Time{
		date(2025, time.September, 1),
		date(2025, time.September, 3),
	}
	got, err := Schedule(Request{
		Badges:        []Badge{{Name: "A", SessionsRequired: 3, State: StateNotStarted}},
		ExistingDates: existing,
		Window:        Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 7)},
	})
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	seen := make(map[time.Time]struct{}, len(existing))
	for _, d := range existing {
		seen[d] = struct{}{}
	}
	for _, a := range got {
		if _, clash := seen[a.Date]; clash {
			t.Fatalf("assignment on %v collides with an existing or earlier session", a.Date)
		}
		seen[a.Date] = struct{}{}
	}
}

func TestSchedule_GreedyRespectsMinDaysBetween(t *testing.T) {
	t.Parallel()

	got, err := Schedule(Request{
		Badges:      []Badge{{Name: "A", SessionsRequired: 3, State: StateNotStarted}},
		Preferences: Preferences{MinDaysBetween: 2},
		Window:      Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 12)},
	})
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		gap := got[i].Date.Sub(got[i-1].Date)
		if gap < 48*time.Hour {
			t.Fatalf("assignments %v and %v closer than two days", got[i-1].Date, got[i].Date)
		}
	}
}

func TestSchedule_GreedyWeekendOnly(t *testing.T) {
	t.Parallel()

	got, err := Schedule(Request{
		Badges:      []Badge{{Name: "A", SessionsRequired: 2, State: StateNotStarted}},
		Preferences: Preferences{WeekendOnly: true, TimeOfDay: TimeMorning},
		Window:      Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 14)},
	})
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(got))
	}
	for _, a := range got {
		if wd := a.Date.Weekday(); wd != time.Saturday && wd != time.Sunday {
			t.Fatalf("weekend-only run scheduled %v on a %v", a.Date, wd)
		}
		if a.Time != "10:00" {
			t.Fatalf("morning preference produced time %q", a.Time)
		}
	}
}

// Termination: needs far exceeding the window still return promptly.
func TestSchedule_GreedyTerminatesWhenNeedsExceedWindow(t *testing.T) {
	t.Parallel()

	got, err := Schedule(Request{
		Badges: []Badge{{Name: "A", SessionsRequired: 500, State: StateNotStarted}},
		Window: Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 7)},
	})
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected the window's 5 weekdays, got %d assignments", len(got))
	}
}

func TestSchedule_RejectsContractViolations(t *testing.T) {
	t.Parallel()

	t.Run("negative sessions required", func(t *testing.T) {
		t.Parallel()
		_, err := Schedule(Request{
			Badges: []Badge{{Name: "A", SessionsRequired: -1}},
			Window: Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 7)},
		})
		if !errors.Is(err, ErrNegativeSessionsRequired) {
			t.Fatalf("expected ErrNegativeSessionsRequired, got %v", err)
		}
	})

	t.Run("non-positive weekly cap", func(t *testing.T) {
		t.Parallel()
		_, err := Schedule(Request{
			Badges:      []Badge{{Name: "A", SessionsRequired: 1}},
			Preferences: Preferences{MaxSessionsPerWeek: intPtr(0)},
			Window:      Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 7)},
		})
		if !errors.Is(err, ErrInvalidWeeklyCap) {
			t.Fatalf("expected ErrInvalidWeeklyCap, got %v", err)
		}
	})

	t.Run("unknown strategy", func(t *testing.T) {
		t.Parallel()
		_, err := Schedule(Request{
			Badges:   []Badge{{Name: "A", SessionsRequired: 1}},
			Window:   Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 7)},
			Strategy: "round-robin",
		})
		if !errors.Is(err, ErrUnknownStrategy) {
			t.Fatalf("expected ErrUnknownStrategy, got %v", err)
		}
	})
}

func TestSchedule_OnePerBadgeAssignsExactlyOneEach(t *testing.T) {
	t.Parallel()

	got, err := Schedule(Request{
		Badges: []Badge{
			{Name: "A", SessionsRequired: 5, State: StateNotStarted},
			{Name: "B", SessionsRequired: 1, State: StateInProgress, Completion: 50},
			{Name: "C", SessionsRequired: 2, State: StateCompleted, Completion: 100},
			{Name: "D", SessionsRequired: 3, State: StateNotStarted},
		},
		Window:   Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 30)},
		Strategy: StrategyOnePerBadge,
	})
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	// One session per incomplete badge regardless of sessions left, in
	// catalogue order on consecutive days.
	wantBadges := []string{"A", "B", "D"}
	if len(got) != len(wantBadges) {
		t.Fatalf("expected %d assignments, got %d: %v", len(wantBadges), len(got), got)
	}
	for i, a := range got {
		if a.BadgeName != wantBadges[i] {
			t.Fatalf("assignment %d went to %q, want %q", i, a.BadgeName, wantBadges[i])
		}
		if !a.Date.Equal(date(2025, time.September, 1+i)) {
			t.Fatalf("assignment %d on %v, want consecutive days from the window start", i, a.Date)
		}
		if a.Time != "18:00" {
			t.Fatalf("naive mode must use the fixed default time, got %q", a.Time)
		}
	}
}

func TestSchedule_OnePerBadgeSkipsHolidaysAndBookedDays(t *testing.T) {
	t.Parallel()

	got, err := Schedule(Request{
		Badges: []Badge{
			{Name: "A", SessionsRequired: 1, State: StateNotStarted},
			{Name: "B", SessionsRequired: 1, State: StateNotStarted},
		},
		ExistingDates: []time.Time{date(2025, time.September, 1)},
		Holidays:      []HolidayRange{{Start: date(2025, time.September, 2), End: date(2025, time.September, 3)}},
		Window:        Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 30)},
		Strategy:      StrategyOnePerBadge,
	})
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(got))
	}
	if !got[0].Date.Equal(date(2025, time.September, 4)) || !got[1].Date.Equal(date(2025, time.September, 5)) {
		t.Fatalf("expected Sep 4 and Sep 5, got %v and %v", got[0].Date, got[1].Date)
	}
}

// The two strategies are intentionally different plans for the same input.
func TestSchedule_StrategiesDiverge(t *testing.T) {
	t.Parallel()

	req := Request{
		Badges: []Badge{{Name: "A", SessionsRequired: 3, State: StateNotStarted}},
		Window: Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 14)},
	}

	req.Strategy = StrategyGreedyNeeds
	greedy, err := Schedule(req)
	if err != nil {
		t.Fatalf("greedy Schedule() error = %v", err)
	}

	req.Strategy = StrategyOnePerBadge
	naive, err := Schedule(req)
	if err != nil {
		t.Fatalf("naive Schedule() error = %v", err)
	}

	if len(greedy) != 3 || len(naive) != 1 {
		t.Fatalf("expected 3 greedy vs 1 naive assignments, got %d vs %d", len(greedy), len(naive))
	}
}

func TestSchedule_OutputSortedAndUnique(t *testing.T) {
	t.Parallel()

	got, err := Schedule(Request{
		Badges: []Badge{
			{Name: "A", SessionsRequired: 4, State: StateNotStarted},
			{Name: "B", SessionsRequired: 3, State: StateNotStarted},
		},
		Window: Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 14)},
	})
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}

	seen := make(map[time.Time]struct{})
	for i, a := range got {
		if i > 0 && !got[i-1].Date.Before(a.Date) {
			t.Fatalf("assignments not ascending at index %d: %v then %v", i, got[i-1].Date, a.Date)
		}
		if _, dup := seen[a.Date]; dup {
			t.Fatalf("duplicate assignment date %v", a.Date)
		}
		seen[a.Date] = struct{}{}
	}
}
