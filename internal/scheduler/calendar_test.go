package scheduler

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func collect(t *testing.T, window Window, holidays []HolidayRange, booked map[time.Time]struct{}, weekendOnly bool) []time.Time {
	t.Helper()
	var out []time.Time
	for day := range Candidates(window, holidays, booked, weekendOnly) {
		out = append(out, day)
	}
	return out
}

func TestCandidates_WeekdaysOnlyByDefault(t *testing.T) {
	t.Parallel()

	// 2025-09-01 is a Monday; the window covers one full week.
	window := Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 7)}
	got := collect(t, window, nil, nil, false)

	want := []time.Time{
		date(2025, time.September, 1),
		date(2025, time.September, 2),
		date(2025, time.September, 3),
		date(2025, time.September, 4),
		date(2025, time.September, 5),
	}
	assertDates(t, got, want)
}

func TestCandidates_WeekendOnly(t *testing.T) {
	t.Parallel()

	window := Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 7)}
	got := collect(t, window, nil, nil, true)

	want := []time.Time{
		date(2025, time.September, 6),
		date(2025, time.September, 7),
	}
	assertDates(t, got, want)
}

func TestCandidates_SkipsHolidaysAndBookedDates(t *testing.T) {
	t.Parallel()

	window := Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 5)}
	holidays := []HolidayRange{{Start: date(2025, time.September, 2), End: date(2025, time.September, 3)}}
	booked := map[time.Time]struct{}{date(2025, time.September, 5): {}}

	got := collect(t, window, holidays, booked, false)
	want := []time.Time{
		date(2025, time.September, 1),
		date(2025, time.September, 4),
	}
	assertDates(t, got, want)
}

func TestCandidates_HolidayBoundsAreInclusive(t *testing.T) {
	t.Parallel()

	window := Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 1)}
	holidays := []HolidayRange{{Start: date(2025, time.September, 1), End: date(2025, time.September, 1)}}

	if got := collect(t, window, holidays, nil, false); len(got) != 0 {
		t.Fatalf("expected single-day holiday to exclude the day, got %v", got)
	}
}

func TestCandidates_InvertedWindowIsEmpty(t *testing.T) {
	t.Parallel()

	window := Window{Start: date(2025, time.September, 10), End: date(2025, time.September, 1)}
	if got := collect(t, window, nil, nil, false); len(got) != 0 {
		t.Fatalf("expected empty sequence for inverted window, got %v", got)
	}
}

func TestCandidates_IsRestartable(t *testing.T) {
	t.Parallel()

	window := Window{Start: date(2025, time.September, 1), End: date(2025, time.September, 5)}
	seq := Candidates(window, nil, nil, false)

	first := 0
	for range seq {
		first++
	}
	second := 0
	for range seq {
		second++
	}

	if first != second || first == 0 {
		t.Fatalf("expected identical non-empty passes, got %d then %d", first, second)
	}
}

func TestCandidates_NormalizesTimestampsToDays(t *testing.T) {
	t.Parallel()

	window := Window{
		Start: time.Date(2025, time.September, 1, 18, 30, 0, 0, time.UTC),
		End:   time.Date(2025, time.September, 2, 6, 0, 0, 0, time.UTC),
	}
	got := collect(t, window, nil, nil, false)
	want := []time.Time{date(2025, time.September, 1), date(2025, time.September, 2)}
	assertDates(t, got, want)
}

func TestDefaultWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.August, 30, 14, 45, 0, 0, time.UTC)
	window := DefaultWindow(now)

	if !window.Start.Equal(date(2025, time.August, 31)) {
		t.Fatalf("window start = %v, want tomorrow", window.Start)
	}
	if !window.End.Equal(date(2025, time.September, 29)) {
		t.Fatalf("window end = %v, want thirty days out", window.End)
	}
}

func assertDates(t *testing.T, got, want []time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d dates %v, want %d dates %v", len(got), got, len(want), want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("date[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
