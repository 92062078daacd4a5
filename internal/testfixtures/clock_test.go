package testfixtures

import (
	"testing"
	"time"
)

func TestClockZeroStartUsesReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
}

func TestClockSetAndAdvance(t *testing.T) {
	start := time.Date(2025, time.September, 1, 18, 0, 0, 0, time.UTC)
	clock := NewClock(start)

	stepped := clock.Advance(45 * time.Minute)
	if !stepped.Equal(start.Add(45 * time.Minute)) {
		t.Fatalf("Advance returned %v", stepped)
	}

	pinned := start.AddDate(0, 0, 7)
	clock.Set(pinned)
	if got := clock.Current(); !got.Equal(pinned) {
		t.Fatalf("expected %v after Set, got %v", pinned, got)
	}
}

func TestClockNowFuncTracksTheClock(t *testing.T) {
	clock := NewClock(time.Date(2025, time.September, 6, 10, 0, 0, 0, time.UTC))
	now := clock.NowFunc()

	if got := now(); !got.Equal(clock.Current()) {
		t.Fatalf("expected %v from NowFunc, got %v", clock.Current(), got)
	}

	clock.Advance(24 * time.Hour)
	if got := now(); !got.Equal(clock.Current()) {
		t.Fatalf("expected the advanced time %v, got %v", clock.Current(), got)
	}
}
