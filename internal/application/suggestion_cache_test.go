package application_test

import (
	"fmt"
	"github.com/example/scout-scheduler/internal/application"
	"testing"
	"time"

	"github.com/example/scout-scheduler/internal/suggest"
	"github.com/example/scout-scheduler/internal/testfixtures"
)

func TestSuggestionCacheHitAndExpiry(t *testing.T) {
	t.Parallel()

	clock := testfixtures.NewClock(time.Time{})
	cache := application.NewSuggestionCache(10*time.Minute, 100, clock.NowFunc())

	cache.Store("key", "two camping nights")

	if summary, ok := cache.Get("key"); !ok || summary != "two camping nights" {
		t.Fatalf("expected cached summary, got %q ok=%v", summary, ok)
	}

	clock.Advance(10*time.Minute + time.Second)

	if _, ok := cache.Get("key"); ok {
		t.Fatal("expected entry to expire after the TTL")
	}
}

func TestSuggestionCacheCapacityEviction(t *testing.T) {
	t.Parallel()

	clock := testfixtures.NewClock(time.Time{})
	cache := application.NewSuggestionCache(time.Hour, 3, clock.NowFunc())

	for i := 0; i < 4; i++ {
		cache.Store(fmt.Sprintf("key-%d", i), "summary")
	}

	size := cache.EntryCount()
	if size > 3 {
		t.Fatalf("expected at most 3 entries after eviction, got %d", size)
	}
}

func TestSuggestionCacheInvalidate(t *testing.T) {
	t.Parallel()

	cache := application.NewSuggestionCache(time.Hour, 100, nil)
	cache.Store("key", "summary")
	cache.Invalidate()

	if _, ok := cache.Get("key"); ok {
		t.Fatal("expected invalidate to drop all entries")
	}
}

func TestBuildSuggestionCacheKeyDistinguishesNeeds(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)

	base := application.BuildSuggestionCacheKey(start, end, []suggest.BadgeNeed{{Name: "Camping", SessionsLeft: 3}})
	changed := application.BuildSuggestionCacheKey(start, end, []suggest.BadgeNeed{{Name: "Camping", SessionsLeft: 2}})
	otherWindow := application.BuildSuggestionCacheKey(start, end.AddDate(0, 0, 1), []suggest.BadgeNeed{{Name: "Camping", SessionsLeft: 3}})

	if base == changed {
		t.Fatal("differing needs must yield differing keys")
	}
	if base == otherWindow {
		t.Fatal("differing windows must yield differing keys")
	}
	if again := application.BuildSuggestionCacheKey(start, end, []suggest.BadgeNeed{{Name: "Camping", SessionsLeft: 3}}); again != base {
		t.Fatal("identical inputs must yield identical keys")
	}
}
