package application_test

import (
	"context"
	"errors"
	"github.com/example/scout-scheduler/internal/application"
	"testing"

	"github.com/example/scout-scheduler/internal/persistence"
	"github.com/example/scout-scheduler/internal/testfixtures"
)

type stubBadgeRepo struct {
	badges  map[string]persistence.Badge
	order   []string
	listErr error
}

func newStubBadgeRepo() *stubBadgeRepo {
	return &stubBadgeRepo{badges: make(map[string]persistence.Badge)}
}

func (r *stubBadgeRepo) CreateBadge(_ context.Context, badge persistence.Badge) error {
	if _, ok := r.badges[badge.Name]; ok {
		return persistence.ErrDuplicate
	}
	r.badges[badge.Name] = badge
	r.order = append(r.order, badge.Name)
	return nil
}

func (r *stubBadgeRepo) UpdateBadge(_ context.Context, badge persistence.Badge) error {
	if _, ok := r.badges[badge.Name]; !ok {
		return persistence.ErrNotFound
	}
	r.badges[badge.Name] = badge
	return nil
}

func (r *stubBadgeRepo) GetBadge(_ context.Context, name string) (persistence.Badge, error) {
	badge, ok := r.badges[name]
	if !ok {
		return persistence.Badge{}, persistence.ErrNotFound
	}
	return badge, nil
}

func (r *stubBadgeRepo) ListBadges(_ context.Context) ([]persistence.Badge, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]persistence.Badge, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.badges[name])
	}
	return out, nil
}

func (r *stubBadgeRepo) DeleteBadge(_ context.Context, name string) error {
	if _, ok := r.badges[name]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.badges, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func newBadgeServiceForTest(repo *stubBadgeRepo) *application.BadgeService {
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	return application.NewBadgeService(repo, clock.NowFunc())
}

func TestBadgeServiceCreateBadge(t *testing.T) {
	t.Parallel()

	t.Run("creates a valid badge", func(t *testing.T) {
		t.Parallel()
		repo := newStubBadgeRepo()
		svc := newBadgeServiceForTest(repo)

		badge, err := svc.CreateBadge(context.Background(), application.BadgeInput{
			Name:             "  Camping ",
			SessionsRequired: 4,
			Completion:       25,
			Status:           "In Progress",
			Requirements:     []string{"pitch a tent"},
		})
		if err != nil {
			t.Fatalf("CreateBadge failed: %v", err)
		}
		if badge.Name != "Camping" {
			t.Fatalf("expected trimmed name, got %q", badge.Name)
		}
		if badge.CreatedAt.IsZero() || !badge.CreatedAt.Equal(badge.UpdatedAt) {
			t.Fatalf("expected matching timestamps, got %v / %v", badge.CreatedAt, badge.UpdatedAt)
		}
		if _, ok := repo.badges["Camping"]; !ok {
			t.Fatal("badge was not persisted")
		}
	})

	t.Run("defaults status to Not Started", func(t *testing.T) {
		t.Parallel()
		svc := newBadgeServiceForTest(newStubBadgeRepo())

		badge, err := svc.CreateBadge(context.Background(), application.BadgeInput{Name: "First Aid", SessionsRequired: 2})
		if err != nil {
			t.Fatalf("CreateBadge failed: %v", err)
		}
		if badge.Status != "Not Started" {
			t.Fatalf("expected default status, got %q", badge.Status)
		}
		if badge.Requirements == nil {
			t.Fatal("expected non-nil requirements slice")
		}
	})

	t.Run("accumulates validation errors", func(t *testing.T) {
		t.Parallel()
		svc := newBadgeServiceForTest(newStubBadgeRepo())

		_, err := svc.CreateBadge(context.Background(), application.BadgeInput{
			Name:             "  ",
			SessionsRequired: -1,
			Completion:       150,
			Status:           "Done",
		})

		var vErr *application.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"name", "sessions_required", "completion", "status"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected a %q field error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("maps duplicate names", func(t *testing.T) {
		t.Parallel()
		svc := newBadgeServiceForTest(newStubBadgeRepo())

		input := application.BadgeInput{Name: "Camping", SessionsRequired: 4}
		if _, err := svc.CreateBadge(context.Background(), input); err != nil {
			t.Fatalf("first create failed: %v", err)
		}
		if _, err := svc.CreateBadge(context.Background(), input); !errors.Is(err, application.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestBadgeServiceUpdateBadge(t *testing.T) {
	t.Parallel()

	t.Run("applies new fields", func(t *testing.T) {
		t.Parallel()
		repo := newStubBadgeRepo()
		svc := newBadgeServiceForTest(repo)
		seed(t, svc, application.BadgeInput{Name: "Camping", SessionsRequired: 4})

		updated, err := svc.UpdateBadge(context.Background(), "Camping", application.BadgeInput{
			SessionsRequired: 6,
			Completion:       50,
			Status:           "In Progress",
			Description:      "overnight skills",
		})
		if err != nil {
			t.Fatalf("UpdateBadge failed: %v", err)
		}
		if updated.SessionsRequired != 6 || updated.Completion != 50 || updated.Status != "In Progress" {
			t.Fatalf("fields not applied: %+v", updated)
		}
	})

	t.Run("rejects a name change", func(t *testing.T) {
		t.Parallel()
		svc := newBadgeServiceForTest(newStubBadgeRepo())
		seed(t, svc, application.BadgeInput{Name: "Camping", SessionsRequired: 4})

		_, err := svc.UpdateBadge(context.Background(), "Camping", application.BadgeInput{Name: "Hiking", SessionsRequired: 4})
		var vErr *application.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["name"]; !ok {
			t.Fatalf("expected a name field error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("missing badge maps to not found", func(t *testing.T) {
		t.Parallel()
		svc := newBadgeServiceForTest(newStubBadgeRepo())

		if _, err := svc.UpdateBadge(context.Background(), "Unknown", application.BadgeInput{SessionsRequired: 1}); !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestBadgeServiceProgress(t *testing.T) {
	t.Parallel()

	t.Run("mark completed sets status and completion together", func(t *testing.T) {
		t.Parallel()
		svc := newBadgeServiceForTest(newStubBadgeRepo())
		seed(t, svc, application.BadgeInput{Name: "Camping", SessionsRequired: 4, Completion: 25, Status: "In Progress"})

		badge, err := svc.MarkCompleted(context.Background(), "Camping")
		if err != nil {
			t.Fatalf("MarkCompleted failed: %v", err)
		}
		if badge.Status != "Completed" || badge.Completion != 100 {
			t.Fatalf("expected Completed/100, got %s/%d", badge.Status, badge.Completion)
		}
	})

	t.Run("mark incomplete resets progress", func(t *testing.T) {
		t.Parallel()
		svc := newBadgeServiceForTest(newStubBadgeRepo())
		seed(t, svc, application.BadgeInput{Name: "Camping", SessionsRequired: 4, Completion: 100, Status: "Completed"})

		badge, err := svc.MarkIncomplete(context.Background(), "Camping")
		if err != nil {
			t.Fatalf("MarkIncomplete failed: %v", err)
		}
		if badge.Status != "Not Started" || badge.Completion != 0 {
			t.Fatalf("expected Not Started/0, got %s/%d", badge.Status, badge.Completion)
		}
	})

	t.Run("unknown badge maps to not found", func(t *testing.T) {
		t.Parallel()
		svc := newBadgeServiceForTest(newStubBadgeRepo())
		if _, err := svc.MarkCompleted(context.Background(), "Unknown"); !errors.Is(err, application.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestBadgeServiceListAndDelete(t *testing.T) {
	t.Parallel()

	repo := newStubBadgeRepo()
	svc := newBadgeServiceForTest(repo)
	seed(t, svc, application.BadgeInput{Name: "Camping", SessionsRequired: 4})
	seed(t, svc, application.BadgeInput{Name: "First Aid", SessionsRequired: 2})

	badges, err := svc.ListBadges(context.Background())
	if err != nil {
		t.Fatalf("ListBadges failed: %v", err)
	}
	if len(badges) != 2 || badges[0].Name != "Camping" || badges[1].Name != "First Aid" {
		t.Fatalf("expected catalogue order, got %+v", badges)
	}

	if err := svc.DeleteBadge(context.Background(), "Camping"); err != nil {
		t.Fatalf("DeleteBadge failed: %v", err)
	}
	if err := svc.DeleteBadge(context.Background(), "Camping"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestBadgeServiceChangeNotification(t *testing.T) {
	t.Parallel()

	svc := newBadgeServiceForTest(newStubBadgeRepo())
	var notified int
	svc.NotifyOnChange(func() { notified++ })

	seed(t, svc, application.BadgeInput{Name: "Camping", SessionsRequired: 4})
	if notified != 1 {
		t.Fatalf("expected one notification after create, got %d", notified)
	}

	if _, err := svc.CreateBadge(context.Background(), application.BadgeInput{Name: "  "}); err == nil {
		t.Fatal("expected a validation failure")
	}
	if notified != 1 {
		t.Fatalf("rejected input must not notify, got %d", notified)
	}

	if _, err := svc.MarkCompleted(context.Background(), "Camping"); err != nil {
		t.Fatalf("MarkCompleted failed: %v", err)
	}
	if _, err := svc.UpdateBadge(context.Background(), "Camping", application.BadgeInput{SessionsRequired: 6}); err != nil {
		t.Fatalf("UpdateBadge failed: %v", err)
	}
	if err := svc.DeleteBadge(context.Background(), "Camping"); err != nil {
		t.Fatalf("DeleteBadge failed: %v", err)
	}
	if notified != 4 {
		t.Fatalf("expected four notifications after the mutations, got %d", notified)
	}

	if _, err := svc.MarkCompleted(context.Background(), "Camping"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if notified != 4 {
		t.Fatalf("a failed mutation must not notify, got %d", notified)
	}
}

func seed(t *testing.T, svc *application.BadgeService, input application.BadgeInput) {
	t.Helper()
	if _, err := svc.CreateBadge(context.Background(), input); err != nil {
		t.Fatalf("seeding badge %q failed: %v", input.Name, err)
	}
}
