package application_test

import (
	"context"
	"errors"
	"github.com/example/scout-scheduler/internal/application"
	"testing"
	"time"

	"github.com/example/scout-scheduler/internal/persistence"
	"github.com/example/scout-scheduler/internal/testfixtures"
)

type stubSessionRepo struct {
	sessions map[string]persistence.Session
	byDate   map[time.Time]string
	order    []string
	listErr  error
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{
		sessions: make(map[string]persistence.Session),
		byDate:   make(map[time.Time]string),
	}
}

func (r *stubSessionRepo) CreateSession(_ context.Context, session persistence.Session) error {
	if _, ok := r.byDate[session.Date]; ok {
		return persistence.ErrDuplicate
	}
	r.sessions[session.ID] = session
	r.byDate[session.Date] = session.ID
	r.order = append(r.order, session.ID)
	return nil
}

func (r *stubSessionRepo) GetSession(_ context.Context, id string) (persistence.Session, error) {
	session, ok := r.sessions[id]
	if !ok {
		return persistence.Session{}, persistence.ErrNotFound
	}
	return session, nil
}

func (r *stubSessionRepo) ListSessions(_ context.Context) ([]persistence.Session, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]persistence.Session, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sessions[id])
	}
	return out, nil
}

func (r *stubSessionRepo) DeleteSession(_ context.Context, id string) error {
	session, ok := r.sessions[id]
	if !ok {
		return persistence.ErrNotFound
	}
	delete(r.sessions, id)
	delete(r.byDate, session.Date)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func newSessionServiceForTest(repo *stubSessionRepo) *application.SessionService {
	clock := testfixtures.NewClock(testfixtures.ReferenceTime())
	ids := testfixtures.NewIDGenerator("session")
	return application.NewSessionService(repo, ids.NextFunc(), clock.NowFunc())
}

func TestSessionServiceCreateSession(t *testing.T) {
	t.Parallel()

	t.Run("books a valid session", func(t *testing.T) {
		t.Parallel()
		repo := newStubSessionRepo()
		svc := newSessionServiceForTest(repo)

		session, err := svc.CreateSession(context.Background(), application.SessionInput{
			Date:      time.Date(2025, 9, 5, 17, 30, 0, 0, time.UTC),
			Time:      "18:00",
			BadgeName: "Camping",
			Title:     "Work on Camping",
		})
		if err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if session.ID == "" {
			t.Fatal("expected a generated id")
		}
		want := time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC)
		if !session.Date.Equal(want) {
			t.Fatalf("expected date normalized to midnight, got %v", session.Date)
		}
	})

	t.Run("accumulates validation errors", func(t *testing.T) {
		t.Parallel()
		svc := newSessionServiceForTest(newStubSessionRepo())

		_, err := svc.CreateSession(context.Background(), application.SessionInput{Time: "6pm"})
		var vErr *application.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"date", "time", "title"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Fatalf("expected a %q field error, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("second booking on a date maps to already exists", func(t *testing.T) {
		t.Parallel()
		svc := newSessionServiceForTest(newStubSessionRepo())

		input := application.SessionInput{
			Date:  time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
			Time:  "18:00",
			Title: "Troop night",
		}
		if _, err := svc.CreateSession(context.Background(), input); err != nil {
			t.Fatalf("first booking failed: %v", err)
		}
		input.Time = "10:00"
		if _, err := svc.CreateSession(context.Background(), input); !errors.Is(err, application.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestSessionServiceListGetDelete(t *testing.T) {
	t.Parallel()

	repo := newStubSessionRepo()
	svc := newSessionServiceForTest(repo)

	created, err := svc.CreateSession(context.Background(), application.SessionInput{
		Date:  time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
		Time:  "18:00",
		Title: "Troop night",
	})
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	fetched, err := svc.GetSession(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if fetched.Title != "Troop night" {
		t.Fatalf("unexpected session %+v", fetched)
	}

	sessions, err := svc.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions))
	}

	if err := svc.DeleteSession(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := svc.GetSession(context.Background(), created.ID); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
