package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/scout-scheduler/internal/persistence"
	"github.com/example/scout-scheduler/internal/scheduler"
)

// SessionService orchestrates validation and persistence for the troop diary.
type SessionService struct {
	sessions    persistence.SessionRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewSessionService wires dependencies for session operations.
func NewSessionService(sessions persistence.SessionRepository, idGenerator func() string, now func() time.Time) *SessionService {
	return NewSessionServiceWithLogger(sessions, idGenerator, now, nil)
}

// NewSessionServiceWithLogger constructs a SessionService with a specified logger.
func NewSessionServiceWithLogger(sessions persistence.SessionRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *SessionService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SessionService{
		sessions:    sessions,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *SessionService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SessionService", operation, attrs...)
}

// CreateSession validates the request before delegating to persistence. At
// most one session exists per calendar date; a second booking on the same
// date surfaces as ErrAlreadyExists.
func (s *SessionService) CreateSession(ctx context.Context, input SessionInput) (Session, error) {
	if s == nil {
		return Session{}, fmt.Errorf("SessionService is nil")
	}
	if s.sessions == nil {
		return Session{}, fmt.Errorf("session repository not configured")
	}

	normalized, vErr := normalizeSessionInput(input)
	if vErr.HasErrors() {
		return Session{}, vErr
	}

	logger := s.loggerWith(ctx, "CreateSession", "date", normalized.Date.Format("2006-01-02"))

	createdAt := s.now()
	record := persistence.Session{
		ID:        s.idGenerator(),
		Date:      normalized.Date,
		Time:      normalized.Time,
		BadgeName: normalized.BadgeName,
		Title:     normalized.Title,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	if err := s.sessions.CreateSession(ctx, record); err != nil {
		mapped := mapRepoError(err)
		logger.ErrorContext(ctx, "failed to create session", "error", mapped, "error_kind", ErrorKind(mapped))
		return Session{}, mapped
	}

	logger.InfoContext(ctx, "session created", "session_id", record.ID)
	return toSession(record), nil
}

// GetSession fetches one diary entry by id.
func (s *SessionService) GetSession(ctx context.Context, id string) (Session, error) {
	if s == nil || s.sessions == nil {
		return Session{}, fmt.Errorf("session repository not configured")
	}

	record, err := s.sessions.GetSession(ctx, strings.TrimSpace(id))
	if err != nil {
		return Session{}, mapRepoError(err)
	}
	return toSession(record), nil
}

// ListSessions enumerates the diary in date order.
func (s *SessionService) ListSessions(ctx context.Context) ([]Session, error) {
	if s == nil || s.sessions == nil {
		return nil, fmt.Errorf("session repository not configured")
	}

	records, err := s.sessions.ListSessions(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	sessions := make([]Session, 0, len(records))
	for _, record := range records {
		sessions = append(sessions, toSession(record))
	}
	return sessions, nil
}

// DeleteSession removes one diary entry.
func (s *SessionService) DeleteSession(ctx context.Context, id string) error {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteSession", "session_id", id)
	if err := s.sessions.DeleteSession(ctx, strings.TrimSpace(id)); err != nil {
		mapped := mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete session", "error", mapped, "error_kind", ErrorKind(mapped))
		return mapped
	}
	logger.InfoContext(ctx, "session deleted")
	return nil
}

func normalizeSessionInput(input SessionInput) (SessionInput, *ValidationError) {
	vErr := &ValidationError{}

	if input.Date.IsZero() {
		vErr.add("date", "date is required")
	} else {
		input.Date = scheduler.Day(input.Date)
	}

	input.Time = strings.TrimSpace(input.Time)
	if input.Time == "" {
		vErr.add("time", "time is required")
	} else if _, err := time.Parse("15:04", input.Time); err != nil {
		vErr.add("time", "must be HH:MM")
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		vErr.add("title", "title is required")
	}

	input.BadgeName = strings.TrimSpace(input.BadgeName)

	return input, vErr
}

func toSession(record persistence.Session) Session {
	return Session{
		ID:        record.ID,
		Date:      record.Date,
		Time:      record.Time,
		BadgeName: record.BadgeName,
		Title:     record.Title,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
