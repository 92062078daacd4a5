package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/scout-scheduler/internal/persistence"
)

var badgeStatuses = map[string]struct{}{
	"Not Started": {},
	"In Progress": {},
	"Completed":   {},
}

// BadgeService orchestrates validation and persistence for the badge catalogue.
type BadgeService struct {
	badges   persistence.BadgeRepository
	now      func() time.Time
	onChange func()
	logger   *slog.Logger
}

// NewBadgeService wires dependencies for badge operations.
func NewBadgeService(badges persistence.BadgeRepository, now func() time.Time) *BadgeService {
	return NewBadgeServiceWithLogger(badges, now, nil)
}

// NewBadgeServiceWithLogger constructs a BadgeService with a specified logger.
func NewBadgeServiceWithLogger(badges persistence.BadgeRepository, now func() time.Time, logger *slog.Logger) *BadgeService {
	if now == nil {
		now = time.Now
	}
	return &BadgeService{
		badges: badges,
		now:    now,
		logger: defaultLogger(logger),
	}
}

// NotifyOnChange registers fn to run after every successful catalogue
// mutation. The planner registers its summary invalidation here so a cached
// summary never outlives the badge edit that made it stale.
func (s *BadgeService) NotifyOnChange(fn func()) {
	if s == nil {
		return
	}
	s.onChange = fn
}

func (s *BadgeService) notifyChange() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *BadgeService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BadgeService", operation, attrs...)
}

// CreateBadge validates the request before delegating to persistence.
func (s *BadgeService) CreateBadge(ctx context.Context, input BadgeInput) (Badge, error) {
	if s == nil {
		return Badge{}, fmt.Errorf("BadgeService is nil")
	}
	if s.badges == nil {
		return Badge{}, fmt.Errorf("badge repository not configured")
	}

	normalized, vErr := normalizeBadgeInput(input)
	if vErr.HasErrors() {
		return Badge{}, vErr
	}

	logger := s.loggerWith(ctx, "CreateBadge", "badge", normalized.Name)

	createdAt := s.now()
	record := persistence.Badge{
		Name:             normalized.Name,
		SessionsRequired: normalized.SessionsRequired,
		Completion:       normalized.Completion,
		Status:           normalized.Status,
		Description:      normalized.Description,
		Requirements:     normalized.Requirements,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}

	if err := s.badges.CreateBadge(ctx, record); err != nil {
		mapped := mapRepoError(err)
		logger.ErrorContext(ctx, "failed to create badge", "error", mapped, "error_kind", ErrorKind(mapped))
		return Badge{}, mapped
	}

	s.notifyChange()
	logger.InfoContext(ctx, "badge created")
	return toBadge(record), nil
}

// GetBadge fetches one catalogue entry by name.
func (s *BadgeService) GetBadge(ctx context.Context, name string) (Badge, error) {
	if s == nil || s.badges == nil {
		return Badge{}, fmt.Errorf("badge repository not configured")
	}

	record, err := s.badges.GetBadge(ctx, strings.TrimSpace(name))
	if err != nil {
		return Badge{}, mapRepoError(err)
	}
	return toBadge(record), nil
}

// ListBadges enumerates the catalogue in stored order.
func (s *BadgeService) ListBadges(ctx context.Context) ([]Badge, error) {
	if s == nil || s.badges == nil {
		return nil, fmt.Errorf("badge repository not configured")
	}

	records, err := s.badges.ListBadges(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	badges := make([]Badge, 0, len(records))
	for _, record := range records {
		badges = append(badges, toBadge(record))
	}
	return badges, nil
}

// UpdateBadge validates and applies new fields for an existing entry. The
// name in the path wins; a differing name in the body is rejected.
func (s *BadgeService) UpdateBadge(ctx context.Context, name string, input BadgeInput) (Badge, error) {
	if s == nil || s.badges == nil {
		return Badge{}, fmt.Errorf("badge repository not configured")
	}

	name = strings.TrimSpace(name)
	if input.Name == "" {
		input.Name = name
	}

	normalized, vErr := normalizeBadgeInput(input)
	if normalized.Name != name {
		vErr.add("name", "badge name cannot be changed")
	}
	if vErr.HasErrors() {
		return Badge{}, vErr
	}

	logger := s.loggerWith(ctx, "UpdateBadge", "badge", name)

	existing, err := s.badges.GetBadge(ctx, name)
	if err != nil {
		return Badge{}, mapRepoError(err)
	}

	updated := existing
	updated.SessionsRequired = normalized.SessionsRequired
	updated.Completion = normalized.Completion
	updated.Status = normalized.Status
	updated.Description = normalized.Description
	updated.Requirements = normalized.Requirements
	updated.UpdatedAt = s.now()

	if err := s.badges.UpdateBadge(ctx, updated); err != nil {
		mapped := mapRepoError(err)
		logger.ErrorContext(ctx, "failed to update badge", "error", mapped, "error_kind", ErrorKind(mapped))
		return Badge{}, mapped
	}

	s.notifyChange()
	logger.InfoContext(ctx, "badge updated")
	return toBadge(updated), nil
}

// DeleteBadge removes one catalogue entry.
func (s *BadgeService) DeleteBadge(ctx context.Context, name string) error {
	if s == nil || s.badges == nil {
		return fmt.Errorf("badge repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteBadge", "badge", name)
	if err := s.badges.DeleteBadge(ctx, strings.TrimSpace(name)); err != nil {
		mapped := mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete badge", "error", mapped, "error_kind", ErrorKind(mapped))
		return mapped
	}
	s.notifyChange()
	logger.InfoContext(ctx, "badge deleted")
	return nil
}

// MarkCompleted records a badge as fully earned. Status and completion move
// together so the two fields never disagree.
func (s *BadgeService) MarkCompleted(ctx context.Context, name string) (Badge, error) {
	return s.setProgress(ctx, name, "MarkCompleted", "Completed", 100)
}

// MarkIncomplete reopens a badge, resetting its progress.
func (s *BadgeService) MarkIncomplete(ctx context.Context, name string) (Badge, error) {
	return s.setProgress(ctx, name, "MarkIncomplete", "Not Started", 0)
}

func (s *BadgeService) setProgress(ctx context.Context, name, operation, status string, completion int) (Badge, error) {
	if s == nil || s.badges == nil {
		return Badge{}, fmt.Errorf("badge repository not configured")
	}

	name = strings.TrimSpace(name)
	logger := s.loggerWith(ctx, operation, "badge", name)

	existing, err := s.badges.GetBadge(ctx, name)
	if err != nil {
		return Badge{}, mapRepoError(err)
	}

	existing.Status = status
	existing.Completion = completion
	existing.UpdatedAt = s.now()

	if err := s.badges.UpdateBadge(ctx, existing); err != nil {
		mapped := mapRepoError(err)
		logger.ErrorContext(ctx, "failed to update badge progress", "error", mapped, "error_kind", ErrorKind(mapped))
		return Badge{}, mapped
	}

	s.notifyChange()
	logger.InfoContext(ctx, "badge progress updated", "status", status)
	return toBadge(existing), nil
}

func normalizeBadgeInput(input BadgeInput) (BadgeInput, *ValidationError) {
	vErr := &ValidationError{}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		vErr.add("name", "name is required")
	}

	if input.SessionsRequired < 0 {
		vErr.add("sessions_required", "must not be negative")
	}

	if input.Completion < 0 || input.Completion > 100 {
		vErr.add("completion", "must be between 0 and 100")
	}

	if input.Status == "" {
		input.Status = "Not Started"
	}
	if _, ok := badgeStatuses[input.Status]; !ok {
		vErr.add("status", "must be one of Not Started, In Progress, Completed")
	}

	if input.Requirements == nil {
		input.Requirements = []string{}
	}

	return input, vErr
}

func toBadge(record persistence.Badge) Badge {
	requirements := make([]string, len(record.Requirements))
	copy(requirements, record.Requirements)
	return Badge{
		Name:             record.Name,
		SessionsRequired: record.SessionsRequired,
		Completion:       record.Completion,
		Status:           record.Status,
		Description:      record.Description,
		Requirements:     requirements,
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
	}
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("input", "stored constraints rejected the values")
		return vErr
	}
	return err
}
