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

// HolidayService orchestrates validation and persistence for blackout ranges.
type HolidayService struct {
	holidays    persistence.HolidayRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewHolidayService wires dependencies for holiday operations.
func NewHolidayService(holidays persistence.HolidayRepository, idGenerator func() string, now func() time.Time) *HolidayService {
	return NewHolidayServiceWithLogger(holidays, idGenerator, now, nil)
}

// NewHolidayServiceWithLogger constructs a HolidayService with a specified logger.
func NewHolidayServiceWithLogger(holidays persistence.HolidayRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *HolidayService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &HolidayService{
		holidays:    holidays,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *HolidayService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "HolidayService", operation, attrs...)
}

// CreateHoliday validates the request before delegating to persistence. The
// range is inclusive on both ends; start must not fall after end.
func (s *HolidayService) CreateHoliday(ctx context.Context, input HolidayInput) (Holiday, error) {
	if s == nil {
		return Holiday{}, fmt.Errorf("HolidayService is nil")
	}
	if s.holidays == nil {
		return Holiday{}, fmt.Errorf("holiday repository not configured")
	}

	vErr := &ValidationError{}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if input.End.IsZero() {
		vErr.add("end", "end is required")
	}
	if !input.Start.IsZero() && !input.End.IsZero() {
		input.Start = scheduler.Day(input.Start)
		input.End = scheduler.Day(input.End)
		if input.Start.After(input.End) {
			vErr.add("range", "start must not be after end")
		}
	}
	if vErr.HasErrors() {
		return Holiday{}, vErr
	}

	logger := s.loggerWith(ctx, "CreateHoliday", "holiday", input.Name)

	createdAt := s.now()
	record := persistence.Holiday{
		ID:        s.idGenerator(),
		Name:      input.Name,
		Start:     input.Start,
		End:       input.End,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	if err := s.holidays.CreateHoliday(ctx, record); err != nil {
		mapped := mapRepoError(err)
		logger.ErrorContext(ctx, "failed to create holiday", "error", mapped, "error_kind", ErrorKind(mapped))
		return Holiday{}, mapped
	}

	logger.InfoContext(ctx, "holiday created", "holiday_id", record.ID)
	return toHoliday(record), nil
}

// GetHoliday fetches one blackout range by id.
func (s *HolidayService) GetHoliday(ctx context.Context, id string) (Holiday, error) {
	if s == nil || s.holidays == nil {
		return Holiday{}, fmt.Errorf("holiday repository not configured")
	}

	record, err := s.holidays.GetHoliday(ctx, strings.TrimSpace(id))
	if err != nil {
		return Holiday{}, mapRepoError(err)
	}
	return toHoliday(record), nil
}

// ListHolidays enumerates blackout ranges ordered by start date.
func (s *HolidayService) ListHolidays(ctx context.Context) ([]Holiday, error) {
	if s == nil || s.holidays == nil {
		return nil, fmt.Errorf("holiday repository not configured")
	}

	records, err := s.holidays.ListHolidays(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	holidays := make([]Holiday, 0, len(records))
	for _, record := range records {
		holidays = append(holidays, toHoliday(record))
	}
	return holidays, nil
}

// DeleteHoliday removes one blackout range.
func (s *HolidayService) DeleteHoliday(ctx context.Context, id string) error {
	if s == nil || s.holidays == nil {
		return fmt.Errorf("holiday repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteHoliday", "holiday_id", id)
	if err := s.holidays.DeleteHoliday(ctx, strings.TrimSpace(id)); err != nil {
		mapped := mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete holiday", "error", mapped, "error_kind", ErrorKind(mapped))
		return mapped
	}
	logger.InfoContext(ctx, "holiday deleted")
	return nil
}

func toHoliday(record persistence.Holiday) Holiday {
	return Holiday{
		ID:        record.ID,
		Name:      record.Name,
		Start:     record.Start,
		End:       record.End,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
