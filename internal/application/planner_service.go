package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/scout-scheduler/internal/persistence"
	"github.com/example/scout-scheduler/internal/scheduler"
	"github.com/example/scout-scheduler/internal/suggest"
)

// BadgeSource is the read-only badge access the planner needs.
type BadgeSource interface {
	ListBadges(ctx context.Context) ([]persistence.Badge, error)
}

// SessionSource is the read-only diary access the planner needs.
type SessionSource interface {
	ListSessions(ctx context.Context) ([]persistence.Session, error)
}

// HolidaySource is the read-only holiday access the planner needs.
type HolidaySource interface {
	ListHolidays(ctx context.Context) ([]persistence.Holiday, error)
}

// Summarizer produces a free-text summary for a generated plan. Implemented
// by the completions client; planning never depends on it succeeding.
type Summarizer interface {
	Configured() bool
	PlanSummary(ctx context.Context, windowStart, windowEnd time.Time, needs []suggest.BadgeNeed) (string, error)
}

// PlannerService turns stored badges, sessions and holidays into session
// proposals. A failing collaborator degrades to empty input with a surfaced
// warning rather than failing the run.
type PlannerService struct {
	badges      BadgeSource
	sessions    SessionSource
	holidays    HolidaySource
	store       persistence.SessionRepository
	summarizer  Summarizer
	summaries   *suggestionCache
	idGenerator func() string
	now         func() time.Time
	windowDays  int
	logger      *slog.Logger
}

// NewPlannerService wires dependencies for plan generation. windowDays
// controls the default search window length when a request omits one; values
// below one fall back to 30 days.
func NewPlannerService(badges BadgeSource, sessions SessionSource, holidays HolidaySource, store persistence.SessionRepository, summarizer Summarizer, idGenerator func() string, now func() time.Time, windowDays int, summaryTTL time.Duration, summaryCap int) *PlannerService {
	return NewPlannerServiceWithLogger(badges, sessions, holidays, store, summarizer, idGenerator, now, windowDays, summaryTTL, summaryCap, nil)
}

// NewPlannerServiceWithLogger constructs a PlannerService with a specified logger.
func NewPlannerServiceWithLogger(badges BadgeSource, sessions SessionSource, holidays HolidaySource, store persistence.SessionRepository, summarizer Summarizer, idGenerator func() string, now func() time.Time, windowDays int, summaryTTL time.Duration, summaryCap int, logger *slog.Logger) *PlannerService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if windowDays <= 0 {
		windowDays = 30
	}
	return &PlannerService{
		badges:      badges,
		sessions:    sessions,
		holidays:    holidays,
		store:       store,
		summarizer:  summarizer,
		summaries:   newSuggestionCache(summaryTTL, summaryCap, now),
		idGenerator: idGenerator,
		now:         now,
		windowDays:  windowDays,
		logger:      defaultLogger(logger),
	}
}

func (s *PlannerService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "PlannerService", operation, attrs...)
}

// GeneratePlan loads the planning inputs, runs the assignment engine and
// returns the ordered proposals. Window exhaustion yields a partial plan,
// never an error.
func (s *PlannerService) GeneratePlan(ctx context.Context, params PlanParams) (Plan, error) {
	if s == nil {
		return Plan{}, fmt.Errorf("PlannerService is nil")
	}

	logger := s.loggerWith(ctx, "GeneratePlan", "strategy", params.Strategy)

	window, prefs, strategy, err := buildPlanRequestParts(params, s.now, s.windowDays)
	if err != nil {
		logger.ErrorContext(ctx, "rejected plan request", "error", err, "error_kind", ErrorKind(err))
		return Plan{}, err
	}

	var warnings []string

	badges, err := s.loadBadges(ctx)
	if err != nil {
		logger.WarnContext(ctx, "badge catalogue unavailable, planning without it", "error", err)
		warnings = append(warnings, "badge catalogue unavailable; planned without badge needs")
		badges = nil
	}

	booked, err := s.loadBookedDates(ctx)
	if err != nil {
		logger.WarnContext(ctx, "session diary unavailable, planning without it", "error", err)
		warnings = append(warnings, "session diary unavailable; existing bookings ignored")
		booked = nil
	}

	holidays, err := s.loadHolidays(ctx)
	if err != nil {
		logger.WarnContext(ctx, "holiday calendar unavailable, planning without it", "error", err)
		warnings = append(warnings, "holiday calendar unavailable; blackout ranges ignored")
		holidays = nil
	}

	assignments, err := scheduler.Schedule(scheduler.Request{
		Badges:        badges,
		ExistingDates: booked,
		Holidays:      holidays,
		Preferences:   prefs,
		Window:        window,
		Strategy:      strategy,
	})
	if err != nil {
		mapped := mapEngineError(err)
		logger.ErrorContext(ctx, "plan generation failed", "error", mapped, "error_kind", ErrorKind(mapped))
		return Plan{}, mapped
	}

	plan := Plan{
		WindowStart: window.Start,
		WindowEnd:   window.End,
		Proposals:   toProposals(assignments),
		Warnings:    warnings,
	}

	if params.IncludeSummary {
		plan.Summary = s.summarize(ctx, logger, window, badges)
		if plan.Summary == "" {
			plan.Warnings = append(plan.Warnings, "plan summary unavailable")
		}
	}

	logger.InfoContext(ctx, "plan generated", "proposals", len(plan.Proposals), "warnings", len(plan.Warnings))
	return plan, nil
}

// CommitPlan books accepted proposals through the session store. Proposals
// whose date has since been taken are skipped with a warning instead of
// failing the whole commit.
func (s *PlannerService) CommitPlan(ctx context.Context, proposals []ProposedSession) (CommitResult, error) {
	if s == nil {
		return CommitResult{}, fmt.Errorf("PlannerService is nil")
	}
	if s.store == nil {
		return CommitResult{}, fmt.Errorf("session store not configured")
	}

	logger := s.loggerWith(ctx, "CommitPlan", "proposals", len(proposals))

	result := CommitResult{}
	for _, proposal := range proposals {
		if proposal.Date.IsZero() {
			vErr := &ValidationError{}
			vErr.add("date", "date is required")
			return CommitResult{}, vErr
		}

		sessionTime := proposal.Time
		if sessionTime == "" {
			sessionTime = scheduler.TimeAny.Clock()
		}

		createdAt := s.now()
		record := persistence.Session{
			ID:        s.idGenerator(),
			Date:      scheduler.Day(proposal.Date),
			Time:      sessionTime,
			BadgeName: proposal.BadgeName,
			Title:     proposal.Title,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}

		if err := s.store.CreateSession(ctx, record); err != nil {
			mapped := mapRepoError(err)
			if errors.Is(mapped, ErrAlreadyExists) {
				logger.WarnContext(ctx, "proposal skipped, date already booked", "date", record.Date.Format("2006-01-02"))
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s already booked, proposal skipped", record.Date.Format("2006-01-02")))
				continue
			}
			logger.ErrorContext(ctx, "failed to commit proposal", "error", mapped, "error_kind", ErrorKind(mapped))
			return CommitResult{}, mapped
		}

		result.Sessions = append(result.Sessions, toSession(record))
	}

	logger.InfoContext(ctx, "plan committed", "booked", len(result.Sessions), "skipped", len(result.Warnings))
	return result, nil
}

// InvalidateSummaries drops cached plan summaries. Called when badge needs
// change so a stale summary never outlives the catalogue edit that made it
// wrong.
func (s *PlannerService) InvalidateSummaries() {
	if s == nil {
		return
	}
	s.summaries.Invalidate()
}

func (s *PlannerService) loadBadges(ctx context.Context) ([]scheduler.Badge, error) {
	if s.badges == nil {
		return nil, fmt.Errorf("badge source not configured")
	}
	records, err := s.badges.ListBadges(ctx)
	if err != nil {
		return nil, err
	}
	badges := make([]scheduler.Badge, 0, len(records))
	for _, record := range records {
		badges = append(badges, scheduler.Badge{
			Name:             record.Name,
			SessionsRequired: record.SessionsRequired,
			Completion:       record.Completion,
			State:            scheduler.CompletionState(record.Status),
		})
	}
	return badges, nil
}

func (s *PlannerService) loadBookedDates(ctx context.Context) ([]time.Time, error) {
	if s.sessions == nil {
		return nil, fmt.Errorf("session source not configured")
	}
	records, err := s.sessions.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, len(records))
	for _, record := range records {
		dates = append(dates, record.Date)
	}
	return dates, nil
}

func (s *PlannerService) loadHolidays(ctx context.Context) ([]scheduler.HolidayRange, error) {
	if s.holidays == nil {
		return nil, fmt.Errorf("holiday source not configured")
	}
	records, err := s.holidays.ListHolidays(ctx)
	if err != nil {
		return nil, err
	}
	ranges := make([]scheduler.HolidayRange, 0, len(records))
	for _, record := range records {
		ranges = append(ranges, scheduler.HolidayRange{Start: record.Start, End: record.End})
	}
	return ranges, nil
}

func (s *PlannerService) summarize(ctx context.Context, logger *slog.Logger, window scheduler.Window, badges []scheduler.Badge) string {
	if s.summarizer == nil || !s.summarizer.Configured() {
		return ""
	}

	needs := make([]suggest.BadgeNeed, 0, len(badges))
	for _, badge := range badges {
		if left := badge.SessionsLeft(); left > 0 {
			needs = append(needs, suggest.BadgeNeed{Name: badge.Name, SessionsLeft: left})
		}
	}

	key := buildSuggestionCacheKey(window.Start, window.End, needs)
	if summary, ok := s.summaries.Get(key); ok {
		return summary
	}

	summary, err := s.summarizer.PlanSummary(ctx, window.Start, window.End, needs)
	if err != nil {
		logger.WarnContext(ctx, "plan summary unavailable", "error", err)
		return ""
	}

	s.summaries.Store(key, summary)
	return summary
}

func buildPlanRequestParts(params PlanParams, now func() time.Time, windowDays int) (scheduler.Window, scheduler.Preferences, scheduler.Strategy, error) {
	window := scheduler.DefaultWindow(now())
	if windowDays > 0 {
		window.End = window.Start.AddDate(0, 0, windowDays-1)
	}
	if !params.WindowStart.IsZero() {
		window.Start = scheduler.Day(params.WindowStart)
	}
	if !params.WindowEnd.IsZero() {
		window.End = scheduler.Day(params.WindowEnd)
	}

	vErr := &ValidationError{}
	if window.Start.After(window.End) {
		vErr.add("window", "window start must not be after end")
	}

	timeOfDay := scheduler.TimeAny
	switch params.Preferences.TimeOfDay {
	case "", string(scheduler.TimeAny):
	case string(scheduler.TimeMorning):
		timeOfDay = scheduler.TimeMorning
	case string(scheduler.TimeAfternoon):
		timeOfDay = scheduler.TimeAfternoon
	default:
		vErr.add("time_of_day", "must be one of any, morning, afternoon")
	}

	strategy := scheduler.StrategyGreedyNeeds
	switch params.Strategy {
	case "", string(scheduler.StrategyGreedyNeeds):
	case string(scheduler.StrategyOnePerBadge):
		strategy = scheduler.StrategyOnePerBadge
	default:
		vErr.add("strategy", "unknown planning strategy")
	}

	if vErr.HasErrors() {
		return scheduler.Window{}, scheduler.Preferences{}, "", vErr
	}

	prefs := scheduler.Preferences{
		WeekendOnly:        params.Preferences.WeekendOnly,
		TimeOfDay:          timeOfDay,
		MaxSessionsPerWeek: params.Preferences.MaxSessionsPerWeek,
		MinDaysBetween:     params.Preferences.MinDaysBetween,
	}
	return window, prefs, strategy, nil
}

func mapEngineError(err error) error {
	if err == nil {
		return nil
	}
	vErr := &ValidationError{}
	switch {
	case errors.Is(err, scheduler.ErrInvalidWeeklyCap):
		vErr.add("max_sessions_per_week", "must be positive")
	case errors.Is(err, scheduler.ErrNegativeSessionsRequired):
		vErr.add("badges", "sessions required must not be negative")
	case errors.Is(err, scheduler.ErrUnknownStrategy):
		vErr.add("strategy", "unknown planning strategy")
	default:
		return err
	}
	return vErr
}

func toProposals(assignments []scheduler.Assignment) []ProposedSession {
	proposals := make([]ProposedSession, 0, len(assignments))
	for _, assignment := range assignments {
		proposals = append(proposals, ProposedSession{
			Date:      assignment.Date,
			Time:      assignment.Time,
			BadgeName: assignment.BadgeName,
			Title:     assignment.Title,
		})
	}
	return proposals
}
