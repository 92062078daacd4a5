package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/scout-scheduler/internal/application"
)

type plannerService interface {
	GeneratePlan(ctx context.Context, params application.PlanParams) (application.Plan, error)
	CommitPlan(ctx context.Context, proposals []application.ProposedSession) (application.CommitResult, error)
}

// PlanHandler serves plan generation and commit.
type PlanHandler struct {
	service   plannerService
	responder responder
	logger    *slog.Logger
}

// NewPlanHandler constructs a PlanHandler.
func NewPlanHandler(service plannerService, logger *slog.Logger) *PlanHandler {
	base := defaultLogger(logger)
	return &PlanHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *PlanHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "PlanHandler", operation, attrs...)
}

// Generate runs the planner over the requested window.
func (h *PlanHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Generate", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode plan request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	params, err := req.toParams()
	if err != nil {
		h.log(r.Context(), "Generate", "error_kind", "bad_request").ErrorContext(r.Context(), "unparseable plan window", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Generate", "strategy", req.Strategy)

	plan, err := h.service.GeneratePlan(r.Context(), params)
	if err != nil {
		logger.ErrorContext(r.Context(), "plan generation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("proposals", len(plan.Proposals)).InfoContext(r.Context(), "plan generated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toPlanDTO(plan))
}

// Commit books accepted proposals into the diary.
func (h *PlanHandler) Commit(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Commit", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode commit request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	proposals, err := req.toProposals()
	if err != nil {
		h.log(r.Context(), "Commit", "error_kind", "bad_request").ErrorContext(r.Context(), "unparseable proposal date", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Commit", "proposals", len(proposals))

	result, err := h.service.CommitPlan(r.Context(), proposals)
	if err != nil {
		logger.ErrorContext(r.Context(), "plan commit failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booked", len(result.Sessions)).InfoContext(r.Context(), "plan committed")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, commitResponse{
		Sessions: toSessionDTOs(result.Sessions),
		Warnings: result.Warnings,
	})
}

type planRequest struct {
	WindowStart    string             `json:"window_start"`
	WindowEnd      string             `json:"window_end"`
	Strategy       string             `json:"strategy"`
	Preferences    planPreferencesDTO `json:"preferences"`
	IncludeSummary bool               `json:"include_summary"`
}

type planPreferencesDTO struct {
	WeekendOnly        bool   `json:"weekend_only"`
	TimeOfDay          string `json:"time_of_day"`
	MaxSessionsPerWeek *int   `json:"max_sessions_per_week"`
	MinDaysBetween     int    `json:"min_days_between_sessions"`
}

func (r planRequest) toParams() (application.PlanParams, error) {
	params := application.PlanParams{
		Strategy:       strings.TrimSpace(r.Strategy),
		IncludeSummary: r.IncludeSummary,
		Preferences: application.PlanPreferences{
			WeekendOnly:        r.Preferences.WeekendOnly,
			TimeOfDay:          strings.TrimSpace(r.Preferences.TimeOfDay),
			MaxSessionsPerWeek: r.Preferences.MaxSessionsPerWeek,
			MinDaysBetween:     r.Preferences.MinDaysBetween,
		},
	}
	if trimmed := strings.TrimSpace(r.WindowStart); trimmed != "" {
		start, err := time.Parse(dateLayout, trimmed)
		if err != nil {
			return application.PlanParams{}, err
		}
		params.WindowStart = start
	}
	if trimmed := strings.TrimSpace(r.WindowEnd); trimmed != "" {
		end, err := time.Parse(dateLayout, trimmed)
		if err != nil {
			return application.PlanParams{}, err
		}
		params.WindowEnd = end
	}
	return params, nil
}

type planResponse struct {
	WindowStart string        `json:"window_start"`
	WindowEnd   string        `json:"window_end"`
	Proposals   []proposalDTO `json:"proposals"`
	Warnings    []string      `json:"warnings,omitempty"`
	Summary     string        `json:"summary,omitempty"`
}

type proposalDTO struct {
	Date      string `json:"date"`
	Time      string `json:"time"`
	BadgeName string `json:"badge_name"`
	Title     string `json:"title"`
}

func toPlanDTO(plan application.Plan) planResponse {
	proposals := make([]proposalDTO, 0, len(plan.Proposals))
	for _, proposal := range plan.Proposals {
		proposals = append(proposals, proposalDTO{
			Date:      proposal.Date.UTC().Format(dateLayout),
			Time:      proposal.Time,
			BadgeName: proposal.BadgeName,
			Title:     proposal.Title,
		})
	}
	return planResponse{
		WindowStart: plan.WindowStart.UTC().Format(dateLayout),
		WindowEnd:   plan.WindowEnd.UTC().Format(dateLayout),
		Proposals:   proposals,
		Warnings:    plan.Warnings,
		Summary:     plan.Summary,
	}
}

type commitRequest struct {
	Proposals []proposalDTO `json:"proposals"`
}

func (r commitRequest) toProposals() ([]application.ProposedSession, error) {
	proposals := make([]application.ProposedSession, 0, len(r.Proposals))
	for _, dto := range r.Proposals {
		proposal := application.ProposedSession{
			Time:      strings.TrimSpace(dto.Time),
			BadgeName: strings.TrimSpace(dto.BadgeName),
			Title:     strings.TrimSpace(dto.Title),
		}
		if trimmed := strings.TrimSpace(dto.Date); trimmed != "" {
			date, err := time.Parse(dateLayout, trimmed)
			if err != nil {
				return nil, err
			}
			proposal.Date = date
		}
		proposals = append(proposals, proposal)
	}
	return proposals, nil
}

type commitResponse struct {
	Sessions []sessionDTO `json:"sessions"`
	Warnings []string     `json:"warnings,omitempty"`
}
