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

type badgeService interface {
	CreateBadge(ctx context.Context, input application.BadgeInput) (application.Badge, error)
	GetBadge(ctx context.Context, name string) (application.Badge, error)
	ListBadges(ctx context.Context) ([]application.Badge, error)
	UpdateBadge(ctx context.Context, name string, input application.BadgeInput) (application.Badge, error)
	DeleteBadge(ctx context.Context, name string) error
	MarkCompleted(ctx context.Context, name string) (application.Badge, error)
	MarkIncomplete(ctx context.Context, name string) (application.Badge, error)
}

// BadgeHandler serves the badge catalogue endpoints.
type BadgeHandler struct {
	service   badgeService
	responder responder
	logger    *slog.Logger
}

// NewBadgeHandler constructs a BadgeHandler.
func NewBadgeHandler(service badgeService, logger *slog.Logger) *BadgeHandler {
	base := defaultLogger(logger)
	return &BadgeHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BadgeHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BadgeHandler", operation, attrs...)
}

// Create adds a badge to the catalogue.
func (h *BadgeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req badgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode badge request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "badge", req.Name)

	badge, err := h.service.CreateBadge(r.Context(), req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "badge creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "badge created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, badgeResponse{Badge: toBadgeDTO(badge)})
}

// List enumerates the catalogue.
func (h *BadgeHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	badges, err := h.service.ListBadges(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "badge list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(badges)).InfoContext(r.Context(), "badges listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBadgesResponse{Badges: toBadgeDTOs(badges)})
}

// Get fetches one badge by name.
func (h *BadgeHandler) Get(w http.ResponseWriter, r *http.Request, name string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(name) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBadgeName)
		return
	}

	logger := h.log(r.Context(), "Get", "badge", name)
	badge, err := h.service.GetBadge(r.Context(), name)
	if err != nil {
		logger.ErrorContext(r.Context(), "badge lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, badgeResponse{Badge: toBadgeDTO(badge)})
}

// Update replaces the stored fields of one badge.
func (h *BadgeHandler) Update(w http.ResponseWriter, r *http.Request, name string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(name) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBadgeName)
		return
	}

	var req badgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "badge", name, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode badge update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "badge", name)

	badge, err := h.service.UpdateBadge(r.Context(), name, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "badge update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "badge updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, badgeResponse{Badge: toBadgeDTO(badge)})
}

// Delete removes one badge.
func (h *BadgeHandler) Delete(w http.ResponseWriter, r *http.Request, name string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(name) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBadgeName)
		return
	}

	logger := h.log(r.Context(), "Delete", "badge", name)
	if err := h.service.DeleteBadge(r.Context(), name); err != nil {
		logger.ErrorContext(r.Context(), "badge delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "badge deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// Complete marks a badge as fully earned.
func (h *BadgeHandler) Complete(w http.ResponseWriter, r *http.Request, name string) {
	h.setProgress(w, r, name, "Complete", func(ctx context.Context) (application.Badge, error) {
		return h.service.MarkCompleted(ctx, name)
	})
}

// Reopen resets a badge's progress.
func (h *BadgeHandler) Reopen(w http.ResponseWriter, r *http.Request, name string) {
	h.setProgress(w, r, name, "Reopen", func(ctx context.Context) (application.Badge, error) {
		return h.service.MarkIncomplete(ctx, name)
	})
}

func (h *BadgeHandler) setProgress(w http.ResponseWriter, r *http.Request, name, operation string, apply func(context.Context) (application.Badge, error)) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(name) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBadgeName)
		return
	}

	logger := h.log(r.Context(), operation, "badge", name)
	badge, err := apply(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "badge progress change failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("status", badge.Status).InfoContext(r.Context(), "badge progress changed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, badgeResponse{Badge: toBadgeDTO(badge)})
}

type badgeRequest struct {
	Name             string   `json:"name"`
	SessionsRequired int      `json:"sessions_required"`
	Completion       int      `json:"completion"`
	Status           string   `json:"status"`
	Description      string   `json:"description"`
	Requirements     []string `json:"requirements"`
}

func (r badgeRequest) toInput() application.BadgeInput {
	return application.BadgeInput{
		Name:             strings.TrimSpace(r.Name),
		SessionsRequired: r.SessionsRequired,
		Completion:       r.Completion,
		Status:           strings.TrimSpace(r.Status),
		Description:      r.Description,
		Requirements:     r.Requirements,
	}
}

type badgeResponse struct {
	Badge badgeDTO `json:"badge"`
}

type listBadgesResponse struct {
	Badges []badgeDTO `json:"badges"`
}

type badgeDTO struct {
	Name             string   `json:"name"`
	SessionsRequired int      `json:"sessions_required"`
	Completion       int      `json:"completion"`
	Status           string   `json:"status"`
	Description      string   `json:"description,omitempty"`
	Requirements     []string `json:"requirements"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

func toBadgeDTO(badge application.Badge) badgeDTO {
	requirements := badge.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	return badgeDTO{
		Name:             badge.Name,
		SessionsRequired: badge.SessionsRequired,
		Completion:       badge.Completion,
		Status:           badge.Status,
		Description:      badge.Description,
		Requirements:     requirements,
		CreatedAt:        badge.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:        badge.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toBadgeDTOs(badges []application.Badge) []badgeDTO {
	if len(badges) == 0 {
		return nil
	}
	out := make([]badgeDTO, 0, len(badges))
	for _, badge := range badges {
		out = append(out, toBadgeDTO(badge))
	}
	return out
}
