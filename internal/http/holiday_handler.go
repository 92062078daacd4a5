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

type holidayService interface {
	CreateHoliday(ctx context.Context, input application.HolidayInput) (application.Holiday, error)
	GetHoliday(ctx context.Context, id string) (application.Holiday, error)
	ListHolidays(ctx context.Context) ([]application.Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
}

// HolidayHandler serves the blackout range endpoints.
type HolidayHandler struct {
	service   holidayService
	responder responder
	logger    *slog.Logger
}

// NewHolidayHandler constructs a HolidayHandler.
func NewHolidayHandler(service holidayService, logger *slog.Logger) *HolidayHandler {
	base := defaultLogger(logger)
	return &HolidayHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *HolidayHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "HolidayHandler", operation, attrs...)
}

// Create records a new blackout range.
func (h *HolidayHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req holidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode holiday request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "unparseable holiday date", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "holiday", req.Name)

	holiday, err := h.service.CreateHoliday(r.Context(), input)
	if err != nil {
		logger.ErrorContext(r.Context(), "holiday creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("holiday_id", holiday.ID).InfoContext(r.Context(), "holiday created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, holidayResponse{Holiday: toHolidayDTO(holiday)})
}

// List enumerates blackout ranges ordered by start date.
func (h *HolidayHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	holidays, err := h.service.ListHolidays(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "holiday list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(holidays)).InfoContext(r.Context(), "holidays listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listHolidaysResponse{Holidays: toHolidayDTOs(holidays)})
}

// Get fetches one blackout range by id.
func (h *HolidayHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidHolidayID)
		return
	}

	logger := h.log(r.Context(), "Get", "holiday_id", id)
	holiday, err := h.service.GetHoliday(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "holiday lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, holidayResponse{Holiday: toHolidayDTO(holiday)})
}

// Delete removes one blackout range.
func (h *HolidayHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidHolidayID)
		return
	}

	logger := h.log(r.Context(), "Delete", "holiday_id", id)
	if err := h.service.DeleteHoliday(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "holiday delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "holiday deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type holidayRequest struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (r holidayRequest) toInput() (application.HolidayInput, error) {
	input := application.HolidayInput{Name: strings.TrimSpace(r.Name)}
	if trimmed := strings.TrimSpace(r.Start); trimmed != "" {
		start, err := time.Parse(dateLayout, trimmed)
		if err != nil {
			return application.HolidayInput{}, err
		}
		input.Start = start
	}
	if trimmed := strings.TrimSpace(r.End); trimmed != "" {
		end, err := time.Parse(dateLayout, trimmed)
		if err != nil {
			return application.HolidayInput{}, err
		}
		input.End = end
	}
	return input, nil
}

type holidayResponse struct {
	Holiday holidayDTO `json:"holiday"`
}

type listHolidaysResponse struct {
	Holidays []holidayDTO `json:"holidays"`
}

type holidayDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Start     string `json:"start"`
	End       string `json:"end"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toHolidayDTO(holiday application.Holiday) holidayDTO {
	return holidayDTO{
		ID:        holiday.ID,
		Name:      holiday.Name,
		Start:     holiday.Start.UTC().Format(dateLayout),
		End:       holiday.End.UTC().Format(dateLayout),
		CreatedAt: holiday.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: holiday.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toHolidayDTOs(holidays []application.Holiday) []holidayDTO {
	if len(holidays) == 0 {
		return nil
	}
	out := make([]holidayDTO, 0, len(holidays))
	for _, holiday := range holidays {
		out = append(out, toHolidayDTO(holiday))
	}
	return out
}
