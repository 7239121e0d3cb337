package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/goal-tracker/internal/application"
	"github.com/example/goal-tracker/internal/calendar"
)

type calendarService interface {
	ListCalendar(ctx context.Context, params application.ListCalendarParams) ([]calendar.EventItem, error)
	ExportICS(ctx context.Context, params application.ListCalendarParams) (string, error)
}

// CalendarHandler serves the materialized calendar view and its iCalendar
// export.
type CalendarHandler struct {
	service   calendarService
	responder responder
}

func NewCalendarHandler(service calendarService, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{service: service, responder: newResponder(defaultLogger(logger))}
}

// List handles GET /calendar?start=...&end=... with RFC 3339 bounds.
func (h *CalendarHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	params, err := buildCalendarParams(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	events, err := h.service.ListCalendar(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, calendarResponse{Events: events})
}

// Feed handles GET /calendar/feed.ics and renders the same range as List in
// iCalendar form.
func (h *CalendarHandler) Feed(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	params, err := buildCalendarParams(r)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	feed, err := h.service.ExportICS(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(feed)); err != nil {
		h.responder.loggerFor(r.Context()).ErrorContext(r.Context(), "failed to write feed", "error", err)
	}
}

func buildCalendarParams(r *http.Request) (application.ListCalendarParams, error) {
	principal, _ := PrincipalFromContext(r.Context())
	query := r.URL.Query()

	rangeStart, err := parseCalendarBound(query, "start")
	if err != nil {
		return application.ListCalendarParams{}, err
	}
	rangeEnd, err := parseCalendarBound(query, "end")
	if err != nil {
		return application.ListCalendarParams{}, err
	}
	if rangeStart.After(rangeEnd) {
		return application.ListCalendarParams{}, errors.New("start must be at or before end")
	}

	return application.ListCalendarParams{
		Principal:  principal,
		UserID:     strings.TrimSpace(query.Get("user_id")),
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
	}, nil
}

func parseCalendarBound(query url.Values, key string) (time.Time, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return time.Time{}, errors.New(key + " query parameter is required")
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.New(key + " must be an RFC 3339 instant")
	}
	return parsed, nil
}

type calendarResponse struct {
	Events []calendar.EventItem `json:"events"`
}
