package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/goal-tracker/internal/application"
)

type actionableService interface {
	CreateActionable(ctx context.Context, params application.CreateActionableParams) (application.Actionable, error)
	UpdateActionable(ctx context.Context, params application.UpdateActionableParams) (application.Actionable, error)
	GetActionable(ctx context.Context, principal application.Principal, actionableID string) (application.Actionable, error)
	ListActionables(ctx context.Context, principal application.Principal, goalID string) ([]application.Actionable, error)
	Pause(ctx context.Context, params application.PauseActionableParams) (application.Actionable, error)
	Resume(ctx context.Context, principal application.Principal, actionableID string) (application.Actionable, error)
	Archive(ctx context.Context, principal application.Principal, actionableID string) (application.Actionable, error)
	DeleteActionable(ctx context.Context, principal application.Principal, actionableID string) error
}

// ActionableHandler serves actionable CRUD and lifecycle endpoints.
type ActionableHandler struct {
	service   actionableService
	responder responder
}

func NewActionableHandler(service actionableService, logger *slog.Logger) *ActionableHandler {
	return &ActionableHandler{service: service, responder: newResponder(defaultLogger(logger))}
}

func (h *ActionableHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req actionableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	actionable, err := h.service.CreateActionable(r.Context(), application.CreateActionableParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toActionableDTO(actionable))
}

func (h *ActionableHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	actionableID, ok := ActionableIDFromContext(r.Context())
	if !ok || strings.TrimSpace(actionableID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidActionableID)
		return
	}

	var req actionableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	actionable, err := h.service.UpdateActionable(r.Context(), application.UpdateActionableParams{
		Principal:    principal,
		ActionableID: actionableID,
		Input:        req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toActionableDTO(actionable))
}

func (h *ActionableHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	actionableID, ok := ActionableIDFromContext(r.Context())
	if !ok || strings.TrimSpace(actionableID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidActionableID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	actionable, err := h.service.GetActionable(r.Context(), principal, actionableID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toActionableDTO(actionable))
}

func (h *ActionableHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	goalID := strings.TrimSpace(r.URL.Query().Get("goal_id"))
	if goalID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGoalID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	actionables, err := h.service.ListActionables(r.Context(), principal, goalID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]actionableDTO, 0, len(actionables))
	for _, actionable := range actionables {
		payload = append(payload, toActionableDTO(actionable))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, actionableListResponse{Actionables: payload})
}

// Pause handles POST /actionables/{id}/pause. An optional body carries an
// RFC 3339 "until" instant; without one the pause is indefinite.
func (h *ActionableHandler) Pause(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	actionableID, ok := ActionableIDFromContext(r.Context())
	if !ok || strings.TrimSpace(actionableID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidActionableID)
		return
	}

	var req pauseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	var until *time.Time
	if req.Until != nil {
		parsed, err := time.Parse(time.RFC3339, *req.Until)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("until must be an RFC 3339 instant"))
			return
		}
		until = &parsed
	}

	principal, _ := PrincipalFromContext(r.Context())

	actionable, err := h.service.Pause(r.Context(), application.PauseActionableParams{
		Principal:    principal,
		ActionableID: actionableID,
		Until:        until,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toActionableDTO(actionable))
}

func (h *ActionableHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.serviceResume)
}

func (h *ActionableHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.serviceArchive)
}

func (h *ActionableHandler) serviceResume(ctx context.Context, principal application.Principal, id string) (application.Actionable, error) {
	return h.service.Resume(ctx, principal, id)
}

func (h *ActionableHandler) serviceArchive(ctx context.Context, principal application.Principal, id string) (application.Actionable, error) {
	return h.service.Archive(ctx, principal, id)
}

func (h *ActionableHandler) transition(w http.ResponseWriter, r *http.Request, call func(context.Context, application.Principal, string) (application.Actionable, error)) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	actionableID, ok := ActionableIDFromContext(r.Context())
	if !ok || strings.TrimSpace(actionableID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidActionableID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	actionable, err := call(r.Context(), principal, actionableID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toActionableDTO(actionable))
}

func (h *ActionableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	actionableID, ok := ActionableIDFromContext(r.Context())
	if !ok || strings.TrimSpace(actionableID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidActionableID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteActionable(r.Context(), principal, actionableID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type actionableRequest struct {
	GoalID          string  `json:"goal_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	RecurrenceRule  *string `json:"recurrence_rule,omitempty"`
	StartDate       string  `json:"start_date"`
	EndDate         *string `json:"end_date,omitempty"`
	StartTime       *string `json:"start_time,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Timezone        *string `json:"timezone,omitempty"`
	Color           *string `json:"color,omitempty"`
	ExceptionDates  *string `json:"exception_dates,omitempty"`
}

func (req actionableRequest) toInput() application.ActionableInput {
	return application.ActionableInput{
		GoalID:          strings.TrimSpace(req.GoalID),
		Title:           req.Title,
		Description:     req.Description,
		RecurrenceRule:  req.RecurrenceRule,
		StartDate:       strings.TrimSpace(req.StartDate),
		EndDate:         req.EndDate,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Timezone:        req.Timezone,
		Color:           req.Color,
		ExceptionDates:  req.ExceptionDates,
	}
}

type pauseRequest struct {
	Until *string `json:"until,omitempty"`
}

type actionableDTO struct {
	ID              string  `json:"id"`
	GoalID          string  `json:"goal_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	RecurrenceRule  *string `json:"recurrence_rule,omitempty"`
	StartDate       string  `json:"start_date"`
	EndDate         *string `json:"end_date,omitempty"`
	StartTime       *string `json:"start_time,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Timezone        *string `json:"timezone,omitempty"`
	IsPaused        bool    `json:"is_paused"`
	PausedUntil     *string `json:"paused_until,omitempty"`
	IsArchived      bool    `json:"is_archived"`
	Color           *string `json:"color,omitempty"`
	ExceptionDates  *string `json:"exception_dates,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type actionableListResponse struct {
	Actionables []actionableDTO `json:"actionables"`
}

func toActionableDTO(actionable application.Actionable) actionableDTO {
	dto := actionableDTO{
		ID:              actionable.ID,
		GoalID:          actionable.GoalID,
		Title:           actionable.Title,
		Description:     actionable.Description,
		RecurrenceRule:  actionable.RecurrenceRule,
		StartDate:       actionable.StartDate,
		EndDate:         actionable.EndDate,
		StartTime:       actionable.StartTime,
		DurationMinutes: actionable.DurationMinutes,
		Timezone:        actionable.Timezone,
		IsPaused:        actionable.IsPaused,
		IsArchived:      actionable.IsArchived,
		Color:           actionable.Color,
		ExceptionDates:  actionable.ExceptionDates,
		CreatedAt:       actionable.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       actionable.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if actionable.PausedUntil != nil {
		formatted := actionable.PausedUntil.UTC().Format(time.RFC3339Nano)
		dto.PausedUntil = &formatted
	}
	return dto
}
