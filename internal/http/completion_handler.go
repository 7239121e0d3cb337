package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/goal-tracker/internal/application"
)

type completionService interface {
	RecordCompletion(ctx context.Context, params application.RecordCompletionParams) (application.Completion, error)
	DeleteCompletion(ctx context.Context, principal application.Principal, completionID string) error
}

// CompletionHandler serves occurrence completion endpoints.
type CompletionHandler struct {
	service   completionService
	responder responder
}

func NewCompletionHandler(service completionService, logger *slog.Logger) *CompletionHandler {
	return &CompletionHandler{service: service, responder: newResponder(defaultLogger(logger))}
}

func (h *CompletionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	occurrenceStart, err := time.Parse(time.RFC3339, req.OccurrenceStart)
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("occurrence_start must be an RFC 3339 instant"))
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	completion, err := h.service.RecordCompletion(r.Context(), application.RecordCompletionParams{
		Principal: principal,
		Input: application.CompletionInput{
			ActionableID:    strings.TrimSpace(req.ActionableID),
			OccurrenceStart: occurrenceStart,
			Notes:           req.Notes,
		},
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toCompletionDTO(completion))
}

func (h *CompletionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	completionID, ok := CompletionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(completionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCompletionID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteCompletion(r.Context(), principal, completionID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type completionRequest struct {
	ActionableID    string  `json:"actionable_id"`
	OccurrenceStart string  `json:"occurrence_start"`
	Notes           *string `json:"notes,omitempty"`
}

type completionDTO struct {
	ID              string  `json:"id"`
	ActionableID    string  `json:"actionable_id"`
	OccurrenceStart string  `json:"occurrence_start"`
	Notes           *string `json:"notes,omitempty"`
	CompletedAt     string  `json:"completed_at"`
}

func toCompletionDTO(completion application.Completion) completionDTO {
	return completionDTO{
		ID:              completion.ID,
		ActionableID:    completion.ActionableID,
		OccurrenceStart: completion.OccurrenceStart.UTC().Format(time.RFC3339Nano),
		Notes:           completion.Notes,
		CompletedAt:     completion.CompletedAt.UTC().Format(time.RFC3339Nano),
	}
}
