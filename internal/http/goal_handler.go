package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/goal-tracker/internal/application"
)

type goalService interface {
	CreateGoal(ctx context.Context, params application.CreateGoalParams) (application.Goal, error)
	UpdateGoal(ctx context.Context, params application.UpdateGoalParams) (application.Goal, error)
	GetGoal(ctx context.Context, principal application.Principal, goalID string) (application.Goal, error)
	ListGoals(ctx context.Context, principal application.Principal, ownerID string) ([]application.Goal, error)
	DeleteGoal(ctx context.Context, principal application.Principal, goalID string) error
}

// GoalHandler serves goal CRUD endpoints.
type GoalHandler struct {
	service   goalService
	responder responder
}

func NewGoalHandler(service goalService, logger *slog.Logger) *GoalHandler {
	return &GoalHandler{service: service, responder: newResponder(defaultLogger(logger))}
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	goal, err := h.service.CreateGoal(r.Context(), application.CreateGoalParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toGoalDTO(goal))
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	goalID, ok := GoalIDFromContext(r.Context())
	if !ok || strings.TrimSpace(goalID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGoalID)
		return
	}

	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	goal, err := h.service.UpdateGoal(r.Context(), application.UpdateGoalParams{
		Principal: principal,
		GoalID:    goalID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toGoalDTO(goal))
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	goalID, ok := GoalIDFromContext(r.Context())
	if !ok || strings.TrimSpace(goalID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGoalID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	goal, err := h.service.GetGoal(r.Context(), principal, goalID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toGoalDTO(goal))
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	ownerID := strings.TrimSpace(r.URL.Query().Get("owner_id"))

	goals, err := h.service.ListGoals(r.Context(), principal, ownerID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]goalDTO, 0, len(goals))
	for _, goal := range goals {
		payload = append(payload, toGoalDTO(goal))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, goalListResponse{Goals: payload})
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	goalID, ok := GoalIDFromContext(r.Context())
	if !ok || strings.TrimSpace(goalID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGoalID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteGoal(r.Context(), principal, goalID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type goalRequest struct {
	OwnerID     string  `json:"owner_id,omitempty"`
	CommunityID *string `json:"community_id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
}

func (req goalRequest) toInput() application.GoalInput {
	return application.GoalInput{
		OwnerID:     strings.TrimSpace(req.OwnerID),
		CommunityID: req.CommunityID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	}
}

type goalDTO struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	CommunityID *string `json:"community_id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Deadline    *string `json:"deadline,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type goalListResponse struct {
	Goals []goalDTO `json:"goals"`
}

func toGoalDTO(goal application.Goal) goalDTO {
	return goalDTO{
		ID:          goal.ID,
		OwnerID:     goal.OwnerID,
		CommunityID: goal.CommunityID,
		Title:       goal.Title,
		Description: goal.Description,
		Deadline:    goal.Deadline,
		CreatedAt:   goal.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   goal.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
