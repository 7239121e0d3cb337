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

type communityService interface {
	CreateCommunity(ctx context.Context, params application.CreateCommunityParams) (application.Community, error)
	UpdateCommunity(ctx context.Context, params application.UpdateCommunityParams) (application.Community, error)
	GetCommunity(ctx context.Context, communityID string) (application.Community, error)
	ListCommunities(ctx context.Context) ([]application.Community, error)
	DeleteCommunity(ctx context.Context, principal application.Principal, communityID string) error
}

// CommunityHandler serves community CRUD endpoints.
type CommunityHandler struct {
	service   communityService
	responder responder
}

func NewCommunityHandler(service communityService, logger *slog.Logger) *CommunityHandler {
	return &CommunityHandler{service: service, responder: newResponder(defaultLogger(logger))}
}

func (h *CommunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req communityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	community, err := h.service.CreateCommunity(r.Context(), application.CreateCommunityParams{
		Principal: principal,
		Input:     application.CommunityInput{Name: req.Name, Description: req.Description},
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toCommunityDTO(community))
}

func (h *CommunityHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	communityID, ok := CommunityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(communityID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCommunityID)
		return
	}

	var req communityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	community, err := h.service.UpdateCommunity(r.Context(), application.UpdateCommunityParams{
		Principal:   principal,
		CommunityID: communityID,
		Input:       application.CommunityInput{Name: req.Name, Description: req.Description},
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toCommunityDTO(community))
}

func (h *CommunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	communityID, ok := CommunityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(communityID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCommunityID)
		return
	}

	community, err := h.service.GetCommunity(r.Context(), communityID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, toCommunityDTO(community))
}

func (h *CommunityHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	communities, err := h.service.ListCommunities(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	payload := make([]communityDTO, 0, len(communities))
	for _, community := range communities {
		payload = append(payload, toCommunityDTO(community))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, communityListResponse{Communities: payload})
}

func (h *CommunityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	communityID, ok := CommunityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(communityID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidCommunityID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteCommunity(r.Context(), principal, communityID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type communityRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type communityDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type communityListResponse struct {
	Communities []communityDTO `json:"communities"`
}

func toCommunityDTO(community application.Community) communityDTO {
	return communityDTO{
		ID:          community.ID,
		Name:        community.Name,
		Description: community.Description,
		CreatedAt:   community.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   community.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
