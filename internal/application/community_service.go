package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// CommunityRepository captures the persistence interactions needed by the
// community service.
type CommunityRepository interface {
	CreateCommunity(ctx context.Context, community Community) (Community, error)
	UpdateCommunity(ctx context.Context, community Community) (Community, error)
	GetCommunity(ctx context.Context, id string) (Community, error)
	ListCommunities(ctx context.Context) ([]Community, error)
	DeleteCommunity(ctx context.Context, id string) error
}

// CommunityService manages the shared groupings goals can be published into.
type CommunityService struct {
	communities CommunityRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCommunityService wires dependencies for community operations.
func NewCommunityService(communities CommunityRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CommunityService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CommunityService{
		communities: communities,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *CommunityService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CommunityService", operation, attrs...)
}

// CreateCommunity validates and persists a new community.
func (s *CommunityService) CreateCommunity(ctx context.Context, params CreateCommunityParams) (Community, error) {
	if s == nil || s.communities == nil {
		return Community{}, fmt.Errorf("community repository not configured")
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(params.Input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if vErr.HasErrors() {
		return Community{}, vErr
	}

	createdAt := s.now()
	community := Community{
		ID:          s.idGenerator(),
		Name:        strings.TrimSpace(params.Input.Name),
		Description: params.Input.Description,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	persisted, err := s.communities.CreateCommunity(ctx, community)
	if err != nil {
		return Community{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "CreateCommunity", "community_id", persisted.ID).InfoContext(ctx, "community created")
	return persisted, nil
}

// UpdateCommunity renames or redescribes a community. Only administrators may
// change shared groupings.
func (s *CommunityService) UpdateCommunity(ctx context.Context, params UpdateCommunityParams) (Community, error) {
	if s == nil || s.communities == nil {
		return Community{}, fmt.Errorf("community repository not configured")
	}
	if !params.Principal.IsAdmin {
		return Community{}, ErrUnauthorized
	}

	existing, err := s.communities.GetCommunity(ctx, params.CommunityID)
	if err != nil {
		return Community{}, mapRepoError(err)
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(params.Input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if vErr.HasErrors() {
		return Community{}, vErr
	}

	updated := existing
	updated.Name = strings.TrimSpace(params.Input.Name)
	updated.Description = params.Input.Description
	updated.UpdatedAt = s.now()

	persisted, err := s.communities.UpdateCommunity(ctx, updated)
	if err != nil {
		return Community{}, mapRepoError(err)
	}
	return persisted, nil
}

// GetCommunity retrieves a single community.
func (s *CommunityService) GetCommunity(ctx context.Context, communityID string) (Community, error) {
	if s == nil || s.communities == nil {
		return Community{}, fmt.Errorf("community repository not configured")
	}
	community, err := s.communities.GetCommunity(ctx, communityID)
	if err != nil {
		return Community{}, mapRepoError(err)
	}
	return community, nil
}

// ListCommunities enumerates every community.
func (s *CommunityService) ListCommunities(ctx context.Context) ([]Community, error) {
	if s == nil || s.communities == nil {
		return nil, fmt.Errorf("community repository not configured")
	}
	communities, err := s.communities.ListCommunities(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return communities, nil
}

// DeleteCommunity removes a community. Goals that referenced it revert to
// personal goals.
func (s *CommunityService) DeleteCommunity(ctx context.Context, principal Principal, communityID string) error {
	if s == nil || s.communities == nil {
		return fmt.Errorf("community repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}

	if _, err := s.communities.GetCommunity(ctx, communityID); err != nil {
		return mapRepoError(err)
	}
	if err := s.communities.DeleteCommunity(ctx, communityID); err != nil {
		return mapRepoError(err)
	}

	s.loggerWith(ctx, "DeleteCommunity", "community_id", communityID).InfoContext(ctx, "community deleted")
	return nil
}
