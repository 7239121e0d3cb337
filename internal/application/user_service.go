package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// UserRepository captures the persistence operations needed by the user
// service. An empty passwordHash on update keeps the stored hash.
type UserRepository interface {
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	UpdateUser(ctx context.Context, user User, passwordHash string) (User, error)
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]User, error)
}

const minPasswordLength = 8

// UserService orchestrates validation, authorization, and persistence for
// member accounts.
type UserService struct {
	users       UserRepository
	hashParams  Argon2idParams
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewUserService wires dependencies for the user service.
func NewUserService(users UserRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:       users,
		hashParams:  DefaultArgon2idParams,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// CreateUser registers a new account. Anyone may register; only an
// administrator can grant the admin flag.
func (s *UserService) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	normalized := normalizeUserInput(params.Input)
	if normalized.IsAdmin && !params.Principal.IsAdmin {
		return User{}, ErrUnauthorized
	}

	vErr := validateUserInput(normalized, true)
	if vErr.HasErrors() {
		return User{}, vErr
	}

	passwordHash, err := CreatePasswordHash(normalized.Password, s.hashParams)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	createdAt := s.now()
	user := User{
		ID:          s.idGenerator(),
		Email:       normalized.Email,
		DisplayName: normalized.DisplayName,
		IsAdmin:     normalized.IsAdmin,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	persisted, err := s.users.CreateUser(ctx, user, passwordHash)
	if err != nil {
		return User{}, mapRepoError(err)
	}

	s.loggerWith(ctx, "CreateUser", "user_id", persisted.ID).InfoContext(ctx, "user created")
	return persisted, nil
}

// UpdateUser modifies an account. Users may edit themselves; administrators
// may edit anyone. The password only changes when a new one is supplied.
func (s *UserService) UpdateUser(ctx context.Context, params UpdateUserParams) (User, error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}
	if params.UserID != params.Principal.UserID && !params.Principal.IsAdmin {
		return User{}, ErrUnauthorized
	}

	existing, err := s.users.GetUser(ctx, params.UserID)
	if err != nil {
		return User{}, mapRepoError(err)
	}

	normalized := normalizeUserInput(params.Input)
	if normalized.IsAdmin != existing.IsAdmin && !params.Principal.IsAdmin {
		return User{}, ErrUnauthorized
	}

	vErr := validateUserInput(normalized, normalized.Password != "")
	if vErr.HasErrors() {
		return User{}, vErr
	}

	passwordHash := ""
	if normalized.Password != "" {
		passwordHash, err = CreatePasswordHash(normalized.Password, s.hashParams)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
	}

	updated := existing
	updated.Email = normalized.Email
	updated.DisplayName = normalized.DisplayName
	updated.IsAdmin = normalized.IsAdmin
	updated.UpdatedAt = s.now()

	persisted, err := s.users.UpdateUser(ctx, updated, passwordHash)
	if err != nil {
		return User{}, mapRepoError(err)
	}
	return persisted, nil
}

// GetUser retrieves a single account. Users may view themselves;
// administrators may view anyone.
func (s *UserService) GetUser(ctx context.Context, principal Principal, userID string) (User, error) {
	if s == nil || s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}
	if userID != principal.UserID && !principal.IsAdmin {
		return User{}, ErrUnauthorized
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return User{}, mapRepoError(err)
	}
	return user, nil
}

// ListUsers enumerates every account for administrators, sorted by display
// name.
func (s *UserService) ListUsers(ctx context.Context, principal Principal) ([]User, error) {
	if s == nil || s.users == nil {
		return nil, fmt.Errorf("user repository not configured")
	}
	if !principal.IsAdmin {
		return nil, ErrUnauthorized
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].DisplayName == users[j].DisplayName {
			return users[i].ID < users[j].ID
		}
		return users[i].DisplayName < users[j].DisplayName
	})
	return users, nil
}

// DeleteUser removes an account and everything it owns.
func (s *UserService) DeleteUser(ctx context.Context, principal Principal, userID string) error {
	if s == nil || s.users == nil {
		return fmt.Errorf("user repository not configured")
	}
	if userID != principal.UserID && !principal.IsAdmin {
		return ErrUnauthorized
	}

	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return mapRepoError(err)
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return mapRepoError(err)
	}

	s.loggerWith(ctx, "DeleteUser", "user_id", userID).InfoContext(ctx, "user deleted")
	return nil
}

func normalizeUserInput(input UserInput) UserInput {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	return input
}

func validateUserInput(input UserInput, requirePassword bool) *ValidationError {
	vErr := &ValidationError{}
	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		vErr.add("email", "email must be a valid address")
	}
	if input.DisplayName == "" {
		vErr.add("display_name", "display_name is required")
	}
	if requirePassword {
		if utf8.RuneCountInString(input.Password) < minPasswordLength {
			vErr.add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		}
	}
	return vErr
}
