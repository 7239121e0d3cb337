package application

import "time"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// GoalInput captures caller provided goal fields.
type GoalInput struct {
	OwnerID     string
	CommunityID *string
	Title       string
	Description string
	Deadline    *string
}

// Goal represents a persisted goal.
type Goal struct {
	ID          string
	OwnerID     string
	CommunityID *string
	Title       string
	Description string
	Deadline    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateGoalParams wraps the data required to create a goal.
type CreateGoalParams struct {
	Principal Principal
	Input     GoalInput
}

// UpdateGoalParams wraps the data required to update an existing goal.
type UpdateGoalParams struct {
	Principal Principal
	GoalID    string
	Input     GoalInput
}

// ActionableInput captures caller provided actionable fields.
type ActionableInput struct {
	GoalID          string
	Title           string
	Description     string
	RecurrenceRule  *string
	StartDate       string
	EndDate         *string
	StartTime       *string
	DurationMinutes *int
	Timezone        *string
	Color           *string
	ExceptionDates  *string
}

// Actionable represents a persisted actionable.
type Actionable struct {
	ID              string
	GoalID          string
	Title           string
	Description     string
	RecurrenceRule  *string
	StartDate       string
	EndDate         *string
	StartTime       *string
	DurationMinutes *int
	Timezone        *string
	IsPaused        bool
	PausedUntil     *time.Time
	IsArchived      bool
	Color           *string
	ExceptionDates  *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateActionableParams wraps the data required to create an actionable.
type CreateActionableParams struct {
	Principal Principal
	Input     ActionableInput
}

// UpdateActionableParams wraps the data required to update an actionable.
type UpdateActionableParams struct {
	Principal    Principal
	ActionableID string
	Input        ActionableInput
}

// PauseActionableParams wraps the data required to pause an actionable. A nil
// Until pauses indefinitely; otherwise occurrences resume at that instant.
type PauseActionableParams struct {
	Principal    Principal
	ActionableID string
	Until        *time.Time
}

// CompletionInput captures caller provided completion fields. OccurrenceStart
// must be the exact start instant of the occurrence being completed.
type CompletionInput struct {
	ActionableID    string
	OccurrenceStart time.Time
	Notes           *string
}

// Completion represents a persisted completion record.
type Completion struct {
	ID              string
	ActionableID    string
	OccurrenceStart time.Time
	Notes           *string
	CompletedAt     time.Time
}

// RecordCompletionParams wraps the data required to record a completion.
type RecordCompletionParams struct {
	Principal Principal
	Input     CompletionInput
}

// CommunityInput captures caller provided community fields.
type CommunityInput struct {
	Name        string
	Description string
}

// Community represents a social grouping goals can be shared into.
type Community struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateCommunityParams wraps the data required to create a community.
type CreateCommunityParams struct {
	Principal Principal
	Input     CommunityInput
}

// UpdateCommunityParams wraps the data required to update a community.
type UpdateCommunityParams struct {
	Principal   Principal
	CommunityID string
	Input       CommunityInput
}

// UserInput captures caller provided user attributes.
type UserInput struct {
	Email       string
	DisplayName string
	Password    string
	IsAdmin     bool
}

// User represents a member account exposed by the application services.
type User struct {
	ID          string
	Email       string
	DisplayName string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateUserParams wraps the data required to create a user.
type CreateUserParams struct {
	Principal Principal
	Input     UserInput
}

// UpdateUserParams wraps the data required to update a user.
type UpdateUserParams struct {
	Principal Principal
	UserID    string
	Input     UserInput
}

// UserCredentials pairs a user with the authentication state the auth
// service needs.
type UserCredentials struct {
	User           User
	PasswordHash   string
	Disabled       bool
	FailedAttempts int
	LastFailedAt   *time.Time
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID          string
	UserID      string
	Token       string
	Fingerprint string
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	RevokedAt   *time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email       string
	Password    string
	Fingerprint string
}

// AuthenticateResult captures the outcome of a successful authentication.
type AuthenticateResult struct {
	User    User
	Session Session
}

// ListCalendarParams wraps the data required to materialize a calendar range.
type ListCalendarParams struct {
	Principal  Principal
	UserID     string
	RangeStart time.Time
	RangeEnd   time.Time
}
