package persistence

import "time"

// User represents a member account on the platform.
type User struct {
	ID             string
	Email          string
	DisplayName    string
	IsAdmin        bool
	PasswordHash   string
	Disabled       bool
	FailedAttempts int
	LastFailedAt   *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Session represents an authentication session persisted for a user.
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

// Community represents a social grouping that goals can be shared into.
type Community struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Goal represents a user's goal. Deadline is a local calendar date in
// YYYY-MM-DD form; nil means the goal has no deadline.
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

// Actionable represents a habit or task attached to a goal. StartDate,
// EndDate, and exception dates are local calendar dates; StartTime is a local
// wall-clock time. Together with Timezone they determine the anchor instant
// for recurrence expansion.
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

// ActionableCompletion records that one exact occurrence of an actionable was
// completed. OccurrenceStart is the occurrence's start instant; records whose
// instant no longer matches the current expansion simply never surface.
type ActionableCompletion struct {
	ID              string
	ActionableID    string
	OccurrenceStart time.Time
	Notes           *string
	CompletedAt     time.Time
	CreatedAt       time.Time
}
