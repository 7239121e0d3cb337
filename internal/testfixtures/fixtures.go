package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/goal-tracker/internal/application"
	"github.com/example/goal-tracker/internal/persistence"
)

var (
	userCounter       uint64
	communityCounter  uint64
	goalCounter       uint64
	actionableCounter uint64
	completionCounter uint64
)

var referenceTime = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic user record that can be materialised
// for application or persistence tests.
type UserFixture struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	IsAdmin      bool
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := UserFixture{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		DisplayName:  fmt.Sprintf("User %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) {
		f.ID = id
	}
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) {
		f.Email = email
	}
}

// WithUserDisplayName overrides the generated display name.
func WithUserDisplayName(name string) UserOption {
	return func(f *UserFixture) {
		f.DisplayName = name
	}
}

// WithUserPasswordHash overrides the generated password hash.
func WithUserPasswordHash(hash string) UserOption {
	return func(f *UserFixture) {
		f.PasswordHash = hash
	}
}

// WithUserAdmin sets the admin flag on the generated fixture.
func WithUserAdmin(isAdmin bool) UserOption {
	return func(f *UserFixture) {
		f.IsAdmin = isAdmin
	}
}

// WithUserDisabled marks the account as disabled.
func WithUserDisabled(disabled bool) UserOption {
	return func(f *UserFixture) {
		f.Disabled = disabled
	}
}

// WithUserTimestamps sets both created and updated timestamps on the fixture.
func WithUserTimestamps(created, updated time.Time) UserOption {
	return func(f *UserFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// Application returns the fixture as an application.User value.
func (f UserFixture) Application() application.User {
	return application.User{
		ID:          f.ID,
		Email:       f.Email,
		DisplayName: f.DisplayName,
		IsAdmin:     f.IsAdmin,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Credentials returns the fixture as application.UserCredentials.
func (f UserFixture) Credentials() application.UserCredentials {
	return application.UserCredentials{
		User:         f.Application(),
		PasswordHash: f.PasswordHash,
		Disabled:     f.Disabled,
	}
}

// Principal returns an application.Principal derived from the fixture.
func (f UserFixture) Principal() application.Principal {
	return application.Principal{UserID: f.ID, IsAdmin: f.IsAdmin}
}

// Persistence returns the fixture as a persistence.User value.
func (f UserFixture) Persistence() persistence.User {
	return persistence.User{
		ID:           f.ID,
		Email:        f.Email,
		DisplayName:  f.DisplayName,
		IsAdmin:      f.IsAdmin,
		PasswordHash: f.PasswordHash,
		Disabled:     f.Disabled,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}

// Input returns the fixture as an application.UserInput.
func (f UserFixture) Input() application.UserInput {
	return application.UserInput{
		Email:       f.Email,
		DisplayName: f.DisplayName,
		IsAdmin:     f.IsAdmin,
	}
}

// --------------------------- Community fixtures ---------------------------

// CommunityFixture represents a deterministic community record.
type CommunityFixture struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CommunityOption configures the generated community fixture.
type CommunityOption func(*CommunityFixture)

// NewCommunityFixture returns a deterministic community fixture with optional
// overrides.
func NewCommunityFixture(opts ...CommunityOption) CommunityFixture {
	idx := atomic.AddUint64(&communityCounter, 1)
	id := fmt.Sprintf("community-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := CommunityFixture{
		ID:          id,
		Name:        fmt.Sprintf("Community %03d", idx),
		Description: "",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithCommunityID overrides the generated community ID.
func WithCommunityID(id string) CommunityOption {
	return func(f *CommunityFixture) {
		f.ID = id
	}
}

// WithCommunityName overrides the generated community name.
func WithCommunityName(name string) CommunityOption {
	return func(f *CommunityFixture) {
		f.Name = name
	}
}

// WithCommunityDescription sets the description on the fixture.
func WithCommunityDescription(description string) CommunityOption {
	return func(f *CommunityFixture) {
		f.Description = description
	}
}

// Application returns the fixture as an application.Community value.
func (f CommunityFixture) Application() application.Community {
	return application.Community{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Community value.
func (f CommunityFixture) Persistence() persistence.Community {
	return persistence.Community{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Input returns the fixture as an application.CommunityInput.
func (f CommunityFixture) Input() application.CommunityInput {
	return application.CommunityInput{
		Name:        f.Name,
		Description: f.Description,
	}
}

// ----------------------------- Goal fixtures -----------------------------

// GoalFixture represents a deterministic goal record.
type GoalFixture struct {
	ID          string
	OwnerID     string
	CommunityID *string
	Title       string
	Description string
	Deadline    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GoalOption configures the generated goal fixture.
type GoalOption func(*GoalFixture)

// NewGoalFixture returns a deterministic goal fixture with optional overrides.
func NewGoalFixture(opts ...GoalOption) GoalFixture {
	idx := atomic.AddUint64(&goalCounter, 1)
	id := fmt.Sprintf("goal-%03d", idx)
	owner := fmt.Sprintf("user-%03d", idx)
	fixture := GoalFixture{
		ID:          id,
		OwnerID:     owner,
		Title:       fmt.Sprintf("Goal %03d", idx),
		Description: "",
		CreatedAt:   referenceTime,
		UpdatedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithGoalID overrides the goal ID.
func WithGoalID(id string) GoalOption {
	return func(f *GoalFixture) {
		f.ID = id
	}
}

// WithGoalOwner sets the owner ID.
func WithGoalOwner(id string) GoalOption {
	return func(f *GoalFixture) {
		f.OwnerID = id
	}
}

// WithGoalCommunity shares the goal into the given community.
func WithGoalCommunity(id string) GoalOption {
	return func(f *GoalFixture) {
		value := id
		f.CommunityID = &value
	}
}

// WithGoalTitle overrides the title.
func WithGoalTitle(title string) GoalOption {
	return func(f *GoalFixture) {
		f.Title = title
	}
}

// WithGoalDescription sets the description field.
func WithGoalDescription(description string) GoalOption {
	return func(f *GoalFixture) {
		f.Description = description
	}
}

// WithGoalDeadline sets the deadline, a YYYY-MM-DD local date.
func WithGoalDeadline(deadline string) GoalOption {
	return func(f *GoalFixture) {
		value := deadline
		f.Deadline = &value
	}
}

// Application returns the fixture as an application.Goal value.
func (f GoalFixture) Application() application.Goal {
	return application.Goal{
		ID:          f.ID,
		OwnerID:     f.OwnerID,
		CommunityID: copyStringPtr(f.CommunityID),
		Title:       f.Title,
		Description: f.Description,
		Deadline:    copyStringPtr(f.Deadline),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Goal value.
func (f GoalFixture) Persistence() persistence.Goal {
	return persistence.Goal{
		ID:          f.ID,
		OwnerID:     f.OwnerID,
		CommunityID: copyStringPtr(f.CommunityID),
		Title:       f.Title,
		Description: f.Description,
		Deadline:    copyStringPtr(f.Deadline),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Input returns the fixture as an application.GoalInput.
func (f GoalFixture) Input() application.GoalInput {
	return application.GoalInput{
		OwnerID:     f.OwnerID,
		CommunityID: copyStringPtr(f.CommunityID),
		Title:       f.Title,
		Description: f.Description,
		Deadline:    copyStringPtr(f.Deadline),
	}
}

// -------------------------- Actionable fixtures --------------------------

// ActionableFixture represents a deterministic actionable record. The default
// fixture is a one-off task starting on the reference date with the standard
// 09:00 UTC anchor.
type ActionableFixture struct {
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

// ActionableOption configures the generated actionable fixture.
type ActionableOption func(*ActionableFixture)

// NewActionableFixture returns a deterministic actionable fixture with
// optional overrides.
func NewActionableFixture(opts ...ActionableOption) ActionableFixture {
	idx := atomic.AddUint64(&actionableCounter, 1)
	id := fmt.Sprintf("actionable-%03d", idx)
	fixture := ActionableFixture{
		ID:        id,
		GoalID:    fmt.Sprintf("goal-%03d", idx),
		Title:     fmt.Sprintf("Actionable %03d", idx),
		StartDate: referenceTime.Format("2006-01-02"),
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithActionableID overrides the actionable ID.
func WithActionableID(id string) ActionableOption {
	return func(f *ActionableFixture) {
		f.ID = id
	}
}

// WithActionableGoal sets the owning goal ID.
func WithActionableGoal(id string) ActionableOption {
	return func(f *ActionableFixture) {
		f.GoalID = id
	}
}

// WithActionableTitle overrides the title.
func WithActionableTitle(title string) ActionableOption {
	return func(f *ActionableFixture) {
		f.Title = title
	}
}

// WithActionableRecurrence sets the recurrence rule string, for example
// "FREQ=WEEKLY;BYDAY=MO,WE".
func WithActionableRecurrence(rule string) ActionableOption {
	return func(f *ActionableFixture) {
		value := rule
		f.RecurrenceRule = &value
	}
}

// WithActionableDates sets the start date and, when end is non-empty, the end
// date. Both are YYYY-MM-DD local dates.
func WithActionableDates(start, end string) ActionableOption {
	return func(f *ActionableFixture) {
		f.StartDate = start
		if end == "" {
			f.EndDate = nil
			return
		}
		value := end
		f.EndDate = &value
	}
}

// WithActionableSchedule sets the wall-clock start time, duration, and
// timezone used for occurrence anchoring.
func WithActionableSchedule(startTime string, durationMinutes int, timezone string) ActionableOption {
	return func(f *ActionableFixture) {
		st := startTime
		dm := durationMinutes
		tz := timezone
		f.StartTime = &st
		f.DurationMinutes = &dm
		f.Timezone = &tz
	}
}

// WithActionablePaused marks the fixture as paused until the given instant. A
// nil until pauses indefinitely.
func WithActionablePaused(until *time.Time) ActionableOption {
	return func(f *ActionableFixture) {
		f.IsPaused = true
		if until == nil {
			f.PausedUntil = nil
			return
		}
		value := *until
		f.PausedUntil = &value
	}
}

// WithActionableArchived marks the fixture as archived.
func WithActionableArchived() ActionableOption {
	return func(f *ActionableFixture) {
		f.IsArchived = true
		f.IsPaused = false
		f.PausedUntil = nil
	}
}

// WithActionableColor sets the display color, a #RRGGBB hex string.
func WithActionableColor(color string) ActionableOption {
	return func(f *ActionableFixture) {
		value := color
		f.Color = &value
	}
}

// WithActionableExceptions sets the comma separated exception date list.
func WithActionableExceptions(dates string) ActionableOption {
	return func(f *ActionableFixture) {
		value := dates
		f.ExceptionDates = &value
	}
}

// Application returns the fixture as an application.Actionable value.
func (f ActionableFixture) Application() application.Actionable {
	return application.Actionable{
		ID:              f.ID,
		GoalID:          f.GoalID,
		Title:           f.Title,
		Description:     f.Description,
		RecurrenceRule:  copyStringPtr(f.RecurrenceRule),
		StartDate:       f.StartDate,
		EndDate:         copyStringPtr(f.EndDate),
		StartTime:       copyStringPtr(f.StartTime),
		DurationMinutes: copyIntPtr(f.DurationMinutes),
		Timezone:        copyStringPtr(f.Timezone),
		IsPaused:        f.IsPaused,
		PausedUntil:     copyTimePtr(f.PausedUntil),
		IsArchived:      f.IsArchived,
		Color:           copyStringPtr(f.Color),
		ExceptionDates:  copyStringPtr(f.ExceptionDates),
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

// Persistence returns the fixture as a persistence.Actionable value.
func (f ActionableFixture) Persistence() persistence.Actionable {
	return persistence.Actionable{
		ID:              f.ID,
		GoalID:          f.GoalID,
		Title:           f.Title,
		Description:     f.Description,
		RecurrenceRule:  copyStringPtr(f.RecurrenceRule),
		StartDate:       f.StartDate,
		EndDate:         copyStringPtr(f.EndDate),
		StartTime:       copyStringPtr(f.StartTime),
		DurationMinutes: copyIntPtr(f.DurationMinutes),
		Timezone:        copyStringPtr(f.Timezone),
		IsPaused:        f.IsPaused,
		PausedUntil:     copyTimePtr(f.PausedUntil),
		IsArchived:      f.IsArchived,
		Color:           copyStringPtr(f.Color),
		ExceptionDates:  copyStringPtr(f.ExceptionDates),
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}

// Input returns the fixture as an application.ActionableInput.
func (f ActionableFixture) Input() application.ActionableInput {
	return application.ActionableInput{
		GoalID:          f.GoalID,
		Title:           f.Title,
		Description:     f.Description,
		RecurrenceRule:  copyStringPtr(f.RecurrenceRule),
		StartDate:       f.StartDate,
		EndDate:         copyStringPtr(f.EndDate),
		StartTime:       copyStringPtr(f.StartTime),
		DurationMinutes: copyIntPtr(f.DurationMinutes),
		Timezone:        copyStringPtr(f.Timezone),
		Color:           copyStringPtr(f.Color),
		ExceptionDates:  copyStringPtr(f.ExceptionDates),
	}
}

// -------------------------- Completion fixtures --------------------------

// CompletionFixture represents a deterministic per-occurrence completion.
type CompletionFixture struct {
	ID              string
	ActionableID    string
	OccurrenceStart time.Time
	Notes           *string
	CompletedAt     time.Time
	CreatedAt       time.Time
}

// CompletionOption configures the generated completion fixture.
type CompletionOption func(*CompletionFixture)

// NewCompletionFixture returns a deterministic completion fixture with
// optional overrides.
func NewCompletionFixture(opts ...CompletionOption) CompletionFixture {
	idx := atomic.AddUint64(&completionCounter, 1)
	id := fmt.Sprintf("completion-%03d", idx)
	occurrence := referenceTime.Add(time.Duration(idx) * 24 * time.Hour)
	fixture := CompletionFixture{
		ID:              id,
		ActionableID:    fmt.Sprintf("actionable-%03d", idx),
		OccurrenceStart: occurrence,
		CompletedAt:     occurrence.Add(time.Hour),
		CreatedAt:       occurrence.Add(time.Hour),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithCompletionID overrides the completion ID.
func WithCompletionID(id string) CompletionOption {
	return func(f *CompletionFixture) {
		f.ID = id
	}
}

// WithCompletionActionable sets the completed actionable ID.
func WithCompletionActionable(id string) CompletionOption {
	return func(f *CompletionFixture) {
		f.ActionableID = id
	}
}

// WithCompletionOccurrence sets the occurrence start instant.
func WithCompletionOccurrence(start time.Time) CompletionOption {
	return func(f *CompletionFixture) {
		f.OccurrenceStart = start
	}
}

// WithCompletionNotes sets the notes field.
func WithCompletionNotes(notes string) CompletionOption {
	return func(f *CompletionFixture) {
		value := notes
		f.Notes = &value
	}
}

// WithCompletionTime sets the completed-at timestamp.
func WithCompletionTime(completedAt time.Time) CompletionOption {
	return func(f *CompletionFixture) {
		f.CompletedAt = completedAt
		f.CreatedAt = completedAt
	}
}

// Application returns the fixture as an application.Completion value.
func (f CompletionFixture) Application() application.Completion {
	return application.Completion{
		ID:              f.ID,
		ActionableID:    f.ActionableID,
		OccurrenceStart: f.OccurrenceStart,
		Notes:           copyStringPtr(f.Notes),
		CompletedAt:     f.CompletedAt,
	}
}

// Persistence returns the fixture as a persistence.ActionableCompletion value.
func (f CompletionFixture) Persistence() persistence.ActionableCompletion {
	return persistence.ActionableCompletion{
		ID:              f.ID,
		ActionableID:    f.ActionableID,
		OccurrenceStart: f.OccurrenceStart,
		Notes:           copyStringPtr(f.Notes),
		CompletedAt:     f.CompletedAt,
		CreatedAt:       f.CreatedAt,
	}
}

// Input returns the fixture as an application.CompletionInput.
func (f CompletionFixture) Input() application.CompletionInput {
	return application.CompletionInput{
		ActionableID:    f.ActionableID,
		OccurrenceStart: f.OccurrenceStart,
		Notes:           copyStringPtr(f.Notes),
	}
}

func copyStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func copyIntPtr(value *int) *int {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func copyTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
