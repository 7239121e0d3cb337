package calendar

import "time"

// Entity type labels carried in the extension bag of emitted events.
const (
	EntityTypeGoal       = "goal"
	EntityTypeActionable = "actionable"
)

// ExtendedProps is the opaque extension bag attached to each event item. The
// calendar UI reads it to route clicks and render completion state.
type ExtendedProps struct {
	EntityType      string `json:"entityType"`
	GoalID          string `json:"goalId,omitempty"`
	ActionableID    string `json:"actionableId,omitempty"`
	Description     string `json:"description,omitempty"`
	Completed       bool   `json:"completed,omitempty"`
	CompletionNotes string `json:"completionNotes,omitempty"`
}

// EventItem is one calendar-visible event. Items are computed fresh on every
// query and never persisted; the ID is stable across queries because it is
// derived from the source entity and, for occurrences, the start instant.
type EventItem struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Start           time.Time     `json:"start"`
	End             *time.Time    `json:"end,omitempty"`
	AllDay          bool          `json:"allDay"`
	BackgroundColor string        `json:"backgroundColor,omitempty"`
	BorderColor     string        `json:"borderColor,omitempty"`
	ExtendedProps   ExtendedProps `json:"extendedProps"`
}
