package calendar

import "time"

// Completion is a record that a specific occurrence of an actionable was
// completed. OccurrenceStart must be the exact instant the expander produced
// for that occurrence; the overlay matches by equality only.
type Completion struct {
	ID              string
	ActionableID    string
	OccurrenceStart time.Time
	Notes           string
	CompletedAt     time.Time
}

type completionKey struct {
	actionableID string
	start        int64
}

// CompletionIndex is a lookup of completion records by occurrence identity.
type CompletionIndex map[completionKey]Completion

// IndexCompletions builds a CompletionIndex keyed by (actionableID, exact
// occurrence instant). Records whose instant no longer matches anything the
// expander produces simply never match; they are stale data, not errors.
func IndexCompletions(records []Completion) CompletionIndex {
	index := make(CompletionIndex, len(records))
	for _, record := range records {
		index[completionKey{record.ActionableID, record.OccurrenceStart.UnixNano()}] = record
	}
	return index
}

// Lookup returns the completion record for the given occurrence, if any.
func (idx CompletionIndex) Lookup(actionableID string, start time.Time) (Completion, bool) {
	if len(idx) == 0 {
		return Completion{}, false
	}
	record, ok := idx[completionKey{actionableID, start.UnixNano()}]
	return record, ok
}
