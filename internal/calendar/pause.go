package calendar

import "time"

// ResolveWindowStart computes the effective expansion window start for an
// actionable from its pause state. The second return value is false when the
// actionable is paused with no resume instant: it contributes nothing until
// it is explicitly resumed.
//
// A paused actionable with a resume instant suppresses occurrences before
// that instant even when the caller's requested window begins earlier.
func ResolveWindowStart(isPaused bool, pausedUntil *time.Time, requested time.Time) (time.Time, bool) {
	if !isPaused {
		return requested, true
	}
	if pausedUntil == nil {
		return time.Time{}, false
	}
	if pausedUntil.After(requested) {
		return *pausedUntil, true
	}
	return requested, true
}
