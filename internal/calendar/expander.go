package calendar

import (
	"sort"
	"time"
)

// Expand produces the ordered occurrence instants for one actionable inside
// the inclusive window [windowStart, windowEnd].
//
// Without a rule, the anchor itself is the only candidate. With a rule, the
// expansion is anchored at the anchor instant and evaluated in the given zone:
// each occurrence keeps the anchor's local wall-clock time, so a 07:00 daily
// rule stays at 07:00 local across DST transitions even though the UTC offset
// changes between occurrences. Nothing before the anchor is ever emitted.
func Expand(anchor time.Time, rule *Rule, loc *time.Location, windowStart, windowEnd time.Time) []time.Time {
	if loc == nil {
		loc = time.UTC
	}

	if rule == nil {
		if anchor.Before(windowStart) || anchor.After(windowEnd) {
			return nil
		}
		return []time.Time{anchor}
	}

	upper := windowEnd
	if rule.Until != nil && rule.Until.Before(upper) {
		upper = *rule.Until
	}
	if upper.Before(windowStart) || upper.Before(anchor) {
		return nil
	}

	interval := rule.Interval
	if interval <= 0 {
		interval = 1
	}

	local := anchor.In(loc)
	year, month, day := local.Date()
	hour, minute, second := local.Clock()

	occurrenceOn := func(dayOffset int) time.Time {
		return time.Date(year, month, day+dayOffset, hour, minute, second, 0, loc)
	}

	switch rule.Freq {
	case FrequencyDaily:
		return expandDaily(anchor, interval, occurrenceOn, dayDistance(local, windowStart, loc), windowStart, upper)
	case FrequencyWeekly:
		return expandWeekly(anchor, rule, interval, local, occurrenceOn, windowStart, upper, loc)
	case FrequencyMonthly:
		return expandMonthly(anchor, interval, local, windowStart, upper, loc)
	default:
		return nil
	}
}

func expandDaily(anchor time.Time, interval int, occurrenceOn func(int) time.Time, startDistance int, windowStart, upper time.Time) []time.Time {
	first := 0
	if startDistance > 0 {
		// Jump to the last aligned step at or before the window start; the
		// loop filter discards it if its instant precedes the bound.
		first = (startDistance / interval) * interval
	}

	occurrences := make([]time.Time, 0)
	for offset := first; ; offset += interval {
		occ := occurrenceOn(offset)
		if occ.After(upper) {
			break
		}
		if occ.Before(anchor) || occ.Before(windowStart) {
			continue
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences
}

func expandWeekly(anchor time.Time, rule *Rule, interval int, local time.Time, occurrenceOn func(int) time.Time, windowStart, upper time.Time, loc *time.Location) []time.Time {
	weekdays := rule.Weekdays
	if len(weekdays) == 0 {
		weekdays = []time.Weekday{local.Weekday()}
	}
	offsets := weekdayOffsets(weekdays)

	// Week buckets start on Monday, anchored to the week containing the
	// anchor date. The anchor's offset from its week start rebases day
	// arithmetic onto week boundaries.
	anchorWeekdayOffset := mondayOffset(local.Weekday())

	firstWeek := 0
	if distance := dayDistance(local, windowStart, loc) + anchorWeekdayOffset; distance > 0 {
		firstWeek = distance / 7 / interval
	}

	occurrences := make([]time.Time, 0)
	for week := firstWeek; ; week++ {
		weekStartOffset := week*interval*7 - anchorWeekdayOffset
		exhausted := true
		for _, weekdayOffset := range offsets {
			occ := occurrenceOn(weekStartOffset + weekdayOffset)
			if occ.After(upper) {
				continue
			}
			exhausted = false
			if occ.Before(anchor) || occ.Before(windowStart) {
				continue
			}
			occurrences = append(occurrences, occ)
		}
		if exhausted {
			break
		}
	}
	return occurrences
}

func expandMonthly(anchor time.Time, interval int, local time.Time, windowStart, upper time.Time, loc *time.Location) []time.Time {
	year, month, day := local.Date()
	hour, minute, second := local.Clock()

	firstMonth := 0
	startLocal := windowStart.In(loc)
	if months := (startLocal.Year()-year)*12 + int(startLocal.Month()) - int(month); months > 0 {
		firstMonth = (months / interval) - 1
		if firstMonth < 0 {
			firstMonth = 0
		}
	}

	occurrences := make([]time.Time, 0)
	for offset := firstMonth; ; offset++ {
		monthStart := time.Date(year, month+time.Month(offset*interval), 1, 0, 0, 0, 0, loc)
		if monthStart.After(upper) {
			break
		}
		occ := time.Date(year, month+time.Month(offset*interval), day, hour, minute, second, 0, loc)
		// Months without the anchor's day of month (e.g. the 31st in
		// February) normalize past the intended month and are skipped.
		if occ.Day() != day {
			continue
		}
		if occ.After(upper) || occ.Before(anchor) || occ.Before(windowStart) {
			continue
		}
		occurrences = append(occurrences, occ)
	}
	return occurrences
}

// dayDistance counts civil days from the anchor's local date to the instant's
// local date. Calendar arithmetic on UTC midnights keeps the count exact
// across DST transitions, where elapsed hours between local midnights vary.
func dayDistance(anchorLocal, t time.Time, loc *time.Location) int {
	ay, am, ad := anchorLocal.Date()
	ty, tm, td := t.In(loc).Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from) / (24 * time.Hour))
}

// mondayOffset maps a weekday to its position in a Monday-start week.
func mondayOffset(day time.Weekday) int {
	return (int(day) + 6) % 7
}

func weekdayOffsets(weekdays []time.Weekday) []int {
	seen := make(map[int]struct{}, len(weekdays))
	offsets := make([]int, 0, len(weekdays))
	for _, day := range weekdays {
		offset := mondayOffset(day)
		if _, ok := seen[offset]; ok {
			continue
		}
		seen[offset] = struct{}{}
		offsets = append(offsets, offset)
	}
	sort.Ints(offsets)
	return offsets
}
