package calendar

import (
	"strings"
	"time"
)

// exceptionLayouts are the date forms accepted for individual exception
// entries. Entries matching none of them are dropped.
var exceptionLayouts = []string{
	DateLayout,
	"20060102",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

// ExceptionSet is a normalized set of local calendar dates (YYYY-MM-DD keys)
// on which otherwise-matching occurrences are suppressed.
type ExceptionSet map[string]struct{}

// ParseExceptionDates normalizes a comma-delimited list of dates into an
// ExceptionSet. Unparseable entries are silently dropped; a malformed list
// never fails the actionable as a whole.
func ParseExceptionDates(raw string) ExceptionSet {
	set := make(ExceptionSet)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		for _, layout := range exceptionLayouts {
			parsed, err := time.Parse(layout, entry)
			if err != nil {
				continue
			}
			set[parsed.Format(DateLayout)] = struct{}{}
			break
		}
	}
	return set
}

// Contains reports whether the given local date key is excluded.
func (s ExceptionSet) Contains(localDateKey string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[localDateKey]
	return ok
}
