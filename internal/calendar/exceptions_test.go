package calendar

import "testing"

func TestParseExceptionDates_NormalizesMixedForms(t *testing.T) {
	t.Parallel()

	set := ParseExceptionDates("2024-03-11, 20240315,2024/03/20")

	for _, key := range []string{"2024-03-11", "2024-03-15", "2024-03-20"} {
		if !set.Contains(key) {
			t.Errorf("expected set to contain %s", key)
		}
	}
	if len(set) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(set))
	}
}

func TestParseExceptionDates_DropsUnparseableEntries(t *testing.T) {
	t.Parallel()

	set := ParseExceptionDates("garbage, 2024-03-11, , next tuesday")

	if len(set) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(set))
	}
	if !set.Contains("2024-03-11") {
		t.Fatal("expected the valid entry to survive")
	}
}

func TestParseExceptionDates_EmptyInput(t *testing.T) {
	t.Parallel()

	set := ParseExceptionDates("")
	if len(set) != 0 {
		t.Fatalf("expected empty set, got %d entries", len(set))
	}
	if set.Contains("2024-03-11") {
		t.Fatal("empty set must not contain anything")
	}
}
