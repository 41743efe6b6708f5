package rules

import (
	"testing"
	"time"
)

func TestFirstMatch(t *testing.T) {
	values := []int{3, 8, 12, 8}

	tests := []struct {
		name     string
		match    func(int) bool
		expected int
	}{
		{"First of duplicates", func(v int) bool { return v == 8 }, 1},
		{"First element", func(v int) bool { return v > 0 }, 0},
		{"No match", func(v int) bool { return v > 100 }, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FirstMatch(values, tt.match); got != tt.expected {
				t.Errorf("FirstMatch() = %d, expected %d", got, tt.expected)
			}
		})
	}

	if got := FirstMatch(nil, func(int) bool { return true }); got != -1 {
		t.Errorf("FirstMatch(nil) = %d, expected -1", got)
	}
}

func TestTiersLookup(t *testing.T) {
	// Deliberately unsorted: NewTiers orders them.
	refunds := NewTiers(
		Threshold[int]{Min: 7, Outcome: 50},
		Threshold[int]{Min: 30, Outcome: 100},
		Threshold[int]{Min: 0, Outcome: 0},
	)

	tests := []struct {
		name     string
		value    float64
		expected int
		found    bool
	}{
		{"Top tier", 45, 100, true},
		{"Exactly on boundary", 30, 100, true},
		{"Middle tier", 10, 50, true},
		{"Bottom tier", 0, 0, true},
		{"Below every tier", -1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := refunds.Lookup(tt.value)
			if ok != tt.found || got != tt.expected {
				t.Errorf("Lookup(%v) = (%d, %v), expected (%d, %v)", tt.value, got, ok, tt.expected, tt.found)
			}
		})
	}
}

func TestNewTiersStableForEqualMinimums(t *testing.T) {
	tiers := NewTiers(
		Threshold[string]{Min: 10, Outcome: "first"},
		Threshold[string]{Min: 10, Outcome: "second"},
	)
	if got, _ := tiers.Lookup(10); got != "first" {
		t.Errorf("Lookup() = %s, expected first", got)
	}
}

func TestWindowFor(t *testing.T) {
	jan := Window{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
	}
	feb := Window{
		Start: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
	}
	windows := []Window{jan, feb}

	tests := []struct {
		name     string
		t        time.Time
		expected int
	}{
		{"Start of first window", jan.Start, 0},
		{"End of first window", jan.End, 0},
		{"Leap day", feb.End, 1},
		{"Before all windows", time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC), -1},
		{"After all windows", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WindowFor(windows, tt.t); got != tt.expected {
				t.Errorf("WindowFor(%s) = %d, expected %d", tt.t.Format("2006-01-02"), got, tt.expected)
			}
		})
	}
}

func TestWindowOverlaps(t *testing.T) {
	w := Window{
		Start: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name       string
		start, end time.Time
		expected   bool
	}{
		{"Inside", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), true},
		{"Touches start", time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC), w.Start, true},
		{"Touches end", w.End, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), true},
		{"Spans whole window", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"Entirely before", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"Entirely after", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Overlaps(tt.start, tt.end); got != tt.expected {
				t.Errorf("Overlaps() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
