// Package rules implements first-match lookups over sorted rule lists: tiered
// thresholds ("at least N gets outcome X") and calendar windows ("this date falls in
// window i"). Both reduce to scanning an ordered list and taking the first rule that
// accepts the input.
package rules

import (
	"sort"
	"time"
)

// FirstMatch returns the index of the first rule accepted by match, or -1.
func FirstMatch[R any](rules []R, match func(R) bool) int {
	for i, rule := range rules {
		if match(rule) {
			return i
		}
	}
	return -1
}

// Threshold selects Outcome for any value greater than or equal to Min.
type Threshold[T any] struct {
	Min     float64
	Outcome T
}

// Tiers is a list of thresholds ordered by descending Min so the first match is the
// highest tier reached.
type Tiers[T any] []Threshold[T]

// NewTiers returns the thresholds sorted by descending Min. Equal minimums keep
// their given order.
func NewTiers[T any](thresholds ...Threshold[T]) Tiers[T] {
	tiers := make(Tiers[T], len(thresholds))
	copy(tiers, thresholds)
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].Min > tiers[j].Min
	})
	return tiers
}

// Lookup returns the outcome of the highest tier whose Min is at or below value.
func (t Tiers[T]) Lookup(value float64) (T, bool) {
	i := FirstMatch(t, func(th Threshold[T]) bool {
		return value >= th.Min
	})
	if i < 0 {
		var zero T
		return zero, false
	}
	return t[i].Outcome, true
}

// Window is a closed interval of calendar time [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Overlaps reports whether [start, end] shares at least one instant with the window.
func (w Window) Overlaps(start, end time.Time) bool {
	return !start.After(w.End) && !end.Before(w.Start)
}

// WindowFor returns the index of the first window containing t, or -1.
func WindowFor(windows []Window, t time.Time) int {
	return FirstMatch(windows, func(w Window) bool {
		return w.Contains(t)
	})
}
