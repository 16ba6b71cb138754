// Package queue turns the vehicle working set into what the dashboard
// shows: filtered, sorted by urgency, and paginated.
package queue

import (
	"sort"
	"time"

	"recondeck/store"
)

// Sort orders vehicles for the work queue and returns a new slice. The
// order is total and stable for fully tied keys:
//
//  1. any process in_progress first (work in hand stays on top)
//  2. higher priority score
//  3. validated before unvalidated
//  4. among validated: earlier validation date, nil last
//  5. among unvalidated: earlier sale date (FIFO, no starvation)
//
// Rule 3 is normally unreachable given the score tiers but is kept as an
// independent rule in case the score formula changes.
func Sort(vehicles []store.Vehicle) []store.Vehicle {
	sorted := make([]store.Vehicle, len(vehicles))
	copy(sorted, vehicles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(&sorted[i], &sorted[j])
	})
	return sorted
}

func less(a, b *store.Vehicle) bool {
	aInProgress, bInProgress := a.AnyInProgress(), b.AnyInProgress()
	if aInProgress != bInProgress {
		return aInProgress
	}

	if a.PriorityScore != b.PriorityScore {
		return a.PriorityScore > b.PriorityScore
	}

	if a.Validated != b.Validated {
		return a.Validated
	}

	if a.Validated && b.Validated {
		return timeLess(a.ValidationDate, b.ValidationDate)
	}
	return timeLess(a.SaleDate, b.SaleDate)
}

// timeLess orders by ascending time with nil sorting last.
func timeLess(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.Before(*b)
	}
}
