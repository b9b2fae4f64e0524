// Package worklog owns the work log lifecycle and its manual ordering:
// a user-controlled dense ranking that overrides the default
// newest-first chronological sort.
package worklog

import (
	"sort"

	"github.com/pollenhq/pollen/internal/store"
)

// Direction of a manual reorder.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Compare is the display comparator: explicit sort order wins when both
// logs carry one, otherwise newer creation time sorts first. Returns a
// negative value when a sorts before b, zero when equal.
func Compare(a, b store.WorkLog) int {
	if a.SortOrder != store.UnsetOrder && b.SortOrder != store.UnsetOrder {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder - b.SortOrder
		}
	}
	switch {
	case a.CreatedAt > b.CreatedAt:
		return -1
	case a.CreatedAt < b.CreatedAt:
		return 1
	}
	return 0
}

// SortForDisplay stable-sorts a copy of logs with Compare, preserving the
// relative input order of equal keys.
func SortForDisplay(logs []store.WorkLog) []store.WorkLog {
	out := make([]store.WorkLog, len(logs))
	copy(out, logs)
	sort.SliceStable(out, func(i, j int) bool {
		return Compare(out[i], out[j]) < 0
	})
	return out
}

// Normalize assigns each unordered log its index in the input sequence
// (expected newest-first), sorts by order, and rewrites orders to a dense
// 0..n-1 run. Normalizing an already-normalized sequence is a no-op.
func Normalize(logs []store.WorkLog) []store.WorkLog {
	out := make([]store.WorkLog, len(logs))
	copy(out, logs)
	for i := range out {
		if out[i].SortOrder == store.UnsetOrder {
			out[i].SortOrder = i
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	for i := range out {
		out[i].SortOrder = i
	}
	return out
}

// InsertNewest places l at position 0 and shifts every ordered log down
// by one, keeping newest-first as the default until the user reorders.
func InsertNewest(l store.WorkLog, existing []store.WorkLog) []store.WorkLog {
	l.SortOrder = 0
	out := make([]store.WorkLog, 0, len(existing)+1)
	out = append(out, l)
	for _, e := range existing {
		if e.SortOrder != store.UnsetOrder {
			e.SortOrder++
		}
		out = append(out, e)
	}
	return out
}

// Move swaps the log at index with its neighbor in the given direction
// and rewrites orders densely. Out-of-range targets leave the sequence
// unchanged.
func Move(logs []store.WorkLog, index int, dir Direction) []store.WorkLog {
	if index < 0 || index >= len(logs) {
		return logs
	}
	target := index - 1
	if dir == Down {
		target = index + 1
	}
	if target < 0 || target >= len(logs) {
		return logs
	}
	out := make([]store.WorkLog, len(logs))
	copy(out, logs)
	out[index], out[target] = out[target], out[index]
	for i := range out {
		out[i].SortOrder = i
	}
	return out
}
