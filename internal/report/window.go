// Package report derives the weekly activity view and produces the
// AI-generated summary from a bounded sample of recent logs.
package report

import (
	"time"

	"github.com/pollenhq/pollen/internal/store"
)

// WindowDays is the report lookback.
const WindowDays = 7

// Window returns the logs created strictly after now minus seven days,
// each included exactly once.
func Window(logs []store.WorkLog, now time.Time) []store.WorkLog {
	cutoff := now.AddDate(0, 0, -WindowDays).UnixMilli()
	var out []store.WorkLog
	for _, l := range logs {
		if l.CreatedAt > cutoff {
			out = append(out, l)
		}
	}
	return out
}

// Buckets partitions logs by status; every log lands in exactly one.
type Buckets struct {
	Done       []store.WorkLog `json:"done"`
	InProgress []store.WorkLog `json:"in_progress"`
	Blocked    []store.WorkLog `json:"blocked"`
}

// BucketByStatus splits logs into the three status buckets.
func BucketByStatus(logs []store.WorkLog) Buckets {
	var b Buckets
	for _, l := range logs {
		switch l.Status {
		case store.StatusDone:
			b.Done = append(b.Done, l)
		case store.StatusBlocked:
			b.Blocked = append(b.Blocked, l)
		default:
			b.InProgress = append(b.InProgress, l)
		}
	}
	return b
}
