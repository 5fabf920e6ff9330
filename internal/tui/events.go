package tui

import (
	"time"

	"github.com/HealKnix/code-quality-reporter/internal/notify"
	"github.com/HealKnix/code-quality-reporter/internal/report"
)

// TaskID identifies a step in the TUI progress display.
type TaskID int

const (
	TaskResolve      TaskID = iota // Resolving the repository reference
	TaskContributors               // Fetching roster and merge counts
)

// TaskStatus represents the current status of a step.
type TaskStatus int

const (
	StatusPending TaskStatus = iota
	StatusRunning
	StatusComplete
	StatusError
)

// Event is the interface for all TUI events.
type Event interface {
	isEvent()
}

// TaskEvent represents an update to a step's status.
type TaskEvent struct {
	Task     TaskID
	Status   TaskStatus
	Message  string  // Optional message (e.g., repository name)
	Count    int     // Count of items (e.g., contributors fetched)
	Progress float64 // Progress from 0.0 to 1.0
	Error    error   // Error if status is StatusError
}

func (TaskEvent) isEvent() {}

// DoneEvent signals that all work is complete.
type DoneEvent struct{}

func (DoneEvent) isEvent() {}

// RateLimitEvent signals a change in GitHub rate limit state.
type RateLimitEvent struct {
	Limited bool
	ResetAt time.Time
}

func (RateLimitEvent) isEvent() {}

// SnapshotEvent carries a fresh orchestrator snapshot into the
// results view.
type SnapshotEvent struct {
	Snapshot report.Snapshot
}

func (SnapshotEvent) isEvent() {}

// NotificationEvent carries a user-visible message into the active
// view's transient status line.
type NotificationEvent struct {
	Notification notify.Notification
}

func (NotificationEvent) isEvent() {}
