package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/HealKnix/code-quality-reporter/internal/log"
	"github.com/HealKnix/code-quality-reporter/internal/model"
	"github.com/HealKnix/code-quality-reporter/internal/notify"
)

// ErrNothingToSubmit is returned when every selected contributor has a
// zero merge count; no request is dispatched and the selection UI
// should regain focus.
var ErrNothingToSubmit = errors.New("no selected contributor has merged pull requests in the range")

// TaskFailedError is the terminal failure surfaced from task status.
type TaskFailedError struct {
	TaskID  string
	Message string
}

func (e *TaskFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("report generation task %s failed", e.TaskID)
	}
	return fmt.Sprintf("report generation task %s failed: %s", e.TaskID, e.Message)
}

// Phase is the orchestrator's lifecycle phase.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhasePolling
	PhaseDone
)

// String returns the phase label for logs.
func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhasePolling:
		return "polling"
	case PhaseDone:
		return "done"
	default:
		return "idle"
	}
}

// Snapshot is an immutable view of orchestrator state handed to the
// presentation layer.
type Snapshot struct {
	Phase      Phase
	TaskID     string
	State      model.TaskState
	Awaiting   []string             // logins still awaiting results, sorted
	Failed     []string             // logins whose generation failed, sorted
	Processing string               // contributor currently being processed
	Results    []model.ReviewResult // display order: rating descending
}

// Option is a functional option for configuring an Orchestrator.
type Option func(*Orchestrator)

// WithInterval overrides the poll interval.
func WithInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.interval = d
	}
}

// WithNotifier sets the notification sink.
func WithNotifier(n notify.Notifier) Option {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

// WithSubscriber registers the presentation callback invoked after
// every state change.
func WithSubscriber(fn func(Snapshot)) Option {
	return func(o *Orchestrator) {
		o.onUpdate = fn
	}
}

// Orchestrator turns a selection + date range into a generation
// request, tracks per-contributor progress across status polls, and
// reconciles partial, failed, and complete results. Exactly one task
// is active at a time: a new submit cancels the previous poll loop.
type Orchestrator struct {
	backend  Backend
	notifier notify.Notifier
	onUpdate func(Snapshot)
	interval time.Duration

	mu         sync.Mutex
	phase      Phase
	taskID     string
	state      model.TaskState
	awaiting   map[string]struct{}
	failed     map[string]struct{}
	processing string
	results    map[string]model.ReviewResult
	cancelPoll context.CancelFunc
	done       chan struct{}
}

// New creates an orchestrator in the Idle phase.
func New(backend Backend, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backend:  backend,
		interval: 3 * time.Second,
		phase:    PhaseIdle,
		awaiting: map[string]struct{}{},
		failed:   map[string]struct{}{},
		results:  map[string]model.ReviewResult{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit partitions the selection, dispatches the generation request,
// and interprets the response. For asynchronous responses it starts
// the poll loop; use Done() to wait for the terminal state.
func (o *Orchestrator) Submit(ctx context.Context, repo *model.RepositoryMetadata, ref model.RepoRef, selected []model.Contributor, dateRange model.DateRange, email string) error {
	qualifying, zeroes := partition(selected)

	if len(zeroes) > 0 {
		o.emit(notify.LevelWarning, fmt.Sprintf(
			"no merged pull requests in the selected range for: %s", joinLogins(zeroes)))
	}
	if len(qualifying) == 0 {
		// Abort entirely: zero network calls, zero state mutation.
		return ErrNothingToSubmit
	}

	// Only one active task per orchestrator: cancel any previous loop.
	o.Stop()

	// Substitute the effective bounds at submit time only; the user's
	// DateRange state is never rewritten.
	start, end := dateRange.From, dateRange.To
	if start.IsZero() {
		start = repo.CreatedAt
	}
	if end.IsZero() {
		end = time.Now()
	}

	req := model.ReviewTaskRequest{
		Owner:             ref.Owner,
		Repo:              ref.Repo,
		ContributorLogins: logins(qualifying),
		StartDate:         start,
		EndDate:           end,
		NotifyEmail:       email,
	}

	o.mu.Lock()
	o.phase = PhaseSubmitting
	o.mu.Unlock()
	o.publish()

	dispatched, err := o.backend.Generate(ctx, req)
	if err != nil {
		o.mu.Lock()
		o.phase = PhaseIdle
		o.mu.Unlock()
		o.emit(notify.LevelError, fmt.Sprintf("failed to start report generation: %v", err))
		o.publish()
		return err
	}

	if dispatched.Synchronous() {
		o.applySynchronous(dispatched.Results)
		return nil
	}

	o.beginPolling(ctx, dispatched.TaskID, qualifying)
	return nil
}

// applySynchronous merges a complete result array: no task, no poll.
func (o *Orchestrator) applySynchronous(results []model.ReviewResult) {
	o.mu.Lock()
	o.resetTask("")
	o.phase = PhaseDone
	o.state = model.TaskCompleted
	var zeroes []string
	for _, r := range results {
		o.results[r.Login] = r
		if r.MergeCount == 0 {
			zeroes = append(zeroes, r.Login)
		}
	}
	o.mu.Unlock()

	// Post-hoc zero-merge surfacing, distinct from the submit guard:
	// the backend found nothing for these even though their counts
	// looked fine at selection time.
	if len(zeroes) > 0 {
		o.emit(notify.LevelWarning, fmt.Sprintf(
			"report came back without merged pull requests for: %s", strings.Join(zeroes, ", ")))
	}
	o.emit(notify.LevelSuccess, fmt.Sprintf("generated %d review result(s)", len(results)))
	o.publish()
}

// beginPolling seeds placeholders for every submitted login and
// starts the poll loop.
func (o *Orchestrator) beginPolling(ctx context.Context, taskID string, submitted []model.Contributor) {
	pollCtx, cancel := context.WithCancel(ctx)

	o.mu.Lock()
	o.resetTask(taskID)
	o.phase = PhasePolling
	o.state = model.TaskPending
	for _, c := range submitted {
		o.awaiting[c.Login] = struct{}{}
		o.results[c.Login] = model.PlaceholderResult(c)
	}
	o.cancelPoll = cancel
	o.done = make(chan struct{})
	done := o.done
	o.mu.Unlock()

	log.Info("report task started", "task_id", taskID, "contributors", len(submitted))
	o.publish()

	go o.pollLoop(pollCtx, taskID, done)
}

// resetTask clears per-task state. Caller holds the lock.
func (o *Orchestrator) resetTask(taskID string) {
	o.taskID = taskID
	o.state = ""
	o.processing = ""
	o.awaiting = map[string]struct{}{}
	o.failed = map[string]struct{}{}
	o.results = map[string]model.ReviewResult{}
}

// pollLoop re-fetches task status on a fixed interval until a
// terminal status is observed or the context is cancelled. Polling is
// single-flight: the next tick is not serviced until the previous
// response has been applied.
func (o *Orchestrator) pollLoop(ctx context.Context, taskID string, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status, err := o.backend.TaskStatus(ctx, taskID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// Transient poll failures are not terminal; the next
				// tick retries.
				log.Debug("status poll failed", "task_id", taskID, "error", err)
				continue
			}
			if o.Apply(taskID, status) {
				return
			}
		}
	}
}

// Apply merges one status snapshot for taskID into orchestrator state
// and reports whether the caller's poll loop should stop. Merging is
// idempotent: re-applying the same snapshot changes nothing. A
// snapshot for a task that is no longer active is discarded: a status
// request can still be in flight when a new Submit replaces the task,
// and its response must not touch the new task's state.
func (o *Orchestrator) Apply(taskID string, status *model.TaskStatus) bool {
	o.mu.Lock()
	if taskID != o.taskID {
		o.mu.Unlock()
		return true
	}

	o.state = status.State
	o.processing = status.ProcessingContributor

	o.mergeCompletedLocked(status)
	o.mergeFailedLocked(status)

	terminal := status.State.Terminal()
	if terminal {
		// Force-clear awaiting: any login the backend under-reported
		// must not keep a spinner forever. Leftover placeholders go
		// with it; merged results are never discarded.
		o.awaiting = map[string]struct{}{}
		for login, r := range o.results {
			if r.Pending {
				delete(o.results, login)
			}
		}
		o.processing = ""
		o.phase = PhaseDone
		if o.cancelPoll != nil {
			o.cancelPoll()
			o.cancelPoll = nil
		}
	}
	o.mu.Unlock()

	if terminal {
		switch status.State {
		case model.TaskFailed:
			err := &TaskFailedError{TaskID: taskID, Message: status.Error}
			o.emit(notify.LevelError, err.Error())
		case model.TaskCompletedEmailFailed:
			msg := "report generated, but email delivery failed"
			if status.Error != "" {
				msg += ": " + status.Error
			}
			o.emit(notify.LevelWarning, msg)
		case model.TaskCompletedNoEmail:
			o.emit(notify.LevelWarning, "report generated; email delivery is not configured on the backend")
		default:
			o.emit(notify.LevelSuccess, "report generation completed")
		}
	}

	o.publish()
	return terminal
}

// mergeCompletedLocked merges results for completed logins. A login is
// merged only when it appears in CompletedContributors AND has an
// entry in Results; merged logins leave the awaiting set and never
// come back for this task. Caller holds the lock.
func (o *Orchestrator) mergeCompletedLocked(status *model.TaskStatus) {
	for _, login := range status.CompletedContributors {
		result, ok := status.Results[login]
		if !ok {
			continue
		}
		result.Pending = false
		if result.Login == "" {
			result.Login = login
		}
		o.results[login] = result
		delete(o.awaiting, login)
	}

	// Single-result fallback kept for the one-contributor workflow.
	if status.Result != nil && status.Result.Login != "" {
		r := *status.Result
		r.Pending = false
		o.results[r.Login] = r
		delete(o.awaiting, r.Login)
	}
}

// mergeFailedLocked records failed logins and drops their
// placeholders. Caller holds the lock.
func (o *Orchestrator) mergeFailedLocked(status *model.TaskStatus) {
	for _, login := range status.FailedContributors {
		o.failed[login] = struct{}{}
		delete(o.awaiting, login)
		if existing, ok := o.results[login]; ok && existing.Pending {
			delete(o.results, login)
		}
	}
}

// Stop cancels any in-flight polling. Safe to call repeatedly; used
// on new submissions and on UI teardown.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	cancel := o.cancelPoll
	o.cancelPoll = nil
	o.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Done returns a channel closed when the current poll loop exits.
// Returns a closed channel when nothing is polling.
func (o *Orchestrator) Done() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done != nil {
		return o.done
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

// Polling reports whether a poll loop is active.
func (o *Orchestrator) Polling() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase == PhasePolling && o.cancelPoll != nil
}

// Snapshot returns the current orchestrator state for presentation.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// snapshotLocked builds a Snapshot. Caller holds the lock.
func (o *Orchestrator) snapshotLocked() Snapshot {
	s := Snapshot{
		Phase:      o.phase,
		TaskID:     o.taskID,
		State:      o.state,
		Processing: o.processing,
	}

	for login := range o.awaiting {
		s.Awaiting = append(s.Awaiting, login)
	}
	sort.Strings(s.Awaiting)

	for login := range o.failed {
		s.Failed = append(s.Failed, login)
	}
	sort.Strings(s.Failed)

	for _, r := range o.results {
		s.Results = append(s.Results, r)
	}
	sort.SliceStable(s.Results, func(i, j int) bool {
		if s.Results[i].Rating != s.Results[j].Rating {
			return s.Results[i].Rating > s.Results[j].Rating
		}
		return s.Results[i].Login < s.Results[j].Login
	})

	return s
}

// publish pushes a fresh snapshot to the subscriber, outside the lock.
func (o *Orchestrator) publish() {
	if o.onUpdate == nil {
		return
	}
	o.onUpdate(o.Snapshot())
}

// emit sends a notification if a notifier is configured.
func (o *Orchestrator) emit(level notify.Level, msg string) {
	if o.notifier == nil {
		return
	}
	o.notifier.Notify(notify.Notification{Level: level, Message: msg})
}

// partition splits a selection by merge count.
func partition(selected []model.Contributor) (qualifying, zeroes []model.Contributor) {
	for _, c := range selected {
		if c.MergeCount > 0 {
			qualifying = append(qualifying, c)
		} else {
			zeroes = append(zeroes, c)
		}
	}
	return qualifying, zeroes
}

// logins projects contributors to their logins, preserving order.
func logins(contributors []model.Contributor) []string {
	out := make([]string, 0, len(contributors))
	for _, c := range contributors {
		out = append(out, c.Login)
	}
	return out
}

// joinLogins renders contributors as a comma-separated login list.
func joinLogins(contributors []model.Contributor) string {
	return strings.Join(logins(contributors), ", ")
}
