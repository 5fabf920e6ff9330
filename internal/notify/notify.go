// Package notify surfaces warnings and errors as transient user
// messages. Orchestrator errors are converted here rather than
// propagating to the rendering layer.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Level classifies a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the level label used in console output.
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "ok"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is one user-visible message.
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives user-visible messages.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a function to the Notifier interface.
type Func func(Notification)

// Notify calls the wrapped function.
func (f Func) Notify(n Notification) { f(n) }

// Console writes notifications to a terminal with level coloring.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console notifier writing to stderr.
func NewConsole() *Console {
	return &Console{out: os.Stderr}
}

// NewConsoleTo creates a console notifier writing to w. Used by tests.
func NewConsoleTo(w io.Writer) *Console {
	return &Console{out: w}
}

var (
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// Notify prints the notification with a colored level prefix.
func (c *Console) Notify(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var prefix string
	switch n.Level {
	case LevelSuccess:
		prefix = successColor.Sprint("✓")
	case LevelWarning:
		prefix = warningColor.Sprint("!")
	case LevelError:
		prefix = errorColor.Sprint("✗")
	default:
		prefix = infoColor.Sprint("•")
	}

	_, _ = fmt.Fprintf(c.out, "%s %s\n", prefix, n.Message)
}

// Recorder collects notifications for assertions in tests.
type Recorder struct {
	mu            sync.Mutex
	Notifications []Notification
}

// Notify appends the notification.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notifications = append(r.Notifications, n)
}

// ByLevel returns recorded notifications matching the level.
func (r *Recorder) ByLevel(level Level) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Notification
	for _, n := range r.Notifications {
		if n.Level == level {
			out = append(out, n)
		}
	}
	return out
}
