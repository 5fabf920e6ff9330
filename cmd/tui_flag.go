package cmd

import (
	"fmt"

	"github.com/HealKnix/code-quality-reporter/internal/tui"
)

// tuiFlag is the pflag.Value behind --tui. Three states: forced on,
// forced off, and auto-detect (nil).
type tuiFlag struct {
	opts *Options
}

func newTUIFlag(opts *Options) *tuiFlag {
	return &tuiFlag{opts: opts}
}

func (f *tuiFlag) Set(s string) error {
	switch s {
	case "auto":
		f.opts.TUI = nil
		return nil
	case "true", "1", "yes":
		on := true
		f.opts.TUI = &on
		return nil
	case "false", "0", "no":
		off := false
		f.opts.TUI = &off
		return nil
	}
	return fmt.Errorf("invalid value %q: use true, false, or auto", s)
}

func (f *tuiFlag) String() string {
	switch {
	case f.opts.TUI == nil:
		return "auto"
	case *f.opts.TUI:
		return "true"
	default:
		return "false"
	}
}

func (f *tuiFlag) Type() string { return "bool" }

// IsBoolFlag lets a bare --tui mean --tui=true.
func (f *tuiFlag) IsBoolFlag() bool { return true }

// shouldUseTUI resolves the tri-state against the environment. Verbose
// runs stay on plain output so the log lines remain readable.
func shouldUseTUI(opts *Options) bool {
	if opts.Verbosity > 0 {
		return false
	}
	if opts.TUI != nil {
		return *opts.TUI
	}
	return tui.ShouldUseTUI()
}
