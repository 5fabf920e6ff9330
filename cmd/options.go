package cmd

// Options holds the shared command-line options for the cqr CLI.
type Options struct {
	Format    string
	From      string
	To        string
	Since     string
	Select    []string
	Email     string
	BaseURL   string
	Verbosity int
	NoCache   bool
	TUI       *bool // nil = auto-detect, true = force TUI, false = disable TUI

	// Contributor listing options
	Lookup string // Filter contributors by login or email substring
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithFrom sets the inclusive start date (YYYY-MM-DD).
func WithFrom(from string) Option {
	return func(o *Options) {
		o.From = from
	}
}

// WithTo sets the inclusive end date (YYYY-MM-DD).
func WithTo(to string) Option {
	return func(o *Options) {
		o.To = to
	}
}

// WithSince sets a relative start date (e.g., "1w", "30d", "6mo").
func WithSince(since string) Option {
	return func(o *Options) {
		o.Since = since
	}
}

// WithSelect sets the contributor logins to select non-interactively.
func WithSelect(logins []string) Option {
	return func(o *Options) {
		o.Select = logins
	}
}

// WithEmail sets the report delivery address.
func WithEmail(email string) Option {
	return func(o *Options) {
		o.Email = email
	}
}

// WithBaseURL overrides the report backend base URL.
func WithBaseURL(u string) Option {
	return func(o *Options) {
		o.BaseURL = u
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithNoCache disables the roster cache.
func WithNoCache(noCache bool) Option {
	return func(o *Options) {
		o.NoCache = noCache
	}
}

// WithTUI controls TUI mode (nil = auto-detect, true = force, false = disable).
func WithTUI(tui *bool) Option {
	return func(o *Options) {
		o.TUI = tui
	}
}
