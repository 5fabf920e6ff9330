package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HealKnix/code-quality-reporter/config"
	"github.com/HealKnix/code-quality-reporter/internal/cache"
	"github.com/HealKnix/code-quality-reporter/internal/dates"
	"github.com/HealKnix/code-quality-reporter/internal/gh"
	"github.com/HealKnix/code-quality-reporter/internal/kvstore"
	"github.com/HealKnix/code-quality-reporter/internal/log"
	"github.com/HealKnix/code-quality-reporter/internal/model"
	"github.com/HealKnix/code-quality-reporter/internal/notify"
	"github.com/HealKnix/code-quality-reporter/internal/output"
	"github.com/HealKnix/code-quality-reporter/internal/report"
	"github.com/HealKnix/code-quality-reporter/internal/repourl"
	"github.com/HealKnix/code-quality-reporter/internal/selection"
	"github.com/HealKnix/code-quality-reporter/internal/tui"
)

// reportRuntime bundles TUI-related state that's threaded through the
// report command.
type reportRuntime struct {
	useTUI  bool
	events  chan tui.Event
	tuiDone chan error
}

// startTUI initializes and starts the progress TUI goroutine if TUI
// mode is enabled.
func (rt *reportRuntime) startTUI() {
	if !rt.useTUI {
		return
	}
	rt.events = make(chan tui.Event, 100)
	rt.tuiDone = make(chan error, 1)
	go func() {
		rt.tuiDone <- tui.Run(rt.events)
	}()
}

// close closes the event channel and waits for the TUI to finish.
func (rt *reportRuntime) close() {
	if rt.events == nil {
		return
	}
	close(rt.events)
	if rt.tuiDone != nil {
		<-rt.tuiDone
	}
	rt.events = nil
	rt.tuiDone = nil
}

// sendEvent sends a task event to the TUI channel if it exists.
func (rt *reportRuntime) sendEvent(task tui.TaskID, status tui.TaskStatus, opts ...tui.TaskEventOption) {
	if rt.events == nil {
		return
	}
	tui.SendTaskEvent(rt.events, task, status, opts...)
}

// NewCmdReport creates the report command.
func NewCmdReport(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <repository>",
		Short: "Generate review reports for selected contributors (same as root cqr)",
		Long: `Resolves the repository, fetches its contributors with merged pull
request counts, lets you pick contributors, and generates a code
quality review report for each.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args, opts)
		},
	}

	addReportFlags(cmd, opts)
	return cmd
}

// addReportFlags adds the report-specific flags to a command.
func addReportFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json)")
	cmd.Flags().StringVar(&opts.From, "from", "", "Start of the merge window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "End of the merge window (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.Since, "since", "s", "", "Relative start of the merge window (e.g., 1w, 30d, 6mo)")
	cmd.Flags().StringSliceVar(&opts.Select, "select", nil, "Contributor logins to select without the picker")
	cmd.Flags().StringVar(&opts.Email, "email", "", "Email address for report delivery")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "Report backend base URL")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Bypass the contributor roster cache")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug)")

	// TUI flag with tri-state: nil = auto, true = force, false = disable
	cmd.Flags().Var(newTUIFlag(opts), "tui", "Enable/disable TUI (default: auto-detect)")
}

// repoContext bundles everything resolved before selection.
type repoContext struct {
	cfg    *config.Config
	ref    model.RepoRef
	repo   *model.RepositoryMetadata
	roster []model.Contributor
	dates  model.DateRange
}

func runReport(cmd *cobra.Command, args []string, opts *Options) error {
	ctx := cmd.Context()

	if len(args) == 0 {
		return fmt.Errorf("repository required: cqr <url or owner/repo>")
	}

	rt := setupRuntime(opts)
	rt.startTUI()

	rc, err := resolveAndFetch(ctx, args[0], opts, rt)
	if err != nil {
		rt.close()
		return err
	}
	rt.close()

	if len(rc.roster) == 0 {
		fmt.Println("No contributors found.")
		return nil
	}

	selected, err := pickContributors(rc, opts)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Println("Nothing selected.")
		return nil
	}

	return generateReports(ctx, rc, selected, opts)
}

// setupRuntime decides TUI mode and initializes logging.
func setupRuntime(opts *Options) *reportRuntime {
	useTUI := shouldUseTUI(opts)

	// Suppress logs during TUI to avoid interleaving with the display
	if useTUI {
		log.Initialize(opts.Verbosity, io.Discard)
	} else {
		log.Initialize(opts.Verbosity, os.Stderr)
	}

	return &reportRuntime{useTUI: useTUI}
}

// repoRef turns the user's repository argument into an owner/repo pair.
func repoRef(input string) (model.RepoRef, error) {
	ref, err := repourl.Resolve(input)
	if err != nil {
		return model.RepoRef{}, fmt.Errorf("invalid repository %q: %w", input, err)
	}
	return ref, nil
}

// loadConfig opens the key-value store and loads the merged config.
func loadConfig() (*config.Config, error) {
	store, err := kvstore.NewFileStore(kvstore.DefaultPath())
	if err != nil {
		log.Warn("could not open credential store", "error", err)
	}

	cfg, err := config.Load(store)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// resolveAndFetch resolves the repository reference and fetches the
// contributor roster with merge counts, using the cache when allowed.
func resolveAndFetch(ctx context.Context, input string, opts *Options, rt *reportRuntime) (*repoContext, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	ref, err := repoRef(input)
	if err != nil {
		return nil, err
	}

	dateRange, err := dates.ParseRange(opts.From, opts.To, opts.Since)
	if err != nil {
		return nil, err
	}

	client := gh.NewClient(ctx, cfg.GetGitHubToken())

	rt.sendEvent(tui.TaskResolve, tui.StatusRunning)
	repo, err := client.FetchRepository(ctx, ref)
	if err != nil {
		rt.sendEvent(tui.TaskResolve, tui.StatusError, tui.WithError(err))
		return nil, err
	}
	rt.sendEvent(tui.TaskResolve, tui.StatusComplete, tui.WithMessage(repo.FullName))

	rt.sendEvent(tui.TaskContributors, tui.StatusRunning)
	roster, err := fetchRoster(ctx, client, cfg, ref, dateRange, opts.NoCache)
	if err != nil {
		rt.sendEvent(tui.TaskContributors, tui.StatusError, tui.WithError(err))
		return nil, err
	}
	rt.sendEvent(tui.TaskContributors, tui.StatusComplete, tui.WithCount(len(roster)))

	roster = filterExcluded(roster, cfg)
	roster = selection.SortByMergeCount(roster)

	return &repoContext{
		cfg:    cfg,
		ref:    ref,
		repo:   repo,
		roster: roster,
		dates:  dateRange,
	}, nil
}

// fetchRoster returns the contributor roster, from cache when a fresh
// entry exists and the cache is not bypassed.
func fetchRoster(ctx context.Context, client *gh.Client, cfg *config.Config, ref model.RepoRef, dateRange model.DateRange, noCache bool) ([]model.Contributor, error) {
	var c *cache.Cache
	if !noCache {
		var err error
		c, err = cache.New(cfg.CacheTTL())
		if err != nil {
			log.Warn("failed to initialize cache", "error", err)
		}
	}

	if c != nil {
		if roster, ok := c.GetRoster(ref, dateRange); ok {
			log.Debug("roster cache hit", "repo", ref.String(), "contributors", len(roster))
			return roster, nil
		}
	}

	roster, err := client.FetchRoster(ctx, ref, dateRange)
	if err != nil {
		return nil, err
	}

	if c != nil {
		if err := c.SetRoster(ref, dateRange, roster); err != nil {
			log.Debug("failed to cache roster", "error", err)
		}
	}
	return roster, nil
}

// filterExcluded drops configured logins (bots and the like) from the roster.
func filterExcluded(roster []model.Contributor, cfg *config.Config) []model.Contributor {
	kept := roster[:0]
	for _, c := range roster {
		if cfg.IsContributorExcluded(c.Login) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// pickContributors resolves --select logins or runs the interactive picker.
func pickContributors(rc *repoContext, opts *Options) ([]model.Contributor, error) {
	if len(opts.Select) > 0 {
		return selectByLogin(rc.roster, opts.Select)
	}

	if !shouldUseTUI(opts) {
		return nil, fmt.Errorf("no terminal for interactive selection: pass --select login1,login2")
	}

	return tui.RunSelectUI(rc.repo.FullName, rc.roster)
}

// selectByLogin maps the requested logins onto roster entries. Unknown
// logins are an error so a typo does not silently shrink the report.
func selectByLogin(roster []model.Contributor, requested []string) ([]model.Contributor, error) {
	byLogin := make(map[string]model.Contributor, len(roster))
	for _, c := range roster {
		byLogin[strings.ToLower(c.Login)] = c
	}

	var selected []model.Contributor
	var unknown []string
	for _, login := range requested {
		c, ok := byLogin[strings.ToLower(strings.TrimSpace(login))]
		if !ok {
			unknown = append(unknown, login)
			continue
		}
		selected = append(selected, c)
	}

	if len(unknown) > 0 {
		return nil, fmt.Errorf("not contributors of this repository: %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}

// generateReports submits the selection to the report backend and
// presents the results live or on the console.
func generateReports(ctx context.Context, rc *repoContext, selected []model.Contributor, opts *Options) error {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = rc.cfg.GetBaseURL()
	}
	email := opts.Email
	if email == "" {
		email = rc.cfg.GetNotifyEmail()
	}

	backend := report.NewClient(baseURL, rc.cfg.GetGitHubToken())

	useTUI := shouldUseTUI(opts) && output.Format(opts.Format) != output.FormatJSON
	if useTUI {
		return generateWithUI(ctx, rc, backend, selected, email)
	}
	return generateOnConsole(ctx, rc, backend, selected, email, opts)
}

// generateWithUI runs the orchestrator behind the live results view.
func generateWithUI(ctx context.Context, rc *repoContext, backend report.Backend, selected []model.Contributor, email string) error {
	events := make(chan tui.Event, 100)

	orch := report.New(backend,
		report.WithInterval(rc.cfg.PollInterval()),
		report.WithNotifier(notify.Func(func(n notify.Notification) {
			tui.SendEvent(events, tui.NotificationEvent{Notification: n})
		})),
		report.WithSubscriber(func(s report.Snapshot) {
			tui.SendEvent(events, tui.SnapshotEvent{Snapshot: s})
			if s.Phase == report.PhaseDone {
				tui.SendEvent(events, tui.DoneEvent{})
			}
		}),
	)
	defer orch.Stop()

	err := orch.Submit(ctx, rc.repo, rc.ref, selected, rc.dates, email)
	if err == report.ErrNothingToSubmit {
		// The warning already names the zero-merge logins; drain it to
		// the console since the UI never starts.
		printBufferedNotifications(events)
		return nil
	}
	if err != nil {
		printBufferedNotifications(events)
		return err
	}

	download := func(r model.ReviewResult) (string, error) {
		return saveReport(ctx, backend, rc.ref, r.ReportFile)
	}
	return tui.RunResultsUI(rc.repo.FullName, events, download)
}

// generateOnConsole runs the orchestrator with console notifications
// and prints the final results once the task settles.
func generateOnConsole(ctx context.Context, rc *repoContext, backend report.Backend, selected []model.Contributor, email string, opts *Options) error {
	orch := report.New(backend,
		report.WithInterval(rc.cfg.PollInterval()),
		report.WithNotifier(notify.NewConsole()),
	)
	defer orch.Stop()

	err := orch.Submit(ctx, rc.repo, rc.ref, selected, rc.dates, email)
	if err == report.ErrNothingToSubmit {
		return nil
	}
	if err != nil {
		return err
	}

	if orch.Polling() {
		log.Info("waiting for report generation", "interval", rc.cfg.PollInterval())
		select {
		case <-orch.Done():
		case <-ctx.Done():
			orch.Stop()
			return ctx.Err()
		}
	}

	format := output.Format(opts.Format)
	if format == "" {
		format = output.Format(rc.cfg.DefaultFormat)
	}
	formatter := output.NewFormatter(format)
	return formatter.FormatResults(orch.Snapshot(), os.Stdout)
}

// saveReport downloads a generated report file into the working directory.
func saveReport(ctx context.Context, backend report.Backend, ref model.RepoRef, filename string) (string, error) {
	client, ok := backend.(*report.Client)
	if !ok {
		return "", fmt.Errorf("report download not supported by this backend")
	}

	// The filename comes from the backend; never let it escape the
	// working directory.
	local := localReportName(filename)

	f, err := os.Create(local)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", local, err)
	}
	defer f.Close()

	if err := client.Download(ctx, ref, filename, f); err != nil {
		os.Remove(local)
		return "", err
	}
	return local, nil
}

// localReportName strips any path components from a report filename so
// the file lands in the working directory.
func localReportName(filename string) string {
	return filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
}

// printBufferedNotifications flushes notifications queued for a UI
// that will not be shown.
func printBufferedNotifications(events chan tui.Event) {
	console := notify.NewConsole()
	for {
		select {
		case e := <-events:
			if n, ok := e.(tui.NotificationEvent); ok {
				console.Notify(n.Notification)
			}
		default:
			return
		}
	}
}
