package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HealKnix/code-quality-reporter/internal/gh"
	"github.com/HealKnix/code-quality-reporter/internal/model"
	"github.com/HealKnix/code-quality-reporter/internal/output"
)

// NewCmdContributors creates the contributors command.
func NewCmdContributors(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contributors <repository>",
		Short: "List contributors with merged pull request counts",
		Long: `Fetches the repository's contributors and counts their merged pull
requests in the given date window, without generating any reports.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContributors(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json)")
	cmd.Flags().StringVar(&opts.From, "from", "", "Start of the merge window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "End of the merge window (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&opts.Since, "since", "s", "", "Relative start of the merge window (e.g., 1w, 30d, 6mo)")
	cmd.Flags().StringVar(&opts.Lookup, "lookup", "", "Show only the contributor matching this login or email")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Bypass the contributor roster cache")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug)")
	cmd.Flags().Var(newTUIFlag(opts), "tui", "Enable/disable TUI progress (default: auto-detect)")

	return cmd
}

func runContributors(cmd *cobra.Command, args []string, opts *Options) error {
	ctx := cmd.Context()

	rt := setupRuntime(opts)
	rt.startTUI()

	rc, err := resolveAndFetch(ctx, args[0], opts, rt)
	if err != nil {
		rt.close()
		return err
	}
	rt.close()

	roster := rc.roster
	if opts.Lookup != "" {
		c, ok := gh.FindContributor(roster, opts.Lookup)
		if !ok {
			return fmt.Errorf("no contributor matching %q in %s", opts.Lookup, rc.repo.FullName)
		}
		roster = []model.Contributor{c}
	}

	if len(roster) == 0 {
		fmt.Println("No contributors found.")
		return nil
	}

	format := output.Format(opts.Format)
	if format == "" {
		format = output.Format(rc.cfg.DefaultFormat)
	}
	formatter := output.NewFormatter(format)
	return formatter.FormatContributors(roster, os.Stdout)
}
