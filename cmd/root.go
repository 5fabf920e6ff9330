package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "cqr <repository>",
		Short: "Code quality reports for GitHub contributors",
		Long: `A CLI tool that lists a repository's contributors with their merged
pull request counts and generates code quality review reports for the
ones you pick.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Add report flags to root command so `cqr <repo>` and `cqr report <repo>` work identically
	addReportFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdReport(opts))
	rootCmd.AddCommand(NewCmdContributors(opts))
	rootCmd.AddCommand(NewCmdDownload())
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdCache())
	rootCmd.AddCommand(NewCmdVersion())
	rootCmd.AddCommand(NewCmdRateLimit())

	return rootCmd
}
