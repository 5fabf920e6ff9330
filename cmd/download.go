package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HealKnix/code-quality-reporter/internal/report"
)

// NewCmdDownload creates the download command.
func NewCmdDownload() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "download <repository> <filename>",
		Short: "Download a generated report file",
		Long: `Downloads a report file previously generated for the repository.
The filename comes from the report results (the report_filename field
in JSON output).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, args, outPath)
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "O", "", "Write to this path instead of the report's own filename")

	return cmd
}

func runDownload(cmd *cobra.Command, args []string, outPath string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ref, err := repoRef(args[0])
	if err != nil {
		return err
	}
	filename := args[1]

	if outPath == "" {
		outPath = localReportName(filename)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer f.Close()

	client := report.NewClient(cfg.GetBaseURL(), cfg.GetGitHubToken())
	if err := client.Download(ctx, ref, filename, f); err != nil {
		os.Remove(outPath)
		return err
	}

	fmt.Printf("Saved %s\n", outPath)
	return nil
}
