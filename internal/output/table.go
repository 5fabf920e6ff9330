package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/HealKnix/code-quality-reporter/internal/format"
	"github.com/HealKnix/code-quality-reporter/internal/model"
	"github.com/HealKnix/code-quality-reporter/internal/report"
)

// TableFormatter formats output as a terminal table
type TableFormatter struct{}

var (
	headerColor = color.New(color.Bold)
	dimColor    = color.New(color.FgHiBlack)
)

// hyperlink creates a clickable terminal hyperlink using OSC 8.
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func hyperlink(text, url string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// row writes cells padded to the given widths.
func row(w io.Writer, widths []int, cells ...string) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		truncated, _ := format.TruncateToWidth(cell, widths[i])
		parts[i] = format.PadToWidth(truncated, widths[i])
	}
	_, _ = fmt.Fprintln(w, "  "+strings.TrimRight(strings.Join(parts, "  "), " "))
}

// FormatContributors renders the roster sorted as given.
func (f *TableFormatter) FormatContributors(contributors []model.Contributor, w io.Writer) error {
	if len(contributors) == 0 {
		_, _ = fmt.Fprintln(w, "No contributors found.")
		return nil
	}

	widths := []int{20, 28, 30, 8}
	row(w, widths,
		headerColor.Sprint("LOGIN"),
		headerColor.Sprint("NAME"),
		headerColor.Sprint("EMAIL"),
		headerColor.Sprint("MERGES"))

	for _, c := range contributors {
		email := c.Email
		if email == "" {
			email = dimColor.Sprint("-")
		}
		name := c.Name
		if name == "" {
			name = dimColor.Sprint("-")
		}
		row(w, widths, c.Login, name, email, format.MergeCount(c.MergeCount))
	}

	_, _ = fmt.Fprintf(w, "\n  %d contributor(s)\n", len(contributors))
	return nil
}

// FormatResults renders an orchestrator snapshot: merged results
// first (rating descending), then failed logins, then a line for
// anything still generating.
func (f *TableFormatter) FormatResults(snapshot report.Snapshot, w io.Writer) error {
	if len(snapshot.Results) == 0 && len(snapshot.Failed) == 0 {
		_, _ = fmt.Fprintln(w, "No review results.")
		return nil
	}

	widths := []int{20, 28, 8, 8, 10}
	row(w, widths,
		headerColor.Sprint("LOGIN"),
		headerColor.Sprint("NAME"),
		headerColor.Sprint("MERGES"),
		headerColor.Sprint("RATING"),
		headerColor.Sprint("STATUS"))

	for _, r := range snapshot.Results {
		status := format.Status(r.Status)
		if r.Pending {
			status = dimColor.Sprint("generating")
		}
		login := r.Login
		if r.ReportFile != "" {
			login = hyperlink(login, r.ReportFile)
		}
		row(w, widths, login, r.Name, format.MergeCount(r.MergeCount), format.Rating(r), status)
	}

	for _, login := range snapshot.Failed {
		row(w, widths, login, "", "", "", color.New(color.FgRed).Sprint("failed"))
	}

	if len(snapshot.Awaiting) > 0 {
		_, _ = fmt.Fprintf(w, "\n  still generating: %s\n", strings.Join(snapshot.Awaiting, ", "))
	}
	if snapshot.TaskID != "" {
		_, _ = fmt.Fprintf(w, "  task %s: %s\n", snapshot.TaskID, snapshot.State)
	}
	return nil
}
