// Package output renders contributor rosters and review results for
// the terminal.
package output

import (
	"io"

	"github.com/HealKnix/code-quality-reporter/internal/model"
	"github.com/HealKnix/code-quality-reporter/internal/report"
)

// Format represents the output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Formatter defines the interface for output formatters
type Formatter interface {
	FormatContributors(contributors []model.Contributor, w io.Writer) error
	FormatResults(snapshot report.Snapshot, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	default:
		return &TableFormatter{}
	}
}
