package output

import (
	"encoding/json"
	"io"

	"github.com/HealKnix/code-quality-reporter/internal/model"
	"github.com/HealKnix/code-quality-reporter/internal/report"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

func (f *JSONFormatter) encoder(w io.Writer) *json.Encoder {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder
}

// FormatContributors outputs the roster as JSON.
func (f *JSONFormatter) FormatContributors(contributors []model.Contributor, w io.Writer) error {
	return f.encoder(w).Encode(contributors)
}

// resultsOutput wraps the results with task metadata for JSON output.
type resultsOutput struct {
	TaskID   string               `json:"task_id,omitempty"`
	State    model.TaskState      `json:"state,omitempty"`
	Awaiting []string             `json:"awaiting,omitempty"`
	Failed   []string             `json:"failed,omitempty"`
	Results  []model.ReviewResult `json:"results"`
}

// FormatResults outputs an orchestrator snapshot as JSON.
func (f *JSONFormatter) FormatResults(snapshot report.Snapshot, w io.Writer) error {
	return f.encoder(w).Encode(resultsOutput{
		TaskID:   snapshot.TaskID,
		State:    snapshot.State,
		Awaiting: snapshot.Awaiting,
		Failed:   snapshot.Failed,
		Results:  snapshot.Results,
	})
}
