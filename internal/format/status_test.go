package format

import (
	"strings"
	"testing"

	"github.com/HealKnix/code-quality-reporter/internal/model"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		status model.ReviewStatus
		want   string
	}{
		{model.StatusGood, "Good"},
		{model.StatusMedium, "Medium"},
		{model.StatusBad, "Bad"},
		{model.ReviewStatus("Novel"), "Novel"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := StripAnsi(Status(tt.status)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRating(t *testing.T) {
	settled := model.ReviewResult{Rating: 7.25}
	if got := StripAnsi(Rating(settled)); got != "7.2" {
		t.Errorf("expected 7.2, got %q", got)
	}

	pending := model.ReviewResult{Pending: true, Rating: 0}
	if got := StripAnsi(Rating(pending)); !strings.Contains(got, "—") {
		t.Errorf("expected dash for pending, got %q", got)
	}
}

func TestMergeCount(t *testing.T) {
	if got := StripAnsi(MergeCount(12)); got != "12" {
		t.Errorf("expected 12, got %q", got)
	}
	if got := StripAnsi(MergeCount(0)); got != "0" {
		t.Errorf("expected 0, got %q", got)
	}
}
