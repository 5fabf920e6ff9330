package model

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRepoRefString(t *testing.T) {
	ref := RepoRef{Owner: "acme", Repo: "widgets"}
	if got := ref.String(); got != "acme/widgets" {
		t.Errorf("expected acme/widgets, got %q", got)
	}
}

func TestContributorDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		c     Contributor
		want  string
	}{
		{"name set", Contributor{Login: "octocat", Name: "The Octocat"}, "The Octocat"},
		{"name empty", Contributor{Login: "octocat"}, "octocat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.c.DisplayName(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDateRangeSearchFilter(t *testing.T) {
	tests := []struct {
		name string
		r    DateRange
		want string
	}{
		{"bounded", DateRange{From: date("2024-01-01"), To: date("2024-06-30")}, "2024-01-01..2024-06-30"},
		{"open upper", DateRange{From: date("2024-01-01")}, "2024-01-01..*"},
		{"open lower", DateRange{To: date("2024-06-30")}, "*..2024-06-30"},
		{"unbounded", DateRange{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.SearchFilter(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDateRangeValid(t *testing.T) {
	tests := []struct {
		name string
		r    DateRange
		want bool
	}{
		{"ordered", DateRange{From: date("2024-01-01"), To: date("2024-06-30")}, true},
		{"inverted", DateRange{From: date("2024-06-30"), To: date("2024-01-01")}, false},
		{"same day", DateRange{From: date("2024-01-01"), To: date("2024-01-01")}, true},
		{"half open", DateRange{From: date("2024-01-01")}, true},
		{"unbounded", DateRange{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Valid(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
