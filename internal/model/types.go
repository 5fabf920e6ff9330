// Package model defines the shared data types for the reporter.
package model

import "time"

// RepoRef identifies a GitHub repository by owner and name.
type RepoRef struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// String returns the owner/repo form.
func (r RepoRef) String() string {
	return r.Owner + "/" + r.Repo
}

// RepositoryMetadata is the subset of repository info the dashboard needs.
type RepositoryMetadata struct {
	Name      string    `json:"name"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	Language  string    `json:"language,omitempty"`
	Topics    []string  `json:"topics,omitempty"`
}

// Contributor is an immutable roster snapshot entry. It is rebuilt
// wholesale whenever the repository or date range changes.
type Contributor struct {
	ID         int64  `json:"id"`
	Login      string `json:"login"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	MergeCount int    `json:"merge_count"`
}

// DisplayName returns the contributor's name, falling back to login.
func (c Contributor) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Login
}

// DateRange bounds merge-activity queries. Zero fields mean unbounded.
type DateRange struct {
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`
}

// IsZero reports whether neither bound is set.
func (d DateRange) IsZero() bool {
	return d.From.IsZero() && d.To.IsZero()
}

// Valid reports whether the range is well-formed: when both bounds are
// present, From must not be after To.
func (d DateRange) Valid() bool {
	if d.From.IsZero() || d.To.IsZero() {
		return true
	}
	return !d.From.After(d.To)
}

// SearchFilter renders the range as a GitHub search qualifier value,
// e.g. "2024-01-01..2024-06-30". An unbounded side uses "*".
// Returns "" for a fully unbounded range.
func (d DateRange) SearchFilter() string {
	if d.IsZero() {
		return ""
	}
	from, to := "*", "*"
	if !d.From.IsZero() {
		from = d.From.Format("2006-01-02")
	}
	if !d.To.IsZero() {
		to = d.To.Format("2006-01-02")
	}
	return from + ".." + to
}

// ReviewTaskRequest carries everything the report backend needs to
// generate reviews. Built once per submit from the current selection
// and effective date range.
type ReviewTaskRequest struct {
	Owner             string    `json:"owner"`
	Repo              string    `json:"repo"`
	ContributorLogins []string  `json:"contributors"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	NotifyEmail       string    `json:"email,omitempty"`
}
