package gh

import (
	"fmt"
	"time"

	"github.com/HealKnix/code-quality-reporter/internal/model"
)

// RateLimitError signals that the GitHub API rate limit is exhausted.
// It carries the reset time so callers can tell the user how long to
// wait (or to supply a token for a bigger budget).
type RateLimitError struct {
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	mins := e.MinutesUntilReset()
	if mins <= 0 {
		return "GitHub API rate limit exceeded; try again shortly or supply a token"
	}
	return fmt.Sprintf("GitHub API rate limit exceeded; resets in %d min (or supply a token via GITHUB_TOKEN)", mins)
}

// MinutesUntilReset returns whole minutes until the limit resets,
// rounded up so "resets in 0 min" never shows while still limited.
func (e *RateLimitError) MinutesUntilReset() int {
	until := time.Until(e.ResetAt)
	if until <= 0 {
		return 0
	}
	return int((until + time.Minute - 1) / time.Minute)
}

// NotFoundError signals that the repository does not exist (or is not
// visible with the current credentials).
type NotFoundError struct {
	Ref model.RepoRef
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("repository %s not found", e.Ref)
}
