// Package repourl resolves user-supplied repository references.
package repourl

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/HealKnix/code-quality-reporter/internal/model"
)

// ParseError indicates the input could not be resolved to owner/repo.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot resolve repository from %q: %s", e.Input, e.Reason)
}

// Resolve parses a repository reference into owner and repo. It
// accepts bare "owner/repo" paths, host-qualified forms like
// "github.com/owner/repo", and full URLs with or without a scheme.
// The first two non-empty path segments win; anything shorter fails.
func Resolve(input string) (model.RepoRef, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return model.RepoRef{}, &ParseError{Input: input, Reason: "empty input"}
	}

	// Assume https when no scheme is present so url.Parse treats the
	// leading token as a host, not a relative path.
	candidate := trimmed
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return model.RepoRef{}, &ParseError{Input: input, Reason: "not a well-formed URL"}
	}

	segments := splitPath(u.Path)

	// Bare owner/repo parses as host "owner" + path "repo".
	if len(segments) == 1 && u.Host != "" && !strings.Contains(u.Host, ".") {
		segments = append([]string{u.Host}, segments...)
	}

	if len(segments) < 2 {
		return model.RepoRef{}, &ParseError{Input: input, Reason: "expected owner/repo"}
	}

	repo := strings.TrimSuffix(segments[1], ".git")
	if segments[0] == "" || repo == "" {
		return model.RepoRef{}, &ParseError{Input: input, Reason: "expected owner/repo"}
	}

	return model.RepoRef{Owner: segments[0], Repo: repo}, nil
}

// splitPath returns the non-empty segments of a URL path.
func splitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
