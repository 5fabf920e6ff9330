// Package selection tracks which contributors are checked for report
// generation, independent of fetch state.
package selection

import (
	"sort"
	"strings"

	"github.com/HealKnix/code-quality-reporter/internal/model"
)

// Selection is the set of checked contributors, keyed by identity.
// It is not safe for concurrent use; the UI event loop is the only
// writer.
type Selection struct {
	byID map[int64]model.Contributor
}

// New creates an empty selection.
func New() *Selection {
	return &Selection{byID: map[int64]model.Contributor{}}
}

// Toggle adds the contributor if absent and removes it if present.
func (s *Selection) Toggle(c model.Contributor) {
	if _, ok := s.byID[c.ID]; ok {
		delete(s.byID, c.ID)
		return
	}
	s.byID[c.ID] = c
}

// Contains reports whether the contributor is selected.
func (s *Selection) Contains(c model.Contributor) bool {
	_, ok := s.byID[c.ID]
	return ok
}

// Len returns the number of selected contributors.
func (s *Selection) Len() int {
	return len(s.byID)
}

// Clear empties the selection. Called whenever the roster is
// invalidated so stale selections never reach the orchestrator.
func (s *Selection) Clear() {
	s.byID = map[int64]model.Contributor{}
}

// Selected returns the selected contributors in the order they appear
// in the given roster. Selections referencing contributors no longer
// in the roster are dropped.
func (s *Selection) Selected(roster []model.Contributor) []model.Contributor {
	var out []model.Contributor
	for _, c := range roster {
		if _, ok := s.byID[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Filter returns the contributors whose name or email contains the
// query, case-insensitively. A blank or whitespace-only query returns
// the input unchanged.
func Filter(contributors []model.Contributor, query string) []model.Contributor {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return contributors
	}

	var out []model.Contributor
	for _, c := range contributors {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Email), q) {
			out = append(out, c)
		}
	}
	return out
}

// SortByMergeCount orders contributors by merge count descending for
// display. The sort is stable so ties keep their fetch order.
func SortByMergeCount(contributors []model.Contributor) []model.Contributor {
	out := make([]model.Contributor, len(contributors))
	copy(out, contributors)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MergeCount > out[j].MergeCount
	})
	return out
}
