package gh

import (
	"context"

	"github.com/HealKnix/code-quality-reporter/internal/model"
)

// RosterSource defines the GitHub reads the dashboard flow depends on.
// The interface enables substituting a fake in unit tests.
type RosterSource interface {
	FetchRepository(ctx context.Context, ref model.RepoRef) (*model.RepositoryMetadata, error)
	FetchRoster(ctx context.Context, ref model.RepoRef, dateRange model.DateRange) ([]model.Contributor, error)
}

// Ensure Client implements RosterSource.
var _ RosterSource = (*Client)(nil)
