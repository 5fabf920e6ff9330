package gh

import (
	"context"
	"fmt"
	"strings"

	gogithub "github.com/google/go-github/v57/github"
	"golang.org/x/sync/errgroup"

	"github.com/HealKnix/code-quality-reporter/internal/log"
	"github.com/HealKnix/code-quality-reporter/internal/model"
)

// searchPageSize is the GitHub search API maximum page size.
const searchPageSize = 100

// ListContributors fetches the full contributor roster for a
// repository. No ordering is assumed from the API; display order is a
// presentation concern.
func (c *Client) ListContributors(ctx context.Context, ref model.RepoRef) ([]model.Contributor, error) {
	opts := &gogithub.ListContributorsOptions{
		ListOptions: gogithub.ListOptions{PerPage: searchPageSize},
	}

	var contributors []model.Contributor
	for {
		page, resp, err := c.client.Repositories.ListContributors(ctx, ref.Owner, ref.Repo, opts)
		if err != nil {
			if resp != nil && resp.StatusCode == 404 {
				return nil, &NotFoundError{Ref: ref}
			}
			return nil, fmt.Errorf("failed to list contributors for %s: %w", ref, err)
		}

		for _, u := range page {
			contributors = append(contributors, model.Contributor{
				ID:        u.GetID(),
				Login:     u.GetLogin(),
				AvatarURL: u.GetAvatarURL(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	log.Debug("listed contributors", "repo", ref.String(), "count", len(contributors))
	return contributors, nil
}

// CountMerges aggregates merged-PR counts per contributor id from
// search results, optionally bounded by a date range. The mapping is
// keyed by user id so login renames don't split counts.
func (c *Client) CountMerges(ctx context.Context, ref model.RepoRef, dateRange model.DateRange) (map[int64]int, error) {
	query := fmt.Sprintf("repo:%s/%s is:pr is:merged", ref.Owner, ref.Repo)
	if filter := dateRange.SearchFilter(); filter != "" {
		query += " merged:" + filter
	}

	opts := &gogithub.SearchOptions{
		ListOptions: gogithub.ListOptions{PerPage: searchPageSize},
	}

	counts := make(map[int64]int)
	for {
		result, resp, err := c.client.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to search merged PRs for %s: %w", ref, err)
		}

		for _, issue := range result.Issues {
			if user := issue.GetUser(); user != nil {
				counts[user.GetID()]++
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	log.Debug("counted merged PRs", "repo", ref.String(), "query", query, "authors", len(counts))
	return counts, nil
}

// EnrichProfiles fills in name and email for each contributor via the
// users API, with bounded concurrency. Lookup failures leave the
// contributor with login-only display fields rather than failing the
// roster.
func (c *Client) EnrichProfiles(ctx context.Context, contributors []model.Contributor) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.enrichWorkers)

	for i := range contributors {
		g.Go(func() error {
			user, _, err := c.client.Users.Get(ctx, contributors[i].Login)
			if err != nil {
				log.Debug("profile lookup failed", "login", contributors[i].Login, "error", err)
				return nil
			}
			contributors[i].Name = user.GetName()
			contributors[i].Email = user.GetEmail()
			return nil
		})
	}

	return g.Wait()
}

// FetchRoster fetches the contributor roster and the merged-PR counts
// concurrently, then attaches counts to the roster. Both reads must
// resolve before counts are attached; contributors absent from the
// aggregation keep a count of zero.
func (c *Client) FetchRoster(ctx context.Context, ref model.RepoRef, dateRange model.DateRange) ([]model.Contributor, error) {
	var (
		contributors []model.Contributor
		counts       map[int64]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contributors, err = c.ListContributors(gctx, ref)
		return err
	})
	g.Go(func() error {
		var err error
		counts, err = c.CountMerges(gctx, ref, dateRange)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range contributors {
		contributors[i].MergeCount = counts[contributors[i].ID]
	}

	if err := c.EnrichProfiles(ctx, contributors); err != nil {
		return nil, err
	}

	return contributors, nil
}

// FindContributor looks a contributor up by login or email,
// case-insensitively.
func FindContributor(contributors []model.Contributor, loginOrEmail string) (model.Contributor, bool) {
	needle := strings.ToLower(loginOrEmail)
	for _, c := range contributors {
		if strings.ToLower(c.Login) == needle || (c.Email != "" && strings.ToLower(c.Email) == needle) {
			return c, true
		}
	}
	return model.Contributor{}, false
}
