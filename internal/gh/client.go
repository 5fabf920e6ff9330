// Package gh provides the GitHub API client for repository and
// contributor lookups.
package gh

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	gogithub "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/HealKnix/code-quality-reporter/internal/log"
	"github.com/HealKnix/code-quality-reporter/internal/model"
)

// RateLimitLowWatermark is the remaining-request threshold below which
// a debug warning is logged.
const RateLimitLowWatermark = 50

// rateLimitTransport wraps an http.RoundTripper to handle GitHub rate limits.
type rateLimitTransport struct {
	base http.RoundTripper
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Refuse to burn a request while we are known to be limited.
	if resetAt, limited := globalRateLimitState.Limited(); limited {
		return nil, &RateLimitError{ResetAt: resetAt}
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining >= 0 && limit > 0 {
		globalRateLimitState.Update(remaining, limit, resetAt)
	}

	if remaining <= RateLimitLowWatermark && remaining > 0 {
		log.Debug("rate limit low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
	}

	// 403 with remaining=0, or 429, is the rate-limit signal.
	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		if resp.Header.Get("X-RateLimit-Remaining") == "0" || resp.StatusCode == http.StatusTooManyRequests {
			globalRateLimitState.SetLimited(true, resetAt)
			_ = resp.Body.Close()
			return nil, &RateLimitError{ResetAt: resetAt}
		}
	}

	return resp, err
}

// parseRateLimitHeaders extracts rate limit info from response headers.
func parseRateLimitHeaders(resp *http.Response) (remaining, limit int, resetAt time.Time) {
	remaining = -1
	limit = -1

	if remainingStr := resp.Header.Get("X-RateLimit-Remaining"); remainingStr != "" {
		if rem, err := strconv.Atoi(remainingStr); err == nil {
			remaining = rem
		}
	}

	if limitStr := resp.Header.Get("X-RateLimit-Limit"); limitStr != "" {
		if lim, err := strconv.Atoi(limitStr); err == nil {
			limit = lim
		}
	}

	if resetStr := resp.Header.Get("X-RateLimit-Reset"); resetStr != "" {
		if resetTime, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			resetAt = time.Unix(resetTime, 0)
		}
	}

	return remaining, limit, resetAt
}

// Client wraps the GitHub API client.
type Client struct {
	client *gogithub.Client
	// token is intentionally unexported. NEVER add String(),
	// MarshalJSON(), or any method that could expose this value in
	// logs or serialized output.
	token string
	// enrichWorkers bounds concurrent profile lookups.
	enrichWorkers int
}

// NewClient creates a new GitHub client. An empty token is allowed:
// unauthenticated requests work against public repositories, just
// with a much smaller rate budget.
func NewClient(ctx context.Context, token string) *Client {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	} else {
		httpClient = &http.Client{}
	}

	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	httpClient.Transport = &rateLimitTransport{base: base}

	return &Client{
		client:        gogithub.NewClient(httpClient),
		token:         token,
		enrichWorkers: 10,
	}
}

// WithBaseURL points the client at a different API endpoint, used by
// tests and GitHub Enterprise setups.
func (c *Client) WithBaseURL(baseURL string) (*Client, error) {
	client, err := c.client.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %s: %w", baseURL, err)
	}
	c.client = client
	return c, nil
}

// RateLimits fetches current API quota from GitHub.
func (c *Client) RateLimits(ctx context.Context) (*gogithub.RateLimits, error) {
	limits, _, err := c.client.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}

// FetchRepository fetches repository metadata: the single network call
// behind repository resolution.
func (c *Client) FetchRepository(ctx context.Context, ref model.RepoRef) (*model.RepositoryMetadata, error) {
	repo, resp, err := c.client.Repositories.Get(ctx, ref.Owner, ref.Repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, &NotFoundError{Ref: ref}
		}
		return nil, fmt.Errorf("failed to fetch repository %s: %w", ref, err)
	}

	return &model.RepositoryMetadata{
		Name:      repo.GetName(),
		FullName:  repo.GetFullName(),
		CreatedAt: repo.GetCreatedAt().Time,
		Language:  repo.GetLanguage(),
		Topics:    repo.Topics,
	}, nil
}
