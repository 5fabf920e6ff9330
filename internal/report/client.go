// Package report orchestrates code-review report generation against
// the report backend: dispatch, task polling, and incremental result
// reconciliation.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HealKnix/code-quality-reporter/internal/log"
	"github.com/HealKnix/code-quality-reporter/internal/model"
)

// Backend defines the report service operations the orchestrator
// depends on. The interface enables substituting a fake in unit tests.
type Backend interface {
	Generate(ctx context.Context, req model.ReviewTaskRequest) (*DispatchResult, error)
	TaskStatus(ctx context.Context, taskID string) (*model.TaskStatus, error)
}

// Ensure Client implements Backend.
var _ Backend = (*Client)(nil)

// DispatchResult is the interpreted response to a generation request:
// either a complete result array (synchronous mode) or a task id to
// poll (asynchronous mode).
type DispatchResult struct {
	Results []model.ReviewResult
	TaskID  string
}

// Synchronous reports whether the backend answered with results
// instead of a task id.
func (d *DispatchResult) Synchronous() bool {
	return d.TaskID == ""
}

// Client talks to the report backend over HTTP.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a report backend client. The bearer token is
// attached to every outgoing request when non-empty.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// newRequest builds a request with the authorization header attached.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// dispatchResponse covers the asynchronous response shape.
type dispatchResponse struct {
	TaskID string          `json:"task_id"`
	Status model.TaskState `json:"status"`
}

// Generate issues the single review-generation request for a submit.
// The response is either a complete ReviewResult array or an object
// carrying a task id; both shapes are interpreted here.
func (c *Client) Generate(ctx context.Context, req model.ReviewTaskRequest) (*DispatchResult, error) {
	q := url.Values{}
	q.Set("contributors", strings.Join(req.ContributorLogins, ","))
	q.Set("date_filter", fmt.Sprintf("%s..%s",
		req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02")))

	path := fmt.Sprintf("/api/github/repo/merged/%s/%s/async?%s",
		url.PathEscape(req.Owner), url.PathEscape(req.Repo), q.Encode())

	body, err := json.Marshal(map[string]string{"email": req.NotifyEmail})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("report backend unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read generation response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("report backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	return interpretDispatch(payload)
}

// interpretDispatch decodes a generation response of either shape.
func interpretDispatch(payload []byte) (*DispatchResult, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("report backend returned an empty response")
	}

	if trimmed[0] == '[' {
		var results []model.ReviewResult
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return nil, fmt.Errorf("failed to decode synchronous results: %w", err)
		}
		return &DispatchResult{Results: results}, nil
	}

	var async dispatchResponse
	if err := json.Unmarshal(trimmed, &async); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}
	if async.TaskID == "" {
		return nil, fmt.Errorf("report backend response carried neither results nor a task id")
	}
	return &DispatchResult{TaskID: async.TaskID}, nil
}

// TaskStatus fetches one status snapshot for an asynchronous task.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*model.TaskStatus, error) {
	path := "/api/github/tasks/" + url.PathEscape(taskID)

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("report backend unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("task %s not found", taskID)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("report backend returned %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var status model.TaskStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode task status: %w", err)
	}
	if status.TaskID == "" {
		status.TaskID = taskID
	}

	log.Debug("task status", "task_id", status.TaskID, "state", status.State,
		"completed", len(status.CompletedContributors), "failed", len(status.FailedContributors))
	return &status, nil
}

// Download retrieves a generated report file and writes it to w.
func (c *Client) Download(ctx context.Context, ref model.RepoRef, filename string, w io.Writer) error {
	path := fmt.Sprintf("/api/download-report/%s/%s/%s",
		url.PathEscape(ref.Owner), url.PathEscape(ref.Repo), url.PathEscape(filename))

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("report backend unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("report download failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
