package gh

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/HealKnix/code-quality-reporter/internal/model"
)

func TestParseRateLimitHeaders(t *testing.T) {
	reset := time.Now().Add(30 * time.Minute).Unix()

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set("X-RateLimit-Remaining", "42")
	resp.Header.Set("X-RateLimit-Limit", "5000")
	resp.Header.Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining != 42 {
		t.Errorf("expected remaining 42, got %d", remaining)
	}
	if limit != 5000 {
		t.Errorf("expected limit 5000, got %d", limit)
	}
	if resetAt.Unix() != reset {
		t.Errorf("expected reset %d, got %d", reset, resetAt.Unix())
	}
}

func TestParseRateLimitHeadersMissing(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining != -1 || limit != -1 {
		t.Errorf("expected sentinel -1 values, got %d/%d", remaining, limit)
	}
	if !resetAt.IsZero() {
		t.Errorf("expected zero reset time, got %v", resetAt)
	}
}

func TestRateLimitState(t *testing.T) {
	s := &RateLimitState{}

	if _, limited := s.Limited(); limited {
		t.Error("fresh state should not be limited")
	}

	resetAt := time.Now().Add(10 * time.Minute)
	s.SetLimited(true, resetAt)
	if _, limited := s.Limited(); !limited {
		t.Error("expected limited after SetLimited")
	}

	s.SetLimited(false, resetAt)
	if _, limited := s.Limited(); limited {
		t.Error("expected limited cleared")
	}

	s.Update(100, 5000, resetAt)
	remaining, limit, _, _ := s.Status()
	if remaining != 100 || limit != 5000 {
		t.Errorf("unexpected status %d/%d", remaining, limit)
	}

	// Exhausted quota flips the limited flag
	s.Update(0, 5000, resetAt)
	if _, limited := s.Limited(); !limited {
		t.Error("expected limited when remaining hits 0")
	}
}

func TestRateLimitErrorMessage(t *testing.T) {
	err := &RateLimitError{ResetAt: time.Now().Add(90 * time.Second)}
	if err.MinutesUntilReset() != 2 {
		t.Errorf("expected 2 minutes (rounded up), got %d", err.MinutesUntilReset())
	}
	if err.Error() == "" {
		t.Error("expected non-empty message")
	}
}

func TestRoundTripTranslatesExhaustedQuota(t *testing.T) {
	t.Cleanup(func() { globalRateLimitState.SetLimited(false, time.Time{}) })

	reset := time.Now().Add(20 * time.Minute)
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), "").WithBaseURL(srv.URL + "/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.FetchRepository(context.Background(), model.RepoRef{Owner: "acme", Repo: "widgets"})
	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("expected *RateLimitError, got %v", err)
	}
	if rlErr.MinutesUntilReset() <= 0 {
		t.Errorf("expected a positive reset countdown, got %d", rlErr.MinutesUntilReset())
	}

	// While limited, the next request is refused before the wire.
	_, err = client.FetchRepository(context.Background(), model.RepoRef{Owner: "acme", Repo: "widgets"})
	if !errors.As(err, &rlErr) {
		t.Fatalf("expected *RateLimitError on the follow-up request, got %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("expected the limited client to skip the network, server saw %d requests", got)
	}
}

func TestRoundTripTranslatesTooManyRequests(t *testing.T) {
	t.Cleanup(func() { globalRateLimitState.SetLimited(false, time.Time{}) })

	reset := time.Now().Add(5 * time.Minute)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 429 signals a secondary limit even with budget left
		w.Header().Set("X-RateLimit-Remaining", "10")
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), "").WithBaseURL(srv.URL + "/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.FetchRepository(context.Background(), model.RepoRef{Owner: "acme", Repo: "widgets"})
	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("expected *RateLimitError, got %v", err)
	}
	if rlErr.ResetAt.Unix() != reset.Unix() {
		t.Errorf("expected reset %v, got %v", reset.Unix(), rlErr.ResetAt.Unix())
	}
}

func TestFindContributor(t *testing.T) {
	roster := []model.Contributor{
		{ID: 1, Login: "Alice", Email: "alice@example.com"},
		{ID: 2, Login: "bob"},
	}

	tests := []struct {
		name      string
		query     string
		wantLogin string
		wantFound bool
	}{
		{"by login", "alice", "Alice", true},
		{"by login exact case", "Alice", "Alice", true},
		{"by email", "ALICE@EXAMPLE.COM", "Alice", true},
		{"no email on record", "bob@example.com", "", false},
		{"unknown", "carol", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, found := FindContributor(roster, tt.query)
			if found != tt.wantFound {
				t.Fatalf("expected found=%v, got %v", tt.wantFound, found)
			}
			if found && c.Login != tt.wantLogin {
				t.Errorf("expected %s, got %s", tt.wantLogin, c.Login)
			}
		})
	}
}

func TestFetchRepository(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "4999")
		w.Header().Set("X-RateLimit-Limit", "5000")
		switch r.URL.Path {
		case "/api/v3/repos/acme/widgets":
			fmt.Fprint(w, `{"name":"widgets","full_name":"acme/widgets","created_at":"2020-05-01T00:00:00Z","language":"Go"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := NewClient(context.Background(), "").WithBaseURL(srv.URL + "/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo, err := client.FetchRepository(context.Background(), model.RepoRef{Owner: "acme", Repo: "widgets"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.FullName != "acme/widgets" || repo.Language != "Go" {
		t.Errorf("unexpected metadata: %+v", repo)
	}
	if repo.CreatedAt.Year() != 2020 {
		t.Errorf("unexpected created_at: %v", repo.CreatedAt)
	}

	_, err = client.FetchRepository(context.Background(), model.RepoRef{Owner: "acme", Repo: "missing"})
	if err == nil {
		t.Fatal("expected error for unknown repository")
	}
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("expected *NotFoundError, got %T", err)
	}
}
