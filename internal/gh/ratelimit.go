package gh

import (
	"sync"
	"time"
)

// RateLimitState tracks the global rate limit state for GitHub API
// requests. All client instances share it through the transport.
type RateLimitState struct {
	mu        sync.RWMutex
	limited   bool
	resetAt   time.Time
	remaining int
	limit     int
}

var globalRateLimitState = &RateLimitState{}

// Limited returns the reset time and whether requests are currently
// blocked by the rate limit.
func (s *RateLimitState) Limited() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.limited || time.Now().After(s.resetAt) {
		return s.resetAt, false
	}
	return s.resetAt, true
}

// SetLimited sets the rate limit state.
func (s *RateLimitState) SetLimited(limited bool, resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limited = limited
	s.resetAt = resetAt
}

// Update updates the rate limit state from response headers.
func (s *RateLimitState) Update(remaining, limit int, resetAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = remaining
	s.limit = limit
	s.resetAt = resetAt
	if remaining == 0 {
		s.limited = true
	}
}

// Status returns the current rate limit status.
func (s *RateLimitState) Status() (remaining, limit int, resetAt time.Time, limited bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remaining, s.limit, s.resetAt, s.limited && time.Now().Before(s.resetAt)
}

// RateLimitStatus returns the global rate limit status.
func RateLimitStatus() (remaining, limit int, resetAt time.Time, limited bool) {
	return globalRateLimitState.Status()
}
