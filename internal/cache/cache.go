// Package cache provides a file cache for contributor rosters so that
// re-running the dashboard against the same repository and date range
// does not re-spend GitHub API budget.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HealKnix/code-quality-reporter/internal/model"
)

// Cacher defines the caching operations. The interface enables
// mocking the cache in unit tests.
type Cacher interface {
	GetRoster(ref model.RepoRef, dateRange model.DateRange) ([]model.Contributor, bool)
	SetRoster(ref model.RepoRef, dateRange model.DateRange, contributors []model.Contributor) error
	Clear() error
	Stats() (entries int, size int64, err error)
}

// Ensure Cache implements Cacher.
var _ Cacher = (*Cache)(nil)

// Cache stores contributor rosters on disk with a TTL.
type Cache struct {
	dir string
	ttl time.Duration
}

// rosterEntry is the on-disk cache record.
type rosterEntry struct {
	FetchedAt    time.Time           `json:"fetched_at"`
	Contributors []model.Contributor `json:"contributors"`
}

// New creates a cache under the user cache directory.
func New(ttl time.Duration) (*Cache, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}

	cacheDir = filepath.Join(cacheDir, "cqr", "rosters")
	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Cache{dir: cacheDir, ttl: ttl}, nil
}

// NewAt creates a cache rooted at dir. Used by tests.
func NewAt(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// keyFile generates a file name for a repository + date range key.
func (c *Cache) keyFile(ref model.RepoRef, dateRange model.DateRange) string {
	rangePart := dateRange.SearchFilter()
	if rangePart == "" {
		rangePart = "all"
	}
	// The range filter contains characters like "*" and "."; flatten
	// the whole key into a filesystem-safe name.
	name := fmt.Sprintf("%s_%s_%s.json", ref.Owner, ref.Repo, rangePart)
	replacer := strings.NewReplacer("/", "_", "*", "x", "..", "-")
	return replacer.Replace(name)
}

// GetRoster retrieves a cached roster, honoring the TTL.
func (c *Cache) GetRoster(ref model.RepoRef, dateRange model.DateRange) ([]model.Contributor, bool) {
	path := filepath.Join(c.dir, c.keyFile(ref, dateRange))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry rosterEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if time.Since(entry.FetchedAt) > c.ttl {
		return nil, false
	}

	return entry.Contributors, true
}

// SetRoster caches a roster for a repository + date range.
func (c *Cache) SetRoster(ref model.RepoRef, dateRange model.DateRange, contributors []model.Contributor) error {
	entry := rosterEntry{
		FetchedAt:    time.Now(),
		Contributors: contributors,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal roster entry: %w", err)
	}

	path := filepath.Join(c.dir, c.keyFile(ref, dateRange))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write roster entry: %w", err)
	}
	return nil
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove cache entry %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// Stats returns the number of cache entries and their combined size.
func (c *Cache) Stats() (entries int, size int64, err error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		entries++
		size += info.Size()
	}
	return entries, size, nil
}
