package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrCacheCorrupted is returned when the cache file cannot be parsed
var ErrCacheCorrupted = errors.New("scan cache file is corrupted")

// ScanEntry is a cached submodule scan of one repository.
type ScanEntry struct {
	Records   []cachedRecord `json:"records"`
	Timestamp time.Time      `json:"timestamp"`
}

// cachedRecord is the on-disk form of a SubmoduleRecord
type cachedRecord struct {
	Name        string `json:"name"`
	TopLevel    string `json:"toplevel"`
	DisplayPath string `json:"displaypath"`
	ModulePath  string `json:"sm_path"`
	Revision    string `json:"sha1"`
	Branch      string `json:"branch,omitempty"`
	Tag         string `json:"tag,omitempty"`
	Dirty       bool   `json:"dirty"`
}

type cacheFile struct {
	Entries map[string]ScanEntry `json:"entries"`
}

// ScanCache keeps submodule scan results keyed by repository path and
// persists them to disk. A TTL of zero never expires entries.
type ScanCache struct {
	entries map[string]ScanEntry
	ttl     time.Duration
	path    string
	mu      sync.RWMutex
	nowFunc func() time.Time
}

// CacheOption is a functional option for configuring ScanCache
type CacheOption func(*ScanCache)

// WithTTL sets how long entries stay valid
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *ScanCache) {
		c.ttl = ttl
	}
}

// WithNowFunc sets a custom time function for testing
func WithNowFunc(fn func() time.Time) CacheOption {
	return func(c *ScanCache) {
		c.nowFunc = fn
	}
}

// NewScanCache creates or loads the cache stored as <dir>/<key>.json.
// A missing or corrupted file starts an empty cache; the file is rewritten
// on the next change.
func NewScanCache(dir, key string, opts ...CacheOption) (*ScanCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if key == "" {
		key = "git"
	}

	cache := &ScanCache{
		entries: make(map[string]ScanEntry),
		path:    filepath.Join(dir, key+".json"),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(cache)
	}

	if err := cache.load(); err != nil && !os.IsNotExist(err) {
		cache.entries = make(map[string]ScanEntry)
	}

	return cache, nil
}

// Path returns the cache file location
func (c *ScanCache) Path() string {
	return c.path
}

func (c *ScanCache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return err
	}

	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheCorrupted, err)
	}
	if cf.Entries != nil {
		c.entries = cf.Entries
	}
	return nil
}

// Get returns the cached records of repoPath if present and not expired
func (c *ScanCache) Get(repoPath string) ([]SubmoduleRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[repoPath]
	if !ok || c.isExpired(entry) {
		return nil, false
	}

	records := make([]SubmoduleRecord, len(entry.Records))
	for i, r := range entry.Records {
		records[i] = SubmoduleRecord(r)
	}
	return records, true
}

func (c *ScanCache) isExpired(entry ScanEntry) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.nowFunc().Sub(entry.Timestamp) >= c.ttl
}

// Set stores the records of repoPath and saves the cache
func (c *ScanCache) Set(repoPath string, records []SubmoduleRecord) error {
	stored := make([]cachedRecord, len(records))
	for i, r := range records {
		stored[i] = cachedRecord(r)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[repoPath] = ScanEntry{Records: stored, Timestamp: c.nowFunc()}
	return c.saveUnsafe()
}

// Delete removes repoPath from the cache and saves it
func (c *ScanCache) Delete(repoPath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, repoPath)
	return c.saveUnsafe()
}

// Clear removes all entries and saves the cache
func (c *ScanCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]ScanEntry)
	return c.saveUnsafe()
}

// Len returns the number of entries, expired ones included
func (c *ScanCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup drops expired entries and saves the cache
func (c *ScanCache) Cleanup() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path, entry := range c.entries {
		if c.isExpired(entry) {
			delete(c.entries, path)
		}
	}
	return c.saveUnsafe()
}

// saveUnsafe persists the cache. Caller must hold the write lock.
func (c *ScanCache) saveUnsafe() error {
	data, err := json.MarshalIndent(cacheFile{Entries: c.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename cache file: %w", err)
	}
	return nil
}
