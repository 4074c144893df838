package repository

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genRecord generates scan records whose values survive the pairs encoding
func genRecord() gopter.Gen {
	return gopter.CombineGens(
		gen.RegexMatch(`^[a-z][a-z0-9_-]{0,10}$`),
		gen.RegexMatch(`^/[a-z][a-z0-9/]{0,15}$`),
		gen.RegexMatch(`^[a-z][a-z0-9/_-]{0,15}$`),
		gen.RegexMatch(`^[0-9a-f]{40}$`),
		gen.RegexMatch(`^([a-z][a-z0-9/-]{0,10})?$`),
		gen.RegexMatch(`^(v[0-9]\.[0-9]{1,2}\.[0-9]{1,2})?$`),
		gen.Bool(),
	).Map(func(values []interface{}) SubmoduleRecord {
		return SubmoduleRecord{
			Name:        values[0].(string),
			TopLevel:    values[1].(string),
			DisplayPath: values[2].(string),
			ModulePath:  values[2].(string),
			Revision:    values[3].(string),
			Branch:      values[4].(string),
			Tag:         values[5].(string),
			Dirty:       values[6].(bool),
		}
	})
}

// =============================================================================
// Property-Based Tests
// =============================================================================

func TestScanCacheTTL(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	fixedNow := time.Date(2026, 1, 22, 12, 0, 0, 0, time.UTC)
	ttl := time.Hour

	properties.Property("entries younger than the TTL are returned", prop.ForAll(
		func(record SubmoduleRecord, ageSeconds int) bool {
			now := fixedNow.Add(-time.Duration(ageSeconds) * time.Second)
			clock := func() time.Time { return now }

			cache, err := NewScanCache(t.TempDir(), "git", WithTTL(ttl), WithNowFunc(func() time.Time { return clock() }))
			if err != nil {
				t.Logf("Failed to create cache: %v", err)
				return false
			}
			if err := cache.Set(record.TopLevel, []SubmoduleRecord{record}); err != nil {
				t.Logf("Set failed: %v", err)
				return false
			}

			clock = func() time.Time { return fixedNow }
			got, found := cache.Get(record.TopLevel)
			return found && reflect.DeepEqual(got, []SubmoduleRecord{record})
		},
		genRecord(),
		gen.IntRange(0, 3599),
	))

	properties.Property("entries at or past the TTL are a miss", prop.ForAll(
		func(record SubmoduleRecord, extraSeconds int) bool {
			now := fixedNow.Add(-ttl - time.Duration(extraSeconds)*time.Second)
			clock := func() time.Time { return now }

			cache, err := NewScanCache(t.TempDir(), "git", WithTTL(ttl), WithNowFunc(func() time.Time { return clock() }))
			if err != nil {
				t.Logf("Failed to create cache: %v", err)
				return false
			}
			if err := cache.Set(record.TopLevel, []SubmoduleRecord{record}); err != nil {
				t.Logf("Set failed: %v", err)
				return false
			}

			clock = func() time.Time { return fixedNow }
			_, found := cache.Get(record.TopLevel)
			return !found
		},
		genRecord(),
		gen.IntRange(0, 100000),
	))

	properties.TestingRun(t)
}

func TestScanCachePersistence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("reloading the cache file preserves records", prop.ForAll(
		func(records []SubmoduleRecord) bool {
			dir := t.TempDir()

			cache, err := NewScanCache(dir, "scans")
			if err != nil {
				t.Logf("Failed to create cache: %v", err)
				return false
			}
			if err := cache.Set("/srv/app", records); err != nil {
				t.Logf("Set failed: %v", err)
				return false
			}

			reloaded, err := NewScanCache(dir, "scans")
			if err != nil {
				t.Logf("Failed to reload cache: %v", err)
				return false
			}
			got, found := reloaded.Get("/srv/app")
			return found && reflect.DeepEqual(got, records)
		},
		gen.SliceOfN(3, genRecord()),
	))

	properties.TestingRun(t)
}

// =============================================================================
// Unit Tests
// =============================================================================

func TestScanCacheZeroTTLNeverExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache, err := NewScanCache(t.TempDir(), "", WithNowFunc(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewScanCache failed: %v", err)
	}
	if filepath.Base(cache.Path()) != "git.json" {
		t.Errorf("expected default key git.json, got %s", cache.Path())
	}

	if err := cache.Set("/srv/app", nil); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	now = now.Add(10 * 365 * 24 * time.Hour)
	if _, found := cache.Get("/srv/app"); !found {
		t.Error("expected entry without TTL to stay valid")
	}
}

func TestScanCacheDeleteClearCleanup(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache, err := NewScanCache(t.TempDir(), "git", WithTTL(time.Minute), WithNowFunc(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewScanCache failed: %v", err)
	}

	for _, path := range []string{"/a", "/b", "/c"} {
		if err := cache.Set(path, nil); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := cache.Delete("/a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if cache.Len() != 2 {
		t.Errorf("expected 2 entries after delete, got %d", cache.Len())
	}

	now = now.Add(2 * time.Minute)
	if err := cache.Set("/d", nil); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := cache.Cleanup(); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("expected only the fresh entry after cleanup, got %d", cache.Len())
	}

	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("expected empty cache, got %d", cache.Len())
	}
}

func TestScanCacheCorruptedFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "git.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write cache file: %v", err)
	}

	cache, err := NewScanCache(dir, "git")
	if err != nil {
		t.Fatalf("expected corrupted cache to be ignored, got %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", cache.Len())
	}
}
