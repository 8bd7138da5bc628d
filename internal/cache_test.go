package internal

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/linarith/internal/linarith"
	tt "github.com/gnolang/linarith/internal/types"
)

func TestCache(t *testing.T) {
	tmpDir := t.TempDir()

	cache, err := NewCache(filepath.Join(tmpDir, "cache"), time.Hour)
	require.NoError(t, err)

	results := []tt.Result{{
		Filename:    "test.yaml",
		Problem:     "p",
		Verdict:     tt.VerdictRefuted,
		Reason:      "contradiction derived",
		Certificate: "1*h1 + 1*h2 : 0 < 0",
		Weights:     map[string]string{"h1": "1", "h2": "1"},
		Rounds:      1,
	}}

	t.Run("SaveAndLoad", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "saved.yaml")
		writeTestFile(t, filename, "name: p\nhypotheses: [x < 0, 0 < x]\n")

		require.NoError(t, cache.Set(filename, "cfg", testMetadata(t, filename), results))

		loaded, found := cache.Get(filename, "cfg")
		assert.True(t, found)
		assert.Equal(t, results, loaded)

		// entries survive a reload from disk
		reopened, err := NewCache(filepath.Join(tmpDir, "cache"), time.Hour)
		require.NoError(t, err)
		loaded, found = reopened.Get(filename, "cfg")
		assert.True(t, found)
		assert.Equal(t, results, loaded)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, found := cache.Get("nonexistent.yaml", "cfg")
		assert.False(t, found)
	})

	t.Run("ConfigChanged", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "config.yaml")
		writeTestFile(t, filename, "name: p\nhypotheses: [x < 0]\n")

		require.NoError(t, cache.Set(filename, "cfg", testMetadata(t, filename), results))
		_, found := cache.Get(filename, "other")
		assert.False(t, found)
	})

	t.Run("FileModified", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "modified.yaml")
		writeTestFile(t, filename, "name: p\nhypotheses: [x < 0]\n")

		require.NoError(t, cache.Set(filename, "cfg", testMetadata(t, filename), results))

		require.NoError(t, os.WriteFile(filename, []byte("name: p\nhypotheses: [x < 1]\n"), 0o644))

		_, found := cache.Get(filename, "cfg")
		assert.False(t, found)
	})

	t.Run("EditedWhileSolving", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "edited.yaml")
		writeTestFile(t, filename, "name: p\nhypotheses: [x < 0]\n")
		before := testMetadata(t, filename)

		// the file changes after it was read but before results are stored
		writeTestFile(t, filename, "name: p\nhypotheses: [x < 0, x > 1]\n")
		require.NoError(t, cache.Set(filename, "cfg", before, results))

		_, found := cache.Get(filename, "cfg")
		assert.False(t, found)
	})

	t.Run("Expired", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "expired.yaml")
		writeTestFile(t, filename, "name: p\nhypotheses: [x < 0]\n")

		require.NoError(t, cache.Set(filename, "cfg", testMetadata(t, filename), results))
		cache.SetMaxAge(time.Nanosecond)
		defer cache.SetMaxAge(time.Hour)
		time.Sleep(time.Millisecond)

		_, found := cache.Get(filename, "cfg")
		assert.False(t, found)
	})

	t.Run("InvalidateAll", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "all.yaml")
		writeTestFile(t, filename, "name: p\nhypotheses: [x < 0]\n")

		require.NoError(t, cache.Set(filename, "cfg", testMetadata(t, filename), results))
		cache.InvalidateAll()
		assert.Zero(t, cache.Len())
	})
}

func TestCacheWithEngine(t *testing.T) {
	tmpDir := t.TempDir()

	cache, err := NewCache(filepath.Join(tmpDir, "cache"), time.Hour)
	require.NoError(t, err)

	engine := NewEngine(linarith.DefaultConfig(), nil)
	engine.SetCache(cache)

	filename := filepath.Join(tmpDir, "problem.yaml")
	writeTestFile(t, filename, "name: p\nhypotheses: [x - y < 0, y - x < 0]\nexpect: refuted\n")

	t.Run("CacheHit", func(t *testing.T) {
		results, err := engine.Run(filename)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 1, cache.Len())

		cached, err := engine.Run(filename)
		require.NoError(t, err)
		assert.Equal(t, results, cached)
	})

	t.Run("CacheMiss", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filename, []byte("name: p\nhypotheses: [x - y < 0]\nexpect: refuted\n"), 0o644))

		results, err := engine.Run(filename)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, tt.VerdictNotRefuted, results[0].Verdict)
		assert.True(t, results[0].Mismatch)
	})

	t.Run("ConfigChanged", func(t *testing.T) {
		config := linarith.DefaultConfig()
		config.Order = linarith.OrderFewestPairs
		assert.NotEqual(t, configFingerprint(linarith.DefaultConfig()), configFingerprint(config))
	})
}

func TestCacheConcurrency(t *testing.T) {
	tmpDir := t.TempDir()

	cache, err := NewCache(filepath.Join(tmpDir, "cache"), time.Hour)
	require.NoError(t, err)

	testFile := filepath.Join(tmpDir, "test.yaml")
	writeTestFile(t, testFile, "name: p\nhypotheses: [x < 0]\n")

	results := []tt.Result{{Filename: testFile, Problem: "p", Verdict: tt.VerdictNotRefuted}}
	metadata := testMetadata(t, testFile)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.Set(testFile, "cfg", metadata, results))
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Get(testFile, "cfg")
		}()
	}
	wg.Wait()
}

func testMetadata(t *testing.T, filename string) fileMetadata {
	t.Helper()
	metadata, err := getFileMetadata(filename)
	require.NoError(t, err)
	return metadata
}

func writeTestFile(t *testing.T, filename string, content string) {
	t.Helper()
	err := os.WriteFile(filename, []byte(content), 0o644)
	require.NoError(t, err)
}
