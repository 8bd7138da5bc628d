package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/gnolang/linarith/check"
	"github.com/gnolang/linarith/internal"
	"github.com/gnolang/linarith/internal/linarith"
	tt "github.com/gnolang/linarith/internal/types"
)

const problems = `
name: transitivity
hypotheses: [x - y < 0, y - x < 0]
expect: refuted
---
name: wrong
hypotheses: [x < 0]
expect: refuted
`

func writeProblems(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "problems.yaml")
	require.NoError(t, os.WriteFile(path, []byte(problems), 0o644))
	return path
}

func TestRunCheck(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeProblems(t, dir)

	engine := internal.NewEngine(linarith.DefaultConfig(), nil)

	var out bytes.Buffer
	mismatch, err := runCheck(context.Background(), zap.NewNop(), engine, []string{dir}, &out, false, "")
	require.NoError(t, err)
	assert.True(t, mismatch)
	assert.Contains(t, out.String(), "refuted: transitivity")
	assert.Contains(t, out.String(), "error: wrong")
	assert.Contains(t, out.String(), "2 problems: 1 refuted or proved, 1 not, 1 unexpected")
}

func TestRunCheckJSON(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeProblems(t, dir)
	engine := internal.NewEngine(linarith.DefaultConfig(), nil)

	t.Run("Stdout", func(t *testing.T) {
		var out bytes.Buffer
		_, err := runCheck(context.Background(), nil, engine, []string{path}, &out, true, "")
		require.NoError(t, err)

		var results []tt.Result
		require.NoError(t, json.Unmarshal(out.Bytes(), &results))
		require.Len(t, results, 2)
		assert.Equal(t, "1*h1 + 1*h2 : 0 < 0", results[0].Certificate)
	})

	t.Run("File", func(t *testing.T) {
		jsonPath := filepath.Join(dir, "out.json")
		var out bytes.Buffer
		_, err := runCheck(context.Background(), nil, engine, []string{path}, &out, true, jsonPath)
		require.NoError(t, err)
		assert.Empty(t, out.String())

		d, err := os.ReadFile(jsonPath)
		require.NoError(t, err)
		var results []tt.Result
		require.NoError(t, json.Unmarshal(d, &results))
		assert.Len(t, results, 2)
	})
}

func TestRunProve(t *testing.T) {
	t.Parallel()
	engine := internal.NewEngine(linarith.DefaultConfig(), nil)

	var out bytes.Buffer
	ok, err := runProve(context.Background(), engine, []string{"0 <= x && x <= 1"}, "x <= 2", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "proved: inline")

	out.Reset()
	ok, err = runProve(context.Background(), engine, []string{"x - y < 0", "y - x < 0"}, "", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "certificate: 1*h1 + 1*h2 : 0 < 0")

	out.Reset()
	ok, err = runProve(context.Background(), engine, []string{"x < 1"}, "x < 0", &out)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = runProve(context.Background(), engine, []string{"x <"}, "", &out)
	assert.Error(t, err)
}

func TestInitConfigurationFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), check.DefaultConfigFile)
	require.NoError(t, initConfigurationFile(path))

	config, err := check.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, check.DefaultConfig(), config)
}

func TestRunWatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	engine := internal.NewEngine(linarith.DefaultConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var out bytes.Buffer
	go func() {
		done <- runWatch(ctx, zap.NewNop(), engine, []string{dir}, &out)
	}()

	// give the watcher time to register the directory
	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
