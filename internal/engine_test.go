package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/linarith/internal/linarith"
	"github.com/gnolang/linarith/internal/problem"
	tt "github.com/gnolang/linarith/internal/types"
)

const engineProblems = `
name: transitivity
hypotheses:
  - id: lower
    expr: x - y < 0
  - id: upper
    expr: y - x < 0
expect: refuted
---
name: satisfiable
hypotheses:
  - 0 <= x && x <= 1
expect: not-refuted
---
name: bound
hypotheses:
  - id: range
    expr: 0 <= x && x <= 1
goal: x <= 2
expect: proved
---
name: pinned
hypotheses:
  - x <= 1
  - x >= 1
goal: x == 1
expect: proved
---
name: wrong
hypotheses:
  - x < 1
expect: refuted
`

func TestEngineRunSource(t *testing.T) {
	t.Parallel()

	engine := NewEngine(linarith.DefaultConfig(), zap.NewNop())
	results, err := engine.RunSource([]byte(engineProblems))
	require.NoError(t, err)
	require.Len(t, results, 5)

	byName := make(map[string]tt.Result)
	for _, r := range results {
		byName[r.Problem] = r
	}

	t.Run("Refuted", func(t *testing.T) {
		r := byName["transitivity"]
		assert.Equal(t, tt.VerdictRefuted, r.Verdict)
		assert.Equal(t, "1*lower + 1*upper : 0 < 0", r.Certificate)
		assert.Equal(t, map[string]string{"lower": "1", "upper": "1"}, r.Weights)
		assert.False(t, r.Mismatch)
	})

	t.Run("NotRefuted", func(t *testing.T) {
		r := byName["satisfiable"]
		assert.Equal(t, tt.VerdictNotRefuted, r.Verdict)
		assert.Equal(t, linarith.ReasonExhausted.String(), r.Reason)
		assert.Empty(t, r.Certificate)
		assert.False(t, r.Mismatch)
	})

	t.Run("Goal", func(t *testing.T) {
		r := byName["bound"]
		assert.Equal(t, tt.VerdictProved, r.Verdict)
		assert.Equal(t, "x <= 2", r.Goal)
		assert.Contains(t, r.Weights, "goal")
		assert.False(t, r.Mismatch)
	})

	t.Run("EqualityGoal", func(t *testing.T) {
		r := byName["pinned"]
		assert.Equal(t, tt.VerdictProved, r.Verdict)
		assert.Contains(t, r.Certificate, "; ")
		assert.Nil(t, r.Weights)
	})

	t.Run("Mismatch", func(t *testing.T) {
		r := byName["wrong"]
		assert.Equal(t, tt.VerdictNotRefuted, r.Verdict)
		assert.True(t, r.Mismatch)
	})
}

func TestEngineRunSourceErrors(t *testing.T) {
	t.Parallel()
	engine := NewEngine(linarith.DefaultConfig(), nil)

	_, err := engine.RunSource([]byte("name: a\nexpect: maybe\nhypotheses: [x < 0]\n"))
	assert.ErrorIs(t, err, problem.ErrInvalidProblem)

	_, err = engine.RunSource([]byte("name: a\nhypotheses: [x <]\n"))
	assert.Error(t, err)

	// the second entry is labelled h2 by position
	_, err = engine.RunSource([]byte("name: a\nhypotheses:\n  - {id: h2, expr: x < 0}\n  - x > 1\n"))
	assert.ErrorIs(t, err, problem.ErrInvalidProblem)
}

func TestEngineRun(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := filepath.Join(dir, "problems.yaml")
	require.NoError(t, os.WriteFile(path, []byte(engineProblems), 0o644))

	engine := NewEngine(linarith.DefaultConfig(), nil)
	engine.SetWorkers(2)

	results, err := engine.Run(path)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.Equal(t, path, r.Filename)
	}

	_, err = engine.Run(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEngineRunCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	problems, err := problem.Parse(strings.NewReader("name: p\nhypotheses: [x < y, y < z, z < x]\n"))
	require.NoError(t, err)

	engine := NewEngine(linarith.DefaultConfig(), nil)
	results, err := engine.Solve(ctx, "", problems)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, tt.VerdictNotRefuted, results[0].Verdict)
	assert.Equal(t, linarith.ReasonCanceled.String(), results[0].Reason)
}

func TestEngineTypeFilter(t *testing.T) {
	t.Parallel()
	config := linarith.DefaultConfig()
	config.Type = "rat"

	engine := NewEngine(config, nil)
	results, err := engine.RunSource([]byte(`
name: mixed
type: rat
hypotheses:
  - x < 0
  - expr: 0 < x
    type: int
`))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, tt.VerdictNotRefuted, results[0].Verdict)
	require.Len(t, results[0].Dropped, 1)
	assert.Contains(t, results[0].Dropped[0], "h2")
}
