package check

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/linarith/internal/linarith"
)

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestWriteAndLoadConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)

	want := DefaultConfig()
	want.Prover.Order = "fewest-pairs"
	want.Prover.Type = "rat"
	want.Cache.Dir = ""
	require.NoError(t, WriteConfig(path, want))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadConfigPartialFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prover:\n  max_rounds: 3\n"), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, config.Prover.MaxRounds)
	assert.Equal(t, DefaultConfig().Prover.MaxComps, config.Prover.MaxComps)
	assert.True(t, config.Prover.SelfCheck)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("LINARITH_PROVER_MAX_COMPS", "7")

	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7, config.Prover.MaxComps)
}

func TestProverConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	config.Prover.Order = "fewest-pairs"
	prover, err := config.ProverConfig()
	require.NoError(t, err)
	assert.Equal(t, linarith.OrderFewestPairs, prover.Order)
	assert.Equal(t, linarith.DefaultConfig().Limits, prover.Limits)

	config.Prover.Order = "random"
	_, err = config.ProverConfig()
	assert.Error(t, err)

	config = DefaultConfig()
	config.Prover.MaxRounds = -1
	_, err = config.ProverConfig()
	assert.Error(t, err)
}

func TestCacheMaxAge(t *testing.T) {
	t.Parallel()

	age, err := DefaultConfig().CacheMaxAge()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, age)

	config := DefaultConfig()
	config.Cache.MaxAge = ""
	age, err = config.CacheMaxAge()
	require.NoError(t, err)
	assert.Zero(t, age)

	config.Cache.MaxAge = "soon"
	_, err = config.CacheMaxAge()
	assert.Error(t, err)
}
