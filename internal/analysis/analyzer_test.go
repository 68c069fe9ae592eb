package analysis

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partseek/partseek/internal/config"
	"github.com/partseek/partseek/internal/errors"
)

// testConfig builds a runnable in-process configuration: four 1-column
// partitions per pair, site statistics from a temp CSV and the built-in
// likelihood oracle.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	csv := filepath.Join(dir, "sites.csv")
	require.NoError(t, os.WriteFile(csv, []byte(
		"# column,feature\n"+
			"0,1.0\n1,1.1\n2,1.2\n3,1.3\n"), 0o644))

	cfg := config.NewConfig()
	cfg.Partitions = []config.PartitionConfig{
		{Name: "a", Columns: "1-2"},
		{Name: "b", Columns: "3-4"},
	}
	cfg.SiteStats = csv
	cfg.Search.Strategy = "greedy"
	cfg.Search.Criterion = "aic"
	cfg.Output.Dir = filepath.Join(dir, "analysis")
	cfg.Output.Quiet = true
	cfg.Performance.Workers = 2
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestAnalyzer_RunWritesBestScheme(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	best, err := a.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.Equal(t, 4, best.SiteCount)

	data, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "best_scheme.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Best scheme found")

	summaries, err := os.ReadDir(filepath.Join(cfg.Output.Dir, "schemes"))
	require.NoError(t, err)
	assert.NotEmpty(t, summaries)
}

func TestAnalyzer_RefusesLockedOutputDir(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	_, err = New(cfg)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeOutputLocked, errors.GetCode(err))
}

func TestAnalyzer_LockReleasedOnClose(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := New(cfg)
	require.NoError(t, err)
	assert.NoError(t, b.Close())
}

func TestAnalyzer_RejectsBadStrategyAndCriterion(t *testing.T) {
	t.Run("strategy", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Search.Strategy = "anneal"
		_, err := New(cfg)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeUnknownStrategy, errors.GetCode(err))
	})

	t.Run("criterion", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Search.Criterion = "dic"
		_, err := New(cfg)
		require.Error(t, err)
		assert.Equal(t, errors.ErrCodeUnknownCriterion, errors.GetCode(err))
	})
}

func TestAnalyzer_RequiresSomeOracle(t *testing.T) {
	cfg := testConfig(t)
	cfg.SiteStats = ""

	_, err := New(cfg)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
}

func TestAnalyzer_ProcessOracleRequiresSiteStats(t *testing.T) {
	cfg := testConfig(t)
	cfg.SiteStats = ""
	cfg.Oracle.Program = "/bin/true"

	_, err := New(cfg)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
}

func TestAnalyzer_SecondRunReusesStoredScores(t *testing.T) {
	cfg := testConfig(t)

	a, err := New(cfg)
	require.NoError(t, err)
	first, err := a.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := New(cfg)
	require.NoError(t, err)
	defer b.Close()
	second, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, first.Score, second.Score, 1e-9)
}
