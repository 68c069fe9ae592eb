package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partseek/partseek/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "partseek.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
search:
  strategy: rcluster
  criterion: bic
  cluster_percent: 25
  cluster_weights:
    rate: 1
    freqs: 0.5
partitions:
  - name: gene1
    columns: "1-100"
  - name: gene2
    columns: "101-150,201-250"
schemes:
  - name: by_gene
    subsets:
      - [gene1]
      - [gene2]
site_stats: sites.csv
output:
  dir: out
`

func TestLoad_ValidFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "rcluster", cfg.Search.Strategy)
	assert.Equal(t, "bic", cfg.Search.Criterion)
	assert.Equal(t, 25.0, cfg.Search.ClusterPercent)
	assert.Equal(t, 1.0, cfg.Search.ClusterWeights.Rate)
	assert.Equal(t, 0.5, cfg.Search.ClusterWeights.Freqs)
	assert.Equal(t, "out", cfg.Output.Dir)
	require.Len(t, cfg.Schemes, 1)
	assert.Equal(t, "by_gene", cfg.Schemes[0].Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigNotFound, errors.GetCode(err))
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "search: [unclosed"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetCode(err))
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PARTSEEK_WORKERS", "7")
	t.Setenv("PARTSEEK_OUTPUT_DIR", "elsewhere")

	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Performance.Workers)
	assert.Equal(t, "elsewhere", cfg.Output.Dir)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no partitions", func(c *Config) { c.Partitions = nil }},
		{"unnamed partition", func(c *Config) { c.Partitions[0].Name = "" }},
		{"partition without columns", func(c *Config) { c.Partitions[0].Columns = "" }},
		{"cluster percent zero", func(c *Config) { c.Search.ClusterPercent = 0 }},
		{"cluster percent above 100", func(c *Config) { c.Search.ClusterPercent = 101 }},
		{"negative workers", func(c *Config) { c.Performance.Workers = -1 }},
		{"empty output dir", func(c *Config) { c.Output.Dir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Partitions = []PartitionConfig{{Name: "p", Columns: "1-10"}}
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestPartitionSet_ExpandsRanges(t *testing.T) {
	cfg := NewConfig()
	cfg.Partitions = []PartitionConfig{
		{Name: "a", Columns: "1-3"},
		{Name: "b", Columns: "4,6-7"},
	}

	ps, err := cfg.PartitionSet()
	require.NoError(t, err)
	assert.Equal(t, 2, ps.Len())
	assert.Equal(t, []int{0, 1, 2}, ps.Get("a").Columns)
	assert.Equal(t, []int{3, 5, 6}, ps.Get("b").Columns)
}

func TestParseColumns_Errors(t *testing.T) {
	tests := []string{"", "0-5", "5-2", "a-b", "1-x", ","}
	for _, spec := range tests {
		t.Run(spec, func(t *testing.T) {
			_, err := parseColumns(spec)
			assert.Error(t, err)
		})
	}
}
