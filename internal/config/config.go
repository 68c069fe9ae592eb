// Package config loads and validates the partseek run configuration.
//
// Configuration hierarchy:
//  1. Hardcoded defaults (NewConfig)
//  2. YAML config file
//  3. Environment variables (PARTSEEK_*)
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/partseek/partseek/internal/errors"
	"github.com/partseek/partseek/internal/scheme"
	"github.com/partseek/partseek/internal/stats"
)

// Config is the complete run configuration.
type Config struct {
	Search      SearchConfig      `yaml:"search"`
	Partitions  []PartitionConfig `yaml:"partitions"`
	Schemes     []SchemeConfig    `yaml:"schemes"`
	SiteStats   string            `yaml:"site_stats"`
	Oracle      OracleConfig      `yaml:"oracle"`
	Output      OutputConfig      `yaml:"output"`
	Performance PerformanceConfig `yaml:"performance"`
}

// SearchConfig selects and tunes the search strategy.
type SearchConfig struct {
	// Strategy is one of: all, user, greedy, hcluster, rcluster, kmeans,
	// kmeans_wss, kmeans_greedy.
	Strategy string `yaml:"strategy"`

	// Criterion is the model-selection criterion: aic, aicc or bic.
	Criterion string `yaml:"criterion"`

	// ClusterPercent is the percentage of similarity-ranked merge
	// candidates explored per rcluster step (0 < p <= 100).
	ClusterPercent float64 `yaml:"cluster_percent"`

	// ClusterWeights ranks candidate merges for hcluster/rcluster.
	ClusterWeights stats.Weights `yaml:"cluster_weights"`
}

// PartitionConfig defines one partition as a name plus 1-based inclusive
// column ranges, e.g. "1-100" or "1-100,201-300".
type PartitionConfig struct {
	Name    string `yaml:"name"`
	Columns string `yaml:"columns"`
}

// SchemeConfig defines one user-supplied scheme as named groups of
// partition names.
type SchemeConfig struct {
	Name    string     `yaml:"name"`
	Subsets [][]string `yaml:"subsets"`
}

// OracleConfig selects the scoring oracle. An empty Program uses the
// in-process likelihood scorer.
type OracleConfig struct {
	Program string   `yaml:"program"`
	Args    []string `yaml:"args"`
}

// OutputConfig configures where reports and the subset store live.
type OutputConfig struct {
	// Dir is the run output directory (reports, subset store, lock file).
	Dir string `yaml:"dir"`
	// Quiet disables the terminal progress bar.
	Quiet bool `yaml:"quiet"`
}

// PerformanceConfig tunes the evaluation pool.
type PerformanceConfig struct {
	// Workers is the number of concurrent candidate evaluations per step.
	// 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Strategy:       "greedy",
			Criterion:      "aicc",
			ClusterPercent: 10,
			ClusterWeights: stats.DefaultWeights(),
		},
		Output: OutputConfig{
			Dir: "analysis",
		},
		Performance: PerformanceConfig{
			Workers: runtime.GOMAXPROCS(0),
		},
	}
}

// Load reads the config file at path over the defaults and applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeConfigNotFound,
				fmt.Sprintf("config file not found: %s", path), err)
		}
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("cannot parse %s: %v", path, err), err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies PARTSEEK_* environment overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("PARTSEEK_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Performance.Workers = n
		}
	}
	if v := os.Getenv("PARTSEEK_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
}

// Validate checks structural validity. Strategy and criterion names are
// validated where they are dispatched, before any search work begins.
func (c *Config) Validate() error {
	if len(c.Partitions) == 0 {
		return errors.ConfigError("no partitions defined", nil)
	}
	for i, p := range c.Partitions {
		if p.Name == "" {
			return errors.ConfigError(fmt.Sprintf("partition %d has no name", i), nil)
		}
		if p.Columns == "" {
			return errors.ConfigError(fmt.Sprintf("partition '%s' has no columns", p.Name), nil)
		}
	}
	if c.Search.ClusterPercent <= 0 || c.Search.ClusterPercent > 100 {
		return errors.ConfigError(
			fmt.Sprintf("cluster_percent must be in (0, 100], got %g", c.Search.ClusterPercent), nil)
	}
	if c.Performance.Workers < 0 {
		return errors.ConfigError("workers must not be negative", nil)
	}
	if c.Output.Dir == "" {
		return errors.ConfigError("output dir must not be empty", nil)
	}
	return nil
}

// PartitionSet expands the configured column ranges into the partition
// universe. Ranges are 1-based inclusive in the file and 0-based inside
// the engine.
func (c *Config) PartitionSet() (*scheme.PartitionSet, error) {
	parts := make([]scheme.Partition, 0, len(c.Partitions))
	for _, pc := range c.Partitions {
		cols, err := parseColumns(pc.Columns)
		if err != nil {
			return nil, errors.ConfigError(
				fmt.Sprintf("partition '%s': %v", pc.Name, err), err)
		}
		parts = append(parts, scheme.Partition{Name: pc.Name, Columns: cols})
	}
	return scheme.NewPartitionSet(parts)
}

// parseColumns expands "1-100,201-300" into 0-based column indices.
func parseColumns(spec string) ([]int, error) {
	var cols []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, ok := strings.Cut(part, "-")
		if !ok {
			hi = lo
		}
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("bad column range '%s'", part)
		}
		end, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("bad column range '%s'", part)
		}
		if start < 1 || end < start {
			return nil, fmt.Errorf("bad column range '%s'", part)
		}
		for c := start; c <= end; c++ {
			cols = append(cols, c-1)
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("empty column specification")
	}
	return cols, nil
}
