package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestConfig writes a small runnable config: two partitions over
// four columns, scored by the built-in likelihood model.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	csv := filepath.Join(dir, "sites.csv")
	require.NoError(t, os.WriteFile(csv, []byte(
		"0,1.0\n1,1.1\n2,1.2\n3,1.3\n"), 0o644))

	cfgPath := filepath.Join(dir, "partseek.yaml")
	cfg := fmt.Sprintf(`search:
  strategy: greedy
  criterion: aic
partitions:
  - name: a
    columns: 1-2
  - name: b
    columns: 3-4
site_stats: %s
output:
  dir: %s
  quiet: true
`, csv, filepath.Join(dir, "analysis"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath
}

func TestRunCmd_CompletesSearchAndReports(t *testing.T) {
	// Given: a runnable config file
	cfgPath := writeTestConfig(t)
	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetArgs([]string{"run", "-c", cfgPath})

	// When: running the search
	err := root.Execute()

	// Then: the best scheme is reported on stdout and on disk
	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "Best scheme:")
	assert.Contains(t, output, "Score (AIC):")

	reportPath := filepath.Join(filepath.Dir(cfgPath), "analysis", "best_scheme.txt")
	_, err = os.Stat(reportPath)
	assert.NoError(t, err)
}

func TestRunCmd_StrategyOverride(t *testing.T) {
	cfgPath := writeTestConfig(t)
	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetArgs([]string{"run", "-c", cfgPath, "--strategy", "user"})

	// The config defines no user schemes, so the override must surface
	// the user-strategy error rather than run greedy.
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schemes")
}

func TestRunCmd_MissingConfig(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "-c", filepath.Join(t.TempDir(), "nope.yaml")})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCheckCmd_ValidConfig(t *testing.T) {
	cfgPath := writeTestConfig(t)
	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetArgs([]string{"check", "-c", cfgPath})

	require.NoError(t, root.Execute())
	output := buf.String()
	assert.Contains(t, output, "Config OK")
	assert.Contains(t, output, "Partitions: 2 (4 columns)")
	assert.Contains(t, output, "built-in likelihood model")
}

func TestCheckCmd_BadStrategy(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "partseek.yaml")
	cfg := `search:
  strategy: anneal
partitions:
  - name: a
    columns: 1-2
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"check", "-c", cfgPath})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anneal")
}
