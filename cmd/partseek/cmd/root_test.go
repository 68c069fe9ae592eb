package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partseek/partseek/internal/search"
)

func TestRootCmd_HasExpectedSubcommands(t *testing.T) {
	// Given: the root command
	root := NewRootCmd()

	// When: listing its subcommands
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	// Then: every user-facing command is registered
	for _, want := range []string{"run", "check", "strategies", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCmd_Help(t *testing.T) {
	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetArgs([]string{"--help"})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "partitioning scheme")
}

func TestStrategiesCmd_ListsEveryStrategy(t *testing.T) {
	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetArgs([]string{"strategies"})

	require.NoError(t, root.Execute())
	for _, name := range search.StrategyNames() {
		assert.Contains(t, buf.String(), name)
	}
}
