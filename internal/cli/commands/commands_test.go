// Package commands_test provides tests for CLI command creation.
package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leapstack-labs/statusrules/internal/cli/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

// execute runs cmd standalone with captured output. Without a loaded
// config the commands read STATUSRULES_* variables directly.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewConvertCommand(t *testing.T) {
	cmd := NewConvertCommand()

	assert.Equal(t, "convert <input.csv> <output.json>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// --legacy and --output are global persistent flags on root, not local
	assert.NotNil(t, cmd.Flags().Lookup("format"), "flag %q should exist", "format")
}

func TestNewReviewCommand(t *testing.T) {
	cmd := NewReviewCommand()

	assert.Equal(t, "review <input.csv>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	flags := []string{"fail-on-degraded", "max-rows"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewParseCommand(t *testing.T) {
	cmd := NewParseCommand()

	assert.Equal(t, "parse [rule text]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
}

func TestNewHistoryCommand(t *testing.T) {
	cmd := NewHistoryCommand()

	assert.Equal(t, "history", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("limit"))
	assert.NotNil(t, cmd.Flags().ShorthandLookup("n"))
}

func TestNewLifecycleCommand(t *testing.T) {
	cmd := NewLifecycleCommand()

	assert.Equal(t, "lifecycle <input.csv> <output.json>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("format"))
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t,
		[][2]string{{"1", "--fail-on-degraded is set and at least one condition degraded"}},
		ExitCodes(NewReviewCommand()))
	assert.Len(t, ExitCodes(NewConvertCommand()), 2)
	assert.Empty(t, ExitCodes(NewVersionCommand("dev")))
}
