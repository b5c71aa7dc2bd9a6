package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/statusrules/internal/cli/config"
	"github.com/leapstack-labs/statusrules/internal/cli/output"
	"github.com/leapstack-labs/statusrules/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	config.ResetConfig()

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "statusrules", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	for _, flag := range []string{"config", "verbose", "output", "state", "legacy", "log-format"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"convert", "review", "parse", "history", "lifecycle", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRoot_PreRunStoresContext(t *testing.T) {
	t.Chdir(t.TempDir())

	var (
		gotCfg      *config.Config
		gotRenderer *output.Renderer
	)
	cmd := NewRootCmd()
	cmd.AddCommand(&cobra.Command{
		Use: "probe",
		RunE: func(cmd *cobra.Command, _ []string) error {
			gotCfg = GetConfig(cmd.Context())
			gotRenderer = GetRenderer(cmd.Context())
			config.GetLogger(cmd.Context()).Debug("probe")
			return nil
		},
	})
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"probe", "--legacy", "-o", "json", "-v"})
	config.ResetConfig()

	require.NoError(t, cmd.Execute())
	require.NotNil(t, gotCfg)
	assert.Equal(t, "legacy", gotCfg.Mode)
	assert.True(t, gotCfg.Verbose)
	assert.Equal(t, output.ModeJSON, gotRenderer.EffectiveMode())
	assert.Contains(t, stderr.String(), "msg=probe", "verbose enables debug logging")
}

func TestRoot_Defaults(t *testing.T) {
	assert.Equal(t, config.Default(), GetConfig(context.Background()))
	assert.NotNil(t, GetRenderer(context.Background()))
}

func TestRoot_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	cfgPath := testutil.WriteFile(t, t.TempDir(), "statusrules.yaml", "output: html\n")

	_, _, err := executeRoot(t, "--config", cfgPath, "version")
	assert.ErrorContains(t, err, "invalid output")
}

func TestRoot_ConvertWithHistory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	in := testutil.WriteFile(t, dir, "rules.csv", "Status,Rules,StartDate\nActive,CODE=A,START_DT\nActive,CODE=B,\n")
	out := filepath.Join(dir, "rules.json")
	statePath := filepath.Join(dir, "history.db")

	stdout, _, err := executeRoot(t, "convert", in, out, "--state", statePath, "-o", "json")
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	assert.Equal(t, float64(2), summary["statuses"])
	assert.NotEmpty(t, summary["run_id"])

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Active_2"`)

	stdout, _, err = executeRoot(t, "history", "--state", statePath, "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, stdout, "| Completed | strict |")
}
