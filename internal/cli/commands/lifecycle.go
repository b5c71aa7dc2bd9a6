package commands

import (
	"fmt"

	"github.com/leapstack-labs/statusrules/internal/cli/output"
	"github.com/leapstack-labs/statusrules/internal/convert"
	"github.com/leapstack-labs/statusrules/internal/lifecycle"
	"github.com/spf13/cobra"
)

// LifecycleOptions holds options for the lifecycle command.
type LifecycleOptions struct {
	Format string
}

// NewLifecycleCommand creates the lifecycle command.
func NewLifecycleCommand() *cobra.Command {
	opts := &LifecycleOptions{}
	cmd := &cobra.Command{
		Use:   "lifecycle <input.csv> <output.json>",
		Short: "Reshape a lifecycle mapping CSV into JSON",
		Long: `Reshape a lifecycle mapping CSV into a JSON document keyed by the
Converted_Status column.

Each entry holds a "status" object (Status, Status_code, Status_description)
and a "code_set" object with every other column. Header names and values are
trimmed; a repeated Converted_Status keeps the last row.`,
		Example: `  statusrules lifecycle lifecycle_map.csv lifecycle_map.json`,
		Args:    exactArgsWithUsage(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLifecycle(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: json, yaml (default from config)")

	return cmd
}

func runLifecycle(cmd *cobra.Command, input, out string, opts *LifecycleOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	formatName := cmdCtx.Cfg.Format
	if opts.Format != "" {
		formatName = opts.Format
	}
	format, err := convert.ParseFormat(formatName)
	if err != nil {
		return err
	}

	m, err := lifecycle.ReadFile(input, cmdCtx.Logger)
	if err != nil {
		return err
	}
	if err := convert.WriteFile(out, m, format); err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]any{"input": input, "output": out, "format": format, "terms": m.Len()})
	}
	r.Success(fmt.Sprintf("wrote %s (%d terms)", out, m.Len()))
	return nil
}
