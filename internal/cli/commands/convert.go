package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/statusrules/internal/cli/output"
	"github.com/leapstack-labs/statusrules/internal/convert"
	"github.com/leapstack-labs/statusrules/internal/state"
	"github.com/leapstack-labs/statusrules/internal/watch"
	"github.com/leapstack-labs/statusrules/pkg/parser"
	"github.com/spf13/cobra"
)

// ConvertOptions holds options for the convert command.
type ConvertOptions struct {
	Format string // Output serialization, overrides config
	Watch  bool
}

// ConvertSummary is the JSON output of the convert command.
type ConvertSummary struct {
	Input      string `json:"input"`
	Output     string `json:"output"`
	Format     string `json:"format"`
	Mode       string `json:"mode"`
	Rows       int    `json:"rows"`
	Statuses   int    `json:"statuses"`
	Conditions int    `json:"conditions"`
	Degraded   int    `json:"degraded"`
	RunID      string `json:"run_id,omitempty"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	opts := &ConvertOptions{}
	cmd := &cobra.Command{
		Use:   "convert <input.csv> <output.json>",
		Short: "Convert a rules CSV into a status rules document",
		Long: `Convert a rules CSV into a status rules document.

Columns are positional: Status, Rules, StartDate and an optional EndDate.
Each Rules cell is parsed line by line; a line containing OR becomes one
OR group. Text that cannot be parsed is kept as a wildcard regex condition
and counted as degraded (see 'statusrules review').

The output file is replaced atomically and is never left half written.`,
		Example: `  # Convert to JSON
  statusrules convert rules.csv rules.json

  # Convert to YAML
  statusrules convert rules.csv rules.yaml --format yaml

  # Use the legacy grammar
  statusrules convert rules.csv rules.json --legacy

  # Reconvert every time rules.csv is saved
  statusrules convert rules.csv rules.json --watch`,
		Args: exactArgsWithUsage(2),
		Annotations: map[string]string{
			ExitCodesAnnotation: "1: wrong number of arguments; the usage is printed to stderr\n1: the CSV cannot be read or has fewer than 3 columns",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: json, yaml (default from config)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Reconvert whenever the input file changes")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runConvert(cmd *cobra.Command, input, out string, opts *ConvertOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	mode, err := cmdCtx.ParserMode()
	if err != nil {
		return err
	}
	formatName := cmdCtx.Cfg.Format
	if opts.Format != "" {
		formatName = opts.Format
	}
	format, err := convert.ParseFormat(formatName)
	if err != nil {
		return err
	}

	if err := convertOnce(cmdCtx, input, out, mode, format); err != nil {
		return err
	}
	if !opts.Watch {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if r.EffectiveMode() != output.ModeJSON {
		r.Println(r.Styles().Muted.Render(fmt.Sprintf("watching %s for changes (Ctrl+C to stop)", input)))
	}
	return watch.File(ctx, input, watch.Options{Logger: cmdCtx.Logger}, func(context.Context) error {
		if err := convertOnce(cmdCtx, input, out, mode, format); err != nil {
			r.Error(err.Error())
			return err
		}
		return nil
	})
}

// convertOnce runs one conversion, records it in history and reports the
// result.
func convertOnce(cmdCtx *CommandContext, input, out string, mode parser.Mode, format convert.Format) error {
	r := cmdCtx.Renderer
	logger := cmdCtx.Logger

	summary := ConvertSummary{Input: input, Output: out, Format: string(format), Mode: string(mode)}

	run := startRun(cmdCtx, state.RunSpec{Input: input, Output: out, Mode: string(mode), Format: string(format)})
	if run.store != nil {
		defer func() { _ = run.store.Close() }()
		summary.RunID = run.id
	}

	conv := convert.New(convert.Options{Mode: mode, Logger: logger})
	res, err := conv.ConvertFile(input)
	if err != nil {
		run.fail(logger, err)
		return err
	}
	if err := convert.WriteFile(out, res.Statuses, format); err != nil {
		run.fail(logger, err)
		return err
	}
	run.complete(logger, res.Statuses.Len(), len(res.Degraded))

	summary.Rows = res.Rows
	summary.Statuses = res.Statuses.Len()
	summary.Conditions = res.Conditions
	summary.Degraded = len(res.Degraded)

	logger.Info("conversion complete",
		slog.String("input", input),
		slog.String("output", out),
		slog.Int("statuses", summary.Statuses),
		slog.Int("degraded", summary.Degraded))

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(summary)
	}

	r.Success(fmt.Sprintf("wrote %s (%d status blocks)", out, summary.Statuses))
	if summary.Degraded > 0 {
		r.Warning(fmt.Sprintf("%d of %d conditions could not be parsed; run 'statusrules review %s' to list them",
			summary.Degraded, summary.Conditions, input))
	}
	return nil
}

// historyRun tracks one recorded conversion. A zero value records nothing.
type historyRun struct {
	store *state.SQLiteStore
	id    string
}

// startRun records the start of a conversion. History problems are logged
// and never stop the conversion.
func startRun(cmdCtx *CommandContext, spec state.RunSpec) historyRun {
	store, err := cmdCtx.OpenHistory()
	if err != nil {
		cmdCtx.Logger.Warn("history disabled for this run", slog.String("error", err.Error()))
		return historyRun{}
	}
	if store == nil {
		return historyRun{}
	}
	run, err := store.StartRun(spec)
	if err != nil {
		cmdCtx.Logger.Warn("failed to record run", slog.String("error", err.Error()))
		_ = store.Close()
		return historyRun{}
	}
	return historyRun{store: store, id: run.ID}
}

func (h historyRun) complete(logger *slog.Logger, statuses, degraded int) {
	if h.store == nil {
		return
	}
	if err := h.store.CompleteRun(h.id, statuses, degraded); err != nil {
		logger.Warn("failed to record run", slog.String("id", h.id), slog.String("error", err.Error()))
	}
}

func (h historyRun) fail(logger *slog.Logger, cause error) {
	if h.store == nil {
		return
	}
	if err := h.store.FailRun(h.id, cause.Error()); err != nil {
		logger.Warn("failed to record run", slog.String("id", h.id), slog.String("error", err.Error()))
	}
}
