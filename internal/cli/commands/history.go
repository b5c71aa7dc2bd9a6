package commands

import (
	"errors"
	"strconv"
	"time"

	"github.com/leapstack-labs/statusrules/internal/cli/output"
	"github.com/leapstack-labs/statusrules/internal/state"
	"github.com/spf13/cobra"
)

// errHistoryDisabled is returned by history when no state path is set.
var errHistoryDisabled = errors.New("history is disabled: set state_path in statusrules.yaml, STATUSRULES_STATE_PATH or --state")

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversions",
		Long: `List conversions recorded in the history database, newest first.

History is recorded only when a state path is configured (state_path in
statusrules.yaml, STATUSRULES_STATE_PATH or --state).`,
		Example: `  # Show the last 20 conversions
  statusrules history --state .statusrules/history.db

  # Show every recorded conversion as JSON
  statusrules history -n 0 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Number of runs to show (0 = all)")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, err := cmdCtx.OpenHistory()
	if err != nil {
		return err
	}
	if store == nil {
		return errHistoryDisabled
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(opts.Limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(runs)
	}

	r.Header(1, "Conversion history ("+strconv.Itoa(len(runs))+" runs)")
	r.Println("")
	if len(runs) == 0 {
		r.Println("No conversions recorded yet.")
		return nil
	}
	r.Table(
		[]string{"Run", "Started", "Status", "Mode", "Input", "Output", "Statuses", "Degraded", "Error"},
		historyRows(runs),
	)
	return nil
}

func historyRows(runs []*state.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		id := run.ID
		if len(id) > 8 {
			id = id[:8]
		}
		rows = append(rows, []string{
			id,
			run.StartedAt.Local().Format(time.DateTime),
			output.Title(string(run.Status)),
			run.Mode,
			run.Input,
			run.Output,
			strconv.Itoa(run.Statuses),
			strconv.Itoa(run.Degraded),
			run.Error,
		})
	}
	return rows
}
