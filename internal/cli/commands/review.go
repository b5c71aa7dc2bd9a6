package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/statusrules/internal/cli/output"
	"github.com/leapstack-labs/statusrules/internal/convert"
	"github.com/spf13/cobra"
)

// ReviewOptions holds options for the review command.
type ReviewOptions struct {
	FailOnDegraded bool
	MaxRows        int // overrides review.max_rows when set
}

// ReviewReport is the JSON output of the review command.
type ReviewReport struct {
	Input      string                      `json:"input"`
	Mode       string                      `json:"mode"`
	Rows       int                         `json:"rows"`
	Statuses   int                         `json:"statuses"`
	Conditions int                         `json:"conditions"`
	Degraded   []convert.DegradedCondition `json:"degraded"`
	Truncated  bool                        `json:"truncated"`
}

// NewReviewCommand creates the review command.
func NewReviewCommand() *cobra.Command {
	opts := &ReviewOptions{}
	cmd := &cobra.Command{
		Use:   "review <input.csv>",
		Short: "List rule text that could not be parsed",
		Long: `Convert a rules CSV in memory and list every degraded condition: rule
text the parser could not match, kept as a wildcard regex condition.

Each entry names the status key, the CSV line where the row starts and the
unparsed fragment. Nothing is written to disk.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Review a rules file
  statusrules review rules.csv

  # Fail (exit 1) when anything degraded, for CI
  statusrules review rules.csv --fail-on-degraded

  # Machine-readable report
  statusrules review rules.csv -o json`,
		Args: cobra.ExactArgs(1),
		Annotations: map[string]string{
			ExitCodesAnnotation: "1: --fail-on-degraded is set and at least one condition degraded",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.FailOnDegraded, "fail-on-degraded", false, "Exit with an error when any condition degraded")
	cmd.Flags().IntVar(&opts.MaxRows, "max-rows", 0, "Maximum degraded conditions to list (default from config, 0 = all)")

	return cmd
}

func runReview(cmd *cobra.Command, input string, opts *ReviewOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	mode, err := cmdCtx.ParserMode()
	if err != nil {
		return err
	}
	maxRows := cmdCtx.Cfg.Review.MaxRows
	if cmd.Flags().Changed("max-rows") {
		maxRows = opts.MaxRows
	}
	if maxRows < 0 {
		return fmt.Errorf("--max-rows must not be negative")
	}

	res, err := convert.New(convert.Options{Mode: mode, Logger: cmdCtx.Logger}).ConvertFile(input)
	if err != nil {
		return err
	}

	report := ReviewReport{
		Input:      input,
		Mode:       string(mode),
		Rows:       res.Rows,
		Statuses:   res.Statuses.Len(),
		Conditions: res.Conditions,
		Degraded:   res.Degraded,
	}
	if report.Degraded == nil {
		report.Degraded = []convert.DegradedCondition{}
	}
	total := len(report.Degraded)
	if maxRows > 0 && total > maxRows {
		report.Degraded = report.Degraded[:maxRows]
		report.Truncated = true
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(report); err != nil {
			return err
		}
	default:
		renderReview(r, report, total)
	}

	if opts.FailOnDegraded && total > 0 {
		return fmt.Errorf("%d degraded conditions in %s", total, input)
	}
	return nil
}

func renderReview(r *output.Renderer, report ReviewReport, total int) {
	r.Header(1, "Review: "+report.Input)
	r.KeyValue("Mode", report.Mode)
	r.KeyValue("Rows", strconv.Itoa(report.Rows))
	r.KeyValue("Statuses", strconv.Itoa(report.Statuses))
	r.KeyValue("Conditions", strconv.Itoa(report.Conditions))
	r.KeyValue("Degraded", strconv.Itoa(total))
	r.Println("")

	if total == 0 {
		r.Success("All conditions parsed.")
		return
	}

	rows := make([][]string, 0, len(report.Degraded))
	for _, d := range report.Degraded {
		rows = append(rows, []string{d.Key, strconv.Itoa(d.Line), d.Text})
	}
	r.Table([]string{"Status", "Line", "Unparsed text"}, rows)

	if report.Truncated {
		r.Println("")
		r.Println(fmt.Sprintf("... %d more not shown", total-len(report.Degraded)))
	}
}
