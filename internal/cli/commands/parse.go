package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/statusrules/internal/cli/output"
	"github.com/leapstack-labs/statusrules/pkg/parser"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [rule text]",
		Short: "Parse one rules cell and print its logic tree",
		Long: `Parse the text of one Rules cell and print the resulting logic tree as JSON.

The rule text comes from the arguments or, when piped, from stdin. A literal
\n in an argument is treated as a line break. With no arguments on an
interactive terminal an interactive session is started.`,
		Example: `  # Parse a two-line cell
  statusrules parse 'AGE >= DOB_COL\nCODE IS NOT NULL'

  # Parse from stdin
  printf 'CODE=A OR CODE=B\n' | statusrules parse

  # Interactive session
  statusrules parse`,
		RunE: runParse,
	}

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)

	mode, err := cmdCtx.ParserMode()
	if err != nil {
		return err
	}
	p := parser.New(parser.WithMode(mode), parser.WithLogger(cmdCtx.Logger))

	var text string
	switch {
	case len(args) > 0:
		text = unescapeNewlines(strings.Join(args, " "))
	case isInteractive(cmd.InOrStdin()):
		return runParseREPL(cmd, cmdCtx, mode)
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	return printTree(cmdCtx.Renderer, p, text)
}

// printTree parses text and writes the tree as JSON, followed by a warning
// per degraded condition.
func printTree(r *output.Renderer, p *parser.Parser, text string) error {
	tree := p.ParseCell(text)
	if err := r.JSON(tree); err != nil {
		return err
	}
	if r.EffectiveMode() == output.ModeJSON {
		return nil
	}
	for _, cond := range tree.Degraded() {
		r.Warning(fmt.Sprintf("could not parse %q", cond.Attr))
	}
	return nil
}

func unescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
