package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/statusrules/internal/cli/config"
	"github.com/leapstack-labs/statusrules/internal/cli/output"
	"github.com/leapstack-labs/statusrules/internal/state"
	"github.com/leapstack-labs/statusrules/pkg/parser"
	"github.com/spf13/cobra"
)

const replPrompt = "rules> "

// replSession is the state of an interactive parse session.
type replSession struct {
	renderer *output.Renderer
	errOut   io.Writer
	parser   *parser.Parser
	opts     []parser.Option
}

func newREPLSession(r *output.Renderer, mode parser.Mode, opts ...parser.Option) *replSession {
	s := &replSession{renderer: r, errOut: r.ErrWriter(), opts: opts}
	s.setMode(mode)
	return s
}

func (s *replSession) setMode(mode parser.Mode) {
	s.parser = parser.New(append([]parser.Option{parser.WithMode(mode)}, s.opts...)...)
}

// handle processes one input line and reports whether the session ends.
func (s *replSession) handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ".") {
		return s.handleDotCommand(line)
	}
	if err := printTree(s.renderer, s.parser, unescapeNewlines(line)); err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
	}
	return false
}

func (s *replSession) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.renderer.Writer())

	case ".mode":
		s.renderer.Println("mode: " + string(s.parser.Mode()))

	case ".legacy":
		if len(parts) < 2 {
			_, _ = fmt.Fprintln(s.errOut, "Usage: .legacy on|off")
			return false
		}
		switch strings.ToLower(parts[1]) {
		case "on":
			s.setMode(parser.ModeLegacy)
		case "off":
			s.setMode(parser.ModeStrict)
		default:
			_, _ = fmt.Fprintln(s.errOut, "Usage: .legacy on|off")
			return false
		}
		s.renderer.Println("mode: " + string(s.parser.Mode()))

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .mode           Show the active grammar
  .legacy on|off  Switch between the legacy and strict grammar
  .quit / .exit   Exit the session

Tips:
  - Each line is parsed as one Rules cell
  - Write \n to put a line break inside the cell
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

// replHistoryFile returns where the REPL keeps its line history: next to the
// state database, or nowhere when history is off or the database lives in
// memory.
func replHistoryFile(cfg *config.Config) string {
	if !cfg.HistoryEnabled() || cfg.StatePath == state.MemoryPath {
		return ""
	}
	return filepath.Join(filepath.Dir(cfg.StatePath), "parse_history")
}

func runParseREPL(cmd *cobra.Command, cmdCtx *CommandContext, mode parser.Mode) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      replPrompt,
		HistoryFile: replHistoryFile(cmdCtx.Cfg),
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem(".help"),
			readline.PcItem(".mode"),
			readline.PcItem(".legacy", readline.PcItem("on"), readline.PcItem("off")),
			readline.PcItem(".quit"),
			readline.PcItem(".exit"),
		),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "statusrules rule parser (mode: %s)\n", mode)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	session := newREPLSession(cmdCtx.Renderer, mode, parser.WithLogger(cmdCtx.Logger))
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		if session.handle(line) {
			break
		}
	}
	return nil
}
