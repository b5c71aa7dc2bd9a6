package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/statusrules/internal/cli/config"
	"github.com/leapstack-labs/statusrules/internal/cli/output"
	"github.com/leapstack-labs/statusrules/internal/state"
	"github.com/leapstack-labs/statusrules/pkg/parser"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with a renderer for the
// configured output mode.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode, err := output.ParseMode(cfg.Output)
	if err != nil {
		mode = output.ModeAuto
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// ParserMode returns the configured rule grammar.
func (c *CommandContext) ParserMode() (parser.Mode, error) {
	return parser.ParseMode(c.Cfg.Mode)
}

// OpenHistory opens the history database. It returns nil without error
// when history is disabled.
func (c *CommandContext) OpenHistory() (*state.SQLiteStore, error) {
	if !c.Cfg.HistoryEnabled() {
		return nil, nil
	}
	store, err := state.OpenStore(c.Cfg.StatePath, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %s: %w", c.Cfg.StatePath, err)
	}
	return store, nil
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	cfg := config.Default()
	cfg.Mode = getEnvOrDefault(config.EnvPrefix+"MODE", cfg.Mode)
	cfg.Output = getEnvOrDefault(config.EnvPrefix+"OUTPUT", cfg.Output)
	cfg.Format = getEnvOrDefault(config.EnvPrefix+"FORMAT", cfg.Format)
	cfg.StatePath = os.Getenv(config.EnvPrefix + "STATE_PATH")
	cfg.Verbose = strings.EqualFold(os.Getenv(config.EnvPrefix+"VERBOSE"), "true")
	return cfg
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// ExitCodesAnnotation is the cobra annotation listing a command's non-zero
// exit statuses, one "code: meaning" pair per line.
const ExitCodesAnnotation = "exit_codes"

// ExitCodes parses the ExitCodesAnnotation of cmd into code/meaning pairs.
func ExitCodes(cmd *cobra.Command) [][2]string {
	var codes [][2]string
	for _, line := range strings.Split(cmd.Annotations[ExitCodesAnnotation], "\n") {
		code, meaning, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		codes = append(codes, [2]string{strings.TrimSpace(code), strings.TrimSpace(meaning)})
	}
	return codes
}

// exactArgsWithUsage is cobra.ExactArgs that also prints the usage to
// stderr, since the root command silences usage on errors.
func exactArgsWithUsage(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == n {
			return nil
		}
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
		return fmt.Errorf("%s requires exactly %d arguments, got %d", cmd.Name(), n, len(args))
	}
}
