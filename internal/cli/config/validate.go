package config

import (
	"fmt"

	"github.com/leapstack-labs/statusrules/internal/cli/output"
	"github.com/leapstack-labs/statusrules/internal/convert"
	"github.com/leapstack-labs/statusrules/internal/logging"
	"github.com/leapstack-labs/statusrules/pkg/parser"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := parser.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("invalid mode: %w", err)
	}
	if _, err := output.ParseMode(c.Output); err != nil {
		return fmt.Errorf("invalid output: %w", err)
	}
	if _, err := convert.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	if err := logging.ValidateLevel(c.LogLevel); err != nil {
		return err
	}
	if err := logging.ValidateFormat(c.LogFormat); err != nil {
		return err
	}
	if c.Review.MaxRows < 0 {
		return fmt.Errorf("review.max_rows must not be negative, got %d", c.Review.MaxRows)
	}
	return nil
}
