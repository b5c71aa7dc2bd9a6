// Package config provides configuration management for the statusrules CLI.
//
// Values are layered with koanf: built-in defaults, then a statusrules.yaml
// file, then STATUSRULES_* environment variables, then explicitly set
// command-line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	Mode      string       `koanf:"mode"`
	Output    string       `koanf:"output"`
	Verbose   bool         `koanf:"verbose"`
	LogLevel  string       `koanf:"log_level"`
	LogFormat string       `koanf:"log_format"`
	StatePath string       `koanf:"state_path"` // empty disables history
	Format    string       `koanf:"format"`
	Review    ReviewConfig `koanf:"review"`
}

// ReviewConfig holds options for the review command.
type ReviewConfig struct {
	// MaxRows caps the degraded conditions listed; 0 lists all of them.
	MaxRows int `koanf:"max_rows"`
}

// Default configuration values.
const (
	DefaultMode      = "strict"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
	DefaultFormat    = "json"
)

// EnvPrefix prefixes every environment variable read by the loader.
const EnvPrefix = "STATUSRULES_"

// configFileNames are searched, in order, in each candidate directory.
var configFileNames = []string{"statusrules.yaml", "statusrules.yml"}

// Default returns a Config with every default applied.
func Default() *Config {
	return &Config{
		Mode:      DefaultMode,
		Output:    DefaultOutput,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Format:    DefaultFormat,
	}
}

// HistoryEnabled reports whether conversions are recorded.
func (c *Config) HistoryEnabled() bool {
	return c.StatePath != ""
}
