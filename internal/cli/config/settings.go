package config

import "strings"

// Setting describes one configuration key.
type Setting struct {
	Key         string
	Default     interface{}
	Description string
}

// Settings lists every configuration key with its default, in the order
// they appear in a statusrules.yaml file.
func Settings() []Setting {
	def := Default()
	return []Setting{
		{Key: "mode", Default: def.Mode, Description: "Rule grammar (strict or legacy)"},
		{Key: "output", Default: def.Output, Description: "Output format (auto, text, markdown, json)"},
		{Key: "verbose", Default: false, Description: "Debug logging"},
		{Key: "log_level", Default: def.LogLevel, Description: "Log level (debug, info, warn, error)"},
		{Key: "log_format", Default: def.LogFormat, Description: "Log format (text or json)"},
		{Key: "state_path", Default: "", Description: "History database path; empty disables history"},
		{Key: "format", Default: def.Format, Description: "Written file format (json or yaml)"},
		{Key: "review.max_rows", Default: 0, Description: "Maximum degraded conditions listed by review; 0 lists all"},
	}
}

// EnvVar returns the environment variable that sets key. Nesting dots
// become double underscores: review.max_rows is STATUSRULES_REVIEW__MAX_ROWS.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

// envKey is the inverse of EnvVar.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func defaults() map[string]interface{} {
	m := make(map[string]interface{})
	for _, s := range Settings() {
		m[s.Key] = s.Default
	}
	return m
}
