// Package output renders command results for terminals, scripts and
// machines.
//
// Output adapts to environment:
//   - Terminal: styled text and boxed tables
//   - Piped/Scripted: Markdown (agent-friendly)
//   - JSON: machine-readable documents
package output

import (
	"fmt"
	"strings"
)

// Mode selects how a Renderer formats output.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// ParseMode converts a string to a Mode. An empty string is ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeText, ModeMarkdown, ModeJSON:
		return m, nil
	default:
		return "", fmt.Errorf("unknown output mode %q (expected auto, text, markdown or json)", s)
	}
}
