package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/statusrules/pkg/core"
)

// Mode selects the column-token grammar.
type Mode string

// Supported grammar modes.
const (
	// ModeStrict requires uppercase-anchored column tokens of three or more
	// characters and de-duplicates status keys.
	ModeStrict Mode = "strict"
	// ModeLegacy accepts any word-character token as a column and lets a
	// repeated status key overwrite the earlier entry.
	ModeLegacy Mode = "legacy"
)

// ParseMode converts a string to a Mode. An empty string is ModeStrict.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeStrict:
		return ModeStrict, nil
	case ModeLegacy:
		return ModeLegacy, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected strict or legacy)", s)
	}
}

// Grammar is the fixed matcher list and clause splitter for one Mode.
// Grammars are built once at package init and never modified.
type Grammar struct {
	mode        Mode
	matchers    []Matcher
	clauseStart *regexp.Regexp
}

var (
	whitespaceRe = regexp.MustCompile(space + `+`)

	strictGrammar = newGrammar(ModeStrict, strictColumn)
	legacyGrammar = newGrammar(ModeLegacy, legacyColumn)
)

func newGrammar(mode Mode, col string) *Grammar {
	return &Grammar{
		mode:        mode,
		matchers:    newMatchers(col),
		clauseStart: regexp.MustCompile(`(?i)^` + col + space + `*(?:IS` + wordEnd + `|>=|<=|>|<|=)`),
	}
}

// GrammarFor returns the shared grammar for a mode.
func GrammarFor(mode Mode) *Grammar {
	if mode == ModeLegacy {
		return legacyGrammar
	}
	return strictGrammar
}

// Mode returns the grammar's mode.
func (g *Grammar) Mode() Mode { return g.mode }

// Matchers returns a copy of the ordered matcher list.
func (g *Grammar) Matchers() []Matcher {
	out := make([]Matcher, len(g.matchers))
	copy(out, g.matchers)
	return out
}

// match runs the matchers in order and returns the first hit together with
// the matcher that produced it.
func (g *Grammar) match(fragment string) (core.Condition, string, Matcher, bool) {
	for _, m := range g.matchers {
		if cond, rest, ok := m.Match(fragment); ok {
			return cond, rest, m, true
		}
	}
	return core.Condition{}, "", nil, false
}

// startsClause reports whether s opens a recognisable clause: a column token
// followed by IS or a comparison operator.
func (g *Grammar) startsClause(s string) bool {
	return !reservedRe.MatchString(s) && g.clauseStart.MatchString(s)
}

// split breaks a fragment at every whitespace run that immediately precedes
// a new clause. Pieces are trimmed and empty pieces dropped.
func (g *Grammar) split(fragment string) []string {
	var parts []string
	last := 0
	for _, ws := range whitespaceRe.FindAllStringIndex(fragment, -1) {
		if !g.startsClause(fragment[ws[1]:]) {
			continue
		}
		parts = appendPiece(parts, fragment[last:ws[0]])
		last = ws[1]
	}
	return appendPiece(parts, fragment[last:])
}

func appendPiece(parts []string, piece string) []string {
	if piece = trimSpace(piece); piece != "" {
		parts = append(parts, piece)
	}
	return parts
}
