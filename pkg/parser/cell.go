package parser

import (
	"log/slog"
	"regexp"

	"github.com/leapstack-labs/statusrules/pkg/core"
)

var (
	// lineBreakRe matches the same line boundaries as a universal-newline
	// reader, including the Unicode separators.
	lineBreakRe = regexp.MustCompile(`\r\n|[\n\r\v\f\x1c\x1d\x1e\x{85}\x{2028}\x{2029}]`)

	// orRe matches the OR keyword as a whitespace-delimited word.
	orRe = regexp.MustCompile(`(?i)` + space + `+` + KeywordOr + space + `+`)
)

// Lines splits a rule cell into its non-blank lines.
func Lines(cell string) []string {
	var lines []string
	for _, line := range lineBreakRe.Split(cell, -1) {
		if trimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ParseCell parses a multi-line rule cell into its AND-list.
//
// Each non-blank line is AND-ed with the others. A line containing the word
// OR becomes a single OR-group holding the conditions of every OR-part;
// when one OR-part yields several conditions they all become siblings in
// that group rather than a nested AND. Any other line contributes its
// conditions to the AND-list individually.
func (p *Parser) ParseCell(cell string) core.RuleTree {
	tree := core.RuleTree{And: []core.Node{}}

	for _, line := range Lines(cell) {
		if !orRe.MatchString(line) {
			for _, cond := range p.Tokenize(line) {
				tree.And = append(tree.And, cond)
			}
			continue
		}

		group := core.OrGroup{Or: []core.Condition{}}
		parts := orRe.Split(line, -1)
		for _, part := range parts {
			group.Or = append(group.Or, p.Tokenize(part)...)
		}
		p.logger.Debug("parsed OR line", slog.Int("parts", len(parts)), slog.Int("conditions", len(group.Or)))
		tree.And = append(tree.And, group)
	}
	return tree
}

// ParseCell parses a rule cell with the strict grammar.
func ParseCell(cell string) core.RuleTree {
	return defaultParser.ParseCell(cell)
}

// Tokenize parses one line with the strict grammar.
func Tokenize(line string) []core.Condition {
	return defaultParser.Tokenize(line)
}

var defaultParser = New()
