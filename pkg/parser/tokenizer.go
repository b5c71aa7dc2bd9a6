package parser

import (
	"log/slog"

	"github.com/leapstack-labs/statusrules/pkg/core"
)

// stepBudget bounds the work loop for a line of n bytes. Every step either
// consumes text into a condition or splits a fragment into strictly shorter
// pieces, so the loop ends well inside this bound; the budget only turns a
// grammar bug into fallback conditions instead of a hang.
func stepBudget(n int) int {
	return 4*n + 16
}

// Tokenize parses one line of rule text into an ordered list of conditions.
//
// Fragments are kept on a work list used as a stack: a matched condition's
// remainder and the pieces of a split fragment are pushed to the front, so
// conditions come out in left-to-right source order. A fragment that no
// matcher recognises and that cannot be split becomes a fallback condition.
func (p *Parser) Tokenize(line string) []core.Condition {
	out := []core.Condition{}
	queue := []string{Normalize(line)}
	budget := stepBudget(len(line))

	for step := 0; len(queue) > 0; step++ {
		frag := trimSpace(queue[0])
		queue = queue[1:]
		if frag == "" {
			continue
		}

		if step >= budget {
			p.logger.Warn("tokenizer step budget exhausted", slog.String("line", line), slog.String("fragment", frag))
			out = append(out, core.Fallback(frag))
			continue
		}

		if cond, rest, m, ok := p.grammar.match(frag); ok {
			p.logger.Debug("matched condition",
				slog.String("matcher", m.Name()),
				slog.String("attr", cond.Attr),
				slog.String("op", string(cond.Op)))
			out = append(out, cond)
			if rest = Normalize(rest); rest != "" {
				queue = pushFront(queue, rest)
			}
			continue
		}

		parts := p.grammar.split(frag)
		if len(parts) < 2 {
			p.logger.Debug("unrecognised fragment", slog.String("fragment", frag))
			out = append(out, core.Fallback(frag))
			continue
		}
		queue = pushFront(queue, parts...)
	}
	return out
}

// pushFront returns queue with items placed before its current head, in
// their given order.
func pushFront(queue []string, items ...string) []string {
	out := make([]string, 0, len(items)+len(queue))
	out = append(out, items...)
	return append(out, queue...)
}
