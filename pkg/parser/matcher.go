package parser

import (
	"regexp"

	"github.com/leapstack-labs/statusrules/pkg/core"
)

// Matcher recognises one kind of condition at the start of a fragment.
type Matcher interface {
	// Name identifies the matcher in logs and tests.
	Name() string
	// Match attempts to consume a prefix of fragment. On success it returns
	// the condition and the unconsumed remainder.
	Match(fragment string) (cond core.Condition, rest string, ok bool)
}

// Column token patterns.
const (
	// strictColumn is an uppercase-anchored identifier of three or more
	// characters. Matching is case-insensitive, so lowercase input is also
	// accepted.
	strictColumn = `[A-Z][A-Z0-9_]{2,}`

	// legacyColumn accepts any run of letters, digits and underscores.
	legacyColumn = wordChar + `+`
)

// patternMatcher is a Matcher backed by an anchored regular expression.
type patternMatcher struct {
	name string
	re   *regexp.Regexp
	// columns lists the capture groups holding column tokens; each must not
	// begin with a reserved word.
	columns []int
	// wholeWord rejects a match that ends in the middle of a word.
	wholeWord bool
	build     func(groups []string) core.Condition
}

func (m *patternMatcher) Name() string { return m.name }

func (m *patternMatcher) Match(fragment string) (core.Condition, string, bool) {
	loc := m.re.FindStringSubmatchIndex(fragment)
	if loc == nil {
		return core.Condition{}, "", false
	}
	if m.wholeWord && !endsWord(fragment, loc[1]) {
		return core.Condition{}, "", false
	}
	for _, g := range m.columns {
		if start := loc[2*g]; start >= 0 && reservedRe.MatchString(fragment[start:]) {
			return core.Condition{}, "", false
		}
	}

	groups := make([]string, len(loc)/2)
	for i := range groups {
		if loc[2*i] >= 0 {
			groups[i] = fragment[loc[2*i]:loc[2*i+1]]
		}
	}
	return m.build(groups), fragment[loc[1]:], true
}

// newMatchers returns the ordered matcher list for a column pattern.
//
// Order matters: compare precedes equality so "A>=B" is not split at "=",
// the null test precedes equality so "IS" is never read as a value, and
// quoted equality precedes bare equality so the quoted capture wins.
func newMatchers(col string) []Matcher {
	return []Matcher{
		&patternMatcher{
			name:      "compare",
			re:        regexp.MustCompile(`(?i)^(` + col + `)` + space + `*(>=|<=|>|<)` + space + `*(` + col + `)`),
			columns:   []int{1, 3},
			wholeWord: true,
			build: func(g []string) core.Condition {
				return core.Compare(g[1], core.Operator(g[2]), g[3])
			},
		},
		&patternMatcher{
			name:      "null",
			re:        regexp.MustCompile(`(?i)^(` + col + `)` + space + `+IS` + space + `+(NOT` + space + `+)?NULL`),
			columns:   []int{1},
			wholeWord: true,
			build: func(g []string) core.Condition {
				if trimSpace(g[2]) != "" {
					return core.NotNull(g[1])
				}
				return core.Null(g[1])
			},
		},
		&patternMatcher{
			name:    "quoted_equals",
			re:      regexp.MustCompile(`(?i)^(` + col + `)` + space + `*=` + space + `*'([^']+)'`),
			columns: []int{1},
			build: func(g []string) core.Condition {
				return core.Equals(g[1], g[2])
			},
		},
		&patternMatcher{
			name:    "bare_equals",
			re:      regexp.MustCompile(`(?i)^(` + col + `)` + space + `*=` + space + `*([A-Z0-9]+)`),
			columns: []int{1},
			build: func(g []string) core.Condition {
				return core.Equals(g[1], g[2])
			},
		},
	}
}
