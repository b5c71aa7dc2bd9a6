package parser

import (
	"regexp"
)

var (
	trailingCommaRe  = regexp.MustCompile(`[,` + spaceClass + `]+$`)
	lessEqualRe      = regexp.MustCompile(`<` + space + `*=`)
	greaterEqualRe   = regexp.MustCompile(`>` + space + `*=`)
	notNulTypoRe     = regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}_])IS` + space + `+NOT` + space + `+NUL(` + wordEnd + `)`)
	danglingJoinerRe = regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}_])(?:` + KeywordAnd + `|` + KeywordOr + `)` + space + `*$`)
)

// maxNormalizePasses bounds the fixed-point loop in Normalize. Every pass
// that changes the string makes it shorter or repairs a typo, so a handful
// of passes is enough for any realistic fragment.
const maxNormalizePasses = 64

// Normalize tidies a raw rule fragment: it trims whitespace and trailing
// commas, collapses "< =" and "> =", repairs "IS NOT NUL" and drops a
// dangling AND/OR at the end. The result is a fixed point, so
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	for i := 0; i < maxNormalizePasses; i++ {
		next := normalizeOnce(s)
		if next == s {
			return next
		}
		s = next
	}
	return s
}

func normalizeOnce(s string) string {
	s = trimSpace(s)
	s = trailingCommaRe.ReplaceAllString(s, "")
	s = lessEqualRe.ReplaceAllString(s, "<=")
	s = greaterEqualRe.ReplaceAllString(s, ">=")
	s = notNulTypoRe.ReplaceAllString(s, "${1}IS NOT NULL${2}")
	s = danglingJoinerRe.ReplaceAllString(s, "${1}")
	return trimSpace(s)
}
