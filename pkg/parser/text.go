package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule text comes out of spreadsheets, so whitespace and word characters are
// Unicode-aware. RE2's \s, \w and \b are ASCII-only and are not used on
// their own in the grammar.
const (
	// spaceClass is the body of a character class matching any whitespace:
	// ASCII space characters, vertical tab, the information separators, NEL
	// and every Unicode separator (U+00A0, U+2028, ...).
	spaceClass = `\s\v\x1c-\x1f\x{85}\p{Z}`

	// space matches one whitespace character.
	space = `[` + spaceClass + `]`

	// wordChar matches one letter, number or underscore.
	wordChar = `[\p{L}\p{N}_]`

	// wordEnd consumes the character after a word, or matches at the end.
	// It stands in for a trailing \b where only a yes/no answer is needed.
	wordEnd = `(?:[^\p{L}\p{N}_]|$)`
)

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Z, r) || (r >= 0x1c && r <= 0x1f)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// trimSpace removes leading and trailing whitespace as defined by space.
func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// endsWord reports whether offset i in s is not followed by a word character.
func endsWord(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}
