package statusmap

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	quoteRe      = regexp.MustCompile(`['"]`)
	whitespaceRe = regexp.MustCompile(`[\s\v\x1c-\x1f\x{85}\p{Z}]+`)
	underscoreRe = regexp.MustCompile(`_+`)
)

// CanonicalKey derives a map key from a raw status label: surrounding
// whitespace and all quote characters are removed, every whitespace run
// becomes one underscore and underscore runs collapse to one. Characters are
// otherwise kept as written, so composed and decomposed spellings of the same
// label produce different keys.
func CanonicalKey(label string) string {
	key := strings.TrimSpace(label)
	key = quoteRe.ReplaceAllString(key, "")
	key = whitespaceRe.ReplaceAllString(key, "_")
	return underscoreRe.ReplaceAllString(key, "_")
}

// uniqueKey returns base if taken reports false for it, otherwise the first
// of base_2, base_3, ... that is free.
func uniqueKey(base string, taken func(string) bool) string {
	key := base
	for n := 2; taken(key); n++ {
		key = base + "_" + strconv.Itoa(n)
	}
	return key
}
