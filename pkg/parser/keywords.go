package parser

import (
	"regexp"
	"strings"
)

// Reserved keywords may never open a column token, even though they look like
// one. "NOT" is three letters long and would otherwise be read as a column in
// "NOT NULL"; "IS" is listed for the looser legacy grammar.
var reservedKeywords = []string{"IS", "NOT"}

// Joiner keywords connect clauses on a line. A trailing joiner is dropped by
// Normalize and OR splits a line into an OR-group.
const (
	KeywordAnd = "AND"
	KeywordOr  = "OR"
)

// reservedRe matches a reserved keyword at the start of a fragment.
var reservedRe = regexp.MustCompile(`(?i)^(?:` + strings.Join(reservedKeywords, "|") + `)` + wordEnd)
