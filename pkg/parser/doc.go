// Package parser turns free-text rule cells into AND/OR condition trees.
//
// A rule cell is parsed line by line. Each line is normalized and then fed
// through an ordered list of anchored matchers (column compare, null test,
// quoted equality, bare equality); the first matcher that recognises the
// start of a fragment wins and the remainder is parsed next. Fragments no
// matcher recognises are split before the next clause, and anything that
// still cannot be parsed becomes a regex/wildcard fallback condition, so
// parsing never fails.
package parser
