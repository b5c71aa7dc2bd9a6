package core

import (
	"fmt"
	"strings"
)

// =============================================================================
// Operator
// =============================================================================

// Operator is the comparison carried by a Condition.
type Operator string

// Operators produced by the rule parser.
const (
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpEqual        Operator = "="
	OpNotNull      Operator = "not_null"
	OpNull         Operator = "null"

	// OpRegex marks a fragment the parser could not recognise. It is never a
	// real business condition.
	OpRegex Operator = "regex"
)

// Wildcard is the value carried by every OpRegex condition.
const Wildcard = ".*"

// IsComparison reports whether the operator compares two columns.
func (o Operator) IsComparison() bool {
	switch o {
	case OpGreaterEqual, OpLessEqual, OpGreater, OpLess:
		return true
	default:
		return false
	}
}

// =============================================================================
// Node
// =============================================================================

// Node is an element of an AND-list: either a Condition or an OrGroup.
type Node interface {
	ruleNode() // Marker method; Condition and OrGroup are the only variants
}

// Condition is a single typed test against a column.
//
// Exactly one of OtherAttr and Value is set for comparison and equality
// operators; null tests carry neither.
type Condition struct {
	Attr      string   `json:"attr"`
	Op        Operator `json:"op"`
	OtherAttr string   `json:"other_attr,omitempty"`
	Value     string   `json:"value,omitempty"`
}

func (Condition) ruleNode() {}

// Compare builds a column-to-column comparison.
func Compare(attr string, op Operator, other string) Condition {
	return Condition{Attr: strings.TrimSpace(attr), Op: op, OtherAttr: strings.TrimSpace(other)}
}

// Equals builds an equality test against a literal value.
func Equals(attr, value string) Condition {
	return Condition{Attr: strings.TrimSpace(attr), Op: OpEqual, Value: value}
}

// NotNull builds an IS NOT NULL test.
func NotNull(attr string) Condition {
	return Condition{Attr: strings.TrimSpace(attr), Op: OpNotNull}
}

// Null builds an IS NULL test.
func Null(attr string) Condition {
	return Condition{Attr: strings.TrimSpace(attr), Op: OpNull}
}

// Fallback wraps unparsed text in a wildcard condition.
func Fallback(text string) Condition {
	return Condition{Attr: strings.TrimSpace(text), Op: OpRegex, Value: Wildcard}
}

// Degraded reports whether the condition is a parse fallback rather than a
// genuine rule.
func (c Condition) Degraded() bool {
	return c.Op == OpRegex
}

// String renders the condition in the rule-text form the parser accepts.
// Parsing the result yields the same condition again.
func (c Condition) String() string {
	switch {
	case c.Op == OpRegex:
		return c.Attr
	case c.Op == OpNotNull:
		return c.Attr + " IS NOT NULL"
	case c.Op == OpNull:
		return c.Attr + " IS NULL"
	case c.Op == OpEqual && isAlnum(c.Value):
		return fmt.Sprintf("%s = %s", c.Attr, c.Value)
	case c.Op == OpEqual:
		return fmt.Sprintf("%s = '%s'", c.Attr, c.Value)
	default:
		return fmt.Sprintf("%s %s %s", c.Attr, c.Op, c.OtherAttr)
	}
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// OrGroup holds sibling conditions evaluated with OR semantics. Order is
// insertion order and carries no logical meaning.
type OrGroup struct {
	Or []Condition `json:"or"`
}

func (OrGroup) ruleNode() {}

// MarshalJSON emits an empty list rather than null for an empty group.
func (g OrGroup) MarshalJSON() ([]byte, error) {
	or := g.Or
	if or == nil {
		or = []Condition{}
	}
	return encodeJSON(struct {
		Or []Condition `json:"or"`
	}{or})
}

// RuleTree is the top-level AND-list of a rule cell.
type RuleTree struct {
	And []Node `json:"and"`
}

// MarshalJSON emits an empty list rather than null for an empty tree.
func (t RuleTree) MarshalJSON() ([]byte, error) {
	and := t.And
	if and == nil {
		and = []Node{}
	}
	return encodeJSON(struct {
		And []Node `json:"and"`
	}{and})
}

// Conditions returns every condition in the tree, OR-group members included,
// in source order.
func (t RuleTree) Conditions() []Condition {
	var out []Condition
	for _, n := range t.And {
		switch v := n.(type) {
		case Condition:
			out = append(out, v)
		case OrGroup:
			out = append(out, v.Or...)
		}
	}
	return out
}

// Degraded returns the fallback conditions in the tree.
func (t RuleTree) Degraded() []Condition {
	var out []Condition
	for _, c := range t.Conditions() {
		if c.Degraded() {
			out = append(out, c)
		}
	}
	return out
}

// StatusEntry is the converted form of one spreadsheet row.
type StatusEntry struct {
	StartDate *Condition `json:"start_date,omitempty"`
	EndDate   *Condition `json:"end_date,omitempty"`
	Logic     RuleTree   `json:"logic"`
}
