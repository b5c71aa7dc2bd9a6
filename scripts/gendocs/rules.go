package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/statusrules/pkg/core"
	"github.com/leapstack-labs/statusrules/pkg/parser"
)

// ruleExample is one documented rule line.
type ruleExample struct {
	Line string
	Note string
}

var ruleExamples = []ruleExample{
	{Line: "AGE >= DOB_COL", Note: "Column compared with another column"},
	{Line: "END_DT IS NULL", Note: "Null test"},
	{Line: "END_DT IS NOT NUL", Note: "Null test with the NUL typo repaired"},
	{Line: "NAME = 'foo bar'", Note: "Quoted equality"},
	{Line: "CODE=BAR1", Note: "Bare equality"},
	{Line: "CODE=A OR CODE=B", Note: "OR line"},
	{Line: "STATUS IS NOT NULL CODE = 'X'", Note: "Two clauses on one line"},
	{Line: "see attached sheet", Note: "Unparseable text kept for review"},
}

// operatorDocs describes each operator in the output document.
var operatorDocs = []struct {
	Op    core.Operator
	Field string
	Desc  string
}{
	{core.OpGreaterEqual, "other_attr", "attr is greater than or equal to other_attr"},
	{core.OpLessEqual, "other_attr", "attr is less than or equal to other_attr"},
	{core.OpGreater, "other_attr", "attr is greater than other_attr"},
	{core.OpLess, "other_attr", "attr is less than other_attr"},
	{core.OpEqual, "value", "attr equals the literal value"},
	{core.OpNotNull, "", "attr has a value"},
	{core.OpNull, "", "attr is empty"},
	{core.OpRegex, "value", "fallback for unparsed text; value is always " + core.Wildcard},
}

// generateRulesDocs documents the rule grammar, rendering every example
// through the parser so the page always matches its behavior.
func generateRulesDocs(outDir string) error {
	log.Printf("Generating rules docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Rule Grammar", "How statusrules reads rule cells")
	w.GeneratedMarker()

	w.Header(1, "Rule Grammar")
	w.Paragraph(`Each line of a rules cell is parsed separately and the lines are AND-ed
in order. A line containing OR becomes one OR group. Text that matches no
pattern is never dropped: it becomes a regex condition with a wildcard value
so it can be found with ` + InlineCode("statusrules review") + `.`)

	w.Header(2, "Operators")
	var opRows [][]string
	for _, d := range operatorDocs {
		field := ""
		if d.Field != "" {
			field = InlineCode(d.Field)
		}
		opRows = append(opRows, []string{InlineCode(string(d.Op)), field, d.Desc})
	}
	w.Table([]string{"Operator", "Operand", "Meaning"}, opRows)

	w.Header(2, "Matchers")
	w.Paragraph("Fragments are matched from the start, trying each matcher in this order:")
	var names []string
	for _, m := range parser.GrammarFor(parser.ModeStrict).Matchers() {
		names = append(names, InlineCode(m.Name()))
	}
	w.BulletList(names)

	w.Header(2, "Examples")
	for _, ex := range ruleExamples {
		out, err := renderRule(ex.Line)
		if err != nil {
			return fmt.Errorf("failed to render %q: %w", ex.Line, err)
		}
		w.Header(3, ex.Note)
		w.CodeBlock("text", ex.Line)
		w.CodeBlock("json", out)
	}

	filename := filepath.Join(outDir, "index.md")
	return os.WriteFile(filename, w.Bytes(), 0600)
}

func renderRule(line string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(parser.ParseCell(line)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
