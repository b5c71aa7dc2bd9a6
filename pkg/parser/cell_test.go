package parser

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/statusrules/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want []core.Node
	}{
		{
			name: "empty cell",
			cell: "",
			want: []core.Node{},
		},
		{
			name: "blank lines only",
			cell: "  \n\t\n",
			want: []core.Node{},
		},
		{
			name: "two lines are AND-ed in order",
			cell: "AGE>=DOB_COL\nSTATUS IS NOT NULL",
			want: []core.Node{
				core.Compare("AGE", core.OpGreaterEqual, "DOB_COL"),
				core.NotNull("STATUS"),
			},
		},
		{
			name: "windows line endings and blank lines",
			cell: "CODE=A\r\n\r\n  \r\nSTATUS IS NULL\r\n",
			want: []core.Node{
				core.Equals("CODE", "A"),
				core.Null("STATUS"),
			},
		},
		{
			name: "OR line becomes one group",
			cell: "CODE=A OR CODE=B",
			want: []core.Node{
				core.OrGroup{Or: []core.Condition{core.Equals("CODE", "A"), core.Equals("CODE", "B")}},
			},
		},
		{
			name: "lowercase or",
			cell: "CODE=A or CODE=B or CODE=C",
			want: []core.Node{
				core.OrGroup{Or: []core.Condition{
					core.Equals("CODE", "A"),
					core.Equals("CODE", "B"),
					core.Equals("CODE", "C"),
				}},
			},
		},
		{
			name: "OR part with several conditions flattens into siblings",
			cell: "CODE=A STATUS IS NULL OR CODE=B",
			want: []core.Node{
				core.OrGroup{Or: []core.Condition{
					core.Equals("CODE", "A"),
					core.Null("STATUS"),
					core.Equals("CODE", "B"),
				}},
			},
		},
		{
			name: "OR line mixed with AND lines",
			cell: "AGE >= DOB\nCODE=A OR NAME = 'x y'\nEND_DT IS NULL",
			want: []core.Node{
				core.Compare("AGE", core.OpGreaterEqual, "DOB"),
				core.OrGroup{Or: []core.Condition{core.Equals("CODE", "A"), core.Equals("NAME", "x y")}},
				core.Null("END_DT"),
			},
		},
		{
			name: "OR inside a word is not a joiner",
			cell: "COLOR = RED",
			want: []core.Node{core.Equals("COLOR", "RED")},
		},
		{
			name: "trailing OR on a line",
			cell: "CODE=A OR \nSTATUS IS NULL",
			want: []core.Node{
				core.OrGroup{Or: []core.Condition{core.Equals("CODE", "A")}},
				core.Null("STATUS"),
			},
		},
		{
			name: "stray text degrades but parsing completes",
			cell: "see attached sheet\nCODE=A",
			want: []core.Node{
				core.Fallback("see attached sheet"),
				core.Equals("CODE", "A"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCell(tt.cell)
			assert.Equal(t, tt.want, got.And)
		})
	}
}

func TestParseCell_JSON(t *testing.T) {
	tree := ParseCell("AGE >= DOB\nCODE=A OR CODE=B\nNAME = 'a<b'")

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(tree))
	data := buf.Bytes()

	assert.JSONEq(t, `{"and": [
		{"attr": "AGE", "op": ">=", "other_attr": "DOB"},
		{"or": [
			{"attr": "CODE", "op": "=", "value": "A"},
			{"attr": "CODE", "op": "=", "value": "B"}
		]},
		{"attr": "NAME", "op": "=", "value": "a<b"}
	]}`, string(data))
	assert.Contains(t, string(data), `"a<b"`, "HTML characters are not escaped")
}

func TestParseCell_EmptyJSON(t *testing.T) {
	data, err := json.Marshal(ParseCell(""))
	require.NoError(t, err)
	assert.Equal(t, `{"and":[]}`, string(data))

	data, err = json.Marshal(core.RuleTree{})
	require.NoError(t, err)
	assert.Equal(t, `{"and":[]}`, string(data))
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"a", " b", "c", "d"}, Lines("a\r\n b\n\n   \rc\u2028d"))
	assert.Equal(t, []string{"x", "y"}, Lines("x\u2029y\x1c\u0085"))
	assert.Nil(t, Lines(" \n "))
	assert.Nil(t, Lines("\u00a0\n\u3000"), "Unicode spaces make a line blank")
}

func TestParseCell_UnicodeSpaces(t *testing.T) {
	tree := ParseCell("AGE\u00a0>=\u00a0DOB\nCODE=A\u00a0OR\u2003CODE=B")

	assert.Equal(t, []core.Node{
		core.Compare("AGE", core.OpGreaterEqual, "DOB"),
		core.OrGroup{Or: []core.Condition{core.Equals("CODE", "A"), core.Equals("CODE", "B")}},
	}, tree.And)
}
