// Package convert turns a rules spreadsheet export into a status map.
//
// Columns are read positionally: Status, Rules, StartDate and an optional
// EndDate. Header names are ignored.
package convert

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/statusrules/pkg/core"
	"github.com/leapstack-labs/statusrules/pkg/parser"
	"github.com/leapstack-labs/statusrules/pkg/statusmap"
)

// Positional column indexes.
const (
	colStatus = iota
	colRules
	colStartDate
	colEndDate
)

// Options configures a Converter.
type Options struct {
	Mode   parser.Mode
	Logger *slog.Logger
}

// Converter converts rules CSVs. It is safe to reuse for several inputs.
type Converter struct {
	mode   parser.Mode
	parser *parser.Parser
	logger *slog.Logger
}

// New creates a Converter.
func New(opts Options) *Converter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	mode := opts.Mode
	if mode == "" {
		mode = parser.ModeStrict
	}
	return &Converter{
		mode:   mode,
		parser: parser.New(parser.WithMode(mode), parser.WithLogger(logger)),
		logger: logger,
	}
}

// DegradedCondition is a fallback condition found during conversion,
// located by status key and CSV line.
type DegradedCondition struct {
	Key  string `json:"key"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Result is the outcome of one conversion.
type Result struct {
	Statuses *statusmap.Map
	Rows     int
	// Conditions counts every condition emitted, fallbacks included.
	Conditions int
	Degraded   []DegradedCondition
}

// ConvertFile reads and converts the CSV at path.
func (c *Converter) ConvertFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	return c.Convert(f)
}

// Convert reads a whole CSV and converts it row by row, in file order.
// Rule text never causes an error; only an unreadable CSV or a header with
// fewer than MinColumns columns does.
func (c *Converter) Convert(r io.Reader) (*Result, error) {
	table, err := ReadTable(r)
	if err != nil {
		return nil, err
	}
	if len(table.Header) < MinColumns {
		return nil, &HeaderError{Columns: len(table.Header)}
	}
	hasEndDate := len(table.Header) > colEndDate

	c.logger.Debug("read rules CSV",
		slog.Int("columns", len(table.Header)),
		slog.Int("rows", len(table.Rows)),
		slog.String("mode", string(c.mode)))

	res := &Result{Statuses: c.newMap()}
	for _, row := range table.Rows {
		entry := c.convertRow(row, hasEndDate)
		key := res.Statuses.Add(row.Field(colStatus), entry)

		res.Rows++
		res.Conditions += len(entry.Logic.Conditions())
		for _, cond := range entry.Logic.Degraded() {
			res.Degraded = append(res.Degraded, DegradedCondition{Key: key, Line: row.Line, Text: cond.Attr})
		}
	}

	c.logger.Debug("converted rules",
		slog.Int("statuses", res.Statuses.Len()),
		slog.Int("conditions", res.Conditions),
		slog.Int("degraded", len(res.Degraded)))
	return res, nil
}

func (c *Converter) newMap() *statusmap.Map {
	if c.mode == parser.ModeLegacy {
		return statusmap.NewOverwriting()
	}
	return statusmap.New()
}

func (c *Converter) convertRow(row Row, hasEndDate bool) core.StatusEntry {
	var entry core.StatusEntry
	if s := strings.TrimSpace(row.Field(colStartDate)); s != "" {
		start := core.NotNull(s)
		entry.StartDate = &start
	}
	if hasEndDate {
		if e := strings.TrimSpace(row.Field(colEndDate)); e != "" {
			end := core.NotNull(e)
			entry.EndDate = &end
		}
	}
	entry.Logic = c.parser.ParseCell(row.Field(colRules))
	return entry
}
