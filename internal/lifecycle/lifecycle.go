// Package lifecycle reshapes a lifecycle mapping CSV into a JSON document
// keyed by converted status term.
//
// Each row becomes
//
//	{"<Converted_Status>": {"status": {...}, "code_set": {...}}}
//
// where "status" holds the StatusFields columns in fixed order and
// "code_set" holds every other column in header order.
package lifecycle

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/statusrules/internal/convert"
	"github.com/leapstack-labs/statusrules/pkg/statusmap"
)

// TermColumn names the column whose value keys each entry.
const TermColumn = "Converted_Status"

// StatusFields are copied into the status group, in this order.
var StatusFields = []string{"Status", "Status_code", "Status_description"}

// ErrMissingTermColumn is returned when the header has no TermColumn.
var ErrMissingTermColumn = errors.New("missing " + TermColumn + " column")

// Entry is one reshaped lifecycle row.
type Entry struct {
	Status  *statusmap.Ordered[string] `json:"status"`
	CodeSet *statusmap.Ordered[string] `json:"code_set"`
}

// Mapping is the reshaped document in row order. A repeated term keeps
// its first position and takes the later row's values.
type Mapping = statusmap.Ordered[Entry]

// ReadFile reshapes the lifecycle CSV at path.
func ReadFile(path string, logger *slog.Logger) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f, logger)
}

// Read reshapes a lifecycle CSV. Header names and values are trimmed.
func Read(r io.Reader, logger *slog.Logger) (*Mapping, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	table, err := convert.ReadTable(r)
	if err != nil {
		return nil, err
	}

	termIdx := -1
	for i, name := range table.Header {
		if name == TermColumn {
			termIdx = i
		}
	}
	if termIdx < 0 {
		return nil, ErrMissingTermColumn
	}

	out := statusmap.NewOrdered[Entry]()
	for _, row := range table.Rows {
		values := statusmap.NewOrdered[string]()
		for i, name := range table.Header {
			values.Set(name, strings.TrimSpace(row.Field(i)))
		}

		term, _ := values.Get(TermColumn)
		if out.Has(term) {
			logger.Warn("duplicate lifecycle term, keeping last row",
				slog.String("term", term),
				slog.Int("line", row.Line))
		}
		out.Set(term, reshape(values))
	}

	logger.Debug("reshaped lifecycle map",
		slog.Int("rows", len(table.Rows)),
		slog.Int("terms", out.Len()))
	return out, nil
}

func reshape(values *statusmap.Ordered[string]) Entry {
	e := Entry{
		Status:  statusmap.NewOrdered[string](),
		CodeSet: statusmap.NewOrdered[string](),
	}
	for _, field := range StatusFields {
		v, _ := values.Get(field)
		e.Status.Set(field, v)
	}
	values.Each(func(name, v string) {
		if name == TermColumn || isStatusField(name) {
			return
		}
		e.CodeSet.Set(name, v)
	})
	return e
}

func isStatusField(name string) bool {
	for _, f := range StatusFields {
		if f == name {
			return true
		}
	}
	return false
}
