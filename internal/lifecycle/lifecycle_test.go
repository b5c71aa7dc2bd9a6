package lifecycle

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/statusrules/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshal(t *testing.T, v any) string {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(v))
	return strings.TrimSpace(buf.String())
}

func TestRead(t *testing.T) {
	input := " Converted_Status , Status,Status_code,Zeta,Status_description,Alpha\n" +
		"Active ,Open, O1 ,z1,Opened by clerk,a1\n" +
		"Closed,Done,C1,z2,Closed & archived,a2\n"

	m, err := Read(strings.NewReader(input), testutil.NewTestLogger(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"Active", "Closed"}, m.Keys())
	assert.Equal(t,
		`{"Active":{"status":{"Status":"Open","Status_code":"O1","Status_description":"Opened by clerk"},"code_set":{"Zeta":"z1","Alpha":"a1"}},`+
			`"Closed":{"status":{"Status":"Done","Status_code":"C1","Status_description":"Closed & archived"},"code_set":{"Zeta":"z2","Alpha":"a2"}}}`,
		marshal(t, m))
}

func TestRead_MissingStatusFields(t *testing.T) {
	input := "Converted_Status,Extra\nActive,x\n"

	m, err := Read(strings.NewReader(input), nil)
	require.NoError(t, err)

	got, ok := m.Get("Active")
	require.True(t, ok)
	assert.Equal(t, []string{"Status", "Status_code", "Status_description"}, got.Status.Keys())
	v, _ := got.Status.Get("Status_code")
	assert.Equal(t, "", v)
	assert.Equal(t, []string{"Extra"}, got.CodeSet.Keys())
}

func TestRead_ShortRowsAndDuplicates(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()
	input := "Converted_Status,Status,Code\n" +
		"Active,Open,A\n" +
		"Closed\n" +
		"Active,Reopened,B\n"

	m, err := Read(strings.NewReader(input), logger)
	require.NoError(t, err)

	assert.Equal(t, []string{"Active", "Closed"}, m.Keys())

	active, _ := m.Get("Active")
	status, _ := active.Status.Get("Status")
	assert.Equal(t, "Reopened", status)

	closed, _ := m.Get("Closed")
	code, _ := closed.CodeSet.Get("Code")
	assert.Equal(t, "", code)

	assert.Contains(t, logs.String(), "duplicate lifecycle term")
}

func TestRead_MissingTermColumn(t *testing.T) {
	_, err := Read(strings.NewReader("Status,Code\nOpen,A\n"), nil)
	assert.ErrorIs(t, err, ErrMissingTermColumn)

	_, err = Read(strings.NewReader(""), nil)
	assert.ErrorIs(t, err, ErrMissingTermColumn)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "lifecycle.csv", "\ufeffConverted_Status,Status\nActive,Open\n")

	m, err := ReadFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	_, err = ReadFile(filepath.Join(dir, "nope.csv"), nil)
	assert.ErrorContains(t, err, "failed to open input")
}
