package state

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/statusrules/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mockRunColumns = []string{
	"id", "input", "output", "mode", "format", "status",
	"statuses", "degraded", "started_at", "completed_at", "error",
}

func setupMockStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	store := NewSQLiteStore(testutil.NewTestLogger(t))
	store.db = db
	t.Cleanup(func() { _ = db.Close() })
	return store, mock
}

func TestSQLiteStore_DriverErrors(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		operation func(s *SQLiteStore) error
		errMsg    string
	}{
		{
			name: "start run insert fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO conversion_runs").WillReturnError(errors.New("database is locked"))
			},
			operation: func(s *SQLiteStore) error {
				_, err := s.StartRun(RunSpec{Input: "in.csv", Output: "out.json"})
				return err
			},
			errMsg: "failed to create run: database is locked",
		},
		{
			name: "complete run cannot count rows",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE conversion_runs SET status").
					WillReturnResult(sqlmock.NewErrorResult(errors.New("no row count")))
			},
			operation: func(s *SQLiteStore) error {
				return s.CompleteRun("run-1", 3, 0)
			},
			errMsg: "failed to check update: no row count",
		},
		{
			name: "fail run on unknown id",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE conversion_runs SET status").
					WithArgs("failed", "boom", sqlmock.AnyArg(), "run-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			operation: func(s *SQLiteStore) error {
				return s.FailRun("run-1", "boom")
			},
			errMsg: "run not found: run-1",
		},
		{
			name: "list runs with a corrupt timestamp",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .+ FROM conversion_runs ORDER BY").
					WithArgs(-1).
					WillReturnRows(sqlmock.NewRows(mockRunColumns).
						AddRow("run-1", "in.csv", "out.json", "strict", "json", "completed", 1, 0, "yesterday", nil, nil))
			},
			operation: func(s *SQLiteStore) error {
				_, err := s.ListRuns(0)
				return err
			},
			errMsg: `failed to scan run: invalid stored timestamp "yesterday"`,
		},
		{
			name: "list runs iteration error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .+ FROM conversion_runs ORDER BY").
					WithArgs(5).
					WillReturnRows(sqlmock.NewRows(mockRunColumns).
						AddRow("run-1", "in.csv", "out.json", "strict", "json", "completed", 1, 0, "2026-01-02T03:04:05.000000000Z", nil, nil).
						RowError(0, errors.New("disk I/O error")))
			},
			operation: func(s *SQLiteStore) error {
				_, err := s.ListRuns(5)
				return err
			},
			errMsg: "failed to list runs: disk I/O error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := setupMockStore(t)
			tt.setupMock(mock)

			err := tt.operation(store)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSQLiteStore_GetRunScansColumns(t *testing.T) {
	store, mock := setupMockStore(t)

	mock.ExpectQuery("SELECT .+ FROM conversion_runs WHERE id = ?").
		WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows(mockRunColumns).
			AddRow("run-1", "in.csv", "out.yaml", "legacy", "yaml", "failed", 0, 0,
				"2026-01-02T03:04:05.000000000Z", "2026-01-02T03:04:06.500000000Z", "bad header"))

	run, err := store.GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, run.Status)
	assert.Equal(t, "legacy", run.Mode)
	assert.Equal(t, "bad header", run.Error)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), run.StartedAt)
	require.NotNil(t, run.CompletedAt)
	assert.Equal(t, 1500*time.Millisecond, run.Duration())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_CloseMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	store := NewSQLiteStore(nil)
	store.db = db
	require.NoError(t, store.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
