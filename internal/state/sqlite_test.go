package state

import (
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/statusrules/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_OpenClose(t *testing.T) {
	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(":memory:"))
	assert.Equal(t, ":memory:", store.Path())
	require.NoError(t, store.Close())
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)

	_, err := store.StartRun(RunSpec{Input: "in.csv"})
	assert.ErrorContains(t, err, "database not opened")
	assert.ErrorContains(t, store.Migrate(), "database not opened")
	_, err = store.ListRuns(10)
	assert.ErrorContains(t, err, "database not opened")
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_Migrate(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// a second run is a no-op
	require.NoError(t, store.Migrate())

	rows, err := store.db.Query("SELECT 1 FROM conversion_runs LIMIT 1")
	require.NoError(t, err)
	_ = rows.Close()
}

func TestOpenStore_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	store, err := OpenStore(path, testutil.NewTestLogger(t))
	require.NoError(t, err)
	run, err := store.StartRun(RunSpec{Input: "in.csv", Output: "out.json", Mode: "strict"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := OpenStore(path, nil)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, "in.csv", got.Input)
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(t *testing.T, store *SQLiteStore) *Run
		operation func(t *testing.T, store *SQLiteStore, run *Run)
		verify    func(t *testing.T, store *SQLiteStore, run *Run)
	}{
		{
			name: "start run",
			setup: func(t *testing.T, store *SQLiteStore) *Run {
				run, err := store.StartRun(RunSpec{Input: "rules.csv", Output: "rules.json", Mode: "strict"})
				require.NoError(t, err)
				return run
			},
			verify: func(t *testing.T, store *SQLiteStore, run *Run) {
				assert.NotEmpty(t, run.ID)
				assert.Equal(t, RunStatusRunning, run.Status)
				assert.Equal(t, "json", run.Format, "format defaults to json")
				assert.Zero(t, run.Duration())

				got, err := store.GetRun(run.ID)
				require.NoError(t, err)
				assert.Equal(t, "rules.csv", got.Input)
				assert.Equal(t, "rules.json", got.Output)
				assert.Equal(t, "strict", got.Mode)
				assert.Nil(t, got.CompletedAt)
				assert.True(t, got.StartedAt.Equal(run.StartedAt))
			},
		},
		{
			name: "get run not found",
			setup: func(t *testing.T, store *SQLiteStore) *Run {
				return nil
			},
			operation: func(t *testing.T, store *SQLiteStore, run *Run) {
				_, err := store.GetRun("nonexistent-id")
				assert.ErrorContains(t, err, "run not found")
			},
		},
		{
			name: "complete run",
			setup: func(t *testing.T, store *SQLiteStore) *Run {
				run, err := store.StartRun(RunSpec{Input: "rules.csv", Format: "yaml"})
				require.NoError(t, err)
				return run
			},
			operation: func(t *testing.T, store *SQLiteStore, run *Run) {
				require.NoError(t, store.CompleteRun(run.ID, 12, 3))
			},
			verify: func(t *testing.T, store *SQLiteStore, run *Run) {
				got, err := store.GetRun(run.ID)
				require.NoError(t, err)
				assert.Equal(t, RunStatusCompleted, got.Status)
				assert.Equal(t, 12, got.Statuses)
				assert.Equal(t, 3, got.Degraded)
				assert.Equal(t, "yaml", got.Format)
				require.NotNil(t, got.CompletedAt)
				assert.GreaterOrEqual(t, got.Duration().Nanoseconds(), int64(0))
				assert.Empty(t, got.Error)
			},
		},
		{
			name: "fail run",
			setup: func(t *testing.T, store *SQLiteStore) *Run {
				run, err := store.StartRun(RunSpec{Input: "broken.csv"})
				require.NoError(t, err)
				return run
			},
			operation: func(t *testing.T, store *SQLiteStore, run *Run) {
				require.NoError(t, store.FailRun(run.ID, "header has 2 columns"))
			},
			verify: func(t *testing.T, store *SQLiteStore, run *Run) {
				got, err := store.GetRun(run.ID)
				require.NoError(t, err)
				assert.Equal(t, RunStatusFailed, got.Status)
				assert.Equal(t, "header has 2 columns", got.Error)
				assert.NotNil(t, got.CompletedAt)
			},
		},
		{
			name: "update unknown run",
			setup: func(t *testing.T, store *SQLiteStore) *Run {
				return nil
			},
			operation: func(t *testing.T, store *SQLiteStore, run *Run) {
				assert.ErrorContains(t, store.CompleteRun("missing", 1, 0), "run not found")
				assert.ErrorContains(t, store.FailRun("missing", "x"), "run not found")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)
			run := tt.setup(t, store)
			if tt.operation != nil {
				tt.operation(t, store, run)
			}
			if tt.verify != nil {
				tt.verify(t, store, run)
			}
		})
	}
}

func TestSQLiteStore_ListRuns(t *testing.T) {
	store := setupTestStore(t)

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NotNil(t, runs)

	var ids []string
	for _, in := range []string{"a.csv", "b.csv", "c.csv"} {
		run, err := store.StartRun(RunSpec{Input: in})
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}

	runs, err = store.ListRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{runs[0].ID, runs[1].ID, runs[2].ID})

	runs, err = store.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c.csv", runs[0].Input)
}
