// Package state records conversion history in a SQLite database.
//
// Each convert invocation is a Run: it is started before the input is read
// and then either completed with its counts or failed with an error message.
package state

import "time"

// RunStatus is the lifecycle state of a conversion run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one recorded conversion.
type Run struct {
	ID          string     `json:"id"`
	Input       string     `json:"input"`
	Output      string     `json:"output"`
	Mode        string     `json:"mode"`
	Format      string     `json:"format"`
	Status      RunStatus  `json:"status"`
	Statuses    int        `json:"statuses"`
	Degraded    int        `json:"degraded"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// Duration returns how long the run took, or zero while it is running.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// RunSpec describes a conversion about to start.
type RunSpec struct {
	Input  string
	Output string
	Mode   string
	Format string
}

// Store persists conversion runs.
type Store interface {
	StartRun(spec RunSpec) (*Run, error)
	CompleteRun(id string, statuses, degraded int) error
	FailRun(id string, errMsg string) error
	GetRun(id string) (*Run, error)
	ListRuns(limit int) ([]*Run, error)
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
