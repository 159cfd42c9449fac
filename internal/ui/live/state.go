package live

import (
	"time"

	"github.com/camronh/Twevals/internal/eval"
)

// EvalRow holds UI state for a single evaluation.
type EvalRow struct {
	Index      int
	Name       string
	Dataset    string
	Status     eval.Status
	Scores     []eval.Score
	Latency    *float64
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// StatusCounts aggregates row counts by status bucket.
type StatusCounts struct {
	Pending   int
	Running   int
	Done      int
	Passed    int
	Failed    int
	Errors    int
	Timeouts  int
	Cancelled int
}

// State captures the live UI state for one run.
type State struct {
	RunID     string
	Total     int
	StartedAt time.Time
	Finished  bool
	LastEvent string
	Rows      []EvalRow
	Counts    StatusCounts
}
