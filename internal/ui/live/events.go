// Package live renders run progress as a terminal UI fed by runner events.
package live

import (
	"github.com/camronh/Twevals/internal/eval"
	"github.com/camronh/Twevals/internal/runner"
)

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventRunStart signals the start of a run.
	EventRunStart EventKind = iota
	// EventEvaluation delivers an evaluation status update.
	EventEvaluation
	// EventRunEnd signals run completion.
	EventRunEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind       EventKind
	RunID      string
	Total      int
	Evaluation runner.Event
	Record     eval.RunRecord
}
