package runner

import (
	"time"

	"github.com/camronh/Twevals/internal/eval"
)

// EventType identifies a descriptor status update for observers.
type EventType string

const (
	// EventQueued marks a descriptor known but not yet dispatched.
	EventQueued EventType = "queued"
	// EventStarted marks a descriptor handed to a worker.
	EventStarted EventType = "started"
	// EventCompleted marks a descriptor that finished, scored or errored.
	EventCompleted EventType = "completed"
	// EventCancelled marks a descriptor that was never dispatched.
	EventCancelled EventType = "cancelled"
)

// Event carries a single descriptor status update.
type Event struct {
	Index     int
	Name      string
	Dataset   string
	Type      EventType
	Status    eval.Status
	Entry     *eval.ResultEntry
	EmittedAt time.Time
}

// Observer receives run lifecycle events for UI or logging. Implementations
// must tolerate concurrent calls; workers emit events as they go.
type Observer interface {
	// OnRunStart signals the start of a run.
	OnRunStart(runID string, total int)
	// OnEvent delivers a descriptor status update.
	OnEvent(event Event)
	// OnRunEnd signals run completion with the finished record.
	OnRunEnd(record eval.RunRecord)
}

// noopObserver discards all events.
type noopObserver struct{}

func (noopObserver) OnRunStart(string, int)  {}
func (noopObserver) OnEvent(Event)           {}
func (noopObserver) OnRunEnd(eval.RunRecord) {}
