package live

import (
	"testing"
	"time"

	"github.com/camronh/Twevals/internal/eval"
	"github.com/camronh/Twevals/internal/runner"
)

func completedEntry(passed bool) *eval.ResultEntry {
	latency := 0.2
	return &eval.ResultEntry{
		Status: eval.StatusCompleted,
		Result: eval.Result{
			Scores:  []eval.Score{{Key: "correctness", Passed: &passed}},
			Latency: &latency,
		},
	}
}

func TestReduceGrowsRows(t *testing.T) {
	state := Reduce(State{}, runner.Event{
		Index:  2,
		Name:   "third",
		Type:   runner.EventQueued,
		Status: eval.StatusPending,
	})
	if len(state.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(state.Rows))
	}
	if state.Rows[0].Status != eval.StatusPending {
		t.Fatalf("filler row status = %q", state.Rows[0].Status)
	}
	if state.Rows[2].Name != "third" {
		t.Fatalf("row name = %q", state.Rows[2].Name)
	}
}

func TestReduceTracksLifecycle(t *testing.T) {
	started := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	state := Reduce(State{}, runner.Event{Index: 0, Name: "case", Type: runner.EventQueued, Status: eval.StatusPending})
	state = Reduce(state, runner.Event{Index: 0, Name: "case", Type: runner.EventStarted, Status: eval.StatusRunning, EmittedAt: started})
	if state.Counts.Running != 1 {
		t.Fatalf("running = %d", state.Counts.Running)
	}
	if state.Rows[0].StartedAt != started {
		t.Fatalf("started at = %v", state.Rows[0].StartedAt)
	}

	state = Reduce(state, runner.Event{
		Index:     0,
		Name:      "case",
		Type:      runner.EventCompleted,
		Status:    eval.StatusCompleted,
		Entry:     completedEntry(true),
		EmittedAt: started.Add(time.Second),
	})
	if state.Counts.Done != 1 || state.Counts.Passed != 1 {
		t.Fatalf("counts = %+v", state.Counts)
	}
	if state.Rows[0].Latency == nil || *state.Rows[0].Latency != 0.2 {
		t.Fatalf("latency = %v", state.Rows[0].Latency)
	}
	if state.LastEvent == "" {
		t.Fatal("last event not set")
	}
}

func TestReduceCountsFailuresSeparately(t *testing.T) {
	state := Reduce(State{}, runner.Event{
		Index:  0,
		Name:   "case",
		Type:   runner.EventCompleted,
		Status: eval.StatusCompleted,
		Entry:  completedEntry(false),
	})
	if state.Counts.Passed != 0 || state.Counts.Failed != 1 {
		t.Fatalf("counts = %+v", state.Counts)
	}
}

func TestReduceCountsCancelled(t *testing.T) {
	state := Reduce(State{}, runner.Event{
		Index:  0,
		Name:   "case",
		Type:   runner.EventCancelled,
		Status: eval.StatusCancelled,
	})
	if state.Counts.Cancelled != 1 || state.Counts.Done != 1 {
		t.Fatalf("counts = %+v", state.Counts)
	}
}
