package live

import (
	"fmt"

	"github.com/camronh/Twevals/internal/eval"
	"github.com/camronh/Twevals/internal/runner"
)

// Reduce applies a runner event to the UI state.
func Reduce(state State, event runner.Event) State {
	state = ensureRow(state, event)
	state = applyEvent(state, event)
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// ensureRow grows the state rows to include the target index.
func ensureRow(state State, event runner.Event) State {
	if event.Index < 0 || event.Index < len(state.Rows) {
		return state
	}
	rows := make([]EvalRow, event.Index+1)
	copy(rows, state.Rows)
	for i := len(state.Rows); i < len(rows); i++ {
		rows[i] = EvalRow{Index: i, Status: eval.StatusPending}
	}
	state.Rows = rows
	return state
}

// applyEvent updates a row with the given event.
func applyEvent(state State, event runner.Event) State {
	if event.Index < 0 || event.Index >= len(state.Rows) {
		return state
	}
	row := state.Rows[event.Index]
	if row.Name == "" {
		row.Name = event.Name
	}
	if row.Dataset == "" {
		row.Dataset = event.Dataset
	}
	row.Status = event.Status
	switch event.Type {
	case runner.EventStarted:
		if row.StartedAt.IsZero() {
			row.StartedAt = event.EmittedAt
		}
	case runner.EventCompleted, runner.EventCancelled:
		if !event.EmittedAt.IsZero() {
			row.FinishedAt = event.EmittedAt
		}
		if event.Entry != nil {
			row.Scores = event.Entry.Result.Scores
			row.Latency = event.Entry.Result.Latency
			row.Error = event.Entry.Result.Error
		}
	}
	state.Rows[event.Index] = row
	return state
}

// recount recomputes status counts for the current rows.
func recount(rows []EvalRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case eval.StatusPending:
			counts.Pending++
		case eval.StatusRunning:
			counts.Running++
		case eval.StatusCompleted:
			counts.Done++
			if rowPassed(row) {
				counts.Passed++
			} else if len(row.Scores) > 0 {
				counts.Failed++
			}
		case eval.StatusError:
			counts.Done++
			counts.Errors++
		case eval.StatusTimeout:
			counts.Done++
			counts.Timeouts++
		case eval.StatusCancelled:
			counts.Done++
			counts.Cancelled++
		}
	}
	return counts
}

func rowPassed(row EvalRow) bool {
	for _, score := range row.Scores {
		if score.Passed != nil && *score.Passed {
			return true
		}
	}
	return false
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event runner.Event) string {
	switch event.Type {
	case runner.EventStarted:
		return fmt.Sprintf("%s started", event.Name)
	case runner.EventCompleted:
		if event.Entry != nil && event.Entry.Result.Error != "" {
			return fmt.Sprintf("%s %s: %s", event.Name, event.Status, event.Entry.Result.Error)
		}
		return fmt.Sprintf("%s %s", event.Name, event.Status)
	case runner.EventCancelled:
		return fmt.Sprintf("%s cancelled", event.Name)
	}
	return ""
}
