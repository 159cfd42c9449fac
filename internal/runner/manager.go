package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/camronh/Twevals/internal/eval"
	"github.com/camronh/Twevals/internal/store"
)

// Manager couples a runner to a results store so that a run's file exists
// from the moment it starts and tracks progress as entries complete. The
// manager is the sole writer of the run file while the run is live.
type Manager struct {
	Store *store.Store
}

// NewManager returns a manager persisting through the given store.
func NewManager(s *store.Store) *Manager {
	return &Manager{Store: s}
}

// RunAndSave executes descriptors and persists the run record: once with
// every entry pending before any work starts, again after each completed
// entry, and a final time with recomputed summary counters. The returned
// record is the final persisted state.
func (m *Manager) RunAndSave(ctx context.Context, descriptors []eval.Descriptor, opts Options) (eval.RunRecord, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRunID == nil {
		opts.NewRunID = NewRunID
	}
	runID, err := opts.NewRunID()
	if err != nil {
		return eval.RunRecord{}, err
	}
	runName := opts.RunName
	if runName == "" {
		runName = store.FriendlyName()
	}
	sessionName := opts.SessionName
	if sessionName == "" {
		sessionName = store.FriendlyName()
	}
	opts.RunName = runName
	opts.SessionName = sessionName
	opts.NewRunID = func() (string, error) { return runID, nil }

	record := eval.RunRecord{
		SessionName: sessionName,
		RunName:     runName,
		RunID:       runID,
		StartedAt:   opts.Now(),
		Results:     make([]eval.ResultEntry, len(descriptors)),
	}
	for i, d := range descriptors {
		record.Results[i] = d.PendingEntry()
	}
	record.Recount()

	// record is shared between checkpoints and the final save below.
	// checkpointErr keeps the first mid-run save failure; the run itself
	// keeps going since the final save may still land.
	var (
		mu            sync.Mutex
		checkpointErr error
	)
	if err := m.Store.Save(record); err != nil {
		return record, fmt.Errorf("persist pending run: %w", err)
	}
	checkpoint := func() {
		snapshot := record
		snapshot.Results = append([]eval.ResultEntry(nil), record.Results...)
		if err := m.Store.Save(snapshot); err != nil && checkpointErr == nil {
			checkpointErr = err
		}
	}

	userStart := opts.OnStart
	opts.OnStart = func(index int, d eval.Descriptor) {
		mu.Lock()
		record.Results[index].Status = eval.StatusRunning
		checkpoint()
		mu.Unlock()
		if userStart != nil {
			userStart(index, d)
		}
	}
	userComplete := opts.OnComplete
	opts.OnComplete = func(index int, d eval.Descriptor, entry eval.ResultEntry) {
		mu.Lock()
		record.Results[index] = entry
		record.Recount()
		checkpoint()
		mu.Unlock()
		if userComplete != nil {
			userComplete(index, d, entry)
		}
	}

	final, runErr := Run(ctx, descriptors, opts)
	if runErr != nil {
		return record, runErr
	}
	if err := m.Store.Save(final); err != nil {
		return final, fmt.Errorf("persist run results: %w", err)
	}
	if checkpointErr != nil {
		return final, fmt.Errorf("persist run checkpoint: %w", checkpointErr)
	}
	return final, nil
}
