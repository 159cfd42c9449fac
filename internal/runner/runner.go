package runner

import (
	"context"
	"sync"
	"time"

	"github.com/camronh/Twevals/internal/eval"
)

// Options configures one run.
type Options struct {
	// Concurrency is the worker pool size; it must be at least 1.
	Concurrency int
	// Timeout is the global per-descriptor timeout; descriptor-level
	// timeouts take precedence. Zero means no deadline.
	Timeout time.Duration
	// RunName and SessionName label the resulting record.
	RunName     string
	SessionName string
	// OnStart and OnComplete are progress callbacks; they may be called
	// from worker goroutines.
	OnStart    func(index int, d eval.Descriptor)
	OnComplete func(index int, d eval.Descriptor, entry eval.ResultEntry)
	// Observer receives lifecycle events; nil means none.
	Observer Observer
	// Handle enables cooperative stop; nil means the run cannot be stopped
	// other than through ctx.
	Handle *Handle

	// Test seams.
	Now      func() time.Time
	NewRunID func() (string, error)
}

type job struct {
	index      int
	descriptor eval.Descriptor
}

// Run executes the descriptors under a bounded worker pool and returns the
// finished run record. Setup problems (bad concurrency) fail before any
// descriptor starts; once execution starts only individual descriptors
// fail, never the run itself.
func Run(ctx context.Context, descriptors []eval.Descriptor, opts Options) (eval.RunRecord, error) {
	if opts.Concurrency < 1 {
		return eval.RunRecord{}, eval.ConfigErrorf("concurrency must be at least 1, got %d", opts.Concurrency)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newRunID := opts.NewRunID
	if newRunID == nil {
		newRunID = NewRunID
	}
	observer := opts.Observer
	if observer == nil {
		observer = noopObserver{}
	}
	handle := opts.Handle
	if handle == nil {
		handle = NewHandle()
	}

	runID, err := newRunID()
	if err != nil {
		return eval.RunRecord{}, err
	}
	record := eval.RunRecord{
		SessionName: opts.SessionName,
		RunName:     opts.RunName,
		RunID:       runID,
		StartedAt:   now(),
	}
	observer.OnRunStart(runID, len(descriptors))
	for index, d := range descriptors {
		observer.OnEvent(Event{Index: index, Name: d.Name, Dataset: d.Dataset, Type: EventQueued, Status: eval.StatusPending, EmittedAt: now()})
	}

	// Entries are indexed by the descriptor's original position so the
	// record can always be reported in discovery order, whatever the
	// completion order.
	entries := make([]eval.ResultEntry, len(descriptors))

	workCh := make(chan job)
	var wg sync.WaitGroup
	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workCh {
				runOne(ctx, item, opts, observer, now, entries)
			}
		}()
	}

	for index, d := range descriptors {
		dispatched := false
		if !handle.Stopped() && ctx.Err() == nil {
			select {
			case workCh <- job{index: index, descriptor: d}:
				dispatched = true
			case <-handle.stopCh:
			case <-ctx.Done():
			}
		}
		if !dispatched {
			entry := d.PendingEntry()
			entry.Status = eval.StatusCancelled
			entries[index] = entry
			observer.OnEvent(Event{Index: index, Name: d.Name, Dataset: d.Dataset, Type: EventCancelled, Status: eval.StatusCancelled, Entry: &entry, EmittedAt: now()})
			if opts.OnComplete != nil {
				opts.OnComplete(index, d, entry)
			}
		}
	}
	close(workCh)
	wg.Wait()

	record.Results = entries
	record.FinishedAt = now()
	record.Recount()
	observer.OnRunEnd(record)
	return record, nil
}

// runOne executes a single dispatched descriptor and stores its entry.
func runOne(ctx context.Context, item job, opts Options, observer Observer, now func() time.Time, entries []eval.ResultEntry) {
	d := item.descriptor
	observer.OnEvent(Event{Index: item.index, Name: d.Name, Dataset: d.Dataset, Type: EventStarted, Status: eval.StatusRunning, EmittedAt: now()})
	if opts.OnStart != nil {
		opts.OnStart(item.index, d)
	}

	entry := executeDescriptor(ctx, d, opts.Timeout)
	entries[item.index] = entry

	observer.OnEvent(Event{Index: item.index, Name: d.Name, Dataset: d.Dataset, Type: EventCompleted, Status: entry.Status, Entry: &entry, EmittedAt: now()})
	if opts.OnComplete != nil {
		opts.OnComplete(item.index, d, entry)
	}
}
