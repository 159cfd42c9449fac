package runner

import "sync"

// Handle allows a caller to stop a run cooperatively. Stop is checked at
// descriptor-dispatch boundaries only: descriptors already handed to a
// worker run to completion or their own timeout, undispatched descriptors
// are marked cancelled and never started.
type Handle struct {
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewHandle returns a handle for stopping a run.
func NewHandle() *Handle {
	return &Handle{stopCh: make(chan struct{})}
}

// Stop requests that no further descriptors be dispatched.
func (h *Handle) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
	})
}

// Stopped reports whether Stop has been called.
func (h *Handle) Stopped() bool {
	select {
	case <-h.stopCh:
		return true
	default:
		return false
	}
}
