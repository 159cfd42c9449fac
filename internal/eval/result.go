package eval

// Status describes the lifecycle state of a single evaluation.
type Status string

const (
	// StatusPending marks an evaluation known but not yet started.
	StatusPending Status = "pending"
	// StatusRunning marks an evaluation in progress.
	StatusRunning Status = "running"
	// StatusCompleted marks a finished evaluation, scored or not.
	StatusCompleted Status = "completed"
	// StatusError marks an evaluation that ended with an execution error.
	StatusError Status = "error"
	// StatusTimeout marks an evaluation abandoned after its deadline.
	StatusTimeout Status = "timeout"
	// StatusCancelled marks an evaluation that was never dispatched.
	StatusCancelled Status = "cancelled"
)

// Result is the immutable outcome of one evaluation. It is produced exactly
// once per descriptor execution and never mutated afterwards.
type Result struct {
	Input     any            `json:"input"`
	Output    any            `json:"output"`
	Reference any            `json:"reference,omitempty"`
	Scores    []Score        `json:"scores"`
	Error     string         `json:"error,omitempty"`
	Latency   *float64       `json:"latency,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	RunData   map[string]any `json:"run_data,omitempty"`
}

// Passed reports whether any score on the result passed.
func (r Result) Passed() bool {
	for _, score := range r.Scores {
		if score.Passed != nil && *score.Passed {
			return true
		}
	}
	return false
}

// ResultEntry pairs a finished result with the identity of the case that
// produced it; this is the unit persisted inside a run record.
type ResultEntry struct {
	Function string   `json:"function"`
	Dataset  string   `json:"dataset"`
	Labels   []string `json:"labels"`
	Status   Status   `json:"status"`
	Result   Result   `json:"result"`
}
