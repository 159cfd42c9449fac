package eval

import "sync"

// Context is the mutable accumulator one evaluation uses to assemble its
// Result. It is owned by a single invocation; the mutex exists because a
// timed-out body may keep writing after the runner has abandoned it.
type Context struct {
	mu sync.Mutex

	input           any
	output          any
	reference       any
	metadata        map[string]any
	runData         map[string]any
	latency         *float64
	defaultScoreKey string
	scores          []Score
	err             string

	finalized bool
	result    Result
}

// NewContext returns an empty context with the package default score key.
func NewContext() *Context {
	return &Context{
		metadata:        map[string]any{},
		runData:         map[string]any{},
		defaultScoreKey: DefaultScoreKey,
	}
}

// SetInput sets the evaluation input.
func (c *Context) SetInput(input any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = input
}

// Input returns the current input value.
func (c *Context) Input() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// SetOutput sets the output verbatim, without map extraction.
func (c *Context) SetOutput(output any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.output = output
}

// Output returns the current output value.
func (c *Context) Output() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.output
}

// SetReference sets the expected reference value.
func (c *Context) SetReference(reference any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reference = reference
}

// Reference returns the current reference value.
func (c *Context) Reference() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reference
}

// SetLatency records the evaluation latency in seconds.
func (c *Context) SetLatency(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latency = &seconds
}

// Latency returns the recorded latency in seconds, or nil.
func (c *Context) Latency() *float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latency
}

// SetDefaultScoreKey overrides the key used when scores omit one.
func (c *Context) SetDefaultScoreKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultScoreKey = key
}

// SetMetadata merges entries into the context metadata; new keys win.
func (c *Context) SetMetadata(metadata map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, value := range metadata {
		c.metadata[key] = value
	}
}

// Metadata returns a copy of the context metadata.
func (c *Context) Metadata() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyMap(c.metadata)
}

// SetRunData merges entries into the run data map; new keys win.
func (c *Context) SetRunData(runData map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, value := range runData {
		c.runData[key] = value
	}
}

// RunData returns a copy of the run data map.
func (c *Context) RunData() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyMap(c.runData)
}

// AddOutput sets the output from a value that may carry result fields. When
// data is a map containing any of the keys output, latency, run_data or
// metadata, those are extracted into the corresponding fields (maps merged,
// new keys win) and other keys are ignored; otherwise data becomes the
// literal output.
func (c *Context) AddOutput(data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := data.(map[string]any)
	if !ok || !hasResultField(payload) {
		c.output = data
		return
	}
	if output, ok := payload["output"]; ok {
		c.output = output
	}
	if latency, ok := toFloat(payload["latency"]); ok {
		c.latency = &latency
	}
	if runData, ok := payload["run_data"].(map[string]any); ok {
		for key, value := range runData {
			c.runData[key] = value
		}
	}
	if metadata, ok := payload["metadata"].(map[string]any); ok {
		for key, value := range metadata {
			c.metadata[key] = value
		}
	}
}

// AddScore appends a score under the default key. primary may be a bool
// (sets passed) or a numeric value (sets value).
func (c *Context) AddScore(primary any, notes string) error {
	score := Score{Notes: notes}
	switch v := primary.(type) {
	case bool:
		score.Passed = &v
	case float64:
		score.Value = &v
	case float32:
		value := float64(v)
		score.Value = &value
	case int:
		value := float64(v)
		score.Value = &value
	case int64:
		value := float64(v)
		score.Value = &value
	default:
		return ConfigErrorf("score primary must be a bool or a number, got %T", primary)
	}
	return c.AppendScore(score)
}

// AppendScore appends a fully specified score. An empty key falls back to
// the context's default score key.
func (c *Context) AppendScore(score Score) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if score.Key == "" {
		score.Key = c.defaultScoreKey
	}
	if err := score.Validate(); err != nil {
		return err
	}
	c.scores = append(c.scores, score)
	return nil
}

// AddFailure appends a failing score carrying a check failure message.
func (c *Context) AddFailure(notes string) {
	passed := false
	_ = c.AppendScore(Score{Passed: &passed, Notes: notes})
}

// SetParams assigns params as the input and merges them into metadata, so
// parametrized cases keep both the raw values and filterable metadata.
func (c *Context) SetParams(params map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = copyMap(params)
	for key, value := range params {
		c.metadata[key] = value
	}
}

// Finalize freezes the context into a Result. When no scores were added and
// no error is set, a single default passing score is synthesized. Finalize
// is idempotent: repeated calls return the same Result.
func (c *Context) Finalize() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finalizeLocked()
}

// FinalizeWithError records an execution error and freezes the context. No
// score is synthesized; every field set before the failure is preserved.
func (c *Context) FinalizeWithError(message string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.finalized {
		c.err = message
	}
	return c.finalizeLocked()
}

func (c *Context) finalizeLocked() Result {
	if c.finalized {
		return c.result
	}
	scores := make([]Score, len(c.scores))
	copy(scores, c.scores)
	if len(scores) == 0 && c.err == "" {
		key := c.defaultScoreKey
		if key == "" {
			key = DefaultScoreKey
		}
		scores = append(scores, PassScore(key, true, ""))
	}
	c.result = Result{
		Input:     c.input,
		Output:    c.output,
		Reference: c.reference,
		Scores:    scores,
		Error:     c.err,
		Latency:   c.latency,
		Metadata:  copyOrNil(c.metadata),
		RunData:   copyOrNil(c.runData),
	}
	c.finalized = true
	return c.result
}

// Finalized reports whether the context already produced its Result.
func (c *Context) Finalized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.finalized
}

func hasResultField(payload map[string]any) bool {
	for _, key := range []string{"output", "latency", "run_data", "metadata"} {
		if _, ok := payload[key]; ok {
			return true
		}
	}
	return false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = value
	}
	return out
}

func copyOrNil(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return copyMap(m)
}
