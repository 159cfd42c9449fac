package eval

import (
	"context"
	"time"
)

// TargetFunc invokes the system under test and populates the context before
// the case body runs. Target failures are always fatal for the descriptor.
type TargetFunc func(ctx context.Context, ec *Context) error

// BodyFunc is an evaluation case body. Params carries the expanded parameter
// values for parametrized cases and is nil otherwise.
type BodyFunc func(ctx context.Context, ec *Context, params map[string]any) error

// Evaluator inspects a finished Result and may contribute one extra score.
// A nil score contributes nothing; an error skips the evaluator.
type Evaluator func(ctx context.Context, result Result) (*Score, error)

// Case declares one evaluation: its identity, static context seeds, scoring
// configuration and parametrize groups. Params lists the parameter names the
// body accepts; expansion rejects any value mapped to an undeclared name.
type Case struct {
	Name            string
	Dataset         string
	Labels          []string
	Params          []string
	DefaultScoreKey string
	Timeout         time.Duration
	Input           any
	Reference       any
	Metadata        map[string]any
	Target          TargetFunc
	Evaluators      []Evaluator
	Groups          []ParamGroup
	Body            BodyFunc
}

// Defaults carries file-level defaults applied to every case of a suite.
// Merge policy: metadata is deep-merged with case values winning; every
// other field is replaced only when the case leaves it empty.
type Defaults struct {
	Dataset         string
	Labels          []string
	DefaultScoreKey string
	Timeout         time.Duration
	Metadata        map[string]any
	Target          TargetFunc
	Evaluators      []Evaluator
}

// ApplyDefaults merges file-level defaults into a case. The merge happens
// once, at expansion time.
func ApplyDefaults(c Case, d Defaults) Case {
	if c.Dataset == "" {
		c.Dataset = d.Dataset
	}
	if len(c.Labels) == 0 {
		c.Labels = append([]string(nil), d.Labels...)
	}
	if c.DefaultScoreKey == "" {
		c.DefaultScoreKey = d.DefaultScoreKey
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	if c.Target == nil {
		c.Target = d.Target
	}
	if len(c.Evaluators) == 0 {
		c.Evaluators = append([]Evaluator(nil), d.Evaluators...)
	}
	c.Metadata = deepMerge(d.Metadata, c.Metadata)
	return c
}

// deepMerge merges override into base recursively; override keys win and
// nested maps are merged rather than replaced. Inputs are never mutated.
func deepMerge(base, override map[string]any) map[string]any {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	merged := make(map[string]any, len(base)+len(override))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range override {
		baseChild, baseOK := merged[key].(map[string]any)
		overrideChild, overrideOK := value.(map[string]any)
		if baseOK && overrideOK {
			merged[key] = deepMerge(baseChild, overrideChild)
			continue
		}
		merged[key] = value
	}
	return merged
}

// Descriptor is one concrete, about-to-run invocation: a case identity plus
// the parameter values of a single expansion variant. Descriptors are
// immutable once expansion completes.
type Descriptor struct {
	Name            string
	Dataset         string
	Labels          []string
	DefaultScoreKey string
	Timeout         time.Duration
	VariantID       string
	Params          map[string]any

	Input     any
	Reference any
	Metadata  map[string]any
	RunData   map[string]any
	Latency   *float64

	Target     TargetFunc
	Evaluators []Evaluator
	Body       BodyFunc
}

// NewContext builds a fresh context seeded from the descriptor's static
// fields and auto-mapped parameter values.
func (d Descriptor) NewContext() *Context {
	ec := NewContext()
	if d.DefaultScoreKey != "" {
		ec.SetDefaultScoreKey(d.DefaultScoreKey)
	}
	if d.Input != nil {
		ec.SetInput(d.Input)
	}
	if d.Reference != nil {
		ec.SetReference(d.Reference)
	}
	if len(d.Metadata) > 0 {
		ec.SetMetadata(d.Metadata)
	}
	if len(d.RunData) > 0 {
		ec.SetRunData(d.RunData)
	}
	if d.Latency != nil {
		ec.SetLatency(*d.Latency)
	}
	return ec
}

// PendingEntry builds the placeholder entry persisted before the descriptor
// runs, so the stored run always lists every planned evaluation.
func (d Descriptor) PendingEntry() ResultEntry {
	return ResultEntry{
		Function: d.Name,
		Dataset:  d.Dataset,
		Labels:   append([]string(nil), d.Labels...),
		Status:   StatusPending,
		Result: Result{
			Input:     d.Input,
			Reference: d.Reference,
			Metadata:  copyOrNil(d.Metadata),
		},
	}
}
