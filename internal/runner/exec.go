package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/camronh/Twevals/internal/eval"
)

// executeDescriptor runs one descriptor end-to-end: context seeding, target
// hook, body with timeout enforcement, error classification and evaluators.
// It always produces exactly one finalized entry.
func executeDescriptor(ctx context.Context, d eval.Descriptor, globalTimeout time.Duration) eval.ResultEntry {
	entry := eval.ResultEntry{
		Function: d.Name,
		Dataset:  d.Dataset,
		Labels:   append([]string(nil), d.Labels...),
	}
	ec := d.NewContext()

	// Target hooks represent system invocation, not scoring: any failure,
	// including a failed check, is fatal for this descriptor.
	if d.Target != nil {
		targetStart := time.Now()
		if err := runTarget(ctx, d.Target, ec); err != nil {
			if ec.Latency() == nil {
				ec.SetLatency(time.Since(targetStart).Seconds())
			}
			entry.Status = eval.StatusError
			entry.Result = ec.FinalizeWithError(err.Error())
			return entry
		}
		ec.SetRunData(map[string]any{"target_latency": time.Since(targetStart).Seconds()})
	}

	effective := d.Timeout
	if effective == 0 {
		effective = globalTimeout
	}
	bodyCtx := ctx
	var cancel context.CancelFunc
	if effective > 0 {
		bodyCtx, cancel = context.WithTimeout(ctx, effective)
		defer cancel()
	}

	bodyStart := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- runBody(bodyCtx, d, ec)
	}()

	var bodyErr error
	abandoned := false
	select {
	case bodyErr = <-done:
	case <-bodyCtx.Done():
		// The body is abandoned, not killed: a body that ignores its
		// context keeps running unobserved. Cooperative bodies see the
		// cancellation through bodyCtx.
		abandoned = true
	}
	elapsed := time.Since(bodyStart).Seconds()
	if ec.Latency() == nil {
		ec.SetLatency(elapsed)
	}

	var result eval.Result
	var checkErr *eval.CheckError
	switch {
	case abandoned && errors.Is(bodyCtx.Err(), context.DeadlineExceeded):
		entry.Status = eval.StatusTimeout
		result = ec.FinalizeWithError(fmt.Sprintf("timed out after %gs", effective.Seconds()))
	case abandoned:
		entry.Status = eval.StatusError
		result = ec.FinalizeWithError(bodyCtx.Err().Error())
	case bodyErr == nil:
		entry.Status = eval.StatusCompleted
		result = ec.Finalize()
	case errors.As(bodyErr, &checkErr):
		// A failed check is a scoring outcome, not an execution error.
		ec.AddFailure(checkErr.Message)
		entry.Status = eval.StatusCompleted
		result = ec.Finalize()
	default:
		entry.Status = eval.StatusError
		result = ec.FinalizeWithError(bodyErr.Error())
	}

	result = applyEvaluators(ctx, d, result)
	entry.Result = result
	return entry
}

// applyEvaluators runs each configured evaluator in declaration order; each
// may contribute one extra score. An evaluator that fails is skipped without
// aborting the run.
func applyEvaluators(ctx context.Context, d eval.Descriptor, result eval.Result) eval.Result {
	for _, evaluator := range d.Evaluators {
		score := runEvaluator(ctx, evaluator, result)
		if score == nil {
			continue
		}
		if score.Key == "" {
			score.Key = d.DefaultScoreKey
			if score.Key == "" {
				score.Key = eval.DefaultScoreKey
			}
		}
		if score.Validate() != nil {
			continue
		}
		result.Scores = append(result.Scores, *score)
	}
	return result
}

func runTarget(ctx context.Context, target eval.TargetFunc, ec *eval.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return target(ctx, ec)
}

func runBody(ctx context.Context, d eval.Descriptor, ec *eval.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return d.Body(ctx, ec, d.Params)
}

func runEvaluator(ctx context.Context, evaluator eval.Evaluator, result eval.Result) (score *eval.Score) {
	defer func() {
		if r := recover(); r != nil {
			score = nil
		}
	}()
	score, err := evaluator(ctx, result)
	if err != nil {
		return nil
	}
	return score
}
