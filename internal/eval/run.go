package eval

import "time"

// RunRecord is one execution of a set of descriptors, persisted as a single
// JSON file. RunID is stable for the run's lifetime; RunName is a mutable
// human label; SessionName groups related runs.
type RunRecord struct {
	SessionName      string        `json:"session_name"`
	RunName          string        `json:"run_name"`
	RunID            string        `json:"run_id"`
	StartedAt        time.Time     `json:"started_at"`
	FinishedAt       time.Time     `json:"finished_at,omitzero"`
	TotalEvaluations int           `json:"total_evaluations"`
	TotalFunctions   int           `json:"total_functions"`
	TotalPassed      int           `json:"total_passed"`
	TotalErrors      int           `json:"total_errors"`
	TotalWithScores  int           `json:"total_with_scores"`
	AverageLatency   float64       `json:"average_latency"`
	Results          []ResultEntry `json:"results"`
}

// Recount refreshes the aggregate counters from the results list.
func (r *RunRecord) Recount() {
	r.TotalEvaluations = len(r.Results)
	r.TotalFunctions = 0
	r.TotalPassed = 0
	r.TotalErrors = 0
	r.TotalWithScores = 0
	r.AverageLatency = 0

	functions := map[string]struct{}{}
	var latencySum float64
	var latencyCount int
	for _, entry := range r.Results {
		functions[entry.Function] = struct{}{}
		if entry.Result.Error != "" {
			r.TotalErrors++
		}
		if len(entry.Result.Scores) > 0 {
			r.TotalWithScores++
			if entry.Result.Passed() {
				r.TotalPassed++
			}
		}
		if entry.Result.Latency != nil {
			latencySum += *entry.Result.Latency
			latencyCount++
		}
	}
	r.TotalFunctions = len(functions)
	if latencyCount > 0 {
		r.AverageLatency = latencySum / float64(latencyCount)
	}
}
