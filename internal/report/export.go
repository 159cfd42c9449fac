package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/camronh/Twevals/internal/eval"
)

var csvColumns = []string{
	"function", "dataset", "labels", "status", "input", "output",
	"reference", "scores", "error", "latency", "metadata",
}

// WriteCSV exports a run's results, one row per evaluation. Structured cells
// (input, scores, metadata) are JSON-encoded so the file round-trips.
func WriteCSV(w io.Writer, record eval.RunRecord) error {
	out := csv.NewWriter(w)
	if err := out.Write(csvColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, entry := range record.Results {
		row := []string{
			entry.Function,
			entry.Dataset,
			strings.Join(entry.Labels, ","),
			string(entry.Status),
			jsonCell(entry.Result.Input),
			jsonCell(entry.Result.Output),
			jsonCell(entry.Result.Reference),
			jsonCell(entry.Result.Scores),
			entry.Result.Error,
			latencyCell(entry.Result.Latency),
			jsonCell(entry.Result.Metadata),
		}
		if err := out.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	out.Flush()
	return out.Error()
}

// WriteJSON exports the full run record as indented JSON.
func WriteJSON(w io.Writer, record eval.RunRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}

// jsonCell renders a value for a CSV cell: strings stay bare, nil is empty,
// anything else is JSON.
func jsonCell(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func latencyCell(latency *float64) string {
	if latency == nil {
		return ""
	}
	return fmt.Sprintf("%g", *latency)
}
