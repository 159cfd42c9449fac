// Package report renders stored runs: console tables, CSV and JSON export,
// and the HTML report page.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/camronh/Twevals/internal/eval"
)

var tableHeader = []string{"FUNCTION", "DATASET", "STATUS", "SCORES", "LATENCY", "ERROR"}

// WriteTable renders a run as an aligned text table followed by the summary.
func WriteTable(w io.Writer, record eval.RunRecord) error {
	rows := make([][]string, 0, len(record.Results)+1)
	rows = append(rows, tableHeader)
	for _, entry := range record.Results {
		rows = append(rows, []string{
			entry.Function,
			entry.Dataset,
			string(entry.Status),
			formatScores(entry.Result.Scores),
			formatLatency(entry.Result.Latency),
			truncate(entry.Result.Error, 60),
		})
	}

	widths := make([]int, len(tableHeader))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = pad(cell, widths[i])
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%s\n", Summary(record))
	return err
}

// Summary renders the one-line run summary.
func Summary(record eval.RunRecord) string {
	line := fmt.Sprintf("Run %s (%s): %d evaluations, %d functions, %d passed, %d errors",
		record.RunName, record.RunID,
		record.TotalEvaluations, record.TotalFunctions,
		record.TotalPassed, record.TotalErrors)
	if record.TotalWithScores > 0 {
		line += fmt.Sprintf(", pass rate %s%%", formatPassRate(float64(record.TotalPassed)/float64(record.TotalWithScores)))
	}
	if record.AverageLatency > 0 {
		line += fmt.Sprintf(", avg latency %.3fs", record.AverageLatency)
	}
	return line
}

func formatScores(scores []eval.Score) string {
	if len(scores) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(scores))
	for _, s := range scores {
		parts = append(parts, s.Key+"="+scoreValue(s))
	}
	return strings.Join(parts, " ")
}

func scoreValue(s eval.Score) string {
	switch {
	case s.Passed != nil && *s.Passed:
		return "pass"
	case s.Passed != nil:
		return "fail"
	case s.Value != nil:
		return fmt.Sprintf("%g", *s.Value)
	default:
		return "?"
	}
}

func formatPassRate(rate float64) string {
	return fmt.Sprintf("%.2f", rate*100)
}

func formatLatency(latency *float64) string {
	if latency == nil {
		return "-"
	}
	return fmt.Sprintf("%.3fs", *latency)
}

func truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
