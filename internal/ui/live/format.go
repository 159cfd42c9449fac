package live

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/camronh/Twevals/internal/eval"
)

// formatIndex formats an evaluation index for display.
func formatIndex(index int) string {
	return strconv.Itoa(index + 1)
}

// formatName truncates a function name for display.
func formatName(name string) string {
	const limit = 36
	if len(name) <= limit {
		return name
	}
	return name[:limit-3] + "..."
}

// formatStatus renders a status cell for a row.
func formatStatus(row EvalRow, noColor bool) string {
	label := string(row.Status)
	if row.Status == eval.StatusCompleted && len(row.Scores) > 0 && !rowPassed(row) {
		label = "failed"
	}
	if noColor {
		return label
	}
	return statusStyle(row.Status, label).Render(label)
}

// statusStyle selects a style for a given status.
func statusStyle(status eval.Status, label string) lipgloss.Style {
	color := lipgloss.Color("246")
	switch {
	case label == "failed":
		color = lipgloss.Color("220")
	case status == eval.StatusCompleted:
		color = lipgloss.Color("42")
	case status == eval.StatusRunning:
		color = lipgloss.Color("33")
	case status == eval.StatusError, status == eval.StatusTimeout:
		color = lipgloss.Color("196")
	}
	return lipgloss.NewStyle().Foreground(color)
}

// formatRowScores renders the score cell.
func formatRowScores(row EvalRow) string {
	if row.Error != "" {
		return truncateCell(row.Error, 28)
	}
	if len(row.Scores) == 0 {
		return ""
	}
	parts := make([]string, 0, len(row.Scores))
	for _, s := range row.Scores {
		switch {
		case s.Passed != nil && *s.Passed:
			parts = append(parts, s.Key+"=pass")
		case s.Passed != nil:
			parts = append(parts, s.Key+"=fail")
		case s.Value != nil:
			parts = append(parts, fmt.Sprintf("%s=%g", s.Key, *s.Value))
		}
	}
	return truncateCell(strings.Join(parts, " "), 28)
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row EvalRow, now time.Time) string {
	if row.Latency != nil {
		return fmt.Sprintf("%.2fs", *row.Latency)
	}
	if !row.StartedAt.IsZero() && row.Status == eval.StatusRunning {
		return now.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	return ""
}

func truncateCell(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
