package live

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the run header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	elapsed := ""
	if !state.StartedAt.IsZero() {
		elapsed = now.Sub(state.StartedAt).Round(100 * time.Millisecond).String()
	}
	line := "Run " + state.RunID
	if state.Total > 0 {
		line += " | " + strconv.Itoa(state.Counts.Done) + "/" + strconv.Itoa(state.Total)
	}
	if elapsed != "" && !state.Finished {
		line += " | Elapsed: " + elapsed
	}
	if state.Finished {
		line += " | finished (press q to exit)"
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the status counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Pending: " + strconv.Itoa(counts.Pending) +
		" Running: " + strconv.Itoa(counts.Running) +
		" Passed: " + strconv.Itoa(counts.Passed) +
		" Failed: " + strconv.Itoa(counts.Failed) +
		" Errors: " + strconv.Itoa(counts.Errors) +
		" Timeouts: " + strconv.Itoa(counts.Timeouts) +
		" Cancelled: " + strconv.Itoa(counts.Cancelled)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
