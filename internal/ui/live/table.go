package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// defaultColumns returns the table layout for the evaluation list.
func defaultColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Function", Width: 36},
		{Title: "Dataset", Width: 14},
		{Title: "Status", Width: 12},
		{Title: "Scores", Width: 28},
		{Title: "Time", Width: 8},
	}
}

// columnsForWidth sizes columns for the given terminal width. Extra room
// goes to the Function column; no column shrinks below its default.
func columnsForWidth(width int) []table.Column {
	cols := defaultColumns()
	fixed := 0
	for i, col := range cols {
		if i == 1 {
			continue
		}
		fixed += col.Width
	}
	// Each cell carries one space of padding on both sides.
	available := width - fixed - 2*len(cols)
	if available > cols[1].Width {
		cols[1].Width = available
	}
	return cols
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			formatIndex(row.Index),
			formatName(row.Name),
			row.Dataset,
			formatStatus(row, noColor),
			formatRowScores(row),
			formatRowDuration(row, now),
		})
	}
	return rows
}
