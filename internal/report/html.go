package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/camronh/Twevals/internal/eval"
)

const pageStyle = `body{font-family:sans-serif;margin:2rem;color:#1a1a1a}
table{border-collapse:collapse;width:100%}
th,td{border:1px solid #d0d0d0;padding:0.4rem 0.6rem;text-align:left;font-size:0.9rem}
th{background:#f2f2f2}
.status-completed{color:#1a7f37}.status-error{color:#cf222e}
.status-timeout{color:#9a6700}.status-cancelled{color:#6e7781}
.summary{color:#57606a;margin-bottom:1rem}`

// RunPage renders one run as an HTML document.
func RunPage(record eval.RunRecord) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writePageOpen(w, "Run "+record.RunName); err != nil {
			return err
		}
		fmt.Fprintf(w, "<h1>%s</h1>", templ.EscapeString(record.RunName))
		fmt.Fprintf(w, `<p class="summary">%s</p>`, templ.EscapeString(Summary(record)))
		if _, err := io.WriteString(w, "<table><thead><tr><th>Function</th><th>Dataset</th><th>Status</th><th>Scores</th><th>Latency</th><th>Error</th></tr></thead><tbody>"); err != nil {
			return err
		}
		for _, entry := range record.Results {
			fmt.Fprintf(w,
				`<tr><td>%s</td><td>%s</td><td class="status-%s">%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				templ.EscapeString(entry.Function),
				templ.EscapeString(entry.Dataset),
				templ.EscapeString(string(entry.Status)),
				templ.EscapeString(string(entry.Status)),
				templ.EscapeString(formatScores(entry.Result.Scores)),
				templ.EscapeString(formatLatency(entry.Result.Latency)),
				templ.EscapeString(entry.Result.Error),
			)
		}
		_, err := io.WriteString(w, "</tbody></table></body></html>")
		return err
	})
}

// IndexPage renders the run listing as an HTML document. Each run links to
// its own page under /runs/{run_id}.
func IndexPage(records []eval.RunRecord) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writePageOpen(w, "Runs"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "<h1>Runs</h1>"); err != nil {
			return err
		}
		if len(records) == 0 {
			_, err := io.WriteString(w, "<p>No runs stored yet.</p></body></html>")
			return err
		}
		if _, err := io.WriteString(w, "<table><thead><tr><th>Run</th><th>Session</th><th>Started</th><th>Evaluations</th><th>Passed</th><th>Errors</th></tr></thead><tbody>"); err != nil {
			return err
		}
		for _, record := range records {
			fmt.Fprintf(w,
				`<tr><td><a href="/runs/%s">%s</a></td><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%d</td></tr>`,
				templ.EscapeString(record.RunID),
				templ.EscapeString(record.RunName),
				templ.EscapeString(record.SessionName),
				templ.EscapeString(record.StartedAt.Format("2006-01-02 15:04:05")),
				record.TotalEvaluations,
				record.TotalPassed,
				record.TotalErrors,
			)
		}
		_, err := io.WriteString(w, "</tbody></table></body></html>")
		return err
	})
}

func writePageOpen(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w,
		`<!doctype html><html lang="en"><head><meta charset="utf-8"/><title>%s</title><style>%s</style></head><body>`,
		templ.EscapeString(title), pageStyle)
	return err
}

// RenderRunHTML renders the run page template into a string.
func RenderRunHTML(ctx context.Context, record eval.RunRecord) (string, error) {
	var builder strings.Builder
	if err := RunPage(record).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// RenderIndexHTML renders the run index template into a string.
func RenderIndexHTML(ctx context.Context, records []eval.RunRecord) (string, error) {
	var builder strings.Builder
	if err := IndexPage(records).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}
