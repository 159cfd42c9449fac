package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/camronh/Twevals/internal/eval"
	"github.com/camronh/Twevals/internal/runner"
)

const (
	ansiReset = "\x1b[0m"
	ansiGray  = "\x1b[90m"
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiBlue  = "\x1b[34m"
)

// lockedWriter serializes writes to an underlying writer.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// Write writes to the underlying writer with a mutex guard.
func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// plainObserver prints run progress as lines instead of a live table. In
// verbose mode every evaluation gets a completion line; otherwise only the
// run start is announced.
type plainObserver struct {
	w       io.Writer
	verbose bool
	color   bool
	total   int
	done    atomic.Int64
}

func newPlainObserver(w io.Writer, verbose bool, total int) *plainObserver {
	return &plainObserver{
		w:       &lockedWriter{w: w},
		verbose: verbose,
		color:   shouldUseStyling(w),
		total:   total,
	}
}

func (p *plainObserver) OnRunStart(runID string, total int) {
	fmt.Fprintf(p.w, "Running %d evaluations (run %s)\n", total, runID)
}

func (p *plainObserver) OnEvent(event runner.Event) {
	if event.Type != runner.EventCompleted && event.Type != runner.EventCancelled {
		return
	}
	done := p.done.Add(1)
	if !p.verbose {
		return
	}
	detail := ""
	if event.Entry != nil && event.Entry.Result.Error != "" {
		detail = ": " + event.Entry.Result.Error
	}
	fmt.Fprintf(p.w, "[%d/%d] %s %s%s\n",
		done, p.total,
		p.paint(statusColor(event.Status), string(event.Status)),
		event.Name, detail)
}

func (p *plainObserver) OnRunEnd(record eval.RunRecord) {}

func (p *plainObserver) paint(color, text string) string {
	if !p.color || color == "" {
		return text
	}
	return color + text + ansiReset
}

func statusColor(status eval.Status) string {
	switch status {
	case eval.StatusCompleted:
		return ansiGreen
	case eval.StatusError, eval.StatusTimeout:
		return ansiRed
	case eval.StatusRunning:
		return ansiBlue
	default:
		return ansiGray
	}
}

// shouldUseStyling reports whether ANSI colors are appropriate for a writer.
func shouldUseStyling(writer io.Writer) bool {
	if writer == nil {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if strings.EqualFold(os.Getenv("CLICOLOR"), "0") {
		return false
	}
	return isTerminal(writer)
}
