package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/camronh/Twevals/internal/report"
	"github.com/camronh/Twevals/internal/store"
)

func runShow(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		var configPath, resultsDir string
		fs := flag.NewFlagSet("show", flag.ContinueOnError)
		fs.SetOutput(stderr)
		fs.StringVar(&configPath, "config", "", "path to .twevals.yml")
		fs.StringVar(&resultsDir, "results-dir", "", "directory with run files")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		runID := store.LatestName
		if fs.NArg() > 0 {
			runID = fs.Arg(0)
		}

		s, code := openStore(configPath, resultsDir, stderr)
		if code != ExitOK {
			return code
		}
		record, err := s.Load(runID)
		if errors.Is(err, store.ErrRunNotFound) {
			fmt.Fprintf(stderr, "twevals show: run %q not found\n", runID)
			return ExitError
		}
		if err != nil {
			fmt.Fprintf(stderr, "twevals show: %v\n", err)
			return ExitError
		}
		if err := report.WriteTable(stdout, record); err != nil {
			fmt.Fprintf(stderr, "twevals show: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
