package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/camronh/Twevals/internal/eval"
	"github.com/camronh/Twevals/internal/report"
	"github.com/camronh/Twevals/internal/store"
)

func runExport(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		var configPath, resultsDir, format, output string
		fs := flag.NewFlagSet("export", flag.ContinueOnError)
		fs.SetOutput(stderr)
		fs.StringVar(&configPath, "config", "", "path to .twevals.yml")
		fs.StringVar(&resultsDir, "results-dir", "", "directory with run files")
		fs.StringVar(&format, "format", "json", "export format: csv or json")
		fs.StringVar(&output, "output", "", "write to this path instead of stdout")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		var write func(io.Writer, eval.RunRecord) error
		switch format {
		case "csv":
			write = report.WriteCSV
		case "json":
			write = report.WriteJSON
		default:
			fmt.Fprintf(stderr, "twevals export: invalid format %q (expected csv or json)\n", format)
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
			fmt.Fprintf(stderr, "twevals export: run %q not found\n", runID)
			return ExitError
		}
		if err != nil {
			fmt.Fprintf(stderr, "twevals export: %v\n", err)
			return ExitError
		}

		out := stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				fmt.Fprintf(stderr, "twevals export: %v\n", err)
				return ExitError
			}
			defer f.Close()
			out = f
		}
		if err := write(out, record); err != nil {
			fmt.Fprintf(stderr, "twevals export: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
