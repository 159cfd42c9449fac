package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/camronh/Twevals/internal/store"
)

func runRename(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		var configPath, resultsDir string
		fs := flag.NewFlagSet("rename", flag.ContinueOnError)
		fs.SetOutput(stderr)
		fs.StringVar(&configPath, "config", "", "path to .twevals.yml")
		fs.StringVar(&resultsDir, "results-dir", "", "directory with run files")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() != 2 {
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		runID, newName := fs.Arg(0), fs.Arg(1)

		s, code := openStore(configPath, resultsDir, stderr)
		if code != ExitOK {
			return code
		}
		if err := s.Rename(runID, newName); err != nil {
			if errors.Is(err, store.ErrRunNotFound) {
				fmt.Fprintf(stderr, "twevals rename: run %q not found\n", runID)
			} else {
				fmt.Fprintf(stderr, "twevals rename: %v\n", err)
			}
			return ExitError
		}
		fmt.Fprintf(stdout, "Renamed run %s to %q\n", runID, newName)
		return ExitOK
	}
}
