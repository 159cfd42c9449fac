package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/camronh/Twevals/internal/config"
	"github.com/camronh/Twevals/internal/store"
)

func runList(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		var configPath, resultsDir, session string
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(stderr)
		fs.StringVar(&configPath, "config", "", "path to .twevals.yml")
		fs.StringVar(&resultsDir, "results-dir", "", "directory with run files")
		fs.StringVar(&session, "session", "", "only list runs from this session")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		s, code := openStore(configPath, resultsDir, stderr)
		if code != ExitOK {
			return code
		}
		records, err := s.List(session)
		if err != nil {
			fmt.Fprintf(stderr, "twevals list: %v\n", err)
			return ExitError
		}
		if len(records) == 0 {
			fmt.Fprintln(stdout, "No runs stored.")
			return ExitOK
		}

		fmt.Fprintf(stdout, "%-28s  %-20s  %-16s  %6s  %6s  %6s\n",
			"RUN ID", "NAME", "SESSION", "EVALS", "PASSED", "ERRORS")
		for _, record := range records {
			fmt.Fprintf(stdout, "%-28s  %-20s  %-16s  %6d  %6d  %6d\n",
				record.RunID, record.RunName, record.SessionName,
				record.TotalEvaluations, record.TotalPassed, record.TotalErrors)
		}
		return ExitOK
	}
}

// openStore resolves the results directory from flags and config and returns
// a store over it.
func openStore(configPath, resultsDir string, stderr io.Writer) (*store.Store, int) {
	if resultsDir == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(stderr, "twevals: %v\n", err)
			return nil, ExitError
		}
		resultsDir = cfg.ResultsDir
	}
	return store.New(resultsDir), ExitOK
}
