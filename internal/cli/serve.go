package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/camronh/Twevals/internal/reportserver"
)

func runServe(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		var configPath, resultsDir, addr string
		fs := flag.NewFlagSet("serve", flag.ContinueOnError)
		fs.SetOutput(stderr)
		fs.StringVar(&configPath, "config", "", "path to .twevals.yml")
		fs.StringVar(&resultsDir, "results-dir", "", "directory with run files")
		fs.StringVar(&addr, "addr", ":8000", "listen address")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		s, code := openStore(configPath, resultsDir, stderr)
		if code != ExitOK {
			return code
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(stdout, "Serving results on %s (results dir: %s)\n", addr, s.Dir())
		if err := reportserver.Serve(ctx, reportserver.Config{Addr: addr, Store: s}); err != nil {
			fmt.Fprintf(stderr, "twevals serve: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
