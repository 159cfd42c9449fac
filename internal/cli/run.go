package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/camronh/Twevals/internal/config"
	"github.com/camronh/Twevals/internal/eval"
	"github.com/camronh/Twevals/internal/registry"
	"github.com/camronh/Twevals/internal/report"
	"github.com/camronh/Twevals/internal/runner"
	"github.com/camronh/Twevals/internal/store"
	"github.com/camronh/Twevals/internal/ui/live"
)

// stringList collects repeatable flag values.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

type runFlags struct {
	configPath  string
	resultsDir  string
	dataset     string
	labels      stringList
	name        string
	runName     string
	session     string
	concurrency int
	timeout     float64
	limit       int
	ui          string
	verbose     bool
	csvPath     string
	jsonPath    string
}

func runRun(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		var flags runFlags
		fs := flag.NewFlagSet("run", flag.ContinueOnError)
		fs.SetOutput(stderr)
		fs.StringVar(&flags.configPath, "config", "", "path to .twevals.yml")
		fs.StringVar(&flags.resultsDir, "results-dir", "", "directory for run files")
		fs.StringVar(&flags.dataset, "dataset", "", "only run cases from this dataset")
		fs.Var(&flags.labels, "label", "only run cases carrying this label (repeatable)")
		fs.StringVar(&flags.name, "name", "", "only run cases whose name contains this substring")
		fs.StringVar(&flags.runName, "run-name", "", "name for this run")
		fs.StringVar(&flags.session, "session", "", "session to group this run under")
		fs.IntVar(&flags.concurrency, "concurrency", 0, "worker pool size")
		fs.Float64Var(&flags.timeout, "timeout", 0, "per-evaluation timeout in seconds")
		fs.IntVar(&flags.limit, "limit", 0, "run at most N evaluations")
		fs.StringVar(&flags.ui, "ui", "", "ui mode: auto, live or plain")
		fs.BoolVar(&flags.verbose, "verbose", false, "print one line per evaluation")
		fs.StringVar(&flags.csvPath, "csv", "", "also export results as CSV to this path")
		fs.StringVar(&flags.jsonPath, "json", "", "also export results as JSON to this path")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		cfg, err := config.Load(flags.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "twevals run: %v\n", err)
			return ExitError
		}
		applyRunFlagDefaults(&flags, cfg)

		descriptors, err := selectDescriptors(flags)
		if err != nil {
			fmt.Fprintf(stderr, "twevals run: %v\n", err)
			return ExitError
		}
		if len(descriptors) == 0 {
			fmt.Fprintln(stderr, "twevals run: no evaluations matched the filters")
			return ExitError
		}

		decision, err := resolveUIMode(flags.ui, flags.verbose, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "twevals run: %v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		record, err := executeRun(descriptors, flags, stdout, decision.useLive)
		if err != nil {
			fmt.Fprintf(stderr, "twevals run: %v\n", err)
			return ExitError
		}

		if err := report.WriteTable(stdout, record); err != nil {
			fmt.Fprintf(stderr, "twevals run: %v\n", err)
			return ExitError
		}
		if err := exportRunFiles(record, flags); err != nil {
			fmt.Fprintf(stderr, "twevals run: %v\n", err)
			return ExitError
		}
		// Individual case failures and errors are recorded on the results,
		// not the exit code; only setup and storage problems abort.
		return ExitOK
	}
}

func applyRunFlagDefaults(flags *runFlags, cfg config.Config) {
	if flags.resultsDir == "" {
		flags.resultsDir = cfg.ResultsDir
	}
	if flags.session == "" {
		flags.session = cfg.Session
	}
	if flags.concurrency == 0 {
		flags.concurrency = cfg.Concurrency
	}
	if flags.timeout == 0 {
		flags.timeout = cfg.TimeoutSeconds
	}
	if flags.ui == "" {
		flags.ui = cfg.UI
	}
}

func selectDescriptors(flags runFlags) ([]eval.Descriptor, error) {
	cases := registry.Select(registry.Filter{
		Dataset: flags.dataset,
		Labels:  flags.labels,
		Name:    flags.name,
	})
	descriptors, err := eval.ExpandAll(cases, eval.Defaults{})
	if err != nil {
		return nil, err
	}
	if flags.limit > 0 && flags.limit < len(descriptors) {
		descriptors = descriptors[:flags.limit]
	}
	return descriptors, nil
}

func executeRun(descriptors []eval.Descriptor, flags runFlags, stdout io.Writer, useLive bool) (eval.RunRecord, error) {
	manager := runner.NewManager(store.New(flags.resultsDir))
	opts := runner.Options{
		Concurrency: flags.concurrency,
		Timeout:     time.Duration(flags.timeout * float64(time.Second)),
		RunName:     flags.runName,
		SessionName: flags.session,
	}

	handle := runner.NewHandle()
	opts.Handle = handle
	ctx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	var controller *live.Controller
	if useLive {
		controller = live.Start(stdout, live.Options{})
		opts.Observer = controller
	} else {
		opts.Observer = newPlainObserver(stdout, flags.verbose, len(descriptors))
	}

	record, err := manager.RunAndSave(ctx, descriptors, opts)
	if controller != nil {
		controller.Close()
		controller.Wait()
	}
	return record, err
}

func exportRunFiles(record eval.RunRecord, flags runFlags) error {
	if flags.csvPath != "" {
		if err := writeFileWith(flags.csvPath, record, report.WriteCSV); err != nil {
			return err
		}
	}
	if flags.jsonPath != "" {
		if err := writeFileWith(flags.jsonPath, record, report.WriteJSON); err != nil {
			return err
		}
	}
	return nil
}

func writeFileWith(path string, record eval.RunRecord, write func(io.Writer, eval.RunRecord) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f, record); err != nil {
		_ = f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}
