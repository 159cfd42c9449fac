//go:build cucumber

package cucumber

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"

	"github.com/camronh/Twevals/internal/cli"
	"github.com/camronh/Twevals/internal/eval"
	"github.com/camronh/Twevals/internal/registry"
)

// cliState carries shared scenario state: the registered suite, the results
// directory and the last command's outcome.
type cliState struct {
	resultsDir string
	stdout     bytes.Buffer
	stderr     bytes.Buffer
	exitCode   int
	lastRunID  string
}

func (s *cliState) reset() error {
	registry.Reset()
	dir, err := os.MkdirTemp("", "twevals-cucumber-*")
	if err != nil {
		return err
	}
	s.resultsDir = dir
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = 0
	s.lastRunID = ""
	return nil
}

func (s *cliState) close() {
	registry.Reset()
	if s.resultsDir != "" {
		_ = os.RemoveAll(s.resultsDir)
	}
}

// InitializeScenario wires step definitions for the CLI feature tests.
func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &cliState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, state.reset()
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		state.close()
		return ctx, nil
	})

	ctx.Step(`^a suite with a passing case "([^"]+)" and a failing case "([^"]+)"$`, state.givenPassFailSuite)
	ctx.Step(`^a suite with a case "([^"]+)" whose body returns an error$`, state.givenErroringSuite)
	ctx.Step(`^a finished run named "([^"]+)" in session "([^"]+)"$`, state.givenFinishedRun)
	ctx.Step(`^I run "twevals ([^"]*)"$`, state.whenIRun)
	ctx.Step(`^I rename the latest run to "([^"]+)"$`, state.whenIRenameLatest)
	ctx.Step(`^the command succeeds$`, state.thenCommandSucceeds)
	ctx.Step(`^the output contains "([^"]*)"$`, state.thenOutputContains)
	ctx.Step(`^exactly (\d+) run file named "([^"]+)" is stored$`, state.thenRunFilesStored)
}

func (s *cliState) givenPassFailSuite(passing, failing string) error {
	registry.Register(
		eval.Case{
			Name:    passing,
			Dataset: "suite",
			Body: func(_ context.Context, ec *eval.Context, _ map[string]any) error {
				ec.SetOutput("hello")
				return nil
			},
		},
		eval.Case{
			Name:    failing,
			Dataset: "suite",
			Body: func(_ context.Context, ec *eval.Context, _ map[string]any) error {
				ec.SetOutput("grumpy")
				return eval.Check(false, "not cheerful enough")
			},
		},
	)
	return nil
}

func (s *cliState) givenErroringSuite(name string) error {
	registry.Register(eval.Case{
		Name:    name,
		Dataset: "suite",
		Body: func(_ context.Context, _ *eval.Context, _ map[string]any) error {
			return errors.New("backend unavailable")
		},
	})
	return nil
}

func (s *cliState) givenFinishedRun(runName, session string) error {
	if err := s.whenIRun(fmt.Sprintf("run --ui plain --run-name %s --session %s", runName, session)); err != nil {
		return err
	}
	if s.exitCode != cli.ExitOK {
		return fmt.Errorf("seed run exited %d: %s", s.exitCode, s.stderr.String())
	}
	return nil
}

func (s *cliState) whenIRun(commandLine string) error {
	args := strings.Fields(commandLine)
	// Inject the results dir right after the subcommand: the CLI parses flags
	// with the stdlib flag package, which stops at the first positional arg.
	args = append(args[:1], append([]string{"--results-dir", s.resultsDir}, args[1:]...)...)
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = cli.Run(args, &s.stdout, &s.stderr)
	return nil
}

func (s *cliState) whenIRenameLatest(newName string) error {
	files, err := filepath.Glob(filepath.Join(s.resultsDir, "*_*.json"))
	if err != nil || len(files) == 0 {
		return fmt.Errorf("no stored run to rename: %v", err)
	}
	base := strings.TrimSuffix(filepath.Base(files[0]), ".json")
	idx := strings.Index(base, "_")
	runID := base[idx+1:]
	return s.whenIRun(fmt.Sprintf("rename %s %s", runID, newName))
}

func (s *cliState) thenCommandSucceeds() error {
	if s.exitCode != cli.ExitOK {
		return fmt.Errorf("exit code %d, stderr: %s", s.exitCode, s.stderr.String())
	}
	return nil
}

func (s *cliState) thenOutputContains(text string) error {
	if strings.Contains(s.stdout.String(), text) || strings.Contains(s.stderr.String(), text) {
		return nil
	}
	return fmt.Errorf("output does not contain %q:\nstdout: %s\nstderr: %s", text, s.stdout.String(), s.stderr.String())
}

func (s *cliState) thenRunFilesStored(count int, runName string) error {
	matches, err := filepath.Glob(filepath.Join(s.resultsDir, runName+"_*.json"))
	if err != nil {
		return err
	}
	if len(matches) != count {
		all, _ := filepath.Glob(filepath.Join(s.resultsDir, "*.json"))
		return fmt.Errorf("found %d files named %s, want %d (dir: %v)", len(matches), runName, count, all)
	}
	return nil
}
