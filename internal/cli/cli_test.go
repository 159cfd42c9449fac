package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestRunNoArgsPrintsUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run(nil, &stdout, &stderr); code != ExitUsage {
		t.Fatalf("code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stdout.String(), "twevals <command>") {
		t.Fatalf("usage missing:\n%s", stdout.String())
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"--help"}, &stdout, &stderr); code != ExitOK {
		t.Fatalf("code = %d, want %d", code, ExitOK)
	}
	for _, name := range []string{"run", "list", "show", "rename", "export", "serve"} {
		if !strings.Contains(stdout.String(), name) {
			t.Errorf("usage missing command %q", name)
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"frobnicate"}, &stdout, &stderr); code != ExitUsage {
		t.Fatalf("code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "Unknown command: frobnicate") {
		t.Fatalf("stderr = %s", stderr.String())
	}
}

func TestCommandHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := Run([]string{"run", "--help"}, &stdout, &stderr); code != ExitOK {
		t.Fatalf("code = %d, want %d", code, ExitOK)
	}
	if !strings.Contains(stdout.String(), "twevals run") {
		t.Fatalf("help missing run usage:\n%s", stdout.String())
	}
}

func TestResolveUIMode(t *testing.T) {
	prev := isTerminal
	t.Cleanup(func() { isTerminal = prev })

	isTerminal = func(io.Writer) bool { return true }
	t.Run("verbose wins", func(t *testing.T) {
		decision, err := resolveUIMode("live", true, nil)
		if err != nil || decision.useLive {
			t.Fatalf("decision = %+v err = %v", decision, err)
		}
	})
	t.Run("plain", func(t *testing.T) {
		decision, err := resolveUIMode("plain", false, nil)
		if err != nil || decision.useLive {
			t.Fatalf("decision = %+v err = %v", decision, err)
		}
	})
	t.Run("invalid", func(t *testing.T) {
		if _, err := resolveUIMode("fancy", false, nil); err == nil {
			t.Fatal("want error for invalid mode")
		}
	})
}
