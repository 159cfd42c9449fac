package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".twevals.yml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
results_dir: out/evals
session: nightly
concurrency: 8
timeout_seconds: 2.5
ui: plain
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ResultsDir != "out/evals" || cfg.Session != "nightly" || cfg.Concurrency != 8 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Timeout() != 2500*time.Millisecond {
		t.Fatalf("timeout = %v, want 2.5s", cfg.Timeout())
	}
	if cfg.UI != "plain" {
		t.Fatalf("ui = %q", cfg.UI)
	}
}

func TestLoadMissingDefaultPathUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	prev, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("want error for missing explicit config")
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("results_dir: out\nworkers: 4\n"))
	if err == nil || !strings.Contains(err.Error(), "workers") {
		t.Fatalf("err = %v, want unknown field rejection", err)
	}
}

func TestParseRejectsMultipleDocuments(t *testing.T) {
	_, err := Parse([]byte("session: a\n---\nsession: b\n"))
	if err == nil || !strings.Contains(err.Error(), "multiple YAML documents") {
		t.Fatalf("err = %v", err)
	}
}

func TestParseEmptyFile(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	Normalize(&cfg)
	if err := Validate(cfg); err != nil {
		t.Fatalf("validate normalized empty config: %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []Config{
		{ResultsDir: "x", Concurrency: 0, UI: "auto"},
		{ResultsDir: "x", Concurrency: 1, TimeoutSeconds: -1, UI: "auto"},
		{ResultsDir: "x", Concurrency: 1, UI: "fancy"},
	}
	for i, cfg := range cases {
		if err := Validate(cfg); err == nil {
			t.Errorf("case %d: want validation error for %+v", i, cfg)
		}
	}
}
