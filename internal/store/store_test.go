package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/camronh/Twevals/internal/eval"
)

func sampleRecord(runID, runName, session string) eval.RunRecord {
	passed := true
	record := eval.RunRecord{
		SessionName: session,
		RunName:     runName,
		RunID:       runID,
		StartedAt:   time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC),
		Results: []eval.ResultEntry{
			{
				Function: "check_greeting",
				Dataset:  "smoke",
				Status:   eval.StatusCompleted,
				Result: eval.Result{
					Input:  "hello",
					Output: "hello there",
					Scores: []eval.Score{{Key: "correctness", Passed: &passed}},
				},
			},
		},
	}
	record.Recount()
	return record
}

func runFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		if e.Name() == "latest.json" || strings.HasPrefix(e.Name(), ".tmp-") {
			continue
		}
		names = append(names, e.Name())
	}
	return names
}

func TestSaveWritesRunFileAndLatest(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	record := sampleRecord("2026-08-26T10-00-00Z-a1b2c3", "smoke-run", "dev")

	if err := s.Save(record); err != nil {
		t.Fatalf("save: %v", err)
	}

	want := "smoke-run_2026-08-26T10-00-00Z-a1b2c3.json"
	if _, err := os.Stat(filepath.Join(dir, want)); err != nil {
		t.Fatalf("run file %s missing: %v", want, err)
	}
	latest, err := s.Load("latest")
	if err != nil {
		t.Fatalf("load latest: %v", err)
	}
	if latest.RunID != record.RunID {
		t.Fatalf("latest run id = %q, want %q", latest.RunID, record.RunID)
	}
}

func TestSaveAfterRenameKeepsSingleFile(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	record := sampleRecord("2026-08-26T10-00-00Z-a1b2c3", "first-name", "dev")

	if err := s.Save(record); err != nil {
		t.Fatalf("initial save: %v", err)
	}
	if err := s.Rename(record.RunID, "second-name"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := s.Save(record); err != nil {
		t.Fatalf("save after rename: %v", err)
	}

	files := runFiles(t, dir)
	if len(files) != 1 {
		t.Fatalf("run files = %v, want exactly one", files)
	}
	if files[0] != "second-name_2026-08-26T10-00-00Z-a1b2c3.json" {
		t.Fatalf("run file = %q, want renamed filename", files[0])
	}
}

func TestRenameUpdatesStoredRunName(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	record := sampleRecord("2026-08-26T10-00-00Z-a1b2c3", "before", "dev")

	if err := s.Save(record); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Rename(record.RunID, "after"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	loaded, err := s.Load(record.RunID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.RunName != "after" {
		t.Fatalf("run name = %q, want %q", loaded.RunName, "after")
	}
}

func TestLoadResolvesAfterExternalRename(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	record := sampleRecord("2026-08-26T10-00-00Z-a1b2c3", "original", "dev")
	if err := s.Save(record); err != nil {
		t.Fatalf("save: %v", err)
	}

	old := filepath.Join(dir, "original_2026-08-26T10-00-00Z-a1b2c3.json")
	moved := filepath.Join(dir, "moved_2026-08-26T10-00-00Z-a1b2c3.json")
	if err := os.Rename(old, moved); err != nil {
		t.Fatalf("move file: %v", err)
	}

	loaded, err := s.Load(record.RunID)
	if err != nil {
		t.Fatalf("load after external rename: %v", err)
	}
	if loaded.RunID != record.RunID {
		t.Fatalf("run id = %q, want %q", loaded.RunID, record.RunID)
	}
}

func TestLoadUnknownRun(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("no-such-run"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("err = %v, want ErrRunNotFound", err)
	}
	if _, err := s.Load("latest"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("latest err = %v, want ErrRunNotFound", err)
	}
}

func TestListNewestFirstAndSessionFilter(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	older := sampleRecord("2026-08-26T09-00-00Z-aaaaaa", "older", "dev")
	newer := sampleRecord("2026-08-26T11-00-00Z-bbbbbb", "newer", "dev")
	other := sampleRecord("2026-08-26T10-00-00Z-cccccc", "elsewhere", "ci")
	for _, record := range []eval.RunRecord{older, newer, other} {
		if err := s.Save(record); err != nil {
			t.Fatalf("save %s: %v", record.RunName, err)
		}
	}

	all, err := s.List("")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	if all[0].RunID != newer.RunID || all[2].RunID != older.RunID {
		t.Fatalf("list order = [%s %s %s], want newest first", all[0].RunID, all[1].RunID, all[2].RunID)
	}

	dev, err := s.List("dev")
	if err != nil {
		t.Fatalf("list dev: %v", err)
	}
	if len(dev) != 2 {
		t.Fatalf("len(dev) = %d, want 2", len(dev))
	}
	for _, record := range dev {
		if record.SessionName != "dev" {
			t.Fatalf("session = %q, want dev", record.SessionName)
		}
	}
}

func TestSessions(t *testing.T) {
	s := New(t.TempDir())
	for _, record := range []eval.RunRecord{
		sampleRecord("2026-08-26T09-00-00Z-aaaaaa", "a", "dev"),
		sampleRecord("2026-08-26T10-00-00Z-bbbbbb", "b", "ci"),
		sampleRecord("2026-08-26T11-00-00Z-cccccc", "c", "dev"),
	} {
		if err := s.Save(record); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	sessions, err := s.Sessions()
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(sessions) != 2 || sessions[0] != "ci" || sessions[1] != "dev" {
		t.Fatalf("sessions = %v, want [ci dev]", sessions)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain-name", "plain-name"},
		{"spaces and such", "spaces-and-such"},
		{"slash/back\\slash", "slash-back-slash"},
		{"  trimmed  ", "trimmed"},
		{"***", "run"},
	}
	for _, c := range cases {
		if got := sanitizeName(c.in); got != c.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFriendlyNameShape(t *testing.T) {
	name := FriendlyName()
	parts := strings.Split(name, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		t.Fatalf("friendly name = %q, want adjective-noun", name)
	}
}
