// Package store persists run records as JSON files with stable, rename-safe
// identity: for any run_id there is exactly one backing file at all times.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/camronh/Twevals/internal/eval"
)

// LatestName is the convenience pointer overwritten on every save.
const LatestName = "latest"

// ErrRunNotFound reports a run_id with no backing file.
var ErrRunNotFound = errors.New("run not found")

// Store reads and writes run records under a single directory. A store is
// the sole writer for the runs it saves; concurrent writers to the same
// run_id from different stores are not supported.
type Store struct {
	dir string

	mu        sync.Mutex
	filenames map[string]string // run_id -> current filename
}

// New returns a store rooted at dir. The directory is created on first save.
func New(dir string) *Store {
	return &Store{dir: dir, filenames: map[string]string{}}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// RunPath returns the current backing file for a run_id, resolving through
// the rename-updated cache first and the directory second.
func (s *Store) RunPath(runID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, err := s.resolveFilenameLocked(runID)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// LatestPath returns the path of the "most recent run" pointer.
func (s *Store) LatestPath() string {
	return filepath.Join(s.dir, LatestName+".json")
}

// Save writes the record as one file, atomically: the payload lands in a
// temporary file in the same directory and is renamed into place, so a
// concurrent reader never observes a partial write. Saving an already-known
// run_id reuses that run's current filename, never the record's possibly
// stale run_name.
func (s *Store) Save(record eval.RunRecord) error {
	if record.RunID == "" {
		return fmt.Errorf("save run: run_id is empty")
	}
	if record.RunName == "" {
		record.RunName = FriendlyName()
	}
	if record.SessionName == "" {
		record.SessionName = FriendlyName()
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	name, err := s.resolveFilenameLocked(record.RunID)
	if errors.Is(err, ErrRunNotFound) {
		name = runFilename(record.RunName, record.RunID)
		err = nil
	}
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run %s: %w", record.RunID, err)
	}
	if err := s.writeAtomicLocked(filepath.Join(s.dir, name), payload); err != nil {
		return err
	}
	s.filenames[record.RunID] = name
	return s.writeAtomicLocked(s.LatestPath(), payload)
}

// Rename moves a run's backing file to reflect newName, preserving run_id
// and contents, and invalidates the cached filename so later saves resolve
// to the renamed file instead of resurrecting one under the old name.
func (s *Store) Rename(runID, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return fmt.Errorf("rename run %s: new name is empty", runID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.resolveFilenameLocked(runID)
	if err != nil {
		return err
	}

	record, err := readRecord(filepath.Join(s.dir, current))
	if err != nil {
		return err
	}
	record.RunName = newName
	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run %s: %w", runID, err)
	}

	next := runFilename(newName, runID)
	if next == current {
		s.filenames[runID] = current
		return s.writeAtomicLocked(filepath.Join(s.dir, current), payload)
	}
	if err := s.writeAtomicLocked(filepath.Join(s.dir, current), payload); err != nil {
		return err
	}
	if err := os.Rename(filepath.Join(s.dir, current), filepath.Join(s.dir, next)); err != nil {
		return fmt.Errorf("rename run %s: %w", runID, err)
	}
	s.filenames[runID] = next
	return nil
}

// Load reads one run record. The id "latest" resolves through the
// convenience pointer.
func (s *Store) Load(runID string) (eval.RunRecord, error) {
	if runID == LatestName {
		record, err := readRecord(s.LatestPath())
		if errors.Is(err, os.ErrNotExist) {
			return eval.RunRecord{}, fmt.Errorf("load latest: %w", ErrRunNotFound)
		}
		return record, err
	}
	path, err := s.RunPath(runID)
	if err != nil {
		return eval.RunRecord{}, err
	}
	return readRecord(path)
}

// List returns all stored runs, newest first, optionally filtered by
// session name. It scans the directory rather than a maintained index, so
// listings reflect on-disk truth even after external renames or deletions.
func (s *Store) List(sessionName string) ([]eval.RunRecord, error) {
	names, err := s.scanFilenames()
	if err != nil {
		return nil, err
	}
	records := make([]eval.RunRecord, 0, len(names))
	for _, name := range names {
		record, err := readRecord(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		if sessionName != "" && record.SessionName != sessionName {
			continue
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].RunID > records[j].RunID
	})
	return records, nil
}

// Sessions returns the distinct session names across stored runs, sorted.
func (s *Store) Sessions() ([]string, error) {
	records, err := s.List("")
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	sessions := make([]string, 0, len(records))
	for _, record := range records {
		if _, ok := seen[record.SessionName]; ok {
			continue
		}
		seen[record.SessionName] = struct{}{}
		sessions = append(sessions, record.SessionName)
	}
	sort.Strings(sessions)
	return sessions, nil
}

// resolveFilenameLocked finds the current filename for a run_id: the cache
// first, then a directory scan for files carrying the run_id suffix.
func (s *Store) resolveFilenameLocked(runID string) (string, error) {
	if name, ok := s.filenames[runID]; ok {
		if _, err := os.Stat(filepath.Join(s.dir, name)); err == nil {
			return name, nil
		}
		delete(s.filenames, runID)
	}
	names, err := s.scanFilenames()
	if err != nil {
		return "", err
	}
	suffix := "_" + runID + ".json"
	for _, name := range names {
		if strings.HasSuffix(name, suffix) {
			s.filenames[runID] = name
			return name, nil
		}
	}
	return "", fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
}

// scanFilenames lists run files in the store directory, excluding the
// latest pointer and in-flight temporaries.
func (s *Store) scanFilenames() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan results dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if name == LatestName+".json" || strings.HasPrefix(name, ".tmp-") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// writeAtomicLocked writes payload to path via a same-directory temporary
// file and an atomic rename.
func (s *Store) writeAtomicLocked(path string, payload []byte) error {
	tmp := filepath.Join(s.dir, ".tmp-"+uuid.NewString())
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readRecord(path string) (eval.RunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return eval.RunRecord{}, fmt.Errorf("read run file: %w", err)
	}
	var record eval.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return eval.RunRecord{}, fmt.Errorf("parse run file %s: %w", filepath.Base(path), err)
	}
	return record, nil
}

// runFilename derives the backing filename from the run's name and id.
func runFilename(runName, runID string) string {
	return sanitizeName(runName) + "_" + runID + ".json"
}

// sanitizeName keeps filenames portable: anything outside a conservative
// character set collapses to dashes.
func sanitizeName(name string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "run"
	}
	return out
}
