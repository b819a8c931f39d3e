/*
Package history persists the set of notice ids already processed in earlier
runs. The set only ever grows: every accepted match records its id, and the
file is rewritten in full at the end of a run that produced matches.
*/
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const (
	historyFileName = "pncp_history.json"
	historyDirName  = "pncpwatch"
)

// Ledger is the in-memory view of the persisted id set.
type Ledger struct {
	mutex sync.Mutex
	ids   map[string]struct{}
	path  string
}

// DefaultPath places the ledger file under the user cache directory, falling
// back to the temp dir when no cache dir is available.
func DefaultPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, historyDirName, historyFileName)
}

// Load reads the ledger at path. A missing file is the first-run case and
// yields an empty ledger, not an error.
func Load(path string) (*Ledger, error) {
	l := &Ledger{
		ids:  make(map[string]struct{}),
		path: path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("failed to read history file %s: %w", path, err)
	}

	var stored []string
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse history file %s: %w", path, err)
	}
	for _, id := range stored {
		l.ids[id] = struct{}{}
	}
	return l, nil
}

// Contains reports whether id has been recorded.
func (l *Ledger) Contains(id string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	_, ok := l.ids[id]
	return ok
}

// Record adds id to the ledger. Recording an existing id is a no-op.
func (l *Ledger) Record(id string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.ids[id] = struct{}{}
}

// Len returns the number of distinct recorded ids.
func (l *Ledger) Len() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.ids)
}

// Snapshot returns a frozen copy of the current id set. The orchestrator takes
// one before crawling so NEW/SEEN labels reflect the ledger as loaded at run
// start, regardless of ids recorded later in the same run.
func (l *Ledger) Snapshot() map[string]struct{} {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	snap := make(map[string]struct{}, len(l.ids))
	for id := range l.ids {
		snap[id] = struct{}{}
	}
	return snap
}

// Flush writes the full id set to the ledger file. The caller only invokes it
// when the run produced at least one match, so an empty run never touches the
// file.
func (l *Ledger) Flush() error {
	l.mutex.Lock()
	ids := make([]string, 0, len(l.ids))
	for id := range l.ids {
		ids = append(ids, id)
	}
	l.mutex.Unlock()

	sort.Strings(ids)

	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history file %s: %w", l.path, err)
	}
	return nil
}

// Path returns the ledger file location.
func (l *Ledger) Path() string {
	return l.path
}
