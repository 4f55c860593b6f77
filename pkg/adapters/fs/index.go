package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/srec/pkg/core"
)

const (
	indexFile    = "index.json"
	indexVersion = 1
)

// indexEntry is the listing summary of one recap, valid while the file's
// mtime matches Modified.
type indexEntry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date,omitempty"`
	Convergence string    `json:"convergence,omitempty"`
	KeyMotifs   []string  `json:"keyMotifs,omitempty"`
	Modified    time.Time `json:"lastModified"`
}

func (e *indexEntry) entry() core.Entry {
	return core.Entry{
		ID:          e.ID,
		Title:       e.Title,
		Date:        e.Date,
		Convergence: e.Convergence,
		KeyMotifs:   e.KeyMotifs,
	}
}

func summarize(id string, l core.Loaded, modified time.Time) *indexEntry {
	return &indexEntry{
		ID:          id,
		Title:       l.Title(""),
		Date:        stringValue(l.Metadata["date"]),
		Convergence: l.Convergence,
		KeyMotifs:   l.KeyMotifs,
		Modified:    modified,
	}
}

// indexFileBody is the on-disk shape of <system dir>/index.json.
type indexFileBody struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"`
}

// recapIndex remembers parsed recap summaries between listings so that
// unchanged files are not parsed again. Keys are archive-relative IDs.
type recapIndex struct {
	path string

	mu      sync.RWMutex
	entries map[string]*indexEntry
	changed bool
}

func newRecapIndex(basePath, systemDir string) *recapIndex {
	return &recapIndex{
		path:    filepath.Join(basePath, systemDir, indexFile),
		entries: make(map[string]*indexEntry),
	}
}

// load replaces the in-memory entries with the file on disk. A missing file
// or one from another format version yields an empty index; an unreadable
// one is an error.
func (x *recapIndex) load() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.entries = make(map[string]*indexEntry)
	x.changed = false

	data, err := os.ReadFile(x.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	var body indexFileBody
	if json.Unmarshal(data, &body) != nil || body.Version != indexVersion {
		return nil
	}
	for id, e := range body.Entries {
		if e != nil {
			x.entries[id] = e
		}
	}
	return nil
}

// flush writes the index when it differs from what was loaded.
func (x *recapIndex) flush() error {
	x.mu.RLock()
	if !x.changed {
		x.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(indexFileBody{Version: indexVersion, Entries: x.entries}, "", "  ")
	x.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(x.path), 0755); err != nil {
		return err
	}
	if err := writeArtifacts(artifact{path: x.path, data: data}); err != nil {
		return err
	}

	x.mu.Lock()
	x.changed = false
	x.mu.Unlock()
	return nil
}

// lookup returns the summary for id if the file has not changed since.
func (x *recapIndex) lookup(id string, modified time.Time) (*indexEntry, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	e, ok := x.entries[id]
	if !ok || !e.Modified.Equal(modified) {
		return nil, false
	}
	return e, true
}

func (x *recapIndex) store(e *indexEntry) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.entries[e.ID] = e
	x.changed = true
}

// retain drops every entry whose ID is not in seen.
func (x *recapIndex) retain(seen map[string]bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	for id := range x.entries {
		if !seen[id] {
			delete(x.entries, id)
			x.changed = true
		}
	}
}

func (x *recapIndex) forget(id string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if _, ok := x.entries[id]; ok {
		delete(x.entries, id)
		x.changed = true
	}
}

func (x *recapIndex) size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}
