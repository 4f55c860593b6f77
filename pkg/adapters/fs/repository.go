package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/srec/pkg/core"
	"github.com/aretw0/srec/pkg/git"
)

// DefaultSystemDir holds the archive index.
const DefaultSystemDir = ".srec"

// Repository implements core.Repository as a directory of .srec files
// with companions and a gains log, optionally versioned with Git.
type Repository struct {
	Path       string
	git        *git.Client
	index      *recapIndex
	config     Config
	serializer Serializer

	// saveMu serializes sequence allocation and artifact writes.
	saveMu sync.Mutex

	mu            sync.RWMutex
	watcherActive bool
	lastSave      *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string
	AutoInit     bool
	Gitless      bool
	MustExist    bool
	ReadOnly     bool
	Logger       *slog.Logger
	SystemDir    string           // e.g. ".srec"
	Now          func() time.Time // Clock for filenames and log rows
	ErrorHandler func(error)      // Receives watcher failures
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Repository{
		Path:       config.Path,
		git:        git.NewClient(config.Path, config.SystemDir+".lock", config.Logger),
		config:     config,
		index:      newRecapIndex(config.Path, config.SystemDir),
		serializer: NewSrecSerializer(),
	}
}

// Initialize prepares the archive directory and, when versioned, the Git
// repository.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("archive path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("archive path is not a directory: %s", r.Path)
		}
	} else {
		if err := os.MkdirAll(r.Path, 0755); err != nil {
			return fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	if r.config.Gitless || r.config.ReadOnly {
		return nil
	}

	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !r.git.IsRepo() {
		if !r.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", r.Path)
		}
		if err := r.git.Init(ctx); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := r.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}

	if mod && wasNewRepo {
		if err := r.git.Add(ctx, ".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		if err := r.git.Commit(ctx, git.FormatCommitMessage(git.CommitTypeChore, "", fmt.Sprintf("configure %s ignore", r.config.SystemDir), "")); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}
	return nil
}

// ensureIgnore keeps the system directory and lock file out of history.
func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	wanted := []string{r.config.SystemDir + "/", r.config.SystemDir + ".lock"}

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, w := range wanted {
		if !present[w] {
			missing = append(missing, w)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(strings.Join(missing, "\n") + "\n"); err != nil {
		return false, err
	}
	return true, nil
}

// Save writes the recap, its companion and a gains log row.
//
// Workflow:
//  1. Resolve the target: the explicit output path, or
//     <base>/<subdir>/<Category>_<date>_<NNN>_<slug>.srec.
//  2. Serialize and write the recap and companion together; neither is
//     left behind if the other fails.
//  3. Append a row to <base>/gains_log.md.
//  4. (If Git enabled) stage the artifacts and commit.
func (r *Repository) Save(ctx context.Context, recap core.Recap) (core.Stored, error) {
	if r.config.ReadOnly {
		return core.Stored{}, core.ErrReadOnly
	}

	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	now := r.config.Now()

	path, err := r.targetPath(recap, now)
	if err != nil {
		return core.Stored{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return core.Stored{}, fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := r.serializer.Serialize(recap)
	if err != nil {
		return core.Stored{}, fmt.Errorf("failed to serialize recap: %w", err)
	}
	companionPath := CompanionPath(path)
	companion := NewCompanion(recap, now)
	if err := writeArtifacts(
		artifact{path: path, data: data},
		artifact{path: companionPath, data: []byte(companion.String())},
	); err != nil {
		return core.Stored{}, fmt.Errorf("failed to write recap: %w", err)
	}

	logPath := filepath.Join(r.Path, GainsLogName)
	if err := appendGainsRow(logPath, NewGainsRow(recap, filepath.Base(path), now)); err != nil {
		return core.Stored{}, err
	}

	id := r.relativeID(path)
	stored := core.Stored{
		ID:            id,
		Path:          path,
		CompanionPath: companionPath,
		LogPath:       logPath,
	}

	r.config.Logger.Debug("recap written", "path", path, "companion", companionPath)

	if !r.config.Gitless {
		msg := git.FormatCommitMessage(git.CommitTypeDocs, "recap", "add "+filepath.Base(path), commitBody(recap))
		if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
			msg = git.AppendFooter(val)
		}
		if err := r.commit(ctx, msg, path, companionPath, logPath); err != nil {
			return stored, err
		}
	}

	r.mu.Lock()
	r.lastSave = &now
	r.mu.Unlock()

	return stored, nil
}

func (r *Repository) targetPath(recap core.Recap, now time.Time) (string, error) {
	if recap.Output != "" {
		if filepath.IsAbs(recap.Output) {
			return recap.Output, nil
		}
		return filepath.Join(r.Path, recap.Output), nil
	}

	dir := filepath.Join(r.Path, Subdir(recap.Category))
	seq, err := NextSequence(dir, recap.Category, now)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, Stem(recap.Category, now, seq, recap.Frontmatter.Title)+Extension), nil
}

// commitBody summarizes a recap for its commit message.
func commitBody(recap core.Recap) string {
	return fmt.Sprintf("convergence: %s\nmotifs: %s",
		recap.Frontmatter.Convergence, strings.Join(recap.Frontmatter.KeyMotifs, ", "))
}

// commit stages the paths that live inside the archive and commits them.
func (r *Repository) commit(ctx context.Context, msg string, paths ...string) error {
	var files []string
	for _, p := range paths {
		if rel, ok := r.inside(p); ok {
			files = append(files, rel)
		}
	}
	if len(files) == 0 {
		return nil
	}

	unlock, err := r.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := r.git.Add(ctx, files...); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}
	if err := r.git.Commit(ctx, msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// Get loads a recap by archive-relative ID, or by a path on disk.
func (r *Repository) Get(ctx context.Context, id string) (core.Loaded, error) {
	path, err := r.resolve(id)
	if err != nil {
		return core.Loaded{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return core.Loaded{}, err
	}
	defer f.Close()

	loaded, err := r.serializer.Parse(f)
	if err != nil {
		return core.Loaded{}, fmt.Errorf("failed to parse recap %s: %w", id, err)
	}
	loaded.ID = r.relativeID(path)
	return loaded, nil
}

// resolve finds the file behind an ID. Relative IDs are looked up in the
// archive first, then against the working directory. The .srec extension
// is optional.
func (r *Repository) resolve(id string) (string, error) {
	if id == "" {
		return "", core.ErrEmptyID
	}

	var candidates []string
	if filepath.IsAbs(id) {
		candidates = append(candidates, id)
	} else {
		candidates = append(candidates, filepath.Join(r.Path, filepath.FromSlash(id)), id)
	}
	if filepath.Ext(id) != Extension {
		for _, c := range candidates {
			candidates = append(candidates, c+Extension)
		}
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s", core.ErrNotFound, id)
}

// List scans the archive for recaps.
//
// Strategy:
//  1. Load the index cache from disk.
//  2. Walk the directory tree (skipping .git and the system dir).
//  3. For each .srec file, use the cached summary when its mtime matches,
//     otherwise parse the file and refresh the cache.
//  4. Prune vanished entries and save the cache (unless read-only).
func (r *Repository) List(ctx context.Context) ([]core.Entry, error) {
	if err := r.index.load(); err != nil {
		r.config.Logger.Debug("index cache unavailable", "error", err)
	}

	var entries []core.Entry
	seen := make(map[string]bool)

	err := filepath.WalkDir(r.Path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != r.Path && (d.Name() == ".git" || d.Name() == r.config.SystemDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(d.Name()) != Extension {
			return nil
		}

		id := r.relativeID(path)
		info, err := d.Info()
		if err != nil {
			return nil
		}
		mtime := info.ModTime()
		seen[id] = true

		if entry, hit := r.index.lookup(id, mtime); hit {
			entries = append(entries, entry.entry())
			return nil
		}

		loaded, err := r.Get(ctx, id)
		if err != nil {
			r.config.Logger.Debug("skipping unreadable recap", "id", id, "error", err)
			return nil
		}

		entry := summarize(id, loaded, mtime)
		r.index.store(entry)
		entries = append(entries, entry.entry())
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.index.retain(seen)
	if !r.config.ReadOnly {
		if err := r.index.flush(); err != nil {
			r.config.Logger.Debug("failed to save index cache", "error", err)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// Delete removes a recap and its companion. The gains log keeps its row.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}

	path, err := r.resolve(id)
	if err != nil {
		return err
	}
	companion := CompanionPath(path)
	relID := r.relativeID(path)

	if r.config.Gitless {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove recap: %w", err)
		}
		if err := os.Remove(companion); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove companion: %w", err)
		}
	} else {
		if err := r.remove(ctx, relID, path, companion); err != nil {
			return err
		}
	}

	r.index.forget(relID)
	return nil
}

// remove deletes paths and records the deletion in git. Files git never
// tracked are removed from disk directly; the commit is skipped when
// nothing ends up staged.
func (r *Repository) remove(ctx context.Context, relID string, paths ...string) error {
	unlock, err := r.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	var tracked []string
	for _, p := range paths {
		if rel, ok := r.inside(p); ok && r.git.Tracks(ctx, rel) {
			tracked = append(tracked, rel)
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}

	if err := r.git.Rm(ctx, tracked...); err != nil {
		return fmt.Errorf("failed to git rm: %w", err)
	}
	staged, err := r.git.HasStaged(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect git index: %w", err)
	}
	if !staged {
		r.config.Logger.Debug("nothing to commit for delete", "id", relID)
		return nil
	}
	if err := r.git.Commit(ctx, git.FormatCommitMessage(git.CommitTypeDocs, "recap", "delete "+relID, "")); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// relativeID returns the slash-separated path of p inside the archive, or
// p itself when it lives elsewhere.
func (r *Repository) relativeID(p string) string {
	if rel, ok := r.inside(p); ok {
		return rel
	}
	return p
}

func (r *Repository) inside(p string) (string, bool) {
	base, err := filepath.Abs(r.Path)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// IsGitInstalled checks if git is available in the system path.
func IsGitInstalled() bool {
	return git.IsInstalled()
}

// IsNotFound reports whether err means the recap does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, core.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}
