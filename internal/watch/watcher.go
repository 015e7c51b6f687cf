// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when the files behind a piece of code
// change. Events arriving within the debounce window are coalesced, so an
// editor's write-then-rename produces one callback with every changed path.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/exp/slices"
)

const defaultDebounce = 300 * time.Millisecond

// editorNoise matches base names editors and operating systems write next
// to sources; they never trigger a callback.
var editorNoise = []string{
	"*.swp",
	"*.swo",
	"*~",
	".#*",
	"#*#",
	".DS_Store",
}

// noiseDirs are never descended into.
var noiseDirs = []string{".git", ".idea", ".gradle"}

// ErrAlreadyRunning is returned by a second call to Run.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Files are tracked individually; their directories are watched.
		Files []string
		// Patterns are doublestar globs, relative to BaseDir, selecting more
		// files to track. BaseDir is walked recursively when any are given.
		Patterns []string
		// BaseDir anchors Patterns. Defaults to the working directory.
		BaseDir string
		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to 300ms.
		Debounce time.Duration
		// OnChange receives the sorted absolute paths that changed. Errors are
		// reported on Stderr and do not stop the watcher.
		OnChange func(ctx context.Context, changed []string) error
		// Stderr receives watcher diagnostics; nil means os.Stderr.
		Stderr io.Writer
	}

	// Watcher tracks files and fires a debounced callback when they change.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		baseDir  string
		debounce time.Duration
		stderr   io.Writer
		started  atomic.Bool

		mu    sync.Mutex
		files map[string]struct{}
		dirs  map[string]struct{}
	}
)

// New creates a Watcher and registers the directories of every tracked file.
func New(cfg Config) (*Watcher, error) {
	for _, pat := range cfg.Patterns {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid pattern %q", pat)
		}
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		baseDir:  absBase,
		debounce: cfg.Debounce,
		stderr:   cfg.Stderr,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	if w.stderr == nil {
		w.stderr = os.Stderr
	}

	if err := w.Track(cfg.Files...); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if len(cfg.Patterns) > 0 {
		if err := w.addTree(); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Track adds files to the tracked set. It may be called while Run is active,
// for example after a rebuild discovered new sources.
func (w *Watcher) Track(files ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("watch: resolve %q: %w", f, err)
		}
		w.files[abs] = struct{}{}
		if err := w.addDirLocked(filepath.Dir(abs)); err != nil {
			return err
		}
	}
	return nil
}

// Tracked returns the sorted tracked files.
func (w *Watcher) Tracked() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return sortedKeys(w.files)
}

func (w *Watcher) addDirLocked(dir string) error {
	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch: add directory %q: %w", dir, err)
	}
	w.dirs[dir] = struct{}{}
	return nil
}

// addTree watches every directory under BaseDir that is not editor noise.
func (w *Watcher) addTree() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			fmt.Fprintf(w.stderr, "watch: skipping inaccessible path %q: %v\n", path, walkErr)
			return nil //nolint:nilerr // inaccessible directories are skipped, not fatal
		}
		if !d.IsDir() {
			return nil
		}
		if isNoise(path) {
			return filepath.SkipDir
		}
		return w.addDirLocked(path)
	})
	if err != nil {
		return fmt.Errorf("watch: walk %s: %w", w.baseDir, err)
	}
	return nil
}

// Matches reports whether path is tracked or selected by a pattern.
func (w *Watcher) Matches(path string) bool {
	if isNoise(path) {
		return false
	}

	w.mu.Lock()
	_, tracked := w.files[path]
	w.mu.Unlock()
	if tracked {
		return true
	}

	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range w.cfg.Patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// Run blocks until ctx is canceled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the underlying watcher breaks.
// A callback still running when the debounce window closes again delays the
// next one instead of overlapping it.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		changed := sortedKeys(pending)
		clear(pending)
		mu.Unlock()
		if len(changed) == 0 {
			return
		}

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				fmt.Fprintf(w.stderr, "watch: %v\n", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			fmt.Fprintf(w.stderr, "watch: close fsnotify: %v\n", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}
			if !w.Matches(evt.Name) {
				continue
			}

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			fmt.Fprintf(w.stderr, "watch: fsnotify error: %v\n", err)
		}
	}
}

func isNoise(path string) bool {
	normalized := filepath.ToSlash(filepath.Clean(path))
	for _, part := range strings.Split(normalized, "/") {
		if slices.Contains(noiseDirs, part) {
			return true
		}
	}
	base := filepath.Base(path)
	for _, pat := range editorNoise {
		if ok, _ := doublestar.Match(pat, base); ok {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
