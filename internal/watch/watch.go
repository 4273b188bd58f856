// Package watch re-runs a check when the sources or the language file of a
// project change. It wraps fsnotify with recursive directory registration
// and debouncing, so a burst of saves triggers a single run.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jenian/langkeys/internal/config"
	"github.com/jenian/langkeys/internal/scanner"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last change before a run
const DefaultDebounce = 300 * time.Millisecond

// ErrNotDirectory is returned when the project root is not a directory
var ErrNotDirectory = errors.New("watch root is not a directory")

// Config configures a Watcher
type Config struct {
	Root     string           // Project directory, watched recursively
	XMLFile  string           // Language file; may live outside Root
	Scanner  *scanner.Scanner // Decides which directories are skipped
	Debounce time.Duration
	Log      *zap.Logger
}

// Watcher reports changes to source files, the language file and the
// configuration file of a project
type Watcher struct {
	cfg     Config
	xmlFile string
	fs      *fsnotify.Watcher

	mu      sync.Mutex
	scanner *scanner.Scanner
}

// New registers the project directories with fsnotify
func New(cfg Config) (*Watcher, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("invalid root: %w", err)
	}
	cfg.Root = root

	info, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", cfg.Root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, cfg.Root)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Scanner == nil {
		cfg.Scanner = scanner.NewScanner()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{cfg: cfg, fs: fsw, scanner: cfg.Scanner}
	if cfg.XMLFile != "" {
		if w.xmlFile, err = filepath.Abs(cfg.XMLFile); err != nil {
			w.xmlFile = filepath.Clean(cfg.XMLFile)
		}
	}

	if err := w.addRecursive(cfg.Root); err != nil {
		fsw.Close()
		return nil, err
	}
	// A language file outside the project is watched through its directory
	if w.xmlFile != "" && !w.inRoot(w.xmlFile) {
		if err := fsw.Add(filepath.Dir(w.xmlFile)); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", w.xmlFile, err)
		}
	}
	return w, nil
}

// Close releases the underlying fsnotify watcher
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) inRoot(path string) bool {
	rel, err := filepath.Rel(w.cfg.Root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Watcher) dirFilter() *scanner.Scanner {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scanner
}

// SetScanner replaces the directory filter, typically after the folder
// ignores in the configuration changed. Directories it now excludes stop
// being watched; directories it no longer excludes are added.
func (w *Watcher) SetScanner(s *scanner.Scanner) error {
	if s == nil {
		s = scanner.NewScanner()
	}
	w.mu.Lock()
	w.scanner = s
	w.mu.Unlock()

	for _, path := range w.fs.WatchList() {
		if !w.inRoot(path) || !w.excluded(path) {
			continue
		}
		if err := w.fs.Remove(path); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			w.cfg.Log.Warn("failed to stop watching directory", zap.String("dir", path), zap.Error(err))
		}
	}
	return w.addRecursive(w.cfg.Root)
}

// excluded reports whether dir, or any directory between it and the root, is skipped
func (w *Watcher) excluded(dir string) bool {
	rel, err := filepath.Rel(w.cfg.Root, dir)
	if err != nil || rel == "." {
		return false
	}
	filter := w.dirFilter()
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for i := range parts {
		if filter.ExcludesDir(parts[i], strings.Join(parts[:i+1], "/")) {
			return true
		}
	}
	return false
}

// addRecursive adds dir and its subdirectories, skipping excluded ones
func (w *Watcher) addRecursive(dir string) error {
	filter := w.dirFilter()
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip paths with errors
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.cfg.Root, path)
		if relErr == nil && rel != "." && filter.ExcludesDir(d.Name(), filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

// relevant reports whether a change to path can alter the check results
func (w *Watcher) relevant(path string) bool {
	if w.xmlFile != "" && path == w.xmlFile {
		return true
	}
	if filepath.Base(path) == config.FileName {
		return true
	}
	if !w.inRoot(path) || w.excluded(filepath.Dir(path)) {
		return false
	}
	return scanner.DetectLanguage(path) != scanner.LanguageUnknown
}

// Run delivers the changed paths, sorted, to onChange once no further change
// arrived for the debounce interval. It blocks until ctx is done or the
// watcher is closed. onChange runs on the Run goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func(changed []string)) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = make(map[string]bool)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			path, err := filepath.Abs(event.Name)
			if err != nil {
				path = event.Name
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(path); err == nil && info.IsDir() && w.inRoot(path) && !w.excluded(filepath.Dir(path)) {
					if err := w.addRecursive(path); err != nil {
						w.cfg.Log.Warn("failed to watch new directory", zap.String("dir", path), zap.Error(err))
					}
				}
			}
			if !w.relevant(path) {
				continue
			}

			w.cfg.Log.Debug("change detected", zap.String("path", path), zap.String("op", event.Op.String()))
			pending[path] = true
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				timer.Reset(w.cfg.Debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.cfg.Log.Warn("watch error", zap.Error(err))

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = make(map[string]bool)
			onChange(changed)
		}
	}
}
