// Package watch triggers full rebuilds when category sources change.
//
// A Watcher observes the root directory and each category directory
// (non-recursive; categories are flat). Relevant events are coalesced with a
// single debounce timer, so a burst of saves produces one Change.
package watch

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/harrison/bundler/internal/bundle"
	"github.com/harrison/bundler/internal/fileutil"
)

// DefaultDebounce is the quiet period before a Change is emitted.
const DefaultDebounce = 200 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Root            string
	OutputDir       string   // Never watched, even when it is a category-like child of Root
	ExcludePrefixes []string // nil means bundle.DefaultExcludePrefixes
	Debounce        time.Duration
}

// Change is a coalesced batch of relevant filesystem events.
type Change struct {
	Paths     []string // Distinct paths that triggered the change, sorted
	Timestamp time.Time
}

// Watcher emits a Change after relevant edits settle.
type Watcher struct {
	watcher   *fsnotify.Watcher
	changes   chan Change
	errors    chan error
	done      chan struct{}
	wg        sync.WaitGroup
	root      string
	outputDir string
	exclude   []string
	debounce  time.Duration

	mu      sync.Mutex
	dirs    map[string]bool // Watched category directories
	pending map[string]bool
	timer   *time.Timer
	closed  bool
}

// New starts watching opts.Root and its current category directories.
func New(opts Options) (*Watcher, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, err
	}
	outputDir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	exclude := opts.ExcludePrefixes
	if exclude == nil {
		exclude = bundle.DefaultExcludePrefixes
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:   fsw,
		changes:   make(chan Change, 1),
		errors:    make(chan error, 10),
		done:      make(chan struct{}),
		root:      root,
		outputDir: outputDir,
		exclude:   exclude,
		debounce:  opts.Debounce,
		dirs:      make(map[string]bool),
		pending:   make(map[string]bool),
	}

	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return nil, err
	}

	categories, err := fileutil.ListDirs(root, fileutil.DirOptions{
		ExcludePrefixes: exclude,
		Skip:            []string{outputDir},
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}
	for _, c := range categories {
		if err := w.addDir(c.Path); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	w.wg.Add(1)
	go w.processEvents()

	return w, nil
}

func (w *Watcher) addDir(path string) error {
	if err := w.watcher.Add(path); err != nil {
		// Ignore directories we can't access
		if os.IsPermission(err) || os.IsNotExist(err) {
			return nil
		}
		return err
	}
	w.mu.Lock()
	w.dirs[path] = true
	w.mu.Unlock()
	return nil
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		// chmod only
		return
	}
	if w.relevant(event) {
		w.schedule(event.Name)
	}
}

// relevant decides whether an event can change the bundle output.
// Direct children of root matter when they are (or were) category
// directories; grandchildren matter when they are *.json files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	path := event.Name
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}

	parent, name := filepath.Split(rel)
	parent = filepath.Clean(parent)

	switch {
	case parent == ".":
		if fileutil.HasExcludedPrefix(name, w.exclude) || path == w.outputDir {
			return false
		}
		if event.Has(fsnotify.Create) {
			info, err := os.Stat(path)
			if err != nil || !info.IsDir() {
				return false
			}
			if err := w.addDir(path); err != nil {
				w.sendError(err)
			}
			return true
		}
		if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			w.mu.Lock()
			known := w.dirs[path]
			delete(w.dirs, path)
			w.mu.Unlock()
			return known
		}
		return false

	case filepath.Dir(parent) == ".":
		if fileutil.HasExcludedPrefix(parent, w.exclude) || filepath.Dir(path) == w.outputDir {
			return false
		}
		matched, err := filepath.Match(bundle.ItemPattern, name)
		return err == nil && matched
	}

	return false
}

// schedule records path and (re)starts the debounce timer.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	w.pending[path] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	w.timer = nil
	w.mu.Unlock()

	sort.Strings(paths)
	change := Change{Paths: paths, Timestamp: time.Now()}

	select {
	case w.changes <- change:
	case <-w.done:
	default:
		// A change is already queued; the rebuild it triggers covers this one.
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
		// Error channel full, drop the error
	}
}

// Changes returns the channel of coalesced changes.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Errors returns the channel of watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
