package bundle

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/bundler/internal/filelock"
)

// DefaultAllFile is the aggregate file name inside the output directory.
const DefaultAllFile = "all.json"

// Reporter receives the user-facing progress of a run.
type Reporter interface {
	CategoryWritten(category string, items int)
	Summary(allFile string, totalItems, categories int)
}

// Logger receives diagnostics.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// Options configures a Bundler.
type Options struct {
	Root            string
	OutputDir       string
	AllFile         string   // Defaults to DefaultAllFile
	ExcludePrefixes []string // nil means DefaultExcludePrefixes
	Lock            bool     // Hold the output lock for the whole run
	Reporter        Reporter
	Logger          Logger
}

// Result describes a completed run.
type Result struct {
	RunID    string
	Bundles  *MegaBundle
	Files    []string // Written paths in write order; the aggregate file is last
	Duration time.Duration
}

// Bundler runs the category-to-bundle aggregation.
type Bundler struct {
	opts Options
}

// New creates a Bundler, filling defaults for unset options.
func New(opts Options) *Bundler {
	if opts.AllFile == "" {
		opts.AllFile = DefaultAllFile
	}
	if opts.ExcludePrefixes == nil {
		opts.ExcludePrefixes = DefaultExcludePrefixes
	}
	if opts.Reporter == nil {
		opts.Reporter = nopReporter{}
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	return &Bundler{opts: opts}
}

// Run rebuilds every bundle and the aggregate file from scratch.
//
// Errors abort the run immediately. Category files written before the failure
// stay on disk.
func (b *Bundler) Run() (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString(), Bundles: NewMegaBundle()}
	b.opts.Logger.LogDebug(fmt.Sprintf("run %s: root=%s output=%s", res.RunID, b.opts.Root, b.opts.OutputDir))

	if err := os.MkdirAll(b.opts.OutputDir, 0755); err != nil {
		return nil, newFilesystemError("mkdir", b.opts.OutputDir, err)
	}

	if b.opts.Lock {
		lock, err := filelock.AcquireOutputLock(b.opts.OutputDir)
		if err != nil {
			return nil, &FilesystemError{Op: "lock", Path: filelock.LockPath(b.opts.OutputDir), Err: err}
		}
		defer lock.Unlock()
	}

	categories, err := ListCategories(b.opts.Root, b.opts.ExcludePrefixes, b.opts.OutputDir)
	if err != nil {
		return nil, err
	}

	for _, cat := range categories {
		bundle, err := BuildBundle(cat.Path)
		if err != nil {
			return nil, err
		}
		if bundle.Len() == 0 {
			continue
		}

		fileName := cat.Name + ".json"
		if fileName == b.opts.AllFile {
			b.opts.Logger.LogWarn(fmt.Sprintf("category %q shares its file name with %s and will be overwritten by it", cat.Name, b.opts.AllFile))
		}

		path := filepath.Join(b.opts.OutputDir, fileName)
		if err := b.write(path, bundle); err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)

		b.opts.Reporter.CategoryWritten(cat.Name, bundle.Len())
		res.Bundles.Add(cat.Name, bundle)
	}

	allPath := filepath.Join(b.opts.OutputDir, b.opts.AllFile)
	if err := b.write(allPath, res.Bundles); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, allPath)

	b.opts.Reporter.Summary(b.opts.AllFile, res.Bundles.TotalItems(), res.Bundles.Len())

	res.Duration = time.Since(start)
	b.opts.Logger.LogDebug(fmt.Sprintf("run %s: wrote %d files in %s", res.RunID, len(res.Files), res.Duration))
	return res, nil
}

func (b *Bundler) write(path string, v json.Marshaler) error {
	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := filelock.AtomicWrite(path, data); err != nil {
		return newFilesystemError("write", path, err)
	}
	return nil
}

type nopReporter struct{}

func (nopReporter) CategoryWritten(string, int) {}
func (nopReporter) Summary(string, int, int)    {}

type nopLogger struct{}

func (nopLogger) LogDebug(string) {}
func (nopLogger) LogWarn(string)  {}
