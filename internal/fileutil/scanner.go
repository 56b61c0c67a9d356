package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DirOptions configures ListDirs.
type DirOptions struct {
	// ExcludePrefixes drops any directory whose name starts with one of these
	ExcludePrefixes []string
	// Skip lists absolute directory paths to leave out regardless of name
	Skip []string
}

// Entry is a single listed directory or file.
type Entry struct {
	Name string // Base name
	Path string // dir joined with Name
}

// ListDirs returns the direct subdirectories of dir, sorted by name.
func ListDirs(dir string, opts DirOptions) ([]Entry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	skip := make(map[string]bool, len(opts.Skip))
	for _, p := range opts.Skip {
		if abs, err := filepath.Abs(p); err == nil {
			skip[abs] = true
		}
	}

	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if HasExcludedPrefix(e.Name(), opts.ExcludePrefixes) {
			continue
		}

		path := filepath.Join(dir, e.Name())
		isDir, err := resolvesTo(e, path, fs.ModeDir)
		if err != nil {
			return nil, err
		}
		if !isDir {
			continue
		}

		if len(skip) > 0 {
			if abs, err := filepath.Abs(path); err == nil && skip[abs] {
				continue
			}
		}

		result = append(result, Entry{Name: e.Name(), Path: path})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// GlobFiles returns the regular files directly inside dir whose names match
// pattern, sorted by name.
func GlobFiles(dir, pattern string) ([]Entry, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if ok, _ := filepath.Match(pattern, e.Name()); !ok {
			continue
		}

		path := filepath.Join(dir, e.Name())
		isRegular, err := resolvesTo(e, path, 0)
		if err != nil {
			return nil, err
		}
		if !isRegular {
			continue
		}

		result = append(result, Entry{Name: e.Name(), Path: path})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// HasExcludedPrefix reports whether name starts with any of prefixes.
func HasExcludedPrefix(name string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// resolvesTo reports whether the entry (following one symlink hop via Stat) has
// the given type. want == 0 means a regular file.
func resolvesTo(e fs.DirEntry, path string, want fs.FileMode) (bool, error) {
	mode := e.Type()
	if mode&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			// Dangling links are not directories or files we can read
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		mode = info.Mode()
	}
	return mode.Type() == want, nil
}
