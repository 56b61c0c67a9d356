// Package fileutil provides the directory listing primitives used by the bundler.
//
// Both listings are single-level (never recursive) and return entries sorted by
// name in byte order, so callers get deterministic output without sorting again.
//
// # Directories
//
// ListDirs returns the direct subdirectories of a directory, skipping any whose
// name starts with one of the supplied exclusion prefixes:
//
//	dirs, err := fileutil.ListDirs(root, fileutil.DirOptions{
//	    ExcludePrefixes: []string{"."},
//	})
//
// Symlinks that resolve to directories are included. Plain files are ignored.
//
// # Files
//
// GlobFiles returns the regular files directly inside a directory whose names
// match a filepath.Match pattern. Matching is case-sensitive:
//
//	files, err := fileutil.GlobFiles(dir, "*.json")
//
// Unlike filepath.Glob, a directory named "x.json" is not returned.
package fileutil
