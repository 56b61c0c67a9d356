package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

// MalformedJSONError reports an item file whose contents are not valid JSON text.
type MalformedJSONError struct {
	Path   string // Offending file
	Line   int    // 1-based position of the syntax error, 0 if unknown
	Column int
	Err    error
}

// Error implements the error interface.
func (e *MalformedJSONError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed JSON in %s (line %d, column %d): %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("malformed JSON in %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying parse error.
func (e *MalformedJSONError) Unwrap() error {
	return e.Err
}

func newMalformedJSONError(path string, data []byte, err error) *MalformedJSONError {
	e := &MalformedJSONError{Path: path, Err: err}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		e.Line, e.Column = position(data, syntaxErr.Offset)
	}
	return e
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// FilesystemError reports a failed directory creation, listing, read or write.
type FilesystemError struct {
	Op   string // "mkdir", "list", "read", "write", "lock"
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error, so errors.Is(err, fs.ErrPermission) works.
func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// newFilesystemError strips an inner *fs.PathError so the path is not repeated.
func newFilesystemError(op, path string, err error) *FilesystemError {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && pathErr.Path == path {
		err = pathErr.Err
	}
	return &FilesystemError{Op: op, Path: path, Err: err}
}
