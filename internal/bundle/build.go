package bundle

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/harrison/bundler/internal/fileutil"
)

// ItemPattern selects item files inside a category directory.
const ItemPattern = "*.json"

// DefaultExcludePrefixes hides dot-directories (.git, .dist, ...) from listing.
var DefaultExcludePrefixes = []string{"."}

var errInvalidUTF8 = errors.New("file is not valid UTF-8")

// Category is a directory under root whose JSON files form one bundle.
type Category struct {
	Name string
	Path string
}

// ListCategories returns the direct subdirectories of root sorted by name,
// minus any whose name starts with an exclude prefix. Paths in skip are
// dropped regardless of name.
func ListCategories(root string, exclude []string, skip ...string) ([]Category, error) {
	entries, err := fileutil.ListDirs(root, fileutil.DirOptions{
		ExcludePrefixes: exclude,
		Skip:            skip,
	})
	if err != nil {
		return nil, newFilesystemError("list", root, err)
	}

	categories := make([]Category, 0, len(entries))
	for _, e := range entries {
		categories = append(categories, Category{Name: e.Name, Path: e.Path})
	}
	return categories, nil
}

// BuildBundle reads every *.json file directly inside dir, in file name order,
// into a Bundle keyed by file stem. The first unreadable or malformed file
// aborts the build; no partial bundle is returned.
func BuildBundle(dir string) (*Bundle, error) {
	files, err := fileutil.GlobFiles(dir, ItemPattern)
	if err != nil {
		return nil, newFilesystemError("list", dir, err)
	}

	b := NewBundle()
	for _, f := range files {
		value, err := readItem(f.Path)
		if err != nil {
			return nil, err
		}
		b.Set(ItemStem(f.Name), value)
	}
	return b, nil
}

// ItemStem strips the final extension from a file name. A name whose only dot
// is the leading one (".json") has no extension and is returned unchanged.
func ItemStem(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

func readItem(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newFilesystemError("read", path, err)
	}

	if !utf8.Valid(data) {
		return nil, &MalformedJSONError{Path: path, Err: errInvalidUTF8}
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newMalformedJSONError(path, data, err)
	}

	value, err := normalizeValue(data)
	if err != nil {
		return nil, &MalformedJSONError{Path: path, Err: err}
	}
	return value, nil
}
