// Package check validates a built all.json without rebuilding it.
//
// Every item under every category must carry a string identifier field
// (default "name") and be keyed by Identifier(name). Problems are soft:
// each one is reported, appended to an errors file, and counted, and the
// walk continues.
package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// DefaultIdentifierField is the item field compared against the item key.
const DefaultIdentifierField = "name"

// ErrFailed is returned by callers that need a non-zero exit when a report has issues.
var ErrFailed = errors.New("validation failed")

// Sink receives each problem as it is found.
type Sink interface {
	Issue(msg string)
}

// Options configures a Checker.
type Options struct {
	AllPath         string // Path of the aggregate bundle to read
	ErrorsPath      string // Problems are appended here; removed before each run
	IdentifierField string // Defaults to DefaultIdentifierField
	Sink            Sink
}

// Report is the outcome of one check.
type Report struct {
	Issues     []string
	ErrorsPath string
}

// OK reports whether no problems were found.
func (r *Report) OK() bool {
	return len(r.Issues) == 0
}

// Checker walks an aggregate bundle.
type Checker struct {
	opts Options
}

// New creates a Checker with defaults filled in.
func New(opts Options) *Checker {
	if opts.IdentifierField == "" {
		opts.IdentifierField = DefaultIdentifierField
	}
	return &Checker{opts: opts}
}

// Run clears the errors file, then validates the aggregate bundle.
// The returned error covers I/O failures and unparsable input only;
// validation problems are in the Report.
func (c *Checker) Run() (*Report, error) {
	if err := os.Remove(c.opts.ErrorsPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("clear errors file: %w", err)
	}

	data, err := os.ReadFile(c.opts.AllPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundle: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s is not valid JSON", c.opts.AllPath)
	}

	report := &Report{ErrorsPath: c.opts.ErrorsPath}
	if err := c.walk(gjson.ParseBytes(data), report); err != nil {
		return nil, err
	}
	return report, nil
}

func (c *Checker) walk(bundle gjson.Result, report *Report) error {
	if !bundle.IsObject() {
		return c.push(report, "bundle should be an object")
	}

	field := c.opts.IdentifierField
	var err error
	bundle.ForEach(func(category, items gjson.Result) bool {
		if !items.IsObject() {
			err = c.push(report, fmt.Sprintf("%s: should be an object", category.String()))
			return err == nil
		}

		items.ForEach(func(key, item gjson.Result) bool {
			name, ok := stringField(item, field)
			if !ok {
				err = c.push(report, fmt.Sprintf("%s/%s: missing '%s' field", category.String(), key.String(), field))
				return err == nil
			}

			if want := Identifier(name); key.String() != want {
				err = c.push(report, fmt.Sprintf("%s/%s: identifier mismatch, %s '%s' produces '%s'",
					category.String(), key.String(), field, name, want))
			}
			return err == nil
		})
		return err == nil
	})
	return err
}

// stringField returns the first member named field when item is an object
// and that member is a string. Keys are matched literally rather than as a
// gjson path so that field names containing path syntax still work.
func stringField(item gjson.Result, field string) (string, bool) {
	if !item.IsObject() {
		return "", false
	}

	var (
		value string
		found bool
	)
	item.ForEach(func(key, v gjson.Result) bool {
		if key.String() != field {
			return true
		}
		if v.Type == gjson.String {
			value, found = v.String(), true
		}
		return false
	})
	return value, found
}

func (c *Checker) push(report *Report, msg string) error {
	report.Issues = append(report.Issues, msg)
	if c.opts.Sink != nil {
		c.opts.Sink.Issue(msg)
	}
	return appendLine(c.opts.ErrorsPath, msg)
}

func appendLine(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create errors directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open errors file: %w", err)
	}
	if _, err := fmt.Fprintln(f, line); err != nil {
		f.Close()
		return fmt.Errorf("write errors file: %w", err)
	}
	return f.Close()
}
