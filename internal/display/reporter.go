package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/harrison/bundler/internal/logger"
)

// Reporter writes the per-category and summary lines of a bundle run.
type Reporter struct {
	writer      io.Writer
	colorOutput bool
}

// NewReporter creates a Reporter. Color is enabled only for terminals.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{
		writer:      w,
		colorOutput: logger.IsTerminal(w),
	}
}

// CategoryWritten reports one written bundle file: "  <name>.json (<n> items)".
func (r *Reporter) CategoryWritten(category string, items int) {
	file := category + ".json"
	if r.colorOutput {
		file = color.New(color.FgCyan).Sprint(file)
	}
	fmt.Fprintf(r.writer, "  %s (%d items)\n", file, items)
}

// Summary reports the aggregate file after a blank line.
func (r *Reporter) Summary(allFile string, totalItems, categories int) {
	line := fmt.Sprintf("  %s (has %d total items across %d categories)", allFile, totalItems, categories)
	if r.colorOutput {
		line = color.New(color.FgGreen).Sprint(line)
	}
	fmt.Fprintf(r.writer, "\n%s\n", line)
}

// CheckPassed reports a clean check run.
func (r *Reporter) CheckPassed() {
	msg := "all checks passed"
	if r.colorOutput {
		msg = color.New(color.FgGreen).Sprint(msg)
	}
	fmt.Fprintln(r.writer, msg)
}

// CheckFailed reports the number of problems and where they were recorded.
func (r *Reporter) CheckFailed(issues int, errorsFile string) {
	msg := fmt.Sprintf("%d validation error(s) found. See %s", issues, errorsFile)
	if r.colorOutput {
		msg = color.New(color.FgRed).Sprint(msg)
	}
	fmt.Fprintf(r.writer, "\n%s\n", msg)
}

// Issue prints a single check problem.
func (r *Reporter) Issue(msg string) {
	if r.colorOutput {
		msg = color.New(color.FgYellow).Sprint(msg)
	}
	fmt.Fprintln(r.writer, msg)
}
