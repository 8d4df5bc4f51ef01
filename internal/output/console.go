package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/Nsttt/framectl/internal/frames"
	"github.com/Nsttt/framectl/internal/runner"
)

// Console writes operator-facing run lines to a single stream (normally
// stderr), colorized when the stream is a TTY
type Console struct {
	w      io.Writer
	colors *ColorScheme
}

// NewConsole creates a console bound to w
func NewConsole(w io.Writer, noColor bool) *Console {
	return &Console{
		w:      w,
		colors: NewColorScheme(w, noColor),
	}
}

// Start prints the start-of-run banner
func (c *Console) Start(start, end, concurrency int, silent, dryRun bool) {
	total := end - start + 1
	fmt.Fprintf(c.w, "build frames: start=%d end=%d total=%d concurrency=%d silent=%v dry_run=%v\n",
		start, end, total, concurrency, silent, dryRun)
}

// Progress prints one throttled progress line
func (c *Console) Progress(p runner.Progress) {
	fmt.Fprintln(c.w, p.String())
}

// Failure prints the canonical failed frame and its diagnostic tail
func (c *Console) Failure(f *runner.Failure) {
	fmt.Fprintln(c.w, c.colors.Error("failed: %s (%s)", frames.DirName(f.Frame), frames.Package(f.Frame)))
	if strings.TrimSpace(f.Diagnostic) != "" {
		fmt.Fprintf(c.w, "stderr tail:\n%s\n", f.Diagnostic)
	}
}

// Summary prints the final verdict line for the run
func (c *Console) Summary(report *runner.Report) {
	switch {
	case report.Success():
		fmt.Fprintln(c.w, c.colors.Success("success: built %d frames in %s",
			report.Succeeded, runner.FormatDuration(report.Elapsed)))
	case report.FirstFailure != nil:
		fmt.Fprintln(c.w, c.colors.Error("exit: build failed at %s", frames.DirName(report.FirstFailure.Frame)))
	default:
		fmt.Fprintln(c.w, c.colors.Warning("exit: build stopped (done=%d/%d ok=%d)",
			report.Done, report.Total, report.Succeeded))
	}
}
