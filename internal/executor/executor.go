package executor

import "context"

// DiagnosticLimit is the maximum number of bytes of stderr kept per frame
const DiagnosticLimit = 3000

// Outcome is the result of building one frame
type Outcome struct {
	// Frame is the frame index this outcome belongs to
	Frame int

	// OK reports whether the build succeeded
	OK bool

	// Diagnostic holds the tail of the build's stderr, or a spawn error
	// message. Empty when OK is true.
	Diagnostic string
}

// Executor builds a single frame and reports the outcome.
// Implementations must be safe for concurrent use by multiple workers.
type Executor interface {
	Run(ctx context.Context, frame int) Outcome
}

// Func adapts a plain function to the Executor interface
type Func func(ctx context.Context, frame int) Outcome

// Run implements Executor
func (f Func) Run(ctx context.Context, frame int) Outcome {
	return f(ctx, frame)
}

// Tail returns the last limit bytes of s, or s unchanged when it fits.
func Tail(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	return s[len(s)-limit:]
}
