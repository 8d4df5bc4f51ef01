package executor

import "context"

// DryRun is an Executor that reports instant success without spawning the
// build command. Used to exercise the dispatch pipeline and to preview a
// run's shape.
type DryRun struct{}

// Run implements Executor
func (DryRun) Run(_ context.Context, frame int) Outcome {
	return Outcome{Frame: frame, OK: true}
}
