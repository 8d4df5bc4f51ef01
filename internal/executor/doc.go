// Package executor defines the capability that builds a single frame.
//
// The runner treats an Executor as opaque: given a frame index it returns
// success or failure plus a bounded diagnostic. Two implementations are
// provided: Pnpm, which invokes `pnpm --filter <pkg> build` for the frame's
// workspace package, and DryRun, which succeeds instantly without spawning
// anything.
//
// Diagnostics are truncated to the last DiagnosticLimit bytes of the build's
// stderr so a noisy toolchain cannot blow up memory or the operator's
// terminal.
package executor
