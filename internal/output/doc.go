// Package output renders framectl's operator-facing lines and run reports.
//
// The Console writes the start banner, throttled progress lines, failure
// details, and the final verdict to stderr, colorized when that stream is a
// TTY. Formatters render the final run report to stdout as a table, JSON,
// or YAML for scripting.
//
// Everything here is presentation only; nothing in this package feeds back
// into run control.
package output
