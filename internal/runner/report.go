package runner

import "time"

// Failure identifies the first failed frame of a run
type Failure struct {
	// Frame is the failed frame index
	Frame int `json:"frame" yaml:"frame"`

	// Diagnostic is the tail of the build's stderr or a spawn error message
	Diagnostic string `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
}

// Report is the final accounting of a run
type Report struct {
	// Start and End bound the configured frame range (inclusive)
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`

	// Total is the number of frames in the range
	Total int `json:"total" yaml:"total"`

	// Done counts outcomes the collector observed. Stays below Total when
	// the run was cut short, including frames dropped after cancellation.
	Done int `json:"done" yaml:"done"`

	// Succeeded counts successful outcomes; never exceeds Done
	Succeeded int `json:"succeeded" yaml:"succeeded"`

	// Cancelled reports whether the shared cancel token was tripped
	Cancelled bool `json:"cancelled" yaml:"cancelled"`

	// FirstFailure is the canonical failure surfaced to the operator.
	// Later failures from in-flight workers are never read.
	FirstFailure *Failure `json:"firstFailure,omitempty" yaml:"firstFailure,omitempty"`

	// Elapsed is the total wall time of the run
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Failed counts observed failures
func (r *Report) Failed() int {
	return r.Done - r.Succeeded
}

// Success reports whether every frame in the range built successfully
func (r *Report) Success() bool {
	return r.Done == r.Total && r.Succeeded == r.Total
}

// Rate returns the observed throughput in frames per second
func (r *Report) Rate() float64 {
	elapsed := r.Elapsed.Seconds()
	if elapsed < minElapsed {
		elapsed = minElapsed
	}
	return float64(r.Done) / elapsed
}
