package runner

import (
	"fmt"
	"time"
)

// minElapsed floors elapsed time in rate computations so a snapshot taken
// immediately after start cannot divide by zero.
const minElapsed = 0.0001

// defaultProgressInterval is the minimum spacing between progress emissions
const defaultProgressInterval = time.Second

// Progress is a point-in-time snapshot of a run, for display only
type Progress struct {
	// Done, Succeeded, Failed, Total are the counters at snapshot time
	Done      int
	Succeeded int
	Failed    int
	Total     int

	// Elapsed is the wall time since the run started
	Elapsed time.Duration

	// Rate is the observed throughput in frames per second
	Rate float64

	// ETA estimates the remaining wall time at the current rate.
	// Zero when the rate is zero.
	ETA time.Duration

	// Final marks the mandatory emission once every frame is accounted for
	Final bool
}

// ProgressFunc receives throttled progress snapshots.
// It must not be used for run control decisions.
type ProgressFunc func(Progress)

// String renders the snapshot as a single operator-facing line
func (p Progress) String() string {
	return fmt.Sprintf("progress: done=%d/%d ok=%d failed=%d rate=%.1f/s eta=%s",
		p.Done, p.Total, p.Succeeded, p.Failed, p.Rate, FormatDuration(p.ETA))
}

// FormatDuration renders a duration as "3s" or "2m05s" for progress lines
func FormatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	m := secs / 60
	s := secs % 60
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// snapshot computes a Progress for the given counters and elapsed time
func snapshot(done, succeeded, total int, elapsed time.Duration) Progress {
	elapsedSecs := elapsed.Seconds()
	if elapsedSecs < minElapsed {
		elapsedSecs = minElapsed
	}

	rate := float64(done) / elapsedSecs
	remaining := total - done

	var eta time.Duration
	if rate > 0 {
		eta = time.Duration(float64(remaining) / rate * float64(time.Second))
	}

	return Progress{
		Done:      done,
		Succeeded: succeeded,
		Failed:    done - succeeded,
		Total:     total,
		Elapsed:   elapsed,
		Rate:      rate,
		ETA:       eta,
		Final:     done == total,
	}
}

// progressTracker throttles snapshot emission to at most one per interval,
// with a mandatory final emission when done reaches total
type progressTracker struct {
	fn       ProgressFunc
	total    int
	interval time.Duration
	start    time.Time
	last     time.Time
}

func newProgressTracker(fn ProgressFunc, total int, interval time.Duration) *progressTracker {
	if interval <= 0 {
		interval = defaultProgressInterval
	}

	now := time.Now()
	return &progressTracker{
		fn:       fn,
		total:    total,
		interval: interval,
		start:    now,
		last:     now,
	}
}

// observe emits a snapshot when the throttle window has passed or the run
// just completed
func (t *progressTracker) observe(done, succeeded int) {
	if t.fn == nil {
		return
	}

	final := done == t.total
	if !final && time.Since(t.last) < t.interval {
		return
	}

	t.last = time.Now()
	t.fn(snapshot(done, succeeded, t.total, time.Since(t.start)))
}
