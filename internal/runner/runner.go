package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Nsttt/framectl/internal/executor"
	"github.com/Nsttt/framectl/internal/util"
)

// Config bounds a run: the inclusive frame range and the worker count
type Config struct {
	// Start and End bound the frame range (inclusive)
	Start int
	End   int

	// Concurrency is the number of workers; values below 1 are raised to 1
	Concurrency int
}

// Runner drives one build run over a frame range
type Runner struct {
	cfg      Config
	exec     executor.Executor
	logger   *slog.Logger
	progress ProgressFunc
	interval time.Duration
}

// Option configures a Runner
type Option func(*Runner)

// WithProgress installs a sink for throttled progress snapshots
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithProgressInterval overrides the one-second progress throttle.
// Mainly for tests.
func WithProgressInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.interval = d
	}
}

// New creates a Runner for the given range and executor
func New(cfg Config, exec executor.Executor, logger *slog.Logger, opts ...Option) *Runner {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	if logger == nil {
		logger = slog.Default()
	}

	r := &Runner{
		cfg:    cfg,
		exec:   exec,
		logger: logger,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// runState is the collector's accounting. It is owned and mutated by the
// collector alone; workers communicate only through the result channel.
type runState struct {
	done         int
	succeeded    int
	cancelled    bool
	firstFailure *Failure
}

// Run executes the configured range and blocks until the run finalizes.
//
// The returned Report is always non-nil for a valid range. The error is nil
// only when every frame succeeded; a failed frame yields an error wrapping
// util.ErrBuildFailed, and a run cut short without an observed failure
// yields one wrapping util.ErrStopped.
//
// Cancelling ctx trips the run's cancel token, so an interrupted run
// finalizes with done < total instead of abandoning its goroutines.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.cfg.Start < 1 {
		return nil, util.NewConfigError("start", r.cfg.Start, "must be at least 1")
	}
	if r.cfg.End < r.cfg.Start {
		return nil, util.NewConfigError("end", r.cfg.End, fmt.Sprintf("must be at least start (%d)", r.cfg.Start))
	}

	total := r.cfg.End - r.cfg.Start + 1
	token := NewCancelToken()

	r.logger.Debug("starting frame build",
		"start", r.cfg.Start,
		"end", r.cfg.End,
		"total", total,
		"concurrency", r.cfg.Concurrency)

	startTime := time.Now()

	// Propagate outer cancellation (signals, timeouts) into the token
	runDone := make(chan struct{})
	defer close(runDone)
	go func() {
		select {
		case <-ctx.Done():
			token.Cancel()
		case <-runDone:
		}
	}()

	// Task queue capacity 2x the pool provides backpressure without
	// starving workers between emissions.
	tasks := make(chan int, 2*r.cfg.Concurrency)

	// The result channel is buffered for the whole range so workers can
	// always complete their send, even after the collector stops reading.
	results := make(chan executor.Outcome, total)

	var wg sync.WaitGroup
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go r.worker(ctx, i, tasks, results, token, &wg)
	}

	// Producer: ascending emission with backpressure, stopping as soon as
	// the token trips. Closing the queue is the workers' end-of-work signal.
	go func() {
		defer close(tasks)
		for n := r.cfg.Start; n <= r.cfg.End; n++ {
			select {
			case tasks <- n:
			case <-token.Done():
				r.logger.Debug("producer stopping early", "next_frame", n)
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collector: the single consumer. On the first failure it finalizes
	// immediately; outcomes still in flight are never read.
	state := runState{}
	tracker := newProgressTracker(r.progress, total, r.interval)

	for out := range results {
		state.done++
		if out.OK {
			state.succeeded++
		} else if state.firstFailure == nil {
			// Executors already bound their diagnostics; enforce the
			// limit here as well so no implementation can leak an
			// unbounded string into the report.
			state.firstFailure = &Failure{
				Frame:      out.Frame,
				Diagnostic: executor.Tail(out.Diagnostic, executor.DiagnosticLimit),
			}
		}

		tracker.observe(state.done, state.succeeded)

		if !out.OK {
			break
		}
	}

	state.cancelled = token.Cancelled()

	report := &Report{
		Start:        r.cfg.Start,
		End:          r.cfg.End,
		Total:        total,
		Done:         state.done,
		Succeeded:    state.succeeded,
		Cancelled:    state.cancelled,
		FirstFailure: state.firstFailure,
		Elapsed:      time.Since(startTime),
	}

	if report.Success() {
		r.logger.Debug("frame build completed",
			"total", total,
			"succeeded", state.succeeded,
			"duration", report.Elapsed)
		return report, nil
	}

	if state.firstFailure != nil {
		r.logger.Debug("frame build failed",
			"frame", state.firstFailure.Frame,
			"done", state.done,
			"total", total)
		return report, util.WrapFrameError(state.firstFailure.Frame, util.ErrBuildFailed)
	}

	r.logger.Debug("frame build stopped",
		"done", state.done,
		"total", total,
		"succeeded", state.succeeded)
	return report, fmt.Errorf("%w (done=%d/%d ok=%d)", util.ErrStopped, state.done, total, state.succeeded)
}

// worker pulls frame indexes until the queue closes or the token trips,
// folding every executor problem into an Outcome rather than dying.
func (r *Runner) worker(
	ctx context.Context,
	workerID int,
	tasks <-chan int,
	results chan<- executor.Outcome,
	token *CancelToken,
	wg *sync.WaitGroup,
) {
	defer wg.Done()

	for {
		if token.Cancelled() {
			return
		}

		n, ok := <-tasks
		if !ok {
			return
		}

		// A failure may have landed while this worker was waiting.
		// The dequeued frame is dropped, not requeued: the final
		// report shows done < total for this case.
		if token.Cancelled() {
			r.logger.Debug("dropping frame after cancellation", "worker_id", workerID, "frame", n)
			return
		}

		out := r.exec.Run(ctx, n)
		results <- out

		if !out.OK {
			token.Cancel()
		}
	}
}
