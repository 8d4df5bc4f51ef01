package runner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Nsttt/framectl/internal/executor"
	"github.com/Nsttt/framectl/internal/util"
)

// succeedAll returns an executor that succeeds for every frame and counts
// invocations
func succeedAll(invocations *atomic.Int32) executor.Executor {
	return executor.Func(func(_ context.Context, frame int) executor.Outcome {
		if invocations != nil {
			invocations.Add(1)
		}
		return executor.Outcome{Frame: frame, OK: true}
	})
}

// failAt returns an executor that fails exactly for the given frame
func failAt(target int, diagnostic string) executor.Executor {
	return executor.Func(func(_ context.Context, frame int) executor.Outcome {
		if frame == target {
			return executor.Outcome{Frame: frame, Diagnostic: diagnostic}
		}
		return executor.Outcome{Frame: frame, OK: true}
	})
}

func TestRun_AllSucceed(t *testing.T) {
	tests := []struct {
		name        string
		start, end  int
		concurrency int
	}{
		{name: "single frame single worker", start: 1, end: 1, concurrency: 1},
		{name: "serial", start: 1, end: 20, concurrency: 1},
		{name: "two workers", start: 1, end: 20, concurrency: 2},
		{name: "more workers than frames", start: 1, end: 3, concurrency: 8},
		{name: "offset range", start: 101, end: 150, concurrency: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var invocations atomic.Int32
			r := New(
				Config{Start: tt.start, End: tt.end, Concurrency: tt.concurrency},
				succeedAll(&invocations),
				nil,
			)

			report, err := r.Run(context.Background())
			if err != nil {
				t.Fatalf("Run returned error: %v", err)
			}

			total := tt.end - tt.start + 1
			if !report.Success() {
				t.Error("report should be a success")
			}
			if report.Done != total || report.Succeeded != total {
				t.Errorf("done=%d succeeded=%d, want both %d", report.Done, report.Succeeded, total)
			}
			if int(invocations.Load()) != total {
				t.Errorf("executor invoked %d times, want %d", invocations.Load(), total)
			}
			if report.Cancelled {
				t.Error("successful run should not be cancelled")
			}
			if util.ExitCode(err) != util.ExitSuccess {
				t.Errorf("exit code = %d, want %d", util.ExitCode(err), util.ExitSuccess)
			}
		})
	}
}

func TestRun_SingleFailure(t *testing.T) {
	const start, end, target = 1, 12, 7
	total := end - start + 1

	for concurrency := 1; concurrency <= total; concurrency++ {
		r := New(
			Config{Start: start, End: end, Concurrency: concurrency},
			failAt(target, "exit status 1"),
			nil,
		)

		report, err := r.Run(context.Background())
		if err == nil {
			t.Fatalf("concurrency %d: expected error, got nil", concurrency)
		}
		if !errors.Is(err, util.ErrBuildFailed) {
			t.Errorf("concurrency %d: error should wrap ErrBuildFailed, got %v", concurrency, err)
		}
		if util.ExitCode(err) != util.ExitFailure {
			t.Errorf("concurrency %d: exit code = %d, want %d", concurrency, util.ExitCode(err), util.ExitFailure)
		}

		if report.Succeeded >= total {
			t.Errorf("concurrency %d: succeeded=%d, want below %d", concurrency, report.Succeeded, total)
		}
		if report.FirstFailure == nil {
			t.Fatalf("concurrency %d: FirstFailure not recorded", concurrency)
		}
		if report.FirstFailure.Frame != target {
			t.Errorf("concurrency %d: FirstFailure.Frame = %d, want %d", concurrency, report.FirstFailure.Frame, target)
		}
		if report.FirstFailure.Diagnostic != "exit status 1" {
			t.Errorf("concurrency %d: Diagnostic = %q", concurrency, report.FirstFailure.Diagnostic)
		}
		if !report.Cancelled {
			t.Errorf("concurrency %d: failed run should trip the cancel token", concurrency)
		}
	}
}

func TestRun_ProgressCountersBounded(t *testing.T) {
	const start, end = 1, 50
	total := end - start + 1

	var mu sync.Mutex
	var snapshots []Progress

	r := New(
		Config{Start: start, End: end, Concurrency: 4},
		succeedAll(nil),
		nil,
		WithProgress(func(p Progress) {
			mu.Lock()
			snapshots = append(snapshots, p)
			mu.Unlock()
		}),
		WithProgressInterval(time.Nanosecond),
	)

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if len(snapshots) == 0 {
		t.Fatal("expected at least one progress emission")
	}

	prevDone := 0
	for i, p := range snapshots {
		if p.Done > p.Total {
			t.Errorf("snapshot %d: done=%d exceeds total=%d", i, p.Done, p.Total)
		}
		if p.Succeeded > p.Done {
			t.Errorf("snapshot %d: succeeded=%d exceeds done=%d", i, p.Succeeded, p.Done)
		}
		if p.Done < prevDone {
			t.Errorf("snapshot %d: done went backwards (%d -> %d)", i, prevDone, p.Done)
		}
		prevDone = p.Done
	}

	last := snapshots[len(snapshots)-1]
	if !last.Final || last.Done != total {
		t.Errorf("final snapshot = %+v, want Final with done=%d", last, total)
	}
}

func TestRun_ConcurrencyBound(t *testing.T) {
	const concurrency = 3

	var inFlight, maxInFlight atomic.Int32
	exec := executor.Func(func(_ context.Context, frame int) executor.Outcome {
		cur := inFlight.Add(1)
		for {
			prev := maxInFlight.Load()
			if cur <= prev || maxInFlight.CompareAndSwap(prev, cur) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return executor.Outcome{Frame: frame, OK: true}
	})

	r := New(Config{Start: 1, End: 30, Concurrency: concurrency}, exec, nil)
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if got := maxInFlight.Load(); got > concurrency {
		t.Errorf("observed %d simultaneous executions, want at most %d", got, concurrency)
	}
}

func TestRun_ConcurrentFailuresIdempotentCancel(t *testing.T) {
	// Every frame fails, so many workers trip the token concurrently.
	// The terminal state must be the same as a single failure: one
	// canonical first failure, done < total, exit failure.
	exec := executor.Func(func(_ context.Context, frame int) executor.Outcome {
		return executor.Outcome{Frame: frame, Diagnostic: "boom"}
	})

	r := New(Config{Start: 1, End: 40, Concurrency: 8}, exec, nil)
	report, err := r.Run(context.Background())

	if !errors.Is(err, util.ErrBuildFailed) {
		t.Fatalf("expected ErrBuildFailed, got %v", err)
	}
	if report.FirstFailure == nil {
		t.Fatal("FirstFailure not recorded")
	}
	if report.Succeeded != 0 {
		t.Errorf("succeeded = %d, want 0", report.Succeeded)
	}
	if report.Done > report.Total {
		t.Errorf("done = %d exceeds total %d", report.Done, report.Total)
	}
	if !report.Cancelled {
		t.Error("cancel token should be tripped")
	}
}

func TestRun_DiagnosticTruncated(t *testing.T) {
	long := strings.Repeat("a", executor.DiagnosticLimit) + strings.Repeat("b", executor.DiagnosticLimit)

	r := New(Config{Start: 1, End: 1, Concurrency: 1}, failAt(1, long), nil)
	report, err := r.Run(context.Background())

	if err == nil {
		t.Fatal("expected error")
	}
	if report.FirstFailure == nil {
		t.Fatal("FirstFailure not recorded")
	}

	diag := report.FirstFailure.Diagnostic
	if len(diag) != executor.DiagnosticLimit {
		t.Fatalf("diagnostic length = %d, want %d", len(diag), executor.DiagnosticLimit)
	}
	if diag != strings.Repeat("b", executor.DiagnosticLimit) {
		t.Error("diagnostic should be exactly the last bytes of the original")
	}
}

func TestRun_FailFastDoesNotWaitForStragglers(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	exec := executor.Func(func(_ context.Context, frame int) executor.Outcome {
		if frame == 1 {
			return executor.Outcome{Frame: frame, Diagnostic: "fast failure"}
		}
		// Simulate a long in-flight build on the other worker
		<-release
		return executor.Outcome{Frame: frame, OK: true}
	})

	r := New(Config{Start: 1, End: 4, Concurrency: 2}, exec, nil)

	done := make(chan struct{})
	var report *Report
	var err error
	go func() {
		report, err = r.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run should finalize without draining in-flight workers")
	}

	if !errors.Is(err, util.ErrBuildFailed) {
		t.Fatalf("expected ErrBuildFailed, got %v", err)
	}
	if report.FirstFailure.Frame != 1 {
		t.Errorf("FirstFailure.Frame = %d, want 1", report.FirstFailure.Frame)
	}
	if report.Done >= report.Total {
		t.Errorf("done = %d, want below total %d", report.Done, report.Total)
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := executor.Func(func(_ context.Context, frame int) executor.Outcome {
		time.Sleep(time.Millisecond)
		return executor.Outcome{Frame: frame, OK: true}
	})

	r := New(Config{Start: 1, End: 200, Concurrency: 2}, exec, nil)
	report, err := r.Run(ctx)

	if err == nil {
		t.Fatal("cancelled run should not succeed")
	}
	if !errors.Is(err, util.ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
	if report.Done >= report.Total {
		t.Errorf("done = %d, want below total %d", report.Done, report.Total)
	}
	if !report.Cancelled {
		t.Error("report should be marked cancelled")
	}
}

func TestRun_InvalidRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
	}{
		{name: "end before start", start: 10, end: 5},
		{name: "unresolved end", start: 1, end: 0},
		{name: "zero start", start: 0, end: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var invocations atomic.Int32
			r := New(Config{Start: tt.start, End: tt.end, Concurrency: 2}, succeedAll(&invocations), nil)

			report, err := r.Run(context.Background())
			if err == nil {
				t.Fatal("expected configuration error")
			}
			if !util.IsConfigError(err) {
				t.Errorf("expected config error, got %v", err)
			}
			if util.ExitCode(err) != util.ExitConfig {
				t.Errorf("exit code = %d, want %d", util.ExitCode(err), util.ExitConfig)
			}
			if report != nil {
				t.Error("no report should be produced for a rejected range")
			}
			if invocations.Load() != 0 {
				t.Errorf("executor invoked %d times before validation, want 0", invocations.Load())
			}
		})
	}
}

func TestRun_DryRun(t *testing.T) {
	r := New(Config{Start: 1, End: 100, Concurrency: 4}, executor.DryRun{}, nil)

	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if !report.Success() {
		t.Error("dry run should succeed for every frame")
	}
	if report.Elapsed > 2*time.Second {
		t.Errorf("dry run took %s, expected negligible per-frame cost", report.Elapsed)
	}
}

func TestRun_ScenarioFiveFramesTwoWorkers(t *testing.T) {
	r := New(Config{Start: 1, End: 5, Concurrency: 2}, succeedAll(nil), nil)

	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.Done != 5 || report.Succeeded != 5 {
		t.Errorf("done=%d succeeded=%d, want 5 and 5", report.Done, report.Succeeded)
	}
	if util.ExitCode(err) != 0 {
		t.Errorf("exit code = %d, want 0", util.ExitCode(err))
	}
}

func TestRun_ScenarioFailureAtSeven(t *testing.T) {
	r := New(Config{Start: 1, End: 10, Concurrency: 4}, failAt(7, "tsc: error TS2304"), nil)

	report, err := r.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if report.Succeeded >= 10 {
		t.Errorf("succeeded = %d, want below 10", report.Succeeded)
	}
	if report.FirstFailure == nil || report.FirstFailure.Frame != 7 {
		t.Errorf("FirstFailure = %+v, want frame 7", report.FirstFailure)
	}
	if util.ExitCode(err) == 0 {
		t.Error("exit code should be non-zero")
	}
}

func TestNew_FloorsConcurrency(t *testing.T) {
	r := New(Config{Start: 1, End: 1, Concurrency: 0}, executor.DryRun{}, nil)
	if r.cfg.Concurrency != 1 {
		t.Errorf("Concurrency = %d, want 1", r.cfg.Concurrency)
	}

	r = New(Config{Start: 1, End: 1, Concurrency: -3}, executor.DryRun{}, nil)
	if r.cfg.Concurrency != 1 {
		t.Errorf("Concurrency = %d, want 1", r.cfg.Concurrency)
	}
}

func TestCancelToken(t *testing.T) {
	token := NewCancelToken()

	if token.Cancelled() {
		t.Error("fresh token should not be cancelled")
	}

	select {
	case <-token.Done():
		t.Error("Done channel should not be closed yet")
	default:
	}

	// Concurrent, repeated cancellation must be safe and idempotent
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token.Cancel()
		}()
	}
	wg.Wait()

	if !token.Cancelled() {
		t.Error("token should be cancelled")
	}

	select {
	case <-token.Done():
	default:
		t.Error("Done channel should be closed")
	}
}
