package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/Nsttt/framectl/internal/frames"
)

// defaultCommand is the package manager binary invoked per frame
const defaultCommand = "pnpm"

// Pnpm builds a frame by running `pnpm --filter <pkg> build` in the
// workspace root
type Pnpm struct {
	// Command is the binary to invoke; defaults to "pnpm"
	Command string

	// Silent discards the build's stdout instead of passing it through
	Silent bool

	logger *slog.Logger
}

// NewPnpm creates a pnpm-backed executor
func NewPnpm(silent bool, logger *slog.Logger) *Pnpm {
	if logger == nil {
		logger = slog.Default()
	}

	return &Pnpm{
		Command: defaultCommand,
		Silent:  silent,
		logger:  logger,
	}
}

// Run implements Executor. Failures to spawn the command and non-zero exits
// are both folded into a failed Outcome; the worker loop stays alive either
// way.
func (p *Pnpm) Run(ctx context.Context, frame int) Outcome {
	pkg := frames.Package(frame)

	cmd := exec.CommandContext(ctx, p.Command, "--filter", pkg, "build")
	// nil Stdin/Stdout connect to the null device
	if !p.Silent {
		cmd.Stdout = os.Stdout
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	startTime := time.Now()
	err := cmd.Run()
	duration := time.Since(startTime)

	if err == nil {
		p.logger.Debug("frame built", "frame", frame, "package", pkg, "duration", duration)
		return Outcome{Frame: frame, OK: true}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		p.logger.Debug("frame build failed",
			"frame", frame,
			"package", pkg,
			"exit_code", exitErr.ExitCode(),
			"duration", duration)
		return Outcome{
			Frame:      frame,
			Diagnostic: Tail(stderr.String(), DiagnosticLimit),
		}
	}

	// The command never ran: missing binary, permission problem, or a
	// cancelled context before exec.
	p.logger.Debug("frame build spawn failed", "frame", frame, "package", pkg, "error", err)
	return Outcome{
		Frame:      frame,
		Diagnostic: fmt.Sprintf("spawn failed: %v", err),
	}
}
