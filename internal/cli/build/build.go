package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Nsttt/framectl/internal/config"
	"github.com/Nsttt/framectl/internal/executor"
	"github.com/Nsttt/framectl/internal/frames"
	"github.com/Nsttt/framectl/internal/output"
	"github.com/Nsttt/framectl/internal/runner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewBuildCmd creates the build command
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build frame packages with a bounded worker pool",
		Long: `Build the @bad-apple/frame-XXXX workspace packages in the configured
range, running up to --concurrency builds in parallel. The first failed
frame cancels remaining work and its stderr tail is reported.

When --end is omitted it is inferred from the highest frame-XXXX
directory under the frames directory.`,
		Example: `  # Build every frame, inferring the range from apps/frames
  framectl build

  # Build a sub-range with 4 parallel workers
  framectl build --start=100 --end=250 --concurrency=4

  # Preview the dispatch without invoking pnpm
  framectl build --dry-run

  # Pass the build output through instead of discarding it
  framectl build --silent=false

  # Emit a machine-readable run report
  framectl build -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context())
		},
	}

	cmd.Flags().Int("start", 0, "first frame to build (default 1)")
	cmd.Flags().Int("end", 0, "last frame to build (default: inferred from the frames directory)")
	cmd.Flags().IntP("concurrency", "c", 0, "number of parallel builds (default: CPU count, capped at 8)")
	cmd.Flags().Bool("silent", true, "discard the build command's stdout")
	cmd.Flags().Bool("dry-run", false, "report success for every frame without building")
	cmd.Flags().String("frames-dir", "", "directory scanned to infer the frame range (default apps/frames)")

	viper.BindPFlag("start", cmd.Flags().Lookup("start"))
	viper.BindPFlag("end", cmd.Flags().Lookup("end"))
	viper.BindPFlag("concurrency", cmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("silent", cmd.Flags().Lookup("silent"))
	viper.BindPFlag("dry-run", cmd.Flags().Lookup("dry-run"))
	viper.BindPFlag("frames-dir", cmd.Flags().Lookup("frames-dir"))

	return cmd
}

func runBuild(ctx context.Context) error {
	logger := slog.Default()

	opts, err := config.FromViper(viper.GetViper())
	if err != nil {
		return err
	}

	if opts.End == 0 {
		opts.End = frames.InferEnd(opts.FramesDir)
		logger.Debug("inferred frame range end", "end", opts.End, "frames_dir", opts.FramesDir)
	}

	if err := opts.Validate(); err != nil {
		return err
	}

	noColor := viper.GetBool("no-color")
	console := output.NewConsole(os.Stderr, noColor)
	console.Start(opts.Start, opts.End, opts.Concurrency, opts.Silent, opts.DryRun)

	var exec executor.Executor
	if opts.DryRun {
		exec = executor.DryRun{}
	} else {
		exec = executor.NewPnpm(opts.Silent, logger)
	}

	r := runner.New(
		runner.Config{Start: opts.Start, End: opts.End, Concurrency: opts.Concurrency},
		exec,
		logger,
		runner.WithProgress(console.Progress),
	)

	report, runErr := r.Run(ctx)
	if report == nil {
		return runErr
	}

	if report.FirstFailure != nil {
		console.Failure(report.FirstFailure)
	}
	console.Summary(report)

	if format := viper.GetString("output"); format != "" {
		formatter := output.NewFormatter(output.Format(format), output.WithNoColor(noColor))
		if err := formatter.FormatReport(os.Stdout, report); err != nil {
			return fmt.Errorf("failed to format run report: %w", err)
		}
	}

	return runErr
}
