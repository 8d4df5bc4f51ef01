package config

import (
	"fmt"
	"runtime"

	"github.com/Nsttt/framectl/internal/frames"
	"github.com/Nsttt/framectl/internal/util"
	"github.com/spf13/viper"
)

const (
	// maxDefaultConcurrency caps the inferred worker count.
	// Frame builds are memory-hungry enough that saturating a large
	// machine does more harm than good.
	maxDefaultConcurrency = 8
)

// DefaultConcurrency returns a bounded estimate of usable parallelism.
func DefaultConcurrency() int {
	n := runtime.NumCPU()
	if n > maxDefaultConcurrency {
		n = maxDefaultConcurrency
	}
	if n < 1 {
		n = 1
	}
	return n
}

// FromViper builds Options from the given viper instance.
// Missing keys fall back to defaults via applyDefaults.
func FromViper(v *viper.Viper) (Options, error) {
	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("failed to unmarshal options: %w", err)
	}

	applyDefaults(&opts)
	return opts, nil
}

// applyDefaults sets default values for unset options
func applyDefaults(opts *Options) {
	if opts.Start == 0 {
		opts.Start = 1
	}

	if opts.Concurrency == 0 {
		opts.Concurrency = DefaultConcurrency()
	}

	if opts.FramesDir == "" {
		opts.FramesDir = frames.DefaultDir
	}
}

// Validate rejects an invalid or unresolvable frame range before any work
// starts. End == 0 means inference found nothing.
func (o Options) Validate() error {
	if o.Start < 1 {
		return util.NewConfigError("start", o.Start, "must be at least 1")
	}

	if o.End == 0 {
		return util.NewConfigError("end", o.End, fmt.Sprintf("could not be inferred from %s and no --end given", o.FramesDir))
	}

	if o.End < o.Start {
		return util.NewConfigError("end", o.End, fmt.Sprintf("must be at least start (%d)", o.Start))
	}

	if o.Concurrency < 1 {
		return util.NewConfigError("concurrency", o.Concurrency, "must be at least 1")
	}

	return nil
}
