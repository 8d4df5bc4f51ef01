package config

// Options holds the resolved configuration for a build run.
// Values are merged from flags, environment variables (FRAMECTL_*), and an
// optional config file, in that order of precedence.
type Options struct {
	// Start is the first frame index to build (inclusive)
	Start int `mapstructure:"start"`

	// End is the last frame index to build (inclusive).
	// Zero means the range could not be resolved; Validate rejects it.
	End int `mapstructure:"end"`

	// Concurrency is the number of parallel build workers
	Concurrency int `mapstructure:"concurrency"`

	// Silent suppresses the build command's stdout
	Silent bool `mapstructure:"silent"`

	// DryRun skips the real build command and reports instant success
	DryRun bool `mapstructure:"dry-run"`

	// FramesDir is the directory scanned to infer End when it is not given
	FramesDir string `mapstructure:"frames-dir"`
}

// Total returns the number of frames in the configured range.
// Only meaningful after Validate has accepted the options.
func (o Options) Total() int {
	return o.End - o.Start + 1
}
