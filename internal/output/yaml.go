package output

import (
	"io"

	"github.com/Nsttt/framectl/internal/runner"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats the run report as YAML
type YAMLFormatter struct {
	options *Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(opts *Options) *YAMLFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &YAMLFormatter{
		options: opts,
	}
}

// FormatReport outputs the report as YAML
func (f *YAMLFormatter) FormatReport(w io.Writer, report *runner.Report) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(newReportDoc(report))
}
