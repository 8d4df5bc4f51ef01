package output

import (
	"encoding/json"
	"io"

	"github.com/Nsttt/framectl/internal/runner"
)

// JSONFormatter formats the run report as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// FormatReport outputs the report as indented JSON
func (f *JSONFormatter) FormatReport(w io.Writer, report *runner.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newReportDoc(report))
}
