package output

import (
	"io"

	"github.com/Nsttt/framectl/internal/frames"
	"github.com/Nsttt/framectl/internal/runner"
)

// Format represents the report output format type
type Format string

const (
	// FormatTable outputs the report as a table
	FormatTable Format = "table"
	// FormatJSON outputs the report in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs the report in YAML format
	FormatYAML Format = "yaml"
)

// Formatter defines the interface for rendering a run report
type Formatter interface {
	// FormatReport outputs the report to the writer
	FormatReport(w io.Writer, report *runner.Report) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// reportDoc is the serialized shape of a run report shared by the JSON and
// YAML formatters. Durations are rendered as strings for readability.
type reportDoc struct {
	Start        int         `json:"start" yaml:"start"`
	End          int         `json:"end" yaml:"end"`
	Total        int         `json:"total" yaml:"total"`
	Done         int         `json:"done" yaml:"done"`
	Succeeded    int         `json:"succeeded" yaml:"succeeded"`
	Failed       int         `json:"failed" yaml:"failed"`
	Cancelled    bool        `json:"cancelled" yaml:"cancelled"`
	Elapsed      string      `json:"elapsed" yaml:"elapsed"`
	Rate         float64     `json:"rate" yaml:"rate"`
	Status       string      `json:"status" yaml:"status"`
	FirstFailure *failureDoc `json:"firstFailure,omitempty" yaml:"firstFailure,omitempty"`
}

type failureDoc struct {
	Frame      int    `json:"frame" yaml:"frame"`
	Package    string `json:"package" yaml:"package"`
	Diagnostic string `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
}

func newReportDoc(r *runner.Report) reportDoc {
	doc := reportDoc{
		Start:     r.Start,
		End:       r.End,
		Total:     r.Total,
		Done:      r.Done,
		Succeeded: r.Succeeded,
		Failed:    r.Failed(),
		Cancelled: r.Cancelled,
		Elapsed:   r.Elapsed.String(),
		Rate:      r.Rate(),
		Status:    reportStatus(r),
	}

	if r.FirstFailure != nil {
		doc.FirstFailure = &failureDoc{
			Frame:      r.FirstFailure.Frame,
			Package:    frames.Package(r.FirstFailure.Frame),
			Diagnostic: r.FirstFailure.Diagnostic,
		}
	}

	return doc
}

func reportStatus(r *runner.Report) string {
	switch {
	case r.Success():
		return "success"
	case r.FirstFailure != nil:
		return "failed"
	default:
		return "stopped"
	}
}
