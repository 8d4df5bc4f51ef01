package output

import (
	"fmt"
	"io"

	"github.com/Nsttt/framectl/internal/frames"
	"github.com/Nsttt/framectl/internal/runner"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter formats the run report as a borderless table
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// FormatReport outputs the report as a table plus a one-line summary
func (f *TableFormatter) FormatReport(w io.Writer, report *runner.Report) error {
	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := []string{"RANGE", "TOTAL", "DONE", "OK", "FAILED", "ELAPSED", "RATE", "STATUS"}
	if !f.options.NoHeaders {
		if colors.Disabled {
			table.SetHeader(headers)
		} else {
			coloredHeaders := make([]string, len(headers))
			for i, h := range headers {
				coloredHeaders[i] = colors.Header(h)
			}
			table.SetHeader(coloredHeaders)
		}
	}

	status := reportStatus(report)
	if !colors.Disabled {
		status = colors.StatusColor(!report.Success())(status)
	}

	table.Append([]string{
		fmt.Sprintf("%d-%d", report.Start, report.End),
		fmt.Sprintf("%d", report.Total),
		fmt.Sprintf("%d", report.Done),
		fmt.Sprintf("%d", report.Succeeded),
		fmt.Sprintf("%d", report.Failed()),
		runner.FormatDuration(report.Elapsed),
		fmt.Sprintf("%.1f/s", report.Rate()),
		status,
	})

	table.Render()

	if report.FirstFailure != nil {
		failedName := frames.DirName(report.FirstFailure.Frame)
		if !colors.Disabled {
			failedName = colors.Frame(failedName)
		}
		fmt.Fprintln(w, "")
		fmt.Fprintf(w, "first failure: %s (%s)\n", failedName, frames.Package(report.FirstFailure.Frame))
	}

	return nil
}

// createTable creates a new table with borderless configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}
