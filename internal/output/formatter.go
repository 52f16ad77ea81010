package output

import (
	"time"

	"github.com/masmgr/forkpoint-go/internal/divergence"
)

// Compile-time interface conformance checks.
var (
	_ ReportWriter = (*ConsoleWriter)(nil)
	_ ReportWriter = (*JSONWriter)(nil)
	_ ReportWriter = (*CSVWriter)(nil)
	_ ReportWriter = (*MarkdownWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string
}

// DivergenceAnalysisReport wraps an analysis result for presentation.
type DivergenceAnalysisReport struct {
	RepoPath       string
	FeatureBranch  string
	GeneratedAt    time.Time
	Reports        []divergence.Report
	MostRecentFork string
}

// ReportWriter writes divergence analysis reports.
type ReportWriter interface {
	Write(report *DivergenceAnalysisReport, options OutputOptions) error
}

// NewReportWriter creates a report writer for the specified format.
func NewReportWriter(format OutputFormat) ReportWriter {
	switch format {
	case FormatJSON:
		return &JSONWriter{}
	case FormatCSV:
		return &CSVWriter{}
	case FormatMarkdown:
		return &MarkdownWriter{}
	default:
		return &ConsoleWriter{}
	}
}
