package output

import (
	"testing"
	"time"
)

func TestNewReportWriter(t *testing.T) {
	tests := []struct {
		format OutputFormat
		want   string
	}{
		{format: FormatConsole, want: "*output.ConsoleWriter"},
		{format: FormatJSON, want: "*output.JSONWriter"},
		{format: FormatCSV, want: "*output.CSVWriter"},
		{format: FormatMarkdown, want: "*output.MarkdownWriter"},
		{format: OutputFormat("bogus"), want: "*output.ConsoleWriter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			writer := NewReportWriter(tt.format)
			switch tt.want {
			case "*output.ConsoleWriter":
				if _, ok := writer.(*ConsoleWriter); !ok {
					t.Errorf("NewReportWriter(%q) = %T, want %s", tt.format, writer, tt.want)
				}
			case "*output.JSONWriter":
				if _, ok := writer.(*JSONWriter); !ok {
					t.Errorf("NewReportWriter(%q) = %T, want %s", tt.format, writer, tt.want)
				}
			case "*output.CSVWriter":
				if _, ok := writer.(*CSVWriter); !ok {
					t.Errorf("NewReportWriter(%q) = %T, want %s", tt.format, writer, tt.want)
				}
			case "*output.MarkdownWriter":
				if _, ok := writer.(*MarkdownWriter); !ok {
					t.Errorf("NewReportWriter(%q) = %T, want %s", tt.format, writer, tt.want)
				}
			}
		})
	}
}

func TestRelativeAge(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		when     time.Time
		expected string
	}{
		{name: "TwoWeeks", when: now.Add(-14 * 24 * time.Hour), expected: "2 weeks ago"},
		{name: "OneDay", when: now.Add(-24 * time.Hour), expected: "1 day ago"},
		{name: "OneMonth", when: now.Add(-45 * 24 * time.Hour), expected: "1 month ago"},
		{name: "Now", when: now, expected: "now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relativeAge(tt.when, now); got != tt.expected {
				t.Errorf("relativeAge = %q, expected %q", got, tt.expected)
			}
		})
	}
}
