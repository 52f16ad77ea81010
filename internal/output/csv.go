package output

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVWriter writes divergence reports as CSV.
type CSVWriter struct{}

// Write outputs the divergence report as CSV, one row per upstream branch.
func (w *CSVWriter) Write(report *DivergenceAnalysisReport, options OutputOptions) error {
	writer, file, err := createCSVWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	headers := []string{"Upstream", "ForkPoint", "ForkPointAt", "CommitsSinceForkPoint",
		"MergeBase", "MergeBaseAt", "FeatureAhead", "UpstreamAhead", "MostRecentFork"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, r := range report.Reports {
		row := []string{
			r.Upstream,
			r.ForkPoint,
			r.ForkPointWhen.Format(reportDateTimeLayout),
			fmt.Sprintf("%d", r.DistanceToForkPoint),
			r.MergeBase,
			r.MergeBaseWhen.Format(reportDateTimeLayout),
			fmt.Sprintf("%d", r.FeatureToMergeBase),
			fmt.Sprintf("%d", r.UpstreamToMergeBase),
			fmt.Sprintf("%t", r.Upstream == report.MostRecentFork),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func createCSVWriter(outputPath string) (*csv.Writer, *os.File, error) {
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, err
		}
		return csv.NewWriter(file), file, nil
	}
	return csv.NewWriter(os.Stdout), nil, nil
}
