package output

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONWriter writes divergence reports as JSON.
type JSONWriter struct{}

// JSONDivergenceReport is the JSON output structure for a divergence report.
type JSONDivergenceReport struct {
	RepoPath       string             `json:"repo"`
	FeatureBranch  string             `json:"featureBranch"`
	GeneratedAt    string             `json:"generatedAt"`
	MostRecentFork string             `json:"mostRecentFork"`
	Upstreams      []JSONUpstreamItem `json:"upstreams"`
}

// JSONUpstreamItem is the JSON output structure for a single upstream branch.
type JSONUpstreamItem struct {
	Branch                string `json:"branch"`
	ForkPoint             string `json:"forkPoint"`
	ForkPointShort        string `json:"forkPointShort"`
	ForkPointAt           string `json:"forkPointAt"`
	ForkPointAge          string `json:"forkPointAge"`
	CommitsSinceForkPoint int    `json:"commitsSinceForkPoint"`
	MergeBase             string `json:"mergeBase"`
	MergeBaseShort        string `json:"mergeBaseShort"`
	MergeBaseAt           string `json:"mergeBaseAt"`
	MergeBaseAge          string `json:"mergeBaseAge"`
	FeatureAhead          int    `json:"featureAheadOfMergeBase"`
	UpstreamAhead         int    `json:"upstreamAheadOfMergeBase"`
}

// Write outputs the divergence report as JSON.
func (w *JSONWriter) Write(report *DivergenceAnalysisReport, options OutputOptions) error {
	items := make([]JSONUpstreamItem, len(report.Reports))
	for i, r := range report.Reports {
		items[i] = JSONUpstreamItem{
			Branch:                r.Upstream,
			ForkPoint:             r.ForkPoint,
			ForkPointShort:        r.ForkPointShort,
			ForkPointAt:           r.ForkPointWhen.Format(time.RFC3339),
			ForkPointAge:          relativeAge(r.ForkPointWhen, report.GeneratedAt),
			CommitsSinceForkPoint: r.DistanceToForkPoint,
			MergeBase:             r.MergeBase,
			MergeBaseShort:        r.MergeBaseShort,
			MergeBaseAt:           r.MergeBaseWhen.Format(time.RFC3339),
			MergeBaseAge:          relativeAge(r.MergeBaseWhen, report.GeneratedAt),
			FeatureAhead:          r.FeatureToMergeBase,
			UpstreamAhead:         r.UpstreamToMergeBase,
		}
	}

	jsonReport := JSONDivergenceReport{
		RepoPath:       report.RepoPath,
		FeatureBranch:  report.FeatureBranch,
		GeneratedAt:    report.GeneratedAt.Format(time.RFC3339),
		MostRecentFork: report.MostRecentFork,
		Upstreams:      items,
	}

	return writeJSON(jsonReport, options.OutputPath)
}

func writeJSON(data interface{}, outputPath string) error {
	encoder := json.NewEncoder(os.Stdout)
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		encoder = json.NewEncoder(file)
	}

	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
