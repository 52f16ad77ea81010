package output

import (
	"fmt"
)

// MarkdownWriter writes divergence reports as Markdown.
type MarkdownWriter struct{}

// Write outputs the divergence report as Markdown.
func (w *MarkdownWriter) Write(report *DivergenceAnalysisReport, options OutputOptions) error {
	out, file, err := createWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Branch Divergence Analysis")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Repository:** %s\n\n", report.RepoPath)
	fmt.Fprintf(out, "**Feature Branch:** `%s`\n\n", report.FeatureBranch)

	fmt.Fprintln(out, "## Upstream Branches")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "| Upstream | Fork Point | Fork Age | Since Fork | Merge Base | Base Age | Ahead | Behind |")
	fmt.Fprintln(out, "|----------|------------|----------|------------|------------|----------|-------|--------|")
	for _, r := range report.Reports {
		fmt.Fprintf(out, "| `%s` | `%s` | %s | %d | `%s` | %s | %d | %d |\n",
			r.Upstream,
			r.ForkPointShort,
			relativeAge(r.ForkPointWhen, report.GeneratedAt),
			r.DistanceToForkPoint,
			r.MergeBaseShort,
			relativeAge(r.MergeBaseWhen, report.GeneratedAt),
			r.FeatureToMergeBase,
			r.UpstreamToMergeBase,
		)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Most likely parent branch:** `%s`\n", report.MostRecentFork)
	return nil
}
