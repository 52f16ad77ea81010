package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ConsoleWriter writes divergence reports for human consumption.
type ConsoleWriter struct{}

// Write outputs the divergence report to the console.
func (w *ConsoleWriter) Write(report *DivergenceAnalysisReport, options OutputOptions) error {
	out, file, err := createWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	heading := color.New(color.FgGreen, color.Bold)
	heading.Fprintln(out, "Branch Divergence Analysis")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(out, "Feature branch: %s\n\n", report.FeatureBranch)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Upstream\tFork Point\tFork Age\tSince Fork\tMerge Base\tBase Age\tAhead\tBehind")
	for _, r := range report.Reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%d\t%d\n",
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
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	summary := color.New(color.FgGreen)
	summary.Fprintf(out, "Most likely parent branch: %s\n", report.MostRecentFork)
	return nil
}
