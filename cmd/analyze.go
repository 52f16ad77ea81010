package cmd

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/masmgr/forkpoint-go/internal/divergence"
	"github.com/masmgr/forkpoint-go/internal/git"
	"github.com/masmgr/forkpoint-go/internal/output"
	"github.com/urfave/cli/v2"
)

// AnalyzeCmd returns the analyze command. The root action runs the same
// analysis, so `forkpoint topic master` and `forkpoint analyze topic master`
// are equivalent.
func AnalyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Analyze how a feature branch diverged from upstream branches",
		ArgsUsage: "[featureBranch] [upstreamBranch...]",
		Flags:     commonFlags(),
		Action:    analyzeAction,
	}
}

func analyzeAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	engine, err := git.ParseEngine(cfg.Analysis.Engine)
	if err != nil {
		return err
	}

	repoPath := c.String("repo")
	backend, err := git.Open(git.Options{
		RepoPath:        repoPath,
		Engine:          engine,
		ShortHashLength: cfg.Display.ShortHashLength,
	})
	if err != nil {
		return err
	}

	feature, upstreams := splitBranchArgs(c.Args().Slice(), cfg.Analysis.DefaultUpstream)
	upstreams, err = expandUpstreamPatterns(c.Context, backend, feature, upstreams)
	if err != nil {
		return err
	}

	analyzer := divergence.NewAnalyzer(backend)
	result, err := analyzer.Analyze(c.Context, feature, upstreams)
	if err != nil {
		return err
	}

	if cfg.Display.NoColor {
		color.NoColor = true
	}

	report := &output.DivergenceAnalysisReport{
		RepoPath:       repoPath,
		FeatureBranch:  result.FeatureBranch,
		GeneratedAt:    time.Now(),
		Reports:        result.Reports,
		MostRecentFork: result.MostRecentFork,
	}

	writer := output.NewReportWriter(getOutputFormat(c.String("format")))
	return writer.Write(report, output.OutputOptions{
		Format:     getOutputFormat(c.String("format")),
		OutputPath: c.String("output"),
	})
}

// splitBranchArgs maps positional arguments onto (feature, upstreams).
// With no arguments the current branch is compared against the configured
// default upstream; with one, that branch is compared against the default.
func splitBranchArgs(args []string, defaultUpstream string) (string, []string) {
	switch len(args) {
	case 0:
		return git.CurrentBranchMarker, []string{defaultUpstream}
	case 1:
		return args[0], []string{defaultUpstream}
	default:
		return args[0], args[1:]
	}
}

// expandUpstreamPatterns replaces glob patterns (e.g. "release/*") in the
// upstream list with the matching local branch names, in sorted order. The
// feature branch itself never matches a pattern, so `forkpoint topic '*'`
// stays valid. A pattern matching nothing is an error; literal names pass
// through untouched for the analyzer to resolve.
func expandUpstreamPatterns(ctx context.Context, backend git.Backend, feature string, upstreams []string) ([]string, error) {
	var branches []string
	expanded := make([]string, 0, len(upstreams))

	for _, pattern := range upstreams {
		if !strings.ContainsAny(pattern, "*?[{") {
			expanded = append(expanded, pattern)
			continue
		}

		if branches == nil {
			if feature == "" || feature == git.CurrentBranchMarker {
				name, err := backend.CurrentBranch(ctx)
				if err != nil {
					return nil, err
				}
				feature = name
			}
			all, err := backend.Branches(ctx)
			if err != nil {
				return nil, err
			}
			sort.Strings(all)
			branches = all
		}

		matchedAny := false
		for _, branch := range branches {
			if branch == feature {
				continue
			}
			matched, err := doublestar.Match(pattern, branch)
			if err != nil {
				return nil, err
			}
			if matched {
				expanded = append(expanded, branch)
				matchedAny = true
			}
		}
		if !matchedAny {
			return nil, &git.BranchNotFoundError{Name: pattern}
		}
	}

	return expanded, nil
}
