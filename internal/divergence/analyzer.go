package divergence

import (
	"context"
	"fmt"
	"time"

	"github.com/masmgr/forkpoint-go/internal/git"
)

// InvalidInputError indicates the feature branch was also listed as an
// upstream branch.
type InvalidInputError struct {
	Branch string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("feature branch %q is also listed as an upstream branch", e.Branch)
}

// HistoryQueryError indicates a required ancestry or merge-base query could
// not be satisfied, e.g. two branches with unrelated histories.
type HistoryQueryError struct {
	Feature  string
	Upstream string
	Reason   string
	Err      error
}

func (e *HistoryQueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s and %s: %s: %v", e.Feature, e.Upstream, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s and %s: %s", e.Feature, e.Upstream, e.Reason)
}

func (e *HistoryQueryError) Unwrap() error { return e.Err }

// Report holds the divergence measurements for one upstream branch.
type Report struct {
	Upstream string

	ForkPoint      string
	ForkPointShort string
	ForkPointWhen  time.Time
	// DistanceToForkPoint counts commits reachable from the feature tip
	// but not from the fork point, following all parents.
	DistanceToForkPoint int

	MergeBase      string
	MergeBaseShort string
	MergeBaseWhen  time.Time
	// FeatureToMergeBase and UpstreamToMergeBase are first-parent-only
	// counts from each tip back to the merge base.
	FeatureToMergeBase  int
	UpstreamToMergeBase int
}

// Result is the full analysis: one report per upstream branch in input
// order, plus the upstream judged closest to the feature branch's origin.
type Result struct {
	FeatureBranch string
	Reports       []Report
	// MostRecentFork is the upstream with the smallest DistanceToForkPoint.
	// Ties go to the earlier branch in input order.
	MostRecentFork string
}

// Analyzer computes branch divergence via a read-only history backend.
type Analyzer struct {
	backend git.Backend
}

// NewAnalyzer creates an analyzer on top of the given backend.
func NewAnalyzer(backend git.Backend) *Analyzer {
	return &Analyzer{backend: backend}
}

// Analyze measures how feature relates to each upstream branch, in order,
// and selects the most likely parent. The current-branch marker (or an
// empty feature name) is resolved to the concrete branch name before
// validation, so duplicate detection and reporting use the real name.
// Any failing query aborts the whole run; there is no partial result.
func (a *Analyzer) Analyze(ctx context.Context, feature string, upstreams []string) (*Result, error) {
	if feature == "" || feature == git.CurrentBranchMarker {
		name, err := a.backend.CurrentBranch(ctx)
		if err != nil {
			return nil, err
		}
		feature = name
	}

	for _, upstream := range upstreams {
		if upstream == feature {
			return nil, &InvalidInputError{Branch: feature}
		}
	}
	if len(upstreams) == 0 {
		return nil, fmt.Errorf("no upstream branches given")
	}

	// Resolve every branch before measuring anything, so a bad name fails
	// the run up front.
	if _, err := a.backend.ResolveBranch(ctx, feature); err != nil {
		return nil, err
	}
	for _, upstream := range upstreams {
		if _, err := a.backend.ResolveBranch(ctx, upstream); err != nil {
			return nil, err
		}
	}

	reports := make([]Report, 0, len(upstreams))
	mostRecent := ""
	minDistance := 0

	for i, upstream := range upstreams {
		report, err := a.analyzeUpstream(ctx, feature, upstream)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)

		if i == 0 || report.DistanceToForkPoint < minDistance {
			minDistance = report.DistanceToForkPoint
			mostRecent = upstream
		}
	}

	return &Result{
		FeatureBranch:  feature,
		Reports:        reports,
		MostRecentFork: mostRecent,
	}, nil
}

func (a *Analyzer) analyzeUpstream(ctx context.Context, feature, upstream string) (*Report, error) {
	featureChain, err := a.backend.FirstParentAncestry(ctx, feature)
	if err != nil {
		return nil, err
	}
	upstreamChain, err := a.backend.FirstParentAncestry(ctx, upstream)
	if err != nil {
		return nil, err
	}

	forkPoint, ok := alignForkPoint(featureChain, upstreamChain)
	if !ok {
		return nil, &HistoryQueryError{
			Feature:  feature,
			Upstream: upstream,
			Reason:   "first-parent histories share no common ancestor",
		}
	}

	forkPointShort, err := a.backend.ShortHash(ctx, forkPoint)
	if err != nil {
		return nil, err
	}
	forkPointWhen, err := a.backend.CommitTime(ctx, forkPoint)
	if err != nil {
		return nil, err
	}
	sinceFork, err := a.backend.CountReachable(ctx, feature, forkPoint, false)
	if err != nil {
		return nil, err
	}

	mergeBase, err := a.backend.MergeBase(ctx, feature, upstream)
	if err != nil {
		return nil, &HistoryQueryError{
			Feature:  feature,
			Upstream: upstream,
			Reason:   "merge base computation failed",
			Err:      err,
		}
	}
	mergeBaseShort, err := a.backend.ShortHash(ctx, mergeBase)
	if err != nil {
		return nil, err
	}
	mergeBaseWhen, err := a.backend.CommitTime(ctx, mergeBase)
	if err != nil {
		return nil, err
	}
	featureAhead, err := a.backend.CountReachable(ctx, feature, mergeBase, true)
	if err != nil {
		return nil, err
	}
	upstreamAhead, err := a.backend.CountReachable(ctx, upstream, mergeBase, true)
	if err != nil {
		return nil, err
	}

	return &Report{
		Upstream:            upstream,
		ForkPoint:           forkPoint,
		ForkPointShort:      forkPointShort,
		ForkPointWhen:       forkPointWhen,
		DistanceToForkPoint: sinceFork,
		MergeBase:           mergeBase,
		MergeBaseShort:      mergeBaseShort,
		MergeBaseWhen:       mergeBaseWhen,
		FeatureToMergeBase:  featureAhead,
		UpstreamToMergeBase: upstreamAhead,
	}, nil
}
