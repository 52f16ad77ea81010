package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// CurrentBranchMarker is the symbolic name that denotes whatever branch is
// currently checked out. Callers may also pass an empty string with the same
// meaning.
const CurrentBranchMarker = "HEAD"

// DefaultShortHashLength is the abbreviation length used when Options does
// not specify one.
const DefaultShortHashLength = 7

// Engine selects the history query implementation.
type Engine string

const (
	EngineAuto  Engine = "auto"
	EngineGoGit Engine = "gogit"
	EngineCLI   Engine = "cli"
)

// ParseEngine parses an engine name from a flag or config value.
func ParseEngine(s string) (Engine, error) {
	switch s {
	case "", "auto":
		return EngineAuto, nil
	case "gogit", "go-git":
		return EngineGoGit, nil
	case "cli", "git":
		return EngineCLI, nil
	default:
		return "", fmt.Errorf("unknown engine %q (expected auto, gogit, or cli)", s)
	}
}

// Options configures how a repository backend is opened.
type Options struct {
	RepoPath        string
	Engine          Engine
	ShortHashLength int
}

// Backend exposes the read-only history queries the divergence analysis
// needs. All methods are idempotent; none mutate repository state.
type Backend interface {
	// CurrentBranch resolves the currently checked-out branch to its
	// concrete name. Returns BranchNotFoundError when HEAD is detached.
	CurrentBranch(ctx context.Context) (string, error)

	// ResolveBranch resolves a branch name (or any revision) to a full
	// commit hash. Returns BranchNotFoundError when it does not resolve.
	ResolveBranch(ctx context.Context, name string) (string, error)

	// FirstParentAncestry returns the first-parent chain of the given
	// revision as full commit hashes, ordered tip to root.
	FirstParentAncestry(ctx context.Context, name string) ([]string, error)

	// MergeBase returns the best common ancestor of two revisions.
	// Returns an error wrapping ErrNoMergeBase for disjoint histories.
	MergeBase(ctx context.Context, a, b string) (string, error)

	// CountReachable counts commits reachable from include but not from
	// exclude. With firstParentOnly set, only the first-parent chain of
	// include is walked; the exclusion side always uses full reachability.
	CountReachable(ctx context.Context, include, exclude string, firstParentOnly bool) (int, error)

	// CommitTime returns the committer timestamp of a revision.
	CommitTime(ctx context.Context, rev string) (time.Time, error)

	// ShortHash returns the abbreviated display form of a revision.
	ShortHash(ctx context.Context, rev string) (string, error)

	// Branches returns the local branch names, sorted.
	Branches(ctx context.Context) ([]string, error)
}

// ErrNoMergeBase indicates two revisions share no common ancestor.
var ErrNoMergeBase = errors.New("no merge base")

// BranchNotFoundError indicates a named branch could not be resolved to a
// commit.
type BranchNotFoundError struct {
	Name string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("branch not found: %s", e.Name)
}

// Open opens a repository backend. EngineAuto prefers the git binary when it
// is on PATH (faster on large histories) and falls back to go-git.
func Open(opts Options) (Backend, error) {
	if opts.RepoPath == "" {
		opts.RepoPath = "."
	}
	if opts.ShortHashLength <= 0 {
		opts.ShortHashLength = DefaultShortHashLength
	}

	switch opts.Engine {
	case EngineGoGit:
		return OpenRepository(opts)
	case EngineCLI:
		return OpenCLIBackend(opts)
	default:
		if _, err := exec.LookPath("git"); err == nil {
			return OpenCLIBackend(opts)
		}
		return OpenRepository(opts)
	}
}

// Compile-time interface conformance checks.
var (
	_ Backend = (*Repository)(nil)
	_ Backend = (*CLIBackend)(nil)
	_ Backend = (*MockBackend)(nil)
)
