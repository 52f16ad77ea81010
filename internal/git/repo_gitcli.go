package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CLIBackend implements Backend by driving the git binary. The command
// vocabulary matches what the analysis needs one-to-one: rev-parse,
// rev-list, merge-base, and for-each-ref.
type CLIBackend struct {
	repoPath string
	shortLen int
}

// OpenCLIBackend verifies the path is inside a git work tree and returns a
// CLI-backed backend.
func OpenCLIBackend(opts Options) (*CLIBackend, error) {
	shortLen := opts.ShortHashLength
	if shortLen <= 0 {
		shortLen = DefaultShortHashLength
	}
	b := &CLIBackend{repoPath: opts.RepoPath, shortLen: shortLen}
	if _, err := b.run(context.Background(), "rev-parse", "--git-dir"); err != nil {
		return nil, fmt.Errorf("open repository %s: %w", opts.RepoPath, err)
	}
	return b, nil
}

func (b *CLIBackend) CurrentBranch(ctx context.Context) (string, error) {
	out, err := b.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", &BranchNotFoundError{Name: CurrentBranchMarker}
	}
	// rev-parse echoes "HEAD" back when detached.
	if out == "HEAD" {
		return "", &BranchNotFoundError{Name: CurrentBranchMarker}
	}
	return out, nil
}

func (b *CLIBackend) ResolveBranch(ctx context.Context, name string) (string, error) {
	out, err := b.run(ctx, "rev-parse", "--verify", "--quiet", name+"^{commit}")
	if err != nil || out == "" {
		return "", &BranchNotFoundError{Name: name}
	}
	return out, nil
}

func (b *CLIBackend) FirstParentAncestry(ctx context.Context, name string) ([]string, error) {
	if _, err := b.ResolveBranch(ctx, name); err != nil {
		return nil, err
	}
	out, err := b.run(ctx, "rev-list", "--first-parent", name)
	if err != nil {
		return nil, err
	}
	return strings.Fields(out), nil
}

func (b *CLIBackend) MergeBase(ctx context.Context, a, c string) (string, error) {
	out, err := b.run(ctx, "merge-base", a, c)
	if err != nil {
		// Exit status 1 means the histories share no common ancestor.
		var exitErr *exitStatusError
		if errors.As(err, &exitErr) && exitErr.code == 1 {
			return "", fmt.Errorf("%w between %s and %s", ErrNoMergeBase, a, c)
		}
		return "", err
	}
	return out, nil
}

func (b *CLIBackend) CountReachable(ctx context.Context, include, exclude string, firstParentOnly bool) (int, error) {
	args := []string{"rev-list", "--count"}
	if firstParentOnly {
		args = append(args, "--first-parent")
	}
	args = append(args, include, "^"+exclude)

	out, err := b.run(ctx, args...)
	if err != nil {
		return 0, err
	}
	count, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("parse rev-list count %q: %w", out, err)
	}
	return count, nil
}

func (b *CLIBackend) CommitTime(ctx context.Context, rev string) (time.Time, error) {
	out, err := b.run(ctx, "log", "-1", "--format=%cI", rev)
	if err != nil {
		return time.Time{}, err
	}
	when, err := time.Parse(time.RFC3339, out)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse committer date %q: %w", out, err)
	}
	return when, nil
}

func (b *CLIBackend) ShortHash(ctx context.Context, rev string) (string, error) {
	out, err := b.run(ctx, "rev-parse", fmt.Sprintf("--short=%d", b.shortLen), rev)
	if err != nil {
		return "", &BranchNotFoundError{Name: rev}
	}
	return out, nil
}

func (b *CLIBackend) Branches(ctx context.Context) ([]string, error) {
	out, err := b.run(ctx, "for-each-ref", "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	sort.Strings(names)
	return names, nil
}

// exitStatusError preserves the git exit code alongside its stderr output.
type exitStatusError struct {
	code   int
	stderr string
	args   []string
}

func (e *exitStatusError) Error() string {
	if e.stderr != "" {
		return fmt.Sprintf("git %s failed: %s", strings.Join(e.args, " "), e.stderr)
	}
	return fmt.Sprintf("git %s failed with exit status %d", strings.Join(e.args, " "), e.code)
}

func (b *CLIBackend) run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"-C", b.repoPath}, args...)
	out, err := exec.CommandContext(ctx, "git", full...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &exitStatusError{
				code:   exitErr.ExitCode(),
				stderr: strings.TrimSpace(string(exitErr.Stderr)),
				args:   args,
			}
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}
