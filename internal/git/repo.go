package git

import (
	"context"
	"fmt"
	"sort"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repository is the go-git backed implementation of Backend.
type Repository struct {
	repo     *gogit.Repository
	shortLen int
}

// OpenRepository opens a repository using go-git, detecting .git in parent
// directories.
func OpenRepository(opts Options) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(opts.RepoPath, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, err
	}
	shortLen := opts.ShortHashLength
	if shortLen <= 0 {
		shortLen = DefaultShortHashLength
	}
	return &Repository{repo: repo, shortLen: shortLen}, nil
}

func (r *Repository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", &BranchNotFoundError{Name: CurrentBranchMarker}
	}
	if !head.Name().IsBranch() {
		// Detached HEAD has no branch name to report.
		return "", &BranchNotFoundError{Name: CurrentBranchMarker}
	}
	return head.Name().Short(), nil
}

func (r *Repository) ResolveBranch(_ context.Context, name string) (string, error) {
	if ref, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), true); err == nil {
		return ref.Hash().String(), nil
	}
	// Fall back to general revision resolution so raw hashes work too.
	hash, err := r.repo.ResolveRevision(plumbing.Revision(name))
	if err != nil {
		return "", &BranchNotFoundError{Name: name}
	}
	return hash.String(), nil
}

func (r *Repository) FirstParentAncestry(ctx context.Context, name string) ([]string, error) {
	commit, err := r.commitFor(ctx, name)
	if err != nil {
		return nil, err
	}

	var chain []string
	for {
		chain = append(chain, commit.Hash.String())
		if commit.NumParents() == 0 {
			return chain, nil
		}
		commit, err = commit.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("walk first parent of %s: %w", chain[len(chain)-1], err)
		}
	}
}

func (r *Repository) MergeBase(ctx context.Context, a, b string) (string, error) {
	commitA, err := r.commitFor(ctx, a)
	if err != nil {
		return "", err
	}
	commitB, err := r.commitFor(ctx, b)
	if err != nil {
		return "", err
	}

	bases, err := commitA.MergeBase(commitB)
	if err != nil {
		return "", fmt.Errorf("merge base of %s and %s: %w", a, b, err)
	}
	if len(bases) == 0 {
		return "", fmt.Errorf("%w between %s and %s", ErrNoMergeBase, a, b)
	}
	return bases[0].Hash.String(), nil
}

func (r *Repository) CountReachable(ctx context.Context, include, exclude string, firstParentOnly bool) (int, error) {
	excluded, err := r.reachableSet(ctx, exclude)
	if err != nil {
		return 0, err
	}
	tip, err := r.commitFor(ctx, include)
	if err != nil {
		return 0, err
	}

	if firstParentOnly {
		count := 0
		commit := tip
		for {
			if _, ok := excluded[commit.Hash]; ok {
				return count, nil
			}
			count++
			if commit.NumParents() == 0 {
				return count, nil
			}
			commit, err = commit.Parent(0)
			if err != nil {
				return 0, err
			}
		}
	}

	seen := make(map[plumbing.Hash]struct{})
	stack := []*object.Commit{tip}
	count := 0
	for len(stack) > 0 {
		commit := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[commit.Hash]; ok {
			continue
		}
		seen[commit.Hash] = struct{}{}
		if _, ok := excluded[commit.Hash]; ok {
			continue
		}
		count++
		for i := 0; i < commit.NumParents(); i++ {
			parent, err := commit.Parent(i)
			if err != nil {
				return 0, err
			}
			stack = append(stack, parent)
		}
	}
	return count, nil
}

func (r *Repository) CommitTime(ctx context.Context, rev string) (time.Time, error) {
	commit, err := r.commitFor(ctx, rev)
	if err != nil {
		return time.Time{}, err
	}
	return commit.Committer.When, nil
}

func (r *Repository) ShortHash(ctx context.Context, rev string) (string, error) {
	hash, err := r.ResolveBranch(ctx, rev)
	if err != nil {
		return "", err
	}
	if len(hash) < r.shortLen {
		return hash, nil
	}
	return hash[:r.shortLen], nil
}

func (r *Repository) Branches(_ context.Context) ([]string, error) {
	iter, err := r.repo.Branches()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (r *Repository) commitFor(ctx context.Context, rev string) (*object.Commit, error) {
	hash, err := r.ResolveBranch(ctx, rev)
	if err != nil {
		return nil, err
	}
	commit, err := r.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", hash, err)
	}
	return commit, nil
}

// reachableSet collects every commit reachable from rev, following all
// parents.
func (r *Repository) reachableSet(ctx context.Context, rev string) (map[plumbing.Hash]struct{}, error) {
	tip, err := r.commitFor(ctx, rev)
	if err != nil {
		return nil, err
	}

	set := make(map[plumbing.Hash]struct{})
	stack := []*object.Commit{tip}
	for len(stack) > 0 {
		commit := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := set[commit.Hash]; ok {
			continue
		}
		set[commit.Hash] = struct{}{}
		for i := 0; i < commit.NumParents(); i++ {
			parent, err := commit.Parent(i)
			if err != nil {
				return nil, err
			}
			stack = append(stack, parent)
		}
	}
	return set, nil
}
