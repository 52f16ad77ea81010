package git

import (
	"context"
	"sort"
	"time"
)

// MockBackend is a test double backed by an in-memory commit graph.
// It lets tests describe a history as hash -> parents edges without building
// a real repository, while keeping the same query semantics as the real
// backends.
type MockBackend struct {
	// Tips maps branch names to tip hashes.
	Tips map[string]string
	// Parents maps a commit hash to its parent hashes, first parent first.
	Parents map[string][]string
	// Times maps a commit hash to its committer timestamp.
	Times map[string]time.Time
	// Current is the branch the current-branch marker resolves to.
	Current string

	// HistoryQueries counts ancestry, merge-base, and reachability queries.
	// Tests use it to assert that validation happens before any history
	// work.
	HistoryQueries int
}

func (m *MockBackend) CurrentBranch(_ context.Context) (string, error) {
	if m.Current == "" {
		return "", &BranchNotFoundError{Name: CurrentBranchMarker}
	}
	return m.Current, nil
}

func (m *MockBackend) ResolveBranch(_ context.Context, name string) (string, error) {
	if tip, ok := m.Tips[name]; ok {
		return tip, nil
	}
	if _, ok := m.Parents[name]; ok {
		return name, nil
	}
	return "", &BranchNotFoundError{Name: name}
}

func (m *MockBackend) FirstParentAncestry(ctx context.Context, name string) ([]string, error) {
	m.HistoryQueries++
	tip, err := m.ResolveBranch(ctx, name)
	if err != nil {
		return nil, err
	}
	var chain []string
	for hash := tip; hash != ""; {
		chain = append(chain, hash)
		parents := m.Parents[hash]
		if len(parents) == 0 {
			break
		}
		hash = parents[0]
	}
	return chain, nil
}

func (m *MockBackend) MergeBase(ctx context.Context, a, b string) (string, error) {
	m.HistoryQueries++
	setA, err := m.reachable(ctx, a)
	if err != nil {
		return "", err
	}
	setB, err := m.reachable(ctx, b)
	if err != nil {
		return "", err
	}

	var common []string
	for hash := range setA {
		if _, ok := setB[hash]; ok {
			common = append(common, hash)
		}
	}
	if len(common) == 0 {
		return "", ErrNoMergeBase
	}
	sort.Strings(common)

	// Best common ancestor: a common ancestor that is not an ancestor of
	// any other common ancestor.
	for _, candidate := range common {
		dominated := false
		for _, other := range common {
			if other == candidate {
				continue
			}
			ancestors, err := m.reachable(ctx, other)
			if err != nil {
				return "", err
			}
			if _, ok := ancestors[candidate]; ok {
				dominated = true
				break
			}
		}
		if !dominated {
			return candidate, nil
		}
	}
	return common[0], nil
}

func (m *MockBackend) CountReachable(ctx context.Context, include, exclude string, firstParentOnly bool) (int, error) {
	m.HistoryQueries++
	excluded, err := m.reachable(ctx, exclude)
	if err != nil {
		return 0, err
	}
	tip, err := m.ResolveBranch(ctx, include)
	if err != nil {
		return 0, err
	}

	if firstParentOnly {
		count := 0
		for hash := tip; hash != ""; {
			if _, ok := excluded[hash]; ok {
				break
			}
			count++
			parents := m.Parents[hash]
			if len(parents) == 0 {
				break
			}
			hash = parents[0]
		}
		return count, nil
	}

	seen := make(map[string]struct{})
	stack := []string{tip}
	count := 0
	for len(stack) > 0 {
		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[hash]; ok {
			continue
		}
		seen[hash] = struct{}{}
		if _, ok := excluded[hash]; ok {
			continue
		}
		count++
		stack = append(stack, m.Parents[hash]...)
	}
	return count, nil
}

func (m *MockBackend) CommitTime(ctx context.Context, rev string) (time.Time, error) {
	hash, err := m.ResolveBranch(ctx, rev)
	if err != nil {
		return time.Time{}, err
	}
	return m.Times[hash], nil
}

func (m *MockBackend) ShortHash(ctx context.Context, rev string) (string, error) {
	hash, err := m.ResolveBranch(ctx, rev)
	if err != nil {
		return "", err
	}
	if len(hash) > DefaultShortHashLength {
		return hash[:DefaultShortHashLength], nil
	}
	return hash, nil
}

func (m *MockBackend) Branches(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(m.Tips))
	for name := range m.Tips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockBackend) reachable(ctx context.Context, rev string) (map[string]struct{}, error) {
	tip, err := m.ResolveBranch(ctx, rev)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	stack := []string{tip}
	for len(stack) > 0 {
		hash := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := set[hash]; ok {
			continue
		}
		set[hash] = struct{}{}
		stack = append(stack, m.Parents[hash]...)
	}
	return set, nil
}
