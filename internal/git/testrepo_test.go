package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// fixtureRepo is a real on-disk repository with this shape:
//
//	c1 -- c2 -- m1 -- m2            (master)
//	 \      \          \
//	  \      f1 -- f2 -- f3         (topic, f3 merges master)
//	   q1                           (qa)
//
// HEAD is left on topic. The merge commit f3 keeps f2 as first parent, so
// first-parent and full reachability walks give different answers.
type fixtureRepo struct {
	dir    string
	hashes map[string]string
	times  map[string]time.Time
}

func newFixtureRepo(t *testing.T) *fixtureRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}

	f := &fixtureRepo{
		dir:    dir,
		hashes: make(map[string]string),
		times:  make(map[string]time.Time),
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seq := 0

	commit := func(label string, parents ...plumbing.Hash) plumbing.Hash {
		t.Helper()
		rel := label + ".txt"
		full := filepath.Join(dir, rel)
		if err := os.WriteFile(full, []byte("content for "+label+"\n"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := wt.Add(rel); err != nil {
			t.Fatalf("Add: %v", err)
		}

		when := base.Add(time.Duration(seq) * 24 * time.Hour)
		seq++
		sig := &object.Signature{Name: "Test", Email: "test@example.com", When: when}
		opts := &gogit.CommitOptions{Author: sig, Committer: sig}
		if len(parents) > 0 {
			opts.Parents = parents
		}
		hash, err := wt.Commit(label, opts)
		if err != nil {
			t.Fatalf("Commit %s: %v", label, err)
		}
		f.hashes[label] = hash.String()
		f.times[label] = when
		return hash
	}

	checkoutBranch := func(name string, create bool, at plumbing.Hash) {
		t.Helper()
		opts := &gogit.CheckoutOptions{
			Branch: plumbing.NewBranchReferenceName(name),
			Create: create,
		}
		if create && !at.IsZero() {
			opts.Hash = at
		}
		if err := wt.Checkout(opts); err != nil {
			t.Fatalf("Checkout %s: %v", name, err)
		}
	}

	c1 := commit("c1")
	commit("c2")

	checkoutBranch("topic", true, plumbing.ZeroHash)
	commit("f1")
	f2 := commit("f2")

	checkoutBranch("master", false, plumbing.ZeroHash)
	commit("m1")
	m2 := commit("m2")

	checkoutBranch("topic", false, plumbing.ZeroHash)
	commit("f3", f2, m2)

	checkoutBranch("qa", true, c1)
	commit("q1")

	checkoutBranch("topic", false, plumbing.ZeroHash)

	return f
}

func (f *fixtureRepo) hash(t *testing.T, label string) string {
	t.Helper()
	hash, ok := f.hashes[label]
	if !ok {
		t.Fatalf("fixture has no commit %q", label)
	}
	return hash
}
