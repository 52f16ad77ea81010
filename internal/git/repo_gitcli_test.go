package git

import (
	"context"
	"errors"
	"os/exec"
	"reflect"
	"testing"
)

func openFixtureCLIBackend(t *testing.T, f *fixtureRepo) *CLIBackend {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	backend, err := OpenCLIBackend(Options{RepoPath: f.dir})
	if err != nil {
		t.Fatalf("OpenCLIBackend: %v", err)
	}
	return backend
}

func TestCLIBackend_OpenRejectsNonRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	if _, err := OpenCLIBackend(Options{RepoPath: t.TempDir()}); err == nil {
		t.Fatalf("expected error opening a non-repository directory")
	}
}

func TestCLIBackend_CurrentBranch(t *testing.T) {
	f := newFixtureRepo(t)
	backend := openFixtureCLIBackend(t, f)

	name, err := backend.CurrentBranch(context.Background())
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if name != "topic" {
		t.Errorf("CurrentBranch = %q, want %q", name, "topic")
	}
}

func TestCLIBackend_ResolveBranch(t *testing.T) {
	f := newFixtureRepo(t)
	backend := openFixtureCLIBackend(t, f)
	ctx := context.Background()

	hash, err := backend.ResolveBranch(ctx, "qa")
	if err != nil {
		t.Fatalf("ResolveBranch: %v", err)
	}
	if hash != f.hash(t, "q1") {
		t.Errorf("ResolveBranch(qa) = %s, want %s", hash, f.hash(t, "q1"))
	}

	_, err = backend.ResolveBranch(ctx, "does-not-exist")
	var notFound *BranchNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected BranchNotFoundError, got %v", err)
	}
}

func TestCLIBackend_MergeBase(t *testing.T) {
	f := newFixtureRepo(t)
	backend := openFixtureCLIBackend(t, f)

	base, err := backend.MergeBase(context.Background(), "topic", "qa")
	if err != nil {
		t.Fatalf("MergeBase: %v", err)
	}
	if base != f.hash(t, "c1") {
		t.Errorf("MergeBase(topic, qa) = %s, want %s", base, f.hash(t, "c1"))
	}
}

// TestCLIBackend_MatchesGoGit pins both engines to the same answers on the
// same repository.
func TestCLIBackend_MatchesGoGit(t *testing.T) {
	f := newFixtureRepo(t)
	cli := openFixtureCLIBackend(t, f)
	gg := openFixtureRepository(t, f)
	ctx := context.Background()

	for _, branch := range []string{"topic", "master", "qa"} {
		cliChain, err := cli.FirstParentAncestry(ctx, branch)
		if err != nil {
			t.Fatalf("cli FirstParentAncestry(%s): %v", branch, err)
		}
		ggChain, err := gg.FirstParentAncestry(ctx, branch)
		if err != nil {
			t.Fatalf("gogit FirstParentAncestry(%s): %v", branch, err)
		}
		if !reflect.DeepEqual(cliChain, ggChain) {
			t.Errorf("FirstParentAncestry(%s): cli %v, gogit %v", branch, cliChain, ggChain)
		}
	}

	pairs := [][2]string{{"topic", "master"}, {"topic", "qa"}, {"master", "qa"}}
	for _, pair := range pairs {
		cliBase, err := cli.MergeBase(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatalf("cli MergeBase(%s, %s): %v", pair[0], pair[1], err)
		}
		ggBase, err := gg.MergeBase(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatalf("gogit MergeBase(%s, %s): %v", pair[0], pair[1], err)
		}
		if cliBase != ggBase {
			t.Errorf("MergeBase(%s, %s): cli %s, gogit %s", pair[0], pair[1], cliBase, ggBase)
		}

		for _, firstParentOnly := range []bool{false, true} {
			cliCount, err := cli.CountReachable(ctx, pair[0], pair[1], firstParentOnly)
			if err != nil {
				t.Fatalf("cli CountReachable(%s, %s, %v): %v", pair[0], pair[1], firstParentOnly, err)
			}
			ggCount, err := gg.CountReachable(ctx, pair[0], pair[1], firstParentOnly)
			if err != nil {
				t.Fatalf("gogit CountReachable(%s, %s, %v): %v", pair[0], pair[1], firstParentOnly, err)
			}
			if cliCount != ggCount {
				t.Errorf("CountReachable(%s, %s, %v): cli %d, gogit %d",
					pair[0], pair[1], firstParentOnly, cliCount, ggCount)
			}
		}
	}

	cliBranches, err := cli.Branches(ctx)
	if err != nil {
		t.Fatalf("cli Branches: %v", err)
	}
	ggBranches, err := gg.Branches(ctx)
	if err != nil {
		t.Fatalf("gogit Branches: %v", err)
	}
	if !reflect.DeepEqual(cliBranches, ggBranches) {
		t.Errorf("Branches: cli %v, gogit %v", cliBranches, ggBranches)
	}
}

func TestCLIBackend_CommitTime(t *testing.T) {
	f := newFixtureRepo(t)
	backend := openFixtureCLIBackend(t, f)

	when, err := backend.CommitTime(context.Background(), f.hash(t, "m1"))
	if err != nil {
		t.Fatalf("CommitTime: %v", err)
	}
	if when.Unix() != f.times["m1"].Unix() {
		t.Errorf("CommitTime(m1) = %v, want %v", when, f.times["m1"])
	}
}

func TestCLIBackend_ShortHash(t *testing.T) {
	f := newFixtureRepo(t)
	backend := openFixtureCLIBackend(t, f)

	short, err := backend.ShortHash(context.Background(), "master")
	if err != nil {
		t.Fatalf("ShortHash: %v", err)
	}
	full := f.hash(t, "m2")
	// git may lengthen the abbreviation to stay unambiguous, but it always
	// remains a prefix of the full hash.
	if len(short) < DefaultShortHashLength || full[:len(short)] != short {
		t.Errorf("ShortHash(master) = %q, not a prefix abbreviation of %s", short, full)
	}
}
