package git

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/issueflow/testutil"
)

func openMock(t *testing.T, runner *SequentialMockRunner) *Repo {
	t.Helper()
	dir := t.TempDir()
	runner.AddOutput(dir, nil) // git rev-parse --show-toplevel

	repo, err := Open(context.Background(), dir, WithRunner(runner))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return repo
}

func TestOpen_NotARepo(t *testing.T) {
	t.Run("missing path", func(t *testing.T) {
		_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing"), WithRunner(NewSequentialMockRunner()))
		if !errors.Is(err, ErrNotGitRepo) {
			t.Errorf("got %v, want ErrNotGitRepo", err)
		}
	})

	t.Run("not a work tree", func(t *testing.T) {
		runner := NewSequentialMockRunner()
		runner.AddFailure("fatal: not a git repository (or any of the parent directories): .git")

		_, err := Open(context.Background(), t.TempDir(), WithRunner(runner))
		if !errors.Is(err, ErrNotGitRepo) {
			t.Errorf("got %v, want ErrNotGitRepo", err)
		}
	})
}

func TestRepo_CurrentBranch(t *testing.T) {
	runner := NewSequentialMockRunner()
	repo := openMock(t, runner)
	runner.AddOutput("feature/KAN-1", nil)
	runner.AddOutput("HEAD", nil)

	ctx := context.Background()
	branch, err := repo.CurrentBranch(ctx)
	if err != nil || branch != "feature/KAN-1" {
		t.Errorf("CurrentBranch() = %q, %v", branch, err)
	}

	if _, err := repo.CurrentBranch(ctx); !errors.Is(err, ErrDetachedHead) {
		t.Errorf("detached: got %v, want ErrDetachedHead", err)
	}
}

func TestRepo_HasStagedChanges(t *testing.T) {
	runner := NewSequentialMockRunner()
	repo := openMock(t, runner)
	runner.AddOutput("a.go\nb.go", nil)
	runner.AddOutput("", nil)

	ctx := context.Background()
	if staged, err := repo.HasStagedChanges(ctx); err != nil || !staged {
		t.Errorf("HasStagedChanges() = %v, %v; want true", staged, err)
	}
	if staged, err := repo.HasStagedChanges(ctx); err != nil || staged {
		t.Errorf("HasStagedChanges() = %v, %v; want false", staged, err)
	}
}

func TestRepo_Commit(t *testing.T) {
	runner := NewSequentialMockRunner()
	repo := openMock(t, runner)
	runner.AddOutput("[main abc123] msg", nil) // git commit -m
	runner.AddOutput("abc123def456", nil)      // git rev-parse HEAD

	sha, err := repo.Commit(context.Background(), "KAN-1: msg")
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if sha != "abc123def456" {
		t.Errorf("sha = %q", sha)
	}
	if !runner.WasCalled("git", "commit", "-m", "KAN-1: msg") {
		t.Errorf("commands = %v", runner.Commands())
	}
}

func TestRepo_CommitNothing(t *testing.T) {
	runner := NewSequentialMockRunner()
	repo := openMock(t, runner)
	runner.AddFailure("On branch main\nnothing to commit, working tree clean")

	_, err := repo.Commit(context.Background(), "msg")
	if !errors.Is(err, ErrNothingToCommit) {
		t.Errorf("got %v, want ErrNothingToCommit", err)
	}
}

func TestRepo_Push(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		fail    bool
		wantErr error
	}{
		{name: "success", output: "To github.com:o/r.git\n * [new branch] HEAD -> feature/KAN-1"},
		{
			name:    "non fast forward",
			output:  " ! [rejected]        HEAD -> feature/KAN-1 (non-fast-forward)\nerror: failed to push some refs",
			fail:    true,
			wantErr: ErrPushRejected,
		},
		{
			name:    "hook declined",
			output:  " ! [remote rejected] HEAD -> main (pre-receive hook declined)",
			fail:    true,
			wantErr: ErrPushRejected,
		},
		{
			name:    "network",
			output:  "fatal: unable to access 'https://github.com/o/r.git/': Could not resolve host: github.com",
			fail:    true,
			wantErr: ErrRemoteUnreachable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewSequentialMockRunner()
			repo := openMock(t, runner)
			if tt.fail {
				runner.AddFailure(tt.output)
			} else {
				runner.AddOutput(tt.output, nil)
			}

			err := repo.Push(context.Background(), "", "feature/KAN-1")
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Push() error = %v", err)
				}
				if !runner.WasCalled("git", "push", "origin", "HEAD:refs/heads/feature/KAN-1") {
					t.Errorf("commands = %v", runner.Commands())
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRepo_PushInvalidBranch(t *testing.T) {
	runner := NewSequentialMockRunner()
	repo := openMock(t, runner)

	err := repo.Push(context.Background(), "origin", "bad name")
	if !errors.Is(err, ErrInvalidBranchName) {
		t.Errorf("got %v, want ErrInvalidBranchName", err)
	}
	if len(runner.Calls) != 1 {
		t.Errorf("no push expected, commands = %v", runner.Commands())
	}
}

// End-to-end against a real repository with a bare origin.

func TestRepo_CommitAndPushReal(t *testing.T) {
	fixture := testutil.SetupRepoWithOrigin(t)
	ctx := testutil.TestContext(t)

	repo, err := Open(ctx, fixture.Dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := repo.StageAll(ctx); err != nil {
		t.Fatalf("StageAll() error = %v", err)
	}
	if staged, _ := repo.HasStagedChanges(ctx); staged {
		t.Fatal("clean tree should have nothing staged")
	}

	testutil.WriteFile(t, fixture.Dir, "auth/oauth.go", "package auth\n")
	if err := repo.StageAll(ctx); err != nil {
		t.Fatalf("StageAll() error = %v", err)
	}
	files, err := repo.StagedFiles(ctx)
	if err != nil || len(files) != 1 || files[0] != "auth/oauth.go" {
		t.Fatalf("StagedFiles() = %v, %v", files, err)
	}

	sha, err := repo.Commit(ctx, "KAN-42: add oauth")
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if err := repo.Push(ctx, "origin", "feature/KAN-42"); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if got := fixture.RemoteBranchSHA(t, "feature/KAN-42"); got != sha {
		t.Errorf("remote tip = %q, want %q", got, sha)
	}

	branch, err := repo.CurrentBranch(ctx)
	if err != nil || branch != "main" {
		t.Errorf("CurrentBranch() = %q, %v", branch, err)
	}
}

func TestRepo_PushRejectedReal(t *testing.T) {
	fixture := testutil.SetupRepoWithOrigin(t)
	ctx := testutil.TestContext(t)

	// Advance origin/main from a second clone so the local push is behind.
	other := t.TempDir()
	testutil.Git(t, other, "clone", "-q", fixture.Origin, ".")
	testutil.Git(t, other, "config", "user.email", "test@test.com")
	testutil.Git(t, other, "config", "user.name", "Test User")
	testutil.CommitFile(t, other, "upstream.txt", "x", "upstream change")
	testutil.Git(t, other, "push", "-q", "origin", "main")

	testutil.CommitFile(t, fixture.Dir, "local.txt", "y", "local change")

	repo, err := Open(ctx, fixture.Dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	err = repo.Push(ctx, "origin", "main")
	if !errors.Is(err, ErrPushRejected) {
		t.Errorf("got %v, want ErrPushRejected", err)
	}
}

func TestOpen_RealNonRepo(t *testing.T) {
	testutil.RequireGit(t)
	_, err := Open(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNotGitRepo) {
		t.Errorf("got %v, want ErrNotGitRepo", err)
	}
}
