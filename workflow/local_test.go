package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	deverrors "github.com/randalmurphal/issueflow/errors"
	"github.com/randalmurphal/issueflow/git"
	"github.com/randalmurphal/issueflow/notify"
	"github.com/randalmurphal/issueflow/pr"
	"github.com/randalmurphal/issueflow/testutil"
)

func TestGitCommitAndPush(t *testing.T) {
	repo := testutil.SetupRepoWithOrigin(t)
	testutil.WriteFile(t, repo.Dir, "login.go", "package login\n")

	var checkedRemote string
	o, rec := newTestOrchestrator(t, newTracker(), &pr.MockProvider{},
		WithPushPreflight(func(remote string) error {
			checkedRemote = remote
			return nil
		}))

	res := o.GitCommitAndPush(testutil.TestContext(t), CommitAndPushParams{
		Message:   "KAN-42: add login",
		LocalPath: repo.Dir,
	})
	requireSuccess(t, res)

	out := res.Data.(*PushOutput)
	assert.Equal(t, "main", out.Branch)
	assert.Equal(t, []string{"login.go"}, out.Files)
	assert.Equal(t, testutil.HeadSHA(t, repo.Dir), out.Commit)
	assert.Equal(t, out.Commit, repo.RemoteBranchSHA(t, "main"))
	assert.Equal(t, repo.Origin, checkedRemote)
	assert.Equal(t, []notify.EventType{notify.EventChangesPushed}, rec.types())
}

func TestGitCommitAndPush_ExplicitBranch(t *testing.T) {
	repo := testutil.SetupRepoWithOrigin(t)
	testutil.WriteFile(t, repo.Dir, "fix.txt", "fixed\n")
	o, _ := newTestOrchestrator(t, newTracker(), &pr.MockProvider{})

	res := o.GitCommitAndPush(testutil.TestContext(t), CommitAndPushParams{
		Message:    "KAN-1: fix crash",
		LocalPath:  repo.Dir,
		BranchName: "bugfix/KAN-1",
	})
	requireSuccess(t, res)

	assert.Equal(t, testutil.HeadSHA(t, repo.Dir), repo.RemoteBranchSHA(t, "bugfix/KAN-1"))
}

func TestGitCommitAndPush_NoChanges(t *testing.T) {
	repo := testutil.SetupRepoWithOrigin(t)
	before := testutil.CommitCount(t, repo.Dir)
	remoteBefore := repo.RemoteBranchSHA(t, "main")
	o, _ := newTestOrchestrator(t, newTracker(), &pr.MockProvider{})

	res := o.GitCommitAndPush(testutil.TestContext(t), CommitAndPushParams{Message: "nothing", LocalPath: repo.Dir})
	requireFailure(t, res, deverrors.KindNoChanges)

	assert.Equal(t, before, testutil.CommitCount(t, repo.Dir))
	assert.Equal(t, remoteBefore, repo.RemoteBranchSHA(t, "main"))
}

func TestGitCommitAndPush_PushRejected(t *testing.T) {
	repo := testutil.SetupRepoWithOrigin(t)

	// Another clone moves origin/main ahead.
	other := filepath.Join(t.TempDir(), "other")
	testutil.Git(t, repo.Dir, "clone", "-q", repo.Origin, other)
	testutil.CommitFile(t, other, "theirs.txt", "theirs\n", "their change")
	testutil.Git(t, other, "push", "-q", "origin", "main")

	testutil.WriteFile(t, repo.Dir, "ours.txt", "ours\n")
	o, _ := newTestOrchestrator(t, newTracker(), &pr.MockProvider{})

	res := o.GitCommitAndPush(testutil.TestContext(t), CommitAndPushParams{Message: "our change", LocalPath: repo.Dir})
	requireFailure(t, res, deverrors.KindConflict)

	// The local commit exists and is named in the message.
	head := testutil.HeadSHA(t, repo.Dir)
	assert.Contains(t, res.Error, head[:12])
}

func TestGitCommitAndPush_NotARepo(t *testing.T) {
	testutil.RequireGit(t)
	o, _ := newTestOrchestrator(t, newTracker(), &pr.MockProvider{})

	res := o.GitCommitAndPush(testutil.TestContext(t), CommitAndPushParams{Message: "x", LocalPath: t.TempDir()})
	requireFailure(t, res, deverrors.KindValidation)
	assert.Contains(t, res.Error, "not a git work tree")
}

func TestGitCommitAndPush_DetachedHead(t *testing.T) {
	dir := t.TempDir()
	runner := git.NewSequentialMockRunner()
	runner.AddOutput(dir, nil)    // rev-parse --show-toplevel
	runner.AddOutput("HEAD", nil) // rev-parse --abbrev-ref HEAD

	o, _ := newTestOrchestrator(t, newTracker(), &pr.MockProvider{}, WithGitOptions(git.WithRunner(runner)))

	res := o.GitCommitAndPush(context.Background(), CommitAndPushParams{Message: "x", LocalPath: dir})
	requireFailure(t, res, deverrors.KindValidation)
	assert.Contains(t, res.Error, "detached")
	assert.False(t, runner.WasCalled("git", "add"))
}

func TestGitCommitAndPush_RemoteUnreachable(t *testing.T) {
	dir := t.TempDir()
	runner := git.NewSequentialMockRunner()
	runner.AddOutput(dir, nil)                                        // rev-parse --show-toplevel
	runner.AddOutput("", nil)                                         // add -A
	runner.AddOutput("a.go", nil)                                     // diff --cached --name-only
	runner.AddOutput("[main abc] x", nil)                             // commit
	runner.AddOutput("abcdef1234567890abcdef1234567890abcdef12", nil) // rev-parse HEAD
	runner.AddOutput("git@github.com:acme/shop.git", nil)             // remote get-url
	runner.AddOutput("ssh: Could not resolve host: github.com", errors.New("exit status 128"))

	preflightErr := errors.New("ssh-agent has no identities")
	o, _ := newTestOrchestrator(t, newTracker(), &pr.MockProvider{},
		WithGitOptions(git.WithRunner(runner)),
		WithPushPreflight(func(string) error { return preflightErr }))

	res := o.GitCommitAndPush(context.Background(), CommitAndPushParams{Message: "x", LocalPath: dir, BranchName: "feature/KAN-1"})
	requireFailure(t, res, deverrors.KindTransport)
	assert.True(t, res.Retryable())
	assert.Contains(t, res.Error, "abcdef123456")
	assert.True(t, runner.WasCalled("git", "push", "origin", "HEAD:refs/heads/feature/KAN-1"))
}
