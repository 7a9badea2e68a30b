package workflow

import (
	"context"
	"errors"

	"github.com/randalmurphal/issueflow/auth/ssh"
	deverrors "github.com/randalmurphal/issueflow/errors"
	"github.com/randalmurphal/issueflow/git"
	"github.com/randalmurphal/issueflow/notify"
)

// PushOutput is the data of git_commit_and_push.
type PushOutput struct {
	Branch    string   `json:"branch"`
	Commit    string   `json:"commit"`
	Message   string   `json:"message"`
	LocalPath string   `json:"local_path"`
	Files     []string `json:"files"`
	NextStep  string   `json:"next_step"`
}

// GitCommitAndPush stages every change in the work tree, commits it, and
// pushes HEAD to the branch on origin. With nothing to stage it fails with
// NoChangesError before any commit is made.
func (o *Orchestrator) GitCommitAndPush(ctx context.Context, p CommitAndPushParams) Result {
	return o.run(ctx, ActionCommitAndPush, func(ctx context.Context, c *call) (any, error) {
		if err := p.validate(); err != nil {
			return nil, err
		}

		path := p.LocalPath
		if path == "" {
			path = o.cfg.Git.LocalPath
		}
		repo, err := o.openRepo(ctx, path)
		if err != nil {
			if errors.Is(err, git.ErrNotGitRepo) {
				return nil, failf(deverrors.KindValidation, err, "local_path %s is not a git work tree", path)
			}
			return nil, err
		}

		branch := p.BranchName
		if branch == "" {
			branch, err = repo.CurrentBranch(ctx)
			if errors.Is(err, git.ErrDetachedHead) {
				return nil, failf(deverrors.KindValidation, err, "HEAD is detached in %s; pass branch_name", repo.Root())
			}
			if err != nil {
				return nil, err
			}
		}

		if err := repo.StageAll(ctx); err != nil {
			return nil, err
		}
		files, err := repo.StagedFiles(ctx)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, failf(deverrors.KindNoChanges, git.ErrNothingToCommit, "nothing to commit in %s", repo.Root())
		}

		sha, err := repo.Commit(ctx, p.Message)
		if err != nil {
			return nil, err
		}
		c.logger.Info("commit created", "sha", sha, "files", len(files), "branch", branch)

		o.checkPushAuth(ctx, c, repo)

		if err := repo.Push(ctx, git.DefaultRemote, branch); err != nil {
			switch {
			case errors.Is(err, git.ErrPushRejected):
				return nil, failf(deverrors.KindConflict, err,
					"push to %s rejected; local commit %s now exists on %s", branch, shortSHA(sha), branch).
					WithHint("pull or rebase onto the remote branch, then push again")
			case errors.Is(err, git.ErrRemoteUnreachable):
				return nil, failf(deverrors.KindTransport, err,
					"push to %s failed; local commit %s now exists on %s", branch, shortSHA(sha), branch)
			}
			return nil, err
		}
		c.logger.Info("changes pushed", "branch", branch, "sha", sha)

		out := &PushOutput{
			Branch:    branch,
			Commit:    sha,
			Message:   p.Message,
			LocalPath: repo.Root(),
			Files:     files,
			NextStep:  nextStep(StagePushed, branch),
		}
		o.emit(ctx, c, notify.NewEvent(notify.EventChangesPushed, c.action, "Pushed "+shortSHA(sha)+" to "+branch).
			With("branch", branch).
			With("sha", sha).
			With("files", len(files)))
		return out, nil
	})
}

// checkPushAuth warns when an SSH push has no agent identity to offer.
// It never fails the call; the push reports the real outcome.
func (o *Orchestrator) checkPushAuth(ctx context.Context, c *call, repo LocalRepo) {
	remote, err := repo.RemoteURL(ctx, git.DefaultRemote)
	if err != nil {
		return
	}
	if err := o.preflight(remote); err != nil {
		c.logger.Warn("ssh push preflight failed", "remote", remote, "error", err)
	}
}

func sshPreflight(remoteURL string) error {
	_, err := ssh.Preflight(remoteURL)
	return err
}

func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
