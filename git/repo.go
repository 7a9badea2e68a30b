package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	deverrors "github.com/randalmurphal/issueflow/errors"
)

// DefaultRemote is the remote pushed to when none is given.
const DefaultRemote = "origin"

// Repo operates on one local git work tree.
// It holds no mutable state and is safe for concurrent use, although git
// itself serializes writes through the index lock.
type Repo struct {
	root   string
	runner CommandRunner
	logger *slog.Logger
}

// Option configures Repo.
type Option func(*Repo)

// WithRunner sets a custom command runner for git operations.
// This is primarily used for testing to inject mock command execution.
func WithRunner(runner CommandRunner) Option {
	return func(r *Repo) {
		r.runner = runner
	}
}

// WithLogger sets the logger for git operations.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repo) {
		r.logger = logger
	}
}

// Open resolves path to the root of its git work tree.
// It fails with ErrNotGitRepo when path is missing or not inside a work tree.
func Open(ctx context.Context, path string, opts ...Option) (*Repo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	r := &Repo{
		root:   absPath,
		runner: NewExecRunner(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if info, statErr := os.Stat(absPath); statErr != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", absPath, ErrNotGitRepo)
	}

	top, topErr := r.runGit(ctx, "rev-parse", "--show-toplevel")
	if topErr != nil || top == "" {
		return nil, fmt.Errorf("%s: %w", absPath, ErrNotGitRepo)
	}
	r.root = top

	return r, nil
}

// Root returns the work tree root.
func (r *Repo) Root() string {
	return r.root
}

// CurrentBranch returns the checked-out branch name.
// A detached HEAD returns ErrDetachedHead.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	branch, err := r.runGit(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", &Error{Op: "get current branch", Cmd: "rev-parse", Err: err}
	}
	if branch == "HEAD" {
		return "", ErrDetachedHead
	}
	return branch, nil
}

// HeadCommit returns the current HEAD commit SHA.
func (r *Repo) HeadCommit(ctx context.Context) (string, error) {
	sha, err := r.runGit(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", &Error{Op: "get HEAD commit", Cmd: "rev-parse", Err: err}
	}
	return sha, nil
}

// StageAll stages all changes including deletions and untracked files.
func (r *Repo) StageAll(ctx context.Context) error {
	if out, err := r.runGit(ctx, "add", "-A"); err != nil {
		return &Error{Op: "stage all", Cmd: "add", Output: out, Err: err}
	}
	return nil
}

// StagedFiles lists the paths staged for the next commit.
func (r *Repo) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := r.runGit(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, &Error{Op: "list staged files", Cmd: "diff", Output: out, Err: err}
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// HasStagedChanges reports whether the index differs from HEAD.
func (r *Repo) HasStagedChanges(ctx context.Context) (bool, error) {
	files, err := r.StagedFiles(ctx)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// Commit records the staged changes and returns the new commit SHA.
// Returns ErrNothingToCommit if there are no staged changes.
func (r *Repo) Commit(ctx context.Context, message string) (string, error) {
	out, err := r.runGit(ctx, "commit", "-m", message)
	if err != nil {
		if strings.Contains(out, "nothing to commit") || strings.Contains(out, "no changes added to commit") {
			return "", ErrNothingToCommit
		}
		return "", &Error{Op: "commit", Cmd: "commit", Output: out, Err: err}
	}

	sha, shaErr := r.HeadCommit(ctx)
	if shaErr != nil {
		return "", shaErr
	}

	r.logger.Debug("git commit created", "sha", sha, "root", r.root)
	return sha, nil
}

// Push sends HEAD to refs/heads/<branch> on remote.
// A refused update wraps ErrPushRejected; a network failure wraps
// ErrRemoteUnreachable.
func (r *Repo) Push(ctx context.Context, remote, branch string) error {
	if remote == "" {
		remote = DefaultRemote
	}
	if err := ValidateBranchName(branch); err != nil {
		return err
	}

	refspec := "HEAD:refs/heads/" + branch
	out, err := r.runGit(ctx, "push", remote, refspec)
	if err != nil {
		return &Error{Op: "push", Cmd: "push", Output: out, Err: classifyPush(ctx, out, err)}
	}

	r.logger.Debug("git push complete", "remote", remote, "branch", branch)
	return nil
}

// RemoteURL returns the fetch URL of remote.
func (r *Repo) RemoteURL(ctx context.Context, remote string) (string, error) {
	if remote == "" {
		remote = DefaultRemote
	}
	url, err := r.runGit(ctx, "remote", "get-url", remote)
	if err != nil {
		return "", &Error{Op: "get remote URL", Cmd: "remote", Output: url, Err: err}
	}
	return url, nil
}

// runGit executes a git command in the work tree and returns its output.
func (r *Repo) runGit(ctx context.Context, args ...string) (string, error) {
	return r.runner.Run(ctx, r.root, "git", args...)
}

// pushRejectionMarkers appear in git's output when the remote refuses a ref
// update it received.
var pushRejectionMarkers = []string{
	"[rejected]",
	"[remote rejected]",
	"non-fast-forward",
	"fetch first",
	"hook declined",
	"protected branch",
	"failed to push some refs",
}

func classifyPush(ctx context.Context, output string, err error) error {
	lower := strings.ToLower(output)
	for _, marker := range pushRejectionMarkers {
		if strings.Contains(lower, marker) {
			return fmt.Errorf("%w: %w", ErrPushRejected, err)
		}
	}
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || deverrors.IsConnectionOutput(output) {
		return fmt.Errorf("%w: %w", ErrRemoteUnreachable, err)
	}
	return err
}
