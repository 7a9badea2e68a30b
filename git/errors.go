package git

import "errors"

// Git operation errors.
var (
	// ErrNotGitRepo indicates the path is not inside a git work tree.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrDetachedHead indicates HEAD does not point at a branch.
	ErrDetachedHead = errors.New("HEAD is detached")

	// ErrNothingToCommit indicates there are no staged changes to commit.
	ErrNothingToCommit = errors.New("nothing to commit")

	// ErrPushRejected indicates the remote refused the push
	// (non-fast-forward, protected branch, hook declined).
	ErrPushRejected = errors.New("push rejected by remote")

	// ErrRemoteUnreachable indicates the remote could not be contacted.
	ErrRemoteUnreachable = errors.New("remote unreachable")

	// ErrInvalidBranchName indicates a name that is not a valid ref name.
	ErrInvalidBranchName = errors.New("invalid branch name")

	// ErrInvalidBranchKind indicates an unsupported branch type prefix.
	ErrInvalidBranchKind = errors.New("branch type must be feature, bugfix, or hotfix")
)

// Error wraps a git command error with context.
type Error struct {
	Op     string // Operation that failed (e.g., "commit", "push")
	Cmd    string // Git command that was run
	Output string // Combined stdout/stderr output
	Err    error  // Underlying error
}

func (e *Error) Error() string {
	if e.Output != "" {
		return e.Op + ": " + e.Output
	}
	if e.Err == nil {
		return e.Op + ": failed"
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
