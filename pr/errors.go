package pr

import (
	"errors"
	"fmt"
	"net/http"
)

// PR provider errors
var (
	// ErrUnknownProvider indicates the repository host is neither GitHub nor GitLab.
	ErrUnknownProvider = errors.New("unknown git provider")

	// ErrInvalidRepoURL indicates the repository URL has no owner/name path.
	ErrInvalidRepoURL = errors.New("invalid repository URL")

	// ErrMissingToken indicates no credentials were supplied.
	ErrMissingToken = errors.New("source host token is required")

	// ErrBranchNotFound indicates the branch does not exist on the remote.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrBranchExists indicates the branch already exists on the remote.
	ErrBranchExists = errors.New("branch already exists")

	// ErrExists indicates an open PR already exists for the branch.
	ErrExists = errors.New("pull request already exists for this branch")

	// ErrNoChanges indicates there are no commits between base and head.
	ErrNoChanges = errors.New("no commits between base and head")

	// ErrNotFound indicates the PR does not exist.
	ErrNotFound = errors.New("pull request not found")

	// ErrClosed indicates the PR is closed without being merged.
	ErrClosed = errors.New("pull request is closed")

	// ErrMerged indicates the PR is already merged.
	ErrMerged = errors.New("pull request is already merged")

	// ErrNotMergeable indicates the host refused to merge the PR in its
	// current state.
	ErrNotMergeable = errors.New("pull request is not mergeable")

	// ErrHeadChanged indicates the PR head moved after it was inspected.
	ErrHeadChanged = errors.New("pull request head changed since it was checked")

	// ErrUnsupportedMethod indicates the host cannot merge with the requested method.
	ErrUnsupportedMethod = errors.New("merge method not supported by this host")
)

// APIError is a non-2xx answer from the source host.
type APIError struct {
	Provider   string // "github" or "gitlab"
	Op         string // Operation (e.g., "create pull request")
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s: %s: %d %s", e.Provider, e.Op, e.StatusCode, msg)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsAuth reports whether the host rejected the credentials.
func (e *APIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsTransient reports whether the failure is worth retrying later.
func (e *APIError) IsTransient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// BlockedError explains why a PR cannot be merged yet.
type BlockedError struct {
	Number int
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("pull request #%d is not mergeable: %s", e.Number, e.Reason)
}

// Unwrap returns ErrNotMergeable.
func (e *BlockedError) Unwrap() error {
	return ErrNotMergeable
}
