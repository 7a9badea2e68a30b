package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/randalmurphal/issueflow/auth"
	deverrors "github.com/randalmurphal/issueflow/errors"
	"github.com/randalmurphal/issueflow/git"
	devhttp "github.com/randalmurphal/issueflow/http"
	"github.com/randalmurphal/issueflow/jira"
	"github.com/randalmurphal/issueflow/pr"
)

// classify maps a lower-level failure onto an error kind. Errors that
// already carry a kind pass through unchanged.
func classify(err error) *deverrors.Error {
	if err == nil {
		return nil
	}

	var classified *deverrors.Error
	if errors.As(err, &classified) {
		return classified
	}

	wrap := func(kind deverrors.Kind) *deverrors.Error {
		return deverrors.Wrap(kind, err.Error(), err)
	}

	var transition *jira.TransitionNotFoundError
	var blocked *pr.BlockedError
	var prAPI *pr.APIError
	var httpAPI *devhttp.APIError

	switch {
	// Tracker
	case errors.As(err, &transition):
		return wrap(deverrors.KindInvalidTransition)
	case errors.Is(err, jira.ErrIssueNotFound):
		return wrap(deverrors.KindNotFound)
	case errors.Is(err, jira.ErrInvalidQuery):
		return wrap(deverrors.KindInvalidQuery)
	case errors.Is(err, jira.ErrIssueKeyInvalid), errors.Is(err, jira.ErrUnknownField):
		return wrap(deverrors.KindValidation)

	// Source host
	case errors.As(err, &blocked), errors.Is(err, pr.ErrNotMergeable):
		return wrap(deverrors.KindNotMergeable)
	case errors.Is(err, pr.ErrNotFound), errors.Is(err, pr.ErrBranchNotFound):
		return wrap(deverrors.KindNotFound)
	case errors.Is(err, pr.ErrBranchExists), errors.Is(err, pr.ErrExists),
		errors.Is(err, pr.ErrNoChanges), errors.Is(err, pr.ErrHeadChanged),
		errors.Is(err, pr.ErrClosed), errors.Is(err, pr.ErrMerged):
		return wrap(deverrors.KindConflict)
	case errors.Is(err, pr.ErrUnsupportedMethod):
		return wrap(deverrors.KindValidation)
	case errors.Is(err, pr.ErrInvalidRepoURL), errors.Is(err, pr.ErrMissingToken),
		errors.Is(err, pr.ErrUnknownProvider):
		return wrap(deverrors.KindConfiguration)

	// GitHub App credentials
	case errors.Is(err, auth.ErrInvalidPrivateKey), errors.Is(err, auth.ErrAppConfig),
		errors.Is(err, auth.ErrTokenExchange):
		return wrap(deverrors.KindConfiguration).WithHint("check the GitHub App id, installation id, and private key")

	// Local repository
	case errors.Is(err, git.ErrNothingToCommit):
		return wrap(deverrors.KindNoChanges)
	case errors.Is(err, git.ErrPushRejected):
		return wrap(deverrors.KindConflict)
	case errors.Is(err, git.ErrRemoteUnreachable):
		return wrap(deverrors.KindTransport)
	case errors.Is(err, git.ErrNotGitRepo), errors.Is(err, git.ErrDetachedHead),
		errors.Is(err, git.ErrInvalidBranchName), errors.Is(err, git.ErrInvalidBranchKind):
		return wrap(deverrors.KindValidation)

	// Remote API status
	case errors.As(err, &prAPI):
		return classifyStatus(err, prAPI.IsAuth(), prAPI.IsTransient())
	case errors.As(err, &httpAPI):
		return classifyStatus(err,
			devhttp.IsUnauthorized(err) || devhttp.IsForbidden(err),
			devhttp.IsRetryable(err))

	// Network
	case devhttp.IsTransport(err), errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled), deverrors.IsConnectionError(err):
		return wrap(deverrors.KindTransport)

	// Credential failures reported as text, mostly by the git CLI
	case deverrors.IsAuthError(err), deverrors.IsPermissionError(err):
		return wrap(deverrors.KindConfiguration).WithHint("check the credentials used for the remote")
	}

	return wrap(deverrors.KindInternal)
}

func classifyStatus(err error, auth, transient bool) *deverrors.Error {
	switch {
	case transient:
		return deverrors.Transport(err.Error(), err)
	case auth:
		return deverrors.Wrap(deverrors.KindConfiguration, err.Error(), err).
			WithHint("the remote rejected the credentials; check the configured token and its permissions")
	default:
		return deverrors.Wrap(deverrors.KindInternal, err.Error(), err)
	}
}

// failf builds a classified error whose message adds context to cause.
func failf(kind deverrors.Kind, cause error, format string, args ...any) *deverrors.Error {
	return deverrors.Wrap(kind, fmt.Sprintf(format, args...), cause)
}
