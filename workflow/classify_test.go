package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/issueflow/auth"
	deverrors "github.com/randalmurphal/issueflow/errors"
	"github.com/randalmurphal/issueflow/git"
	devhttp "github.com/randalmurphal/issueflow/http"
	"github.com/randalmurphal/issueflow/jira"
	"github.com/randalmurphal/issueflow/pr"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want deverrors.Kind
	}{
		{"already classified", deverrors.NoChanges("clean"), deverrors.KindNoChanges},
		{"issue not found", fmt.Errorf("KAN-1: %w", jira.ErrIssueNotFound), deverrors.KindNotFound},
		{"invalid query", fmt.Errorf("%w: bad jql", jira.ErrInvalidQuery), deverrors.KindInvalidQuery},
		{"no transition", &jira.TransitionNotFoundError{Key: "KAN-1", Requested: "Done"}, deverrors.KindInvalidTransition},
		{"unknown field", jira.ErrUnknownField, deverrors.KindValidation},
		{"pr not found", pr.ErrNotFound, deverrors.KindNotFound},
		{"branch not found", pr.ErrBranchNotFound, deverrors.KindNotFound},
		{"branch exists", pr.ErrBranchExists, deverrors.KindConflict},
		{"pr exists", pr.ErrExists, deverrors.KindConflict},
		{"no commits between", pr.ErrNoChanges, deverrors.KindConflict},
		{"head changed", pr.ErrHeadChanged, deverrors.KindConflict},
		{"blocked", &pr.BlockedError{Number: 1, Reason: "checks still pending: ci"}, deverrors.KindNotMergeable},
		{"rebase unsupported", pr.ErrUnsupportedMethod, deverrors.KindValidation},
		{"bad repo url", pr.ErrInvalidRepoURL, deverrors.KindConfiguration},
		{"app key", auth.ErrInvalidPrivateKey, deverrors.KindConfiguration},
		{"token exchange", auth.ErrTokenExchange, deverrors.KindConfiguration},
		{"nothing to commit", git.ErrNothingToCommit, deverrors.KindNoChanges},
		{"push rejected", fmt.Errorf("push: %w", git.ErrPushRejected), deverrors.KindConflict},
		{"remote unreachable", git.ErrRemoteUnreachable, deverrors.KindTransport},
		{"not a repo", git.ErrNotGitRepo, deverrors.KindValidation},
		{"detached", git.ErrDetachedHead, deverrors.KindValidation},
		{"github 401", &pr.APIError{Provider: "github", StatusCode: http.StatusUnauthorized}, deverrors.KindConfiguration},
		{"github 502", &pr.APIError{Provider: "github", StatusCode: http.StatusBadGateway}, deverrors.KindTransport},
		{"github 422", &pr.APIError{Provider: "github", StatusCode: http.StatusUnprocessableEntity}, deverrors.KindInternal},
		{"jira 401", &devhttp.APIError{Service: "jira", StatusCode: http.StatusUnauthorized}, deverrors.KindConfiguration},
		{"jira 503", &devhttp.APIError{Service: "jira", StatusCode: http.StatusServiceUnavailable}, deverrors.KindTransport},
		{"jira 429", &devhttp.APIError{Service: "jira", StatusCode: http.StatusTooManyRequests}, deverrors.KindTransport},
		{"transport", &devhttp.TransportError{Service: "jira", Err: errors.New("connection refused")}, deverrors.KindTransport},
		{"deadline", context.DeadlineExceeded, deverrors.KindTransport},
		{"git auth", errors.New("git push: Permission denied (publickey)"), deverrors.KindConfiguration},
		{"unauthorized text", errors.New("remote: Unauthorized"), deverrors.KindConfiguration},
		{"unknown", errors.New("boom"), deverrors.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			assert.Equal(t, tt.want, got.Kind)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, classify(nil))
}

func TestClassify_AuthHint(t *testing.T) {
	got := classify(&pr.APIError{Provider: "github", StatusCode: http.StatusForbidden})
	assert.Contains(t, got.Error(), "check the configured token")
}
