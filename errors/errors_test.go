package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := &Error{
		Kind:    KindConfiguration,
		Message: "jira is not configured",
		Hint:    "set JIRA_API_TOKEN",
	}

	got := err.Error()
	for _, want := range []string{"ConfigurationError", "jira is not configured", "set JIRA_API_TOKEN"} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, want substring %q", got, want)
		}
	}
}

func TestError_MessageIncludesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Transport("jira request failed", cause)

	if got := err.Error(); !strings.Contains(got, "connection refused") {
		t.Errorf("Error() = %q, want cause included", got)
	}
	if !errors.Is(err, cause) {
		t.Error("expected error to unwrap to cause")
	}
}

func TestError_MinimalFields(t *testing.T) {
	err := NoChanges("nothing to commit")

	if got := err.Error(); got != "NoChangesError: nothing to commit" {
		t.Errorf("Error() = %q", got)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"direct", NotFound("issue KAN-1 not found"), KindNotFound},
		{"wrapped", fmt.Errorf("op: %w", Conflict("branch exists")), KindConflict},
		{"plain error", errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	if got := len(Kinds()); got != 10 {
		t.Fatalf("Kinds() returned %d kinds, want 10", got)
	}
	for _, k := range Kinds() {
		if k == KindTransport {
			continue
		}
		if IsRetryable(New(k, "x")) {
			t.Errorf("%s should not be retryable", k)
		}
	}

	if !IsRetryable(Transport("timeout", context.DeadlineExceeded)) {
		t.Error("TransportError should be retryable")
	}
}

func TestError_IsByKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", InvalidQuery("bad jql"))

	if !errors.Is(err, &Error{Kind: KindInvalidQuery}) {
		t.Error("expected errors.Is to match by kind")
	}
	if errors.Is(err, &Error{Kind: KindTransport}) {
		t.Error("expected errors.Is to reject other kinds")
	}
	if !Is(err, KindInvalidQuery) {
		t.Error("expected Is to match")
	}
}

func TestError_WithOpAndHint(t *testing.T) {
	base := Validation("issue_key is required")
	tagged := base.WithOp("get_issue").WithHint("use a key like KAN-42")

	if base.Op != "" || base.Hint != "" {
		t.Error("WithOp/WithHint must not mutate the receiver")
	}
	if tagged.Op != "get_issue" {
		t.Errorf("Op = %q", tagged.Op)
	}
	if !strings.Contains(tagged.Error(), "KAN-42") {
		t.Errorf("Error() = %q, want hint", tagged.Error())
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), true},
		{"refused", errors.New("dial tcp 127.0.0.1:1: connection refused"), true},
		{"tls", errors.New("x509: certificate signed by unknown authority"), true},
		{"other", errors.New("invalid character"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConnectionError(tt.err); got != tt.want {
				t.Errorf("IsConnectionError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsConnectionOutput(t *testing.T) {
	if !IsConnectionOutput("fatal: unable to access 'https://github.com/o/r.git/': Could not resolve host: github.com") {
		t.Error("expected resolve failure to be a connection error")
	}
	if IsConnectionOutput("! [rejected] HEAD -> main (non-fast-forward)") {
		t.Error("rejection is not a connection error")
	}
}

func TestIsAuthAndPermissionError(t *testing.T) {
	if !IsAuthError(errors.New("GET /user: 401 Bad credentials")) {
		t.Error("expected auth error")
	}
	if IsAuthError(errors.New("not found")) {
		t.Error("unexpected auth error")
	}
	if !IsPermissionError(errors.New("403 Forbidden")) {
		t.Error("expected permission error")
	}
}
