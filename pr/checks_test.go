package pr

import (
	"errors"
	"strings"
	"testing"
)

func TestNewCheckStatus(t *testing.T) {
	tests := []struct {
		name   string
		checks []Check
		want   CheckState
	}{
		{"none", nil, CheckNone},
		{"all success", []Check{{"a", CheckSuccess}, {"b", CheckSuccess}}, CheckSuccess},
		{"pending wins over success", []Check{{"a", CheckSuccess}, {"b", CheckPending}}, CheckPending},
		{"failure wins", []Check{{"a", CheckPending}, {"b", CheckFailure}, {"c", CheckSuccess}}, CheckFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewCheckStatus(tt.checks).State; got != tt.want {
				t.Errorf("State = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckStatus_Named(t *testing.T) {
	cs := NewCheckStatus([]Check{
		{"lint", CheckFailure},
		{"build", CheckFailure},
		{"lint", CheckFailure},
		{"e2e", CheckPending},
	})
	if got := strings.Join(cs.Named(CheckFailure), ","); got != "build,lint" {
		t.Errorf("Named(failure) = %q", got)
	}
	if got := cs.Named(CheckSuccess); len(got) != 0 {
		t.Errorf("Named(success) = %v", got)
	}
}

func TestBlocker(t *testing.T) {
	clean := func() *PullRequest {
		return &PullRequest{Number: 42, Base: "main", MergeState: MergeStateMergeable}
	}

	tests := []struct {
		name    string
		pull    *PullRequest
		checks  *CheckStatus
		reviews *ReviewSummary
		want    string // substring of the reason; empty means not blocked
	}{
		{
			name:   "mergeable",
			pull:   clean(),
			checks: NewCheckStatus([]Check{{"build", CheckSuccess}}),
		},
		{
			name: "no checks and no reviews",
			pull: clean(),
		},
		{
			name:   "failing checks first",
			pull:   &PullRequest{Number: 42, Base: "main", Conflicts: true, MergeState: MergeStateBlocked},
			checks: NewCheckStatus([]Check{{"lint", CheckFailure}, {"build", CheckPending}}),
			reviews: &ReviewSummary{
				ChangesRequestedBy: []string{"alice"},
			},
			want: "failing checks: lint",
		},
		{
			name:    "pending before reviews",
			pull:    clean(),
			checks:  NewCheckStatus([]Check{{"build", CheckPending}}),
			reviews: &ReviewSummary{ChangesRequestedBy: []string{"alice"}},
			want:    "checks still pending: build",
		},
		{
			name:    "changes requested",
			pull:    clean(),
			reviews: &ReviewSummary{ApprovedBy: []string{"bob"}, ChangesRequestedBy: []string{"alice", "carol"}},
			want:    "changes requested by alice, carol",
		},
		{
			name: "conflicts",
			pull: &PullRequest{Number: 42, Base: "main", Conflicts: true, MergeState: MergeStateBlocked},
			want: "merge conflicts with main",
		},
		{
			name:   "blocked without conflicts",
			pull:   &PullRequest{Number: 42, Base: "main", MergeState: MergeStateBlocked},
			checks: NewCheckStatus([]Check{{"build", CheckSuccess}}),
			want:   "blocked by branch protection",
		},
		{
			name: "unknown mergeability",
			pull: &PullRequest{Number: 42, Base: "main", MergeState: MergeStateUnknown},
			want: "mergeability unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Blocker(tt.pull, tt.checks, tt.reviews)
			if tt.want == "" {
				if err != nil {
					t.Errorf("Blocker = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrNotMergeable) {
				t.Fatalf("err = %v, want ErrNotMergeable", err)
			}
			var blocked *BlockedError
			if !errors.As(err, &blocked) || blocked.Number != 42 {
				t.Fatalf("err = %#v, want *BlockedError for #42", err)
			}
			if !strings.Contains(blocked.Reason, tt.want) {
				t.Errorf("Reason = %q, want it to contain %q", blocked.Reason, tt.want)
			}
		})
	}
}

func TestAPIError(t *testing.T) {
	inner := errors.New("boom")
	err := &APIError{Provider: "github", Op: "get pull request", StatusCode: 503, Err: inner}

	if !errors.Is(err, inner) {
		t.Error("APIError should unwrap to its cause")
	}
	if got := err.Error(); got != "github: get pull request: 503 boom" {
		t.Errorf("Error() = %q", got)
	}
	if !err.IsTransient() || err.IsAuth() {
		t.Error("503 should be transient and not auth")
	}
}
