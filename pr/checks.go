package pr

import (
	"fmt"
	"slices"
	"strings"
)

// CheckState is the aggregated CI state of a commit.
type CheckState string

const (
	CheckPending CheckState = "pending"
	CheckSuccess CheckState = "success"
	CheckFailure CheckState = "failure"
	CheckNone    CheckState = "none" // no checks reported
)

// Check is one status or check run.
type Check struct {
	Name  string     `json:"name"`
	State CheckState `json:"state"`
}

// CheckStatus aggregates every check reported for a commit.
type CheckStatus struct {
	State  CheckState `json:"state"`
	Checks []Check    `json:"checks"`
}

// NewCheckStatus aggregates checks: any failure wins, then any pending,
// then success. No checks yields CheckNone.
func NewCheckStatus(checks []Check) *CheckStatus {
	cs := &CheckStatus{State: CheckNone, Checks: checks}
	for _, c := range checks {
		switch c.State {
		case CheckFailure:
			cs.State = CheckFailure
		case CheckPending:
			if cs.State != CheckFailure {
				cs.State = CheckPending
			}
		case CheckSuccess:
			if cs.State == CheckNone {
				cs.State = CheckSuccess
			}
		}
	}
	return cs
}

// Named returns the sorted, distinct names of checks in state.
func (cs *CheckStatus) Named(state CheckState) []string {
	var names []string
	for _, c := range cs.Checks {
		if c.State == state && !slices.Contains(names, c.Name) {
			names = append(names, c.Name)
		}
	}
	slices.Sort(names)
	return names
}

// ReviewSummary is the latest decision of each reviewer.
type ReviewSummary struct {
	ApprovedBy         []string `json:"approved_by"`
	ChangesRequestedBy []string `json:"changes_requested_by"`
}

// ChangesRequested reports whether any reviewer's latest review requests changes.
func (r *ReviewSummary) ChangesRequested() bool {
	return r != nil && len(r.ChangesRequestedBy) > 0
}

// Blocker returns why pull cannot merge, checking in order: failing checks,
// pending checks, requested changes, conflicts, host-side blocks (branch
// protection, missing approvals), unknown mergeability.
// It returns nil when nothing blocks.
func Blocker(pull *PullRequest, checks *CheckStatus, reviews *ReviewSummary) error {
	blocked := func(format string, args ...any) error {
		return &BlockedError{Number: pull.Number, Reason: fmt.Sprintf(format, args...)}
	}

	if checks != nil {
		if failing := checks.Named(CheckFailure); len(failing) > 0 {
			return blocked("failing checks: %s", strings.Join(failing, ", "))
		}
		if pending := checks.Named(CheckPending); len(pending) > 0 {
			return blocked("checks still pending: %s", strings.Join(pending, ", "))
		}
	}
	if reviews.ChangesRequested() {
		return blocked("changes requested by %s", strings.Join(reviews.ChangesRequestedBy, ", "))
	}
	if pull.Conflicts {
		return blocked("merge conflicts with %s", pull.Base)
	}
	if pull.MergeState == MergeStateBlocked {
		return blocked("blocked by branch protection or required reviews")
	}
	if pull.MergeState == MergeStateUnknown {
		return blocked("mergeability unknown, the host is still computing it; retry shortly")
	}
	return nil
}
