package workflow

// =============================================================================
// Workflow Stages
// =============================================================================

// Stage is a step of the issue-to-merge lifecycle. Stages are advisory:
// they shape the next-step hints in results and never block an action
// that runs out of order.
type Stage string

const (
	StageCreated       Stage = "created"
	StageInProgress    Stage = "in_progress"
	StageBranchCreated Stage = "branch_created"
	StageCodeReady     Stage = "code_ready"
	StagePushed        Stage = "pushed"
	StagePRCreated     Stage = "pr_created"
	StageInReview      Stage = "in_review"
	StageApproved      Stage = "approved"
	StageMerged        Stage = "merged"
	StageDone          Stage = "done"
)

// stageOrder lists stages in lifecycle order.
var stageOrder = []Stage{
	StageCreated,
	StageInProgress,
	StageBranchCreated,
	StageCodeReady,
	StagePushed,
	StagePRCreated,
	StageInReview,
	StageApproved,
	StageMerged,
	StageDone,
}

// Stages returns every stage in lifecycle order.
func Stages() []Stage {
	return append([]Stage(nil), stageOrder...)
}

// Next returns the stage after s, or s itself at the end.
func (s Stage) Next() Stage {
	for i, st := range stageOrder {
		if st == s && i+1 < len(stageOrder) {
			return stageOrder[i+1]
		}
	}
	return s
}

// stageAfter maps each side-effecting action to the stage it reaches.
var stageAfter = map[string]Stage{
	ActionCreateBranch:      StageBranchCreated,
	ActionCommitAndPush:     StagePushed,
	ActionCreatePullRequest: StagePRCreated,
	ActionMergePullRequest:  StageMerged,
}

// StageAfter returns the stage an action leaves the workflow in.
func StageAfter(action string) (Stage, bool) {
	s, ok := stageAfter[action]
	return s, ok
}

// nextStep renders guidance for what to do after reaching s.
func nextStep(s Stage, subject string) string {
	switch s {
	case StageBranchCreated:
		return "git fetch origin && git checkout " + subject
	case StagePushed:
		return "open a pull request with create_pull_request for branch " + subject
	case StagePRCreated:
		return "wait for review and checks, then merge_pull_request " + subject
	case StageMerged:
		if subject == "" {
			return "move the issue to Done with transition_issue"
		}
		return "move " + subject + " to Done with transition_issue"
	default:
		return ""
	}
}
