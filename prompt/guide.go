package prompt

import (
	"slices"
	"strings"

	deverrors "github.com/randalmurphal/issueflow/errors"
	"github.com/randalmurphal/issueflow/git"
	"github.com/randalmurphal/issueflow/workflow"
)

// Template names.
const (
	NameRules         = "workflow_rules"
	NameWorkflowGuide = "workflow_guide"
	stepPrefix        = "step_"
)

// StepStart is the entry step of the guide.
const StepStart = "start"

// Steps returns every step the guide knows: start followed by the
// workflow stages in lifecycle order.
func Steps() []string {
	steps := []string{StepStart}
	for _, s := range workflow.Stages() {
		steps = append(steps, string(s))
	}
	return steps
}

// Guide renders guidance for step. Unknown or empty steps fall back to
// the start step; issueKey may be empty.
func (l *Loader) Guide(step, issueKey string) (string, error) {
	step = strings.ToLower(strings.TrimSpace(step))
	if !slices.Contains(Steps(), step) {
		step = StepStart
	}

	issueKey = strings.TrimSpace(issueKey)
	vars := map[string]any{
		"Step":     step,
		"IssueKey": issueKey,
		"Branch":   "",
	}
	if issueKey != "" {
		vars["Branch"] = git.BranchName(git.DefaultBranchKind, issueKey)
	}
	return l.LoadWithVars(stepPrefix+step, vars)
}

// stageOrigin says how each stage is reached, for stages without an action.
var stageOrigin = map[workflow.Stage]string{
	workflow.StageCreated:    "issue created in To Do",
	workflow.StageInProgress: "`transition_issue(KEY, \"In Progress\")`",
	workflow.StageCodeReady:  "local edits on the branch",
	workflow.StageInReview:   "`transition_issue(KEY, \"In Review\")`",
	workflow.StageApproved:   "reviewer approval",
	workflow.StageDone:       "`transition_issue(KEY, \"Done\")`",
}

type stageRow struct {
	Name   string
	Action string
}

// WorkflowGuide renders the workflow overview document.
func (l *Loader) WorkflowGuide() (string, error) {
	byStage := make(map[workflow.Stage]string)
	for _, action := range []string{
		workflow.ActionCreateBranch,
		workflow.ActionCommitAndPush,
		workflow.ActionCreatePullRequest,
		workflow.ActionMergePullRequest,
	} {
		if s, ok := workflow.StageAfter(action); ok {
			byStage[s] = "`" + action + "`"
		}
	}

	var rows []stageRow
	for _, s := range workflow.Stages() {
		origin, ok := byStage[s]
		if !ok {
			origin = stageOrigin[s]
		}
		rows = append(rows, stageRow{Name: string(s), Action: origin})
	}

	var kinds []string
	for _, k := range deverrors.Kinds() {
		kinds = append(kinds, string(k))
	}

	return l.LoadWithVars(NameWorkflowGuide, map[string]any{
		"Stages": rows,
		"Kinds":  kinds,
	})
}
