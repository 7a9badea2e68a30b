package tools

import (
	"context"
	"strings"

	"github.com/randalmurphal/issueflow/git"
	"github.com/randalmurphal/issueflow/jira"
	"github.com/randalmurphal/issueflow/pr"
	"github.com/randalmurphal/issueflow/workflow"
)

// Actions is the set of workflow operations exposed as tools.
// *workflow.Orchestrator implements it.
type Actions interface {
	GetIssue(ctx context.Context, p workflow.GetIssueParams) workflow.Result
	SearchIssues(ctx context.Context, p workflow.SearchIssuesParams) workflow.Result
	GetMyIssues(ctx context.Context, p workflow.GetMyIssuesParams) workflow.Result
	TransitionIssue(ctx context.Context, p workflow.TransitionIssueParams) workflow.Result
	CreateBranchForIssue(ctx context.Context, p workflow.CreateBranchParams) workflow.Result
	GitCommitAndPush(ctx context.Context, p workflow.CommitAndPushParams) workflow.Result
	CreatePullRequest(ctx context.Context, p workflow.CreatePullRequestParams) workflow.Result
	MergePullRequest(ctx context.Context, p workflow.MergePullRequestParams) workflow.Result
}

var _ Actions = (*workflow.Orchestrator)(nil)

// New returns a registry holding every workflow action.
func New(a Actions, opts ...Option) *Registry {
	r := NewRegistry(opts...)
	log := r.logger

	r.MustRegister(Tool{
		Name:        workflow.ActionGetIssue,
		Description: "Get a Jira issue by key.",
		ReadOnly:    true,
		Params: []Param{
			issueKeyParam,
			fieldsParam("issue", jira.IssuePreset),
		},
		Handler: Bind(log, workflow.ActionGetIssue, a.GetIssue),
	})

	r.MustRegister(Tool{
		Name:        workflow.ActionSearchIssues,
		Description: "Search Jira issues with JQL. Pass next_page_token back as page_token for the next page.",
		ReadOnly:    true,
		Params: []Param{
			{Name: "query", Type: TypeString, Required: true, Description: "JQL query, e.g. project = KAN AND status = \"To Do\""},
			maxResultsParam(workflow.DefaultSearchResults),
			pageTokenParam,
			fieldsParam("search", jira.ListPreset),
		},
		Handler: Bind(log, workflow.ActionSearchIssues, a.SearchIssues),
	})

	r.MustRegister(Tool{
		Name:        workflow.ActionGetMyIssues,
		Description: "List issues assigned to the current user, highest priority first.",
		ReadOnly:    true,
		Params: []Param{
			{Name: "status", Type: TypeString, Description: "Only issues in this status, e.g. In Progress"},
			{Name: "issue_type", Type: TypeString, Description: "Only issues of this type, e.g. Bug"},
			maxResultsParam(workflow.DefaultMyIssues),
			pageTokenParam,
		},
		Handler: Bind(log, workflow.ActionGetMyIssues, a.GetMyIssues),
	})

	r.MustRegister(Tool{
		Name:        workflow.ActionTransitionIssue,
		Description: "Move a Jira issue to another status, optionally adding a comment.",
		Params: []Param{
			issueKeyParam,
			{Name: "to_status", Type: TypeString, Required: true, Description: "Target status name, matched case-insensitively"},
			{Name: "comment", Type: TypeString, Description: "Comment added with the transition"},
		},
		Handler: Bind(log, workflow.ActionTransitionIssue, a.TransitionIssue),
	})

	r.MustRegister(Tool{
		Name:        workflow.ActionCreateBranch,
		Description: "Create a remote branch for an issue from the tip of the default branch.",
		Params: []Param{
			issueKeyParam,
			{Name: "branch_name", Type: TypeString, Description: "Explicit branch name; defaults to <branch_type>/<issue_key>"},
			{
				Name:        "branch_type",
				Type:        TypeString,
				Description: "Branch prefix",
				Enum:        branchKinds(),
				Default:     string(git.DefaultBranchKind),
			},
		},
		Handler: Bind(log, workflow.ActionCreateBranch, a.CreateBranchForIssue),
	})

	r.MustRegister(Tool{
		Name:        workflow.ActionCommitAndPush,
		Description: "Stage all changes in a local repository, commit them and push to origin.",
		Params: []Param{
			{Name: "message", Type: TypeString, Required: true, Description: "Commit message"},
			{Name: "local_path", Type: TypeString, Description: "Path inside the work tree; defaults to the configured path"},
			{Name: "branch_name", Type: TypeString, Description: "Remote branch to push to; defaults to the current branch"},
		},
		Handler: Bind(log, workflow.ActionCommitAndPush, a.GitCommitAndPush),
	})

	r.MustRegister(Tool{
		Name:        workflow.ActionCreatePullRequest,
		Description: "Open a pull request for an issue branch. Title and description default from the issue.",
		Params: []Param{
			issueKeyParam,
			{Name: "branch_name", Type: TypeString, Required: true, Description: "Head branch, which must already exist remotely"},
			{Name: "title", Type: TypeString, Description: "Defaults to \"<KEY>: <summary>\""},
			{Name: "description", Type: TypeString, Description: "Defaults to a template linking the issue"},
			{Name: "base", Type: TypeString, Description: "Target branch; defaults to the configured default branch"},
			{Name: "draft", Type: TypeBoolean, Description: "Open as a draft", Default: false},
		},
		Handler: Bind(log, workflow.ActionCreatePullRequest, a.CreatePullRequest),
	})

	r.MustRegister(Tool{
		Name:        workflow.ActionMergePullRequest,
		Description: "Merge a pull request, first checking CI status and reviews unless check_status is false.",
		Params: []Param{
			{Name: "pr_number", Type: TypeInteger, Required: true, Description: "Pull request number", Minimum: intp(1)},
			{
				Name:        "merge_method",
				Type:        TypeString,
				Description: "How to merge",
				Enum:        []string{string(pr.MergeMethodSquash), string(pr.MergeMethodMerge), string(pr.MergeMethodRebase)},
				Default:     string(pr.DefaultMergeMethod),
			},
			{Name: "check_status", Type: TypeBoolean, Description: "Refuse to merge unless checks pass and no changes are requested", Default: true},
		},
		Handler: Bind(log, workflow.ActionMergePullRequest, a.MergePullRequest),
	})

	return r
}

var issueKeyParam = Param{
	Name:        "issue_key",
	Type:        TypeString,
	Required:    true,
	Description: "Jira issue key, e.g. KAN-42",
}

var pageTokenParam = Param{
	Name:        "page_token",
	Type:        TypeString,
	Description: "next_page_token from the previous page",
}

func fieldsParam(what string, preset jira.FieldSet) Param {
	return Param{
		Name: "fields",
		Type: TypeString,
		Description: "Comma-separated fields (" + strings.Join(jira.KnownFields(), ", ") +
			"); the " + what + " default is " + preset.Param(),
	}
}

func maxResultsParam(def int) Param {
	return Param{
		Name:        "max_results",
		Type:        TypeInteger,
		Description: "Page size",
		Default:     def,
		Minimum:     intp(1),
		Maximum:     intp(jira.MaxSearchResults),
	}
}

func branchKinds() []string {
	kinds := git.BranchKinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func intp(n int) *int { return &n }
