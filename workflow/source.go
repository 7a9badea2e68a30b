package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/randalmurphal/issueflow/config"
	deverrors "github.com/randalmurphal/issueflow/errors"
	"github.com/randalmurphal/issueflow/git"
	"github.com/randalmurphal/issueflow/jira"
	"github.com/randalmurphal/issueflow/notify"
	"github.com/randalmurphal/issueflow/pr"
)

// BranchOutput is the data of create_branch_for_issue.
type BranchOutput struct {
	IssueKey   string `json:"issue_key"`
	BranchName string `json:"branch_name"`
	Ref        string `json:"ref"`
	Base       string `json:"base"`
	SHA        string `json:"sha"`
	Repository string `json:"repository"`
	Message    string `json:"message"`
	NextStep   string `json:"next_step"`
}

// PullRequestOutput is the data of create_pull_request.
type PullRequestOutput struct {
	IssueKey   string `json:"issue_key"`
	BranchName string `json:"branch_name"`
	Base       string `json:"base"`
	PRNumber   int    `json:"pr_number"`
	PRURL      string `json:"pr_url"`
	Title      string `json:"title"`
	Draft      bool   `json:"draft"`
	Message    string `json:"message"`
	NextStep   string `json:"next_step"`
}

// MergeOutput is the data of merge_pull_request.
type MergeOutput struct {
	PRNumber    int            `json:"pr_number"`
	Title       string         `json:"title"`
	MergeMethod pr.MergeMethod `json:"merge_method"`
	CommitSHA   string         `json:"commit_sha"`
	ChecksState pr.CheckState  `json:"checks_state,omitempty"`
	ApprovedBy  []string       `json:"approved_by,omitempty"`
	Message     string         `json:"message"`
	NextStep    string         `json:"next_step"`
}

// CreateBranchForIssue creates refs/heads/<branch> on the source host at
// the tip of the default branch. Nothing changes locally.
func (o *Orchestrator) CreateBranchForIssue(ctx context.Context, p CreateBranchParams) Result {
	return o.run(ctx, ActionCreateBranch, func(ctx context.Context, c *call) (any, error) {
		if err := p.validate(); err != nil {
			return nil, err
		}
		host, err := o.host.Resolve(ctx)
		if err != nil {
			return nil, err
		}

		base := o.cfg.Git.DefaultBranch
		sha, err := host.Provider.BranchSHA(ctx, host.Repo, base)
		if errors.Is(err, pr.ErrBranchNotFound) {
			return nil, failf(deverrors.KindConfiguration, err, "default branch %q not found in %s", base, host.Repo).
				WithHint("set " + config.KeyGitDefaultBranch)
		}
		if err != nil {
			return nil, err
		}

		if err := host.Provider.CreateBranch(ctx, host.Repo, p.BranchName, sha); err != nil {
			if errors.Is(err, pr.ErrBranchExists) {
				return nil, failf(deverrors.KindConflict, err, "branch %s already exists in %s", p.BranchName, host.Repo)
			}
			return nil, err
		}
		c.logger.Info("branch created", "branch", p.BranchName, "sha", sha, "repo", host.Repo.String())

		out := &BranchOutput{
			IssueKey:   p.IssueKey,
			BranchName: p.BranchName,
			Ref:        "refs/heads/" + p.BranchName,
			Base:       base,
			SHA:        sha,
			Repository: host.Repo.String(),
			Message:    fmt.Sprintf("Branch %s created from %s", p.BranchName, base),
			NextStep:   nextStep(StageBranchCreated, p.BranchName),
		}
		o.emit(ctx, c, notify.NewEvent(notify.EventBranchCreated, c.action, out.Message).
			With("issue", p.IssueKey).
			With("branch", p.BranchName).
			With("repository", out.Repository))
		return out, nil
	})
}

// CreatePullRequest opens a pull request for an issue branch. A missing
// title is taken from the issue summary; a missing description is rendered
// from a template that links the issue.
func (o *Orchestrator) CreatePullRequest(ctx context.Context, p CreatePullRequestParams) Result {
	return o.run(ctx, ActionCreatePullRequest, func(ctx context.Context, c *call) (any, error) {
		if err := p.validate(); err != nil {
			return nil, err
		}
		host, err := o.host.Resolve(ctx)
		if err != nil {
			return nil, err
		}

		base := p.Base
		if base == "" {
			base = o.cfg.Git.DefaultBranch
		}
		builder := pr.NewBuilder(p.BranchName, base)

		// The tracker is only required to derive the title; the description
		// falls back to an unlinked template without it.
		tracker, trackerErr := o.tracker()
		if p.Title == "" {
			if trackerErr != nil {
				return nil, trackerErr
			}
			issue, err := tracker.GetIssue(ctx, p.IssueKey, jira.FieldSet{jira.FieldSummary})
			if err != nil {
				return nil, err
			}
			summary := ""
			if issue.Summary != nil {
				summary = *issue.Summary
			}
			builder.WithIssueTitle(p.IssueKey, summary)
		} else {
			builder.WithTitle(p.Title)
		}

		browseURL := ""
		if trackerErr == nil {
			browseURL = tracker.BrowseURL(p.IssueKey)
		}
		builder.WithIssueBody(p.IssueKey, browseURL, p.Description)
		if p.Draft {
			builder.AsDraft()
		}

		if _, err := host.Provider.BranchSHA(ctx, host.Repo, p.BranchName); err != nil {
			if errors.Is(err, pr.ErrBranchNotFound) {
				return nil, failf(deverrors.KindNotFound, err, "branch %s does not exist in %s", p.BranchName, host.Repo).
					WithHint("push it first with git_commit_and_push")
			}
			return nil, err
		}

		pull, err := host.Provider.CreatePR(ctx, host.Repo, builder.Build())
		if err != nil {
			switch {
			case errors.Is(err, pr.ErrExists):
				return nil, failf(deverrors.KindConflict, err, "an open pull request already exists for %s", p.BranchName)
			case errors.Is(err, pr.ErrNoChanges):
				return nil, failf(deverrors.KindConflict, err, "%s has no commits ahead of %s", p.BranchName, base)
			}
			return nil, err
		}
		c.logger.Info("pull request created", "number", pull.Number, "url", pull.URL)

		out := &PullRequestOutput{
			IssueKey:   p.IssueKey,
			BranchName: p.BranchName,
			Base:       base,
			PRNumber:   pull.Number,
			PRURL:      pull.URL,
			Title:      pull.Title,
			Draft:      pull.Draft,
			Message:    fmt.Sprintf("Pull request #%d created for %s", pull.Number, p.IssueKey),
			NextStep:   nextStep(StagePRCreated, fmt.Sprintf("#%d", pull.Number)),
		}
		o.emit(ctx, c, notify.NewEvent(notify.EventPRCreated, c.action, out.Message).
			With("issue", p.IssueKey).
			With("url", pull.URL).
			With("title", pull.Title))
		return out, nil
	})
}

// MergePullRequest merges a pull request. With status checks enabled it
// refuses to merge while checks fail or run, a reviewer requests changes,
// the branch conflicts, or the host has not computed mergeability.
func (o *Orchestrator) MergePullRequest(ctx context.Context, p MergePullRequestParams) Result {
	return o.run(ctx, ActionMergePullRequest, func(ctx context.Context, c *call) (any, error) {
		if err := p.validate(); err != nil {
			return nil, err
		}
		host, err := o.host.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		number := int(p.PRNumber)

		pull, err := host.Provider.GetPR(ctx, host.Repo, number)
		if err != nil {
			if errors.Is(err, pr.ErrNotFound) {
				return nil, failf(deverrors.KindNotFound, err, "pull request #%d not found in %s", number, host.Repo)
			}
			return nil, err
		}
		switch pull.State {
		case pr.StateMerged:
			return nil, failf(deverrors.KindConflict, pr.ErrMerged, "pull request #%d is already merged", number)
		case pr.StateClosed:
			return nil, failf(deverrors.KindConflict, pr.ErrClosed, "pull request #%d is closed", number)
		}

		out := &MergeOutput{
			PRNumber:    number,
			Title:       pull.Title,
			MergeMethod: p.method,
		}

		if p.checkStatus() {
			checks, err := host.Provider.CheckStatus(ctx, host.Repo, pull.HeadSHA)
			if err != nil {
				return nil, err
			}
			reviews, err := host.Provider.Reviews(ctx, host.Repo, number)
			if err != nil {
				return nil, err
			}
			if blocked := pr.Blocker(pull, checks, reviews); blocked != nil {
				return nil, deverrors.Wrap(deverrors.KindNotMergeable, blocked.Error(), blocked)
			}
			out.ChecksState = checks.State
			out.ApprovedBy = reviews.ApprovedBy
		}

		merged, err := host.Provider.MergePR(ctx, host.Repo, number, pr.MergeOptions{
			Method:        p.method,
			CommitTitle:   fmt.Sprintf("%s (#%d)", pull.Title, number),
			CommitMessage: pull.Body,
			SHA:           pull.HeadSHA,
		})
		if err != nil {
			switch {
			case errors.Is(err, pr.ErrHeadChanged):
				return nil, failf(deverrors.KindConflict, err, "pull request #%d head moved since it was checked; re-run to check the new head", number)
			case errors.Is(err, pr.ErrNotMergeable):
				return nil, failf(deverrors.KindNotMergeable, err, "%s refused to merge pull request #%d", host.Provider.Name(), number)
			}
			return nil, err
		}
		c.logger.Info("pull request merged", "number", number, "sha", merged.SHA, "method", p.method)

		out.CommitSHA = merged.SHA
		out.Message = fmt.Sprintf("Pull request #%d merged with %s", number, p.method)
		out.NextStep = nextStep(StageMerged, IssueKeyFromBranch(pull.Head))
		o.emit(ctx, c, notify.NewEvent(notify.EventPRMerged, c.action, out.Message).
			With("url", pull.URL).
			With("sha", merged.SHA).
			With("method", string(p.method)))
		return out, nil
	})
}

// IssueKeyFromBranch returns the issue key of a conventional issue branch
// such as feature/KAN-42, or "" for any other name.
func IssueKeyFromBranch(branch string) string {
	_, ident := git.ParseBranch(branch)
	if jira.ValidateIssueKey(ident) {
		return ident
	}
	return ""
}
