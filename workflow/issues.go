package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/randalmurphal/issueflow/jira"
	"github.com/randalmurphal/issueflow/notify"
)

// SearchOutput is one page of search_issues or get_my_issues.
type SearchOutput struct {
	Count         int           `json:"count"`
	Issues        []*jira.Issue `json:"issues"`
	IsLast        bool          `json:"is_last"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

// TransitionOutput is the data of transition_issue.
type TransitionOutput struct {
	IssueKey     string `json:"issue_key"`
	Transition   string `json:"transition"`
	ToStatus     string `json:"to_status"`
	CommentAdded bool   `json:"comment_added"`
	Message      string `json:"message"`
}

// GetIssue fetches one issue with the requested fields.
func (o *Orchestrator) GetIssue(ctx context.Context, p GetIssueParams) Result {
	return o.run(ctx, ActionGetIssue, func(ctx context.Context, c *call) (any, error) {
		if err := p.validate(); err != nil {
			return nil, err
		}
		tracker, err := o.tracker()
		if err != nil {
			return nil, err
		}

		fields := p.fields
		if len(fields) == 0 {
			fields = jira.IssuePreset
		}
		return tracker.GetIssue(ctx, p.IssueKey, fields)
	})
}

// SearchIssues runs a JQL query and returns one page.
func (o *Orchestrator) SearchIssues(ctx context.Context, p SearchIssuesParams) Result {
	return o.run(ctx, ActionSearchIssues, func(ctx context.Context, c *call) (any, error) {
		if err := p.validate(); err != nil {
			return nil, err
		}
		tracker, err := o.tracker()
		if err != nil {
			return nil, err
		}
		return search(ctx, tracker, jira.SearchOptions{
			JQL:        p.Query,
			MaxResults: intOr(p.MaxResults, DefaultSearchResults),
			PageToken:  p.PageToken,
			Fields:     p.fields,
		})
	})
}

// GetMyIssues lists issues assigned to the authenticated user, highest
// priority first.
func (o *Orchestrator) GetMyIssues(ctx context.Context, p GetMyIssuesParams) Result {
	return o.run(ctx, ActionGetMyIssues, func(ctx context.Context, c *call) (any, error) {
		if err := p.validate(); err != nil {
			return nil, err
		}
		tracker, err := o.tracker()
		if err != nil {
			return nil, err
		}

		jql := jira.MyIssuesQuery(p.Status, p.IssueType)
		c.logger.Debug("my issues query", "jql", jql)
		return search(ctx, tracker, jira.SearchOptions{
			JQL:        jql,
			MaxResults: intOr(p.MaxResults, DefaultMyIssues),
			PageToken:  p.PageToken,
		})
	})
}

func search(ctx context.Context, tracker Tracker, opts jira.SearchOptions) (*SearchOutput, error) {
	if len(opts.Fields) == 0 {
		opts.Fields = jira.ListPreset
	}
	page, err := tracker.Search(ctx, opts)
	if err != nil {
		return nil, err
	}

	out := &SearchOutput{
		Count:  len(page.Issues),
		Issues: page.Issues,
		IsLast: page.IsLast,
	}
	if out.Issues == nil {
		out.Issues = []*jira.Issue{}
	}
	if !page.IsLast {
		out.NextPageToken = page.NextPageToken
	}
	return out, nil
}

// TransitionIssue moves an issue to the status named by ToStatus,
// attaching Comment in the same request.
func (o *Orchestrator) TransitionIssue(ctx context.Context, p TransitionIssueParams) Result {
	return o.run(ctx, ActionTransitionIssue, func(ctx context.Context, c *call) (any, error) {
		if err := p.validate(); err != nil {
			return nil, err
		}
		tracker, err := o.tracker()
		if err != nil {
			return nil, err
		}

		applied, err := tracker.TransitionTo(ctx, p.IssueKey, p.ToStatus, p.Comment)
		if err != nil {
			return nil, err
		}

		out := &TransitionOutput{
			IssueKey:     p.IssueKey,
			Transition:   applied.Name,
			ToStatus:     applied.TargetName(),
			CommentAdded: strings.TrimSpace(p.Comment) != "",
		}
		out.Message = fmt.Sprintf("%s moved to %s", p.IssueKey, out.ToStatus)

		o.emit(ctx, c, notify.NewEvent(notify.EventIssueTransitioned, c.action, out.Message).
			With("issue", p.IssueKey).
			With("status", out.ToStatus).
			With("url", tracker.BrowseURL(p.IssueKey)))
		return out, nil
	})
}
