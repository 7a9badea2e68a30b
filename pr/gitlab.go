package pr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/xanzy/go-gitlab"
)

// GitLabProvider implements Provider for GitLab projects. Merge requests
// are addressed by IID, which the rest of the package calls the number.
type GitLabProvider struct {
	client  *gitlab.Client
	baseURL string
	timeout time.Duration
	logger  *slog.Logger
}

// GitLabOption configures a GitLabProvider.
type GitLabOption func(*GitLabProvider)

// WithGitLabBaseURL points the provider at a self-hosted instance API root
// (e.g. "https://gitlab.example.com/api/v4").
func WithGitLabBaseURL(baseURL string) GitLabOption {
	return func(p *GitLabProvider) {
		p.baseURL = baseURL
	}
}

// WithGitLabTimeout bounds each API request.
func WithGitLabTimeout(timeout time.Duration) GitLabOption {
	return func(p *GitLabProvider) {
		p.timeout = timeout
	}
}

// WithGitLabLogger sets the logger.
func WithGitLabLogger(logger *slog.Logger) GitLabOption {
	return func(p *GitLabProvider) {
		p.logger = logger
	}
}

// NewGitLabProvider creates a GitLab provider from a personal access token.
func NewGitLabProvider(token string, opts ...GitLabOption) (*GitLabProvider, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	p := &GitLabProvider{
		timeout: 30 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	clientOpts := []gitlab.ClientOptionFunc{
		gitlab.WithHTTPClient(&http.Client{Timeout: p.timeout}),
		// Retries belong to the caller; transport failures surface as retryable.
		gitlab.WithCustomRetryMax(0),
	}
	if p.baseURL != "" {
		clientOpts = append(clientOpts, gitlab.WithBaseURL(p.baseURL))
	}

	client, err := gitlab.NewClient(token, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create GitLab client: %w", err)
	}
	p.client = client

	return p, nil
}

// Name implements Provider.
func (p *GitLabProvider) Name() string { return "gitlab" }

// BranchSHA returns the tip commit of branch.
func (p *GitLabProvider) BranchSHA(ctx context.Context, repo Repo, branch string) (string, error) {
	b, resp, err := p.client.Branches.GetBranch(repo.FullName(), branch, gitlab.WithContext(ctx))
	if err != nil {
		if gitlabStatus(resp) == http.StatusNotFound {
			return "", fmt.Errorf("%s: %w", branch, ErrBranchNotFound)
		}
		return "", p.wrap("get branch", resp, err)
	}
	if b.Commit == nil {
		return "", fmt.Errorf("%s: %w", branch, ErrBranchNotFound)
	}
	return b.Commit.ID, nil
}

// CreateBranch creates branch name at sha.
func (p *GitLabProvider) CreateBranch(ctx context.Context, repo Repo, name, sha string) error {
	_, resp, err := p.client.Branches.CreateBranch(repo.FullName(), &gitlab.CreateBranchOptions{
		Branch: gitlab.Ptr(name),
		Ref:    gitlab.Ptr(sha),
	}, gitlab.WithContext(ctx))
	if err != nil {
		if gitlabStatus(resp) == http.StatusBadRequest && strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("%s: %w", name, ErrBranchExists)
		}
		return p.wrap("create branch", resp, err)
	}

	p.logger.Info("gitlab branch created", "project", repo.FullName(), "branch", name, "sha", sha)
	return nil
}

// CreatePR opens a merge request. GitLab accepts merge requests without
// commits, so the branches are compared first.
func (p *GitLabProvider) CreatePR(ctx context.Context, repo Repo, opts Options) (*PullRequest, error) {
	cmp, resp, err := p.client.Repositories.Compare(repo.FullName(), &gitlab.CompareOptions{
		From: gitlab.Ptr(opts.Base),
		To:   gitlab.Ptr(opts.Head),
	}, gitlab.WithContext(ctx))
	if err != nil {
		if gitlabStatus(resp) == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", opts.Head, ErrBranchNotFound)
		}
		return nil, p.wrap("compare branches", resp, err)
	}
	if len(cmp.Commits) == 0 {
		return nil, fmt.Errorf("%s...%s: %w", opts.Base, opts.Head, ErrNoChanges)
	}

	title := opts.Title
	if opts.Draft {
		title = "Draft: " + title
	}

	mr, resp, err := p.client.MergeRequests.CreateMergeRequest(repo.FullName(), &gitlab.CreateMergeRequestOptions{
		Title:        gitlab.Ptr(title),
		Description:  gitlab.Ptr(opts.Body),
		SourceBranch: gitlab.Ptr(opts.Head),
		TargetBranch: gitlab.Ptr(opts.Base),
	}, gitlab.WithContext(ctx))
	if err != nil {
		if gitlabStatus(resp) == http.StatusConflict {
			return nil, fmt.Errorf("%s: %w", opts.Head, ErrExists)
		}
		return nil, p.wrap("create merge request", resp, err)
	}

	p.logger.Info("gitlab merge request created", "project", repo.FullName(), "iid", mr.IID)
	return prFromGitLab(mr), nil
}

// GetPR retrieves a merge request by IID.
func (p *GitLabProvider) GetPR(ctx context.Context, repo Repo, number int) (*PullRequest, error) {
	mr, err := p.getMR(ctx, repo, number)
	if err != nil {
		return nil, err
	}
	return prFromGitLab(mr), nil
}

func (p *GitLabProvider) getMR(ctx context.Context, repo Repo, number int) (*gitlab.MergeRequest, error) {
	mr, resp, err := p.client.MergeRequests.GetMergeRequest(repo.FullName(), number, nil, gitlab.WithContext(ctx))
	if err != nil {
		if gitlabStatus(resp) == http.StatusNotFound {
			return nil, fmt.Errorf("!%d: %w", number, ErrNotFound)
		}
		return nil, p.wrap("get merge request", resp, err)
	}
	return mr, nil
}

// CheckStatus aggregates the latest commit statuses (pipeline jobs and
// external statuses) for sha.
func (p *GitLabProvider) CheckStatus(ctx context.Context, repo Repo, sha string) (*CheckStatus, error) {
	opts := &gitlab.GetCommitStatusesOptions{ListOptions: gitlab.ListOptions{PerPage: 100}}

	checks := make([]Check, 0)
	for {
		statuses, resp, err := p.client.Commits.GetCommitStatuses(repo.FullName(), sha, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, p.wrap("get commit statuses", resp, err)
		}
		for _, s := range statuses {
			checks = append(checks, Check{Name: s.Name, State: gitlabCheckState(s.Status)})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return NewCheckStatus(checks), nil
}

// Reviews summarizes approvals. GitLab has no per-reviewer rejection, so
// reviewers who have not approved are reported as requesting changes when
// the merge request is blocked on requested changes.
func (p *GitLabProvider) Reviews(ctx context.Context, repo Repo, number int) (*ReviewSummary, error) {
	approvals, resp, err := p.client.MergeRequests.GetMergeRequestApprovals(repo.FullName(), number, gitlab.WithContext(ctx))
	if err != nil {
		if gitlabStatus(resp) == http.StatusNotFound {
			return nil, fmt.Errorf("!%d: %w", number, ErrNotFound)
		}
		return nil, p.wrap("get approvals", resp, err)
	}

	summary := &ReviewSummary{}
	approved := make(map[string]bool)
	for _, a := range approvals.ApprovedBy {
		if a == nil || a.User == nil {
			continue
		}
		approved[a.User.Username] = true
		summary.ApprovedBy = append(summary.ApprovedBy, a.User.Username)
	}

	mr, err := p.getMR(ctx, repo, number)
	if err != nil {
		return nil, err
	}
	if mr.DetailedMergeStatus == "requested_changes" {
		for _, r := range mr.Reviewers {
			if r != nil && !approved[r.Username] {
				summary.ChangesRequestedBy = append(summary.ChangesRequestedBy, r.Username)
			}
		}
		if len(summary.ChangesRequestedBy) == 0 {
			summary.ChangesRequestedBy = []string{"reviewer"}
		}
	}

	return summary, nil
}

// MergePR accepts a merge request. Rebase merges depend on the project's
// merge method setting and cannot be requested per merge.
func (p *GitLabProvider) MergePR(ctx context.Context, repo Repo, number int, opts MergeOptions) (*MergeResult, error) {
	method := opts.Method
	if method == "" {
		method = DefaultMergeMethod
	}

	accept := &gitlab.AcceptMergeRequestOptions{}
	if opts.SHA != "" {
		accept.SHA = gitlab.Ptr(opts.SHA)
	}

	message := mergeCommitMessage(opts)
	switch method {
	case MergeMethodSquash:
		accept.Squash = gitlab.Ptr(true)
		if message != "" {
			accept.SquashCommitMessage = gitlab.Ptr(message)
		}
	case MergeMethodMerge:
		if message != "" {
			accept.MergeCommitMessage = gitlab.Ptr(message)
		}
	default:
		return nil, fmt.Errorf("%w: %s on gitlab", ErrUnsupportedMethod, method)
	}

	mr, resp, err := p.client.MergeRequests.AcceptMergeRequest(repo.FullName(), number, accept, gitlab.WithContext(ctx))
	if err != nil {
		switch gitlabStatus(resp) {
		case http.StatusNotFound:
			return nil, fmt.Errorf("!%d: %w", number, ErrNotFound)
		case http.StatusMethodNotAllowed, http.StatusUnprocessableEntity:
			return nil, fmt.Errorf("!%d: %w: %s", number, ErrNotMergeable, gitlabMessage(err))
		case http.StatusNotAcceptable:
			return nil, fmt.Errorf("!%d: %w: merge conflicts", number, ErrNotMergeable)
		case http.StatusConflict:
			return nil, fmt.Errorf("!%d: %w: %s", number, ErrHeadChanged, gitlabMessage(err))
		}
		return nil, p.wrap("accept merge request", resp, err)
	}

	sha := mr.MergeCommitSHA
	if sha == "" {
		sha = mr.SquashCommitSHA
	}

	p.logger.Info("gitlab merge request merged", "project", repo.FullName(), "iid", number, "method", method)
	return &MergeResult{SHA: sha, Message: "Merge request merged"}, nil
}

func mergeCommitMessage(opts MergeOptions) string {
	switch {
	case opts.CommitTitle != "" && opts.CommitMessage != "":
		return opts.CommitTitle + "\n\n" + opts.CommitMessage
	case opts.CommitTitle != "":
		return opts.CommitTitle
	default:
		return opts.CommitMessage
	}
}

func (p *GitLabProvider) wrap(op string, resp *gitlab.Response, err error) error {
	status := gitlabStatus(resp)
	if status == 0 {
		return fmt.Errorf("gitlab: %s: %w", op, err)
	}
	return &APIError{
		Provider:   "gitlab",
		Op:         op,
		StatusCode: status,
		Message:    gitlabMessage(err),
		Err:        err,
	}
}

func gitlabStatus(resp *gitlab.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

func gitlabMessage(err error) string {
	var glErr *gitlab.ErrorResponse
	if errors.As(err, &glErr) && glErr.Message != "" {
		return glErr.Message
	}
	return err.Error()
}

func gitlabCheckState(status string) CheckState {
	switch status {
	case "success", "skipped", "manual":
		return CheckSuccess
	case "failed", "canceled":
		return CheckFailure
	default:
		// created, waiting_for_resource, preparing, pending, running, scheduled
		return CheckPending
	}
}

// prFromGitLab converts a GitLab MR to our PullRequest type.
func prFromGitLab(mr *gitlab.MergeRequest) *PullRequest {
	result := &PullRequest{
		Number:  mr.IID,
		URL:     mr.WebURL,
		Title:   mr.Title,
		Body:    mr.Description,
		Head:    mr.SourceBranch,
		Base:    mr.TargetBranch,
		HeadSHA: mr.SHA,
		Draft: mr.Draft || strings.HasPrefix(mr.Title, "Draft:") ||
			strings.HasPrefix(mr.Title, "WIP:"),
	}

	switch mr.State {
	case "opened":
		result.State = StateOpen
	case "merged":
		result.State = StateMerged
	case "closed", "locked":
		result.State = StateClosed
	}

	result.Conflicts = mr.HasConflicts
	switch mr.DetailedMergeStatus {
	case "mergeable":
		result.MergeState = MergeStateMergeable
	case "", "checking", "unchecked", "preparing", "approvals_syncing":
		result.MergeState = MergeStateUnknown
	default:
		result.MergeState = MergeStateBlocked
	}
	if result.Conflicts {
		result.MergeState = MergeStateBlocked
	}

	if mr.CreatedAt != nil {
		result.CreatedAt = *mr.CreatedAt
	}

	return result
}
