package pr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// GitHubProvider implements Provider for GitHub repositories.
type GitHubProvider struct {
	client  *github.Client
	baseURL string
	timeout time.Duration
	logger  *slog.Logger
}

// GitHubOption configures a GitHubProvider.
type GitHubOption func(*GitHubProvider)

// WithGitHubBaseURL points the provider at a GitHub Enterprise API root
// (e.g. "https://ghe.example.com/api/v3/") or a test server.
func WithGitHubBaseURL(baseURL string) GitHubOption {
	return func(p *GitHubProvider) {
		p.baseURL = baseURL
	}
}

// WithGitHubTimeout bounds each API request.
func WithGitHubTimeout(timeout time.Duration) GitHubOption {
	return func(p *GitHubProvider) {
		p.timeout = timeout
	}
}

// WithGitHubLogger sets the logger.
func WithGitHubLogger(logger *slog.Logger) GitHubOption {
	return func(p *GitHubProvider) {
		p.logger = logger
	}
}

// NewGitHubProvider creates a GitHub provider authenticating with ts, which
// may be a static personal token or a GitHub App installation token source.
func NewGitHubProvider(ts oauth2.TokenSource, opts ...GitHubOption) (*GitHubProvider, error) {
	if ts == nil {
		return nil, ErrMissingToken
	}

	p := &GitHubProvider{
		timeout: 30 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = p.timeout
	p.client = github.NewClient(tc)

	if p.baseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(p.baseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse GitHub API URL: %w", err)
		}
		p.client.BaseURL = base
	}

	return p, nil
}

// NewGitHubProviderWithToken creates a GitHub provider from a personal
// access token.
func NewGitHubProviderWithToken(token string, opts ...GitHubOption) (*GitHubProvider, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	return NewGitHubProvider(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}), opts...)
}

// Name implements Provider.
func (p *GitHubProvider) Name() string { return "github" }

// BranchSHA returns the tip commit of branch.
func (p *GitHubProvider) BranchSHA(ctx context.Context, repo Repo, branch string) (string, error) {
	ref, resp, err := p.client.Git.GetRef(ctx, repo.Owner, repo.Name, "refs/heads/"+branch)
	if err != nil {
		if statusOf(resp) == http.StatusNotFound {
			return "", fmt.Errorf("%s: %w", branch, ErrBranchNotFound)
		}
		return "", p.wrap("get branch", resp, err)
	}
	return ref.GetObject().GetSHA(), nil
}

// CreateBranch creates refs/heads/<name> at sha.
func (p *GitHubProvider) CreateBranch(ctx context.Context, repo Repo, name, sha string) error {
	ref := &github.Reference{
		Ref:    github.String("refs/heads/" + name),
		Object: &github.GitObject{SHA: github.String(sha)},
	}

	_, resp, err := p.client.Git.CreateRef(ctx, repo.Owner, repo.Name, ref)
	if err != nil {
		if statusOf(resp) == http.StatusUnprocessableEntity && strings.Contains(githubMessage(err), "already exists") {
			return fmt.Errorf("%s: %w", name, ErrBranchExists)
		}
		return p.wrap("create branch", resp, err)
	}

	p.logger.Info("github branch created", "repo", repo.FullName(), "branch", name, "sha", sha)
	return nil
}

// CreatePR creates a new pull request.
func (p *GitHubProvider) CreatePR(ctx context.Context, repo Repo, opts Options) (*PullRequest, error) {
	newPR := &github.NewPullRequest{
		Title: github.String(opts.Title),
		Body:  github.String(opts.Body),
		Base:  github.String(opts.Base),
		Head:  github.String(opts.Head),
		Draft: github.Bool(opts.Draft),
	}

	pull, resp, err := p.client.PullRequests.Create(ctx, repo.Owner, repo.Name, newPR)
	if err != nil {
		if statusOf(resp) == http.StatusUnprocessableEntity {
			msg := githubMessage(err)
			if strings.Contains(msg, "A pull request already exists") {
				return nil, fmt.Errorf("%s: %w", opts.Head, ErrExists)
			}
			if strings.Contains(msg, "No commits between") {
				return nil, fmt.Errorf("%s...%s: %w", opts.Base, opts.Head, ErrNoChanges)
			}
		}
		return nil, p.wrap("create pull request", resp, err)
	}

	p.logger.Info("github pull request created", "repo", repo.FullName(), "number", pull.GetNumber())
	return prFromGitHub(pull), nil
}

// GetPR retrieves a pull request by number.
func (p *GitHubProvider) GetPR(ctx context.Context, repo Repo, number int) (*PullRequest, error) {
	pull, resp, err := p.client.PullRequests.Get(ctx, repo.Owner, repo.Name, number)
	if err != nil {
		if statusOf(resp) == http.StatusNotFound {
			return nil, fmt.Errorf("#%d: %w", number, ErrNotFound)
		}
		return nil, p.wrap("get pull request", resp, err)
	}
	return prFromGitHub(pull), nil
}

// CheckStatus aggregates commit statuses and check runs for sha, reading
// every page of both.
func (p *GitHubProvider) CheckStatus(ctx context.Context, repo Repo, sha string) (*CheckStatus, error) {
	var checks []Check

	statusOpts := &github.ListOptions{PerPage: 100}
	for {
		combined, resp, err := p.client.Repositories.GetCombinedStatus(ctx, repo.Owner, repo.Name, sha, statusOpts)
		if err != nil {
			return nil, p.wrap("get combined status", resp, err)
		}
		for _, s := range combined.Statuses {
			checks = append(checks, Check{Name: s.GetContext(), State: statusState(s.GetState())})
		}
		if resp.NextPage == 0 {
			break
		}
		statusOpts.Page = resp.NextPage
	}

	runOpts := &github.ListCheckRunsOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		runs, resp, err := p.client.Checks.ListCheckRunsForRef(ctx, repo.Owner, repo.Name, sha, runOpts)
		if err != nil {
			return nil, p.wrap("list check runs", resp, err)
		}
		for _, run := range runs.CheckRuns {
			checks = append(checks, Check{Name: run.GetName(), State: checkRunState(run.GetStatus(), run.GetConclusion())})
		}
		if resp.NextPage == 0 {
			break
		}
		runOpts.Page = resp.NextPage
	}

	return NewCheckStatus(checks), nil
}

// Reviews summarizes the latest decisive review of each reviewer.
func (p *GitHubProvider) Reviews(ctx context.Context, repo Repo, number int) (*ReviewSummary, error) {
	var reviews []*github.PullRequestReview
	opts := &github.ListOptions{PerPage: 100}
	for {
		page, resp, err := p.client.PullRequests.ListReviews(ctx, repo.Owner, repo.Name, number, opts)
		if err != nil {
			if statusOf(resp) == http.StatusNotFound {
				return nil, fmt.Errorf("#%d: %w", number, ErrNotFound)
			}
			return nil, p.wrap("list reviews", resp, err)
		}
		reviews = append(reviews, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	// Reviews arrive oldest first; later decisions replace earlier ones.
	latest := make(map[string]string)
	var order []string
	for _, r := range reviews {
		state := r.GetState()
		if state != "APPROVED" && state != "CHANGES_REQUESTED" && state != "DISMISSED" {
			continue
		}
		login := r.GetUser().GetLogin()
		if _, seen := latest[login]; !seen {
			order = append(order, login)
		}
		latest[login] = state
	}

	summary := &ReviewSummary{}
	for _, login := range order {
		switch latest[login] {
		case "APPROVED":
			summary.ApprovedBy = append(summary.ApprovedBy, login)
		case "CHANGES_REQUESTED":
			summary.ChangesRequestedBy = append(summary.ChangesRequestedBy, login)
		}
	}
	return summary, nil
}

// MergePR merges a pull request.
func (p *GitHubProvider) MergePR(ctx context.Context, repo Repo, number int, opts MergeOptions) (*MergeResult, error) {
	method := opts.Method
	if method == "" {
		method = DefaultMergeMethod
	}
	mergeOpts := &github.PullRequestOptions{
		CommitTitle: opts.CommitTitle,
		SHA:         opts.SHA,
		MergeMethod: string(method),
	}

	result, resp, err := p.client.PullRequests.Merge(ctx, repo.Owner, repo.Name, number, opts.CommitMessage, mergeOpts)
	if err != nil {
		switch statusOf(resp) {
		case http.StatusNotFound:
			return nil, fmt.Errorf("#%d: %w", number, ErrNotFound)
		case http.StatusMethodNotAllowed:
			return nil, fmt.Errorf("#%d: %w: %s", number, ErrNotMergeable, githubMessage(err))
		case http.StatusConflict:
			return nil, fmt.Errorf("#%d: %w: %s", number, ErrHeadChanged, githubMessage(err))
		}
		return nil, p.wrap("merge pull request", resp, err)
	}

	p.logger.Info("github pull request merged", "repo", repo.FullName(), "number", number, "method", method)
	return &MergeResult{SHA: result.GetSHA(), Message: result.GetMessage()}, nil
}

// wrap converts a go-github failure into an *APIError when the host answered,
// leaving transport errors untouched for connection classification.
func (p *GitHubProvider) wrap(op string, resp *github.Response, err error) error {
	status := statusOf(resp)
	if status == 0 {
		return fmt.Errorf("github: %s: %w", op, err)
	}

	// Rate limits answer 403; report them as 429 so callers retry.
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		status = http.StatusTooManyRequests
	}

	return &APIError{
		Provider:   "github",
		Op:         op,
		StatusCode: status,
		Message:    githubMessage(err),
		Err:        err,
	}
}

func statusOf(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

// githubMessage extracts the human-readable part of a GitHub error.
func githubMessage(err error) string {
	var ghErr *github.ErrorResponse
	if !errors.As(err, &ghErr) {
		return err.Error()
	}
	parts := []string{ghErr.Message}
	for _, e := range ghErr.Errors {
		if e.Message != "" {
			parts = append(parts, e.Message)
		}
	}
	return strings.Join(parts, ": ")
}

func statusState(state string) CheckState {
	switch state {
	case "success":
		return CheckSuccess
	case "failure", "error":
		return CheckFailure
	default:
		return CheckPending
	}
}

func checkRunState(status, conclusion string) CheckState {
	if status != "completed" {
		return CheckPending
	}
	switch conclusion {
	case "success", "neutral", "skipped":
		return CheckSuccess
	default:
		// failure, cancelled, timed_out, action_required, stale
		return CheckFailure
	}
}

// prFromGitHub converts a GitHub PR to our PullRequest type.
func prFromGitHub(pull *github.PullRequest) *PullRequest {
	result := &PullRequest{
		Number:  pull.GetNumber(),
		URL:     pull.GetHTMLURL(),
		Title:   pull.GetTitle(),
		Body:    pull.GetBody(),
		Draft:   pull.GetDraft(),
		Head:    pull.GetHead().GetRef(),
		HeadSHA: pull.GetHead().GetSHA(),
		Base:    pull.GetBase().GetRef(),
	}

	switch pull.GetState() {
	case "open":
		result.State = StateOpen
	case "closed":
		if pull.GetMerged() {
			result.State = StateMerged
		} else {
			result.State = StateClosed
		}
	}

	// mergeable is null while GitHub computes it in the background.
	switch {
	case pull.Mergeable == nil || pull.GetMergeableState() == "unknown":
		result.MergeState = MergeStateUnknown
	case pull.GetMergeableState() == "dirty":
		result.MergeState = MergeStateBlocked
		result.Conflicts = true
	case !pull.GetMergeable() || pull.GetMergeableState() == "blocked":
		result.MergeState = MergeStateBlocked
	default:
		result.MergeState = MergeStateMergeable
	}

	if pull.CreatedAt != nil {
		result.CreatedAt = pull.CreatedAt.Time
	}

	return result
}
