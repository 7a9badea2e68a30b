package pr

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// State represents the lifecycle state of a pull request.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
	StateMerged State = "merged"
)

// MergeState is the host's view of whether a PR can merge.
type MergeState string

const (
	MergeStateMergeable MergeState = "mergeable"
	MergeStateBlocked   MergeState = "blocked"
	MergeStateUnknown   MergeState = "unknown" // host still computing
)

// MergeMethod specifies how to merge a pull request.
type MergeMethod string

const (
	MergeMethodMerge  MergeMethod = "merge"
	MergeMethodSquash MergeMethod = "squash"
	MergeMethodRebase MergeMethod = "rebase"
)

// DefaultMergeMethod is used when no method is given.
const DefaultMergeMethod = MergeMethodSquash

// ParseMergeMethod parses s, defaulting to squash when empty.
func ParseMergeMethod(s string) (MergeMethod, error) {
	switch m := MergeMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return DefaultMergeMethod, nil
	case MergeMethodMerge, MergeMethodSquash, MergeMethodRebase:
		return m, nil
	default:
		return "", fmt.Errorf("merge method must be squash, merge, or rebase, got %q", s)
	}
}

// Provider is the source-host surface the workflow needs.
// Implementations exist for GitHub and GitLab. Every method takes the
// repository explicitly so identity is resolved before any network call.
type Provider interface {
	// Name returns "github" or "gitlab".
	Name() string

	// BranchSHA returns the tip commit of branch, or ErrBranchNotFound.
	BranchSHA(ctx context.Context, repo Repo, branch string) (string, error)

	// CreateBranch creates refs/heads/<name> at sha, or returns ErrBranchExists.
	CreateBranch(ctx context.Context, repo Repo, name, sha string) error

	// CreatePR opens a pull request, or returns ErrExists / ErrNoChanges.
	CreatePR(ctx context.Context, repo Repo, opts Options) (*PullRequest, error)

	// GetPR retrieves a pull request by number, or returns ErrNotFound.
	GetPR(ctx context.Context, repo Repo, number int) (*PullRequest, error)

	// CheckStatus aggregates CI results for a commit.
	CheckStatus(ctx context.Context, repo Repo, sha string) (*CheckStatus, error)

	// Reviews summarizes review decisions on a pull request.
	Reviews(ctx context.Context, repo Repo, number int) (*ReviewSummary, error)

	// MergePR merges a pull request. A host refusal returns ErrNotMergeable;
	// a moved head returns ErrHeadChanged.
	MergePR(ctx context.Context, repo Repo, number int, opts MergeOptions) (*MergeResult, error)
}

// Options configures pull request creation.
type Options struct {
	Title string // PR title (required)
	Body  string // PR description (markdown)
	Base  string // Target branch (required)
	Head  string // Source branch (required)
	Draft bool   // Create as draft
}

// MergeOptions configures pull request merging.
type MergeOptions struct {
	Method        MergeMethod // Merge method (merge, squash, rebase)
	CommitTitle   string      // Custom commit title (for squash/merge)
	CommitMessage string      // Custom commit message (for squash/merge)
	SHA           string      // Expected HEAD SHA (for optimistic locking)
}

// MergeResult is the outcome of a successful merge.
type MergeResult struct {
	SHA     string // merge commit
	Message string
}

// PullRequest is the host-neutral view of a pull or merge request.
type PullRequest struct {
	Number     int
	URL        string
	Title      string
	Body       string
	State      State
	Draft      bool
	Head       string
	Base       string
	HeadSHA    string
	MergeState MergeState
	Conflicts  bool
	CreatedAt  time.Time
}

// Builder helps construct PR options using a fluent interface.
type Builder struct {
	opts Options
}

// NewBuilder creates a new PR builder for head targeting base.
func NewBuilder(head, base string) *Builder {
	return &Builder{opts: Options{Head: head, Base: base}}
}

// WithTitle sets the title.
func (b *Builder) WithTitle(title string) *Builder {
	b.opts.Title = strings.TrimSpace(title)
	return b
}

// WithIssueTitle sets the title to "<KEY>: <summary>".
func (b *Builder) WithIssueTitle(issueKey, summary string) *Builder {
	return b.WithTitle(IssueTitle(issueKey, summary))
}

// WithBody sets the PR body.
func (b *Builder) WithBody(body string) *Builder {
	b.opts.Body = body
	return b
}

// WithIssueBody uses body when given, appending a reference to issueKey if
// body does not mention it; otherwise it renders the default template.
func (b *Builder) WithIssueBody(issueKey, browseURL, body string) *Builder {
	if strings.TrimSpace(body) == "" {
		b.opts.Body = IssueDescription(issueKey, browseURL)
		return b
	}
	if !strings.Contains(body, issueKey) {
		body = strings.TrimRight(body, "\n") + "\n\nRefs: " + issueKey
	}
	b.opts.Body = body
	return b
}

// AsDraft creates as a draft PR.
func (b *Builder) AsDraft() *Builder {
	b.opts.Draft = true
	return b
}

// Build returns the constructed PR options.
func (b *Builder) Build() Options {
	return b.opts
}

// IssueTitle renders the default PR title for an issue.
func IssueTitle(issueKey, summary string) string {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return issueKey
	}
	return issueKey + ": " + summary
}

// IssueDescription renders the default PR body for an issue.
func IssueDescription(issueKey, browseURL string) string {
	var body strings.Builder

	body.WriteString("## Summary\n\n")
	fmt.Fprintf(&body, "Implements %s.\n", issueKey)
	if browseURL != "" {
		fmt.Fprintf(&body, "\nIssue: [%s](%s)\n", issueKey, browseURL)
	}
	body.WriteString("\n## Test Plan\n\n- [ ] Tests pass\n")

	return body.String()
}
