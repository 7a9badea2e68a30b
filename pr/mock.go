package pr

import (
	"context"
	"sync"
)

// MockProvider is a mock implementation of Provider for testing. Unset
// funcs return canned success values. Calls are recorded by method name.
type MockProvider struct {
	BranchSHAFunc    func(ctx context.Context, repo Repo, branch string) (string, error)
	CreateBranchFunc func(ctx context.Context, repo Repo, name, sha string) error
	CreatePRFunc     func(ctx context.Context, repo Repo, opts Options) (*PullRequest, error)
	GetPRFunc        func(ctx context.Context, repo Repo, number int) (*PullRequest, error)
	CheckStatusFunc  func(ctx context.Context, repo Repo, sha string) (*CheckStatus, error)
	ReviewsFunc      func(ctx context.Context, repo Repo, number int) (*ReviewSummary, error)
	MergePRFunc      func(ctx context.Context, repo Repo, number int, opts MergeOptions) (*MergeResult, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockProvider) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

// Calls returns the recorded method names in call order.
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Called reports whether method was called.
func (m *MockProvider) Called(method string) bool {
	for _, c := range m.Calls() {
		if c == method {
			return true
		}
	}
	return false
}

// Name implements Provider.
func (m *MockProvider) Name() string { return "mock" }

// BranchSHA implements Provider.
func (m *MockProvider) BranchSHA(ctx context.Context, repo Repo, branch string) (string, error) {
	m.record("BranchSHA")
	if m.BranchSHAFunc != nil {
		return m.BranchSHAFunc(ctx, repo, branch)
	}
	return "0000000000000000000000000000000000000000", nil
}

// CreateBranch implements Provider.
func (m *MockProvider) CreateBranch(ctx context.Context, repo Repo, name, sha string) error {
	m.record("CreateBranch")
	if m.CreateBranchFunc != nil {
		return m.CreateBranchFunc(ctx, repo, name, sha)
	}
	return nil
}

// CreatePR implements Provider.
func (m *MockProvider) CreatePR(ctx context.Context, repo Repo, opts Options) (*PullRequest, error) {
	m.record("CreatePR")
	if m.CreatePRFunc != nil {
		return m.CreatePRFunc(ctx, repo, opts)
	}
	return &PullRequest{
		Number: 1,
		URL:    "https://example.com/pr/1",
		Title:  opts.Title,
		Body:   opts.Body,
		State:  StateOpen,
		Draft:  opts.Draft,
		Head:   opts.Head,
		Base:   opts.Base,
	}, nil
}

// GetPR implements Provider.
func (m *MockProvider) GetPR(ctx context.Context, repo Repo, number int) (*PullRequest, error) {
	m.record("GetPR")
	if m.GetPRFunc != nil {
		return m.GetPRFunc(ctx, repo, number)
	}
	return &PullRequest{Number: number, State: StateOpen, MergeState: MergeStateMergeable}, nil
}

// CheckStatus implements Provider.
func (m *MockProvider) CheckStatus(ctx context.Context, repo Repo, sha string) (*CheckStatus, error) {
	m.record("CheckStatus")
	if m.CheckStatusFunc != nil {
		return m.CheckStatusFunc(ctx, repo, sha)
	}
	return NewCheckStatus(nil), nil
}

// Reviews implements Provider.
func (m *MockProvider) Reviews(ctx context.Context, repo Repo, number int) (*ReviewSummary, error) {
	m.record("Reviews")
	if m.ReviewsFunc != nil {
		return m.ReviewsFunc(ctx, repo, number)
	}
	return &ReviewSummary{}, nil
}

// MergePR implements Provider.
func (m *MockProvider) MergePR(ctx context.Context, repo Repo, number int, opts MergeOptions) (*MergeResult, error) {
	m.record("MergePR")
	if m.MergePRFunc != nil {
		return m.MergePRFunc(ctx, repo, number, opts)
	}
	return &MergeResult{SHA: "1111111111111111111111111111111111111111", Message: "merged"}, nil
}

var (
	_ Provider = (*MockProvider)(nil)
	_ Provider = (*GitHubProvider)(nil)
	_ Provider = (*GitLabProvider)(nil)
)
