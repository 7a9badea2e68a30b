package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/randalmurphal/issueflow/git"
	"github.com/randalmurphal/issueflow/jira"
)

// FakeTracker is an in-memory Tracker for tests. Unset funcs fall back to
// the Issues map and Transitions table.
type FakeTracker struct {
	// Issues are returned by GetIssue, keyed by issue key.
	Issues map[string]*jira.Issue

	// Transitions lists what TransitionTo may apply, per issue key.
	Transitions map[string][]jira.Transition

	SearchFunc func(ctx context.Context, opts jira.SearchOptions) (*jira.SearchResult, error)

	mu       sync.Mutex
	searches []jira.SearchOptions
	applied  []string
}

// GetIssue implements Tracker.
func (f *FakeTracker) GetIssue(ctx context.Context, key string, fields jira.FieldSet) (*jira.Issue, error) {
	issue, ok := f.Issues[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, jira.ErrIssueNotFound)
	}
	cp := *issue
	cp.Requested = fields
	return &cp, nil
}

// Search implements Tracker.
func (f *FakeTracker) Search(ctx context.Context, opts jira.SearchOptions) (*jira.SearchResult, error) {
	f.mu.Lock()
	f.searches = append(f.searches, opts)
	f.mu.Unlock()

	if f.SearchFunc != nil {
		return f.SearchFunc(ctx, opts)
	}
	return &jira.SearchResult{Issues: []*jira.Issue{}, IsLast: true}, nil
}

// TransitionTo implements Tracker.
func (f *FakeTracker) TransitionTo(ctx context.Context, key, target, comment string) (*jira.Transition, error) {
	if _, ok := f.Issues[key]; !ok {
		return nil, fmt.Errorf("%s: %w", key, jira.ErrIssueNotFound)
	}
	available := f.Transitions[key]
	match, ok := jira.FindTransition(available, target)
	if !ok {
		return nil, &jira.TransitionNotFoundError{Key: key, Requested: target, Available: jira.AvailableTargets(available)}
	}

	f.mu.Lock()
	f.applied = append(f.applied, key+"->"+match.TargetName())
	f.mu.Unlock()
	return &match, nil
}

// BrowseURL implements Tracker.
func (f *FakeTracker) BrowseURL(key string) string {
	return "https://tracker.example.com/browse/" + key
}

// Searches returns the options of every Search call.
func (f *FakeTracker) Searches() []jira.SearchOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]jira.SearchOptions(nil), f.searches...)
}

// Applied returns "KEY->Status" for every applied transition.
func (f *FakeTracker) Applied() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.applied...)
}

var _ Tracker = (*FakeTracker)(nil)
var _ Tracker = (*jira.Client)(nil)
var _ LocalRepo = (*git.Repo)(nil)
