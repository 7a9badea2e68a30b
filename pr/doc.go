// Package pr talks to the source host: remote branches, pull (merge)
// requests, CI status, reviews, and merges on GitHub and GitLab.
//
// Core types:
//   - Repo: host/owner/name parsed from a git remote URL
//   - Provider: the host-neutral surface implemented per host
//   - PullRequest, CheckStatus, ReviewSummary: normalized host state
//   - Builder: assembles Options with issue-derived titles and bodies
//
// Implementations:
//   - GitHubProvider: go-github, authenticated through an oauth2.TokenSource
//   - GitLabProvider: go-gitlab with a personal access token
//   - MockProvider: canned answers for tests
//
// Merge readiness is decided by Blocker, which inspects checks, reviews,
// and mergeability before any merge call:
//
//	pull, _ := provider.GetPR(ctx, repo, 42)
//	checks, _ := provider.CheckStatus(ctx, repo, pull.HeadSHA)
//	reviews, _ := provider.Reviews(ctx, repo, 42)
//	if err := pr.Blocker(pull, checks, reviews); err != nil {
//	    return err // *BlockedError, matches ErrNotMergeable
//	}
//	result, err := provider.MergePR(ctx, repo, 42, pr.MergeOptions{SHA: pull.HeadSHA})
package pr
