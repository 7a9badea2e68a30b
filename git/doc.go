// Package git drives the local git CLI for the commit-and-push half of the
// issue workflow.
//
// Core types:
//   - Repo: one work tree; stage, commit, push, inspect HEAD
//   - CommandRunner: executes git (ExecRunner, or SequentialMockRunner in tests)
//   - BranchKind: the feature/bugfix/hotfix prefix of issue branches
//
// Example usage:
//
//	repo, err := git.Open(ctx, ".")
//	if err := repo.StageAll(ctx); err != nil { ... }
//	staged, _ := repo.HasStagedChanges(ctx)
//	sha, err := repo.Commit(ctx, "KAN-42: add OAuth")
//	err = repo.Push(ctx, "origin", git.BranchName(git.BranchFeature, "KAN-42"))
//	if errors.Is(err, git.ErrPushRejected) { ... }
package git
