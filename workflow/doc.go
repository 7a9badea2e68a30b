// Package workflow orchestrates the issue-to-merge developer workflow across
// an issue tracker, a source host, and a local git repository.
//
// Each action validates its parameters, resolves the collaborators it
// needs, calls them strictly in sequence, and returns exactly one Result:
//
//   - GetIssue, SearchIssues, GetMyIssues, TransitionIssue (tracker)
//   - CreateBranchForIssue, CreatePullRequest, MergePullRequest (source host)
//   - GitCommitAndPush (local repository)
//
// Failures are classified into the kinds of package errors; only
// TransportError is retryable. Panics are recovered into a failure Result.
// Successful side effects and failures raise notify events.
//
// Example usage:
//
//	orch := workflow.New(*cfg, workflow.WithLogger(logger), workflow.WithNotifier(n))
//	res := orch.CreateBranchForIssue(ctx, workflow.CreateBranchParams{IssueKey: "KAN-42"})
//	out, _ := json.Marshal(res) // {"success":true,"data":{"branch_name":"feature/KAN-42",...}}
package workflow
