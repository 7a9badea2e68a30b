package prompt

// NameCurrentIssue renders the issue behind the checked-out branch.
const NameCurrentIssue = "current_issue"

// IssueView is the flattened issue shown by CurrentIssue. Empty fields are
// omitted from the output.
type IssueView struct {
	Branch      string
	Key         string
	Summary     string
	Status      string
	Type        string
	Priority    string
	Assignee    string
	Description string

	// Problem explains why the issue could not be shown in full.
	Problem string
}

// CurrentIssue renders v as Markdown.
func (l *Loader) CurrentIssue(v IssueView) (string, error) {
	return l.LoadWithVars(NameCurrentIssue, map[string]any{"Issue": v})
}
