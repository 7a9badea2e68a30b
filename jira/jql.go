package jira

import "strings"

// MyIssuesOrder is the ordering applied to the caller's issue list.
const MyIssuesOrder = "ORDER BY priority DESC, updated DESC"

// MyIssuesQuery builds the JQL for issues assigned to the caller.
// Filters are ANDed; an empty filter adds no clause.
func MyIssuesQuery(status, issueType string) string {
	clauses := []string{"assignee = currentUser()"}
	if s := strings.TrimSpace(status); s != "" {
		clauses = append(clauses, "status = "+Quote(s))
	}
	if t := strings.TrimSpace(issueType); t != "" {
		clauses = append(clauses, "issuetype = "+Quote(t))
	}
	return strings.Join(clauses, " AND ") + " " + MyIssuesOrder
}

// Quote renders v as a JQL string literal.
func Quote(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(v) + `"`
}
