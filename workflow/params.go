package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	deverrors "github.com/randalmurphal/issueflow/errors"
	"github.com/randalmurphal/issueflow/git"
	"github.com/randalmurphal/issueflow/jira"
	"github.com/randalmurphal/issueflow/pr"
)

// Defaults applied when a parameter is omitted.
const (
	DefaultSearchResults = 10
	DefaultMyIssues      = 50
)

// =============================================================================
// Parameter Types
// =============================================================================

// GetIssueParams are the arguments of get_issue.
type GetIssueParams struct {
	IssueKey string `json:"issue_key"`
	Fields   string `json:"fields,omitempty"`

	fields jira.FieldSet
}

// SearchIssuesParams are the arguments of search_issues.
type SearchIssuesParams struct {
	Query      string `json:"query"`
	MaxResults *int   `json:"max_results,omitempty"`
	PageToken  string `json:"page_token,omitempty"`
	Fields     string `json:"fields,omitempty"`

	fields jira.FieldSet
}

// GetMyIssuesParams are the arguments of get_my_issues.
type GetMyIssuesParams struct {
	Status     string `json:"status,omitempty"`
	IssueType  string `json:"issue_type,omitempty"`
	MaxResults *int   `json:"max_results,omitempty"`
	PageToken  string `json:"page_token,omitempty"`
}

// TransitionIssueParams are the arguments of transition_issue.
type TransitionIssueParams struct {
	IssueKey string `json:"issue_key"`
	ToStatus string `json:"to_status"`
	Comment  string `json:"comment,omitempty"`
}

// CreateBranchParams are the arguments of create_branch_for_issue.
type CreateBranchParams struct {
	IssueKey   string `json:"issue_key"`
	BranchName string `json:"branch_name,omitempty"`
	BranchType string `json:"branch_type,omitempty"`
}

// CommitAndPushParams are the arguments of git_commit_and_push.
type CommitAndPushParams struct {
	Message    string `json:"message"`
	LocalPath  string `json:"local_path,omitempty"`
	BranchName string `json:"branch_name,omitempty"`
}

// CreatePullRequestParams are the arguments of create_pull_request.
type CreatePullRequestParams struct {
	IssueKey    string `json:"issue_key"`
	BranchName  string `json:"branch_name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Base        string `json:"base,omitempty"`
	Draft       bool   `json:"draft,omitempty"`
}

// MergePullRequestParams are the arguments of merge_pull_request.
type MergePullRequestParams struct {
	PRNumber    Number `json:"pr_number"`
	MergeMethod string `json:"merge_method,omitempty"`
	CheckStatus *bool  `json:"check_status,omitempty"`

	method pr.MergeMethod
}

// Number is an integer that also accepts a quoted decimal string, as
// agents often send "123" for numeric arguments.
type Number int

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(s), "#"))
		if err != nil {
			return fmt.Errorf("not an integer: %q", s)
		}
		*n = Number(v)
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

// =============================================================================
// Validation
// =============================================================================

// validator collects every problem with a parameter set so one failure
// names them all.
type validator struct {
	problems []string
}

func (v *validator) failf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) required(name, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.failf("%s is required", name)
		return false
	}
	return true
}

func (v *validator) issueKey(value string) {
	if v.required("issue_key", value) && !jira.ValidateIssueKey(value) {
		v.failf("issue_key %q must look like PROJ-123", value)
	}
}

func (v *validator) maxResults(value *int, lo, hi int) {
	if value != nil && (*value < lo || *value > hi) {
		v.failf("max_results must be between %d and %d, got %d", lo, hi, *value)
	}
}

func (v *validator) fields(value string) jira.FieldSet {
	fs, err := jira.ParseFields(value, nil)
	if err != nil {
		v.failf("fields: %v", err)
	}
	return fs
}

func (v *validator) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return deverrors.Validation(strings.Join(v.problems, "; "))
}

func (p *GetIssueParams) validate() error {
	p.IssueKey = strings.TrimSpace(p.IssueKey)
	var v validator
	v.issueKey(p.IssueKey)
	p.fields = v.fields(p.Fields)
	return v.err()
}

func (p *SearchIssuesParams) validate() error {
	var v validator
	v.required("query", p.Query)
	v.maxResults(p.MaxResults, 1, jira.MaxSearchResults)
	p.fields = v.fields(p.Fields)
	return v.err()
}

func (p *GetMyIssuesParams) validate() error {
	var v validator
	v.maxResults(p.MaxResults, 1, jira.MaxSearchResults)
	return v.err()
}

func (p *TransitionIssueParams) validate() error {
	p.IssueKey = strings.TrimSpace(p.IssueKey)
	var v validator
	v.issueKey(p.IssueKey)
	v.required("to_status", p.ToStatus)
	return v.err()
}

func (p *CreateBranchParams) validate() error {
	p.IssueKey = strings.TrimSpace(p.IssueKey)
	p.BranchName = strings.TrimSpace(p.BranchName)
	var v validator
	v.issueKey(p.IssueKey)

	kind, err := git.ParseBranchKind(p.BranchType)
	if err != nil {
		v.failf("branch_type must be feature, bugfix, or hotfix, got %q", p.BranchType)
	}
	if p.BranchName == "" && err == nil && len(v.problems) == 0 {
		p.BranchName = git.BranchName(kind, p.IssueKey)
	}
	if p.BranchName != "" {
		if err := git.ValidateBranchName(p.BranchName); err != nil {
			v.failf("branch_name: %v", err)
		}
	}
	return v.err()
}

func (p *CommitAndPushParams) validate() error {
	p.BranchName = strings.TrimSpace(p.BranchName)
	var v validator
	v.required("message", p.Message)
	if p.BranchName != "" {
		if err := git.ValidateBranchName(p.BranchName); err != nil {
			v.failf("branch_name: %v", err)
		}
	}
	return v.err()
}

func (p *CreatePullRequestParams) validate() error {
	p.IssueKey = strings.TrimSpace(p.IssueKey)
	p.BranchName = strings.TrimSpace(p.BranchName)
	p.Base = strings.TrimSpace(p.Base)
	var v validator
	v.issueKey(p.IssueKey)
	if v.required("branch_name", p.BranchName) {
		if err := git.ValidateBranchName(p.BranchName); err != nil {
			v.failf("branch_name: %v", err)
		}
	}
	if p.Base != "" {
		if err := git.ValidateBranchName(p.Base); err != nil {
			v.failf("base: %v", err)
		}
	}
	return v.err()
}

func (p *MergePullRequestParams) validate() error {
	var v validator
	if p.PRNumber <= 0 {
		v.failf("pr_number must be a positive integer, got %d", p.PRNumber)
	}
	method, err := pr.ParseMergeMethod(p.MergeMethod)
	if err != nil {
		v.failf("merge_method must be squash, merge, or rebase, got %q", p.MergeMethod)
	}
	p.method = method
	return v.err()
}

// checkStatus defaults to true.
func (p *MergePullRequestParams) checkStatus() bool {
	return p.CheckStatus == nil || *p.CheckStatus
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
