package jira

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// issueKeyRegex validates Jira issue keys (e.g., PROJ-123).
var issueKeyRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]*-\d+$`)

// ValidateIssueKey validates a Jira issue key format.
func ValidateIssueKey(key string) bool {
	return issueKeyRegex.MatchString(key)
}

// ParseTime parses a Jira timestamp string.
// Jira uses ISO 8601 format with timezone offset.
func ParseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	// Jira format: "2025-01-15T10:30:00.000+0000"
	formats := []string{
		"2006-01-02T15:04:05.000-0700",
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05-0700",
		"2006-01-02T15:04:05Z",
		time.RFC3339,
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &time.ParseError{Value: s}
}

// Wire types. Only the attributes the view needs are decoded.

type rawIssue struct {
	ID     string                     `json:"id"`
	Key    string                     `json:"key"`
	Fields map[string]json.RawMessage `json:"fields"`
}

type named struct {
	Name string `json:"name"`
}

type person struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	AccountID    string `json:"accountId"`
}

type rawSubtask struct {
	Key    string `json:"key"`
	Fields struct {
		Summary   string `json:"summary"`
		Status    *named `json:"status"`
		IssueType *named `json:"issuetype"`
	} `json:"fields"`
}

type searchRequest struct {
	JQL           string   `json:"jql"`
	MaxResults    int      `json:"maxResults"`
	Fields        []string `json:"fields,omitempty"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
}

type searchResponse struct {
	Issues        []rawIssue `json:"issues"`
	IsLast        bool       `json:"isLast"`
	NextPageToken string     `json:"nextPageToken"`
}

// Transition is an issue-state-dependent allowed status change.
type Transition struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	To   *Status `json:"to,omitempty"`
}

// Status is a workflow status.
type Status struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TargetName returns the destination status name, or the transition name
// when the tracker omits the destination.
func (t Transition) TargetName() string {
	if t.To != nil && t.To.Name != "" {
		return t.To.Name
	}
	return t.Name
}

type transitionsResponse struct {
	Transitions []Transition `json:"transitions"`
}

type transitionRequest struct {
	Transition transitionRef  `json:"transition"`
	Update     map[string]any `json:"update,omitempty"`
}

type transitionRef struct {
	ID string `json:"id"`
}

// Subtask is the compact view of a child issue.
type Subtask struct {
	Key       string `json:"key"`
	Summary   string `json:"summary"`
	Status    string `json:"status,omitempty"`
	IssueType string `json:"issuetype,omitempty"`
}

// Issue is a request-scoped view of a tracker issue. Only the fields in
// Requested are meaningful; each is nil/empty when the tracker has no value.
type Issue struct {
	Key       string
	Requested FieldSet

	Summary     *string
	Description *string
	IssueType   *string
	Status      *string
	Priority    *string
	Assignee    *string
	Reporter    *string
	DueDate     *string
	Created     *string
	Updated     *string
	Resolution  *string
	Labels      []string
	Components  []string
	Subtasks    []Subtask
}

// jsonName maps a field to its output key.
func jsonName(f Field) string {
	if f == FieldDescription {
		return "description_text"
	}
	return string(f)
}

// value returns the typed value for f.
func (i *Issue) value(f Field) any {
	switch f {
	case FieldSummary:
		return i.Summary
	case FieldDescription:
		return i.Description
	case FieldIssueType:
		return i.IssueType
	case FieldStatus:
		return i.Status
	case FieldPriority:
		return i.Priority
	case FieldAssignee:
		return i.Assignee
	case FieldReporter:
		return i.Reporter
	case FieldDueDate:
		return i.DueDate
	case FieldCreated:
		return i.Created
	case FieldUpdated:
		return i.Updated
	case FieldResolution:
		return i.Resolution
	case FieldLabels:
		return nonNil(i.Labels)
	case FieldComponents:
		return nonNil(i.Components)
	case FieldSubtasks:
		return nonNil(i.Subtasks)
	default:
		return nil
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// MarshalJSON emits the key followed by every requested field, in
// canonical order, with null for absent values.
func (i *Issue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"key":`)
	key, err := json.Marshal(i.Key)
	if err != nil {
		return nil, err
	}
	buf.Write(key)

	for _, f := range i.Requested.ordered() {
		v, err := json.Marshal(i.value(f))
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", f, err)
		}
		fmt.Fprintf(&buf, ",%q:", jsonName(f))
		buf.Write(v)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SearchResult is one page of search results.
type SearchResult struct {
	Issues        []*Issue `json:"issues"`
	IsLast        bool     `json:"is_last"`
	NextPageToken string   `json:"next_page_token,omitempty"`
}
