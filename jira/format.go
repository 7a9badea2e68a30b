package jira

import (
	"encoding/json"
	"strings"
	"time"
)

// toIssue shapes a wire issue into the sparse view for the selected fields.
func toIssue(raw rawIssue, fields FieldSet) *Issue {
	issue := &Issue{Key: raw.Key, Requested: fields}

	for _, f := range fields {
		data := raw.Fields[string(f)]
		switch f {
		case FieldSummary:
			issue.Summary = decodeString(data)
		case FieldDescription:
			if text := PlainText(data); text != "" {
				issue.Description = &text
			}
		case FieldIssueType:
			issue.IssueType = decodeName(data)
		case FieldStatus:
			issue.Status = decodeName(data)
		case FieldPriority:
			issue.Priority = decodeName(data)
		case FieldResolution:
			issue.Resolution = decodeName(data)
		case FieldAssignee:
			issue.Assignee = decodePerson(data)
		case FieldReporter:
			issue.Reporter = decodePerson(data)
		case FieldDueDate:
			issue.DueDate = decodeString(data)
		case FieldCreated:
			issue.Created = decodeTime(data)
		case FieldUpdated:
			issue.Updated = decodeTime(data)
		case FieldLabels:
			_ = json.Unmarshal(data, &issue.Labels)
		case FieldComponents:
			var comps []named
			if json.Unmarshal(data, &comps) == nil {
				for _, c := range comps {
					issue.Components = append(issue.Components, c.Name)
				}
			}
		case FieldSubtasks:
			var subs []rawSubtask
			if json.Unmarshal(data, &subs) == nil {
				for _, s := range subs {
					st := Subtask{Key: s.Key, Summary: s.Fields.Summary}
					if s.Fields.Status != nil {
						st.Status = s.Fields.Status.Name
					}
					if s.Fields.IssueType != nil {
						st.IssueType = s.Fields.IssueType.Name
					}
					issue.Subtasks = append(issue.Subtasks, st)
				}
			}
		}
	}

	return issue
}

func decodeString(data json.RawMessage) *string {
	var s string
	if len(data) == 0 || json.Unmarshal(data, &s) != nil || s == "" {
		return nil
	}
	return &s
}

func decodeName(data json.RawMessage) *string {
	var n named
	if len(data) == 0 || json.Unmarshal(data, &n) != nil || n.Name == "" {
		return nil
	}
	return &n.Name
}

func decodePerson(data json.RawMessage) *string {
	var p person
	if len(data) == 0 || json.Unmarshal(data, &p) != nil {
		return nil
	}
	for _, v := range []string{p.DisplayName, p.EmailAddress, p.AccountID} {
		if strings.TrimSpace(v) != "" {
			return &v
		}
	}
	return nil
}

// decodeTime normalizes a Jira timestamp to RFC 3339, keeping the raw
// value when it does not parse.
func decodeTime(data json.RawMessage) *string {
	s := decodeString(data)
	if s == nil {
		return nil
	}
	if t, err := ParseTime(*s); err == nil {
		formatted := t.Format(time.RFC3339)
		return &formatted
	}
	return s
}
