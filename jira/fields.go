package jira

import (
	"fmt"
	"slices"
	"strings"
)

// Field is a recognized issue field name.
type Field string

// Recognized fields.
const (
	FieldSummary     Field = "summary"
	FieldDescription Field = "description"
	FieldIssueType   Field = "issuetype"
	FieldStatus      Field = "status"
	FieldPriority    Field = "priority"
	FieldAssignee    Field = "assignee"
	FieldReporter    Field = "reporter"
	FieldDueDate     Field = "duedate"
	FieldCreated     Field = "created"
	FieldUpdated     Field = "updated"
	FieldSubtasks    Field = "subtasks"
	FieldLabels      Field = "labels"
	FieldComponents  Field = "components"
	FieldResolution  Field = "resolution"
)

// allFields lists every recognized field in output order.
var allFields = []Field{
	FieldSummary, FieldIssueType, FieldStatus, FieldPriority, FieldAssignee,
	FieldReporter, FieldDueDate, FieldCreated, FieldUpdated, FieldResolution,
	FieldLabels, FieldComponents, FieldDescription, FieldSubtasks,
}

// FieldSet is an ordered, de-duplicated selection of fields.
type FieldSet []Field

// IssuePreset is the default selection for a single issue.
var IssuePreset = FieldSet{
	FieldSummary, FieldDescription, FieldIssueType, FieldStatus, FieldPriority,
	FieldAssignee, FieldReporter, FieldDueDate, FieldCreated, FieldUpdated, FieldSubtasks,
}

// ListPreset is the default selection for search results.
var ListPreset = FieldSet{
	FieldSummary, FieldStatus, FieldPriority, FieldUpdated, FieldAssignee, FieldDueDate,
}

// KnownFields returns every recognized field name.
func KnownFields() []string {
	out := make([]string, len(allFields))
	for i, f := range allFields {
		out[i] = string(f)
	}
	return out
}

// ParseFields parses a comma-separated field list. Empty input returns
// fallback. Unknown names fail with ErrUnknownField.
func ParseFields(s string, fallback FieldSet) (FieldSet, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}

	var out FieldSet
	for _, part := range strings.Split(s, ",") {
		name := Field(strings.ToLower(strings.TrimSpace(part)))
		if name == "" {
			continue
		}
		if !slices.Contains(allFields, name) {
			return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownField, name, strings.Join(KnownFields(), ", "))
		}
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}

	if len(out) == 0 {
		return fallback, nil
	}
	return out, nil
}

// Has reports whether f is selected.
func (fs FieldSet) Has(f Field) bool {
	return slices.Contains(fs, f)
}

// Param renders the set for the Jira "fields" parameter.
func (fs FieldSet) Param() string {
	return strings.Join(fs.Strings(), ",")
}

// Strings returns the field names.
func (fs FieldSet) Strings() []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}

// ordered returns the selected fields in canonical output order.
func (fs FieldSet) ordered() []Field {
	out := make([]Field, 0, len(fs))
	for _, f := range allFields {
		if fs.Has(f) {
			out = append(out, f)
		}
	}
	return out
}
