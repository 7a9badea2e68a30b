package tools

import (
	"fmt"
	"strings"
)

// Reference renders a Markdown API reference for every registered tool.
func (r *Registry) Reference() string {
	var b strings.Builder
	b.WriteString("# Tool reference\n\n")
	b.WriteString("Every tool returns `{\"success\": true, \"data\": {...}}` or `{\"success\": false, \"error\": \"...\"}`.\n")

	for _, t := range r.tools {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", t.Name, t.Description)
		if t.ReadOnly {
			b.WriteString("\nRead-only.\n")
		}
		if len(t.Params) == 0 {
			continue
		}

		b.WriteString("\n| Parameter | Type | Required | Description |\n|---|---|---|---|\n")
		for _, p := range t.Params {
			req := "no"
			if p.Required {
				req = "yes"
			}
			fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n", p.Name, p.Type, req, describe(p))
		}
	}
	return b.String()
}

func describe(p Param) string {
	parts := []string{p.Description}
	if len(p.Enum) > 0 {
		parts = append(parts, "one of "+strings.Join(p.Enum, ", "))
	}
	switch {
	case p.Minimum != nil && p.Maximum != nil:
		parts = append(parts, fmt.Sprintf("%d to %d", *p.Minimum, *p.Maximum))
	case p.Minimum != nil:
		parts = append(parts, fmt.Sprintf("at least %d", *p.Minimum))
	}
	if p.Default != nil {
		parts = append(parts, fmt.Sprintf("default `%v`", p.Default))
	}
	return strings.ReplaceAll(strings.Join(parts, "; "), "|", `\|`)
}
