package jira

import (
	"strings"

	"golang.org/x/text/cases"
)

// normalizeName folds case and collapses whitespace so "in  progress" and
// "In Progress" compare equal.
func normalizeName(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// FindTransition returns the transition whose target status matches want,
// falling back to a match on the transition's own name.
func FindTransition(transitions []Transition, want string) (Transition, bool) {
	target := normalizeName(want)
	if target == "" {
		return Transition{}, false
	}

	for _, t := range transitions {
		if t.To != nil && normalizeName(t.To.Name) == target {
			return t, true
		}
	}
	for _, t := range transitions {
		if normalizeName(t.Name) == target {
			return t, true
		}
	}
	return Transition{}, false
}

// AvailableTargets lists the distinct target status names.
func AvailableTargets(transitions []Transition) []string {
	seen := make(map[string]bool, len(transitions))
	out := make([]string, 0, len(transitions))
	for _, t := range transitions {
		name := t.TargetName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
