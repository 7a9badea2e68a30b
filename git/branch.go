package git

import (
	"fmt"
	"strings"
)

// BranchKind is the type prefix of an issue branch.
type BranchKind string

// Branch kinds.
const (
	BranchFeature BranchKind = "feature"
	BranchBugfix  BranchKind = "bugfix"
	BranchHotfix  BranchKind = "hotfix"
)

// DefaultBranchKind is used when no kind is given.
const DefaultBranchKind = BranchFeature

// BranchKinds lists every supported kind.
func BranchKinds() []BranchKind {
	return []BranchKind{BranchFeature, BranchBugfix, BranchHotfix}
}

// ParseBranchKind parses s, defaulting to feature when empty.
func ParseBranchKind(s string) (BranchKind, error) {
	switch kind := BranchKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case "":
		return DefaultBranchKind, nil
	case BranchFeature, BranchBugfix, BranchHotfix:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidBranchKind, s)
	}
}

// BranchName returns the conventional branch for an issue.
// Example: BranchFeature, "KAN-42" -> "feature/KAN-42"
func BranchName(kind BranchKind, issueKey string) string {
	if kind == "" {
		kind = DefaultBranchKind
	}
	return string(kind) + "/" + issueKey
}

// ValidateBranchName checks name against git's ref naming rules
// (git check-ref-format --branch).
func ValidateBranchName(name string) error {
	invalid := func(reason string) error {
		return fmt.Errorf("%w: %q %s", ErrInvalidBranchName, name, reason)
	}

	switch {
	case name == "":
		return invalid("is empty")
	case name == "@":
		return invalid("is reserved")
	case strings.HasPrefix(name, "-"):
		return invalid("starts with '-'")
	case strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/"):
		return invalid("starts or ends with '/'")
	case strings.HasSuffix(name, "."):
		return invalid("ends with '.'")
	case strings.Contains(name, ".."):
		return invalid("contains '..'")
	case strings.Contains(name, "//"):
		return invalid("contains '//'")
	case strings.Contains(name, "@{"):
		return invalid("contains '@{'")
	}

	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return invalid("contains a control character")
		}
		if strings.ContainsRune(" ~^:?*[\\", r) {
			return invalid(fmt.Sprintf("contains %q", r))
		}
	}

	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return invalid("has a component starting with '.'")
		}
		if strings.HasSuffix(part, ".lock") {
			return invalid("has a component ending with '.lock'")
		}
	}

	return nil
}

// ParseBranch extracts components from a branch name.
// Returns (kind, identifier) where kind is empty for unprefixed names.
// Example: "feature/KAN-42" -> ("feature", "KAN-42")
func ParseBranch(branch string) (kind, identifier string) {
	branch = strings.TrimPrefix(branch, "refs/heads/")

	prefix, rest, found := strings.Cut(branch, "/")
	if !found {
		return "", branch
	}
	return prefix, rest
}
