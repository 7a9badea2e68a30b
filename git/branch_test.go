package git

import (
	"errors"
	"testing"
)

func TestParseBranchKind(t *testing.T) {
	tests := []struct {
		input   string
		want    BranchKind
		wantErr bool
	}{
		{"", BranchFeature, false},
		{"feature", BranchFeature, false},
		{"Bugfix", BranchBugfix, false},
		{" hotfix ", BranchHotfix, false},
		{"chore", "", true},
		{"feat", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBranchKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBranchKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidBranchKind) {
				t.Errorf("error should wrap ErrInvalidBranchKind: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBranchName(t *testing.T) {
	tests := []struct {
		kind BranchKind
		key  string
		want string
	}{
		{BranchFeature, "KAN-1", "feature/KAN-1"},
		{BranchBugfix, "KAN-42", "bugfix/KAN-42"},
		{BranchHotfix, "OPS-7", "hotfix/OPS-7"},
		{"", "KAN-3", "feature/KAN-3"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := BranchName(tt.kind, tt.key); got != tt.want {
				t.Errorf("BranchName() = %q, want %q", got, tt.want)
			}
			if err := ValidateBranchName(tt.want); err != nil {
				t.Errorf("generated name should be valid: %v", err)
			}
		})
	}
}

func TestValidateBranchName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"feature/KAN-1", true},
		{"main", true},
		{"release/1.2.x", true},
		{"user/jdoe/spike_auth", true},
		{"", false},
		{"@", false},
		{"-leading-dash", false},
		{"/leading", false},
		{"trailing/", false},
		{"trailing.", false},
		{"double..dot", false},
		{"double//slash", false},
		{"has space", false},
		{"tilde~1", false},
		{"caret^", false},
		{"colon:x", false},
		{"question?", false},
		{"star*", false},
		{"bracket[", false},
		{"back\\slash", false},
		{"reflog@{1}", false},
		{"feature/.hidden", false},
		{"feature/x.lock", false},
		{"ctrl\x01char", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBranchName(tt.name)
			if (err == nil) != tt.valid {
				t.Errorf("ValidateBranchName(%q) = %v, want valid=%v", tt.name, err, tt.valid)
			}
			if err != nil && !errors.Is(err, ErrInvalidBranchName) {
				t.Errorf("error should wrap ErrInvalidBranchName: %v", err)
			}
		})
	}
}

func TestParseBranch(t *testing.T) {
	tests := []struct {
		branch   string
		wantKind string
		wantID   string
	}{
		{"feature/KAN-42", "feature", "KAN-42"},
		{"refs/heads/bugfix/KAN-7", "bugfix", "KAN-7"},
		{"main", "", "main"},
		{"user/team/x", "user", "team/x"},
	}

	for _, tt := range tests {
		t.Run(tt.branch, func(t *testing.T) {
			kind, id := ParseBranch(tt.branch)
			if kind != tt.wantKind || id != tt.wantID {
				t.Errorf("ParseBranch(%q) = (%q, %q), want (%q, %q)", tt.branch, kind, id, tt.wantKind, tt.wantID)
			}
		})
	}
}
