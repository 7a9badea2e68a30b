package pr

import (
	"strings"
	"testing"
)

func TestParseMergeMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    MergeMethod
		wantErr bool
	}{
		{"", MergeMethodSquash, false},
		{"squash", MergeMethodSquash, false},
		{" Merge ", MergeMethodMerge, false},
		{"rebase", MergeMethodRebase, false},
		{"fast-forward", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMergeMethod(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuilder(t *testing.T) {
	t.Run("issue defaults", func(t *testing.T) {
		opts := NewBuilder("feature/KAN-1", "main").
			WithIssueTitle("KAN-1", "  Fix login  ").
			WithIssueBody("KAN-1", "https://acme.atlassian.net/browse/KAN-1", "").
			Build()

		if opts.Title != "KAN-1: Fix login" {
			t.Errorf("Title = %q", opts.Title)
		}
		if opts.Head != "feature/KAN-1" || opts.Base != "main" || opts.Draft {
			t.Errorf("opts = %+v", opts)
		}
		for _, want := range []string{"## Summary", "Implements KAN-1.", "[KAN-1](https://acme.atlassian.net/browse/KAN-1)", "## Test Plan"} {
			if !strings.Contains(opts.Body, want) {
				t.Errorf("Body missing %q:\n%s", want, opts.Body)
			}
		}
	})

	t.Run("custom body gains reference", func(t *testing.T) {
		opts := NewBuilder("feature/KAN-1", "main").
			WithIssueBody("KAN-1", "", "Reworks the session cache.\n").
			AsDraft().
			Build()

		if opts.Body != "Reworks the session cache.\n\nRefs: KAN-1" {
			t.Errorf("Body = %q", opts.Body)
		}
		if !opts.Draft {
			t.Error("expected draft")
		}
	})

	t.Run("custom body already referencing issue", func(t *testing.T) {
		opts := NewBuilder("h", "b").WithIssueBody("KAN-1", "", "Fixes KAN-1").Build()
		if opts.Body != "Fixes KAN-1" {
			t.Errorf("Body = %q", opts.Body)
		}
	})

	t.Run("explicit title", func(t *testing.T) {
		opts := NewBuilder("h", "b").WithTitle(" Custom ").WithBody("x").Build()
		if opts.Title != "Custom" || opts.Body != "x" {
			t.Errorf("opts = %+v", opts)
		}
	})
}

func TestIssueTitle(t *testing.T) {
	if got := IssueTitle("KAN-1", ""); got != "KAN-1" {
		t.Errorf("IssueTitle without summary = %q", got)
	}
	if got := IssueTitle("KAN-1", "Fix"); got != "KAN-1: Fix" {
		t.Errorf("IssueTitle = %q", got)
	}
}

func TestIssueDescription_NoLink(t *testing.T) {
	body := IssueDescription("KAN-1", "")
	if strings.Contains(body, "Issue:") {
		t.Errorf("unexpected issue link:\n%s", body)
	}
}
