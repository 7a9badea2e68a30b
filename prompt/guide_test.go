package prompt

import (
	"strings"
	"testing"

	"github.com/randalmurphal/issueflow/workflow"
)

func TestSteps(t *testing.T) {
	steps := Steps()
	if steps[0] != StepStart {
		t.Errorf("first step = %q, want start", steps[0])
	}
	if len(steps) != len(workflow.Stages())+1 {
		t.Errorf("got %d steps, want one per stage plus start", len(steps))
	}
}

func TestGuide_EveryStepRenders(t *testing.T) {
	loader := NewLoader()

	for _, step := range Steps() {
		t.Run(step, func(t *testing.T) {
			withKey, err := loader.Guide(step, "KAN-42")
			if err != nil {
				t.Fatalf("Guide(%s): %v", step, err)
			}
			if strings.TrimSpace(withKey) == "" {
				t.Fatal("empty guidance")
			}
			if strings.Contains(withKey, "<no value>") {
				t.Errorf("unrendered variable in %q", withKey)
			}

			withoutKey, err := loader.Guide(step, "")
			if err != nil {
				t.Fatalf("Guide(%s) without key: %v", step, err)
			}
			if strings.Contains(withoutKey, "<no value>") {
				t.Errorf("unrendered variable in %q", withoutKey)
			}
		})
	}
}

func TestGuide_Substitutions(t *testing.T) {
	loader := NewLoader()

	tests := []struct {
		step, key string
		want      string
	}{
		{"branch_created", "KAN-42", "git fetch origin && git checkout feature/KAN-42"},
		{"branch_created", "", "git checkout feature/<ISSUE_KEY>"},
		{"pushed", "KAN-42", `create_pull_request("KAN-42", "feature/KAN-42")`},
		{"merged", "KAN-7", `transition_issue("KAN-7", "Done")`},
		{"created", "", `create_branch_for_issue("<ISSUE_KEY>")`},
		{" Code_Ready ", "KAN-1", `git_commit_and_push("KAN-1: <what changed>")`},
	}

	for _, tt := range tests {
		got, err := loader.Guide(tt.step, tt.key)
		if err != nil {
			t.Fatalf("Guide(%q): %v", tt.step, err)
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("Guide(%q, %q) = %q, want it to contain %q", tt.step, tt.key, got, tt.want)
		}
	}
}

func TestGuide_UnknownStepFallsBackToStart(t *testing.T) {
	loader := NewLoader()

	start, err := loader.Guide("", "")
	if err != nil {
		t.Fatal(err)
	}
	other, err := loader.Guide("celebrate", "KAN-1")
	if err != nil {
		t.Fatal(err)
	}
	if start != other {
		t.Errorf("unknown step rendered %q, want the start step", other)
	}
}

func TestWorkflowGuide(t *testing.T) {
	doc, err := NewLoader().WorkflowGuide()
	if err != nil {
		t.Fatalf("WorkflowGuide: %v", err)
	}

	for _, want := range []string{
		"| branch_created | `create_branch_for_issue` |",
		"| pushed | `git_commit_and_push` |",
		"| merged | `merge_pull_request` |",
		"| approved | reviewer approval |",
		"- `TransportError`",
		"- `NotMergeableError`",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("guide missing %q", want)
		}
	}
}
