package git

import (
	"context"
	"errors"
	"os/exec"
	"testing"
)

func TestExecRunner_Run(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}
	runner := NewExecRunner()

	output, err := runner.Run(context.Background(), "", "echo", "hello")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if output != "hello" {
		t.Errorf("output = %q, want %q", output, "hello")
	}
}

func TestExecRunner_RunError(t *testing.T) {
	if _, err := exec.LookPath("ls"); err != nil {
		t.Skip("ls not available")
	}
	runner := NewExecRunner()

	_, err := runner.Run(context.Background(), "", "ls", "/nonexistent/path/that/does/not/exist")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("error should be CommandError, got %T", err)
	}
	if cmdErr.ExitCode() <= 0 {
		t.Errorf("ExitCode() = %d, want > 0", cmdErr.ExitCode())
	}
}

func TestExecRunner_RunCanceled(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExecRunner().Run(ctx, "", "sleep", "5")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestCommandError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *CommandError
		want string
	}{
		{
			name: "with output",
			err:  &CommandError{Command: "git", Output: "fatal: not a git repository", Err: errors.New("exit status 128")},
			want: "fatal: not a git repository",
		},
		{
			name: "without output",
			err:  &CommandError{Command: "git", Err: errors.New("exit status 1")},
			want: "exit status 1",
		},
		{
			name: "no output or error",
			err:  &CommandError{Command: "test"},
			want: "command failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSequentialMockRunner(t *testing.T) {
	runner := NewSequentialMockRunner()
	runner.AddOutput("first", nil)
	runner.AddFailure("boom")

	ctx := context.Background()
	out, err := runner.Run(ctx, "/repo", "git", "status")
	if err != nil || out != "first" {
		t.Errorf("first call = %q, %v", out, err)
	}

	out, err = runner.Run(ctx, "/repo", "git", "push", "origin")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) || out != "boom" {
		t.Errorf("second call = %q, %v", out, err)
	}

	if _, err := runner.Run(ctx, "/repo", "git", "log"); err == nil {
		t.Error("expected error once the queue is exhausted")
	}

	if runner.Remaining() != 0 {
		t.Errorf("Remaining() = %d", runner.Remaining())
	}
	if !runner.WasCalled("git", "push") {
		t.Error("WasCalled(git push) = false")
	}
	if runner.WasCalled("git", "commit") {
		t.Error("WasCalled(git commit) = true")
	}
	if got := runner.Commands()[1]; got != "git push origin" {
		t.Errorf("Commands()[1] = %q", got)
	}
	if runner.Calls[0].WorkDir != "/repo" {
		t.Errorf("WorkDir = %q", runner.Calls[0].WorkDir)
	}
}
