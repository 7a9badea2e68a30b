package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// CommandRunner executes external commands. The default ExecRunner shells
// out; tests substitute SequentialMockRunner.
type CommandRunner interface {
	// Run executes name with args in dir and returns trimmed combined output.
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Env is appended to the inherited environment.
	Env []string
}

// NewExecRunner creates an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		// Never block on a credential prompt; stdin is the MCP transport.
		Env: []string{"GIT_TERMINAL_PROMPT=0"},
	}
}

// Run implements CommandRunner.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	runErr := cmd.Run()
	output := strings.TrimSpace(out.String())
	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			runErr = ctxErr
		}
		return output, &CommandError{
			Command: name,
			Args:    args,
			Output:  output,
			Err:     runErr,
		}
	}
	return output, nil
}

// CommandError is a command that exited unsuccessfully.
type CommandError struct {
	Command string
	Args    []string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Output != "" {
		return e.Output
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "command failed"
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code, or -1 when the command did not
// run to completion.
func (e *CommandError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// MockCall records one invocation of a mock runner.
type MockCall struct {
	WorkDir string
	Command string
	Args    []string
}

// String renders the call as a command line.
func (c MockCall) String() string {
	return strings.TrimSpace(c.Command + " " + strings.Join(c.Args, " "))
}

type mockOutput struct {
	output string
	err    error
}

// SequentialMockRunner returns queued outputs in call order, regardless of
// the command. Running past the queue fails the call.
type SequentialMockRunner struct {
	mu      sync.Mutex
	outputs []mockOutput
	Calls   []MockCall
}

// NewSequentialMockRunner creates an empty SequentialMockRunner.
func NewSequentialMockRunner() *SequentialMockRunner {
	return &SequentialMockRunner{}
}

// AddOutput queues a result for the next call.
func (m *SequentialMockRunner) AddOutput(output string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outputs = append(m.outputs, mockOutput{output: output, err: err})
}

// AddFailure queues a failed command whose output is output, the way
// ExecRunner reports a non-zero exit.
func (m *SequentialMockRunner) AddFailure(output string) {
	m.AddOutput(output, &CommandError{
		Command: "git",
		Output:  output,
		Err:     errors.New("exit status 1"),
	})
}

// Run implements CommandRunner.
func (m *SequentialMockRunner) Run(_ context.Context, dir, name string, args ...string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := MockCall{WorkDir: dir, Command: name, Args: args}
	m.Calls = append(m.Calls, call)

	if len(m.outputs) == 0 {
		return "", fmt.Errorf("unexpected command: %s", call)
	}
	next := m.outputs[0]
	m.outputs = m.outputs[1:]
	return next.output, next.err
}

// Remaining returns the number of queued outputs not yet consumed.
func (m *SequentialMockRunner) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.outputs)
}

// Commands returns every call rendered as a command line.
func (m *SequentialMockRunner) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		out[i] = c.String()
	}
	return out
}

// WasCalled reports whether a call began with name and args.
func (m *SequentialMockRunner) WasCalled(name string, args ...string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.Calls {
		if c.Command == name && argsPrefix(c.Args, args) {
			return true
		}
	}
	return false
}

func argsPrefix(actual, prefix []string) bool {
	if len(prefix) > len(actual) {
		return false
	}
	for i := range prefix {
		if actual[i] != prefix[i] {
			return false
		}
	}
	return true
}
