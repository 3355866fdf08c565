package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes commands in a working directory and returns
// trimmed stdout. Implementations other than ExecRunner exist for
// testing.
type CommandRunner interface {
	Run(dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

// NewExecRunner returns a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command in dir. On failure the error carries the
// command's stderr so callers can sniff git's diagnostics.
func (r *ExecRunner) Run(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg != "" {
			return strings.TrimSpace(stdout.String()), fmt.Errorf("%s: %w", msg, err)
		}
		return strings.TrimSpace(stdout.String()), err
	}

	return strings.TrimSpace(stdout.String()), nil
}

// mockResponse is a single canned response for SequentialMockRunner.
type mockResponse struct {
	output string
	err    error
}

// SequentialMockRunner returns canned responses in order. Each Run
// call records its arguments in Calls and pops the next response.
type SequentialMockRunner struct {
	Calls     [][]string
	responses []mockResponse
}

// NewSequentialMockRunner creates an empty mock runner.
func NewSequentialMockRunner() *SequentialMockRunner {
	return &SequentialMockRunner{}
}

// AddOutput queues a response with the given output and error.
func (r *SequentialMockRunner) AddOutput(output string, err error) {
	r.responses = append(r.responses, mockResponse{output: output, err: err})
}

// AddOutputError queues a failing response. If err is nil an error is
// built from errMsg, so callers can simulate git failures without
// constructing sentinel errors.
func (r *SequentialMockRunner) AddOutputError(output, errMsg string, err error) {
	if err == nil {
		err = errors.New(errMsg)
	}
	r.responses = append(r.responses, mockResponse{output: output, err: err})
}

// Run pops the next canned response. Running past the queue fails.
func (r *SequentialMockRunner) Run(dir, name string, args ...string) (string, error) {
	call := append([]string{name}, args...)
	r.Calls = append(r.Calls, call)

	if len(r.responses) == 0 {
		return "", fmt.Errorf("mock runner: unexpected call %v", call)
	}

	resp := r.responses[0]
	r.responses = r.responses[1:]
	return resp.output, resp.err
}
