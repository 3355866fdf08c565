package workflow

import (
	"strings"
	"time"

	"github.com/randalmurphal/flowgraph/pkg/flowgraph"
)

// DefaultTestCommand is the default command used to run tests.
const DefaultTestCommand = "go test ./..."

// testResultsTailLines caps how much test output lands in the
// completion comment.
const testResultsTailLines = 40

// RunTestsNode runs the test suite in the worktree and records the
// output for the completion comment.
//
// Prerequisites: state.Worktree
// Updates: state.TestResults, state.TestsPassed, state.TestsRanAt
//
// Test failures do not fail the run; the results land in the
// completion comment either way and the reviewer decides.
func RunTestsNode(ctx flowgraph.Context, state State) (State, error) {
	if err := state.Validate(RequireWorktree); err != nil {
		return state, err
	}

	command := state.Config.TestCommand
	if command == "" {
		command = DefaultTestCommand
	}

	runner := RunnerFromContext(ctx)
	output, err := runner.Run(state.Worktree, "sh", "-c", command)

	state.TestResults = tailLines(output, testResultsTailLines)
	state.TestsPassed = err == nil
	state.TestsRanAt = time.Now()

	return state, nil
}

// tailLines returns the last n lines of s.
func tailLines(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
