package workflow

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/randalmurphal/flowgraph/pkg/flowgraph"

	"github.com/randalmurphal/issueflow"
	"github.com/randalmurphal/issueflow/git"
	"github.com/randalmurphal/issueflow/testutil"
)

func linearConfig() Config {
	return Config{
		PickupStates: issueflow.LinearPickupStates,
		WorkState:    issueflow.StateInProgress,
		ReviewState:  issueflow.StateInReview,
	}
}

// runContext assembles the service context the graph nodes expect.
func runContext(t *testing.T, engine *issueflow.Engine, gitCtx *git.Context, runner git.CommandRunner) flowgraph.Context {
	t.Helper()

	base := WithEngine(testutil.TestContext(t), engine)
	if gitCtx != nil {
		base = git.ContextWithGit(base, gitCtx)
	}
	if runner != nil {
		base = WithRunner(base, runner)
	}
	return flowgraph.NewContext(base)
}

func TestPickupGraph_EndsWhenNothingEligible(t *testing.T) {
	tracker := testutil.NewFakeTracker(issueflow.Issue{
		ID:           "ASA-1",
		CurrentState: "Backlog", // not a pickup state
	})
	engine := issueflow.NewEngine(tracker, issueflow.LinearVocabulary(), issueflow.LinearRanker())

	compiled, err := NewPickupGraph().Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	result, err := compiled.Run(runContext(t, engine, nil, nil), NewState(linearConfig()))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Issue != nil {
		t.Errorf("Issue = %v, want nil", result.Issue)
	}
	if len(tracker.Moves) != 0 {
		t.Errorf("Moves = %v, want none", tracker.Moves)
	}
}

func TestPickupGraph_ClaimsHighestPriority(t *testing.T) {
	tracker := testutil.NewFakeTracker(
		issueflow.Issue{
			ID: "ASA-1", Title: "Low prio chore", CurrentState: "Todo",
			PriorityCode: 4, CreatedAt: time.Now().Add(-48 * time.Hour),
		},
		issueflow.Issue{
			ID: "ASA-2", Title: "Urgent fix", CurrentState: "Dev Ready",
			PriorityCode: 1, CreatedAt: time.Now().Add(-1 * time.Hour),
		},
	)
	engine := issueflow.NewEngine(tracker, issueflow.LinearVocabulary(), issueflow.LinearRanker())

	repo := testutil.SetupTestRepo(t)
	gitCtx, err := git.NewContext(repo)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}

	compiled, err := NewPickupGraph().Compile()
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	result, err := compiled.Run(runContext(t, engine, gitCtx, nil), NewState(linearConfig()))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Issue == nil || result.Issue.ID != "ASA-2" {
		t.Fatalf("picked %+v, want ASA-2", result.Issue)
	}
	if len(tracker.Moves) != 1 || tracker.Moves[0] != "ASA-2 -> In Progress" {
		t.Errorf("Moves = %v", tracker.Moves)
	}

	if result.Branch != "issue/asa-2-urgent-fix" {
		t.Errorf("Branch = %q", result.Branch)
	}
	if _, err := os.Stat(result.Worktree); err != nil {
		t.Errorf("worktree missing: %v", err)
	}

	if !result.PlanCommentPosted || len(tracker.Comments) != 1 {
		t.Fatalf("plan comment not posted: %v", tracker.Comments)
	}
	if !strings.Contains(tracker.Comments[0], result.Branch) {
		t.Errorf("plan comment missing branch: %s", tracker.Comments[0])
	}
}

func TestRunTestsNode(t *testing.T) {
	runner := git.NewSequentialMockRunner()
	runner.AddOutput("ok  \tissueflow\t0.05s", nil)

	ctx := flowgraph.NewContext(WithRunner(context.Background(), runner))

	state := NewState(linearConfig())
	state.Worktree = t.TempDir()

	result, err := RunTestsNode(ctx, state)
	if err != nil {
		t.Fatalf("RunTestsNode() error = %v", err)
	}

	if !result.TestsPassed {
		t.Error("TestsPassed = false")
	}
	if !strings.Contains(result.TestResults, "ok") {
		t.Errorf("TestResults = %q", result.TestResults)
	}
	if len(runner.Calls) != 1 || runner.Calls[0][0] != "sh" {
		t.Errorf("Calls = %v", runner.Calls)
	}
}

func TestRunTestsNode_Failure(t *testing.T) {
	runner := git.NewSequentialMockRunner()
	runner.AddOutputError("--- FAIL: TestThing", "exit status 1", nil)

	ctx := flowgraph.NewContext(WithRunner(context.Background(), runner))

	state := NewState(linearConfig())
	state.Worktree = t.TempDir()

	result, err := RunTestsNode(ctx, state)
	if err != nil {
		t.Fatalf("RunTestsNode() error = %v, failures should not fail the node", err)
	}
	if result.TestsPassed {
		t.Error("TestsPassed = true, want false")
	}
}

// fakePROpener records the PR it was asked to open.
type fakePROpener struct {
	branch string
	title  string
	err    error
}

func (f *fakePROpener) OpenPullRequest(_ context.Context, branch, title, _ string) (string, error) {
	f.branch = branch
	f.title = title
	if f.err != nil {
		return "", f.err
	}
	return "https://github.com/acme/widgets/pull/9", nil
}

func TestCompleteNode_WithPROpener(t *testing.T) {
	tracker := testutil.NewFakeTracker(issueflow.Issue{
		ID: "7", Title: "Add caching", CurrentState: "in progress",
	})
	engine := issueflow.NewEngine(tracker, issueflow.BoardVocabulary(), issueflow.BoardRanker())

	opener := &fakePROpener{}
	base := WithEngine(context.Background(), engine)
	base = WithPROpener(base, opener)
	ctx := flowgraph.NewContext(base)

	state := NewState(Config{ReviewState: issueflow.BoardReview})
	issue, _ := tracker.GetIssue(context.Background(), "7")
	state.Issue = issue
	state.Branch = "issue/7-add-caching"
	state.Summary = "Added the cache layer."
	state.Confidence = 75

	result, err := CompleteNode(ctx, state)
	if err != nil {
		t.Fatalf("CompleteNode() error = %v", err)
	}

	if opener.branch != "issue/7-add-caching" {
		t.Errorf("PR branch = %q", opener.branch)
	}
	if opener.title != "7: Add caching" {
		t.Errorf("PR title = %q", opener.title)
	}
	if result.PRURL != "https://github.com/acme/widgets/pull/9" {
		t.Errorf("PRURL = %q", result.PRURL)
	}
	if !result.CompletionPosted {
		t.Error("CompletionPosted = false")
	}
	if len(tracker.Moves) != 1 || tracker.Moves[0] != "7 -> review" {
		t.Errorf("Moves = %v", tracker.Moves)
	}
	if len(tracker.Comments) != 1 || !strings.Contains(tracker.Comments[0], "- PR: https://github.com/acme/widgets/pull/9") {
		t.Errorf("Comments = %v", tracker.Comments)
	}
}

func TestCompleteNode_PRFailureStillCompletes(t *testing.T) {
	tracker := testutil.NewFakeTracker(issueflow.Issue{
		ID: "7", Title: "Add caching", CurrentState: "in progress",
	})
	engine := issueflow.NewEngine(tracker, issueflow.BoardVocabulary(), issueflow.BoardRanker())

	opener := &fakePROpener{err: fmt.Errorf("boom")}
	base := WithEngine(context.Background(), engine)
	base = WithPROpener(base, opener)
	ctx := flowgraph.NewContext(base)

	state := NewState(Config{ReviewState: issueflow.BoardReview})
	issue, _ := tracker.GetIssue(context.Background(), "7")
	state.Issue = issue
	state.Branch = "issue/7-add-caching"
	state.Summary = "Added the cache layer."

	result, err := CompleteNode(ctx, state)
	if err != nil {
		t.Fatalf("CompleteNode() error = %v", err)
	}
	if result.PRURL != "(PR creation failed)" {
		t.Errorf("PRURL = %q", result.PRURL)
	}
	if len(tracker.Moves) != 1 {
		t.Errorf("Moves = %v, want the review move despite PR failure", tracker.Moves)
	}
}
