package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/randalmurphal/flowgraph/pkg/flowgraph"

	"github.com/randalmurphal/issueflow"
	"github.com/randalmurphal/issueflow/notify"
)

// Completion carries the inputs for the completion comment.
type Completion struct {
	Summary     string
	Confidence  int // 0-100
	TestResults string
	Branch      string
	PRURL       string
}

// BuildCompletionComment renders the structured completion comment.
func BuildCompletionComment(issue *issueflow.Issue, c Completion) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Implementation Complete for %s\n\n", issue.ID)
	fmt.Fprintf(&b, "### Summary\n%s\n\n", c.Summary)

	if c.TestResults != "" {
		fmt.Fprintf(&b, "### Test Results\n```\n%s\n```\n\n", strings.TrimRight(c.TestResults, "\n"))
	}

	fmt.Fprintf(&b, "### Confidence Score: %d/100\n\n", c.Confidence)

	b.WriteString("### Ready for Review\n")
	fmt.Fprintf(&b, "- Branch: `%s`\n", c.Branch)
	if c.PRURL != "" {
		fmt.Fprintf(&b, "- PR: %s\n", c.PRURL)
	}
	if issue.URL != "" {
		fmt.Fprintf(&b, "- Issue: %s\n", issue.URL)
	}

	b.WriteString("\n---\n")
	b.WriteString("*Awaiting human review. Move to Done if acceptable, or back to Dev Ready with feedback.*\n")

	return b.String()
}

// PostCompletion posts the completion comment and moves the issue to
// the review state. Used by both CompleteNode and the complete CLI
// command.
func PostCompletion(ctx context.Context, engine *issueflow.Engine, issue *issueflow.Issue, c Completion, reviewState issueflow.CanonicalState) error {
	body := BuildCompletionComment(issue, c)

	if err := engine.Tracker().PostComment(ctx, issue.ID, body); err != nil {
		return fmt.Errorf("post completion comment: %w", err)
	}

	if err := engine.Move(ctx, issue, string(reviewState)); err != nil {
		return fmt.Errorf("move to %s: %w", reviewState, err)
	}

	return nil
}

// CompleteNode posts the completion comment and moves the issue to the
// review state. If a PROpener collaborator is configured, a pull
// request is opened first and linked from the comment.
//
// Prerequisites: state.Issue, state.Branch, state.Summary
// Updates: state.CompletionPosted, state.PRURL, state.Issue.CurrentState
func CompleteNode(ctx flowgraph.Context, state State) (State, error) {
	if err := state.Validate(RequireIssue, RequireBranch, RequireSummary); err != nil {
		return state, err
	}

	engine := EngineFromContext(ctx)
	if engine == nil {
		return state, fmt.Errorf("issueflow.Engine not found in context")
	}

	reviewState := state.Config.ReviewState
	if reviewState == "" {
		return state, fmt.Errorf("review state not configured")
	}

	if opener := PROpenerFromContext(ctx); opener != nil {
		title := fmt.Sprintf("%s: %s", state.Issue.ID, state.Issue.Title)
		body := buildPRBody(state)
		url, err := opener.OpenPullRequest(ctx, state.Branch, title, body)
		if err != nil {
			// The completion comment still goes out; a failed PR is
			// recoverable by hand.
			state.PRURL = "(PR creation failed)"
		} else {
			state.PRURL = url
		}
	}

	c := Completion{
		Summary:     state.Summary,
		Confidence:  state.Confidence,
		TestResults: state.TestResults,
		Branch:      state.Branch,
		PRURL:       state.PRURL,
	}
	if err := PostCompletion(ctx, engine, state.Issue, c, reviewState); err != nil {
		state.SetError(err)
		return state, err
	}

	state.Issue.CurrentState = string(reviewState)
	state.CompletionPosted = true

	emit(ctx, state, notify.EventReviewReady,
		fmt.Sprintf("%s moved to %s", state.Issue.ID, reviewState))

	return state, nil
}

// buildPRBody renders the pull request description.
func buildPRBody(state State) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Summary\n%s\n\n", state.Summary)
	if state.TestResults != "" {
		fmt.Fprintf(&b, "## Test Results\n```\n%s\n```\n\n", strings.TrimRight(state.TestResults, "\n"))
	}
	fmt.Fprintf(&b, "## Confidence Score: %d/100\n\n", state.Confidence)
	fmt.Fprintf(&b, "Closes %s\n", prCloseRef(state.Issue.ID))

	return b.String()
}

// prCloseRef formats the closing reference. Board issue numbers need
// the # marker; Linear identifiers are already linkable.
func prCloseRef(id string) string {
	if id == "" {
		return id
	}
	if id[0] >= '0' && id[0] <= '9' {
		return "#" + id
	}
	return id
}
