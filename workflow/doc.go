// Package workflow orchestrates automated issue runs: pick up the
// highest-priority eligible issue, claim it, provision a worktree, and
// post the completion comment when the work is done.
//
// Core types:
//   - State: Run state carrying the selected issue, git workspace, and
//     completion inputs
//   - Config: Per-run settings (pickup states, work/review states,
//     branch prefix, test command)
//   - Completion: Inputs for the structured completion comment
//
// Run nodes:
//   - PickupNode: Selects the next issue (priority then age)
//   - ClaimNode: Moves the issue to the work state
//   - WorktreeNode: Creates the issue worktree and branch
//   - PlanCommentNode: Posts the start-of-work comment
//   - RunTestsNode: Runs the test suite in the worktree
//   - CompleteNode: Posts the completion comment and moves to review
//   - NotifyNode: Sends the terminal run notification
//
// Example usage:
//
//	base := workflow.WithEngine(context.Background(), engine)
//	base = git.ContextWithGit(base, gitCtx)
//	ctx := flowgraph.NewContext(base)
//
//	compiled, err := workflow.NewRunGraph().Compile()
//	state := workflow.NewState(workflow.Config{
//	    PickupStates: issueflow.LinearPickupStates,
//	    WorkState:    issueflow.StateInProgress,
//	    ReviewState:  issueflow.StateInReview,
//	})
//	result, err := compiled.Run(ctx, state)
package workflow
