package workflow

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/flowgraph/pkg/flowgraph"

	"github.com/randalmurphal/issueflow/git"
)

// WorktreeNode creates the isolated worktree for the picked issue.
//
// Prerequisites: state.Issue
// Updates: state.Branch, state.Worktree
//
// An existing worktree for the branch is reused, so interrupted runs
// can resume on the same issue.
func WorktreeNode(ctx flowgraph.Context, state State) (State, error) {
	if err := state.Validate(RequireIssue); err != nil {
		return state, err
	}

	gitCtx := git.GitFromContext(ctx)
	if gitCtx == nil {
		return state, fmt.Errorf("git.Context not found in context")
	}

	namer := git.DefaultBranchNamer()
	if state.Config.BranchPrefix != "" {
		namer.Prefix = state.Config.BranchPrefix
	}
	branch := namer.ForIssue(state.Issue.ID, state.Issue.Title)

	path, err := gitCtx.CreateWorktree(branch)
	if err != nil {
		if errors.Is(err, git.ErrWorktreeExists) {
			existing, getErr := gitCtx.GetWorktree(branch)
			if getErr != nil {
				state.SetError(getErr)
				return state, getErr
			}
			state.Branch = branch
			state.Worktree = existing.Path
			return state, nil
		}
		state.SetError(err)
		return state, err
	}

	state.Branch = branch
	state.Worktree = path
	return state, nil
}

// PlanCommentNode posts a start-of-work comment so humans watching the
// issue know an agent has taken it.
//
// Prerequisites: state.Issue, state.Branch
// Updates: state.PlanCommentPosted
func PlanCommentNode(ctx flowgraph.Context, state State) (State, error) {
	if err := state.Validate(RequireIssue, RequireBranch); err != nil {
		return state, err
	}

	engine := EngineFromContext(ctx)
	if engine == nil {
		return state, fmt.Errorf("issueflow.Engine not found in context")
	}

	body := fmt.Sprintf(
		"Starting work on %s.\n\n- Run: `%s`\n- Branch: `%s`",
		state.Issue.ID, state.RunID, state.Branch)

	if err := engine.Tracker().PostComment(ctx, state.Issue.ID, body); err != nil {
		state.SetError(err)
		return state, err
	}

	state.PlanCommentPosted = true
	return state, nil
}
