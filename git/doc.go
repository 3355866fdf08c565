// Package git provides the git plumbing for issue development:
// branch naming from tracker identifiers, isolated worktrees with
// .worktreeinclude file copying, commits, and pushes.
//
// Core types:
//   - Context: Git repository context with worktree and branch operations
//   - CommandRunner: Interface for executing git commands (with mock for testing)
//   - BranchNamer: Generates issue branch names ("issue/asa-42-fix-login")
//   - CommitMessage: Conventional commit message builder
//
// Example usage:
//
//	gitCtx, err := git.NewContext("/path/to/repo")
//	branch := git.BranchForIssue("ASA-42", "Fix login bug")
//	worktree, err := gitCtx.CreateWorktree(branch)
//	defer gitCtx.CleanupWorktree(worktree)
package git
