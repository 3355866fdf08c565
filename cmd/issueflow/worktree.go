package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/issueflow/git"
)

var worktreeForce bool

var worktreeCmd = &cobra.Command{
	Use:   "worktree",
	Short: "Manage issue worktrees",
	Long: `Create, list, and remove the isolated worktrees issueflow uses for
implementation work. Worktrees live under the configured worktree
directory (default .worktrees) and untracked files matched by
.worktreeinclude are copied into new ones.`,
}

var worktreeCreateCmd = &cobra.Command{
	Use:   "create <issue-id> [title]",
	Short: "Create a worktree and branch for an issue",
	Long: `Create a worktree on a fresh issue branch. The branch name is derived
from the issue identifier and title; the title is fetched from the
backend when not given.

Examples:
  issueflow worktree create ASA-42
  issueflow worktree create 7 "Add caching"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runWorktreeCreate,
}

var worktreeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List worktrees in the repository",
	RunE:  runWorktreeList,
}

var worktreeRemoveCmd = &cobra.Command{
	Use:   "remove <branch>",
	Short: "Remove the worktree for a branch and delete the branch",
	Long: `Remove a worktree and delete its branch. Refuses when the worktree
has uncommitted changes unless --force is given.

Examples:
  issueflow worktree remove issue/asa-42-fix-login
  issueflow worktree remove issue/asa-42-fix-login --force`,
	Args: cobra.ExactArgs(1),
	RunE: runWorktreeRemove,
}

func init() {
	worktreeRemoveCmd.Flags().BoolVar(&worktreeForce, "force", false, "Remove even with uncommitted changes")

	worktreeCmd.AddCommand(worktreeCreateCmd)
	worktreeCmd.AddCommand(worktreeListCmd)
	worktreeCmd.AddCommand(worktreeRemoveCmd)
}

func runWorktreeCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}

	gitCtx, err := a.gitContext()
	if err != nil {
		return err
	}

	id := args[0]
	title := ""
	if len(args) > 1 {
		title = args[1]
	} else if issue, getErr := a.engine.Tracker().GetIssue(ctx, id); getErr == nil {
		title = issue.Title
	}

	namer := git.DefaultBranchNamer()
	if a.settings.BranchPrefix != "" {
		namer.Prefix = a.settings.BranchPrefix
	}
	branch := namer.ForIssue(id, title)

	path, err := gitCtx.CreateWorktree(branch)
	if err != nil {
		return err
	}

	fmt.Printf("Created worktree %s on branch %s\n", path, branch)
	return nil
}

func runWorktreeList(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}

	gitCtx, err := a.gitContext()
	if err != nil {
		return err
	}

	worktrees, err := gitCtx.ListWorktrees()
	if err != nil {
		return err
	}
	if len(worktrees) == 0 {
		fmt.Println("No worktrees.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BRANCH\tPATH\tCOMMIT")
	for _, wt := range worktrees {
		branch := wt.Branch
		if branch == "" {
			branch = "(detached)"
		}
		commit := wt.Commit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", branch, wt.Path, commit)
	}
	return w.Flush()
}

func runWorktreeRemove(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}

	gitCtx, err := a.gitContext()
	if err != nil {
		return err
	}

	branch := args[0]
	wt, err := gitCtx.GetWorktree(branch)
	if err != nil {
		return err
	}

	if !worktreeForce {
		clean, cleanErr := gitCtx.InWorktree(wt.Path).IsClean()
		if cleanErr == nil && !clean {
			return fmt.Errorf("%w: %s has uncommitted changes (use --force)",
				git.ErrGitDirty, wt.Path)
		}
	}

	if err := gitCtx.CleanupWorktree(wt.Path); err != nil {
		return err
	}
	if err := gitCtx.DeleteBranch(branch, worktreeForce); err != nil {
		// Worktree is gone; branch deletion failing (unmerged work)
		// should not undo that.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	fmt.Printf("Removed worktree %s\n", wt.Path)
	return nil
}
