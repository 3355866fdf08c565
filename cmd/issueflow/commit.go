package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/issueflow/config"
	"github.com/randalmurphal/issueflow/git"
)

var (
	commitType     string
	commitScope    string
	commitBody     string
	commitBreaking bool
	commitPush     bool
)

var commitCmd = &cobra.Command{
	Use:   "commit <subject>",
	Short: "Commit all changes with a conventional-commit message",
	Long: `Stage everything in the working tree and commit it with a
conventional-commit message. When the current branch is an issue
branch, the issue identifier is added as a Refs footer so the tracker
side can trace the commit.

This command only touches the local repository, so no backend
configuration is needed.

Examples:
  issueflow commit "add retry to login flow"
  issueflow commit "handle nil board column" --type fix --scope board
  issueflow commit "rework pickup ordering" --push`,
	Args: cobra.ExactArgs(1),
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().StringVar(&commitType, "type", "feat", "Change type (feat, fix, docs, refactor, ...)")
	commitCmd.Flags().StringVar(&commitScope, "scope", "", "Affected area, added as type(scope)")
	commitCmd.Flags().StringVar(&commitBody, "body", "", "Commit body text")
	commitCmd.Flags().BoolVar(&commitBreaking, "breaking", false, "Mark as a breaking change")
	commitCmd.Flags().BoolVar(&commitPush, "push", false, "Push the branch after committing")
}

func runCommit(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	gitCtx, err := git.NewContext(".", git.WithWorktreeDir(settings.WorktreeDir))
	if err != nil {
		return err
	}

	msg := git.NewCommitMessage(git.CommitType(commitType), args[0]).
		WithBody(commitBody)
	if commitScope != "" {
		msg.WithScope(commitScope)
	}
	if commitBreaking {
		msg.WithBreaking()
	}

	if branch, branchErr := gitCtx.CurrentBranch(); branchErr == nil {
		if issueID, ok := git.ParseIssueBranch(branch); ok {
			msg.WithIssueRef(issueID)
		}
	}

	if err := msg.Validate(); err != nil {
		return err
	}

	if commitPush {
		result, err := gitCtx.CommitAllAndPush(msg.String())
		if err != nil {
			return err
		}
		fmt.Printf("Committed %s on %s and pushed to %s\n",
			shortSHA(result.Commit.SHA), result.Commit.Branch, result.Push.Remote)
		return nil
	}

	commit, err := gitCtx.CommitAll(msg.String())
	if err != nil {
		return err
	}

	fmt.Printf("Committed %s on %s\n", shortSHA(commit.SHA), commit.Branch)
	return nil
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
