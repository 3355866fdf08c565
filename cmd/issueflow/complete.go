package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/issueflow/git"
	"github.com/randalmurphal/issueflow/workflow"
)

var (
	completeSummary     string
	completeConfidence  int
	completeTestResults string
	completeBranch      string
	completePRURL       string
)

var completeCmd = &cobra.Command{
	Use:   "complete <issue-id>",
	Short: "Post the completion comment and move the issue to review",
	Long: `Post the structured implementation-complete comment on an issue and
move it to the review state. The test results may be inline or read
from a file.

Examples:
  issueflow complete ASA-42 --summary "Implemented retry logic" --confidence 85
  issueflow complete 7 --summary "Done" --test-results test-output.txt
  issueflow complete ASA-42 --summary "Done" --pr https://github.com/acme/widgets/pull/9`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().StringVar(&completeSummary, "summary", "", "What was implemented (required)")
	completeCmd.Flags().IntVar(&completeConfidence, "confidence", 0, "Confidence score, 0-100")
	completeCmd.Flags().StringVar(&completeTestResults, "test-results", "", "Test output, inline or a filename")
	completeCmd.Flags().StringVar(&completeBranch, "branch", "", "Work branch (derived from the issue when empty)")
	completeCmd.Flags().StringVar(&completePRURL, "pr", "", "Pull request URL to link")
	_ = completeCmd.MarkFlagRequired("summary")
}

func runComplete(cmd *cobra.Command, args []string) error {
	if completeConfidence < 0 || completeConfidence > 100 {
		return fmt.Errorf("confidence %d out of range 0-100", completeConfidence)
	}

	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}

	issue, err := a.engine.Tracker().GetIssue(ctx, args[0])
	if err != nil {
		return err
	}

	branch := completeBranch
	if branch == "" {
		namer := git.DefaultBranchNamer()
		if a.settings.BranchPrefix != "" {
			namer.Prefix = a.settings.BranchPrefix
		}
		branch = namer.ForIssue(issue.ID, issue.Title)
	}

	testResults := completeTestResults
	if testResults != "" {
		if data, readErr := os.ReadFile(testResults); readErr == nil {
			testResults = string(data)
		}
	}

	err = workflow.PostCompletion(ctx, a.engine, issue, workflow.Completion{
		Summary:     completeSummary,
		Confidence:  completeConfidence,
		TestResults: testResults,
		Branch:      branch,
		PRURL:       completePRURL,
	}, a.reviewState)
	if err != nil {
		return err
	}

	fmt.Printf("%s completed and moved to %s\n", issue.ID, a.reviewState)
	return nil
}
