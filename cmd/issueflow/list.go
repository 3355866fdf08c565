package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/issueflow"
)

var (
	listState string
	listLimit int
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List open issues",
	Long: `List open issues from the configured backend.

Examples:
  issueflow list
  issueflow list --state "Dev Ready"
  issueflow list --milestone v2.1 --json`,
	RunE: runListIssues,
}

func init() {
	listCmd.Flags().StringVar(&listState, "state", "", "Filter by workflow state")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of issues to return")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}

func runListIssues(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}

	issues, err := a.engine.Tracker().ListIssues(ctx, issueflow.IssueFilter{
		State:     listState,
		Milestone: a.settings.Milestone,
		Limit:     listLimit,
	})
	if err != nil {
		return err
	}

	a.engine.Ranker().Sort(issues)

	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(issues)
	}

	if len(issues) == 0 {
		fmt.Println("No issues found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE\tPRIORITY\tTITLE")
	for _, issue := range issues {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			issue.ID, issue.CurrentState, priorityString(issue), issue.Title)
	}
	return w.Flush()
}

// priorityString renders whichever priority signal the backend carries.
func priorityString(issue issueflow.Issue) string {
	if issue.PriorityLabel != "" {
		return issue.PriorityLabel
	}
	if issue.PriorityCode != 0 {
		return fmt.Sprintf("%d", issue.PriorityCode)
	}
	return "-"
}
