package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <issue-id>",
	Short: "Show an issue with its comments",
	Long: `Show one issue in full, including its comments.

Examples:
  issueflow show ASA-42
  issueflow show 7 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}

	issue, err := a.engine.Tracker().GetIssue(ctx, args[0])
	if err != nil {
		return err
	}

	if showJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(issue)
	}

	fmt.Printf("%s: %s\n", issue.ID, issue.Title)
	fmt.Printf("State:    %s\n", issue.CurrentState)
	fmt.Printf("Priority: %s\n", priorityString(*issue))
	if issue.Assignee != "" {
		fmt.Printf("Assignee: %s\n", issue.Assignee)
	}
	if issue.Milestone != "" {
		fmt.Printf("Milestone: %s\n", issue.Milestone)
	}
	if len(issue.Labels) > 0 {
		fmt.Printf("Labels:   %s\n", strings.Join(issue.Labels, ", "))
	}
	if issue.URL != "" {
		fmt.Printf("URL:      %s\n", issue.URL)
	}
	if issue.Body != "" {
		fmt.Printf("\n%s\n", issue.Body)
	}

	if len(issue.Comments) > 0 {
		fmt.Printf("\n--- Comments (%d) ---\n", len(issue.Comments))
		for _, comment := range issue.Comments {
			author := comment.Author
			if author == "" {
				author = "unknown"
			}
			fmt.Printf("\n[%s] %s\n%s\n",
				comment.CreatedAt.Format("2006-01-02 15:04"), author, comment.Body)
		}
	}
	return nil
}
