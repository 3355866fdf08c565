package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/issueflow"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize issues by state and priority",
	Long: `Build a status report grouping issues by workflow state and by
priority label. Scope with --milestone.

Examples:
  issueflow report
  issueflow report --milestone v2.1
  issueflow report --format json`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "markdown", "Output format: markdown or json")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}

	issues, err := a.engine.Tracker().ListIssues(ctx, issueflow.IssueFilter{
		Milestone: a.settings.Milestone,
	})
	if err != nil {
		return err
	}

	report := a.engine.BuildReport(issues, a.settings.Milestone)

	switch reportFormat {
	case "markdown", "md":
		fmt.Print(report.Render(a.priorityLabels))
		return nil
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		return fmt.Errorf("unknown format %q (markdown or json)", reportFormat)
	}
}
