// Package main provides the issueflow CLI: priority-ordered issue
// pickup and workflow transitions across Linear, GitHub Projects, and
// GitLab boards.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	flowerrors "github.com/randalmurphal/issueflow/errors"
)

// Global flags
var (
	backendFlag   string
	milestoneFlag string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "issueflow",
	Short: "Pick up, move, and report on tracker issues",
	Long: `issueflow drives an automated development workflow against an issue
tracker: it selects the highest-priority eligible issue, claims it,
provisions an isolated git worktree, and posts structured progress
comments as work moves through the board.

Backends: linear (default), github (Projects V2), gitlab (boards).
Configure via .issueflow.yaml, ~/.config/issueflow/config.yaml, or
ISSUEFLOW_* environment variables. Credentials come from the backend's
own variables (LINEAR_API_KEY, GITHUB_TOKEN, GITLAB_TOKEN, ...).

Examples:
  issueflow list --state "Dev Ready"
  issueflow pickup --claim
  issueflow move ASA-42 --to "In Review"
  issueflow complete ASA-42 --summary "Implemented retry logic"
  issueflow report --milestone v2.1`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Tracker backend: linear, github, or gitlab (overrides config)")
	rootCmd.PersistentFlags().StringVar(&milestoneFlag, "milestone", "", "Scope operations to a milestone (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(pickupCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(statesCmd)
	rootCmd.AddCommand(worktreeCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *flowerrors.CLIError
		if errors.As(err, &cliErr) {
			fmt.Fprintln(os.Stderr, "Error: "+cliErr.Error())
		} else {
			fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		}
		os.Exit(1)
	}
}
