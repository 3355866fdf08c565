package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/issueflow"
)

var pickupClaim bool

var pickupCmd = &cobra.Command{
	Use:   "pickup",
	Short: "Select the next issue to work on",
	Long: `Select the highest-priority issue from the pickup states, oldest
first within a priority. With --claim the issue is immediately moved to
the work state so other agents skip it.

Examples:
  issueflow pickup
  issueflow pickup --claim`,
	RunE: runPickup,
}

func init() {
	pickupCmd.Flags().BoolVar(&pickupClaim, "claim", false, "Move the selected issue to the work state")
}

func runPickup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}

	opts := issueflow.PickupOptions{
		States:    a.pickupStates,
		Milestone: a.settings.Milestone,
	}

	var candidate *issueflow.Candidate
	if pickupClaim {
		candidate, err = a.engine.PickupAndClaim(ctx, opts, a.workState)
	} else {
		candidate, err = a.engine.Pickup(ctx, opts)
	}
	if err != nil {
		return err
	}
	if candidate == nil {
		fmt.Println("No eligible issues.")
		return nil
	}

	issue := candidate.Issue
	fmt.Printf("%s: %s\n", issue.ID, issue.Title)
	fmt.Printf("  Found in: %s\n", candidate.FoundIn)
	fmt.Printf("  Priority: %s\n", priorityString(issue))
	if issue.URL != "" {
		fmt.Printf("  URL:      %s\n", issue.URL)
	}
	if pickupClaim {
		fmt.Printf("  Claimed into %s\n", a.workState)
	}
	return nil
}
