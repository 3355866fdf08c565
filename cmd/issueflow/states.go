package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "Check the backend's workflow states against the vocabulary",
	Long: `List the workflow states the backend actually has and check them
against the canonical vocabulary. Missing states block automated
transitions; extra states are reported but harmless.

Examples:
  issueflow states`,
	RunE: runStates,
}

func runStates(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}

	infos, err := a.engine.Tracker().ListWorkflowStates(ctx)
	if err != nil {
		return err
	}

	names := make([]string, len(infos))
	fmt.Println("Backend states:")
	for i, info := range infos {
		names[i] = info.Name
		fmt.Printf("  %d. %s\n", info.Position, info.Name)
	}

	check := a.engine.Vocabulary().CheckStates(names)

	if len(check.Missing) > 0 {
		fmt.Println("\nMissing canonical states:")
		for _, state := range check.Missing {
			fmt.Printf("  - %s\n", state)
		}
	}
	if len(check.Extra) > 0 {
		fmt.Println("\nUnrecognized backend states:")
		for _, name := range check.Extra {
			fmt.Printf("  - %s\n", name)
		}
	}

	if !check.Valid {
		return fmt.Errorf("backend is missing %d required workflow state(s)", len(check.Missing))
	}
	fmt.Println("\nAll canonical states present.")
	return nil
}
