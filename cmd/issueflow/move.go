package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var moveTo string

var moveCmd = &cobra.Command{
	Use:   "move <issue-id>",
	Short: "Move an issue to another workflow state",
	Long: `Move an issue to another workflow state. Any recognized spelling of
the target works; it is normalized before the transition is validated.
Forward moves are always allowed; backward moves only along the
rejection paths.

Examples:
  issueflow move ASA-42 --to "In Review"
  issueflow move 7 --to wip`,
	Args: cobra.ExactArgs(1),
	RunE: runMove,
}

func init() {
	moveCmd.Flags().StringVar(&moveTo, "to", "", "Target workflow state (required)")
	_ = moveCmd.MarkFlagRequired("to")
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}

	if err := a.engine.MoveByID(ctx, args[0], moveTo); err != nil {
		return err
	}

	fmt.Printf("%s -> %s\n", args[0], moveTo)
	return nil
}
