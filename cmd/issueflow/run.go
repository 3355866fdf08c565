package main

import (
	"fmt"

	"github.com/randalmurphal/flowgraph/pkg/flowgraph"
	"github.com/spf13/cobra"

	"github.com/randalmurphal/issueflow/git"
	"github.com/randalmurphal/issueflow/notify"
	"github.com/randalmurphal/issueflow/workflow"
)

var (
	runTestCommand string
	runPickupOnly  bool
	runSummary     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the automated issue workflow",
	Long: `Run the full workflow graph: pick up the next eligible issue, claim
it, create an isolated worktree, post the start-of-work comment, run the
test suite, and post the completion scaffold.

With --pickup-only the run stops after the worktree and plan comment,
leaving implementation and completion to the agent.

Examples:
  issueflow run
  issueflow run --pickup-only
  issueflow run --test-command "make test"`,
	RunE: runWorkflow,
}

func init() {
	runCmd.Flags().StringVar(&runTestCommand, "test-command", "", "Command executed in the worktree for the test phase")
	runCmd.Flags().BoolVar(&runPickupOnly, "pickup-only", false, "Stop after claiming and provisioning the worktree")
	runCmd.Flags().StringVar(&runSummary, "summary", "Automated run; see test results.", "Summary for the completion comment (full run only)")
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}

	gitCtx, err := a.gitContext()
	if err != nil {
		return err
	}

	cfg := a.workflowConfig()
	cfg.TestCommand = runTestCommand

	base := workflow.WithEngine(ctx, a.engine)
	base = git.ContextWithGit(base, gitCtx)
	base = notify.WithNotifier(base, a.notifier())
	if a.prOpener != nil {
		base = workflow.WithPROpener(base, a.prOpener)
	}

	graph := workflow.NewRunGraph()
	if runPickupOnly {
		graph = workflow.NewPickupGraph()
	}
	compiled, err := graph.Compile()
	if err != nil {
		return err
	}

	state := workflow.NewState(cfg)
	if !runPickupOnly {
		state.Summary = runSummary
	}

	result, err := compiled.Run(flowgraph.NewContext(base), state)
	if err != nil {
		return err
	}

	if result.Issue == nil {
		fmt.Println("No eligible issues.")
		return nil
	}

	fmt.Println(result.Summarize())
	if result.Worktree != "" {
		fmt.Printf("Worktree: %s\n", result.Worktree)
	}
	if result.PRURL != "" {
		fmt.Printf("PR: %s\n", result.PRURL)
	}
	return nil
}
