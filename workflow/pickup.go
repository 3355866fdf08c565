package workflow

import (
	"fmt"
	"time"

	"github.com/randalmurphal/flowgraph/pkg/flowgraph"

	"github.com/randalmurphal/issueflow"
	"github.com/randalmurphal/issueflow/notify"
)

// PickupNode selects the next issue to work on.
//
// Updates: state.Issue, state.FoundIn
//
// Finding nothing is not an error; the pickup router ends the run.
func PickupNode(ctx flowgraph.Context, state State) (State, error) {
	engine := EngineFromContext(ctx)
	if engine == nil {
		return state, fmt.Errorf("issueflow.Engine not found in context")
	}

	candidate, err := engine.Pickup(ctx, issueflow.PickupOptions{
		States:    state.Config.PickupStates,
		Milestone: state.Config.Milestone,
	})
	if err != nil {
		state.SetError(err)
		return state, err
	}
	if candidate == nil {
		return state, nil
	}

	state.Issue = &candidate.Issue
	state.FoundIn = candidate.FoundIn

	emit(ctx, state, notify.EventIssuePicked,
		fmt.Sprintf("Picked %s: %s", candidate.Issue.ID, candidate.Issue.Title))

	return state, nil
}

// PickupRouter ends the run when pickup found nothing, otherwise
// proceeds to the claim node.
func PickupRouter(ctx flowgraph.Context, state State) string {
	if state.Issue == nil {
		return flowgraph.END
	}
	return NodeClaim
}

// ClaimNode moves the picked issue to the work state so other agents
// skip it.
//
// Prerequisites: state.Issue
// Updates: state.Issue.CurrentState
func ClaimNode(ctx flowgraph.Context, state State) (State, error) {
	if err := state.Validate(RequireIssue); err != nil {
		return state, err
	}

	engine := EngineFromContext(ctx)
	if engine == nil {
		return state, fmt.Errorf("issueflow.Engine not found in context")
	}

	workState := state.Config.WorkState
	if workState == "" {
		return state, fmt.Errorf("work state not configured")
	}

	if err := engine.Move(ctx, state.Issue, string(workState)); err != nil {
		state.SetError(err)
		return state, err
	}
	state.Issue.CurrentState = string(workState)

	emit(ctx, state, notify.EventIssueClaimed,
		fmt.Sprintf("Claimed %s into %s", state.Issue.ID, workState))

	return state, nil
}

// emit sends a notification if a notifier is configured. Notification
// failures never fail the run.
func emit(ctx flowgraph.Context, state State, eventType notify.EventType, message string) {
	notifier := notify.NotifierFromContext(ctx)
	if notifier == nil {
		return
	}

	issue := ""
	if state.Issue != nil {
		issue = state.Issue.ID
	}

	_ = notifier.Notify(ctx, notify.Event{
		Type:      eventType,
		RunID:     state.RunID,
		Issue:     issue,
		Message:   message,
		Severity:  notify.SeverityInfo,
		Timestamp: time.Now(),
	})
}
