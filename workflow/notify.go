package workflow

import (
	"time"

	"github.com/randalmurphal/flowgraph/pkg/flowgraph"

	"github.com/randalmurphal/issueflow/notify"
)

// NotifyNode sends a terminal notification for the run.
//
// This node is placed at the end of the graph. If no notifier is
// configured in the context, this is a no-op.
//
// Updates: state.Duration
func NotifyNode(ctx flowgraph.Context, state State) (State, error) {
	state.FinalizeDuration()

	notifier := notify.NotifierFromContext(ctx)
	if notifier == nil {
		return state, nil
	}

	event := notify.Event{
		Type:      determineEventType(state),
		RunID:     state.RunID,
		Timestamp: time.Now(),
		Metadata:  buildMetadata(state),
	}
	if state.Issue != nil {
		event.Issue = state.Issue.ID
	}

	if state.Error != "" {
		event.Severity = notify.SeverityError
		event.Message = state.Error
	} else {
		event.Severity = notify.SeverityInfo
		event.Message = state.Summarize()
	}

	// Notify but don't fail the run on notification errors
	_ = notifier.Notify(ctx, event)

	return state, nil
}

// determineEventType determines the event type from state.
func determineEventType(state State) notify.EventType {
	if state.Error != "" {
		return notify.EventRunFailed
	}
	return notify.EventRunCompleted
}

// buildMetadata builds notification metadata from state.
func buildMetadata(state State) map[string]any {
	meta := make(map[string]any)

	if state.Branch != "" {
		meta["branch"] = state.Branch
	}
	if state.Worktree != "" {
		meta["worktree"] = state.Worktree
	}
	if state.PRURL != "" {
		meta["prUrl"] = state.PRURL
	}
	if state.TestResults != "" {
		meta["testsPassed"] = state.TestsPassed
	}
	meta["duration"] = state.Duration.String()

	return meta
}
