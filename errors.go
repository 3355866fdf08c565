package issueflow

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by the engine and the Tracker backends.
var (
	// ErrIssueNotFound indicates the backend has no issue with that ID.
	ErrIssueNotFound = errors.New("issue not found")

	// ErrStateNotFound indicates a canonical state has no counterpart
	// among the backend's configured workflow states.
	ErrStateNotFound = errors.New("workflow state not found on backend")

	// ErrNoBoard indicates the repository has no linked project board.
	ErrNoBoard = errors.New("no project board found")
)

// UnknownStateError reports a requested target state that does not
// normalize to any canonical name. It carries the full canonical list so
// callers can self-correct.
type UnknownStateError struct {
	Requested string
	Known     []CanonicalState
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("unknown workflow state %q (known states: %s)",
		e.Requested, joinStates(e.Known))
}

// IllegalTransitionError reports a recognized target that the workflow
// topology does not allow from the issue's current state. Allowed lists
// the legal targets from that state.
type IllegalTransitionError struct {
	From    CanonicalState
	To      CanonicalState
	Allowed []CanonicalState
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition %q → %q (allowed from %q: %s)",
		e.From, e.To, e.From, joinStates(e.Allowed))
}

func joinStates(states []CanonicalState) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = fmt.Sprintf("%q", string(s))
	}
	return strings.Join(parts, ", ")
}
