package issueflow

import (
	"context"
	"fmt"
	"log/slog"
)

// Engine binds a Tracker backend to a Vocabulary and Ranker, providing
// the pickup and transition operations. The engine holds no mutable
// state; each call re-fetches fresh data from the backend.
type Engine struct {
	tracker Tracker
	vocab   *Vocabulary
	ranker  *Ranker
	logger  *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger for selection decisions.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine for one backend flavor.
func NewEngine(tracker Tracker, vocab *Vocabulary, ranker *Ranker, opts ...EngineOption) *Engine {
	e := &Engine{
		tracker: tracker,
		vocab:   vocab,
		ranker:  ranker,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Vocabulary returns the engine's state vocabulary.
func (e *Engine) Vocabulary() *Vocabulary {
	return e.vocab
}

// Ranker returns the engine's priority model.
func (e *Engine) Ranker() *Ranker {
	return e.ranker
}

// Tracker returns the underlying backend.
func (e *Engine) Tracker() Tracker {
	return e.tracker
}

// Candidate is an issue selected for pickup, tagged with the eligible
// state it was found in.
type Candidate struct {
	Issue   Issue
	FoundIn CanonicalState
}

// PickupOptions controls issue selection.
type PickupOptions struct {
	// States are the pickup-eligible states, scanned in order. Empty
	// means the caller's flavor default (LinearPickupStates or
	// BoardPickupStates); the engine does not guess, so empty yields no
	// candidates.
	States []CanonicalState

	// Milestone scopes the search (backends that support it).
	Milestone string
}

// Pickup selects the next issue for automated work: the highest-priority,
// oldest issue across the eligible states. Returns (nil, nil) when no
// issue qualifies. The selection is deterministic for a given backend
// snapshot and performs no writes.
func (e *Engine) Pickup(ctx context.Context, opts PickupOptions) (*Candidate, error) {
	var merged []Issue
	foundIn := make(map[string]CanonicalState)

	for _, state := range opts.States {
		issues, err := e.tracker.ListIssues(ctx, IssueFilter{
			State:     string(state),
			Milestone: opts.Milestone,
		})
		if err != nil {
			return nil, fmt.Errorf("list issues in %q: %w", state, err)
		}
		for _, issue := range issues {
			// State is singular per issue; first scanned state wins.
			if _, seen := foundIn[issue.ID]; seen {
				continue
			}
			foundIn[issue.ID] = state
			merged = append(merged, issue)
		}
	}

	if len(merged) == 0 {
		return nil, nil
	}

	e.ranker.Sort(merged)
	best := merged[0]

	e.logger.Debug("pickup selected issue",
		"issue", best.ID,
		"state", foundIn[best.ID],
		"rank", e.ranker.Rank(best),
		"candidates", len(merged))

	return &Candidate{Issue: best, FoundIn: foundIn[best.ID]}, nil
}

// PickupAndClaim selects the next issue and immediately moves it to the
// claim state as an optimistic reservation. Two workers racing on the
// same snapshot will collide on the backend mutation instead of silently
// double-picking. Returns (nil, nil) when nothing is eligible.
func (e *Engine) PickupAndClaim(ctx context.Context, opts PickupOptions, claimState CanonicalState) (*Candidate, error) {
	picked, err := e.Pickup(ctx, opts)
	if err != nil || picked == nil {
		return picked, err
	}
	if err := e.Move(ctx, &picked.Issue, string(claimState)); err != nil {
		return nil, fmt.Errorf("claim %s: %w", picked.Issue.ID, err)
	}
	picked.Issue.CurrentState = string(claimState)
	return picked, nil
}

// Move validates and applies a state transition. The target may be any
// recognized spelling; it is normalized first. Exactly one backend
// mutation happens, and only after validation passes:
//
//   - unrecognized target: *UnknownStateError with the canonical list
//   - disallowed pair: *IllegalTransitionError with the legal targets
//   - backend failure: surfaced verbatim, no retry
func (e *Engine) Move(ctx context.Context, issue *Issue, target string) error {
	canonical, ok := e.vocab.Normalize(target)
	if !ok {
		return &UnknownStateError{Requested: target, Known: e.vocab.States()}
	}

	from, ok := e.vocab.Normalize(issue.CurrentState)
	if !ok {
		return &UnknownStateError{Requested: issue.CurrentState, Known: e.vocab.States()}
	}

	if !e.vocab.IsValidTransition(from, canonical) {
		return &IllegalTransitionError{
			From:    from,
			To:      canonical,
			Allowed: e.vocab.AllowedFrom(from),
		}
	}

	if err := e.tracker.SetState(ctx, issue.ID, canonical); err != nil {
		return err
	}

	e.logger.Info("moved issue", "issue", issue.ID, "from", from, "to", canonical)
	return nil
}

// MoveByID fetches the issue and applies Move.
func (e *Engine) MoveByID(ctx context.Context, id, target string) error {
	issue, err := e.tracker.GetIssue(ctx, id)
	if err != nil {
		return err
	}
	return e.Move(ctx, issue, target)
}
