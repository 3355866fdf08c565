package issueflow_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/randalmurphal/issueflow"
	"github.com/randalmurphal/issueflow/testutil"
)

func day(n int) time.Time {
	return time.Date(2026, 3, n, 0, 0, 0, 0, time.UTC)
}

func linearEngine(tracker issueflow.Tracker) *issueflow.Engine {
	return issueflow.NewEngine(tracker, issueflow.LinearVocabulary(), issueflow.LinearRanker())
}

func boardEngine(tracker issueflow.Tracker) *issueflow.Engine {
	return issueflow.NewEngine(tracker, issueflow.BoardVocabulary(), issueflow.BoardRanker())
}

func TestPickupSelectsHighestPriorityAcrossStates(t *testing.T) {
	// A is older but Medium; B is newer but Critical. Critical wins.
	tracker := testutil.NewFakeTracker(
		issueflow.Issue{ID: "A", Title: "medium todo", CurrentState: "todo",
			Labels: []string{"P: Medium"}, CreatedAt: day(1)},
		issueflow.Issue{ID: "B", Title: "critical dev ready", CurrentState: "dev ready",
			Labels: []string{"P: Critical"}, CreatedAt: day(2)},
	)
	engine := boardEngine(tracker)

	picked, err := engine.Pickup(context.Background(), issueflow.PickupOptions{
		States: issueflow.BoardPickupStates,
	})
	if err != nil {
		t.Fatalf("Pickup() error: %v", err)
	}
	if picked == nil {
		t.Fatal("Pickup() returned nil, want issue B")
	}
	if picked.Issue.ID != "B" {
		t.Errorf("Pickup() = %s, want B", picked.Issue.ID)
	}
	if picked.FoundIn != issueflow.BoardDevReady {
		t.Errorf("FoundIn = %q, want %q", picked.FoundIn, issueflow.BoardDevReady)
	}
}

func TestPickupTieBreaksByAge(t *testing.T) {
	tracker := testutil.NewFakeTracker(
		issueflow.Issue{ID: "ASA-1", CurrentState: "Todo", PriorityCode: 4, CreatedAt: day(3)},
		issueflow.Issue{ID: "ASA-2", CurrentState: "Todo", PriorityCode: 2, CreatedAt: day(1)},
		issueflow.Issue{ID: "ASA-3", CurrentState: "Dev Ready", PriorityCode: 2, CreatedAt: day(2)},
	)
	engine := linearEngine(tracker)

	picked, err := engine.Pickup(context.Background(), issueflow.PickupOptions{
		States: issueflow.LinearPickupStates,
	})
	if err != nil {
		t.Fatalf("Pickup() error: %v", err)
	}
	if picked == nil || picked.Issue.ID != "ASA-2" {
		t.Fatalf("Pickup() = %v, want ASA-2 (High, oldest)", picked)
	}
}

func TestPickupEmpty(t *testing.T) {
	engine := linearEngine(testutil.NewFakeTracker())

	picked, err := engine.Pickup(context.Background(), issueflow.PickupOptions{
		States: issueflow.LinearPickupStates,
	})
	if err != nil {
		t.Fatalf("Pickup() over empty backend should not error, got %v", err)
	}
	if picked != nil {
		t.Errorf("Pickup() = %v, want nil", picked)
	}
}

func TestPickupBackendErrorIsDistinguishable(t *testing.T) {
	tracker := testutil.NewFakeTracker()
	tracker.ListErr = errors.New("boom: api unavailable")
	engine := linearEngine(tracker)

	_, err := engine.Pickup(context.Background(), issueflow.PickupOptions{
		States: issueflow.LinearPickupStates,
	})
	if err == nil {
		t.Fatal("Pickup() should surface backend errors")
	}
	if !strings.Contains(err.Error(), "api unavailable") {
		t.Errorf("backend error should surface verbatim, got %v", err)
	}
}

func TestPickupMilestoneScope(t *testing.T) {
	tracker := testutil.NewFakeTracker(
		issueflow.Issue{ID: "1", CurrentState: "todo", Milestone: "Phase 1",
			Labels: []string{"P: low"}, CreatedAt: day(1)},
		issueflow.Issue{ID: "2", CurrentState: "todo", Milestone: "Phase 2",
			Labels: []string{"P: Critical"}, CreatedAt: day(2)},
	)
	engine := boardEngine(tracker)

	picked, err := engine.Pickup(context.Background(), issueflow.PickupOptions{
		States:    issueflow.BoardPickupStates,
		Milestone: "Phase 1",
	})
	if err != nil {
		t.Fatalf("Pickup() error: %v", err)
	}
	if picked == nil || picked.Issue.ID != "1" {
		t.Fatalf("Pickup(milestone=Phase 1) = %v, want issue 1", picked)
	}
}

func TestPickupAndClaim(t *testing.T) {
	tracker := testutil.NewFakeTracker(
		issueflow.Issue{ID: "ASA-7", CurrentState: "Dev Ready", PriorityCode: 1, CreatedAt: day(1)},
	)
	engine := linearEngine(tracker)

	picked, err := engine.PickupAndClaim(context.Background(), issueflow.PickupOptions{
		States: issueflow.LinearPickupStates,
	}, issueflow.StateInProgress)
	if err != nil {
		t.Fatalf("PickupAndClaim() error: %v", err)
	}
	if picked == nil || picked.Issue.ID != "ASA-7" {
		t.Fatalf("PickupAndClaim() = %v, want ASA-7", picked)
	}
	if picked.Issue.CurrentState != string(issueflow.StateInProgress) {
		t.Errorf("claimed issue state = %q, want In Progress", picked.Issue.CurrentState)
	}

	stored, _ := tracker.Issue("ASA-7")
	if stored.CurrentState != "In Progress" {
		t.Errorf("backend state = %q, want In Progress", stored.CurrentState)
	}
}

func TestMoveValidTransition(t *testing.T) {
	tracker := testutil.NewFakeTracker(
		issueflow.Issue{ID: "ASA-9", CurrentState: "In Progress", CreatedAt: day(1)},
	)
	engine := linearEngine(tracker)

	issue, _ := tracker.Issue("ASA-9")
	if err := engine.Move(context.Background(), &issue, "in review"); err != nil {
		t.Fatalf("Move() error: %v", err)
	}

	if len(tracker.Moves) != 1 || tracker.Moves[0] != "ASA-9 -> In Review" {
		t.Errorf("Moves = %v, want single move to In Review", tracker.Moves)
	}
}

func TestMoveUnknownStateSurfacesCanonicalList(t *testing.T) {
	tracker := testutil.NewFakeTracker(
		issueflow.Issue{ID: "ASA-9", CurrentState: "Todo", CreatedAt: day(1)},
	)
	engine := linearEngine(tracker)

	issue, _ := tracker.Issue("ASA-9")
	err := engine.Move(context.Background(), &issue, "not-a-real-state")

	var unknown *issueflow.UnknownStateError
	if !errors.As(err, &unknown) {
		t.Fatalf("Move() error = %v, want *UnknownStateError", err)
	}
	if unknown.Requested != "not-a-real-state" {
		t.Errorf("Requested = %q", unknown.Requested)
	}
	if len(unknown.Known) != 6 {
		t.Errorf("Known = %v, want full canonical list", unknown.Known)
	}
	for _, state := range issueflow.LinearVocabulary().States() {
		if !strings.Contains(err.Error(), string(state)) {
			t.Errorf("error message should enumerate %q, got %q", state, err.Error())
		}
	}
	if len(tracker.Moves) != 0 {
		t.Error("no mutation may happen on validation failure")
	}
}

func TestMoveIllegalTransitionNamesEndpoints(t *testing.T) {
	tracker := testutil.NewFakeTracker(
		issueflow.Issue{ID: "ASA-9", CurrentState: "Done", CreatedAt: day(1)},
	)
	engine := linearEngine(tracker)

	issue, _ := tracker.Issue("ASA-9")
	err := engine.Move(context.Background(), &issue, "Todo")

	var illegal *issueflow.IllegalTransitionError
	if !errors.As(err, &illegal) {
		t.Fatalf("Move() error = %v, want *IllegalTransitionError", err)
	}
	if illegal.From != issueflow.StateDone || illegal.To != issueflow.StateTodo {
		t.Errorf("endpoints = (%q, %q), want (Done, Todo)", illegal.From, illegal.To)
	}
	if len(illegal.Allowed) == 0 {
		t.Error("Allowed should list the legal targets")
	}
	if len(tracker.Moves) != 0 {
		t.Error("no mutation may happen on validation failure")
	}
}

func TestMoveBackendErrorVerbatim(t *testing.T) {
	tracker := testutil.NewFakeTracker(
		issueflow.Issue{ID: "ASA-9", CurrentState: "Todo", CreatedAt: day(1)},
	)
	backendErr := errors.New("403 insufficient scopes")
	tracker.SetStateErr = backendErr
	engine := linearEngine(tracker)

	issue, _ := tracker.Issue("ASA-9")
	err := engine.Move(context.Background(), &issue, "Dev Ready")
	if !errors.Is(err, backendErr) {
		t.Errorf("Move() error = %v, want backend error surfaced verbatim", err)
	}
}

func TestMoveByID(t *testing.T) {
	tracker := testutil.NewFakeTracker(
		issueflow.Issue{ID: "42", CurrentState: "dev ready", CreatedAt: day(1)},
	)
	engine := boardEngine(tracker)

	if err := engine.MoveByID(context.Background(), "42", "in progress"); err != nil {
		t.Fatalf("MoveByID() error: %v", err)
	}
	stored, _ := tracker.Issue("42")
	if stored.CurrentState != "in progress" {
		t.Errorf("state = %q, want in progress", stored.CurrentState)
	}

	err := engine.MoveByID(context.Background(), "99", "done")
	if !errors.Is(err, issueflow.ErrIssueNotFound) {
		t.Errorf("MoveByID(missing) = %v, want ErrIssueNotFound", err)
	}
}
