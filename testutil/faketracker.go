package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/randalmurphal/issueflow"
)

// FakeTracker is an in-memory issueflow.Tracker for engine and workflow
// tests. Issues are matched against filters using the same folding the
// backends apply (case-insensitive, hyphen/underscore as spaces).
type FakeTracker struct {
	mu     sync.Mutex
	issues map[string]issueflow.Issue
	states []issueflow.StateInfo

	// Comments records every PostComment call as "id: body".
	Comments []string

	// Moves records every SetState call as "id -> state".
	Moves []string

	// ListErr, GetErr, CommentErr, SetStateErr force the corresponding
	// call to fail.
	ListErr     error
	GetErr      error
	CommentErr  error
	SetStateErr error

	// ListCalls counts ListIssues invocations.
	ListCalls int
}

// NewFakeTracker creates a tracker seeded with the given issues.
func NewFakeTracker(issues ...issueflow.Issue) *FakeTracker {
	f := &FakeTracker{issues: make(map[string]issueflow.Issue, len(issues))}
	for _, issue := range issues {
		f.issues[issue.ID] = issue
	}
	return f
}

// SetWorkflowStates seeds the states ListWorkflowStates returns.
func (f *FakeTracker) SetWorkflowStates(states []issueflow.StateInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = states
}

// Issue returns the current stored copy of an issue.
func (f *FakeTracker) Issue(id string) (issueflow.Issue, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	issue, ok := f.issues[id]
	return issue, ok
}

func foldState(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// ListIssues implements issueflow.Tracker.
func (f *FakeTracker) ListIssues(_ context.Context, filter issueflow.IssueFilter) ([]issueflow.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	var out []issueflow.Issue
	for _, issue := range f.issues {
		if filter.State != "" && foldState(issue.CurrentState) != foldState(filter.State) {
			continue
		}
		if filter.Milestone != "" && issue.Milestone != filter.Milestone {
			continue
		}
		out = append(out, issue)
	}
	return out, nil
}

// GetIssue implements issueflow.Tracker.
func (f *FakeTracker) GetIssue(_ context.Context, id string) (*issueflow.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.GetErr != nil {
		return nil, f.GetErr
	}
	issue, ok := f.issues[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", issueflow.ErrIssueNotFound, id)
	}
	return &issue, nil
}

// PostComment implements issueflow.Tracker.
func (f *FakeTracker) PostComment(_ context.Context, id, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CommentErr != nil {
		return f.CommentErr
	}
	if _, ok := f.issues[id]; !ok {
		return fmt.Errorf("%w: %s", issueflow.ErrIssueNotFound, id)
	}
	f.Comments = append(f.Comments, id+": "+body)
	return nil
}

// SetState implements issueflow.Tracker.
func (f *FakeTracker) SetState(_ context.Context, id string, state issueflow.CanonicalState) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SetStateErr != nil {
		return f.SetStateErr
	}
	issue, ok := f.issues[id]
	if !ok {
		return fmt.Errorf("%w: %s", issueflow.ErrIssueNotFound, id)
	}
	issue.CurrentState = string(state)
	f.issues[id] = issue
	f.Moves = append(f.Moves, fmt.Sprintf("%s -> %s", id, state))
	return nil
}

// ListWorkflowStates implements issueflow.Tracker.
func (f *FakeTracker) ListWorkflowStates(_ context.Context) ([]issueflow.StateInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states, nil
}
