package issueflow

import (
	"context"
	"time"
)

// Issue represents a tracked issue from a backend.
// The core never stores issues; every operation works on a fresh read.
type Issue struct {
	// ID is the backend identifier: an issue number like "42" for GitHub
	// and GitLab, or an identifier like "ASA-42" for Linear.
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Body          string            `json:"body,omitempty"`
	URL           string            `json:"url,omitempty"`
	CurrentState  string            `json:"currentState,omitempty"` // Raw backend spelling
	PriorityLabel string            `json:"priorityLabel,omitempty"`
	PriorityCode  int               `json:"priorityCode,omitempty"` // Numeric priority (Linear)
	Labels        []string          `json:"labels,omitempty"`
	Assignee      string            `json:"assignee,omitempty"`
	Milestone     string            `json:"milestone,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	Comments      []Comment         `json:"comments,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Comment is a single comment on an issue.
type Comment struct {
	Author    string    `json:"author,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// StateInfo describes a workflow state as the backend reports it.
type StateInfo struct {
	// NativeID is the backend identifier needed to set this state
	// (a workflow state UUID, a single-select option ID, or a label name).
	NativeID string `json:"nativeId"`
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Position int    `json:"position"`
}

// IssueFilter narrows issue listings.
type IssueFilter struct {
	// State filters by workflow state, in the backend's own spelling.
	// Empty means all states.
	State string

	// Milestone filters by milestone title (GitHub/GitLab). Empty means all.
	Milestone string

	// Limit caps the number of returned issues. Zero means backend default.
	Limit int
}

// Tracker is the contract a backend must satisfy for the core engine.
// Implementations perform real I/O; the engine itself never retries or
// caches, so errors surface verbatim to the caller.
type Tracker interface {
	// ListIssues returns open issues matching the filter.
	ListIssues(ctx context.Context, filter IssueFilter) ([]Issue, error)

	// GetIssue returns a single issue with comments, or ErrIssueNotFound.
	GetIssue(ctx context.Context, id string) (*Issue, error)

	// PostComment adds a comment to an issue.
	PostComment(ctx context.Context, id, body string) error

	// SetState moves an issue to the given canonical state. The tracker
	// resolves the canonical name to its backend-native identifier.
	SetState(ctx context.Context, id string, state CanonicalState) error

	// ListWorkflowStates returns the states the backend actually has,
	// ordered by position.
	ListWorkflowStates(ctx context.Context) ([]StateInfo, error)
}
