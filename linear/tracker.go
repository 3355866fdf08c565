package linear

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/randalmurphal/issueflow"
)

// Tracker adapts Client to the issueflow.Tracker contract. The team is
// resolved once at construction; issues and states are read fresh on
// every operation.
type Tracker struct {
	client *Client
	team   Team
	vocab  *issueflow.Vocabulary
}

var _ issueflow.Tracker = (*Tracker)(nil)

// NewTracker creates a Tracker for the team with the given key. An empty
// key selects the first accessible team.
func NewTracker(ctx context.Context, client *Client, teamKey string) (*Tracker, error) {
	team, err := client.Team(ctx, teamKey)
	if err != nil {
		return nil, err
	}
	return &Tracker{
		client: client,
		team:   *team,
		vocab:  issueflow.LinearVocabulary(),
	}, nil
}

// Team returns the team this tracker operates on.
func (t *Tracker) Team() Team {
	return t.team
}

// ListIssues returns the team's issues matching the filter. The State
// filter uses Linear's own state names (case-insensitive).
func (t *Tracker) ListIssues(ctx context.Context, filter issueflow.IssueFilter) ([]issueflow.Issue, error) {
	issues, err := t.client.Issues(ctx, t.team.ID, IssueQuery{
		StateName: filter.State,
		Limit:     filter.Limit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]issueflow.Issue, len(issues))
	for i := range issues {
		out[i] = convertIssue(&issues[i])
	}
	return out, nil
}

// GetIssue returns an issue by identifier, including its comments.
func (t *Tracker) GetIssue(ctx context.Context, id string) (*issueflow.Issue, error) {
	issue, err := t.client.Issue(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, id)
	}
	converted := convertIssue(issue)
	return &converted, nil
}

// PostComment adds a markdown comment to an issue by identifier.
func (t *Tracker) PostComment(ctx context.Context, id, body string) error {
	issue, err := t.client.Issue(ctx, id)
	if err != nil {
		return translateNotFound(err, id)
	}
	return t.client.CreateComment(ctx, issue.ID, body)
}

// SetState moves an issue to the team workflow state whose name
// normalizes to the given canonical state.
func (t *Tracker) SetState(ctx context.Context, id string, state issueflow.CanonicalState) error {
	issue, err := t.client.Issue(ctx, id)
	if err != nil {
		return translateNotFound(err, id)
	}

	states, err := t.client.WorkflowStates(ctx, t.team.ID)
	if err != nil {
		return err
	}

	for _, s := range states {
		canonical, ok := t.vocab.Normalize(s.Name)
		if ok && canonical == state {
			return t.client.UpdateIssueState(ctx, issue.ID, s.ID)
		}
	}

	names := make([]string, len(states))
	for i, s := range states {
		names[i] = s.Name
	}
	return fmt.Errorf("%w: no state for %q in team %s (have: %s)",
		issueflow.ErrStateNotFound, state, t.team.Key, strings.Join(names, ", "))
}

// ListWorkflowStates returns the team's states ordered by position.
func (t *Tracker) ListWorkflowStates(ctx context.Context) ([]issueflow.StateInfo, error) {
	states, err := t.client.WorkflowStates(ctx, t.team.ID)
	if err != nil {
		return nil, err
	}

	out := make([]issueflow.StateInfo, len(states))
	for i, s := range states {
		out[i] = issueflow.StateInfo{
			NativeID: s.ID,
			Name:     s.Name,
			Type:     s.Type,
			Position: i,
		}
	}
	return out, nil
}

// convertIssue maps a Linear issue onto the backend-neutral shape.
func convertIssue(issue *Issue) issueflow.Issue {
	out := issueflow.Issue{
		ID:            issue.Identifier,
		Title:         issue.Title,
		Body:          issue.Description,
		URL:           issue.URL,
		CurrentState:  issue.State.Name,
		PriorityLabel: issue.PriorityLabel,
		PriorityCode:  issue.Priority,
		CreatedAt:     issue.CreatedAt,
		Metadata:      map[string]string{"linearId": issue.ID},
	}
	if issue.Assignee != nil {
		out.Assignee = issue.Assignee.Name
	}
	for _, l := range issue.Labels.Nodes {
		out.Labels = append(out.Labels, l.Name)
	}
	for _, c := range issue.Comments.Nodes {
		comment := issueflow.Comment{Body: c.Body, CreatedAt: c.CreatedAt}
		if c.User != nil {
			comment.Author = c.User.Name
		}
		out.Comments = append(out.Comments, comment)
	}
	return out
}

// translateNotFound maps the package's not-found error onto the core
// sentinel so callers handle it uniformly across backends.
func translateNotFound(err error, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrIssueNotFound) {
		return fmt.Errorf("%w: %s", issueflow.ErrIssueNotFound, id)
	}
	return err
}
