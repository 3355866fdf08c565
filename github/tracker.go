package github

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v57/github"

	"github.com/randalmurphal/issueflow"
)

// Tracker adapts the GitHub client to the issueflow.Tracker contract.
// Workflow state lives on a Projects V2 board; issue content comes from
// the REST API. The board is located once at construction.
type Tracker struct {
	client *Client
	owner  string
	repo   string
	board  *Board
	vocab  *issueflow.Vocabulary
}

var _ issueflow.Tracker = (*Tracker)(nil)

// NewTracker creates a Tracker for the repository and its board.
func NewTracker(ctx context.Context, client *Client, owner, repo string, projectNumber int) (*Tracker, error) {
	board, err := client.FindBoard(ctx, owner, projectNumber)
	if err != nil {
		return nil, err
	}
	return &Tracker{
		client: client,
		owner:  owner,
		repo:   repo,
		board:  board,
		vocab:  issueflow.BoardVocabulary(),
	}, nil
}

// Board returns the resolved Projects V2 board.
func (t *Tracker) Board() *Board {
	return t.board
}

// ListIssues returns board issues matching the filter. The State filter
// matches Status column names through the workflow vocabulary, so
// "Dev Ready" and "dev ready" select the same column.
func (t *Tracker) ListIssues(ctx context.Context, filter issueflow.IssueFilter) ([]issueflow.Issue, error) {
	items, err := t.client.ListBoardItems(ctx, t.board.ProjectID)
	if err != nil {
		return nil, err
	}

	var out []issueflow.Issue
	for _, item := range items {
		if filter.State != "" && !t.sameState(item.Status, filter.State) {
			continue
		}
		if filter.Milestone != "" && item.Milestone != filter.Milestone {
			continue
		}
		out = append(out, convertBoardItem(item))
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// sameState reports whether two state spellings name the same workflow
// state, falling back to a case-insensitive compare for columns the
// vocabulary does not know.
func (t *Tracker) sameState(a, b string) bool {
	ca, okA := t.vocab.Normalize(a)
	cb, okB := t.vocab.Normalize(b)
	if okA && okB {
		return ca == cb
	}
	return strings.EqualFold(a, b)
}

// GetIssue returns an issue by number with comments and its board
// status.
func (t *Tracker) GetIssue(ctx context.Context, id string) (*issueflow.Issue, error) {
	number, err := parseIssueNumber(id)
	if err != nil {
		return nil, err
	}

	issue, resp, err := t.client.rest.Issues.Get(ctx, t.owner, t.repo, number)
	if err != nil {
		return nil, translateRESTError(err, resp, id)
	}

	out := convertIssue(issue)

	comments, resp, err := t.client.rest.Issues.ListComments(ctx, t.owner, t.repo, number, nil)
	if err != nil {
		return nil, translateRESTError(err, resp, id)
	}
	for _, c := range comments {
		out.Comments = append(out.Comments, issueflow.Comment{
			Author:    c.GetUser().GetLogin(),
			Body:      c.GetBody(),
			CreatedAt: c.GetCreatedAt().Time,
		})
	}

	if _, itemID, status, err := t.boardPosition(ctx, number); err == nil && itemID != "" {
		out.CurrentState = status
		out.Metadata["itemId"] = itemID
	}
	return &out, nil
}

// PostComment adds a markdown comment to an issue.
func (t *Tracker) PostComment(ctx context.Context, id, body string) error {
	number, err := parseIssueNumber(id)
	if err != nil {
		return err
	}
	_, resp, err := t.client.rest.Issues.CreateComment(ctx, t.owner, t.repo, number,
		&gh.IssueComment{Body: gh.String(body)})
	return translateRESTError(err, resp, id)
}

// SetState moves an issue to the board column whose Status option name
// normalizes to the given canonical state, adding the issue to the
// board first when it is not yet a card.
func (t *Tracker) SetState(ctx context.Context, id string, state issueflow.CanonicalState) error {
	optionID := ""
	for _, opt := range t.board.Options {
		if canonical, ok := t.vocab.Normalize(opt.Name); ok && canonical == state {
			optionID = opt.ID
			break
		}
	}
	if optionID == "" {
		names := make([]string, len(t.board.Options))
		for i, opt := range t.board.Options {
			names[i] = opt.Name
		}
		return fmt.Errorf("%w: no Status option for %q on board %q (have: %s)",
			issueflow.ErrStateNotFound, state, t.board.Title, strings.Join(names, ", "))
	}

	number, err := parseIssueNumber(id)
	if err != nil {
		return err
	}

	nodeID, itemID, _, err := t.boardPosition(ctx, number)
	if err != nil {
		return err
	}
	if itemID == "" {
		itemID, err = t.client.AddIssueToBoard(ctx, t.board.ProjectID, nodeID)
		if err != nil {
			return err
		}
	}
	return t.client.SetItemStatus(ctx, t.board, itemID, optionID)
}

// ListWorkflowStates returns the board's Status options in column order.
func (t *Tracker) ListWorkflowStates(ctx context.Context) ([]issueflow.StateInfo, error) {
	out := make([]issueflow.StateInfo, len(t.board.Options))
	for i, opt := range t.board.Options {
		out[i] = issueflow.StateInfo{
			NativeID: opt.ID,
			Name:     opt.Name,
			Position: i,
		}
	}
	return out, nil
}

// boardPosition returns an issue's GraphQL node ID plus its item ID and
// Status on this tracker's board. The item ID is empty when the issue
// is not on the board.
func (t *Tracker) boardPosition(ctx context.Context, number int) (nodeID, itemID, status string, err error) {
	const query = `
	query($owner: String!, $repo: String!, $number: Int!) {
	  repository(owner: $owner, name: $repo) {
	    issue(number: $number) {
	      id
	      projectItems(first: 20) {
	        nodes {
	          id
	          project { id }
	          fieldValueByName(name: "Status") {
	            ... on ProjectV2ItemFieldSingleSelectValue { name }
	          }
	        }
	      }
	    }
	  }
	}`

	var result struct {
		Repository struct {
			Issue *struct {
				ID           string `json:"id"`
				ProjectItems struct {
					Nodes []struct {
						ID      string `json:"id"`
						Project struct {
							ID string `json:"id"`
						} `json:"project"`
						FieldValueByName *struct {
							Name string `json:"name"`
						} `json:"fieldValueByName"`
					} `json:"nodes"`
				} `json:"projectItems"`
			} `json:"issue"`
		} `json:"repository"`
	}

	variables := map[string]any{"owner": t.owner, "repo": t.repo, "number": number}
	if err := t.client.GraphQL(ctx, query, variables, &result); err != nil {
		return "", "", "", err
	}
	issue := result.Repository.Issue
	if issue == nil {
		return "", "", "", fmt.Errorf("%w: #%d", issueflow.ErrIssueNotFound, number)
	}

	for _, node := range issue.ProjectItems.Nodes {
		if node.Project.ID != t.board.ProjectID {
			continue
		}
		status := ""
		if node.FieldValueByName != nil {
			status = node.FieldValueByName.Name
		}
		return issue.ID, node.ID, status, nil
	}
	return issue.ID, "", "", nil
}

// convertBoardItem maps a board card onto the backend-neutral shape.
func convertBoardItem(item BoardItem) issueflow.Issue {
	return issueflow.Issue{
		ID:           strconv.Itoa(item.Number),
		Title:        item.Title,
		Body:         item.Body,
		URL:          item.URL,
		CurrentState: item.Status,
		Labels:       item.Labels,
		Assignee:     item.Assignee,
		Milestone:    item.Milestone,
		CreatedAt:    item.CreatedAt,
		Metadata:     map[string]string{"itemId": item.ItemID},
	}
}

// convertIssue maps a REST issue onto the backend-neutral shape.
func convertIssue(issue *gh.Issue) issueflow.Issue {
	out := issueflow.Issue{
		ID:        strconv.Itoa(issue.GetNumber()),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		URL:       issue.GetHTMLURL(),
		Assignee:  issue.GetAssignee().GetLogin(),
		Milestone: issue.GetMilestone().GetTitle(),
		CreatedAt: issue.GetCreatedAt().Time,
		Metadata:  map[string]string{"nodeId": issue.GetNodeID()},
	}
	for _, l := range issue.Labels {
		out.Labels = append(out.Labels, l.GetName())
	}
	return out
}

// parseIssueNumber parses a decimal issue number.
func parseIssueNumber(id string) (int, error) {
	number, err := strconv.Atoi(strings.TrimPrefix(id, "#"))
	if err != nil {
		return 0, fmt.Errorf("github issue id %q is not a number", id)
	}
	return number, nil
}

// translateRESTError maps a 404 onto the core sentinel so callers
// handle missing issues uniformly across backends.
func translateRESTError(err error, resp *gh.Response, id string) error {
	if err == nil {
		return nil
	}
	if resp != nil && resp.StatusCode == 404 {
		return fmt.Errorf("%w: %s", issueflow.ErrIssueNotFound, id)
	}
	return err
}
