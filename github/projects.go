package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	flowhttp "github.com/randalmurphal/issueflow/http"
)

// itemPageSize is how many project items one GraphQL page requests.
const itemPageSize = 100

// StatusOption is one option of the board's Status single-select field.
type StatusOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Board describes a Projects V2 board and its Status field, resolved
// once so every later mutation works on stable IDs.
type Board struct {
	ProjectID     string
	Title         string
	StatusFieldID string
	Options       []StatusOption
}

// BoardItem is one issue card on the board.
type BoardItem struct {
	ItemID    string
	Status    string // Status option name, empty when unset
	Number    int
	Title     string
	Body      string
	URL       string
	Milestone string
	Assignee  string
	Labels    []string
	CreatedAt time.Time
}

// boardQuery is the projectV2 selection shared by the user and
// organization lookups.
const boardQuery = `
	projectV2(number: $number) {
	  id
	  title
	  field(name: "Status") {
	    ... on ProjectV2SingleSelectField {
	      id
	      options { id name }
	    }
	  }
	}`

type boardPayload struct {
	ProjectV2 *struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Field *struct {
			ID      string         `json:"id"`
			Options []StatusOption `json:"options"`
		} `json:"field"`
	} `json:"projectV2"`
}

// FindBoard locates the owner's Projects V2 board by number, checking
// the owner as an organization first, then as a user.
func (c *Client) FindBoard(ctx context.Context, owner string, number int) (*Board, error) {
	variables := map[string]any{"login": owner, "number": number}

	var orgResult struct {
		Organization *boardPayload `json:"organization"`
	}
	orgQuery := fmt.Sprintf("query($login: String!, $number: Int!) { organization(login: $login) {%s} }", boardQuery)
	err := c.GraphQL(ctx, orgQuery, variables, &orgResult)
	if err == nil && orgResult.Organization != nil {
		return buildBoard(orgResult.Organization, owner, number)
	}
	if err != nil && !isGraphQLPayloadError(err) {
		return nil, err
	}

	var userResult struct {
		User *boardPayload `json:"user"`
	}
	userQuery := fmt.Sprintf("query($login: String!, $number: Int!) { user(login: $login) {%s} }", boardQuery)
	if err := c.GraphQL(ctx, userQuery, variables, &userResult); err != nil {
		if isGraphQLPayloadError(err) {
			return nil, fmt.Errorf("%w: %s/#%d", ErrProjectNotFound, owner, number)
		}
		return nil, err
	}
	if userResult.User == nil {
		return nil, fmt.Errorf("%w: %s/#%d", ErrProjectNotFound, owner, number)
	}
	return buildBoard(userResult.User, owner, number)
}

func buildBoard(payload *boardPayload, owner string, number int) (*Board, error) {
	if payload.ProjectV2 == nil {
		return nil, fmt.Errorf("%w: %s/#%d", ErrProjectNotFound, owner, number)
	}
	p := payload.ProjectV2
	if p.Field == nil || p.Field.ID == "" {
		return nil, fmt.Errorf("%w: project %q", ErrStatusFieldNotFound, p.Title)
	}
	return &Board{
		ProjectID:     p.ID,
		Title:         p.Title,
		StatusFieldID: p.Field.ID,
		Options:       p.Field.Options,
	}, nil
}

// isGraphQLPayloadError reports whether err is an in-payload GraphQL
// error, as produced when a login is not of the queried owner type.
func isGraphQLPayloadError(err error) bool {
	var gqlErr *flowhttp.GraphQLError
	return errors.As(err, &gqlErr)
}

// ListBoardItems returns the board's issue cards, paging through the
// items connection. Draft items and pull requests are skipped.
func (c *Client) ListBoardItems(ctx context.Context, projectID string) ([]BoardItem, error) {
	const query = `
	query($projectId: ID!, $first: Int!, $after: String) {
	  node(id: $projectId) {
	    ... on ProjectV2 {
	      items(first: $first, after: $after) {
	        nodes {
	          id
	          fieldValueByName(name: "Status") {
	            ... on ProjectV2ItemFieldSingleSelectValue { name }
	          }
	          content {
	            ... on Issue {
	              number title body url createdAt
	              milestone { title }
	              assignees(first: 5) { nodes { login } }
	              labels(first: 20) { nodes { name } }
	            }
	          }
	        }
	        pageInfo { hasNextPage endCursor }
	      }
	    }
	  }
	}`

	type itemNode struct {
		ID               string `json:"id"`
		FieldValueByName *struct {
			Name string `json:"name"`
		} `json:"fieldValueByName"`
		Content *struct {
			Number    int       `json:"number"`
			Title     string    `json:"title"`
			Body      string    `json:"body"`
			URL       string    `json:"url"`
			CreatedAt time.Time `json:"createdAt"`
			Milestone *struct {
				Title string `json:"title"`
			} `json:"milestone"`
			Assignees struct {
				Nodes []struct {
					Login string `json:"login"`
				} `json:"nodes"`
			} `json:"assignees"`
			Labels struct {
				Nodes []struct {
					Name string `json:"name"`
				} `json:"nodes"`
			} `json:"labels"`
		} `json:"content"`
	}

	iter := flowhttp.NewCursorIterator(func(ctx context.Context, cursor string) ([]itemNode, string, error) {
		variables := map[string]any{"projectId": projectID, "first": itemPageSize}
		if cursor != "" {
			variables["after"] = cursor
		}

		var result struct {
			Node struct {
				Items struct {
					Nodes    []itemNode `json:"nodes"`
					PageInfo struct {
						HasNextPage bool   `json:"hasNextPage"`
						EndCursor   string `json:"endCursor"`
					} `json:"pageInfo"`
				} `json:"items"`
			} `json:"node"`
		}
		if err := c.GraphQL(ctx, query, variables, &result); err != nil {
			return nil, "", err
		}

		next := ""
		if result.Node.Items.PageInfo.HasNextPage {
			next = result.Node.Items.PageInfo.EndCursor
		}
		return result.Node.Items.Nodes, next, nil
	})

	nodes, err := iter.All(ctx)
	if err != nil {
		return nil, err
	}

	var items []BoardItem
	for _, n := range nodes {
		if n.Content == nil || n.Content.Number == 0 {
			continue
		}
		item := BoardItem{
			ItemID:    n.ID,
			Number:    n.Content.Number,
			Title:     n.Content.Title,
			Body:      n.Content.Body,
			URL:       n.Content.URL,
			CreatedAt: n.Content.CreatedAt,
		}
		if n.FieldValueByName != nil {
			item.Status = n.FieldValueByName.Name
		}
		if n.Content.Milestone != nil {
			item.Milestone = n.Content.Milestone.Title
		}
		if len(n.Content.Assignees.Nodes) > 0 {
			item.Assignee = n.Content.Assignees.Nodes[0].Login
		}
		for _, l := range n.Content.Labels.Nodes {
			item.Labels = append(item.Labels, l.Name)
		}
		items = append(items, item)
	}
	return items, nil
}

// AddIssueToBoard puts an issue on the board and returns its item ID.
// Adding an issue that is already on the board is a no-op that still
// returns the existing item ID.
func (c *Client) AddIssueToBoard(ctx context.Context, projectID, issueNodeID string) (string, error) {
	const mutation = `
	mutation($projectId: ID!, $contentId: ID!) {
	  addProjectV2ItemById(input: { projectId: $projectId, contentId: $contentId }) {
	    item { id }
	  }
	}`

	var result struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID string `json:"id"`
			} `json:"item"`
		} `json:"addProjectV2ItemById"`
	}
	err := c.GraphQL(ctx, mutation, map[string]any{"projectId": projectID, "contentId": issueNodeID}, &result)
	if err != nil {
		return "", err
	}
	if result.AddProjectV2ItemByID.Item.ID == "" {
		return "", fmt.Errorf("add issue to project returned no item")
	}
	return result.AddProjectV2ItemByID.Item.ID, nil
}

// SetItemStatus moves a board item to the given Status option.
func (c *Client) SetItemStatus(ctx context.Context, board *Board, itemID, optionID string) error {
	const mutation = `
	mutation($projectId: ID!, $itemId: ID!, $fieldId: ID!, $optionId: String!) {
	  updateProjectV2ItemFieldValue(input: {
	    projectId: $projectId
	    itemId: $itemId
	    fieldId: $fieldId
	    value: { singleSelectOptionId: $optionId }
	  }) {
	    projectV2Item { id }
	  }
	}`

	var result struct {
		UpdateProjectV2ItemFieldValue struct {
			ProjectV2Item struct {
				ID string `json:"id"`
			} `json:"projectV2Item"`
		} `json:"updateProjectV2ItemFieldValue"`
	}
	return c.GraphQL(ctx, mutation, map[string]any{
		"projectId": board.ProjectID,
		"itemId":    itemID,
		"fieldId":   board.StatusFieldID,
		"optionId":  optionID,
	}, &result)
}
