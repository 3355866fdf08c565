package linear

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	flowhttp "github.com/randalmurphal/issueflow/http"
)

// defaultPageSize is how many issues one GraphQL page requests.
const defaultPageSize = 50

// Client provides access to the Linear GraphQL API. The auth token is
// resolved once at construction; the client holds no other mutable state.
type Client struct {
	cfg    *Config
	http   *flowhttp.Client
	token  string
	method AuthMethod
}

// ClientOption configures the client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}

// NewClient creates a Linear client. With client-credentials config the
// token exchange happens here, exactly once; there is no hidden
// module-level token cache.
func NewClient(ctx context.Context, cfg *Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var options clientOptions
	for _, opt := range opts {
		opt(&options)
	}

	method := cfg.AuthMethod()
	c := &Client{cfg: cfg, method: method}

	switch method {
	case AuthOAuthToken:
		c.token = cfg.AccessToken
	case AuthClientCredentials:
		token, err := exchangeClientCredentials(ctx, cfg, options.httpClient)
		if err != nil {
			return nil, err
		}
		c.token = token
	case AuthAPIKey:
		c.token = cfg.APIKey
	}

	header := c.token
	if method != AuthAPIKey {
		header = "Bearer " + c.token
	}

	c.http = flowhttp.NewClient(flowhttp.ClientConfig{
		Client:      options.httpClient,
		BaseURL:     cfg.apiURL(),
		ServiceName: "linear",
		BeforeRequest: func(req *http.Request) {
			req.Header.Set("Authorization", header)
		},
	})

	return c, nil
}

// AuthMethod returns how this client authenticates.
func (c *Client) AuthMethod() AuthMethod {
	return c.method
}

// exchangeClientCredentials trades OAuth client credentials for a
// 30-day app token. The token posts as the OAuth application, not a
// personal user.
func exchangeClientCredentials(ctx context.Context, cfg *Config, httpClient *http.Client) (string, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: flowhttp.DefaultTimeout}
	}

	// Broad scopes; Linear limits to what the app actually has.
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"scope":         {"read,write,issues:create,comments:create"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.tokenURL(),
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("linear token exchange: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &flowhttp.APIError{
			Service:    "linear",
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   cfg.tokenURL(),
		}
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if result.AccessToken == "" {
		return "", &flowhttp.AuthError{Service: "linear", Reason: "token response missing access_token"}
	}

	return result.AccessToken, nil
}

// Viewer returns the authenticated user.
func (c *Client) Viewer(ctx context.Context) (*Viewer, error) {
	const query = `query { viewer { id name email } }`

	var result struct {
		Viewer Viewer `json:"viewer"`
	}
	if err := c.http.GraphQL(ctx, query, nil, &result); err != nil {
		return nil, err
	}
	return &result.Viewer, nil
}

// Teams returns all teams the credentials can access.
func (c *Client) Teams(ctx context.Context) ([]Team, error) {
	const query = `query { teams { nodes { id key name } } }`

	var result struct {
		Teams nodes[Team] `json:"teams"`
	}
	if err := c.http.GraphQL(ctx, query, nil, &result); err != nil {
		return nil, err
	}
	return result.Teams.Nodes, nil
}

// Team returns the team with the given key (case-insensitive), or the
// first team when key is empty.
func (c *Client) Team(ctx context.Context, key string) (*Team, error) {
	teams, err := c.Teams(ctx)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, ErrNoTeams
	}

	if key == "" {
		return &teams[0], nil
	}
	for i := range teams {
		if strings.EqualFold(teams[i].Key, key) {
			return &teams[i], nil
		}
	}

	available := make([]string, len(teams))
	for i, t := range teams {
		available[i] = t.Key
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrTeamNotFound, key, strings.Join(available, ", "))
}

// WorkflowStates returns a team's workflow states sorted by position.
func (c *Client) WorkflowStates(ctx context.Context, teamID string) ([]WorkflowState, error) {
	const query = `
	query($teamId: ID!) {
	  workflowStates(filter: { team: { id: { eq: $teamId } } }) {
	    nodes { id name type position }
	  }
	}`

	var result struct {
		WorkflowStates nodes[WorkflowState] `json:"workflowStates"`
	}
	if err := c.http.GraphQL(ctx, query, map[string]any{"teamId": teamID}, &result); err != nil {
		return nil, err
	}

	states := result.WorkflowStates.Nodes
	sort.Slice(states, func(i, j int) bool {
		return states[i].Position < states[j].Position
	})
	return states, nil
}

// Issue returns an issue by identifier (e.g. "ASA-42"), including its
// comments.
func (c *Client) Issue(ctx context.Context, identifier string) (*Issue, error) {
	const query = `
	query($identifier: String!) {
	  issue(id: $identifier) {
	    id identifier title description priority priorityLabel
	    state { id name type }
	    assignee { id name }
	    labels { nodes { id name color } }
	    comments { nodes { id body createdAt user { id name } } }
	    createdAt updatedAt url
	  }
	}`

	var result struct {
		Issue *Issue `json:"issue"`
	}
	if err := c.http.GraphQL(ctx, query, map[string]any{"identifier": identifier}, &result); err != nil {
		return nil, err
	}
	if result.Issue == nil || result.Issue.ID == "" {
		return nil, fmt.Errorf("%w: %s", ErrIssueNotFound, identifier)
	}
	return result.Issue, nil
}

// IssueQuery narrows Issues listings.
type IssueQuery struct {
	// StateName filters by workflow state name (case-insensitive).
	StateName string

	// Limit caps the total number of issues. Zero means no cap.
	Limit int
}

// Issues lists a team's issues sorted by priority then creation date,
// paging through the GraphQL connection as needed.
func (c *Client) Issues(ctx context.Context, teamID string, q IssueQuery) ([]Issue, error) {
	const query = `
	query($filter: IssueFilter, $first: Int!, $after: String) {
	  issues(
	    filter: $filter
	    first: $first
	    after: $after
	    sort: [
	      { priority: { order: Ascending, noPriorityFirst: false } },
	      { createdAt: { order: Ascending } }
	    ]
	  ) {
	    nodes {
	      id identifier title priority priorityLabel
	      state { id name type }
	      assignee { id name }
	      labels { nodes { id name } }
	      createdAt url
	    }
	    pageInfo { hasNextPage endCursor }
	  }
	}`

	filter := map[string]any{
		"team": map[string]any{"id": map[string]any{"eq": teamID}},
	}
	if q.StateName != "" {
		filter["state"] = map[string]any{"name": map[string]any{"eqIgnoreCase": q.StateName}}
	}

	pageSize := defaultPageSize
	if q.Limit > 0 && q.Limit < pageSize {
		pageSize = q.Limit
	}

	iter := flowhttp.NewCursorIterator(func(ctx context.Context, cursor string) ([]Issue, string, error) {
		variables := map[string]any{"filter": filter, "first": pageSize}
		if cursor != "" {
			variables["after"] = cursor
		}

		var result struct {
			Issues struct {
				Nodes    []Issue  `json:"nodes"`
				PageInfo PageInfo `json:"pageInfo"`
			} `json:"issues"`
		}
		if err := c.http.GraphQL(ctx, query, variables, &result); err != nil {
			return nil, "", err
		}

		next := ""
		if result.Issues.PageInfo.HasNextPage {
			next = result.Issues.PageInfo.EndCursor
		}
		return result.Issues.Nodes, next, nil
	})

	var out []Issue
	for {
		issue, ok, err := iter.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, issue)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

// CreateComment posts a comment on an issue by internal ID.
func (c *Client) CreateComment(ctx context.Context, issueID, body string) error {
	const mutation = `
	mutation($issueId: String!, $body: String!) {
	  commentCreate(input: { issueId: $issueId, body: $body }) {
	    success
	  }
	}`

	var result struct {
		CommentCreate struct {
			Success bool `json:"success"`
		} `json:"commentCreate"`
	}
	err := c.http.GraphQL(ctx, mutation, map[string]any{"issueId": issueID, "body": body}, &result)
	if err != nil {
		return err
	}
	if !result.CommentCreate.Success {
		return fmt.Errorf("linear comment create on %s reported failure", issueID)
	}
	return nil
}

// UpdateIssueState moves an issue to a workflow state by internal IDs.
func (c *Client) UpdateIssueState(ctx context.Context, issueID, stateID string) error {
	const mutation = `
	mutation($issueId: String!, $stateId: String!) {
	  issueUpdate(id: $issueId, input: { stateId: $stateId }) {
	    success
	    issue { id identifier state { name } }
	  }
	}`

	var result struct {
		IssueUpdate struct {
			Success bool `json:"success"`
		} `json:"issueUpdate"`
	}
	err := c.http.GraphQL(ctx, mutation, map[string]any{"issueId": issueID, "stateId": stateID}, &result)
	if err != nil {
		return err
	}
	if !result.IssueUpdate.Success {
		return fmt.Errorf("linear state update on %s reported failure", issueID)
	}
	return nil
}
