package linear

import "time"

// Viewer is the authenticated user.
type Viewer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Team is a Linear team.
type Team struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// WorkflowState is one workflow state of a team.
type WorkflowState struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Position float64 `json:"position"`
}

// StateRef is the state reference embedded in an issue.
type StateRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// UserRef is a user reference embedded in an issue or comment.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Label is an issue label.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Comment is a comment on an issue.
type Comment struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	User      *UserRef  `json:"user,omitempty"`
}

// Issue is a Linear issue. Priority is Linear's numeric code:
// 0 = none, 1 = Urgent, 2 = High, 3 = Medium, 4 = Low.
type Issue struct {
	ID            string         `json:"id"`
	Identifier    string         `json:"identifier"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Priority      int            `json:"priority"`
	PriorityLabel string         `json:"priorityLabel,omitempty"`
	State         StateRef       `json:"state"`
	Assignee      *UserRef       `json:"assignee,omitempty"`
	Labels        nodes[Label]   `json:"labels,omitempty"`
	Comments      nodes[Comment] `json:"comments,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt,omitempty"`
	URL           string         `json:"url,omitempty"`
}

// nodes is the GraphQL connection wrapper Linear uses for collections.
type nodes[T any] struct {
	Nodes []T `json:"nodes"`
}

// PageInfo carries connection pagination state.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}
