package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/randalmurphal/issueflow"
)

// boardFixture serves both API surfaces from one server: REST for issue
// content, GraphQL for the Projects V2 board. Mutations are recorded.
type boardFixture struct {
	server *httptest.Server

	ownerIsUser   bool // board lives under user(login:) instead of organization(login:)
	issueOnBoard  bool
	statusUpdates []string // "itemId -> optionId"
	boardAdds     []string // issue node IDs added to the board
	comments      []string
}

func newBoardFixture(t *testing.T) *boardFixture {
	t.Helper()
	f := &boardFixture{issueOnBoard: true}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode graphql request: %v", err)
		}
		f.handleGraphQL(t, w, req.Query, req.Variables)
	})

	mux.HandleFunc("GET /repos/acme/widgets/issues/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"number": 7, "node_id": "I_node7",
			"title": "Fix upload retries", "body": "uploads flake",
			"html_url": "https://github.com/acme/widgets/issues/7",
			"labels": [{"name": "P: HIGH"}, {"name": "backend"}],
			"assignee": {"login": "dev"},
			"milestone": {"title": "v1"},
			"created_at": "2026-02-25T12:00:00Z"
		}`)
	})
	mux.HandleFunc("GET /repos/acme/widgets/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"user": {"login": "pm"}, "body": "context", "created_at": "2026-03-01T09:00:00Z"}]`)
	})
	mux.HandleFunc("GET /repos/acme/widgets/issues/404", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	})
	mux.HandleFunc("POST /repos/acme/widgets/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Body string `json:"body"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.comments = append(f.comments, body.Body)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 1}`)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *boardFixture) handleGraphQL(t *testing.T, w http.ResponseWriter, query string, vars map[string]any) {
	board := map[string]any{"projectV2": map[string]any{
		"id":    "PVT_board",
		"title": "Widgets Roadmap",
		"field": map[string]any{
			"id": "FIELD_status",
			"options": []map[string]any{
				{"id": "opt-todo", "name": "Todo"},
				{"id": "opt-ready", "name": "Dev Ready"},
				{"id": "opt-prog", "name": "In Progress"},
				{"id": "opt-review", "name": "Review"},
				{"id": "opt-done", "name": "Done"},
			},
		},
	}}

	write := func(data any) {
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}
	writeErr := func(msg string) {
		json.NewEncoder(w).Encode(map[string]any{
			"data":   nil,
			"errors": []map[string]any{{"message": msg}},
		})
	}

	switch {
	case strings.Contains(query, "organization(login:"):
		if f.ownerIsUser {
			writeErr("Could not resolve to an Organization with the login of 'acme'.")
			return
		}
		write(map[string]any{"organization": board})

	case strings.Contains(query, "user(login:"):
		if !f.ownerIsUser {
			writeErr("Could not resolve to a User with the login of 'acme'.")
			return
		}
		write(map[string]any{"user": board})

	case strings.Contains(query, "addProjectV2ItemById"):
		f.boardAdds = append(f.boardAdds, vars["contentId"].(string))
		f.issueOnBoard = true
		write(map[string]any{"addProjectV2ItemById": map[string]any{
			"item": map[string]any{"id": "ITEM_7"},
		}})

	case strings.Contains(query, "updateProjectV2ItemFieldValue"):
		f.statusUpdates = append(f.statusUpdates,
			vars["itemId"].(string)+" -> "+vars["optionId"].(string))
		write(map[string]any{"updateProjectV2ItemFieldValue": map[string]any{
			"projectV2Item": map[string]any{"id": vars["itemId"]},
		}})

	case strings.Contains(query, "projectItems"):
		if vars["number"].(float64) != 7 {
			write(map[string]any{"repository": map[string]any{"issue": nil}})
			return
		}
		items := []map[string]any{}
		if f.issueOnBoard {
			items = append(items, map[string]any{
				"id":               "ITEM_7",
				"project":          map[string]any{"id": "PVT_board"},
				"fieldValueByName": map[string]any{"name": "Dev Ready"},
			})
		}
		write(map[string]any{"repository": map[string]any{"issue": map[string]any{
			"id":           "I_node7",
			"projectItems": map[string]any{"nodes": items},
		}}})

	case strings.Contains(query, "node(id:"):
		write(map[string]any{"node": map[string]any{"items": map[string]any{
			"nodes": []map[string]any{
				{
					"id":               "ITEM_7",
					"fieldValueByName": map[string]any{"name": "Dev Ready"},
					"content": map[string]any{
						"number": 7, "title": "Fix upload retries",
						"body":      "uploads flake",
						"url":       "https://github.com/acme/widgets/issues/7",
						"createdAt": "2026-02-25T12:00:00Z",
						"milestone": map[string]any{"title": "v1"},
						"assignees": map[string]any{"nodes": []map[string]any{{"login": "dev"}}},
						"labels":    map[string]any{"nodes": []map[string]any{{"name": "P: HIGH"}}},
					},
				},
				{
					"id":               "ITEM_8",
					"fieldValueByName": map[string]any{"name": "Todo"},
					"content": map[string]any{
						"number": 8, "title": "Dark mode",
						"url":       "https://github.com/acme/widgets/issues/8",
						"createdAt": "2026-02-26T12:00:00Z",
					},
				},
				{
					// Draft item without issue content; skipped.
					"id": "ITEM_draft",
				},
			},
			"pageInfo": map[string]any{"hasNextPage": false, "endCursor": ""},
		}}})

	default:
		t.Errorf("unexpected graphql query: %s", query)
	}
}

func newFixtureTracker(t *testing.T, f *boardFixture) *Tracker {
	t.Helper()
	client, err := NewClient(context.Background(), &Config{
		Token:      "ghp_test",
		APIBaseURL: f.server.URL,
		GraphQLURL: f.server.URL + "/graphql",
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	tracker, err := NewTracker(context.Background(), client, "acme", "widgets", 3)
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}
	return tracker
}

func TestNewTrackerFindsBoard(t *testing.T) {
	t.Run("organization owner", func(t *testing.T) {
		tracker := newFixtureTracker(t, newBoardFixture(t))
		if tracker.Board().ProjectID != "PVT_board" {
			t.Errorf("ProjectID = %q", tracker.Board().ProjectID)
		}
		if len(tracker.Board().Options) != 5 {
			t.Errorf("options = %d, want 5", len(tracker.Board().Options))
		}
	})

	t.Run("user owner fallback", func(t *testing.T) {
		f := newBoardFixture(t)
		f.ownerIsUser = true
		tracker := newFixtureTracker(t, f)
		if tracker.Board().Title != "Widgets Roadmap" {
			t.Errorf("Title = %q", tracker.Board().Title)
		}
	})
}

func TestTrackerListIssues(t *testing.T) {
	tracker := newFixtureTracker(t, newBoardFixture(t))

	t.Run("state filter matches through vocabulary", func(t *testing.T) {
		issues, err := tracker.ListIssues(context.Background(), issueflow.IssueFilter{State: "dev ready"})
		if err != nil {
			t.Fatalf("ListIssues() error = %v", err)
		}
		if len(issues) != 1 || issues[0].ID != "7" {
			t.Fatalf("issues = %+v", issues)
		}
		got := issues[0]
		if got.CurrentState != "Dev Ready" {
			t.Errorf("CurrentState = %q", got.CurrentState)
		}
		if got.Milestone != "v1" || got.Assignee != "dev" {
			t.Errorf("milestone/assignee = %q/%q", got.Milestone, got.Assignee)
		}
		if got.Metadata["itemId"] != "ITEM_7" {
			t.Errorf("Metadata = %v", got.Metadata)
		}
	})

	t.Run("no filter returns all issue cards", func(t *testing.T) {
		issues, err := tracker.ListIssues(context.Background(), issueflow.IssueFilter{})
		if err != nil {
			t.Fatalf("ListIssues() error = %v", err)
		}
		// The draft card has no issue content and is skipped.
		if len(issues) != 2 {
			t.Errorf("got %d issues, want 2", len(issues))
		}
	})

	t.Run("milestone filter", func(t *testing.T) {
		issues, err := tracker.ListIssues(context.Background(), issueflow.IssueFilter{Milestone: "v1"})
		if err != nil {
			t.Fatalf("ListIssues() error = %v", err)
		}
		if len(issues) != 1 || issues[0].ID != "7" {
			t.Errorf("issues = %+v", issues)
		}
	})
}

func TestTrackerGetIssue(t *testing.T) {
	tracker := newFixtureTracker(t, newBoardFixture(t))

	issue, err := tracker.GetIssue(context.Background(), "7")
	if err != nil {
		t.Fatalf("GetIssue() error = %v", err)
	}

	if issue.Title != "Fix upload retries" {
		t.Errorf("Title = %q", issue.Title)
	}
	if issue.CurrentState != "Dev Ready" {
		t.Errorf("CurrentState = %q, want board status", issue.CurrentState)
	}
	if len(issue.Labels) != 2 || issue.Labels[0] != "P: HIGH" {
		t.Errorf("Labels = %v", issue.Labels)
	}
	if len(issue.Comments) != 1 || issue.Comments[0].Author != "pm" {
		t.Errorf("Comments = %+v", issue.Comments)
	}
	if issue.Metadata["nodeId"] != "I_node7" || issue.Metadata["itemId"] != "ITEM_7" {
		t.Errorf("Metadata = %v", issue.Metadata)
	}
}

func TestTrackerGetIssueNotFound(t *testing.T) {
	tracker := newFixtureTracker(t, newBoardFixture(t))

	_, err := tracker.GetIssue(context.Background(), "404")
	if !errors.Is(err, issueflow.ErrIssueNotFound) {
		t.Errorf("GetIssue() error = %v, want issueflow.ErrIssueNotFound", err)
	}
}

func TestTrackerPostComment(t *testing.T) {
	f := newBoardFixture(t)
	tracker := newFixtureTracker(t, f)

	if err := tracker.PostComment(context.Background(), "7", "work complete"); err != nil {
		t.Fatalf("PostComment() error = %v", err)
	}
	if len(f.comments) != 1 || f.comments[0] != "work complete" {
		t.Errorf("comments = %v", f.comments)
	}
}

func TestTrackerSetState(t *testing.T) {
	t.Run("moves existing card", func(t *testing.T) {
		f := newBoardFixture(t)
		tracker := newFixtureTracker(t, f)

		if err := tracker.SetState(context.Background(), "7", issueflow.BoardInProgress); err != nil {
			t.Fatalf("SetState() error = %v", err)
		}
		if len(f.statusUpdates) != 1 || f.statusUpdates[0] != "ITEM_7 -> opt-prog" {
			t.Errorf("statusUpdates = %v", f.statusUpdates)
		}
		if len(f.boardAdds) != 0 {
			t.Errorf("boardAdds = %v, want none for card already on board", f.boardAdds)
		}
	})

	t.Run("adds issue to board first when missing", func(t *testing.T) {
		f := newBoardFixture(t)
		f.issueOnBoard = false
		tracker := newFixtureTracker(t, f)

		if err := tracker.SetState(context.Background(), "7", issueflow.BoardTodo); err != nil {
			t.Fatalf("SetState() error = %v", err)
		}
		if len(f.boardAdds) != 1 || f.boardAdds[0] != "I_node7" {
			t.Errorf("boardAdds = %v", f.boardAdds)
		}
		if len(f.statusUpdates) != 1 || f.statusUpdates[0] != "ITEM_7 -> opt-todo" {
			t.Errorf("statusUpdates = %v", f.statusUpdates)
		}
	})

	t.Run("state without a column", func(t *testing.T) {
		f := newBoardFixture(t)
		tracker := newFixtureTracker(t, f)

		// The fixture board has no Planning column.
		err := tracker.SetState(context.Background(), "7", issueflow.BoardPlanning)
		if !errors.Is(err, issueflow.ErrStateNotFound) {
			t.Fatalf("SetState() error = %v, want ErrStateNotFound", err)
		}
		if !strings.Contains(err.Error(), "Dev Ready") {
			t.Errorf("error should list available options: %v", err)
		}
		if len(f.statusUpdates) != 0 {
			t.Errorf("statusUpdates = %v, want none", f.statusUpdates)
		}
	})
}

func TestTrackerListWorkflowStates(t *testing.T) {
	tracker := newFixtureTracker(t, newBoardFixture(t))

	states, err := tracker.ListWorkflowStates(context.Background())
	if err != nil {
		t.Fatalf("ListWorkflowStates() error = %v", err)
	}

	want := []string{"Todo", "Dev Ready", "In Progress", "Review", "Done"}
	for i, name := range want {
		if states[i].Name != name {
			t.Errorf("states[%d].Name = %q, want %q", i, states[i].Name, name)
		}
	}
}

func TestParseIssueNumber(t *testing.T) {
	tests := []struct {
		id      string
		want    int
		wantErr bool
	}{
		{id: "7", want: 7},
		{id: "#42", want: 42},
		{id: "ASA-7", wantErr: true},
		{id: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := parseIssueNumber(tt.id)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseIssueNumber(%q) error = %v", tt.id, err)
			}
			if got != tt.want {
				t.Errorf("parseIssueNumber(%q) = %d, want %d", tt.id, got, tt.want)
			}
		})
	}
}
