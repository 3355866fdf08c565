package linear

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// graphqlHandler dispatches on the incoming query text and writes a
// GraphQL response envelope.
type graphqlHandler func(t *testing.T, query string, variables map[string]any) any

func newGraphQLServer(t *testing.T, handler graphqlHandler) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		data := handler(t, req.Query, req.Variables)
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), &Config{
		APIKey: "lin_api_test",
		APIURL: server.URL,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClientAuthHeader(t *testing.T) {
	tests := []struct {
		name       string
		cfg        Config
		wantHeader string
	}{
		{
			name:       "api key is sent raw",
			cfg:        Config{APIKey: "lin_api_test"},
			wantHeader: "lin_api_test",
		},
		{
			name:       "oauth token gets bearer prefix",
			cfg:        Config{AccessToken: "lin_oauth_test"},
			wantHeader: "Bearer lin_oauth_test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				json.NewEncoder(w).Encode(map[string]any{
					"data": map[string]any{"viewer": map[string]any{"id": "u1", "name": "Dev"}},
				})
			}))
			defer server.Close()

			tt.cfg.APIURL = server.URL
			client, err := NewClient(context.Background(), &tt.cfg)
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			if _, err := client.Viewer(context.Background()); err != nil {
				t.Fatalf("Viewer() error = %v", err)
			}
			if got != tt.wantHeader {
				t.Errorf("Authorization = %q, want %q", got, tt.wantHeader)
			}
		})
	}
}

func TestNewClientTokenExchange(t *testing.T) {
	var form map[string]string
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		form = map[string]string{
			"grant_type":    r.PostFormValue("grant_type"),
			"client_id":     r.PostFormValue("client_id"),
			"client_secret": r.PostFormValue("client_secret"),
			"scope":         r.PostFormValue("scope"),
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "lin_oauth_exchanged"})
	}))
	defer tokenServer.Close()

	var authHeader string
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"viewer": map[string]any{"id": "u1"}},
		})
	}))
	defer apiServer.Close()

	client, err := NewClient(context.Background(), &Config{
		ClientID:     "the-client",
		ClientSecret: "the-secret",
		APIURL:       apiServer.URL,
		TokenURL:     tokenServer.URL,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.AuthMethod() != AuthClientCredentials {
		t.Errorf("AuthMethod() = %q", client.AuthMethod())
	}
	if form["grant_type"] != "client_credentials" {
		t.Errorf("grant_type = %q", form["grant_type"])
	}
	if form["client_id"] != "the-client" || form["client_secret"] != "the-secret" {
		t.Errorf("credentials = %q / %q", form["client_id"], form["client_secret"])
	}
	if !strings.Contains(form["scope"], "issues:create") {
		t.Errorf("scope = %q, want issues:create included", form["scope"])
	}

	if _, err := client.Viewer(context.Background()); err != nil {
		t.Fatalf("Viewer() error = %v", err)
	}
	if authHeader != "Bearer lin_oauth_exchanged" {
		t.Errorf("Authorization = %q, want exchanged token", authHeader)
	}
}

func TestNewClientTokenExchangeFailure(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"invalid_client"}`)
	}))
	defer tokenServer.Close()

	_, err := NewClient(context.Background(), &Config{
		ClientID:     "bad",
		ClientSecret: "bad",
		TokenURL:     tokenServer.URL,
	})
	if err == nil {
		t.Fatal("NewClient() expected error")
	}
}

func TestClientTeam(t *testing.T) {
	teams := []map[string]any{
		{"id": "t1", "key": "ASA", "name": "Assistant"},
		{"id": "t2", "key": "OPS", "name": "Operations"},
	}

	server := newGraphQLServer(t, func(t *testing.T, query string, _ map[string]any) any {
		if !strings.Contains(query, "teams") {
			t.Errorf("unexpected query: %s", query)
		}
		return map[string]any{"teams": map[string]any{"nodes": teams}}
	})
	defer server.Close()
	client := newTestClient(t, server)

	t.Run("by key case-insensitive", func(t *testing.T) {
		team, err := client.Team(context.Background(), "ops")
		if err != nil {
			t.Fatalf("Team() error = %v", err)
		}
		if team.ID != "t2" {
			t.Errorf("team ID = %q, want t2", team.ID)
		}
	})

	t.Run("empty key returns first team", func(t *testing.T) {
		team, err := client.Team(context.Background(), "")
		if err != nil {
			t.Fatalf("Team() error = %v", err)
		}
		if team.Key != "ASA" {
			t.Errorf("team key = %q, want ASA", team.Key)
		}
	})

	t.Run("unknown key lists available", func(t *testing.T) {
		_, err := client.Team(context.Background(), "NOPE")
		if !errors.Is(err, ErrTeamNotFound) {
			t.Fatalf("Team() error = %v, want ErrTeamNotFound", err)
		}
		if !strings.Contains(err.Error(), "ASA") || !strings.Contains(err.Error(), "OPS") {
			t.Errorf("error should list available keys: %v", err)
		}
	})
}

func TestClientTeamNoTeams(t *testing.T) {
	server := newGraphQLServer(t, func(t *testing.T, query string, _ map[string]any) any {
		return map[string]any{"teams": map[string]any{"nodes": []any{}}}
	})
	defer server.Close()
	client := newTestClient(t, server)

	if _, err := client.Team(context.Background(), ""); !errors.Is(err, ErrNoTeams) {
		t.Errorf("Team() error = %v, want ErrNoTeams", err)
	}
}

func TestClientWorkflowStatesSorted(t *testing.T) {
	server := newGraphQLServer(t, func(t *testing.T, query string, vars map[string]any) any {
		if vars["teamId"] != "t1" {
			t.Errorf("teamId = %v", vars["teamId"])
		}
		// Deliberately out of position order.
		return map[string]any{"workflowStates": map[string]any{"nodes": []map[string]any{
			{"id": "s3", "name": "Done", "type": "completed", "position": 5.0},
			{"id": "s1", "name": "Todo", "type": "unstarted", "position": 1.0},
			{"id": "s2", "name": "In Progress", "type": "started", "position": 3.0},
		}}}
	})
	defer server.Close()
	client := newTestClient(t, server)

	states, err := client.WorkflowStates(context.Background(), "t1")
	if err != nil {
		t.Fatalf("WorkflowStates() error = %v", err)
	}

	want := []string{"Todo", "In Progress", "Done"}
	if len(states) != len(want) {
		t.Fatalf("got %d states, want %d", len(states), len(want))
	}
	for i, name := range want {
		if states[i].Name != name {
			t.Errorf("states[%d] = %q, want %q", i, states[i].Name, name)
		}
	}
}

func TestClientIssue(t *testing.T) {
	server := newGraphQLServer(t, func(t *testing.T, query string, vars map[string]any) any {
		if vars["identifier"] == "ASA-42" {
			return map[string]any{"issue": map[string]any{
				"id":         "uuid-42",
				"identifier": "ASA-42",
				"title":      "Fix retry loop",
				"priority":   2,
				"state":      map[string]any{"id": "s1", "name": "Todo", "type": "unstarted"},
				"comments": map[string]any{"nodes": []map[string]any{
					{"id": "c1", "body": "on it", "createdAt": "2026-03-01T10:00:00Z",
						"user": map[string]any{"id": "u1", "name": "Dev"}},
				}},
				"createdAt": "2026-02-20T09:00:00Z",
			}}
		}
		return map[string]any{"issue": nil}
	})
	defer server.Close()
	client := newTestClient(t, server)

	t.Run("found", func(t *testing.T) {
		issue, err := client.Issue(context.Background(), "ASA-42")
		if err != nil {
			t.Fatalf("Issue() error = %v", err)
		}
		if issue.ID != "uuid-42" || issue.Identifier != "ASA-42" {
			t.Errorf("issue = %+v", issue)
		}
		if len(issue.Comments.Nodes) != 1 || issue.Comments.Nodes[0].User.Name != "Dev" {
			t.Errorf("comments = %+v", issue.Comments.Nodes)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := client.Issue(context.Background(), "ASA-999"); !errors.Is(err, ErrIssueNotFound) {
			t.Errorf("Issue() error = %v, want ErrIssueNotFound", err)
		}
	})
}

func TestClientIssuesPaginationAndLimit(t *testing.T) {
	page := func(ids []string, next string) map[string]any {
		nodes := make([]map[string]any, len(ids))
		for i, id := range ids {
			nodes[i] = map[string]any{
				"id": "uuid-" + id, "identifier": id, "title": id,
				"priority":  2,
				"state":     map[string]any{"id": "s1", "name": "Todo"},
				"createdAt": "2026-02-20T09:00:00Z",
			}
		}
		return map[string]any{"issues": map[string]any{
			"nodes":    nodes,
			"pageInfo": map[string]any{"hasNextPage": next != "", "endCursor": next},
		}}
	}

	calls := 0
	server := newGraphQLServer(t, func(t *testing.T, query string, vars map[string]any) any {
		calls++
		if vars["after"] == nil {
			return page([]string{"ASA-1", "ASA-2"}, "cur-1")
		}
		return page([]string{"ASA-3"}, "")
	})
	defer server.Close()
	client := newTestClient(t, server)

	t.Run("follows cursors", func(t *testing.T) {
		calls = 0
		issues, err := client.Issues(context.Background(), "t1", IssueQuery{})
		if err != nil {
			t.Fatalf("Issues() error = %v", err)
		}
		if len(issues) != 3 {
			t.Fatalf("got %d issues, want 3", len(issues))
		}
		if calls != 2 {
			t.Errorf("server calls = %d, want 2", calls)
		}
	})

	t.Run("limit stops early", func(t *testing.T) {
		calls = 0
		issues, err := client.Issues(context.Background(), "t1", IssueQuery{Limit: 2})
		if err != nil {
			t.Fatalf("Issues() error = %v", err)
		}
		if len(issues) != 2 {
			t.Fatalf("got %d issues, want 2", len(issues))
		}
		if calls != 1 {
			t.Errorf("server calls = %d, want 1", calls)
		}
	})
}

func TestClientIssuesStateFilter(t *testing.T) {
	var gotFilter map[string]any
	server := newGraphQLServer(t, func(t *testing.T, query string, vars map[string]any) any {
		gotFilter, _ = vars["filter"].(map[string]any)
		return map[string]any{"issues": map[string]any{
			"nodes":    []any{},
			"pageInfo": map[string]any{"hasNextPage": false, "endCursor": ""},
		}}
	})
	defer server.Close()
	client := newTestClient(t, server)

	if _, err := client.Issues(context.Background(), "t1", IssueQuery{StateName: "Dev Ready"}); err != nil {
		t.Fatalf("Issues() error = %v", err)
	}

	state, _ := gotFilter["state"].(map[string]any)
	name, _ := state["name"].(map[string]any)
	if name["eqIgnoreCase"] != "Dev Ready" {
		t.Errorf("state filter = %v", gotFilter)
	}
}

func TestClientMutations(t *testing.T) {
	server := newGraphQLServer(t, func(t *testing.T, query string, vars map[string]any) any {
		switch {
		case strings.Contains(query, "commentCreate"):
			if vars["issueId"] != "uuid-42" || vars["body"] != "done" {
				t.Errorf("comment vars = %v", vars)
			}
			return map[string]any{"commentCreate": map[string]any{"success": true}}
		case strings.Contains(query, "issueUpdate"):
			if vars["issueId"] != "uuid-42" || vars["stateId"] != "s2" {
				t.Errorf("update vars = %v", vars)
			}
			return map[string]any{"issueUpdate": map[string]any{"success": false}}
		}
		t.Errorf("unexpected query: %s", query)
		return nil
	})
	defer server.Close()
	client := newTestClient(t, server)

	if err := client.CreateComment(context.Background(), "uuid-42", "done"); err != nil {
		t.Errorf("CreateComment() error = %v", err)
	}

	// success=false without a GraphQL error still surfaces as an error.
	if err := client.UpdateIssueState(context.Background(), "uuid-42", "s2"); err == nil {
		t.Error("UpdateIssueState() expected error on success=false")
	}
}
