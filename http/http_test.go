package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantMsg    string
		wantUnwrap error
	}{
		{
			name: "basic error",
			err: &APIError{
				Service:    "linear",
				StatusCode: 404,
				Message:    "Issue not found",
				Endpoint:   "/graphql",
			},
			wantMsg:    "linear API error (404) at /graphql: Issue not found",
			wantUnwrap: ErrNotFound,
		},
		{
			name: "with request ID",
			err: &APIError{
				Service:    "github",
				StatusCode: 500,
				Message:    "Internal error",
				Endpoint:   "/graphql",
				RequestID:  "abc123",
			},
			wantMsg:    "github API error (500) at /graphql [abc123]: Internal error",
			wantUnwrap: ErrServerError,
		},
		{
			name: "unauthorized",
			err: &APIError{
				Service:    "linear",
				StatusCode: 401,
				Message:    "Invalid credentials",
				Endpoint:   "/graphql",
			},
			wantMsg:    "linear API error (401) at /graphql: Invalid credentials",
			wantUnwrap: ErrUnauthorized,
		},
		{
			name: "forbidden",
			err: &APIError{
				Service:    "github",
				StatusCode: 403,
				Message:    "Access denied",
				Endpoint:   "/graphql",
			},
			wantMsg:    "github API error (403) at /graphql: Access denied",
			wantUnwrap: ErrForbidden,
		},
		{
			name: "rate limited",
			err: &APIError{
				Service:    "linear",
				StatusCode: 429,
				Message:    "Too many requests",
				Endpoint:   "/graphql",
			},
			wantMsg:    "linear API error (429) at /graphql: Too many requests",
			wantUnwrap: ErrRateLimited,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.err.Unwrap(); !errors.Is(got, tt.wantUnwrap) {
				t.Errorf("Unwrap() = %v, want %v", got, tt.wantUnwrap)
			}
		})
	}
}

func TestAuthError(t *testing.T) {
	err := &AuthError{
		Service: "linear",
		Reason:  "token expired",
	}

	want := "linear authentication failed: token expired"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(err, ErrUnauthorized) {
		t.Error("AuthError should unwrap to ErrUnauthorized")
	}
}

func TestRateLimitError(t *testing.T) {
	err := &RateLimitError{
		Service:    "github",
		RetryAfter: 30 * time.Second,
	}
	want := "github rate limit exceeded, retry after 30s"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrRateLimited) {
		t.Error("RateLimitError should unwrap to ErrRateLimited")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "rate limited", err: ErrRateLimited, want: true},
		{name: "server error", err: ErrServerError, want: true},
		{name: "api error 503", err: &APIError{StatusCode: 503}, want: true},
		{name: "api error 404", err: &APIError{StatusCode: 404}, want: false},
		{name: "not found", err: ErrNotFound, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClientGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"name": "issueflow"})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:     server.URL,
		ServiceName: "test",
		BeforeRequest: func(req *http.Request) {
			req.Header.Set("Authorization", "Bearer test-token")
		},
	})

	var result struct {
		Name string `json:"name"`
	}
	if err := client.Get(context.Background(), "/", &result); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if result.Name != "issueflow" {
		t.Errorf("Name = %q, want issueflow", result.Name)
	}
}

func TestClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "no such issue"})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, ServiceName: "test"})

	err := client.Get(context.Background(), "/issues/99", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != 404 || apiErr.Message != "no such issue" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if !IsNotFound(err) {
		t.Error("404 should satisfy IsNotFound")
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:     server.URL,
		ServiceName: "test",
		MaxRetries:  3,
		RetryWait:   time.Millisecond,
	})

	var result struct {
		OK bool `json:"ok"`
	}
	if err := client.Get(context.Background(), "/", &result); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if !result.OK {
		t.Error("expected success after retries")
	}
}

func TestGraphQL(t *testing.T) {
	t.Run("data decoded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req GraphQLRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Query == "" {
				t.Error("query should be forwarded")
			}
			w.Write([]byte(`{"data": {"viewer": {"name": "agent"}}}`))
		}))
		defer server.Close()

		client := NewClient(ClientConfig{BaseURL: server.URL, ServiceName: "linear"})

		var result struct {
			Viewer struct {
				Name string `json:"name"`
			} `json:"viewer"`
		}
		err := client.GraphQL(context.Background(), "query { viewer { name } }", nil, &result)
		if err != nil {
			t.Fatalf("GraphQL() error: %v", err)
		}
		if result.Viewer.Name != "agent" {
			t.Errorf("viewer name = %q, want agent", result.Viewer.Name)
		}
	})

	t.Run("payload errors surface", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": null, "errors": [{"message": "team not found"}]}`))
		}))
		defer server.Close()

		client := NewClient(ClientConfig{BaseURL: server.URL, ServiceName: "linear"})

		err := client.GraphQL(context.Background(), "query { teams }", nil, nil)

		var gqlErr *GraphQLError
		if !errors.As(err, &gqlErr) {
			t.Fatalf("error = %v, want *GraphQLError", err)
		}
		if gqlErr.Error() != "linear graphql error: team not found" {
			t.Errorf("Error() = %q", gqlErr.Error())
		}
	})
}

func TestCursorIterator(t *testing.T) {
	pages := map[string][]int{
		"":   {1, 2},
		"c1": {3, 4},
		"c2": {5},
	}
	next := map[string]string{"": "c1", "c1": "c2", "c2": ""}

	fetches := 0
	iter := NewCursorIterator(func(ctx context.Context, cursor string) ([]int, string, error) {
		fetches++
		return pages[cursor], next[cursor], nil
	})

	all, err := iter.All(context.Background())
	if err != nil {
		t.Fatalf("All() error: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("All() = %v, want 5 items", all)
	}
	if fetches != 3 {
		t.Errorf("fetches = %d, want 3", fetches)
	}
}

func TestCursorIteratorError(t *testing.T) {
	boom := errors.New("boom")
	iter := NewCursorIterator(func(ctx context.Context, cursor string) ([]string, string, error) {
		return nil, "", boom
	})

	if _, _, err := iter.Next(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Next() error = %v, want boom", err)
	}
	// Error is sticky
	if _, _, err := iter.Next(context.Background()); !errors.Is(err, boom) {
		t.Errorf("second Next() error = %v, want boom", err)
	}
}
