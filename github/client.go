package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	flowhttp "github.com/randalmurphal/issueflow/http"
)

// Client bundles the REST and GraphQL surfaces behind one set of
// credentials. Both share a single oauth2 token source so App-auth
// token refresh happens in exactly one place.
type Client struct {
	rest       *gh.Client
	graphql    *flowhttp.Client
	tokens     oauth2.TokenSource
	httpClient *http.Client
}

// NewClient creates a GitHub client from the config's credentials.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var tokens oauth2.TokenSource
	switch cfg.AuthMethod() {
	case AuthToken:
		tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	case AuthApp:
		source, err := NewInstallationTokenSource(cfg)
		if err != nil {
			return nil, err
		}
		tokens = oauth2.ReuseTokenSource(nil, source)
	}

	httpClient := oauth2.NewClient(ctx, tokens)
	rest := gh.NewClient(httpClient)
	if cfg.APIBaseURL != "" && cfg.APIBaseURL != DefaultAPIBaseURL {
		base, err := url.Parse(cfg.APIBaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse github base url: %w", err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		rest.BaseURL = base
	}

	graphql := flowhttp.NewClient(flowhttp.ClientConfig{
		BaseURL:     cfg.graphqlURL(),
		ServiceName: "github",
		BeforeRequest: func(req *http.Request) {
			token, err := tokens.Token()
			if err != nil {
				return // surfaces as a 401 from the API
			}
			req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		},
	})

	return &Client{rest: rest, graphql: graphql, tokens: tokens, httpClient: httpClient}, nil
}

// REST returns the underlying go-github client.
func (c *Client) REST() *gh.Client {
	return c.rest
}

// GraphQL executes a GraphQL query against the API.
func (c *Client) GraphQL(ctx context.Context, query string, variables map[string]any, result any) error {
	return c.graphql.GraphQL(ctx, query, variables, result)
}
