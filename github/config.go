package github

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Default API endpoints.
const (
	DefaultAPIBaseURL = "https://api.github.com/"
	DefaultGraphQLURL = "https://api.github.com/graphql"
)

// AuthMethod identifies how the client authenticates.
type AuthMethod string

// Authentication methods, in the priority order they are selected.
const (
	AuthToken AuthMethod = "token"
	AuthApp   AuthMethod = "app"
	AuthNone  AuthMethod = "none"
)

// Config holds the configuration for the GitHub client.
type Config struct {
	// APIBaseURL is the REST base URL. Defaults to DefaultAPIBaseURL.
	APIBaseURL string

	// GraphQLURL is the GraphQL endpoint. Defaults to DefaultGraphQLURL.
	GraphQLURL string

	// Token is a personal access token or Actions token.
	Token string

	// AppID, InstallationID, and PrivateKey enable GitHub App auth.
	// PrivateKey is the app's RSA key in PEM form.
	AppID          int64
	InstallationID int64
	PrivateKey     []byte

	// Owner and Repo identify the repository.
	Owner string
	Repo  string

	// ProjectNumber is the Projects V2 board number on the owner.
	ProjectNumber int
}

// ConfigFromEnv builds a Config from the GITHUB_* environment variables.
// GITHUB_APP_PRIVATE_KEY may hold the PEM itself or a path to it.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{
		Token: os.Getenv("GITHUB_TOKEN"),
	}

	if v := os.Getenv("GITHUB_APP_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse GITHUB_APP_ID: %w", err)
		}
		cfg.AppID = id
	}
	if v := os.Getenv("GITHUB_APP_INSTALLATION_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse GITHUB_APP_INSTALLATION_ID: %w", err)
		}
		cfg.InstallationID = id
	}
	if v := os.Getenv("GITHUB_APP_PRIVATE_KEY"); v != "" {
		if strings.Contains(v, "-----BEGIN") {
			cfg.PrivateKey = []byte(v)
		} else {
			key, err := os.ReadFile(v)
			if err != nil {
				return nil, fmt.Errorf("read GITHUB_APP_PRIVATE_KEY file: %w", err)
			}
			cfg.PrivateKey = key
		}
	}

	if repo := os.Getenv("GITHUB_REPOSITORY"); repo != "" {
		owner, name, ok := strings.Cut(repo, "/")
		if !ok {
			return nil, fmt.Errorf("GITHUB_REPOSITORY %q is not owner/repo", repo)
		}
		cfg.Owner = owner
		cfg.Repo = name
	}

	if v := os.Getenv("GITHUB_PROJECT_NUMBER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse GITHUB_PROJECT_NUMBER: %w", err)
		}
		cfg.ProjectNumber = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that usable credentials are configured.
func (c *Config) Validate() error {
	if c.AppID != 0 || c.InstallationID != 0 || len(c.PrivateKey) > 0 {
		if c.AppID == 0 || c.InstallationID == 0 || len(c.PrivateKey) == 0 {
			return ErrPartialAppCredentials
		}
	}
	if c.AuthMethod() == AuthNone {
		return ErrNoCredentials
	}
	return nil
}

// AuthMethod returns the authentication method the config selects.
func (c *Config) AuthMethod() AuthMethod {
	switch {
	case c.Token != "":
		return AuthToken
	case c.AppID != 0 && c.InstallationID != 0 && len(c.PrivateKey) > 0:
		return AuthApp
	}
	return AuthNone
}

func (c *Config) apiBaseURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	return DefaultAPIBaseURL
}

func (c *Config) graphqlURL() string {
	if c.GraphQLURL != "" {
		return c.GraphQLURL
	}
	return DefaultGraphQLURL
}
