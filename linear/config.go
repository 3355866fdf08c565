package linear

import (
	"os"
)

// Default API endpoints.
const (
	DefaultAPIURL   = "https://api.linear.app/graphql"
	DefaultTokenURL = "https://api.linear.app/oauth/token"
)

// AuthMethod identifies how the client authenticates.
type AuthMethod string

// Authentication methods, in the priority order they are selected.
const (
	AuthOAuthToken        AuthMethod = "oauth_token"
	AuthClientCredentials AuthMethod = "client_credentials"
	AuthAPIKey            AuthMethod = "api_key"
	AuthNone              AuthMethod = "none"
)

// Config holds the configuration for the Linear client.
type Config struct {
	// APIURL is the GraphQL endpoint. Defaults to DefaultAPIURL.
	APIURL string

	// TokenURL is the OAuth token exchange endpoint.
	// Defaults to DefaultTokenURL.
	TokenURL string

	// AccessToken is a pre-generated OAuth token (lin_oauth_*).
	AccessToken string

	// ClientID and ClientSecret enable the client-credentials flow.
	// Both must be set; the app token is exchanged at construction.
	ClientID     string
	ClientSecret string

	// APIKey is a personal API key (lin_api_*). Used only when no OAuth
	// credentials are configured.
	APIKey string

	// TeamKey optionally selects the team (e.g. "ASA").
	// The first team is used when empty.
	TeamKey string
}

// ConfigFromEnv builds a Config from the LINEAR_* environment variables.
// It returns ErrNoCredentials when nothing is configured.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{
		AccessToken:  os.Getenv("LINEAR_OAUTH_ACCESS_TOKEN"),
		ClientID:     os.Getenv("LINEAR_OAUTH_CLIENT_ID"),
		ClientSecret: os.Getenv("LINEAR_OAUTH_CLIENT_SECRET"),
		APIKey:       os.Getenv("LINEAR_API_KEY"),
		TeamKey:      os.Getenv("LINEAR_TEAM_KEY"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that usable credentials are configured.
func (c *Config) Validate() error {
	if c.ClientID != "" || c.ClientSecret != "" {
		if c.ClientID == "" || c.ClientSecret == "" {
			return ErrPartialClientCredentials
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
	case c.AccessToken != "":
		return AuthOAuthToken
	case c.ClientID != "" && c.ClientSecret != "":
		return AuthClientCredentials
	case c.APIKey != "":
		return AuthAPIKey
	}
	return AuthNone
}

func (c *Config) apiURL() string {
	if c.APIURL != "" {
		return c.APIURL
	}
	return DefaultAPIURL
}

func (c *Config) tokenURL() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return DefaultTokenURL
}
