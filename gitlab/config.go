package gitlab

import (
	"errors"
	"fmt"
	"os"

	gl "github.com/xanzy/go-gitlab"
)

// Configuration errors.
var (
	ErrNoToken   = errors.New("no gitlab token configured: set GITLAB_TOKEN")
	ErrNoProject = errors.New("no gitlab project configured: set GITLAB_PROJECT")
)

// Config holds the configuration for the GitLab client.
type Config struct {
	// Token is a personal or project access token.
	Token string

	// BaseURL is the instance URL for self-hosted GitLab.
	// Empty means gitlab.com.
	BaseURL string

	// Project is the numeric project ID or "namespace/project" path.
	Project string
}

// ConfigFromEnv builds a Config from the GITLAB_* environment variables.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{
		Token:   os.Getenv("GITLAB_TOKEN"),
		BaseURL: os.Getenv("GITLAB_BASE_URL"),
		Project: os.Getenv("GITLAB_PROJECT"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	if c.Token == "" {
		return ErrNoToken
	}
	if c.Project == "" {
		return ErrNoProject
	}
	return nil
}

// NewClient creates a go-gitlab client from the config.
func NewClient(cfg *Config) (*gl.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts []gl.ClientOptionFunc
	if cfg.BaseURL != "" {
		opts = append(opts, gl.WithBaseURL(cfg.BaseURL))
	}
	client, err := gl.NewClient(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gitlab client: %w", err)
	}
	return client, nil
}
