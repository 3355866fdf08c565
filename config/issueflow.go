package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Backend names accepted by the "backend" key.
const (
	BackendLinear = "linear"
	BackendGitHub = "github"
	BackendGitLab = "gitlab"
)

// Keys lists every issueflow configuration key.
var Keys = []string{
	"backend",
	"team",
	"repository",
	"project_number",
	"gitlab_project",
	"milestone",
	"pickup_states",
	"work_state",
	"review_state",
	"base_branch",
	"branch_prefix",
	"worktree_dir",
	"webhook_url",
	"slack_webhook_url",
	"log_level",
	"no_color",
}

// Defaults are the built-in values, overridable per layer.
var Defaults = map[string]string{
	"backend":       BackendLinear,
	"base_branch":   "main",
	"branch_prefix": "issue/",
	"worktree_dir":  ".worktrees",
	"log_level":     "info",
}

// NewIssueflowResolver builds the resolver for issueflow's layered
// config: flags > ISSUEFLOW_* env > .issueflow.yaml in the git root >
// ~/.config/issueflow/config.yaml > defaults.
func NewIssueflowResolver() *Resolver {
	return NewResolver(ResolverConfig{
		EnvPrefix:       "ISSUEFLOW_",
		GlobalConfigDir: "issueflow",
		LocalConfigName: ".issueflow.yaml",
		Defaults:        Defaults,
		ValidGlobalKeys: Keys,
		ValidLocalKeys:  Keys,
	})
}

// IssueflowSave builds the SaveConfig matching NewIssueflowResolver.
func IssueflowSave() SaveConfig {
	return SaveConfig{
		GlobalConfigDir: "issueflow",
		LocalConfigName: ".issueflow.yaml",
		ValidGlobalKeys: Keys,
		ValidLocalKeys:  Keys,
	}
}

// Settings is the typed view of a resolved configuration.
type Settings struct {
	// Backend selects the tracker: linear, github, or gitlab.
	Backend string

	// Team is the Linear team key (e.g. "ASA").
	Team string

	// Repository is the GitHub "owner/repo".
	Repository string

	// ProjectNumber is the GitHub Projects V2 board number.
	ProjectNumber int

	// GitLabProject is the GitLab project ID or path.
	GitLabProject string

	// Milestone optionally scopes pickup and reporting.
	Milestone string

	// PickupStates overrides the backend's default pickup states.
	PickupStates []string

	// WorkState and ReviewState override where claimed and finished
	// work moves. Empty uses the backend flavor's defaults.
	WorkState   string
	ReviewState string

	// BaseBranch, BranchPrefix, and WorktreeDir drive git operations.
	BaseBranch   string
	BranchPrefix string
	WorktreeDir  string

	// WebhookURL and SlackWebhookURL receive workflow notifications.
	WebhookURL      string
	SlackWebhookURL string

	// LogLevel is debug, info, warn, or error.
	LogLevel string
}

// ParseSettings converts a resolved configuration into typed settings.
func ParseSettings(resolved *Resolved) (*Settings, error) {
	s := &Settings{
		Backend:         resolved.Get("backend"),
		Team:            resolved.Get("team"),
		Repository:      resolved.Get("repository"),
		GitLabProject:   resolved.Get("gitlab_project"),
		Milestone:       resolved.Get("milestone"),
		WorkState:       resolved.Get("work_state"),
		ReviewState:     resolved.Get("review_state"),
		BaseBranch:      resolved.Get("base_branch"),
		BranchPrefix:    resolved.Get("branch_prefix"),
		WorktreeDir:     resolved.Get("worktree_dir"),
		WebhookURL:      resolved.Get("webhook_url"),
		SlackWebhookURL: resolved.Get("slack_webhook_url"),
		LogLevel:        resolved.Get("log_level"),
	}

	switch s.Backend {
	case BackendLinear, BackendGitHub, BackendGitLab:
	default:
		return nil, fmt.Errorf("unknown backend %q (valid: %s, %s, %s)",
			s.Backend, BackendLinear, BackendGitHub, BackendGitLab)
	}

	if v := resolved.Get("project_number"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse project_number %q: %w", v, err)
		}
		s.ProjectNumber = n
	}

	if v := resolved.Get("pickup_states"); v != "" {
		for _, state := range strings.Split(v, ",") {
			if state = strings.TrimSpace(state); state != "" {
				s.PickupStates = append(s.PickupStates, state)
			}
		}
	}

	return s, nil
}

// LoadSettings resolves the standard issueflow layers into typed
// settings in one call.
func LoadSettings() (*Settings, error) {
	return ParseSettings(NewIssueflowResolver().Resolve())
}
