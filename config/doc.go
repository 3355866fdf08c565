// Package config provides hierarchical configuration for issueflow.
//
// Values merge from layers with clear precedence:
//  1. Command-line flags (highest priority)
//  2. ISSUEFLOW_* environment variables
//  3. Local config (.issueflow.yaml in the git root)
//  4. Global config (~/.config/issueflow/config.yaml)
//  5. Built-in defaults (lowest priority)
//
// # Basic Usage
//
//	settings, err := config.LoadSettings()
//	if err != nil {
//	    return err
//	}
//	switch settings.Backend {
//	case config.BackendLinear:
//	    // ...
//	}
//
// For key-level access with provenance, use the resolver directly:
//
//	resolver := config.NewIssueflowResolver()
//	cfg := resolver.Resolve()
//	value, source := cfg.GetWithSource("backend")
//
// # Environment Variables
//
// Keys map to environment variables through the ISSUEFLOW_ prefix:
//
//	ISSUEFLOW_BACKEND=github     # sets "backend"
//	ISSUEFLOW_PICKUP_STATES=...  # sets "pickup_states"
//
// Backend credentials (LINEAR_*, GITHUB_*, GITLAB_*) are read by the
// backend packages themselves, not here.
//
// # Config Sources
//
// Each resolved value tracks where it came from:
//   - "default": built-in default value
//   - "global": ~/.config/issueflow/config.yaml
//   - "local": .issueflow.yaml in the git root
//   - "env": environment variable
//   - "flag": command-line flag
package config
