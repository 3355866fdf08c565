package errors

import "errors"

// Common CLI errors with actionable guidance.
var (
	// ErrNotAuthenticated indicates the tracker rejected the credentials.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotInGitRepo indicates the command requires a git repository.
	ErrNotInGitRepo = errors.New("not in a git repository")

	// ErrNoBackendConfigured indicates no tracker backend is configured.
	ErrNoBackendConfigured = errors.New("no backend configured")

	// ErrConnectionFailed indicates the tracker API is unreachable.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrPermissionDenied indicates the token lacks the needed scopes.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrSessionExpired indicates the auth token has expired.
	ErrSessionExpired = errors.New("session expired")
)
