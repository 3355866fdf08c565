// Package errors provides CLI error patterns with user-friendly messaging.
//
// Core types:
//   - CLIError: Wraps errors with message, suggestion, and details
//   - ErrorMessenger: Interface for customizing error messages
//
// Sentinel errors for common scenarios:
//   - ErrNotAuthenticated: The tracker rejected the credentials
//   - ErrSessionExpired: Auth token has expired
//   - ErrNotInGitRepo: Command requires a git repository
//   - ErrNoBackendConfigured: No tracker backend is configured
//   - ErrConnectionFailed: Tracker API is unreachable
//   - ErrPermissionDenied: Token lacks the needed scopes
//
// The wrap functions recognize the typed sentinels from the http
// package (ErrUnauthorized, ErrForbidden, ErrNotFound) and fall back
// to message sniffing for errors from SDKs that only return strings.
//
// Example usage:
//
//	// Wrap an auth error with default messages
//	if err := tracker.SetState(ctx, id, state); err != nil {
//	    return errors.WrapAuthError(err)
//	}
//
//	// Wrap with custom messages
//	type MyMessenger struct{}
//	func (m MyMessenger) AuthErrorMessage() (string, string) {
//	    return "Please log in.", "Set LINEAR_API_KEY and retry."
//	}
//
//	wrapped := errors.WrapAuthError(err, errors.WithMessenger(MyMessenger{}))
//
//	// Check error types
//	if errors.IsAuthError(err) {
//	    // Handle auth-related error
//	}
package errors
