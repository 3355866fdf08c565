// Package linear provides a client for the Linear GraphQL API and an
// issueflow.Tracker built on it.
//
// # Authentication
//
// Credentials come from the environment, checked in priority order:
//   - LINEAR_OAUTH_ACCESS_TOKEN: pre-generated OAuth token (lin_oauth_*)
//   - LINEAR_OAUTH_CLIENT_ID + LINEAR_OAUTH_CLIENT_SECRET: client
//     credentials, exchanged once for a 30-day app token when the client
//     is constructed
//   - LINEAR_API_KEY: personal API key (lin_api_*), posts as your user
//
// LINEAR_TEAM_KEY optionally selects the team (e.g. "ASA"); the first
// team is used otherwise.
//
// # Usage
//
//	cfg, err := linear.ConfigFromEnv()
//	if err != nil {
//		return err
//	}
//	client, err := linear.NewClient(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	tracker, err := linear.NewTracker(ctx, client, cfg.TeamKey)
//
// # Error Handling
//
// The package uses issueflow/http error types for consistent handling
// across integrations. Use errors.Is() to check for specific conditions:
//
//	if errors.Is(err, http.ErrUnauthorized) {
//		// Credentials rejected
//	}
package linear
