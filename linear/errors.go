package linear

import "errors"

// Configuration errors.
var (
	ErrNoCredentials = errors.New(
		"no linear credentials configured: set LINEAR_OAUTH_ACCESS_TOKEN, " +
			"LINEAR_OAUTH_CLIENT_ID + LINEAR_OAUTH_CLIENT_SECRET, or LINEAR_API_KEY")
	ErrPartialClientCredentials = errors.New(
		"client credentials auth requires both LINEAR_OAUTH_CLIENT_ID and LINEAR_OAUTH_CLIENT_SECRET")
)

// API errors.
var (
	ErrTeamNotFound  = errors.New("linear team not found")
	ErrNoTeams       = errors.New("no linear teams accessible")
	ErrIssueNotFound = errors.New("linear issue not found")
)
