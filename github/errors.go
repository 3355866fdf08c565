package github

import "errors"

// Configuration errors.
var (
	ErrNoCredentials = errors.New(
		"no github credentials configured: set GITHUB_TOKEN or " +
			"GITHUB_APP_ID + GITHUB_APP_INSTALLATION_ID + GITHUB_APP_PRIVATE_KEY")
	ErrPartialAppCredentials = errors.New(
		"github app auth requires GITHUB_APP_ID, GITHUB_APP_INSTALLATION_ID, and GITHUB_APP_PRIVATE_KEY")
)

// API errors.
var (
	ErrProjectNotFound     = errors.New("github project not found")
	ErrStatusFieldNotFound = errors.New("github project has no Status single-select field")
)
