// Package github provides a GitHub backend built on a Projects V2 board:
// REST (go-github) for issues, comments, and pull requests, and GraphQL
// for the board's Status single-select field.
//
// # Authentication
//
// Two methods are supported, checked in priority order:
//   - GITHUB_TOKEN: a personal access token or Actions token
//   - GITHUB_APP_ID + GITHUB_APP_INSTALLATION_ID + GITHUB_APP_PRIVATE_KEY:
//     a GitHub App installation; a short-lived app JWT is minted and
//     exchanged for installation tokens, refreshed before expiry
//
// GITHUB_REPOSITORY ("owner/repo") selects the repository and
// GITHUB_PROJECT_NUMBER the Projects V2 board.
//
// # Usage
//
//	cfg, err := github.ConfigFromEnv()
//	if err != nil {
//		return err
//	}
//	client, err := github.NewClient(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	tracker, err := github.NewTracker(ctx, client, cfg.Owner, cfg.Repo, cfg.ProjectNumber)
//
// The tracker locates the board and its Status field once at
// construction; issue reads always hit the API fresh.
package github
