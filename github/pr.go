package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"
)

// PullRequest is the subset of a created pull request callers need.
type PullRequest struct {
	Number int
	URL    string
}

// PullRequestSpec describes a pull request to open.
type PullRequestSpec struct {
	Title string
	Body  string
	Head  string // source branch
	Base  string // target branch
	Draft bool
}

// CreatePullRequest opens a pull request on the repository.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo string, spec PullRequestSpec) (*PullRequest, error) {
	pr, _, err := c.rest.PullRequests.Create(ctx, owner, repo, &gh.NewPullRequest{
		Title: gh.String(spec.Title),
		Body:  gh.String(spec.Body),
		Head:  gh.String(spec.Head),
		Base:  gh.String(spec.Base),
		Draft: gh.Bool(spec.Draft),
	})
	if err != nil {
		return nil, fmt.Errorf("create pull request %s -> %s: %w", spec.Head, spec.Base, err)
	}
	return &PullRequest{Number: pr.GetNumber(), URL: pr.GetHTMLURL()}, nil
}
