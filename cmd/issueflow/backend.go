package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/randalmurphal/issueflow"
	"github.com/randalmurphal/issueflow/config"
	flowerrors "github.com/randalmurphal/issueflow/errors"
	"github.com/randalmurphal/issueflow/git"
	"github.com/randalmurphal/issueflow/github"
	"github.com/randalmurphal/issueflow/gitlab"
	"github.com/randalmurphal/issueflow/linear"
	"github.com/randalmurphal/issueflow/notify"
	"github.com/randalmurphal/issueflow/workflow"
)

// app bundles everything a command needs: the resolved settings, the
// engine for the selected backend, and the backend-flavor defaults.
type app struct {
	settings *config.Settings
	engine   *issueflow.Engine

	pickupStates []issueflow.CanonicalState
	workState    issueflow.CanonicalState
	reviewState  issueflow.CanonicalState

	// priorityLabels drive the report's priority section. Empty for
	// backends that rank by numeric code instead of labels.
	priorityLabels []string

	// prOpener is set only when the backend can open pull requests.
	prOpener workflow.PROpener
}

// loadApp resolves configuration and constructs the tracker for the
// configured backend. The backend is built exactly once per invocation.
func loadApp(ctx context.Context) (*app, error) {
	resolver := config.NewIssueflowResolver()
	resolved := resolver.ResolveWithFlags(map[string]string{
		"backend":   backendFlag,
		"milestone": milestoneFlag,
	})

	settings, err := config.ParseSettings(resolved)
	if err != nil {
		return nil, err
	}
	if settings.Backend == "" {
		return nil, flowerrors.NewNoBackendError()
	}

	a := &app{settings: settings}

	var tracker issueflow.Tracker
	var vocab *issueflow.Vocabulary
	var ranker *issueflow.Ranker

	switch settings.Backend {
	case config.BackendLinear:
		cfg, err := linear.ConfigFromEnv()
		if err != nil {
			return nil, flowerrors.WrapAuthError(err)
		}
		if settings.Team != "" {
			cfg.TeamKey = settings.Team
		}
		client, err := linear.NewClient(ctx, cfg)
		if err != nil {
			return nil, flowerrors.WrapAuthError(err)
		}
		tracker, err = linear.NewTracker(ctx, client, cfg.TeamKey)
		if err != nil {
			return nil, flowerrors.WrapBackendError(err)
		}
		vocab = issueflow.LinearVocabulary()
		ranker = issueflow.LinearRanker()
		a.pickupStates = issueflow.LinearPickupStates
		a.workState = issueflow.StateInProgress
		a.reviewState = issueflow.StateInReview

	case config.BackendGitHub:
		cfg, err := github.ConfigFromEnv()
		if err != nil {
			return nil, flowerrors.WrapAuthError(err)
		}
		owner, repo := cfg.Owner, cfg.Repo
		if settings.Repository != "" {
			owner, repo, err = splitRepository(settings.Repository)
			if err != nil {
				return nil, err
			}
		}
		projectNumber := cfg.ProjectNumber
		if settings.ProjectNumber != 0 {
			projectNumber = settings.ProjectNumber
		}
		client, err := github.NewClient(ctx, cfg)
		if err != nil {
			return nil, flowerrors.WrapAuthError(err)
		}
		tracker, err = github.NewTracker(ctx, client, owner, repo, projectNumber)
		if err != nil {
			return nil, flowerrors.WrapBackendError(err)
		}
		vocab = issueflow.BoardVocabulary()
		ranker = issueflow.BoardRanker()
		a.pickupStates = issueflow.BoardPickupStates
		a.workState = issueflow.BoardInProgress
		a.reviewState = issueflow.BoardReview
		a.priorityLabels = issueflow.BoardPriorityLabels
		a.prOpener = &githubPROpener{
			client: client,
			owner:  owner,
			repo:   repo,
			base:   settings.BaseBranch,
		}

	case config.BackendGitLab:
		cfg := &gitlab.Config{
			Token:   os.Getenv("GITLAB_TOKEN"),
			BaseURL: os.Getenv("GITLAB_BASE_URL"),
			Project: settings.GitLabProject,
		}
		if cfg.Project == "" {
			cfg.Project = os.Getenv("GITLAB_PROJECT")
		}
		client, err := gitlab.NewClient(cfg)
		if err != nil {
			return nil, flowerrors.WrapAuthError(err)
		}
		tracker = gitlab.NewTracker(client, cfg.Project)
		vocab = issueflow.BoardVocabulary()
		ranker = issueflow.BoardRanker()
		a.pickupStates = issueflow.BoardPickupStates
		a.workState = issueflow.BoardInProgress
		a.reviewState = issueflow.BoardReview
		a.priorityLabels = issueflow.BoardPriorityLabels

	default:
		return nil, flowerrors.NewNoBackendError()
	}

	a.engine = issueflow.NewEngine(tracker, vocab, ranker,
		issueflow.WithLogger(slog.Default()))

	if err := a.applyStateOverrides(vocab); err != nil {
		return nil, err
	}
	return a, nil
}

// applyStateOverrides replaces the flavor defaults with configured
// states, normalizing each spelling against the vocabulary.
func (a *app) applyStateOverrides(vocab *issueflow.Vocabulary) error {
	if len(a.settings.PickupStates) > 0 {
		states := make([]issueflow.CanonicalState, 0, len(a.settings.PickupStates))
		for _, raw := range a.settings.PickupStates {
			canonical, ok := vocab.Normalize(raw)
			if !ok {
				return fmt.Errorf("unknown pickup state %q (known: %v)", raw, vocab.States())
			}
			states = append(states, canonical)
		}
		a.pickupStates = states
	}

	if a.settings.WorkState != "" {
		canonical, ok := vocab.Normalize(a.settings.WorkState)
		if !ok {
			return fmt.Errorf("unknown work state %q (known: %v)", a.settings.WorkState, vocab.States())
		}
		a.workState = canonical
	}

	if a.settings.ReviewState != "" {
		canonical, ok := vocab.Normalize(a.settings.ReviewState)
		if !ok {
			return fmt.Errorf("unknown review state %q (known: %v)", a.settings.ReviewState, vocab.States())
		}
		a.reviewState = canonical
	}

	return nil
}

// workflowConfig builds the run configuration from the resolved app.
func (a *app) workflowConfig() workflow.Config {
	return workflow.Config{
		PickupStates: a.pickupStates,
		Milestone:    a.settings.Milestone,
		WorkState:    a.workState,
		ReviewState:  a.reviewState,
		BranchPrefix: a.settings.BranchPrefix,
	}
}

// gitContext opens the current repository, honoring the configured
// worktree directory.
func (a *app) gitContext() (*git.Context, error) {
	gitCtx, err := git.NewContext(".", git.WithWorktreeDir(a.settings.WorktreeDir))
	if err != nil {
		return nil, flowerrors.NewNotInGitRepoError()
	}
	return gitCtx, nil
}

// notifier builds the notification chain from settings. Debug logging
// is always included; webhooks only when configured.
func (a *app) notifier() notify.Notifier {
	notifiers := []notify.Notifier{notify.NewLogNotifier(slog.Default())}
	if a.settings.SlackWebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(a.settings.SlackWebhookURL))
	}
	if a.settings.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(a.settings.WebhookURL, nil))
	}
	return notify.NewMultiNotifier(notifiers...)
}

func splitRepository(repository string) (owner, repo string, err error) {
	for i := 0; i < len(repository); i++ {
		if repository[i] == '/' {
			return repository[:i], repository[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("repository %q is not owner/repo", repository)
}

// githubPROpener opens pull requests for completed work. Satisfies
// workflow.PROpener; only wired for the github backend.
type githubPROpener struct {
	client *github.Client
	owner  string
	repo   string
	base   string
}

func (o *githubPROpener) OpenPullRequest(ctx context.Context, branch, title, body string) (string, error) {
	pr, err := o.client.CreatePullRequest(ctx, o.owner, o.repo, github.PullRequestSpec{
		Title: title,
		Body:  body,
		Head:  branch,
		Base:  o.base,
	})
	if err != nil {
		return "", err
	}
	return pr.URL, nil
}
