package workflow

import (
	"context"

	"github.com/randalmurphal/issueflow"
	"github.com/randalmurphal/issueflow/git"
)

// PROpener is the optional pull-request collaborator. Backends that
// can open PRs (GitHub) provide one; the others leave it absent. The
// capability is checked once when the run is assembled, never probed
// mid-run.
type PROpener interface {
	OpenPullRequest(ctx context.Context, branch, title, body string) (url string, err error)
}

type serviceKey string

const (
	engineServiceKey   serviceKey = "issueflow.engine"
	runnerServiceKey   serviceKey = "issueflow.runner"
	prOpenerServiceKey serviceKey = "issueflow.propener"
)

// WithEngine adds the issue engine to the context.
func WithEngine(ctx context.Context, e *issueflow.Engine) context.Context {
	return context.WithValue(ctx, engineServiceKey, e)
}

// EngineFromContext extracts the engine, or nil.
func EngineFromContext(ctx context.Context) *issueflow.Engine {
	if e, ok := ctx.Value(engineServiceKey).(*issueflow.Engine); ok {
		return e
	}
	return nil
}

// WithRunner adds a command runner for test execution.
func WithRunner(ctx context.Context, r git.CommandRunner) context.Context {
	return context.WithValue(ctx, runnerServiceKey, r)
}

// RunnerFromContext extracts the command runner, defaulting to
// ExecRunner when none is configured.
func RunnerFromContext(ctx context.Context) git.CommandRunner {
	if r, ok := ctx.Value(runnerServiceKey).(git.CommandRunner); ok {
		return r
	}
	return git.NewExecRunner()
}

// WithPROpener adds the optional PR collaborator to the context.
func WithPROpener(ctx context.Context, p PROpener) context.Context {
	return context.WithValue(ctx, prOpenerServiceKey, p)
}

// PROpenerFromContext extracts the PR collaborator, or nil when the
// capability is not configured.
func PROpenerFromContext(ctx context.Context) PROpener {
	if p, ok := ctx.Value(prOpenerServiceKey).(PROpener); ok {
		return p
	}
	return nil
}
