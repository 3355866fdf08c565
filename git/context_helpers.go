package git

import "context"

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{ name string }

var gitContextKey = &contextKey{"issueflow-git"}

// ContextWithGit attaches a git Context so workflow nodes can reach
// the repository without carrying it in their state.
//
// Example:
//
//	gitCtx, _ := git.NewContext(".")
//	ctx := git.ContextWithGit(context.Background(), gitCtx)
func ContextWithGit(ctx context.Context, gc *Context) context.Context {
	return context.WithValue(ctx, gitContextKey, gc)
}

// GitFromContext retrieves the attached git Context, or nil. Callers
// that cannot proceed without one should fail with a clear error
// rather than panic; a run without a repository is a configuration
// problem, not a bug.
func GitFromContext(ctx context.Context) *Context {
	if gc, ok := ctx.Value(gitContextKey).(*Context); ok {
		return gc
	}
	return nil
}

// MustGitFromContext retrieves the git Context or panics. Use only
// where a missing Context is a programming error.
func MustGitFromContext(ctx context.Context) *Context {
	gc := GitFromContext(ctx)
	if gc == nil {
		panic("git.Context not found in context")
	}
	return gc
}
