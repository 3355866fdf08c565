package git

import "errors"

// Sentinel errors for git operations. Callers branch on these with
// errors.Is; anything else comes wrapped in *Error.
var (
	ErrNotGitRepo       = errors.New("not a git repository")
	ErrWorktreeExists   = errors.New("worktree already exists for this branch")
	ErrWorktreeNotFound = errors.New("worktree not found")
	ErrBranchExists     = errors.New("branch already exists")
	ErrGitDirty         = errors.New("working directory has uncommitted changes")
	ErrNothingToCommit  = errors.New("nothing to commit")
)

// Error carries the failed operation and any command output alongside
// the underlying error.
type Error struct {
	Op     string // operation that failed, e.g. "commit", "push"
	Cmd    string // git command line, when known
	Output string // combined stdout/stderr
	Err    error
}

func (e *Error) Error() string {
	if e.Output != "" {
		return e.Op + ": " + e.Output
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
