package git

import (
	"fmt"
	"time"
)

// CommitResult describes a commit made through CommitAll.
type CommitResult struct {
	SHA     string
	Branch  string
	Message string
	Date    time.Time
}

// PushResult describes a push made through PushCurrent.
type PushResult struct {
	Remote      string
	Branch      string
	SHA         string
	SetUpstream bool // upstream tracking was set on this push
	URL         string
}

// CommitAndPushResult pairs the commit with the push that followed it.
type CommitAndPushResult struct {
	Commit *CommitResult
	Push   *PushResult
}

// CommitAll stages everything in the worktree and commits. Returns
// ErrNothingToCommit when the tree is clean. This is the save point at
// the end of a work phase, before the issue moves to review.
func (g *Context) CommitAll(message string) (*CommitResult, error) {
	if err := g.StageAll(); err != nil {
		return nil, fmt.Errorf("stage all: %w", err)
	}

	if err := g.Commit(message); err != nil {
		return nil, err
	}

	sha, err := g.HeadCommit()
	if err != nil {
		return nil, fmt.Errorf("get head: %w", err)
	}

	branch, err := g.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf("get branch: %w", err)
	}

	return &CommitResult{
		SHA:     sha,
		Branch:  branch,
		Message: message,
		Date:    time.Now(),
	}, nil
}

// PushCurrent pushes the current branch to origin, setting upstream
// tracking on the first push of an issue branch.
func (g *Context) PushCurrent() (*PushResult, error) {
	return g.PushCurrentTo("origin")
}

// PushCurrentTo pushes the current branch to the given remote.
func (g *Context) PushCurrentTo(remote string) (*PushResult, error) {
	branch, err := g.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf("get current branch: %w", err)
	}

	setUpstream := !g.IsBranchPushed(branch)

	if err := g.Push(remote, branch, setUpstream); err != nil {
		return nil, err
	}

	sha, err := g.HeadCommit()
	if err != nil {
		return nil, fmt.Errorf("get head: %w", err)
	}

	url, _ := g.GetRemoteURL(remote) // URL is informational only

	return &PushResult{
		Remote:      remote,
		Branch:      branch,
		SHA:         sha,
		SetUpstream: setUpstream,
		URL:         url,
	}, nil
}

// CommitAllAndPush stages, commits, and pushes in one step. A failed
// push still returns the commit result so the caller knows the work is
// saved locally.
func (g *Context) CommitAllAndPush(message string) (*CommitAndPushResult, error) {
	commit, err := g.CommitAll(message)
	if err != nil {
		return nil, err
	}

	push, err := g.PushCurrent()
	if err != nil {
		return &CommitAndPushResult{Commit: commit}, err
	}

	return &CommitAndPushResult{
		Commit: commit,
		Push:   push,
	}, nil
}

// CheckoutNew creates and checks out a branch at the current HEAD.
func (g *Context) CheckoutNew(name string) error {
	if err := g.CreateBranch(name); err != nil {
		return err
	}
	return g.Checkout(name)
}
