package git

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// IncludeFileName is the repo-root file listing glob patterns of
// untracked files (env files, local configs) to copy into every new
// worktree.
const IncludeFileName = ".worktreeinclude"

// WorktreeInfo represents an active git worktree.
type WorktreeInfo struct {
	Path   string // Filesystem path to the worktree
	Branch string // Branch checked out in the worktree
	Commit string // HEAD commit SHA
}

// CreateWorktree creates an isolated worktree for the branch.
// If the branch doesn't exist, it will be created. Untracked files
// matching .worktreeinclude patterns are copied into the new tree.
// Returns the path to the worktree directory.
func (g *Context) CreateWorktree(branch string) (string, error) {
	// Sanitize branch name for filesystem
	safeName := SanitizeBranchName(branch)
	worktreePath := filepath.Join(g.repoPath, g.worktreeDir, safeName)

	// Check if worktree already exists
	if _, err := os.Stat(worktreePath); err == nil {
		return "", ErrWorktreeExists
	}

	// Ensure worktrees directory exists
	worktreesDir := filepath.Join(g.repoPath, g.worktreeDir)
	if err := os.MkdirAll(worktreesDir, 0755); err != nil {
		return "", fmt.Errorf("create worktrees dir: %w", err)
	}

	// Try to create worktree with new branch
	_, err := g.runGit("worktree", "add", "-b", branch, worktreePath, "HEAD")
	if err != nil {
		// Branch may already exist, try without -b
		_, err = g.runGit("worktree", "add", worktreePath, branch)
		if err != nil {
			// If branch doesn't exist either, provide clear error
			if strings.Contains(err.Error(), "not a valid reference") ||
				strings.Contains(err.Error(), "invalid reference") {
				return "", fmt.Errorf("branch %q does not exist and could not be created: %w", branch, err)
			}
			return "", &Error{Op: "create worktree", Err: err}
		}
	}

	if err := g.copyIncludedFiles(worktreePath); err != nil {
		return "", fmt.Errorf("copy included files: %w", err)
	}

	return worktreePath, nil
}

// copyIncludedFiles copies files matching .worktreeinclude patterns
// from the repository root into the worktree, preserving relative
// paths. A missing include file is not an error.
func (g *Context) copyIncludedFiles(worktreePath string) error {
	includePath := filepath.Join(g.repoPath, IncludeFileName)
	f, err := os.Open(includePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		pattern := strings.TrimSpace(scanner.Text())
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}

		matches, err := filepath.Glob(filepath.Join(g.repoPath, pattern))
		if err != nil {
			return fmt.Errorf("pattern %q: %w", pattern, err)
		}

		for _, src := range matches {
			rel, err := filepath.Rel(g.repoPath, src)
			if err != nil {
				return err
			}
			if err := copyFile(src, filepath.Join(worktreePath, rel)); err != nil {
				return fmt.Errorf("copy %s: %w", rel, err)
			}
		}
	}

	return scanner.Err()
}

// copyFile copies a regular file, creating parent directories and
// preserving the source mode. Directories are skipped.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// CleanupWorktree removes a worktree and its registration.
func (g *Context) CleanupWorktree(worktreePath string) error {
	// First try normal remove
	_, err := g.runGit("worktree", "remove", worktreePath)
	if err != nil {
		// Force remove if normal fails (uncommitted changes, etc.)
		_, err = g.runGit("worktree", "remove", "--force", worktreePath)
		if err != nil {
			return &Error{Op: "cleanup worktree", Err: err}
		}
	}

	return nil
}

// ListWorktrees returns all active worktrees.
func (g *Context) ListWorktrees() ([]WorktreeInfo, error) {
	output, err := g.runGit("worktree", "list", "--porcelain")
	if err != nil {
		return nil, &Error{Op: "list worktrees", Err: err}
	}

	var worktrees []WorktreeInfo
	var current WorktreeInfo

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if current.Path != "" {
				worktrees = append(worktrees, current)
				current = WorktreeInfo{}
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "worktree "):
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "HEAD "):
			current.Commit = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			// Format: branch refs/heads/branch-name
			ref := strings.TrimPrefix(line, "branch ")
			current.Branch = strings.TrimPrefix(ref, "refs/heads/")
		case line == "detached":
			current.Branch = "(detached)"
		}
	}

	// Don't forget the last entry
	if current.Path != "" {
		worktrees = append(worktrees, current)
	}

	return worktrees, nil
}

// GetWorktree returns information about a specific worktree by branch name.
func (g *Context) GetWorktree(branch string) (*WorktreeInfo, error) {
	worktrees, err := g.ListWorktrees()
	if err != nil {
		return nil, err
	}

	for _, wt := range worktrees {
		if wt.Branch == branch {
			return &wt, nil
		}
	}

	return nil, ErrWorktreeNotFound
}

// FindIssueWorktree returns the worktree whose branch belongs to the
// issue. The match is by parsed identifier, so a lookup by "ASA-42"
// finds "issue/asa-42-fix-login" regardless of the title slug.
func (g *Context) FindIssueWorktree(identifier string) (*WorktreeInfo, error) {
	worktrees, err := g.ListWorktrees()
	if err != nil {
		return nil, err
	}

	want := Slugify(identifier)
	for _, wt := range worktrees {
		id, ok := ParseIssueBranch(wt.Branch)
		if ok && id == want {
			return &wt, nil
		}
	}

	return nil, ErrWorktreeNotFound
}

// PruneWorktrees removes stale worktree administrative files.
func (g *Context) PruneWorktrees() error {
	if _, err := g.runGit("worktree", "prune"); err != nil {
		return &Error{Op: "prune worktrees", Err: err}
	}
	return nil
}
