package git

import (
	"regexp"
	"strings"
)

const maxSlugLength = 50

// BranchNamer generates branch names for tracker issues.
type BranchNamer struct {
	Prefix    string // Branch prefix including the slash (e.g. "issue/")
	MaxLength int    // Maximum branch name length
}

// DefaultBranchNamer returns a namer with default settings.
func DefaultBranchNamer() *BranchNamer {
	return &BranchNamer{
		Prefix:    "issue/",
		MaxLength: 100,
	}
}

// ForIssue generates a branch name from an issue identifier and title.
// Example: "ASA-42", "Fix Login Bug" -> "issue/asa-42-fix-login-bug"
// Without a title the branch is just the prefixed identifier.
func (n *BranchNamer) ForIssue(identifier, title string) string {
	id := Slugify(identifier)

	branch := n.Prefix + id
	if title != "" {
		slug := Slugify(title)
		if len(slug) > maxSlugLength {
			slug = strings.TrimRight(slug[:maxSlugLength], "-")
		}
		if slug != "" {
			branch += "-" + slug
		}
	}

	if n.MaxLength > 0 && len(branch) > n.MaxLength {
		branch = branch[:n.MaxLength]
	}

	return CleanBranch(branch)
}

// BranchForIssue generates a branch name with the default conventions.
// Example: "ASA-42", "Add User Authentication" -> "issue/asa-42-add-user-authentication"
func BranchForIssue(identifier, title string) string {
	return DefaultBranchNamer().ForIssue(identifier, title)
}

// Slugify converts a string to a URL-safe slug.
func Slugify(s string) string {
	// Lowercase
	s = strings.ToLower(s)

	// Board identifiers look like "#7"; the marker carries no
	// information once the branch is prefixed.
	s = strings.TrimPrefix(s, "#")

	// Replace spaces and underscores with hyphens
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")

	// Remove non-alphanumeric except hyphens
	s = regexp.MustCompile(`[^a-z0-9-]`).ReplaceAllString(s, "")

	// Remove consecutive hyphens
	s = regexp.MustCompile(`-+`).ReplaceAllString(s, "-")

	// Trim hyphens from ends
	s = strings.Trim(s, "-")

	return s
}

// CleanBranch ensures a branch name is valid.
func CleanBranch(s string) string {
	// Remove consecutive hyphens
	s = regexp.MustCompile(`-+`).ReplaceAllString(s, "-")

	// Remove trailing hyphens (but not before /)
	parts := strings.Split(s, "/")
	for i, part := range parts {
		parts[i] = strings.TrimRight(part, "-")
	}
	s = strings.Join(parts, "/")

	return s
}

// issueIDPattern matches the identifier portion at the start of an
// issue branch: "asa-42" (linear) or "7" (board issue number).
var issueIDPattern = regexp.MustCompile(`^(?:[a-z]+-)?\d+`)

// ParseIssueBranch extracts the issue identifier from a branch name.
// Returns the lowercased identifier and true on a match.
// Example: "issue/asa-42-fix-login" -> ("asa-42", true)
func ParseIssueBranch(branch string) (string, bool) {
	branch = strings.TrimPrefix(branch, "refs/heads/")

	idx := strings.LastIndex(branch, "/")
	if idx < 0 {
		return "", false
	}
	rest := branch[idx+1:]

	id := issueIDPattern.FindString(rest)
	if id == "" {
		return "", false
	}
	return id, true
}
