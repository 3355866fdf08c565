package git

import (
	"fmt"
	"strings"
)

// CommitType is the conventional-commit change category.
type CommitType string

const (
	CommitTypeFeat     CommitType = "feat"
	CommitTypeFix      CommitType = "fix"
	CommitTypeDocs     CommitType = "docs"
	CommitTypeStyle    CommitType = "style"
	CommitTypeRefactor CommitType = "refactor"
	CommitTypePerf     CommitType = "perf"
	CommitTypeTest     CommitType = "test"
	CommitTypeBuild    CommitType = "build"
	CommitTypeCI       CommitType = "ci"
	CommitTypeChore    CommitType = "chore"
	CommitTypeRevert   CommitType = "revert"
)

// CommitMessage builds a conventional-commit message for work done on
// an issue branch. IssueRefs tie the commit back to the tracker
// ("ASA-42", "#7") so the review side can trace it.
type CommitMessage struct {
	Type        CommitType // change category, required
	Scope       string     // affected area, optional
	Subject     string     // imperative one-liner, required
	Body        string     // longer explanation, wrapped at 72 columns
	IssueRefs   []string   // tracker identifiers this commit addresses
	GeneratedBy string     // tool marker for the commit footer
	Breaking    bool
}

// NewCommitMessage starts a commit message carrying the issueflow
// footer marker. Chain the With* methods to fill in the rest.
func NewCommitMessage(typ CommitType, subject string) *CommitMessage {
	return &CommitMessage{
		Type:        typ,
		Subject:     subject,
		GeneratedBy: "issueflow",
	}
}

// WithScope sets the affected area, e.g. "auth" or "worktree".
func (c *CommitMessage) WithScope(scope string) *CommitMessage {
	c.Scope = scope
	return c
}

// WithBody sets the commit body.
func (c *CommitMessage) WithBody(body string) *CommitMessage {
	c.Body = body
	return c
}

// WithIssueRef appends a tracker reference to the footer.
func (c *CommitMessage) WithIssueRef(ref string) *CommitMessage {
	c.IssueRefs = append(c.IssueRefs, ref)
	return c
}

// WithBreaking marks the commit as a breaking change.
func (c *CommitMessage) WithBreaking() *CommitMessage {
	c.Breaking = true
	return c
}

// WithoutGeneratedBy drops the tool marker from the footer.
func (c *CommitMessage) WithoutGeneratedBy() *CommitMessage {
	c.GeneratedBy = ""
	return c
}

// String renders the message in conventional-commit form:
// subject line, wrapped body, then footer trailers.
func (c *CommitMessage) String() string {
	var b strings.Builder

	b.WriteString(string(c.Type))
	if c.Scope != "" {
		fmt.Fprintf(&b, "(%s)", c.Scope)
	}
	if c.Breaking {
		b.WriteString("!")
	}
	b.WriteString(": ")
	b.WriteString(c.Subject)

	if c.Body != "" {
		b.WriteString("\n\n")
		b.WriteString(wrapText(c.Body, 72))
	}

	var footer []string
	if c.Breaking && c.Body == "" {
		footer = append(footer, "BREAKING CHANGE: This commit introduces breaking changes")
	}
	for _, ref := range c.IssueRefs {
		footer = append(footer, "Refs: "+ref)
	}
	if c.GeneratedBy != "" {
		footer = append(footer, "Generated-By: "+c.GeneratedBy)
	}

	if len(footer) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.Join(footer, "\n"))
	}

	return b.String()
}

// Validate rejects messages a conventional-commit hook would refuse.
func (c *CommitMessage) Validate() error {
	if c.Type == "" {
		return fmt.Errorf("commit type is required")
	}
	if c.Subject == "" {
		return fmt.Errorf("commit subject is required")
	}
	if len(c.Subject) > 100 {
		return fmt.Errorf("commit subject too long (max 100 characters)")
	}
	return nil
}

// wrapText rewraps long lines at width, keeping paragraph breaks.
func wrapText(text string, width int) string {
	var result []string

	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			result = append(result, paragraph)
			continue
		}

		var line string
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) > width:
				result = append(result, line)
				line = word
			default:
				line += " " + word
			}
		}
		if line != "" {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
