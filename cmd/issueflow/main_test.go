package main

import (
	"strings"
	"testing"

	"github.com/randalmurphal/issueflow"
	"github.com/randalmurphal/issueflow/testutil"
)

func TestSplitRepository(t *testing.T) {
	owner, repo, err := splitRepository("acme/widgets")
	if err != nil {
		t.Fatalf("splitRepository() error = %v", err)
	}
	if owner != "acme" || repo != "widgets" {
		t.Errorf("got %s/%s", owner, repo)
	}

	if _, _, err := splitRepository("no-slash"); err == nil {
		t.Error("expected error for missing slash")
	}
}

func TestPriorityString(t *testing.T) {
	tests := []struct {
		name  string
		issue issueflow.Issue
		want  string
	}{
		{"label", issueflow.Issue{PriorityLabel: "P: HIGH"}, "P: HIGH"},
		{"code", issueflow.Issue{PriorityCode: 2}, "2"},
		{"label wins", issueflow.Issue{PriorityLabel: "P: low", PriorityCode: 4}, "P: low"},
		{"none", issueflow.Issue{}, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := priorityString(tt.issue); got != tt.want {
				t.Errorf("priorityString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveCommentBody(t *testing.T) {
	t.Cleanup(func() {
		commentBody = ""
		commentFile = ""
	})

	commentBody, commentFile = "hello", ""
	body, err := resolveCommentBody()
	if err != nil || body != "hello" {
		t.Errorf("body = %q, err = %v", body, err)
	}

	commentBody, commentFile = "", testutil.TempFileString(t, "comment.md", "from a file\n")
	body, err = resolveCommentBody()
	if err != nil || body != "from a file\n" {
		t.Errorf("body = %q, err = %v", body, err)
	}

	commentBody, commentFile = "a", "b"
	if _, err := resolveCommentBody(); err == nil || !strings.Contains(err.Error(), "mutually exclusive") {
		t.Errorf("expected mutual-exclusion error, got %v", err)
	}

	commentBody, commentFile = "", ""
	if _, err := resolveCommentBody(); err == nil {
		t.Error("expected error when no body source given")
	}
}
