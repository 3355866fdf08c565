package workflow

import (
	"errors"
	"strings"
	"testing"

	"github.com/randalmurphal/issueflow"
)

func TestNewState(t *testing.T) {
	s1 := NewState(Config{})
	s2 := NewState(Config{})

	if !strings.HasPrefix(s1.RunID, "run-") {
		t.Errorf("RunID = %q, want run- prefix", s1.RunID)
	}
	if s1.RunID == s2.RunID {
		t.Errorf("two states share RunID %q", s1.RunID)
	}
	if s1.StartTime.IsZero() {
		t.Error("StartTime not set")
	}
}

func TestStateValidate(t *testing.T) {
	issue := &issueflow.Issue{ID: "ASA-42"}

	tests := []struct {
		name    string
		state   State
		reqs    []StateRequirement
		wantErr string
	}{
		{
			name:  "all satisfied",
			state: State{Issue: issue, Branch: "issue/asa-42", Worktree: "/wt", Summary: "done"},
			reqs:  []StateRequirement{RequireIssue, RequireBranch, RequireWorktree, RequireSummary},
		},
		{
			name:    "missing issue",
			state:   State{Branch: "b"},
			reqs:    []StateRequirement{RequireIssue},
			wantErr: "issue required",
		},
		{
			name:    "missing branch",
			state:   State{Issue: issue},
			reqs:    []StateRequirement{RequireBranch},
			wantErr: "branch required",
		},
		{
			name:    "missing worktree",
			state:   State{Issue: issue},
			reqs:    []StateRequirement{RequireWorktree},
			wantErr: "worktree required",
		},
		{
			name:    "missing summary",
			state:   State{Issue: issue},
			reqs:    []StateRequirement{RequireSummary},
			wantErr: "summary required",
		},
		{
			name:    "unknown requirement",
			state:   State{},
			reqs:    []StateRequirement{"nonsense"},
			wantErr: "unknown requirement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Validate(tt.reqs...)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestStateSetError(t *testing.T) {
	var s State
	s.SetError(nil)
	if s.HasError() {
		t.Error("SetError(nil) should not set error")
	}

	s.SetError(errors.New("boom"))
	if !s.HasError() || s.Error != "boom" {
		t.Errorf("Error = %q, want boom", s.Error)
	}
}

func TestSummarize(t *testing.T) {
	issue := &issueflow.Issue{ID: "ASA-42"}

	tests := []struct {
		name  string
		state State
		want  string
	}{
		{"idle", State{RunID: "run-1"}, "[idle]"},
		{"claimed", State{RunID: "run-1", Issue: issue}, "[claimed]"},
		{"working", State{RunID: "run-1", Issue: issue, Worktree: "/wt"}, "[working]"},
		{"in review", State{RunID: "run-1", Issue: issue, Worktree: "/wt", CompletionPosted: true}, "[in review]"},
		{"failed", State{RunID: "run-1", Issue: issue, Error: "boom"}, "[failed]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Summarize(); !strings.Contains(got, tt.want) {
				t.Errorf("Summarize() = %q, want to contain %q", got, tt.want)
			}
		})
	}
}

func TestTailLines(t *testing.T) {
	if got := tailLines("a\nb\nc\n", 2); got != "b\nc" {
		t.Errorf("tailLines() = %q, want b\\nc", got)
	}
	if got := tailLines("a\nb", 5); got != "a\nb" {
		t.Errorf("tailLines() = %q, want unchanged", got)
	}
	if got := tailLines("", 5); got != "" {
		t.Errorf("tailLines(empty) = %q", got)
	}
}
