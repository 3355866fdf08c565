package workflow

import (
	"fmt"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/randalmurphal/issueflow"
)

// runIDAlphabet keeps run IDs lowercase so they are safe in branch
// names and comment markers.
const runIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// =============================================================================
// Run Configuration
// =============================================================================

// Config holds the per-run settings the nodes read. Zero values fall
// back to flavor defaults where one exists.
type Config struct {
	// PickupStates are scanned in order for eligible issues.
	PickupStates []issueflow.CanonicalState

	// Milestone scopes pickup (backends that support it).
	Milestone string

	// WorkState is the claim target (e.g. "In Progress").
	WorkState issueflow.CanonicalState

	// ReviewState is where completion moves the issue (e.g. "In Review").
	ReviewState issueflow.CanonicalState

	// BranchPrefix overrides the default "issue/" branch prefix.
	BranchPrefix string

	// TestCommand overrides the default test command.
	TestCommand string
}

// =============================================================================
// State - Full Run State
// =============================================================================

// State is the complete state for an issue run: pickup through
// completion. Nodes take it by value and return the updated copy.
type State struct {
	// Identification
	RunID string `json:"runId"`

	// Config travels with the state so nodes stay context-free.
	Config Config `json:"config"`

	// Selected issue (nil until pickup finds one)
	Issue   *issueflow.Issue         `json:"issue,omitempty"`
	FoundIn issueflow.CanonicalState `json:"foundIn,omitempty"`

	// Git workspace
	Branch     string `json:"branch,omitempty"`
	Worktree   string `json:"worktree,omitempty"`
	BaseBranch string `json:"baseBranch,omitempty"`

	// Comment markers
	PlanCommentPosted bool `json:"planCommentPosted,omitempty"`
	CompletionPosted  bool `json:"completionPosted,omitempty"`

	// Completion inputs
	Summary    string `json:"summary,omitempty"`
	Confidence int    `json:"confidence,omitempty"` // 0-100

	// Test run results
	TestResults string    `json:"testResults,omitempty"`
	TestsPassed bool      `json:"testsPassed,omitempty"`
	TestsRanAt  time.Time `json:"testsRanAt,omitempty"`

	// Optional PR opened at completion
	PRURL string `json:"prUrl,omitempty"`

	// Timing
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration,omitempty"`

	// Error tracking
	Error string `json:"error,omitempty"`
}

// NewState creates a run state with a fresh run ID.
func NewState(cfg Config) State {
	return State{
		RunID:     generateRunID(),
		Config:    cfg,
		StartTime: time.Now(),
	}
}

// WithRunID sets a custom run ID.
func (s State) WithRunID(runID string) State {
	s.RunID = runID
	return s
}

// WithIssue pre-selects an issue, skipping pickup.
func (s State) WithIssue(issue *issueflow.Issue) State {
	s.Issue = issue
	return s
}

// FinalizeDuration sets total duration from start time.
func (s *State) FinalizeDuration() {
	s.Duration = time.Since(s.StartTime)
}

// SetError sets the error state.
func (s *State) SetError(err error) {
	if err != nil {
		s.Error = err.Error()
	}
}

// HasError returns true if state has an error.
func (s State) HasError() bool {
	return s.Error != ""
}

// =============================================================================
// State Validation
// =============================================================================

// StateRequirement defines a state prerequisite.
type StateRequirement string

const (
	RequireIssue    StateRequirement = "issue"
	RequireBranch   StateRequirement = "branch"
	RequireWorktree StateRequirement = "worktree"
	RequireSummary  StateRequirement = "summary"
)

// Validate checks if state has required fields.
func (s State) Validate(requirements ...StateRequirement) error {
	for _, req := range requirements {
		switch req {
		case RequireIssue:
			if s.Issue == nil {
				return fmt.Errorf("issue required")
			}
		case RequireBranch:
			if s.Branch == "" {
				return fmt.Errorf("branch required")
			}
		case RequireWorktree:
			if s.Worktree == "" {
				return fmt.Errorf("worktree required")
			}
		case RequireSummary:
			if s.Summary == "" {
				return fmt.Errorf("summary required")
			}
		default:
			return fmt.Errorf("unknown requirement: %s", req)
		}
	}
	return nil
}

// =============================================================================
// Helper Functions
// =============================================================================

// generateRunID creates a unique run ID like "run-20060102-x7k2p9qm".
func generateRunID() string {
	timestamp := time.Now().Format("20060102")
	suffix, err := nanoid.Generate(runIDAlphabet, 8)
	if err != nil {
		// Entropy failure; timestamps keep IDs unique enough.
		suffix = fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return fmt.Sprintf("run-%s-%s", timestamp, suffix)
}

// =============================================================================
// State Summary
// =============================================================================

// Summarize returns a human-readable one-line summary of the run.
func (s State) Summarize() string {
	var status string
	switch {
	case s.Error != "":
		status = "failed"
	case s.CompletionPosted:
		status = "in review"
	case s.Worktree != "":
		status = "working"
	case s.Issue != nil:
		status = "claimed"
	default:
		status = "idle"
	}

	issue := "(none)"
	if s.Issue != nil {
		issue = s.Issue.ID
	}

	return fmt.Sprintf("Run %s [%s]: issue %s", s.RunID, status, issue)
}
