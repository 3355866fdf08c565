package issueflow

// Linear-flavor workflow:
//
//	Backlog → Todo → Dev Ready → In Progress → In Review → Done
//
// The agent picks up from Todo (planning) and Dev Ready (implementation);
// Backlog, In Review, and Done belong to humans.

// Linear canonical states.
const (
	StateBacklog    CanonicalState = "Backlog"
	StateTodo       CanonicalState = "Todo"
	StateDevReady   CanonicalState = "Dev Ready"
	StateInProgress CanonicalState = "In Progress"
	StateInReview   CanonicalState = "In Review"
	StateDone       CanonicalState = "Done"
)

// LinearPickupStates are the states an agent scans for new work, in scan
// order.
var LinearPickupStates = []CanonicalState{StateTodo, StateDevReady}

// LinearVocabulary returns the workflow vocabulary for Linear teams.
func LinearVocabulary() *Vocabulary {
	states := []StateSpec{
		{Name: StateBacklog, Owner: OwnerHuman,
			Description: "Human-managed backlog. Agent does not interact."},
		{Name: StateTodo, Owner: OwnerHumanToAgent,
			Description: "Human adds issues. Agent creates implementation plan and posts as comment."},
		{Name: StateDevReady, Owner: OwnerAgent,
			Description: "Plan approved. Agent picks up (manual trigger), implements."},
		{Name: StateInProgress, Owner: OwnerAgent,
			Description: "Agent actively implementing. Moves to In Review when complete."},
		{Name: StateInReview, Owner: OwnerHuman,
			Description: "Human validates. Approves to Done or returns to Dev Ready."},
		{Name: StateDone, Owner: OwnerArchive,
			Description: "Complete. Cleanup and archive."},
	}

	aliases := map[string]CanonicalState{
		"backlog":       StateBacklog,
		"todo":          StateTodo,
		"to do":         StateTodo,
		"dev ready":     StateDevReady,
		"devready":      StateDevReady,
		"ready":         StateDevReady,
		"ready for dev": StateDevReady,
		"in progress":   StateInProgress,
		"inprogress":    StateInProgress,
		"wip":           StateInProgress,
		"in review":     StateInReview,
		"inreview":      StateInReview,
		"review":        StateInReview,
		"done":          StateDone,
		"completed":     StateDone,
		"complete":      StateDone,
		"closed":        StateDone,
	}

	backwards := []Transition{
		{From: StateInReview, To: StateDevReady},   // Human rejects
		{From: StateInProgress, To: StateDevReady}, // Agent hit blocker
		{From: StateDevReady, To: StateTodo},       // Needs more planning
	}

	return NewVocabulary(states, aliases, backwards)
}

// LinearRanker orders issues by Linear's numeric priority codes:
// 1 = Urgent down to 4 = Low, with 0 (no priority) sinking to the bottom.
func LinearRanker() *Ranker {
	return NewCodeRanker(map[int]int{
		1: 1, // Urgent
		2: 2, // High
		3: 3, // Medium
		4: 4, // Low
	}, 5)
}

// Board-flavor workflow, used by GitHub Projects V2 boards and GitLab
// issue boards:
//
//	todo → planning → dev ready → in progress → review → done

// Board canonical states.
const (
	BoardTodo       CanonicalState = "todo"
	BoardPlanning   CanonicalState = "planning"
	BoardDevReady   CanonicalState = "dev ready"
	BoardInProgress CanonicalState = "in progress"
	BoardReview     CanonicalState = "review"
	BoardDone       CanonicalState = "done"
)

// BoardPickupStates are the board columns an agent scans for new work,
// in scan order.
var BoardPickupStates = []CanonicalState{BoardTodo, BoardDevReady}

// BoardVocabulary returns the workflow vocabulary for project boards.
func BoardVocabulary() *Vocabulary {
	states := []StateSpec{
		{Name: BoardTodo, Owner: OwnerHumanToAgent,
			Description: "Human adds issues. Agent plans and posts the plan as a comment."},
		{Name: BoardPlanning, Owner: OwnerHuman,
			Description: "Plan posted. Human reviews and approves."},
		{Name: BoardDevReady, Owner: OwnerAgent,
			Description: "Plan approved. Agent picks up and implements."},
		{Name: BoardInProgress, Owner: OwnerAgent,
			Description: "Agent actively implementing."},
		{Name: BoardReview, Owner: OwnerHuman,
			Description: "Human validates the implementation."},
		{Name: BoardDone, Owner: OwnerArchive,
			Description: "Complete."},
	}

	aliases := map[string]CanonicalState{
		"todo":          BoardTodo,
		"to do":         BoardTodo,
		"planning":      BoardPlanning,
		"plan":          BoardPlanning,
		"dev ready":     BoardDevReady,
		"devready":      BoardDevReady,
		"ready":         BoardDevReady,
		"ready for dev": BoardDevReady,
		"in progress":   BoardInProgress,
		"inprogress":    BoardInProgress,
		"wip":           BoardInProgress,
		"review":        BoardReview,
		"in review":     BoardReview,
		"done":          BoardDone,
		"completed":     BoardDone,
		"complete":      BoardDone,
		"closed":        BoardDone,
	}

	backwards := []Transition{
		{From: BoardReview, To: BoardDevReady},
		{From: BoardInProgress, To: BoardDevReady},
		{From: BoardDevReady, To: BoardTodo},
	}

	return NewVocabulary(states, aliases, backwards)
}

// BoardPriorityLabels are the recognized priority labels in rank order,
// most urgent first.
var BoardPriorityLabels = []string{"P: Critical", "P: HIGH", "P: Medium", "P: low"}

// BoardRanker orders issues by their priority label. Issues without a
// recognized priority label rank last.
func BoardRanker() *Ranker {
	return NewLabelRanker(BoardPriorityLabels)
}
