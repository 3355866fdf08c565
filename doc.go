// Package issueflow provides the decision core for agent-driven issue
// tracking workflows: picking the next issue to work on and moving issues
// through a fixed workflow topology.
//
// Core types:
//   - Vocabulary: Canonical workflow states, alias normalization, and
//     transition rules
//   - Ranker: Priority ordering with creation-date tie-breaking
//   - Engine: Pickup selection and validated state transitions against a
//     Tracker backend
//   - Report: Issues grouped by state and label for status summaries
//
// Backends implement the Tracker interface. Three implementations ship in
// subpackages:
//   - github: GitHub Issues with a Projects V2 board for workflow status
//   - linear: Linear issues with native workflow states
//   - gitlab: GitLab issues with scoped workflow labels
//
// Example usage:
//
//	engine := issueflow.NewEngine(tracker,
//		issueflow.LinearVocabulary(), issueflow.LinearRanker())
//
//	picked, err := engine.Pickup(ctx, issueflow.PickupOptions{})
//	if picked != nil {
//		err = engine.Move(ctx, &picked.Issue, "In Progress")
//	}
package issueflow
