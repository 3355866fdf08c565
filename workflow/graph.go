package workflow

import (
	"github.com/randalmurphal/flowgraph/pkg/flowgraph"
)

// Node names used in the run graph.
const (
	NodePickup   = "pickup"
	NodeClaim    = "claim"
	NodeWorktree = "worktree"
	NodePlan     = "plan"
	NodeTests    = "tests"
	NodeComplete = "complete"
	NodeNotify   = "notify"
)

// NewRunGraph builds the full issue run graph:
//
//	pickup -> claim -> worktree -> plan -> tests -> complete -> notify
//
// A conditional edge after pickup ends the run when no issue is
// eligible. Callers compile the returned graph and run it with a
// context carrying the engine, git context, and (optionally) a
// notifier and PR opener.
func NewRunGraph() *flowgraph.Graph[State] {
	return flowgraph.NewGraph[State]().
		AddNode(NodePickup, PickupNode).
		AddNode(NodeClaim, ClaimNode).
		AddNode(NodeWorktree, WorktreeNode).
		AddNode(NodePlan, PlanCommentNode).
		AddNode(NodeTests, RunTestsNode).
		AddNode(NodeComplete, CompleteNode).
		AddNode(NodeNotify, NotifyNode).
		AddConditionalEdge(NodePickup, PickupRouter).
		AddEdge(NodeClaim, NodeWorktree).
		AddEdge(NodeWorktree, NodePlan).
		AddEdge(NodePlan, NodeTests).
		AddEdge(NodeTests, NodeComplete).
		AddEdge(NodeComplete, NodeNotify).
		AddEdge(NodeNotify, flowgraph.END).
		SetEntry(NodePickup)
}

// NewPickupGraph builds the short pickup-and-claim graph used when an
// agent only reserves work:
//
//	pickup -> claim -> worktree -> plan -> notify
func NewPickupGraph() *flowgraph.Graph[State] {
	return flowgraph.NewGraph[State]().
		AddNode(NodePickup, PickupNode).
		AddNode(NodeClaim, ClaimNode).
		AddNode(NodeWorktree, WorktreeNode).
		AddNode(NodePlan, PlanCommentNode).
		AddNode(NodeNotify, NotifyNode).
		AddConditionalEdge(NodePickup, PickupRouter).
		AddEdge(NodeClaim, NodeWorktree).
		AddEdge(NodeWorktree, NodePlan).
		AddEdge(NodePlan, NodeNotify).
		AddEdge(NodeNotify, flowgraph.END).
		SetEntry(NodePickup)
}
