package issueflow

import (
	"sort"
	"strings"
)

// Ranker maps an issue's raw priority representation to an integer rank.
// Lower rank is more urgent. Issues whose priority is absent or unmapped
// always get the worst rank; that is never an error.
type Ranker struct {
	labels map[string]int // folded label -> rank
	codes  map[int]int    // numeric code -> rank
	worst  int
}

// NewLabelRanker builds a Ranker from priority label names ordered most
// urgent first. Label matching is case-insensitive. The worst rank is
// len(order).
func NewLabelRanker(order []string) *Ranker {
	labels := make(map[string]int, len(order))
	for i, name := range order {
		labels[strings.ToLower(name)] = i
	}
	return &Ranker{labels: labels, worst: len(order)}
}

// NewCodeRanker builds a Ranker from a numeric-code lookup table and an
// explicit worst rank for unmapped codes.
func NewCodeRanker(table map[int]int, worst int) *Ranker {
	codes := make(map[int]int, len(table))
	for code, rank := range table {
		codes[code] = rank
	}
	return &Ranker{codes: codes, worst: worst}
}

// WorstRank returns the rank assigned to unmapped priorities.
func (r *Ranker) WorstRank() int {
	return r.worst
}

// Rank computes the priority rank for an issue.
//
// Label rankers scan the issue's labels and the best-ranked recognized
// priority label wins. Code rankers look up the issue's numeric priority
// code.
func (r *Ranker) Rank(issue Issue) int {
	if r.labels != nil {
		best := r.worst
		for _, label := range issue.Labels {
			if rank, ok := r.labels[strings.ToLower(label)]; ok && rank < best {
				best = rank
			}
		}
		if best == r.worst {
			if rank, ok := r.labels[strings.ToLower(issue.PriorityLabel)]; ok {
				best = rank
			}
		}
		return best
	}
	if rank, ok := r.codes[issue.PriorityCode]; ok {
		return rank
	}
	return r.worst
}

// Compare orders two issues by (rank, createdAt) ascending. Returns a
// negative value if a sorts before b, positive if after, zero if tied.
func (r *Ranker) Compare(a, b Issue) int {
	ra, rb := r.Rank(a), r.Rank(b)
	if ra != rb {
		return ra - rb
	}
	switch {
	case a.CreatedAt.Before(b.CreatedAt):
		return -1
	case a.CreatedAt.After(b.CreatedAt):
		return 1
	}
	return 0
}

// Sort orders issues in place by priority, oldest first within equal
// priority. The sort is stable: fully tied issues keep their original
// relative order.
func (r *Ranker) Sort(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		return r.Compare(issues[i], issues[j]) < 0
	})
}
