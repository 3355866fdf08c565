package issueflow

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NoStatus is the report bucket for issues without a recognized
// workflow state.
const NoStatus CanonicalState = "no status"

// maxReportRows caps how many issues a report section lists per state.
const maxReportRows = 5

// Report groups issues by workflow state and by label. It is a read-only
// derivative view; building one performs no backend calls.
type Report struct {
	Scope   string
	Total   int
	ByState map[CanonicalState][]Issue
	ByLabel map[string][]Issue

	vocab  *Vocabulary
	ranker *Ranker
}

// BuildReport groups the given issues using the engine's vocabulary.
// Issues whose state does not normalize land under NoStatus. The scope
// string (a milestone or team name) is used only for rendering.
func (e *Engine) BuildReport(issues []Issue, scope string) *Report {
	r := &Report{
		Scope:   scope,
		Total:   len(issues),
		ByState: make(map[CanonicalState][]Issue),
		ByLabel: make(map[string][]Issue),
		vocab:   e.vocab,
		ranker:  e.ranker,
	}

	for _, issue := range issues {
		state := NoStatus
		if canonical, ok := e.vocab.Normalize(issue.CurrentState); ok {
			state = canonical
		}
		r.ByState[state] = append(r.ByState[state], issue)

		for _, label := range issue.Labels {
			r.ByLabel[label] = append(r.ByLabel[label], issue)
		}
	}

	return r
}

// Render formats the report as markdown: a section per workflow state in
// vocabulary order with up to five issues each, then the priority-label
// distribution.
func (r *Report) Render(priorityLabels []string) string {
	var sb strings.Builder
	title := cases.Title(language.English)

	if r.Scope != "" {
		fmt.Fprintf(&sb, "## Status Report: %s\n\n", r.Scope)
	} else {
		sb.WriteString("## Status Report: All Issues\n\n")
	}
	fmt.Fprintf(&sb, "**Total Issues:** %d\n\n", r.Total)

	sb.WriteString("### By Status\n")
	order := append(r.vocab.States(), NoStatus)
	for _, state := range order {
		issues := r.ByState[state]
		if len(issues) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n**%s** (%d)\n", title.String(string(state)), len(issues))
		for i, issue := range issues {
			if i == maxReportRows {
				fmt.Fprintf(&sb, "  ... and %d more\n", len(issues)-maxReportRows)
				break
			}
			labelStr := ""
			if len(issue.Labels) > 0 {
				labelStr = fmt.Sprintf(" [%s]", strings.Join(issue.Labels, ", "))
			}
			fmt.Fprintf(&sb, "  - %s: %s%s\n", issue.ID, issue.Title, labelStr)
		}
	}

	if len(priorityLabels) > 0 {
		sb.WriteString("\n### By Priority\n")
		for _, label := range priorityLabels {
			if issues := r.ByLabel[label]; len(issues) > 0 {
				fmt.Fprintf(&sb, "- **%s**: %d issues\n", label, len(issues))
			}
		}
	}

	return sb.String()
}
