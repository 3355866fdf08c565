package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	gl "github.com/xanzy/go-gitlab"

	"github.com/randalmurphal/issueflow"
)

// StateLabelPrefix is the scoped-label prefix carrying workflow state.
// GitLab enforces that an issue holds at most one label per scope, so
// the prefix doubles as a state machine guard.
const StateLabelPrefix = "workflow::"

// Tracker adapts go-gitlab to the issueflow.Tracker contract. State
// lives in workflow:: scoped labels; priority in the shared "P: *"
// labels.
type Tracker struct {
	client  *gl.Client
	project string
	vocab   *issueflow.Vocabulary
}

var _ issueflow.Tracker = (*Tracker)(nil)

// NewTracker creates a Tracker for the project (numeric ID or
// "namespace/project" path).
func NewTracker(client *gl.Client, project string) *Tracker {
	return &Tracker{
		client:  client,
		project: project,
		vocab:   issueflow.BoardVocabulary(),
	}
}

// ListIssues returns open issues matching the filter. A State filter
// selects by the corresponding workflow:: label.
func (t *Tracker) ListIssues(ctx context.Context, filter issueflow.IssueFilter) ([]issueflow.Issue, error) {
	opts := &gl.ListProjectIssuesOptions{
		State:       gl.Ptr("opened"),
		ListOptions: gl.ListOptions{PerPage: 100},
	}
	if filter.State != "" {
		opts.Labels = gl.Ptr(gl.LabelOptions{t.stateLabel(filter.State)})
	}
	if filter.Milestone != "" {
		opts.Milestone = gl.Ptr(filter.Milestone)
	}
	if filter.Limit > 0 && filter.Limit < 100 {
		opts.PerPage = filter.Limit
	}

	var out []issueflow.Issue
	for {
		issues, resp, err := t.client.Issues.ListProjectIssues(t.project, opts, gl.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("list gitlab issues: %w", err)
		}
		for _, issue := range issues {
			out = append(out, convertIssue(issue))
			if filter.Limit > 0 && len(out) == filter.Limit {
				return out, nil
			}
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// GetIssue returns an issue by IID, including its notes.
func (t *Tracker) GetIssue(ctx context.Context, id string) (*issueflow.Issue, error) {
	iid, err := parseIssueIID(id)
	if err != nil {
		return nil, err
	}

	issue, resp, err := t.client.Issues.GetIssue(t.project, iid, gl.WithContext(ctx))
	if err != nil {
		return nil, translateError(err, resp, id)
	}
	out := convertIssue(issue)

	notes, resp, err := t.client.Notes.ListIssueNotes(t.project, iid,
		&gl.ListIssueNotesOptions{ListOptions: gl.ListOptions{PerPage: 100}}, gl.WithContext(ctx))
	if err != nil {
		return nil, translateError(err, resp, id)
	}
	for _, note := range notes {
		if note.System {
			continue // state-change noise, not conversation
		}
		comment := issueflow.Comment{Body: note.Body}
		if note.Author.Username != "" {
			comment.Author = note.Author.Username
		}
		if note.CreatedAt != nil {
			comment.CreatedAt = *note.CreatedAt
		}
		out.Comments = append(out.Comments, comment)
	}
	return &out, nil
}

// PostComment adds a note to an issue.
func (t *Tracker) PostComment(ctx context.Context, id, body string) error {
	iid, err := parseIssueIID(id)
	if err != nil {
		return err
	}
	_, resp, err := t.client.Notes.CreateIssueNote(t.project, iid,
		&gl.CreateIssueNoteOptions{Body: gl.Ptr(body)}, gl.WithContext(ctx))
	return translateError(err, resp, id)
}

// SetState swaps an issue's workflow:: label for the one matching the
// canonical state. The target label must exist on the project; creating
// board columns is a human decision.
func (t *Tracker) SetState(ctx context.Context, id string, state issueflow.CanonicalState) error {
	iid, err := parseIssueIID(id)
	if err != nil {
		return err
	}

	target, err := t.resolveStateLabel(ctx, state)
	if err != nil {
		return err
	}

	issue, resp, err := t.client.Issues.GetIssue(t.project, iid, gl.WithContext(ctx))
	if err != nil {
		return translateError(err, resp, id)
	}

	var remove gl.LabelOptions
	for _, label := range issue.Labels {
		if strings.HasPrefix(label, StateLabelPrefix) && label != target {
			remove = append(remove, label)
		}
	}

	opts := &gl.UpdateIssueOptions{AddLabels: gl.Ptr(gl.LabelOptions{target})}
	if len(remove) > 0 {
		opts.RemoveLabels = gl.Ptr(remove)
	}
	_, resp, err = t.client.Issues.UpdateIssue(t.project, iid, opts, gl.WithContext(ctx))
	return translateError(err, resp, id)
}

// ListWorkflowStates returns the project's workflow:: labels in
// vocabulary order, with labels the vocabulary does not know trailing.
func (t *Tracker) ListWorkflowStates(ctx context.Context) ([]issueflow.StateInfo, error) {
	labels, err := t.stateLabels(ctx)
	if err != nil {
		return nil, err
	}

	var known, unknown []issueflow.StateInfo
	for _, label := range labels {
		name := strings.TrimPrefix(label, StateLabelPrefix)
		info := issueflow.StateInfo{NativeID: label, Name: name}
		if _, ok := t.vocab.Normalize(name); ok {
			known = append(known, info)
		} else {
			unknown = append(unknown, info)
		}
	}

	sortByVocabulary(known, t.vocab)
	out := append(known, unknown...)
	for i := range out {
		out[i].Position = i
	}
	return out, nil
}

// resolveStateLabel finds the project label for a canonical state.
func (t *Tracker) resolveStateLabel(ctx context.Context, state issueflow.CanonicalState) (string, error) {
	labels, err := t.stateLabels(ctx)
	if err != nil {
		return "", err
	}
	for _, label := range labels {
		name := strings.TrimPrefix(label, StateLabelPrefix)
		if canonical, ok := t.vocab.Normalize(name); ok && canonical == state {
			return label, nil
		}
	}
	return "", fmt.Errorf("%w: no %s label for %q in project %s (have: %s)",
		issueflow.ErrStateNotFound, StateLabelPrefix, state, t.project, strings.Join(labels, ", "))
}

// stateLabels lists the project's workflow:: labels.
func (t *Tracker) stateLabels(ctx context.Context) ([]string, error) {
	var out []string
	opts := &gl.ListLabelsOptions{ListOptions: gl.ListOptions{PerPage: 100}}
	for {
		labels, resp, err := t.client.Labels.ListLabels(t.project, opts, gl.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("list gitlab labels: %w", err)
		}
		for _, label := range labels {
			if strings.HasPrefix(label.Name, StateLabelPrefix) {
				out = append(out, label.Name)
			}
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}

// stateLabel builds the label to filter by for a raw state spelling.
func (t *Tracker) stateLabel(state string) string {
	if canonical, ok := t.vocab.Normalize(state); ok {
		return StateLabelPrefix + string(canonical)
	}
	return StateLabelPrefix + strings.ToLower(state)
}

// sortByVocabulary orders states by their workflow position.
func sortByVocabulary(states []issueflow.StateInfo, vocab *issueflow.Vocabulary) {
	sort.SliceStable(states, func(i, j int) bool {
		return stateOrder(vocab, states[i].Name) < stateOrder(vocab, states[j].Name)
	})
}

func stateOrder(vocab *issueflow.Vocabulary, name string) int {
	canonical, ok := vocab.Normalize(name)
	if !ok {
		return len(vocab.States())
	}
	return vocab.Order(canonical)
}

// convertIssue maps a GitLab issue onto the backend-neutral shape. The
// workflow:: label becomes CurrentState; all other labels pass through.
func convertIssue(issue *gl.Issue) issueflow.Issue {
	out := issueflow.Issue{
		ID:       strconv.Itoa(issue.IID),
		Title:    issue.Title,
		Body:     issue.Description,
		URL:      issue.WebURL,
		Metadata: map[string]string{"globalId": strconv.Itoa(issue.ID)},
	}
	for _, label := range issue.Labels {
		if strings.HasPrefix(label, StateLabelPrefix) {
			out.CurrentState = strings.TrimPrefix(label, StateLabelPrefix)
			continue
		}
		out.Labels = append(out.Labels, label)
	}
	if issue.Assignee != nil {
		out.Assignee = issue.Assignee.Username
	}
	if issue.Milestone != nil {
		out.Milestone = issue.Milestone.Title
	}
	if issue.CreatedAt != nil {
		out.CreatedAt = *issue.CreatedAt
	}
	return out
}

// parseIssueIID parses a decimal issue IID.
func parseIssueIID(id string) (int, error) {
	iid, err := strconv.Atoi(strings.TrimPrefix(id, "#"))
	if err != nil {
		return 0, fmt.Errorf("gitlab issue id %q is not a number", id)
	}
	return iid, nil
}

// translateError maps a 404 onto the core sentinel.
func translateError(err error, resp *gl.Response, id string) error {
	if err == nil {
		return nil
	}
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", issueflow.ErrIssueNotFound, id)
	}
	return err
}
