package issueflow

import (
	"strings"
)

// CanonicalState is the normalized, deduplicated name for a workflow
// position, independent of backend-specific spelling.
type CanonicalState string

// Ownership documents who drives an issue while it sits in a state.
// It is informational only; nothing enforces it mechanically.
type Ownership string

// Ownership values.
const (
	OwnerHuman        Ownership = "human"
	OwnerHumanToAgent Ownership = "human→agent"
	OwnerAgent        Ownership = "agent"
	OwnerArchive      Ownership = "archive"
)

// StateSpec declares one workflow state for a Vocabulary.
type StateSpec struct {
	Name        CanonicalState
	Owner       Ownership
	Description string
}

// Transition is a (from, to) state pair.
type Transition struct {
	From CanonicalState
	To   CanonicalState
}

// Vocabulary is the closed catalog of workflow states for one backend
// flavor: the canonical ordered list, alias spellings, ownership tags,
// and the transition rules. All methods are pure functions over static
// tables.
type Vocabulary struct {
	states    []StateSpec
	order     map[CanonicalState]int
	aliases   map[string]CanonicalState
	backwards map[Transition]bool
}

// NewVocabulary builds a Vocabulary from an ordered state list, an alias
// table (keys in any spelling), and the allow-list of backward
// transitions. State names must be unique.
func NewVocabulary(states []StateSpec, aliases map[string]CanonicalState, backwards []Transition) *Vocabulary {
	v := &Vocabulary{
		states:    states,
		order:     make(map[CanonicalState]int, len(states)),
		aliases:   make(map[string]CanonicalState, len(aliases)),
		backwards: make(map[Transition]bool, len(backwards)),
	}
	for i, s := range states {
		v.order[s.Name] = i
	}
	for raw, canonical := range aliases {
		v.aliases[foldStateName(raw)] = canonical
	}
	for _, t := range backwards {
		v.backwards[t] = true
	}
	return v
}

// foldStateName reduces a raw state spelling to its comparison form:
// lowercased, trimmed, with hyphen/underscore runs treated as spaces.
func foldStateName(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Normalize resolves a raw state spelling to its canonical name.
// Lookup order: alias table, then case-insensitive match against the
// canonical list. Returns false for unrecognized names. Idempotent:
// normalizing an already-canonical name returns it unchanged.
func (v *Vocabulary) Normalize(raw string) (CanonicalState, bool) {
	folded := foldStateName(raw)
	if folded == "" {
		return "", false
	}
	if canonical, ok := v.aliases[folded]; ok {
		return canonical, true
	}
	for _, s := range v.states {
		if foldStateName(string(s.Name)) == folded {
			return s.Name, true
		}
	}
	return "", false
}

// States returns the canonical states in workflow order.
func (v *Vocabulary) States() []CanonicalState {
	names := make([]CanonicalState, len(v.states))
	for i, s := range v.states {
		names[i] = s.Name
	}
	return names
}

// Specs returns the full state declarations in workflow order.
func (v *Vocabulary) Specs() []StateSpec {
	out := make([]StateSpec, len(v.states))
	copy(out, v.states)
	return out
}

// Order returns a state's position in the workflow sequence.
// Returns -1 for unrecognized states.
func (v *Vocabulary) Order(state CanonicalState) int {
	if i, ok := v.order[state]; ok {
		return i
	}
	return -1
}

// Owner returns the ownership tag for a state, or empty if unrecognized.
func (v *Vocabulary) Owner(state CanonicalState) Ownership {
	if i, ok := v.order[state]; ok {
		return v.states[i].Owner
	}
	return ""
}

// IsValidTransition reports whether moving from one canonical state to
// another is allowed. Forward and lateral moves are always valid;
// backward moves only when allow-listed. Either endpoint being
// unrecognized makes the transition invalid.
func (v *Vocabulary) IsValidTransition(from, to CanonicalState) bool {
	fromIdx, ok := v.order[from]
	if !ok {
		return false
	}
	toIdx, ok := v.order[to]
	if !ok {
		return false
	}
	if toIdx >= fromIdx {
		return true
	}
	return v.backwards[Transition{From: from, To: to}]
}

// AllowedFrom returns every state legally reachable from the given
// state, in workflow order. Empty for unrecognized states.
func (v *Vocabulary) AllowedFrom(from CanonicalState) []CanonicalState {
	if _, ok := v.order[from]; !ok {
		return nil
	}
	var out []CanonicalState
	for _, s := range v.states {
		if v.IsValidTransition(from, s.Name) {
			out = append(out, s.Name)
		}
	}
	return out
}

// StateCheck is the result of validating a backend's configured states
// against the vocabulary's required set.
type StateCheck struct {
	Valid   bool
	Found   []CanonicalState
	Missing []CanonicalState
	Extra   []string
}

// CheckStates validates that every required canonical state exists among
// the backend's available state names. Unrecognized backend states are
// reported as extras, not errors.
func (v *Vocabulary) CheckStates(available []string) StateCheck {
	seen := make(map[CanonicalState]bool)
	var extra []string
	for _, name := range available {
		if canonical, ok := v.Normalize(name); ok {
			seen[canonical] = true
		} else {
			extra = append(extra, name)
		}
	}

	check := StateCheck{Extra: extra}
	for _, s := range v.states {
		if seen[s.Name] {
			check.Found = append(check.Found, s.Name)
		} else {
			check.Missing = append(check.Missing, s.Name)
		}
	}
	check.Valid = len(check.Missing) == 0
	return check
}
