package assistant

import (
	"fmt"
	"strings"
)

// Preference is one collected category→answer pair.
type Preference struct {
	Category string
	Answer   string
}

// PreferenceSet is an insertion-ordered mapping from preference category to
// the chosen answer. Order matters because collected preferences are rendered
// into outgoing query text in the order the user supplied them.
type PreferenceSet struct {
	order  []string
	values map[string]string
}

func newPreferenceSet() *PreferenceSet {
	return &PreferenceSet{values: make(map[string]string)}
}

// Len returns the number of collected preferences.
func (s *PreferenceSet) Len() int { return len(s.order) }

// Get looks up the answer for a category.
func (s *PreferenceSet) Get(category string) (string, bool) {
	answer, ok := s.values[category]
	return answer, ok
}

// Pairs returns the preferences in insertion order.
func (s *PreferenceSet) Pairs() []Preference {
	pairs := make([]Preference, 0, len(s.order))
	for _, category := range s.order {
		pairs = append(pairs, Preference{Category: category, Answer: s.values[category]})
	}
	return pairs
}

// Snapshot returns the preferences as a plain map for outgoing requests.
func (s *PreferenceSet) Snapshot() map[string]string {
	if len(s.values) == 0 {
		return nil
	}
	snapshot := make(map[string]string, len(s.values))
	for category, answer := range s.values {
		snapshot[category] = answer
	}
	return snapshot
}

// Render formats the set as comma-joined "category: answer" pairs in
// insertion order, the form embedded into enhanced query text.
func (s *PreferenceSet) Render() string {
	parts := make([]string, 0, len(s.order))
	for _, category := range s.order {
		parts = append(parts, fmt.Sprintf("%s: %s", category, s.values[category]))
	}
	return strings.Join(parts, ", ")
}

func (s *PreferenceSet) set(category, answer string) {
	if _, exists := s.values[category]; !exists {
		s.order = append(s.order, category)
	}
	s.values[category] = answer
}

func (s *PreferenceSet) remove(category string) {
	if _, exists := s.values[category]; !exists {
		return
	}
	delete(s.values, category)
	for i, c := range s.order {
		if c == category {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *PreferenceSet) clear() {
	s.order = s.order[:0]
	for category := range s.values {
		delete(s.values, category)
	}
}

// PreferenceStore holds the two views of collected preferences: persisted
// (accumulates across turns, attached to every outgoing request) and
// displayed (shown as editable tags in the input area, consumed by the next
// submission). All mutations go through shared helpers that touch both views
// together, so displayed can never hold a category that persisted lacks.
type PreferenceStore struct {
	persisted *PreferenceSet
	displayed *PreferenceSet
}

// NewPreferenceStore creates an empty store.
func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{
		persisted: newPreferenceSet(),
		displayed: newPreferenceSet(),
	}
}

// Set records an answer for a category in both views. Re-answering a
// category overwrites the previous answer.
func (st *PreferenceStore) Set(category, answer string) {
	st.persisted.set(category, answer)
	st.displayed.set(category, answer)
}

// Remove deletes a category from both views. Removing an absent category is
// a no-op.
func (st *PreferenceStore) Remove(category string) {
	st.persisted.remove(category)
	st.displayed.remove(category)
}

// ClearDisplayed empties the displayed view only, after a submission
// consumed the tags. Persisted preferences survive.
func (st *PreferenceStore) ClearDisplayed() {
	st.displayed.clear()
}

// Reset empties both views.
func (st *PreferenceStore) Reset() {
	st.persisted.clear()
	st.displayed.clear()
}

// Persisted returns the accumulating view.
func (st *PreferenceStore) Persisted() *PreferenceSet { return st.persisted }

// Displayed returns the pending-tags view.
func (st *PreferenceStore) Displayed() *PreferenceSet { return st.displayed }
