package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	domain "github.com/brandfolio/api/internal/domain"
)

// FilterState captures the active search term and tag selection. The zero
// value matches everything.
type FilterState struct {
	SearchTerm string
	ActiveTags map[string]struct{}
}

// NewFilterState normalizes raw user input into a FilterState: the term is
// trimmed and case-folded, tags are case-folded and deduplicated.
func NewFilterState(term string, tags []string) FilterState {
	state := FilterState{SearchTerm: foldTerm(term)}
	for _, tag := range tags {
		folded := foldTerm(tag)
		if folded == "" {
			continue
		}
		if state.ActiveTags == nil {
			state.ActiveTags = make(map[string]struct{}, len(tags))
		}
		state.ActiveTags[folded] = struct{}{}
	}
	return state
}

// Empty reports whether the state applies no restriction.
func (s FilterState) Empty() bool {
	return s.SearchTerm == "" && len(s.ActiveTags) == 0
}

// Tags returns the active tag set as a slice, in unspecified order.
func (s FilterState) Tags() []string {
	if len(s.ActiveTags) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.ActiveTags))
	for tag := range s.ActiveTags {
		out = append(out, tag)
	}
	return out
}

// Apply filters entries against the state. It is a pure function: the result
// is the order-preserving subsequence of entries for which both the search
// predicate and the tag predicate hold.
//
// The search predicate matches when the term is empty or appears as a
// case-folded substring of the title, the description, or any tag. The tag
// predicate matches when no tags are selected or the entry carries at least
// one selected tag (OR across selections: adding tags widens the result).
func Apply(entries []domain.Product, state FilterState) []domain.Product {
	if state.Empty() {
		out := make([]domain.Product, len(entries))
		copy(out, entries)
		return out
	}

	out := make([]domain.Product, 0, len(entries))
	for _, entry := range entries {
		if matchesSearch(entry, state.SearchTerm) && matchesTags(entry, state.ActiveTags) {
			out = append(out, entry)
		}
	}
	return out
}

func matchesSearch(entry domain.Product, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(foldTerm(entry.Title), term) {
		return true
	}
	if strings.Contains(foldTerm(entry.Description), term) {
		return true
	}
	for _, tag := range entry.Tags {
		if strings.Contains(foldTerm(tag), term) {
			return true
		}
	}
	return false
}

func matchesTags(entry domain.Product, active map[string]struct{}) bool {
	if len(active) == 0 {
		return true
	}
	for _, tag := range entry.Tags {
		if _, ok := active[foldTerm(tag)]; ok {
			return true
		}
	}
	return false
}

// foldTerm trims and case-folds a string for caseless comparison. A fresh
// caser per call: cases.Caser carries internal state and must not be shared
// across goroutines.
func foldTerm(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}
