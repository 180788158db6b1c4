// Package spelling implements the corpus-wide unigram frequency
// model, the spelling corrector built on top of it, and the prefix
// trie backing autosuggest — the process-wide resources §5 and §9
// document as mutated only on the writer path and read under the
// same guard as every field index.
package spelling

import "strings"

// UnigramModel is the corpus-wide word -> occurrence-count table used
// both by spelling correction's candidate scoring and by
// autosuggest's ranking. It is mutated incrementally as documents are
// added and updated (a replaced document's tokens are removed first);
// Engine.Remove leaves it unchanged, just as it leaves a CONTAINS
// field index's postings in place.
type UnigramModel struct {
	counts map[string]int
}

// NewUnigramModel creates an empty model.
func NewUnigramModel() *UnigramModel {
	return &UnigramModel{counts: make(map[string]int)}
}

// AddTokens folds the occurrence of each lowercased token into the
// model, called once per indexed field value when a document is
// added.
func (m *UnigramModel) AddTokens(tokens []string) {
	for _, t := range tokens {
		m.counts[strings.ToLower(t)]++
	}
}

// RemoveTokens undoes a prior AddTokens, called when add or update
// replaces a document carrying those tokens.
func (m *UnigramModel) RemoveTokens(tokens []string) {
	for _, t := range tokens {
		key := strings.ToLower(t)
		if m.counts[key] <= 1 {
			delete(m.counts, key)
			continue
		}
		m.counts[key]--
	}
}

// Frequency returns word's corpus-wide occurrence count, 0 if it has
// never been indexed.
func (m *UnigramModel) Frequency(word string) int {
	return m.counts[strings.ToLower(word)]
}

// Contains reports whether word appears anywhere in the model.
func (m *UnigramModel) Contains(word string) bool {
	_, ok := m.counts[strings.ToLower(word)]
	return ok
}

// Vocabulary returns every distinct word the model has ever seen, in
// no particular order.
func (m *UnigramModel) Vocabulary() []string {
	out := make([]string, 0, len(m.counts))
	for w := range m.counts {
		out = append(out, w)
	}
	return out
}
