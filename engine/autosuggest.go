package engine

import (
	"github.com/brindle-search/jamesql/internal/spelling"
	"github.com/brindle-search/jamesql/model"
)

// EnableAutosuggest builds an autosuggest trie over field, backfilling
// it from every document already indexed. Calling it again on a field
// that already has a trie rebuilds it from scratch, picking up any
// change in the live document set.
func (e *Engine) EnableAutosuggest(field string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := spelling.NewAutosuggestTrie(field)
	e.store.Each(func(_ model.ID, doc model.Document) {
		v, ok := doc[field]
		if !ok {
			return
		}
		for _, s := range model.StringValues(v) {
			t.Add(s)
		}
	})
	e.autosuggest[field] = t
	return nil
}

// Autosuggest returns up to limit candidates for field sharing prefix,
// per §6's autosuggest: word-level completions by default, or whole
// matching field values when matchFullRecord is set. An un-enabled
// field yields no suggestions rather than an error.
func (e *Engine) Autosuggest(field, prefix string, matchFullRecord bool, limit int) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, ok := e.autosuggest[field]
	if !ok {
		return nil
	}
	return t.Suggest(prefix, matchFullRecord, limit)
}
