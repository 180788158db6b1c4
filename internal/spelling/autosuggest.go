package spelling

import (
	"sort"
	"strings"

	"github.com/brindle-search/jamesql/internal/tokenizer"
)

// defaultSuggestLimit is applied when a caller does not request an
// explicit limit.
const defaultSuggestLimit = 10

type suggestNode struct {
	children map[byte]*suggestNode
	words    map[string]struct{}
}

func newSuggestNode() *suggestNode {
	return &suggestNode{children: make(map[byte]*suggestNode), words: make(map[string]struct{})}
}

// AutosuggestTrie is the prefix trie enable_autosuggest builds over
// one document field: every indexed token (or, in match-full-record
// mode, every whole field value) is inserted along its own path so a
// prefix walk returns every candidate sharing that prefix, ranked by
// the corpus unigram/record frequency.
type AutosuggestTrie struct {
	Field      string
	words      *suggestNode
	records    *suggestNode
	wordFreq   map[string]int
	recordOrig map[string]string
	recordFreq map[string]int
}

// NewAutosuggestTrie creates an empty trie for field.
func NewAutosuggestTrie(field string) *AutosuggestTrie {
	return &AutosuggestTrie{
		Field:      field,
		words:      newSuggestNode(),
		records:    newSuggestNode(),
		wordFreq:   make(map[string]int),
		recordOrig: make(map[string]string),
		recordFreq: make(map[string]int),
	}
}

// Add indexes value (the field's raw string value for one document)
// at both word and whole-record granularity.
func (t *AutosuggestTrie) Add(value string) {
	for _, tok := range tokenizer.Tokenize(value) {
		t.insert(t.words, tok.Lower)
		t.wordFreq[tok.Lower]++
	}
	key := strings.ToLower(value)
	t.insert(t.records, key)
	t.recordOrig[key] = value
	t.recordFreq[key]++
}

// Remove undoes a prior Add.
func (t *AutosuggestTrie) Remove(value string) {
	for _, tok := range tokenizer.Tokenize(value) {
		if t.wordFreq[tok.Lower] <= 1 {
			delete(t.wordFreq, tok.Lower)
			t.removeWord(t.words, tok.Lower)
			continue
		}
		t.wordFreq[tok.Lower]--
	}
	key := strings.ToLower(value)
	if t.recordFreq[key] <= 1 {
		delete(t.recordFreq, key)
		delete(t.recordOrig, key)
		t.removeWord(t.records, key)
		return
	}
	t.recordFreq[key]--
}

func (t *AutosuggestTrie) insert(root *suggestNode, word string) {
	node := root
	node.words[word] = struct{}{}
	for i := 0; i < len(word); i++ {
		child, ok := node.children[word[i]]
		if !ok {
			child = newSuggestNode()
			node.children[word[i]] = child
		}
		child.words[word] = struct{}{}
		node = child
	}
}

// removeWord drops word from every trie node along its path, pruning
// empty leaves isn't necessary for correctness (stale empty nodes
// just cost a little memory) so it is not attempted here.
func (t *AutosuggestTrie) removeWord(root *suggestNode, word string) {
	node := root
	delete(node.words, word)
	for i := 0; i < len(word); i++ {
		child, ok := node.children[word[i]]
		if !ok {
			return
		}
		delete(child.words, word)
		node = child
	}
}

// Suggest returns up to limit candidates sharing prefix, ranked by
// descending frequency (ties broken alphabetically for determinism).
// matchFullRecord selects whole indexed field values over individual
// tokens. It returns nil when no candidate shares prefix.
func (t *AutosuggestTrie) Suggest(prefix string, matchFullRecord bool, limit int) []string {
	if limit <= 0 {
		limit = defaultSuggestLimit
	}
	prefix = strings.ToLower(prefix)

	root := t.words
	freq := t.wordFreq
	display := func(w string) string { return w }
	if matchFullRecord {
		root = t.records
		freq = t.recordFreq
		display = func(w string) string { return t.recordOrig[w] }
	}

	node := root
	for i := 0; i < len(prefix); i++ {
		child, ok := node.children[prefix[i]]
		if !ok {
			return nil
		}
		node = child
	}

	candidates := make([]string, 0, len(node.words))
	for w := range node.words {
		candidates = append(candidates, w)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if freq[candidates[i]] != freq[candidates[j]] {
			return freq[candidates[i]] > freq[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = display(c)
	}
	return out
}
