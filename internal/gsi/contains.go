package gsi

import (
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/brindle-search/jamesql/internal/tokenizer"
)

// wordPosting is the per-term posting: the set of documents
// containing the term in this field, and the positions at which it
// occurs within each of them.
type wordPosting struct {
	docs      *roaring.Bitmap
	positions map[uint32][]int
}

func newWordPosting() *wordPosting {
	return &wordPosting{docs: roaring.New(), positions: make(map[uint32][]int)}
}

// ContainsIndex is an inverted index with positional postings, plus a
// reverse exact-value index used to serve `equals` without a full
// token scan, and a per-document token count used for BM25 and the
// document-length invariant.
type ContainsIndex struct {
	postings   map[string]*wordPosting
	exactValue map[string]*roaring.Bitmap
	tokenCount map[uint32]int
}

// NewContainsIndex creates an empty CONTAINS field index.
func NewContainsIndex() *ContainsIndex {
	return &ContainsIndex{
		postings:   make(map[string]*wordPosting),
		exactValue: make(map[string]*roaring.Bitmap),
		tokenCount: make(map[uint32]int),
	}
}

// Add indexes value's tokens for ordinal, preserving position and
// accumulating the exact-value reverse lookup.
func (idx *ContainsIndex) Add(ordinal uint32, value string) {
	toks := tokenizer.Tokenize(value)
	idx.tokenCount[ordinal] += len(toks)

	for _, tok := range toks {
		p, ok := idx.postings[tok.Lower]
		if !ok {
			p = newWordPosting()
			idx.postings[tok.Lower] = p
		}
		p.docs.Add(ordinal)
		p.positions[ordinal] = append(p.positions[ordinal], tok.Position)
	}

	lower := strings.ToLower(value)
	bm, ok := idx.exactValue[lower]
	if !ok {
		bm = roaring.New()
		idx.exactValue[lower] = bm
	}
	bm.Add(ordinal)
}

// Remove undoes a prior Add for ordinal/value, used when rebuilding
// postings for an updated document.
func (idx *ContainsIndex) Remove(ordinal uint32, value string) {
	toks := tokenizer.Tokenize(value)
	idx.tokenCount[ordinal] -= len(toks)
	if idx.tokenCount[ordinal] <= 0 {
		delete(idx.tokenCount, ordinal)
	}

	seen := make(map[string]struct{})
	for _, tok := range toks {
		if _, done := seen[tok.Lower]; done {
			continue
		}
		seen[tok.Lower] = struct{}{}
		if p, ok := idx.postings[tok.Lower]; ok {
			p.docs.Remove(ordinal)
			delete(p.positions, ordinal)
			if p.docs.IsEmpty() {
				delete(idx.postings, tok.Lower)
			}
		}
	}

	lower := strings.ToLower(value)
	if bm, ok := idx.exactValue[lower]; ok {
		bm.Remove(ordinal)
		if bm.IsEmpty() {
			delete(idx.exactValue, lower)
		}
	}
}

// Equals returns documents whose raw value, lowercased, equals query.
func (idx *ContainsIndex) Equals(query string) *roaring.Bitmap {
	if bm, ok := idx.exactValue[strings.ToLower(query)]; ok {
		return bm.Clone()
	}
	return roaring.New()
}

// TermDocs returns the doc set and term frequency for a single
// lowercased token.
func (idx *ContainsIndex) TermDocs(word string) (*roaring.Bitmap, map[uint32]int) {
	p, ok := idx.postings[word]
	if !ok {
		return roaring.New(), nil
	}
	freq := make(map[uint32]int, len(p.positions))
	for doc, positions := range p.positions {
		freq[doc] = len(positions)
	}
	return p.docs.Clone(), freq
}

// Positions returns the sorted token positions at which word occurs
// in doc's field value.
func (idx *ContainsIndex) Positions(word string, doc uint32) []int {
	p, ok := idx.postings[word]
	if !ok {
		return nil
	}
	return p.positions[doc]
}

// PhraseMatch intersects the posting of each adjacent word pair: a
// doc qualifies if, for every consecutive pair (w_i, w_{i+1}), some
// position p of w_i has p+1 in w_{i+1}'s posting for that doc. A
// single-word phrase degenerates to that word's posting doc set.
func (idx *ContainsIndex) PhraseMatch(words []string) *roaring.Bitmap {
	if len(words) == 0 {
		return roaring.New()
	}
	if len(words) == 1 {
		docs, _ := idx.TermDocs(words[0])
		return docs
	}

	result := roaring.New()
	first := true
	for i := 0; i+1 < len(words); i++ {
		pairDocs := idx.adjacentPairDocs(words[i], words[i+1])
		if first {
			result = pairDocs
			first = false
			continue
		}
		result.And(pairDocs)
	}
	return result
}

// adjacentPairDocs finds documents where some position p of a has
// p+1 present in b's posting.
func (idx *ContainsIndex) adjacentPairDocs(a, b string) *roaring.Bitmap {
	pa, aok := idx.postings[a]
	pb, bok := idx.postings[b]
	out := roaring.New()
	if !aok || !bok {
		return out
	}
	common := roaring.And(pa.docs, pb.docs)
	it := common.Iterator()
	for it.HasNext() {
		doc := it.Next()
		bPositions := make(map[int]struct{}, len(pb.positions[doc]))
		for _, p := range pb.positions[doc] {
			bPositions[p] = struct{}{}
		}
		for _, p := range pa.positions[doc] {
			if _, ok := bPositions[p+1]; ok {
				out.Add(doc)
				break
			}
		}
	}
	return out
}

// UnionMatch returns the union across tokens of the query, each
// token contributing its posting's doc-ids, with the per-doc, per-
// token frequency used as the token-level score.
func (idx *ContainsIndex) UnionMatch(words []string) (*roaring.Bitmap, map[uint32]map[string]int) {
	result := roaring.New()
	scores := make(map[uint32]map[string]int)
	for _, w := range words {
		docs, freq := idx.TermDocs(w)
		result.Or(docs)
		for doc, f := range freq {
			if scores[doc] == nil {
				scores[doc] = make(map[string]int)
			}
			scores[doc][w] = f
		}
	}
	return result, scores
}

// ScanContains scans the stored raw values (lowercased) for token as
// a substring, rather than going through postings.
func (idx *ContainsIndex) ScanContains(token string) *roaring.Bitmap {
	out := roaring.New()
	needle := strings.ToLower(token)
	for value, bm := range idx.exactValue {
		if strings.Contains(value, needle) {
			out.Or(bm)
		}
	}
	return out
}

// DocTokenCount returns the indexed token count for ordinal in this
// field — the document-length table entry the BM25 ranker needs.
func (idx *ContainsIndex) DocTokenCount(ordinal uint32) int {
	return idx.tokenCount[ordinal]
}

// AverageDocTokenCount computes avgdl across every document indexed
// for this field.
func (idx *ContainsIndex) AverageDocTokenCount() float64 {
	if len(idx.tokenCount) == 0 {
		return 0
	}
	total := 0
	for _, c := range idx.tokenCount {
		total += c
	}
	return float64(total) / float64(len(idx.tokenCount))
}

// DocumentFrequency returns the number of distinct documents
// containing word, used by the BM25 idf term.
func (idx *ContainsIndex) DocumentFrequency(word string) int {
	p, ok := idx.postings[word]
	if !ok {
		return 0
	}
	return int(p.docs.GetCardinality())
}

// Vocabulary returns every indexed token, in no particular order.
func (idx *ContainsIndex) Vocabulary() []string {
	out := make([]string, 0, len(idx.postings))
	for w := range idx.postings {
		out = append(out, w)
	}
	return out
}

// WordFrequency returns the total number of occurrences of word
// across every document's postings in this field.
func (idx *ContainsIndex) WordFrequency(word string) int {
	p, ok := idx.postings[word]
	if !ok {
		return 0
	}
	total := 0
	for _, positions := range p.positions {
		total += len(positions)
	}
	return total
}
