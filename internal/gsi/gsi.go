package gsi

import (
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/brindle-search/jamesql/internal/errors"
	"github.com/brindle-search/jamesql/model"
)

// GSI is one field's secondary index: a strategy tag plus whichever of
// the five container types backs it. At most one container field is
// non-nil, chosen by New from Strategy (none for NOT_INDEXABLE).
type GSI struct {
	Field    string
	Strategy Strategy

	contains *ContainsIndex
	prefix   *PrefixIndex
	flat     *FlatIndex
	ordered  *OrderedIndex
	trigram  *TrigramIndex
}

// New allocates the container matching strategy, or an
// InvalidStrategyError for a name outside ValidStrategies.
func New(field string, strategy Strategy) (*GSI, error) {
	if _, ok := ValidStrategies[strategy]; !ok {
		return nil, errors.NewInvalidStrategyError(string(strategy))
	}
	g := &GSI{Field: field, Strategy: strategy}
	switch strategy {
	case Contains:
		g.contains = NewContainsIndex()
	case Prefix:
		g.prefix = NewPrefixIndex()
	case Flat:
		g.flat = NewFlatIndex()
	case Numeric, Date:
		g.ordered = NewOrderedIndex()
	case TrigramCode:
		g.trigram = NewTrigramIndex()
	case NotIndexable:
		// No container: nested mappings are never indexed.
	}
	return g, nil
}

// AddValue indexes value (a field value as stored in a document, which
// may be a list) under ordinal, exploding list members for the
// strategies that key on individual scalars.
func (g *GSI) AddValue(ordinal uint32, value interface{}) {
	switch g.Strategy {
	case Contains:
		for _, s := range model.StringValues(value) {
			g.contains.Add(ordinal, s)
		}
	case Prefix:
		for _, s := range model.StringValues(value) {
			g.prefix.Add(ordinal, s)
		}
	case Flat:
		if model.IsList(value) {
			for _, s := range model.StringValues(value) {
				g.flat.Add(ordinal, s)
			}
			return
		}
		g.flat.Add(ordinal, value)
	case Numeric:
		if f, ok := toFloat(value); ok {
			g.ordered.Add(ordinal, f)
		}
	case Date:
		if s, ok := value.(string); ok {
			if key, ok := ParseDateKey(s); ok {
				g.ordered.Add(ordinal, key)
			}
		}
	case TrigramCode:
		if s, ok := value.(string); ok {
			g.trigram.Add(ordinal, g.Field, s)
		}
	case NotIndexable:
		// nothing to do
	}
}

// RemoveValue undoes a prior AddValue, mirroring its dispatch.
func (g *GSI) RemoveValue(ordinal uint32, value interface{}) {
	switch g.Strategy {
	case Contains:
		for _, s := range model.StringValues(value) {
			g.contains.Remove(ordinal, s)
		}
	case Prefix:
		for _, s := range model.StringValues(value) {
			g.prefix.Remove(ordinal, s)
		}
	case Flat:
		if model.IsList(value) {
			for _, s := range model.StringValues(value) {
				g.flat.Remove(ordinal, s)
			}
			return
		}
		g.flat.Remove(ordinal, value)
	case Numeric:
		if f, ok := toFloat(value); ok {
			g.ordered.Remove(ordinal, f)
		}
	case Date:
		if s, ok := value.(string); ok {
			if key, ok := ParseDateKey(s); ok {
				g.ordered.Remove(ordinal, key)
			}
		}
	case TrigramCode:
		if s, ok := value.(string); ok {
			g.trigram.Remove(ordinal, g.Field, s)
		}
	case NotIndexable:
		// nothing to do
	}
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Equals returns the documents carrying value exactly, using whichever
// container's own equals semantics apply to this strategy (a reverse-
// value lookup for CONTAINS, a linear key scan for PREFIX, a bucket
// lookup for FLAT/NUMERIC/DATE).
func (g *GSI) Equals(value interface{}) *roaring.Bitmap {
	switch g.Strategy {
	case Contains:
		s, _ := value.(string)
		return g.contains.Equals(s)
	case Prefix:
		s, _ := value.(string)
		return g.prefix.Equals(s)
	case Flat:
		return g.flat.Equals(value)
	case Numeric:
		f, ok := toFloat(value)
		if !ok {
			return roaring.New()
		}
		return g.ordered.Equals(f)
	case Date:
		s, ok := value.(string)
		if !ok {
			return roaring.New()
		}
		key, ok := ParseDateKey(s)
		if !ok {
			return roaring.New()
		}
		return g.ordered.Equals(key)
	default:
		return roaring.New()
	}
}

// StartsWith evaluates a `starts_with` predicate: a trie walk on a
// PREFIX field, and a case-insensitive linear scan of the stored
// string values on a CONTAINS or FLAT field. Other strategies match
// nothing.
func (g *GSI) StartsWith(prefix string) *roaring.Bitmap {
	switch g.Strategy {
	case Prefix:
		return g.prefix.StartsWith(prefix)
	case Contains:
		out := roaring.New()
		needle := strings.ToLower(prefix)
		for value, bm := range g.contains.exactValue {
			if strings.HasPrefix(value, needle) {
				out.Or(bm)
			}
		}
		return out
	case Flat:
		out := roaring.New()
		needle := strings.ToLower(prefix)
		for key, bm := range g.flat.buckets {
			if strings.HasPrefix(key, "s:") && strings.HasPrefix(strings.ToLower(key[2:]), needle) {
				out.Or(bm)
			}
		}
		return out
	default:
		return roaring.New()
	}
}

// Contains evaluates a `contains` predicate. On a CONTAINS field it is
// the natural union or, when strict is set, the adjacent-position
// phrase match; on a PREFIX or FLAT field it degrades to a substring
// scan of the stored values, and on any other strategy it matches
// nothing.
func (g *GSI) Contains(query string, strict bool) *roaring.Bitmap {
	words := splitWords(query)
	switch g.Strategy {
	case Contains:
		if strict {
			return g.contains.PhraseMatch(words)
		}
		docs, _ := g.contains.UnionMatch(words)
		return docs
	case Prefix:
		return g.prefix.ScanContains(query)
	case Flat:
		return scanFlatContains(g.flat, query)
	default:
		return roaring.New()
	}
}

// ContainsScored is Contains plus the per-document, per-term hit
// counts the ranker needs; strict phrase matches score 1 per matching
// document since position, not frequency, is what qualifies them.
func (g *GSI) ContainsScored(query string, strict bool) (*roaring.Bitmap, map[uint32]map[string]int) {
	words := splitWords(query)
	if g.Strategy != Contains {
		docs := g.Contains(query, strict)
		return docs, nil
	}
	if strict {
		docs := g.contains.PhraseMatch(words)
		scores := make(map[uint32]map[string]int, int(docs.GetCardinality()))
		it := docs.Iterator()
		for it.HasNext() {
			scores[it.Next()] = map[string]int{query: 1}
		}
		return docs, scores
	}
	return g.contains.UnionMatch(words)
}

func scanFlatContains(idx *FlatIndex, query string) *roaring.Bitmap {
	out := roaring.New()
	needle := strings.ToLower(query)
	for key, bm := range idx.buckets {
		if strings.HasPrefix(key, "s:") && strings.Contains(strings.ToLower(key[2:]), needle) {
			out.Or(bm)
		}
	}
	return out
}

func splitWords(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ToLower(f))
	}
	return out
}

// Range, GreaterThan, LessThan and their inclusive variants are only
// meaningful for NUMERIC/DATE fields.
func (g *GSI) Range(lo, hi float64) *roaring.Bitmap {
	if g.ordered == nil {
		return roaring.New()
	}
	return g.ordered.Range(lo, hi)
}

func (g *GSI) GreaterThan(threshold float64) *roaring.Bitmap {
	if g.ordered == nil {
		return roaring.New()
	}
	return g.ordered.GreaterThan(threshold)
}

func (g *GSI) GreaterThanOrEqual(threshold float64) *roaring.Bitmap {
	if g.ordered == nil {
		return roaring.New()
	}
	return g.ordered.GreaterThanOrEqual(threshold)
}

func (g *GSI) LessThan(threshold float64) *roaring.Bitmap {
	if g.ordered == nil {
		return roaring.New()
	}
	return g.ordered.LessThan(threshold)
}

func (g *GSI) LessThanOrEqual(threshold float64) *roaring.Bitmap {
	if g.ordered == nil {
		return roaring.New()
	}
	return g.ordered.LessThanOrEqual(threshold)
}

// DateKey exposes the DATE strategy's string->key conversion: the
// float64 the ordered container keys a date value on.
func (g *GSI) DateKey(value string) (float64, bool) {
	return ParseDateKey(value)
}

// TrigramSearch runs a line-level substring search against a
// TRIGRAM_CODE field.
func (g *GSI) TrigramSearch(query string) []LineRef {
	if g.trigram == nil {
		return nil
	}
	return g.trigram.Search(query)
}

// Vocabulary returns every indexed term for a CONTAINS field (nil for
// any other strategy).
func (g *GSI) Vocabulary() []string {
	if g.contains == nil {
		return nil
	}
	return g.contains.Vocabulary()
}

// DocumentFrequency and AverageDocTokenCount expose the CONTAINS
// container's corpus statistics to the BM25 ranker.
func (g *GSI) DocumentFrequency(word string) int {
	if g.contains == nil {
		return 0
	}
	return g.contains.DocumentFrequency(strings.ToLower(word))
}

// WordFrequency exposes the CONTAINS container's total occurrence
// count for word (0 for any other strategy).
func (g *GSI) WordFrequency(word string) int {
	if g.contains == nil {
		return 0
	}
	return g.contains.WordFrequency(strings.ToLower(word))
}

func (g *GSI) AverageDocTokenCount() float64 {
	if g.contains == nil {
		return 0
	}
	return g.contains.AverageDocTokenCount()
}

func (g *GSI) DocTokenCount(ordinal uint32) int {
	if g.contains == nil {
		return 0
	}
	return g.contains.DocTokenCount(ordinal)
}

// Positions exposes the CONTAINS container's positional postings,
// needed by the close_to proximity operator.
func (g *GSI) Positions(word string, doc uint32) []int {
	if g.contains == nil {
		return nil
	}
	return g.contains.Positions(strings.ToLower(word), doc)
}
