package evaluator

import (
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/brindle-search/jamesql/internal/fuzzy"
	"github.com/brindle-search/jamesql/internal/gsi"
	"github.com/brindle-search/jamesql/internal/tokenizer"
	"github.com/brindle-search/jamesql/model"
)

// evaluatePredicate dispatches one field query node's predicate and
// modifiers to the field's secondary index, per §4.4.
func evaluatePredicate(e *Evaluator, g *gsi.GSI, field string, pred *model.FieldPredicate) (*Result, error) {
	res := newResult()

	switch {
	case pred.HasEquals:
		docs := g.Equals(pred.Equals)
		addUnitScore(res, capBitmap(docs, e.MatchLimit), pred.Boost)

	case pred.StartsWith != nil:
		terms := expandFuzzy(*pred.StartsWith, pred.Fuzzy)
		docs := roaring.New()
		for _, t := range terms {
			docs.Or(g.StartsWith(t))
		}
		docs = capBitmap(docs, e.MatchLimit)
		addUnitScore(res, docs, pred.Boost)
		if pred.Highlight {
			addHighlights(e, res, field, docs, terms, pred.HighlightStride)
		}

	case pred.Contains != nil:
		terms := expandFuzzy(*pred.Contains, pred.Fuzzy)
		docs, scores := containsUnion(g, terms, pred.Strict)
		docs = capBitmap(docs, e.MatchLimit)
		applyContainsScores(res, docs, scores, pred.Boost, pred.Strict)
		if pred.Highlight {
			addHighlights(e, res, field, docs, terms, pred.HighlightStride)
		}

	case pred.Wildcard != nil:
		terms := expandWildcard(*pred.Wildcard)
		docs, scores := containsUnion(g, terms, false)
		docs = capBitmap(docs, e.MatchLimit)
		applyContainsScores(res, docs, scores, pred.Boost, false)
		if pred.Highlight {
			addHighlights(e, res, field, docs, terms, pred.HighlightStride)
		}

	case pred.Range != nil:
		docs := capBitmap(g.Range(pred.Range[0], pred.Range[1]), e.MatchLimit)
		addUnitScore(res, docs, pred.Boost)

	case pred.GreaterThan != nil:
		docs := capBitmap(g.GreaterThan(*pred.GreaterThan), e.MatchLimit)
		addUnitScore(res, docs, pred.Boost)

	case pred.LessThan != nil:
		docs := capBitmap(g.LessThan(*pred.LessThan), e.MatchLimit)
		addUnitScore(res, docs, pred.Boost)

	case pred.GreaterOrEqual != nil:
		docs := capBitmap(g.GreaterThanOrEqual(*pred.GreaterOrEqual), e.MatchLimit)
		addUnitScore(res, docs, pred.Boost)

	case pred.LessOrEqual != nil:
		docs := capBitmap(g.LessThanOrEqual(*pred.LessOrEqual), e.MatchLimit)
		addUnitScore(res, docs, pred.Boost)
	}

	return res, nil
}

// expandFuzzy returns [term] normally, or term plus its edit-
// distance-1 neighborhood when fuzzy is set — per §4.4, fuzzy applies
// only to contains/starts_with, never equals.
func expandFuzzy(term string, fuzzyOn bool) []string {
	if !fuzzyOn {
		return []string{term}
	}
	return fuzzy.ExpandFuzzy(strings.ToLower(term))
}

// expandWildcard substitutes the first `*` in pattern with each
// lowercase ASCII letter in turn.
func expandWildcard(pattern string) []string {
	i := strings.IndexByte(pattern, '*')
	if i < 0 {
		return []string{pattern}
	}
	out := make([]string, 0, 26)
	for c := byte('a'); c <= 'z'; c++ {
		out = append(out, pattern[:i]+string(c)+pattern[i+1:])
	}
	return out
}

func containsUnion(g *gsi.GSI, terms []string, strict bool) (*roaring.Bitmap, map[uint32]map[string]int) {
	docs := roaring.New()
	scores := make(map[uint32]map[string]int)
	for _, t := range terms {
		d, s := g.ContainsScored(t, strict)
		docs.Or(d)
		for doc, freq := range s {
			if scores[doc] == nil {
				scores[doc] = make(map[string]int)
			}
			for term, f := range freq {
				scores[doc][term] += f
			}
		}
	}
	return docs, scores
}

func applyContainsScores(res *Result, docs *roaring.Bitmap, scores map[uint32]map[string]int, boost float64, strict bool) {
	it := docs.Iterator()
	for it.HasNext() {
		doc := it.Next()
		score := 1.0
		if freq, ok := scores[doc]; ok {
			total := 0
			for _, f := range freq {
				total += f
			}
			if total > 0 {
				score = float64(total)
			}
		}
		res.Docs.Add(doc)
		res.Hits[doc] = &Hit{Score: score * boost}
	}
}

func addUnitScore(res *Result, docs *roaring.Bitmap, boost float64) {
	it := docs.Iterator()
	for it.HasNext() {
		doc := it.Next()
		res.Docs.Add(doc)
		res.Hits[doc] = &Hit{Score: 1.0 * boost}
	}
}

// addHighlights draws up to `stride` tokens of context on each side
// of every matched position in the field's raw text, for every
// matched document and every matched term.
func addHighlights(e *Evaluator, res *Result, field string, docs *roaring.Bitmap, terms []string, stride int) {
	it := docs.Iterator()
	for it.HasNext() {
		ord := it.Next()
		doc, _, ok := e.Store.Resolve(ord)
		if !ok {
			continue
		}
		raw, ok := doc[field].(string)
		if !ok {
			continue
		}
		toks := tokenizer.Tokenize(raw)
		hit, ok := res.Hits[ord]
		if !ok {
			continue
		}
		for _, term := range terms {
			lower := strings.ToLower(term)
			for i, tok := range toks {
				if tok.Lower != lower {
					continue
				}
				lo := i - stride
				if lo < 0 {
					lo = 0
				}
				hi := i + stride
				if hi >= len(toks) {
					hi = len(toks) - 1
				}
				var words []string
				for j := lo; j <= hi; j++ {
					words = append(words, toks[j].Text)
				}
				hit.Highlights = append(hit.Highlights, strings.Join(words, " "))
			}
		}
	}
}
