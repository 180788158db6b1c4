// Package rank implements the ranking pipeline's BM25 and proximity-
// bonus layers, and the script-score rewrite pass, composed on top of
// the evaluator's posting-score hits.
package rank

import (
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/brindle-search/jamesql/internal/gsi"
	"github.com/brindle-search/jamesql/internal/rank/script"
	"github.com/brindle-search/jamesql/model"
)

// GSIProvider resolves a field name to its secondary index.
type GSIProvider interface {
	GSI(field string) (*gsi.GSI, bool)
}

// defaultTitleField is the field name the proximity bonus's
// title-alignment multiplier checks, absent an explicit override.
const defaultTitleField = "title"

// ProximityBonuses walks query for multi-word `contains` field
// predicates and, for every document whose field carries every
// query token, returns an additive bonus keyed by document ordinal:
// (matches+1)·(union-size), where matches counts the adjacent token
// pairs found in query order. If the same alignment also holds in
// titleField (defaultTitleField when empty), the bonus is multiplied
// by (2+matches).
func ProximityBonuses(gsis GSIProvider, titleField string, query *model.TreeQuery) map[uint32]float64 {
	bonuses := make(map[uint32]float64)
	if query == nil {
		return bonuses
	}
	if titleField == "" {
		titleField = defaultTitleField
	}
	walk(query, gsis, titleField, bonuses)
	return bonuses
}

func walk(q *model.TreeQuery, gsis GSIProvider, titleField string, bonuses map[uint32]float64) {
	for _, c := range q.Children {
		walk(c, gsis, titleField, bonuses)
	}
	if q.Field == "" || q.Predicate == nil || q.Predicate.Contains == nil {
		return
	}

	terms := strings.Fields(strings.ToLower(*q.Predicate.Contains))
	if len(terms) < 2 {
		return
	}

	g, ok := gsis.GSI(q.Field)
	if !ok || g.Strategy != gsi.Contains {
		return
	}

	titleG, hasTitle := gsis.GSI(titleField)
	titleMatches := map[uint32]int{}
	if hasTitle && titleG.Strategy == gsi.Contains {
		titleMatches = alignmentMatches(titleG, terms)
	}

	for doc, matches := range alignmentMatches(g, terms) {
		bonus := float64(matches+1) * float64(len(terms))
		if tm, ok := titleMatches[doc]; ok && tm > 0 {
			bonus *= float64(2 + tm)
		}
		bonuses[doc] += bonus
	}
}

// alignmentMatches returns, for every document carrying every term in
// terms, the number of adjacent pairs found at consecutive positions
// in query order — the same test PhraseMatch makes, but counted
// rather than merely used as a filter.
func alignmentMatches(g *gsi.GSI, terms []string) map[uint32]int {
	var candidates *roaring.Bitmap
	for _, t := range terms {
		docs, _ := g.ContainsScored(t, false)
		if candidates == nil {
			candidates = docs.Clone()
			continue
		}
		candidates.And(docs)
	}
	if candidates == nil || candidates.IsEmpty() {
		return nil
	}

	out := make(map[uint32]int, int(candidates.GetCardinality()))
	it := candidates.Iterator()
	for it.HasNext() {
		doc := it.Next()
		matches := 0
		for i := 0; i+1 < len(terms); i++ {
			if sequential(g.Positions(terms[i], doc), g.Positions(terms[i+1], doc)) {
				matches++
			}
		}
		out[doc] = matches
	}
	return out
}

func sequential(a, b []int) bool {
	next := make(map[int]struct{}, len(b))
	for _, p := range b {
		next[p] = struct{}{}
	}
	for _, p := range a {
		if _, ok := next[p+1]; ok {
			return true
		}
	}
	return false
}

// ApplyScriptScore rewrites every hit's score to the result of
// evaluating expr against the hit's document, with `_score` bound to
// the hit's current score.
func ApplyScriptScore(expr string, docs map[uint32]model.Document, scores map[uint32]float64) (map[uint32]float64, error) {
	ast, err := script.Parse(expr)
	if err != nil {
		return nil, err
	}
	out := make(map[uint32]float64, len(scores))
	for ord, score := range scores {
		doc, ok := docs[ord]
		if !ok {
			out[ord] = score
			continue
		}
		rewritten, err := script.Eval(ast, doc, score)
		if err != nil {
			return nil, err
		}
		out[ord] = rewritten
	}
	return out, nil
}
