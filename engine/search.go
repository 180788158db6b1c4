package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/brindle-search/jamesql/internal/assembly"
	"github.com/brindle-search/jamesql/internal/errors"
	"github.com/brindle-search/jamesql/internal/evaluator"
	"github.com/brindle-search/jamesql/internal/gsi"
	"github.com/brindle-search/jamesql/internal/rank"
	"github.com/brindle-search/jamesql/internal/spelling"
	"github.com/brindle-search/jamesql/internal/stringquery"
	"github.com/brindle-search/jamesql/model"
)

// Search evaluates a structured tree query and assembles a result
// envelope: rank, sort, skip/limit, optional group-by and aggregate
// metrics (§4.9). Search takes the same lock as a writer (§5's
// documented simplification), since evaluating a query may itself
// create a field index on first reference.
func (e *Engine) Search(req *model.SearchRequest) *model.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.searchLocked(req)
}

func (e *Engine) searchLocked(req *model.SearchRequest) *model.Result {
	start := time.Now()

	if req == nil || req.Query == nil {
		return errorResult(start, errors.ErrMissingQuery)
	}

	evalResult, err := e.eval.Evaluate(req.Query)
	if err != nil {
		return errorResult(start, err)
	}

	scores := make(map[uint32]float64, len(evalResult.Hits))
	for ord, hit := range evalResult.Hits {
		scores[ord] = hit.Score
	}

	if e.opts.BM25 {
		e.applyBM25(req.Query, scores)
	}

	for ord, bonus := range rank.ProximityBonuses(gsiProvider{e}, e.opts.TitleField, req.Query) {
		if _, ok := scores[ord]; ok {
			scores[ord] += bonus
		}
	}

	if req.ScriptScore != "" {
		docs := e.resolveDocs(evalResult)
		rescored, err := rank.ApplyScriptScore(req.ScriptScore, docs, scores)
		if err != nil {
			return errorResult(start, err)
		}
		scores = rescored
	}

	candidates := make([]assembly.Candidate, 0, len(scores))
	it := evalResult.Docs.Iterator()
	for it.HasNext() {
		ord := it.Next()
		doc, id, ok := e.store.Resolve(ord)
		if !ok {
			continue // dangling posting: document was removed (§7 DanglingPosting)
		}
		var highlights []string
		if hit, ok := evalResult.Hits[ord]; ok {
			highlights = hit.Highlights
		}
		candidates = append(candidates, assembly.Candidate{
			ID:         id,
			Document:   doc,
			Score:      scores[ord],
			Highlights: highlights,
			Ordinal:    ord,
		})
	}

	total := len(candidates)
	assembly.Sort(candidates, req.SortBy, req.SortOrder)
	page := assembly.Page(candidates, req.Skip, req.Limit, req.HasLimit)

	result := &model.Result{
		Documents:    make([]model.Hit, 0, len(page)),
		QueryTime:    fmt.Sprintf("%.6f", time.Since(start).Seconds()),
		TotalResults: total,
	}
	pageDocs := make([]model.Document, 0, len(page))
	for _, c := range page {
		result.Documents = append(result.Documents, model.Hit{Document: c.Document, Score: c.Score, Context: c.Highlights})
		pageDocs = append(pageDocs, c.Document)
	}

	if req.GroupBy != "" {
		result.Groups = assembly.GroupBy(page, req.GroupBy)
	}
	if len(req.Aggregate) > 0 {
		result.Metrics = assembly.Aggregate(pageDocs, req.Aggregate)
	}
	return result
}

// resolveDocs resolves every ordinal in evalResult to its live
// document, for the script-score pass.
func (e *Engine) resolveDocs(res *evaluator.Result) map[uint32]model.Document {
	out := make(map[uint32]model.Document, len(res.Hits))
	it := res.Docs.Iterator()
	for it.HasNext() {
		ord := it.Next()
		if doc, _, ok := e.store.Resolve(ord); ok {
			out[ord] = doc
		}
	}
	return out
}

// applyBM25 adds each hit's query terms' BM25 contribution on top of
// its posting score, for every `contains` field predicate in query.
// BM25 augments rather than replaces the layer-1 posting score here:
// swapping it out cleanly would require the evaluator itself to carry
// per-term provenance through boolean composition (and/or/not), which
// the posting-score layer does not keep once scores are summed across
// children.
func (e *Engine) applyBM25(query *model.TreeQuery, scores map[uint32]float64) {
	for field, terms := range bm25Terms(query) {
		g, ok := e.gsis[field]
		if !ok || g.Strategy != gsi.Contains {
			continue
		}
		for ord := range scores {
			for _, term := range terms {
				tf := len(g.Positions(term, ord))
				if tf == 0 {
					continue
				}
				scores[ord] += e.bm25.Score(g, term, ord, tf)
			}
		}
	}
}

// bm25Terms walks query for every contains field predicate,
// returning its lowercased term set keyed by field.
func bm25Terms(q *model.TreeQuery) map[string][]string {
	out := make(map[string][]string)
	var walk func(*model.TreeQuery)
	walk = func(n *model.TreeQuery) {
		if n == nil {
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
		if n.Field == "" || n.Predicate == nil {
			return
		}
		if n.Predicate.Contains != nil {
			out[n.Field] = append(out[n.Field], splitLower(*n.Predicate.Contains)...)
		}
	}
	walk(q)
	return out
}

// StringQuerySearch parses and rewrites a string query (§4.6) into a
// tree query, then runs it through the same pipeline as Search.
func (e *Engine) StringQuerySearch(text string, fields []string, start int, fuzzy bool, highlightFields []string) *model.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	begin := time.Now()

	highlight := make(map[string]bool, len(highlightFields))
	for _, f := range highlightFields {
		highlight[f] = true
	}

	query, sortBy, sortOrder, subs, err := stringquery.ParseAndRewrite(
		text,
		textFieldRestriction{provider: gsiProvider{e}, restrict: fields},
		stringquery.RewriteOptions{Fuzzy: fuzzy, HighlightFields: highlight},
		e.corrector(),
	)
	if err != nil {
		return errorResult(begin, err)
	}

	req := &model.SearchRequest{Query: query, SortBy: sortBy, SortOrder: sortOrder, Skip: start, HasLimit: false}
	result := e.searchLocked(req)
	result.SpellingSubstitutions = subs
	return result
}

// textFieldRestriction narrows gsiProvider's TextFields to the
// caller-supplied field list, implementing the string_query_search
// `fields` restriction.
type textFieldRestriction struct {
	provider gsiProvider
	restrict []string
}

func (r textFieldRestriction) Strategy(field string) (gsi.Strategy, bool) {
	return r.provider.Strategy(field)
}

func (r textFieldRestriction) TextFields() []string {
	all := r.provider.TextFields()
	if len(r.restrict) == 0 {
		return all
	}
	allowed := make(map[string]bool, len(r.restrict))
	for _, f := range r.restrict {
		allowed[f] = true
	}
	var out []string
	for _, f := range all {
		if allowed[f] {
			out = append(out, f)
		}
	}
	return out
}

// corrector builds the spelling.Corrector stringquery.ParseAndRewrite
// consults for un-recognized bare words.
func (e *Engine) corrector() *spelling.Corrector {
	return spelling.NewCorrector(e.spellingModel)
}

func splitLower(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

func errorResult(start time.Time, err error) *model.Result {
	return &model.Result{
		Documents: []model.Hit{},
		QueryTime: fmt.Sprintf("%.6f", time.Since(start).Seconds()),
		Error:     err.Error(),
	}
}
