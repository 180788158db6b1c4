// Package evaluator walks a structured tree query depth-first,
// dispatching field nodes to the per-field secondary index and
// combining boolean nodes through roaring-bitmap set algebra, per the
// query evaluator's evaluation order.
package evaluator

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/brindle-search/jamesql/internal/errors"
	"github.com/brindle-search/jamesql/internal/gsi"
	"github.com/brindle-search/jamesql/internal/proximity"
	"github.com/brindle-search/jamesql/internal/store"
	"github.com/brindle-search/jamesql/model"
)

// defaultMaxSubQueries and defaultMatchLimit are the spec's documented
// defaults for the query-size guard and the per-predicate hit cap.
const (
	defaultMaxSubQueries = 20
	defaultMatchLimit    = 1000
)

// Hit carries one document's accumulated score and highlight
// fragments as the tree query is folded bottom-up.
type Hit struct {
	Score      float64
	Highlights []string
}

// Result is a doc-id set plus the per-document metadata accumulated
// while producing it.
type Result struct {
	Docs *roaring.Bitmap
	Hits map[uint32]*Hit
}

func newResult() *Result {
	return &Result{Docs: roaring.New(), Hits: make(map[uint32]*Hit)}
}

// GSIProvider resolves a field name to its secondary index, if one
// has been created for it.
type GSIProvider interface {
	GSI(field string) (*gsi.GSI, bool)
}

// Evaluator evaluates structured tree queries against a document
// store and a set of field indexes.
type Evaluator struct {
	Store         *store.DocumentStore
	GSIs          GSIProvider
	MaxSubQueries int
	MatchLimit    int
}

// New creates an evaluator with the spec's default guard and cap.
func New(store *store.DocumentStore, gsis GSIProvider) *Evaluator {
	return &Evaluator{
		Store:         store,
		GSIs:          gsis,
		MaxSubQueries: defaultMaxSubQueries,
		MatchLimit:    defaultMatchLimit,
	}
}

// Evaluate runs query against the indexed corpus, returning the
// matching doc-id set and per-document score/highlight metadata. A
// query exceeding the sub-query guard is rejected before any
// evaluation is attempted.
func (e *Evaluator) Evaluate(query *model.TreeQuery) (*Result, error) {
	if query == nil {
		return nil, errors.ErrMissingQuery
	}
	if n := query.CountSubQueries(); n > e.MaxSubQueries {
		return nil, errors.NewQueryTooLargeError(n, e.MaxSubQueries)
	}
	return e.eval(query)
}

func (e *Evaluator) eval(q *model.TreeQuery) (*Result, error) {
	switch {
	case q.Keyword != "":
		return e.evalKeyword(q)
	case len(q.CloseTo) > 0:
		return e.evalCloseTo(q)
	default:
		return e.evalField(q)
	}
}

func (e *Evaluator) evalKeyword(q *model.TreeQuery) (*Result, error) {
	children := make([]*Result, 0, len(q.Children))
	for _, c := range q.Children {
		r, err := e.eval(c)
		if err != nil {
			return nil, err
		}
		children = append(children, r)
	}

	switch q.Keyword {
	case "and":
		return intersect(children), nil
	case "or":
		return union(children), nil
	case "not":
		universe := roaring.New()
		for _, ord := range e.Store.LiveOrdinals() {
			universe.Add(ord)
		}
		excluded := union(children)
		universe.AndNot(excluded.Docs)
		res := newResult()
		res.Docs = universe
		return res, nil
	default:
		return newResult(), nil
	}
}

func intersect(children []*Result) *Result {
	res := newResult()
	if len(children) == 0 {
		return res
	}
	res.Docs = children[0].Docs.Clone()
	for _, c := range children[1:] {
		res.Docs.And(c.Docs)
	}
	it := res.Docs.Iterator()
	for it.HasNext() {
		doc := it.Next()
		merged := &Hit{}
		for _, c := range children {
			if h, ok := c.Hits[doc]; ok {
				merged.Score += h.Score
				merged.Highlights = append(merged.Highlights, h.Highlights...)
			}
		}
		res.Hits[doc] = merged
	}
	return res
}

func union(children []*Result) *Result {
	res := newResult()
	for _, c := range children {
		res.Docs.Or(c.Docs)
		it := c.Docs.Iterator()
		for it.HasNext() {
			doc := it.Next()
			h, ok := res.Hits[doc]
			if !ok {
				h = &Hit{}
				res.Hits[doc] = h
			}
			if ch, ok := c.Hits[doc]; ok {
				h.Score += ch.Score
				h.Highlights = append(h.Highlights, ch.Highlights...)
			}
		}
	}
	return res
}

func (e *Evaluator) evalCloseTo(q *model.TreeQuery) (*Result, error) {
	docs, err := proximity.Evaluate(e.gsiLookup(), q.CloseTo)
	if err != nil {
		return nil, err
	}
	res := newResult()
	res.Docs = docs
	it := docs.Iterator()
	for it.HasNext() {
		res.Hits[it.Next()] = &Hit{Score: 1}
	}
	return res, nil
}

func (e *Evaluator) gsiLookup() proximity.GSILookup {
	return func(field string) (*gsi.GSI, bool) {
		return e.GSIs.GSI(field)
	}
}

func (e *Evaluator) evalField(q *model.TreeQuery) (*Result, error) {
	if q.Field == "" || q.Predicate == nil {
		return newResult(), nil
	}
	g, ok := e.GSIs.GSI(q.Field)
	if !ok {
		return newResult(), nil
	}
	return evaluatePredicate(e, g, q.Field, q.Predicate)
}

func capBitmap(bm *roaring.Bitmap, limit int) *roaring.Bitmap {
	if limit <= 0 || int(bm.GetCardinality()) <= limit {
		return bm
	}
	out := roaring.New()
	it := bm.Iterator()
	for i := 0; i < limit && it.HasNext(); i++ {
		out.Add(it.Next())
	}
	return out
}
