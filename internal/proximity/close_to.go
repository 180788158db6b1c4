// Package proximity implements the close_to self-op: a sliding-window
// intersection over a list of field/value terms, qualifying a
// document when each adjacent pair's positions fall within a
// configurable stride of one another.
package proximity

import (
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/brindle-search/jamesql/internal/gsi"
	"github.com/brindle-search/jamesql/model"
)

// defaultStride is the sliding-window distance used when a close_to
// term omits an explicit distance.
const defaultStride = 3

// GSILookup resolves a field name to its secondary index.
type GSILookup func(field string) (*gsi.GSI, bool)

// Evaluate returns the documents satisfying every adjacent pair in
// terms. A single term degenerates to a plain (non-strict) contains
// match on its field. Close_to requires each named field to be
// CONTAINS-indexed — in practice every multi-word text field infers
// to CONTAINS automatically (§4.1), so a field that isn't CONTAINS
// simply contributes no matches for its pair rather than silently
// rebuilding a temporary positional index from raw text.
func Evaluate(lookup GSILookup, terms []model.CloseToTerm) (*roaring.Bitmap, error) {
	if len(terms) == 0 {
		return roaring.New(), nil
	}
	if len(terms) == 1 {
		g, ok := lookup(terms[0].Field)
		if !ok {
			return roaring.New(), nil
		}
		return g.Contains(terms[0].Value, false), nil
	}

	result := roaring.New()
	first := true
	for i := 0; i+1 < len(terms); i++ {
		stride := defaultStride
		if terms[i+1].HasDist {
			stride = terms[i+1].Distance
		}
		pairDocs := pairwiseDocs(lookup, terms[i], terms[i+1], stride)
		if first {
			result = pairDocs
			first = false
			continue
		}
		result.And(pairDocs)
	}
	return result, nil
}

func pairwiseDocs(lookup GSILookup, prev, curr model.CloseToTerm, stride int) *roaring.Bitmap {
	pg, ok := lookup(prev.Field)
	if !ok || pg.Strategy != gsi.Contains {
		return roaring.New()
	}
	cg, ok := lookup(curr.Field)
	if !ok || cg.Strategy != gsi.Contains {
		return roaring.New()
	}

	prevWord := strings.ToLower(strings.TrimSpace(prev.Value))
	currWord := strings.ToLower(strings.TrimSpace(curr.Value))

	candidates := roaring.And(pg.Contains(prevWord, false), cg.Contains(currWord, false))
	out := roaring.New()
	it := candidates.Iterator()
	for it.HasNext() {
		doc := it.Next()
		if withinStride(pg.Positions(prevWord, doc), cg.Positions(currWord, doc), stride) {
			out.Add(doc)
		}
	}
	return out
}

func withinStride(prevPositions, currPositions []int, stride int) bool {
	for _, p := range prevPositions {
		for _, c := range currPositions {
			d := c - p
			if d < 0 {
				d = -d
			}
			if d <= stride {
				return true
			}
		}
	}
	return false
}
