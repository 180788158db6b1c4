// Package assembly implements the result-assembly pipeline: sorting,
// paging, grouping, and aggregate metrics staged as small composable
// functions over a candidate slice, in the style of the teacher's
// internal/search/filtering.go and multi_search.go (small stages
// over a shared result type rather than one monolithic method).
package assembly

import (
	"sort"
	"strings"

	"github.com/brindle-search/jamesql/model"
)

// defaultLimit is applied when the caller's request carries no
// explicit limit.
const defaultLimit = 10

// Candidate is one ranked, resolved document ready for the
// assembly pipeline: the evaluator/ranker's output translated into
// document form. Ordinal is the document's dense store ordinal,
// assigned in add order — §4.5's tie-breaking key ("ties are broken
// by document insertion order").
type Candidate struct {
	ID         model.ID
	Document   model.Document
	Score      float64
	Highlights []string
	Ordinal    uint32
}

// Sort orders candidates by sortBy (default "_score") in sortOrder
// ("asc" or anything else read as "desc"), breaking ties by insertion
// order.
func Sort(cands []Candidate, sortBy, sortOrder string) {
	if sortBy == "" {
		sortBy = "_score"
	}
	asc := sortOrder == "asc"

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		var less bool
		switch sortBy {
		case "_score":
			less = a.Score < b.Score
			if a.Score == b.Score {
				return a.Ordinal < b.Ordinal
			}
		default:
			cmp := compareFieldValues(a.Document[sortBy], b.Document[sortBy])
			if cmp == 0 {
				return a.Ordinal < b.Ordinal
			}
			less = cmp < 0
		}
		if asc {
			return less
		}
		return !less
	})
}

// compareFieldValues orders two field values for sort_by, comparing
// numerically when both sides parse as numbers and falling back to a
// case-insensitive string comparison otherwise.
func compareFieldValues(a, b interface{}) int {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as := strings.ToLower(toText(a))
	bs := strings.ToLower(toText(b))
	return strings.Compare(as, bs)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func toText(v interface{}) string {
	s, _ := v.(string)
	return s
}

// Page applies skip then limit, per §4.9's step order. hasLimit
// distinguishes an explicit limit of 0 (empty result) from the
// absence of a limit directive (defaultLimit applies).
func Page(cands []Candidate, skip, limit int, hasLimit bool) []Candidate {
	if skip >= len(cands) {
		return nil
	}
	if skip > 0 {
		cands = cands[skip:]
	}
	if !hasLimit {
		limit = defaultLimit
	}
	if limit <= 0 {
		return nil
	}
	if limit > len(cands) {
		limit = len(cands)
	}
	return cands[:limit]
}

// GroupBy buckets docs by the named field's value, in insertion
// order; a list-valued field contributes one bucket entry per member.
func GroupBy(cands []Candidate, field string) map[string][]model.Document {
	groups := make(map[string][]model.Document)
	for _, c := range cands {
		v, ok := c.Document[field]
		if !ok {
			continue
		}
		for _, key := range bucketKeys(v) {
			groups[key] = append(groups[key], c.Document)
		}
	}
	return groups
}

func bucketKeys(v interface{}) []string {
	if model.IsList(v) {
		return model.StringValues(v)
	}
	return []string{toText(v)}
}

// systemFields are excluded from Aggregate per §4.9: "excluding
// system fields and the id field".
var systemFields = map[string]bool{
	"_score":   true,
	"_context": true,
	"id":       true,
}

// Aggregate emits, for each named field, a count of distinct observed
// values across docs. Fields outside the caller's requested list are
// never touched, and system/id fields are skipped even if named
// explicitly.
func Aggregate(docs []model.Document, fields []string) map[string]int {
	metrics := make(map[string]int)
	for _, field := range fields {
		if systemFields[field] {
			continue
		}
		counts := make(map[string]bool)
		for _, doc := range docs {
			v, ok := doc[field]
			if !ok {
				continue
			}
			for _, key := range bucketKeys(v) {
				counts[key] = true
			}
		}
		metrics[field] = len(counts)
	}
	return metrics
}
