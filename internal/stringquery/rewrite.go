package stringquery

import (
	"strconv"
	"strings"

	"github.com/brindle-search/jamesql/internal/gsi"
	"github.com/brindle-search/jamesql/model"
)

// unsatisfiableField names a field no document schema legitimately
// uses. A query against it always yields an empty result, which is
// how a simplified term list that annihilated to nothing (a
// self-cancelling pair leaving zero atoms) is represented as a
// TreeQuery: the tree grammar requires a non-empty node, and "match
// nothing" is the correct reading of "sky -sky".
const unsatisfiableField = "__unsatisfiable__"

// FieldStrategies resolves a document field to its secondary-index
// strategy, letting the rewriter pick the right predicate verb for a
// field:value atom and the right fan-out set for a bare word.
type FieldStrategies interface {
	Strategy(field string) (gsi.Strategy, bool)
	TextFields() []string
}

// RewriteOptions carries the caller-supplied per-field modifiers a
// bare word or phrase atom's fan-out predicates pick up.
type RewriteOptions struct {
	Fuzzy           bool
	HighlightFields map[string]bool
}

// Rewrite turns a simplified atom list into a TreeQuery plus the
// sort_by/sort_order the string query's trailing "sort:" produced, if
// any.
func Rewrite(atoms []Atom, sort *Sort, fields FieldStrategies, opts RewriteOptions) (*model.TreeQuery, string, string, error) {
	var nodes []*model.TreeQuery
	for _, a := range atoms {
		node, err := rewriteAtom(a, fields, opts)
		if err != nil {
			return nil, "", "", err
		}
		if node == nil {
			continue
		}
		if a.Negate {
			node = &model.TreeQuery{Keyword: "not", Children: []*model.TreeQuery{node}}
		}
		nodes = append(nodes, node)
	}

	sortBy, sortOrder := "", ""
	if sort != nil {
		sortBy, sortOrder = sort.Field, sort.Order
	}

	switch len(nodes) {
	case 0:
		return unsatisfiable(), sortBy, sortOrder, nil
	case 1:
		return nodes[0], sortBy, sortOrder, nil
	default:
		return &model.TreeQuery{Keyword: "and", Children: nodes}, sortBy, sortOrder, nil
	}
}

func unsatisfiable() *model.TreeQuery {
	return &model.TreeQuery{Field: unsatisfiableField, Predicate: &model.FieldPredicate{HasEquals: true, Equals: unsatisfiableField}}
}

func rewriteAtom(a Atom, fields FieldStrategies, opts RewriteOptions) (*model.TreeQuery, error) {
	switch a.Kind {
	case AtomWord:
		return fanOut(a.Value, false, a, fields, opts), nil
	case AtomPhrase:
		return fanOut(a.Value, true, a, fields, opts), nil
	case AtomField:
		return fieldNode(a, fields)
	case AtomComparison:
		return comparisonNode(a)
	case AtomRange:
		return rangeNode(a)
	}
	return nil, nil
}

// fanOut builds the implicit "or" across every indexed text field
// that a bare word or phrase atom produces.
func fanOut(value string, strict bool, a Atom, fields FieldStrategies, opts RewriteOptions) *model.TreeQuery {
	var children []*model.TreeQuery
	for _, f := range fields.TextFields() {
		strat, _ := fields.Strategy(f)
		if strict && strat != gsi.Contains {
			continue
		}
		pred := &model.FieldPredicate{Boost: 1, HasBoost: a.HasBoost}
		if a.HasBoost {
			pred.Boost = a.Boost
		}
		pred.Fuzzy = opts.Fuzzy
		pred.Highlight = opts.HighlightFields[f]
		v := value
		switch strat {
		case gsi.Prefix:
			pred.StartsWith = &v
		default:
			pred.Contains = &v
			pred.Strict = strict
		}
		children = append(children, &model.TreeQuery{Field: f, Predicate: pred})
	}
	if len(children) == 0 {
		return unsatisfiable()
	}
	if len(children) == 1 {
		return children[0]
	}
	return &model.TreeQuery{Keyword: "or", Children: children}
}

func fieldNode(a Atom, fields FieldStrategies) (*model.TreeQuery, error) {
	strat, ok := fields.Strategy(a.Field)
	if !ok {
		return unsatisfiable(), nil
	}

	pred := &model.FieldPredicate{Boost: 1, HasBoost: a.HasBoost}
	if a.HasBoost {
		pred.Boost = a.Boost
	}

	value := a.Value
	switch {
	case strings.Contains(value, "*"):
		pred.Wildcard = &value
	case strat == gsi.Prefix:
		pred.StartsWith = &value
	case strat == gsi.Contains:
		pred.Contains = &value
		pred.Strict = a.Phrase
	default:
		pred.Equals = value
		pred.HasEquals = true
	}
	return &model.TreeQuery{Field: a.Field, Predicate: pred}, nil
}

func comparisonNode(a Atom) (*model.TreeQuery, error) {
	f, err := strconv.ParseFloat(a.Value, 64)
	if err != nil {
		return nil, err
	}
	pred := &model.FieldPredicate{Boost: 1}
	switch a.Op {
	case ">":
		pred.GreaterThan = &f
	case "<":
		pred.LessThan = &f
	case ">=":
		pred.GreaterOrEqual = &f
	case "<=":
		pred.LessOrEqual = &f
	}
	return &model.TreeQuery{Field: a.Field, Predicate: pred}, nil
}

func rangeNode(a Atom) (*model.TreeQuery, error) {
	lo, err := strconv.ParseFloat(a.Lo, 64)
	if err != nil {
		return nil, err
	}
	hi, err := strconv.ParseFloat(a.Hi, 64)
	if err != nil {
		return nil, err
	}
	return &model.TreeQuery{Field: a.Field, Predicate: &model.FieldPredicate{Boost: 1, Range: []float64{lo, hi}}}, nil
}
