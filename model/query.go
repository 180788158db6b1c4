package model

import (
	"encoding/json"
	"fmt"
)

// TreeQuery is the structured query AST described by the grammar:
//
//	query     := { keyword: [ query, ... ] } | field_query | self_op
//	keyword   := "and" | "or" | "not"
//	field_q   := { field: { predicate: value, modifier*: ... } }
//	self_op   := { "close_to": [ { field: value, distance?: n }, ... ] }
//
// A JSON object with more than one key and no recognized keyword is
// treated as an implicit "and" over one child per key — this is how
// the reference query format lets a keyword's value itself be an
// object enumerating several differently-shaped children (see
// UnmarshalJSON).
type TreeQuery struct {
	Keyword  string // "and", "or", "not", or "" for a field/close_to node
	Children []*TreeQuery
	Field    string
	Predicate *FieldPredicate
	CloseTo  []CloseToTerm
}

// FieldPredicate carries the single predicate and its modifiers for
// a field query node.
type FieldPredicate struct {
	Contains       *string     `json:"-"`
	Equals         interface{} `json:"-"`
	HasEquals      bool        `json:"-"`
	StartsWith     *string     `json:"-"`
	Wildcard       *string     `json:"-"`
	Range          []float64   `json:"-"`
	GreaterThan    *float64    `json:"-"`
	LessThan       *float64    `json:"-"`
	GreaterOrEqual *float64    `json:"-"`
	LessOrEqual    *float64    `json:"-"`

	Strict          bool    `json:"-"`
	Boost           float64 `json:"-"`
	HasBoost        bool    `json:"-"`
	Highlight       bool    `json:"-"`
	HighlightStride int     `json:"-"`
	Fuzzy           bool    `json:"-"`
}

// CloseToTerm is one element of a close_to self-op's term list.
type CloseToTerm struct {
	Field    string
	Value    string
	Distance int
	HasDist  bool
}

type closeToWire struct {
	Field    string  `json:"field"`
	Value    string  `json:"value"`
	Distance *int    `json:"distance,omitempty"`
}

// UnmarshalJSON implements the dynamic-key dispatch the tree query
// grammar requires: the JSON key names the keyword, the close_to
// self-op, or the field being queried.
func (q *TreeQuery) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("tree query must be a JSON object: %w", err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("tree query object must not be empty")
	}

	if len(raw) == 1 {
		for key, val := range raw {
			switch key {
			case "close_to":
				terms, err := parseCloseTo(val)
				if err != nil {
					return err
				}
				q.CloseTo = terms
				return nil
			case "and", "or", "not":
				children, err := parseChildren(val)
				if err != nil {
					return err
				}
				q.Keyword = key
				q.Children = children
				return nil
			default:
				pred, err := parseFieldPredicate(val)
				if err != nil {
					return fmt.Errorf("field %q: %w", key, err)
				}
				q.Field = key
				q.Predicate = pred
				return nil
			}
		}
	}

	// Multiple keys with no enclosing keyword: implicit "and", one
	// child per key.
	children, err := parseChildren(data)
	if err != nil {
		return err
	}
	q.Keyword = "and"
	q.Children = children
	return nil
}

// parseChildren parses the value attached to a keyword: either a
// JSON array of query objects, or a JSON object whose keys each
// become one child query.
func parseChildren(raw json.RawMessage) ([]*TreeQuery, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		children := make([]*TreeQuery, 0, len(arr))
		for _, elem := range arr {
			child := &TreeQuery{}
			if err := json.Unmarshal(elem, child); err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return children, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("keyword value must be an array or object: %w", err)
	}
	children := make([]*TreeQuery, 0, len(obj))
	for key, val := range obj {
		single, err := json.Marshal(map[string]json.RawMessage{key: val})
		if err != nil {
			return nil, err
		}
		child := &TreeQuery{}
		if err := json.Unmarshal(single, child); err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func parseCloseTo(raw json.RawMessage) ([]CloseToTerm, error) {
	var wires []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wires); err != nil {
		return nil, fmt.Errorf("close_to must be an array of field/value terms: %w", err)
	}
	terms := make([]CloseToTerm, 0, len(wires))
	for _, w := range wires {
		var term CloseToTerm
		var distRaw json.RawMessage
		for k, v := range w {
			if k == "distance" {
				distRaw = v
				continue
			}
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return nil, fmt.Errorf("close_to field %q value must be a string: %w", k, err)
			}
			term.Field = k
			term.Value = s
		}
		if distRaw != nil {
			var d int
			if err := json.Unmarshal(distRaw, &d); err != nil {
				return nil, fmt.Errorf("close_to distance must be an integer: %w", err)
			}
			term.Distance = d
			term.HasDist = true
		}
		terms = append(terms, term)
	}
	return terms, nil
}

func parseFieldPredicate(raw json.RawMessage) (*FieldPredicate, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("predicate must be a JSON object: %w", err)
	}
	p := &FieldPredicate{HighlightStride: 3}

	for key, val := range obj {
		switch key {
		case "contains":
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return nil, err
			}
			p.Contains = &s
		case "equals":
			var v interface{}
			if err := json.Unmarshal(val, &v); err != nil {
				return nil, err
			}
			p.Equals = v
			p.HasEquals = true
		case "starts_with":
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return nil, err
			}
			p.StartsWith = &s
		case "wildcard":
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return nil, err
			}
			p.Wildcard = &s
		case "range":
			var r []float64
			if err := json.Unmarshal(val, &r); err != nil {
				return nil, err
			}
			if len(r) != 2 {
				return nil, fmt.Errorf("range requires exactly [lo, hi]")
			}
			p.Range = r
		case "greater_than":
			var f float64
			if err := json.Unmarshal(val, &f); err != nil {
				return nil, err
			}
			p.GreaterThan = &f
		case "less_than":
			var f float64
			if err := json.Unmarshal(val, &f); err != nil {
				return nil, err
			}
			p.LessThan = &f
		case "greater_than_or_equal":
			var f float64
			if err := json.Unmarshal(val, &f); err != nil {
				return nil, err
			}
			p.GreaterOrEqual = &f
		case "less_than_or_equal":
			var f float64
			if err := json.Unmarshal(val, &f); err != nil {
				return nil, err
			}
			p.LessOrEqual = &f
		case "strict":
			if err := json.Unmarshal(val, &p.Strict); err != nil {
				return nil, err
			}
		case "boost":
			var f float64
			if err := json.Unmarshal(val, &f); err != nil {
				return nil, err
			}
			p.Boost = f
			p.HasBoost = true
		case "highlight":
			if err := json.Unmarshal(val, &p.Highlight); err != nil {
				return nil, err
			}
		case "highlight_stride":
			if err := json.Unmarshal(val, &p.HighlightStride); err != nil {
				return nil, err
			}
		case "fuzzy":
			if err := json.Unmarshal(val, &p.Fuzzy); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown predicate or modifier %q", key)
		}
	}
	if !p.HasBoost {
		p.Boost = 1.0
	}
	return p, nil
}

// CountSubQueries counts this node and every descendant, used by the
// query-size guard.
func (q *TreeQuery) CountSubQueries() int {
	if q == nil {
		return 0
	}
	count := 1
	for _, c := range q.Children {
		count += c.CountSubQueries()
	}
	return count
}
