package script

import (
	"fmt"
	"math"
	"time"

	"github.com/brindle-search/jamesql/model"
)

// scoreIdent is the identifier that always resolves to the hit's
// current score, regardless of what fields the document carries.
const scoreIdent = "_score"

// dateLayout matches the data model's Y-M-D date field convention.
const dateLayout = "2006-1-2"

// Eval evaluates expr against doc, with score bound to `_score`.
func Eval(expr *Expr, doc model.Document, score float64) (float64, error) {
	switch expr.Kind {
	case NodeNumber:
		return expr.Num, nil

	case NodeIdent:
		if expr.Ident == scoreIdent {
			return score, nil
		}
		return fieldFloat(doc, expr.Ident)

	case NodeBinOp:
		l, err := Eval(expr.Left, doc, score)
		if err != nil {
			return 0, err
		}
		r, err := Eval(expr.Right, doc, score)
		if err != nil {
			return 0, err
		}
		switch expr.Op {
		case '+':
			return l + r, nil
		case '-':
			return l - r, nil
		case '*':
			return l * r, nil
		case '/':
			if r == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return l / r, nil
		default:
			return 0, fmt.Errorf("unknown operator %q", expr.Op)
		}

	case NodeLog:
		x, err := Eval(expr.Arg, doc, score)
		if err != nil {
			return 0, err
		}
		return math.Log(x + 0.1), nil

	case NodeDecay:
		return decay(doc, expr.Ident)

	default:
		return 0, fmt.Errorf("unknown expression node")
	}
}

func fieldFloat(doc model.Document, field string) (float64, error) {
	v, ok := doc[field]
	if !ok {
		return 0, fmt.Errorf("field %q not present on document", field)
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	default:
		return 0, fmt.Errorf("field %q is not numeric", field)
	}
}

// decay computes 0.9^(days_since(f)/30), the half-life-30-day recency
// bonus, from a Y-M-D date field.
func decay(doc model.Document, field string) (float64, error) {
	v, ok := doc[field]
	if !ok {
		return 0, fmt.Errorf("field %q not present on document", field)
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("field %q is not a date string", field)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return 0, fmt.Errorf("field %q is not a Y-M-D date: %w", field, err)
	}
	daysSince := time.Since(t).Hours() / 24
	return math.Pow(0.9, daysSince/30), nil
}
