package stringquery

import (
	"strings"

	"github.com/brindle-search/jamesql/model"
)

// Corrector proposes a replacement for a word not found in the
// spelling model. It returns ok=false when word should be left as is.
type Corrector interface {
	Correct(word string) (suggestion string, ok bool)
}

// ParseAndRewrite runs the full pipeline: tokenize, correct spelling
// on eligible word atoms, simplify, and rewrite to a TreeQuery.
func ParseAndRewrite(raw string, fields FieldStrategies, opts RewriteOptions, correct Corrector) (*model.TreeQuery, string, string, []model.SpellingSubstitution, error) {
	atoms, sort, err := Parse(raw)
	if err != nil {
		return nil, "", "", nil, err
	}

	var subs []model.SpellingSubstitution
	if correct != nil {
		for i, a := range atoms {
			// Quoted, negated, or wildcarded tokens are never
			// corrected, nor are tokens carrying field/comparison/
			// range structure — only bare words are eligible.
			if a.Kind != AtomWord || a.Negate {
				continue
			}
			if strings.ContainsRune(a.Value, '*') {
				continue
			}
			if suggestion, ok := correct.Correct(a.Value); ok && suggestion != a.Value {
				subs = append(subs, model.SpellingSubstitution{From: a.Value, To: suggestion})
				atoms[i].Value = suggestion
			}
		}
	}

	simplified := Simplify(atoms)
	query, sortBy, sortOrder, err := Rewrite(simplified, sort, fields, opts)
	if err != nil {
		return nil, "", "", nil, err
	}
	return query, sortBy, sortOrder, subs, nil
}
