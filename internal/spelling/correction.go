package spelling

import (
	"math"
	"sort"
	"strings"

	"github.com/brindle-search/jamesql/internal/fuzzy"
)

// dampening is the frequency penalty applied to an edit-distance-2
// candidate, per §4.6: "dampened by e^-1".
var dampening = math.Exp(-1)

// Corrector implements stringquery.Corrector against a UnigramModel,
// replacing a token the model has never seen with the highest-
// frequency candidate drawn from single-space segmentations and the
// edit-distance-1/2 neighborhoods, per §4.6's spelling correction
// rules.
type Corrector struct {
	Model *UnigramModel
}

// NewCorrector wraps model in the stringquery.Corrector interface.
func NewCorrector(model *UnigramModel) *Corrector {
	return &Corrector{Model: model}
}

type candidate struct {
	text  string
	score float64
}

// Correct returns the best-scoring replacement for word, or ok=false
// if word is already in the model or no candidate scores above zero.
func (c *Corrector) Correct(word string) (string, bool) {
	lower := strings.ToLower(word)
	if c.Model.Contains(lower) {
		return word, false
	}

	var candidates []candidate
	candidates = append(candidates, c.segmentations(lower)...)
	candidates = append(candidates, c.editDistance1(lower)...)
	candidates = append(candidates, c.editDistance2(lower)...)
	if len(candidates) == 0 {
		return word, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].text < candidates[j].text
	})
	return candidates[0].text, true
}

// segmentations tries every single split point, scoring a split by
// the sum of its two halves' unigram counts — "coffeeis" -> "coffee
// is".
func (c *Corrector) segmentations(word string) []candidate {
	runes := []rune(word)
	var out []candidate
	for i := 1; i < len(runes); i++ {
		left, right := string(runes[:i]), string(runes[i:])
		lf, rf := c.Model.Frequency(left), c.Model.Frequency(right)
		if lf == 0 || rf == 0 {
			continue
		}
		out = append(out, candidate{text: left + " " + right, score: float64(lf + rf)})
	}
	return out
}

func (c *Corrector) editDistance1(word string) []candidate {
	var out []candidate
	for _, n := range fuzzy.Neighborhood1(word) {
		if freq := c.Model.Frequency(n); freq > 0 {
			out = append(out, candidate{text: n, score: float64(freq)})
		}
	}
	return out
}

// editDistance2 expands the edit-distance-1 neighborhood one more
// step and keeps only the candidates actually two edits away (a
// neighbor-of-a-neighbor can collapse back to distance 0 or 1, e.g.
// insert then delete the same character).
func (c *Corrector) editDistance2(word string) []candidate {
	seen := map[string]bool{word: true}
	var out []candidate
	for _, n1 := range fuzzy.Neighborhood1(word) {
		for _, n2 := range fuzzy.Neighborhood1(n1) {
			if seen[n2] {
				continue
			}
			seen[n2] = true
			if fuzzy.CalculateEditDistance(word, n2, 2) != 2 {
				continue
			}
			if freq := c.Model.Frequency(n2); freq > 0 {
				out = append(out, candidate{text: n2, score: float64(freq) * dampening})
			}
		}
	}
	return out
}
