package spelling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrectorKnownWordIsNotCorrected(t *testing.T) {
	m := NewUnigramModel()
	m.AddTokens([]string{"mural"})
	c := NewCorrector(m)

	corrected, ok := c.Correct("mural")
	assert.False(t, ok)
	assert.Equal(t, "mural", corrected)
}

func TestCorrectorEditDistance1(t *testing.T) {
	m := NewUnigramModel()
	m.AddTokens([]string{"sky", "sky", "sky"})
	c := NewCorrector(m)

	corrected, ok := c.Correct("sly")
	assert.True(t, ok)
	assert.Equal(t, "sky", corrected)
}

func TestCorrectorSegmentation(t *testing.T) {
	m := NewUnigramModel()
	m.AddTokens([]string{"coffee", "coffee", "is"})
	c := NewCorrector(m)

	corrected, ok := c.Correct("coffeeis")
	assert.True(t, ok)
	assert.Equal(t, "coffee is", corrected)
}

func TestCorrectorNoCandidatesReturnsFalse(t *testing.T) {
	m := NewUnigramModel()
	c := NewCorrector(m)

	corrected, ok := c.Correct("zzzzz")
	assert.False(t, ok)
	assert.Equal(t, "zzzzz", corrected)
}

func TestCorrectorPrefersHigherFrequencyCandidate(t *testing.T) {
	m := NewUnigramModel()
	// "sky" is one edit from "sly"; "sty" is also one edit from "sly".
	// Feed "sky" a much higher frequency so it wins on score, not on
	// which distance tier it came from.
	for i := 0; i < 10; i++ {
		m.AddTokens([]string{"sky"})
	}
	m.AddTokens([]string{"sty"})
	c := NewCorrector(m)

	corrected, ok := c.Correct("sly")
	assert.True(t, ok)
	assert.Equal(t, "sky", corrected)
}
