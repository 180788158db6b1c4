package stringquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(values ...string) []Atom {
	atoms := make([]Atom, len(values))
	for i, v := range values {
		neg := false
		if len(v) > 0 && v[0] == '-' {
			neg = true
			v = v[1:]
		}
		atoms[i] = Atom{Kind: AtomWord, Value: v, Negate: neg}
	}
	return atoms
}

func TestSimplifyDropsDuplicates(t *testing.T) {
	out := Simplify(words("sky", "sky"))
	require.Len(t, out, 1)
	assert.Equal(t, "sky", out[0].Value)
}

func TestSimplifyOrMemberAlreadyOuterDrops(t *testing.T) {
	atoms, _, err := Parse("sky OR mural sky")
	require.NoError(t, err)
	out := Simplify(atoms)
	require.Len(t, out, 2)
	assert.Equal(t, "sky", out[0].Value)
	assert.Equal(t, "mural", out[1].Value)
}

func TestSimplifySelfCancelingPairAnnihilates(t *testing.T) {
	out := Simplify(words("sky", "-sky"))
	assert.Empty(t, out)
}

func TestSimplifyFieldSelfCancelingPairAnnihilates(t *testing.T) {
	atoms, _, err := Parse("-lyric:sky lyric:sky")
	require.NoError(t, err)
	out := Simplify(atoms)
	assert.Empty(t, out)
}

func TestSimplifyOrOfSameTermCollapses(t *testing.T) {
	atoms, _, err := Parse("sky OR sky OR sky")
	require.NoError(t, err)
	out := Simplify(atoms)
	require.Len(t, out, 1)
	assert.Equal(t, "sky", out[0].Value)
}

func TestSimplifyIsIdempotent(t *testing.T) {
	atoms, _, err := Parse("sky OR mural sky")
	require.NoError(t, err)
	once := Simplify(atoms)
	twice := Simplify(once)
	assert.Equal(t, once, twice)
}
