package proximity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brindle-search/jamesql/internal/gsi"
	"github.com/brindle-search/jamesql/model"
)

func lookupFor(fields map[string]*gsi.GSI) GSILookup {
	return func(field string) (*gsi.GSI, bool) {
		g, ok := fields[field]
		return g, ok
	}
}

func TestEvaluateFindsDocWithinStride(t *testing.T) {
	lyric, err := gsi.New("lyric", gsi.Contains)
	require.NoError(t, err)
	lyric.AddValue(1, "the deal with the devil was signed at dawn")
	lyric.AddValue(2, "the devil is somewhere else entirely far away here")

	lookup := lookupFor(map[string]*gsi.GSI{"lyric": lyric})
	docs, err := Evaluate(lookup, []model.CloseToTerm{
		{Field: "lyric", Value: "deal"},
		{Field: "lyric", Value: "devil", Distance: 3, HasDist: true},
	})
	require.NoError(t, err)
	assert.True(t, docs.Contains(1))
	assert.False(t, docs.Contains(2))
}

func TestEvaluateSingleTermDegradesToContains(t *testing.T) {
	lyric, err := gsi.New("lyric", gsi.Contains)
	require.NoError(t, err)
	lyric.AddValue(1, "mammy mammy where has he gone")

	lookup := lookupFor(map[string]*gsi.GSI{"lyric": lyric})
	docs, err := Evaluate(lookup, []model.CloseToTerm{{Field: "lyric", Value: "mammy"}})
	require.NoError(t, err)
	assert.True(t, docs.Contains(1))
}

func TestEvaluateNonContainsFieldYieldsNoMatch(t *testing.T) {
	genre, err := gsi.New("genre", gsi.Flat)
	require.NoError(t, err)
	genre.AddValue(1, "folk")

	lookup := lookupFor(map[string]*gsi.GSI{"genre": genre})
	docs, err := Evaluate(lookup, []model.CloseToTerm{
		{Field: "genre", Value: "folk"},
		{Field: "genre", Value: "rock"},
	})
	require.NoError(t, err)
	assert.True(t, docs.IsEmpty())
}
