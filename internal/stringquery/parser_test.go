package stringquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWordsAndBoost(t *testing.T) {
	atoms, sort, err := Parse("sky^2.5 mural")
	require.NoError(t, err)
	assert.Nil(t, sort)
	require.Len(t, atoms, 2)
	assert.Equal(t, AtomWord, atoms[0].Kind)
	assert.Equal(t, "sky", atoms[0].Value)
	assert.True(t, atoms[0].HasBoost)
	assert.Equal(t, 2.5, atoms[0].Boost)
	assert.Equal(t, "mural", atoms[1].Value)
}

func TestParseNegatedWord(t *testing.T) {
	atoms, _, err := Parse("-sky")
	require.NoError(t, err)
	require.Len(t, atoms, 1)
	assert.True(t, atoms[0].Negate)
	assert.Equal(t, "sky", atoms[0].Value)
}

func TestParsePhrase(t *testing.T) {
	atoms, _, err := Parse("'long december'")
	require.NoError(t, err)
	require.Len(t, atoms, 1)
	assert.Equal(t, AtomPhrase, atoms[0].Kind)
	assert.Equal(t, "long december", atoms[0].Value)
}

func TestParseFieldValueAndFieldPhrase(t *testing.T) {
	atoms, _, err := Parse(`genre:rock lyric:"long december"`)
	require.NoError(t, err)
	require.Len(t, atoms, 2)
	assert.Equal(t, AtomField, atoms[0].Kind)
	assert.Equal(t, "genre", atoms[0].Field)
	assert.Equal(t, "rock", atoms[0].Value)
	assert.False(t, atoms[0].Phrase)

	assert.Equal(t, AtomField, atoms[1].Kind)
	assert.Equal(t, "lyric", atoms[1].Field)
	assert.Equal(t, "long december", atoms[1].Value)
	assert.True(t, atoms[1].Phrase)
}

func TestParseComparisonAndRange(t *testing.T) {
	atoms, _, err := Parse("released>2010 plays[10,100]")
	require.NoError(t, err)
	require.Len(t, atoms, 2)
	assert.Equal(t, AtomComparison, atoms[0].Kind)
	assert.Equal(t, "released", atoms[0].Field)
	assert.Equal(t, ">", atoms[0].Op)
	assert.Equal(t, "2010", atoms[0].Value)

	assert.Equal(t, AtomRange, atoms[1].Kind)
	assert.Equal(t, "plays", atoms[1].Field)
	assert.Equal(t, "10", atoms[1].Lo)
	assert.Equal(t, "100", atoms[1].Hi)
}

func TestParseOrKeywordDropped(t *testing.T) {
	atoms, _, err := Parse("sky OR mural")
	require.NoError(t, err)
	require.Len(t, atoms, 2)
	assert.Equal(t, "sky", atoms[0].Value)
	assert.Equal(t, "mural", atoms[1].Value)
}

func TestParseSortWithOrder(t *testing.T) {
	atoms, sort, err := Parse("sky sort:released desc")
	require.NoError(t, err)
	require.Len(t, atoms, 1)
	require.NotNil(t, sort)
	assert.Equal(t, "released", sort.Field)
	assert.Equal(t, "desc", sort.Order)
}

func TestParseSortDefaultsAscending(t *testing.T) {
	_, sort, err := Parse("sort:released")
	require.NoError(t, err)
	require.NotNil(t, sort)
	assert.Equal(t, "asc", sort.Order)
}

func TestParseStripsUnrecognizedPunctuation(t *testing.T) {
	atoms, _, err := Parse("sky@@@ #mural")
	require.NoError(t, err)
	require.Len(t, atoms, 2)
	assert.Equal(t, "sky", atoms[0].Value)
	assert.Equal(t, "mural", atoms[1].Value)
}
