package gsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownStrategy(t *testing.T) {
	_, err := New("genre", Strategy("BOGUS"))
	require.Error(t, err)
}

func TestGSIContainsFieldUnionAndPhrase(t *testing.T) {
	g, err := New("lyric", Contains)
	require.NoError(t, err)

	g.AddValue(1, "a long december and there's reason to believe")
	g.AddValue(2, "maybe this year will be better than the last")

	assert.True(t, g.Contains("long december", true).Contains(1))
	assert.False(t, g.Contains("december long", true).Contains(1))
	assert.True(t, g.Contains("believe", false).Contains(1))
}

func TestGSIFlatEqualsListMember(t *testing.T) {
	g, err := New("genre", Flat)
	require.NoError(t, err)

	g.AddValue(1, []interface{}{"pop", "indie"})
	assert.True(t, g.Equals("indie").Contains(1))
}

func TestGSINumericRange(t *testing.T) {
	g, err := New("year", Numeric)
	require.NoError(t, err)

	g.AddValue(1, float64(1993))
	g.AddValue(2, float64(2020))

	docs := g.Range(1990, 2000)
	assert.True(t, docs.Contains(1))
	assert.False(t, docs.Contains(2))
}

func TestGSIDateEqualsAndRemove(t *testing.T) {
	g, err := New("released", Date)
	require.NoError(t, err)

	g.AddValue(1, "1993-3-2")
	key, ok := g.DateKey("1993-3-2")
	require.True(t, ok)
	assert.True(t, g.Equals("1993-3-2").Contains(1))

	g.RemoveValue(1, "1993-3-2")
	assert.True(t, g.ordered.Equals(key).IsEmpty())
}

func TestGSIPrefixStartsWith(t *testing.T) {
	g, err := New("title", Prefix)
	require.NoError(t, err)

	g.AddValue(1, "Require")
	assert.True(t, g.StartsWith("req").Contains(1))
}

func TestGSITrigramSearch(t *testing.T) {
	g, err := New("file_name", TrigramCode)
	require.NoError(t, err)

	g.AddValue(1, "package main\nfunc main() {}\n")
	refs := g.TrigramSearch("func main")
	assert.NotEmpty(t, refs)
}

func TestGSINotIndexableNoOp(t *testing.T) {
	g, err := New("metadata", NotIndexable)
	require.NoError(t, err)

	g.AddValue(1, map[string]interface{}{"a": 1})
	assert.True(t, g.Equals("anything").IsEmpty())
}
