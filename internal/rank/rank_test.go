package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brindle-search/jamesql/internal/gsi"
	"github.com/brindle-search/jamesql/internal/store"
	"github.com/brindle-search/jamesql/model"
)

type fakeGSIs struct {
	byField map[string]*gsi.GSI
}

func (f *fakeGSIs) GSI(field string) (*gsi.GSI, bool) {
	g, ok := f.byField[field]
	return g, ok
}

func TestBM25ScoreRewardsRareTerms(t *testing.T) {
	st := store.New()
	lyric, err := gsi.New("lyric", gsi.Contains)
	require.NoError(t, err)

	lyric.AddValue(1, "the wiley windy moors of my heart")
	lyric.AddValue(2, "the wiley windy wiley wiley fields")
	st.Put(model.NewID(), model.Document{})
	st.Put(model.NewID(), model.Document{})

	calc := NewBM25Calculator(st)
	rare := calc.Score(lyric, "heart", 1, 1)
	common := calc.Score(lyric, "the", 1, 1)
	assert.Greater(t, rare, common)
}

func TestProximityBonusRewardsAdjacentQueryOrderTerms(t *testing.T) {
	lyric, err := gsi.New("lyric", gsi.Contains)
	require.NoError(t, err)
	lyric.AddValue(1, "long december and there is reason to believe")
	lyric.AddValue(2, "december was long and cold this year")

	gsis := &fakeGSIs{byField: map[string]*gsi.GSI{"lyric": lyric}}
	query := &model.TreeQuery{Field: "lyric", Predicate: &model.FieldPredicate{Contains: strPtr("long december")}}

	bonuses := ProximityBonuses(gsis, "title", query)
	assert.Greater(t, bonuses[1], 0.0)
	// Doc 2 carries both tokens, never adjacent in query order:
	// (0+1)*2.
	assert.Equal(t, 2.0, bonuses[2])
}

func TestApplyScriptScoreRewritesScore(t *testing.T) {
	docs := map[uint32]model.Document{1: {"plays": 10.0}}
	scores := map[uint32]float64{1: 2.0}

	out, err := ApplyScriptScore("(_score * plays)", docs, scores)
	require.NoError(t, err)
	assert.Equal(t, 20.0, out[1])
}

func strPtr(s string) *string { return &s }
