package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brindle-search/jamesql/internal/gsi"
	"github.com/brindle-search/jamesql/model"
)

// lyricCorpus seeds the three-document fixture used throughout §8's
// concrete scenarios: title/lyric text plus enough structure for the
// boolean-composition and string-query scenarios.
func lyricCorpus(t *testing.T, e *Engine) {
	t.Helper()
	docs := []model.Document{
		{"title": "tolerate it", "lyric": "a quiet hour, my mural still drying"},
		{"title": "my tears ricochet", "lyric": "and if i'm dead to you why are you at the wake, sky above"},
		{"title": "The Bolter", "lyric": "Started with a kiss, ended in a kiss goodbye"},
	}
	for _, d := range docs {
		_, _, err := e.Add(d, nil)
		require.NoError(t, err)
	}
}

func treeQuery(t *testing.T, raw string) *model.TreeQuery {
	t.Helper()
	q := &model.TreeQuery{}
	require.NoError(t, json.Unmarshal([]byte(raw), q))
	return q
}

func TestScenarioContainsSingleWord(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)
	lyricCorpus(t, e)

	result := e.Search(&model.SearchRequest{
		Query:  treeQuery(t, `{"title":{"contains":"tolerate"}}`),
		SortBy: "title",
	})
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "tolerate it", result.Documents[0].Document["title"])
}

func TestScenarioStrictPhraseContains(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)
	lyricCorpus(t, e)

	result := e.Search(&model.SearchRequest{
		Query: treeQuery(t, `{"lyric":{"contains":"my mural","strict":true}}`),
	})
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "tolerate it", result.Documents[0].Document["title"])
}

func TestScenarioOrAndComposition(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)
	lyricCorpus(t, e)

	result := e.Search(&model.SearchRequest{
		Query: treeQuery(t, `{"or":{"and":[{"title":{"starts_with":"tolerate"}},
			{"title":{"contains":"it"}}],"lyric":{"contains":"kiss"}}}`),
		Limit:    2,
		HasLimit: true,
	})
	require.Len(t, result.Documents, 2)
	assert.Equal(t, "The Bolter", result.Documents[0].Document["title"])
	assert.Equal(t, "tolerate it", result.Documents[1].Document["title"])
}

func TestScenarioStringQueryRewriteAcrossFields(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)
	lyricCorpus(t, e)

	result := e.StringQuerySearch(`"tolerate it"`, nil, 0, false, nil)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "tolerate it", result.Documents[0].Document["title"])
}

func TestScenarioSelfCancelingStringQuery(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)
	lyricCorpus(t, e)

	result := e.StringQuerySearch("sky -sky", nil, 0, false, nil)
	assert.Empty(t, result.Documents)
}

func TestScenarioNumericRange(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)

	docs := []model.Document{
		{"title": "a", "listens": 150.0},
		{"title": "b", "listens": 250.0},
		{"title": "c", "listens": 300.0},
		{"title": "d", "listens": 400.0},
	}
	for _, d := range docs {
		_, _, err := e.Add(d, nil)
		require.NoError(t, err)
	}
	require.NoError(t, e.CreateGSI("listens", gsi.Numeric))

	result := e.Search(&model.SearchRequest{
		Query:  treeQuery(t, `{"listens":{"range":[200,300]}}`),
		SortBy: "title",
	})
	// SortOrder is unset, so the title sort is descending.
	require.Len(t, result.Documents, 2)
	assert.Equal(t, "c", result.Documents[0].Document["title"])
	assert.Equal(t, "b", result.Documents[1].Document["title"])
}
