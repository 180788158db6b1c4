package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brindle-search/jamesql/internal/errors"
	"github.com/brindle-search/jamesql/internal/gsi"
	"github.com/brindle-search/jamesql/model"
)

func TestAddThenSearchFindsDocument(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)

	_, id, err := e.Add(model.Document{"title": "Cloudbusting"}, nil)
	require.NoError(t, err)
	assert.False(t, id.IsNil())

	result := e.Search(&model.SearchRequest{Query: treeQuery(t, `{"title":{"contains":"cloudbusting"}}`)})
	require.Len(t, result.Documents, 1)
}

func TestAddWithExternalIDConvergesOnSameDocID(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)

	external := "kate-bush-1985"
	_, firstID, err := e.Add(model.Document{"title": "Hounds of Love"}, &external)
	require.NoError(t, err)

	_, secondID, err := e.Add(model.Document{"title": "Running Up That Hill"}, &external)
	require.NoError(t, err)

	assert.Equal(t, firstID, secondID)
	assert.Equal(t, model.DeriveID(external), firstID)

	result := e.Search(&model.SearchRequest{Query: treeQuery(t, `{"title":{"contains":"hill"}}`)})
	require.Len(t, result.Documents, 1)
}

func TestUpdateRebuildsPostingsForOldAndNewContent(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)

	_, id, err := e.Add(model.Document{"title": "Cloudbusting"}, nil)
	require.NoError(t, err)

	_, err = e.Update(id, model.Document{"title": "Running Up That Hill"})
	require.NoError(t, err)

	stale := e.Search(&model.SearchRequest{Query: treeQuery(t, `{"title":{"contains":"cloudbusting"}}`)})
	assert.Empty(t, stale.Documents)

	fresh := e.Search(&model.SearchRequest{Query: treeQuery(t, `{"title":{"contains":"hill"}}`)})
	require.Len(t, fresh.Documents, 1)
}

func TestUpdateUnknownIDReturnsNotFound(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)

	_, err = e.Update(model.NewID(), model.Document{"title": "x"})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestRemoveLeavesDanglingPostingFilteredFromResults(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)

	_, id, err := e.Add(model.Document{"title": "Cloudbusting"}, nil)
	require.NoError(t, err)
	require.NoError(t, e.Remove(id))

	result := e.Search(&model.SearchRequest{Query: treeQuery(t, `{"title":{"contains":"cloudbusting"}}`)})
	assert.Empty(t, result.Documents)
	assert.Equal(t, 0, result.TotalResults)
}

func TestRemoveUnknownIDReturnsNotFound(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)
	assert.ErrorIs(t, e.Remove(model.NewID()), errors.ErrNotFound)
}

func TestCreateGSIRejectsUnknownStrategy(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)
	err = e.CreateGSI("listens", gsi.Strategy("NOT_A_STRATEGY"))
	assert.Error(t, err)
}

func TestCreateGSIPinsStrategyForFutureDocuments(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)
	require.NoError(t, e.CreateGSI("code", gsi.TrigramCode))

	_, _, err = e.Add(model.Document{"code": "func main() {}"}, nil)
	require.NoError(t, err)

	g, ok := e.gsis["code"]
	require.True(t, ok)
	assert.Equal(t, gsi.TrigramCode, g.Strategy)
}

func TestSearchMissingQueryReturnsErrorResult(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)
	result := e.Search(&model.SearchRequest{})
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, result.Documents)
}

func TestAutosuggestReturnsRankedWordCompletions(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)

	_, _, err = e.Add(model.Document{"title": "tolerate it"}, nil)
	require.NoError(t, err)
	_, _, err = e.Add(model.Document{"title": "tears ricochet"}, nil)
	require.NoError(t, err)

	require.NoError(t, e.EnableAutosuggest("title"))
	suggestions := e.Autosuggest("title", "t", false, 10)
	assert.ElementsMatch(t, []string{"tolerate", "tears"}, suggestions)
}

func TestAutosuggestUnknownFieldReturnsNil(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)
	assert.Nil(t, e.Autosuggest("title", "t", false, 10))
}

func TestScrollPaginatesUntilShortPage(t *testing.T) {
	e, err := New(Options{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, _, err := e.Add(model.Document{"title": "tolerate it"}, nil)
		require.NoError(t, err)
	}

	query := treeQuery(t, `{"title":{"contains":"tolerate"}}`)
	next := e.Scroll(query, 2)

	page1, more1 := next()
	assert.Len(t, page1.Documents, 2)
	assert.True(t, more1)

	page2, more2 := next()
	assert.Len(t, page2.Documents, 2)
	assert.True(t, more2)

	page3, more3 := next()
	assert.Len(t, page3.Documents, 1)
	assert.False(t, more3)
}

func TestRecoveryReplaysJournalAcrossRestart(t *testing.T) {
	dir := t.TempDir()

	e1, err := New(Options{DataDir: dir})
	require.NoError(t, err)
	_, _, err = e1.Add(model.Document{"title": "Cloudbusting"}, nil)
	require.NoError(t, err)
	require.NoError(t, e1.Close())

	e2, err := New(Options{DataDir: dir})
	require.NoError(t, err)
	defer e2.Close()

	result := e2.Search(&model.SearchRequest{Query: treeQuery(t, `{"title":{"contains":"cloudbusting"}}`)})
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "Cloudbusting", result.Documents[0].Document["title"])
}
