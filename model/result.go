package model

// Hit is one scored, ranked document in a result envelope.
type Hit struct {
	Document Document
	Score    float64
	Context  []string // highlight fragments
}

// SpellingSubstitution records a correction the string query parser
// applied before rewriting, reported alongside the result so callers
// can surface "did you mean" style feedback.
type SpellingSubstitution struct {
	From string
	To   string
}

// Result is the envelope returned by Search and StringQuerySearch.
type Result struct {
	Documents             []Hit
	QueryTime             string // seconds, formatted as a string
	TotalResults          int
	Groups                map[string][]Document
	Metrics               map[string]int // aggregate: field -> count of distinct observed values
	SpellingSubstitutions []SpellingSubstitution
	Error                 string
}

// SearchRequest is the envelope accompanying a tree query: the query
// itself plus sort/paging/grouping/aggregation directives.
type SearchRequest struct {
	Query      *TreeQuery
	SortBy     string
	SortOrder  string // "asc" or "desc", default "desc"
	Skip       int
	Limit      int // default 10; explicitly 0 means empty
	HasLimit   bool
	GroupBy    string
	Aggregate  []string
	ScriptScore string
}
