package engine

// Options configures an Engine at construction, mirroring the
// teacher's config.IndexSettings pattern (a plain struct) but scoped
// to the handful of knobs §4.3/§4.4/§5 actually call out — GSI
// strategy is inferred rather than declared, so there is no per-field
// settings surface here. New fills in defaults and does no other
// validation.
type Options struct {
	// DataDir holds the journal and snapshot files. Empty disables
	// journaling entirely (an in-memory-only engine, useful for
	// tests).
	DataDir string

	// MaxSubQueries caps a tree query's sub-query count (§4.3's
	// query-size guard). Zero selects the spec default of 20.
	MaxSubQueries int

	// MatchLimit caps a single predicate's raw hit list (§4.4's
	// result cap). Zero selects the spec default of 1000.
	MatchLimit int

	// BM25 enables the optional BM25 scoring layer (§4.5).
	BM25 bool

	// TitleField names the field the proximity bonus's "title-like
	// field" alignment multiplier checks (§4.5). Empty selects
	// "title".
	TitleField string
}

// withDefaults returns opts with an empty TitleField replaced by
// "title". Zero MaxSubQueries and MatchLimit are left as they are; New
// then keeps the evaluator's own defaults for them.
func (o Options) withDefaults() Options {
	if o.TitleField == "" {
		o.TitleField = "title"
	}
	return o
}
