// Package engine wires the tokenizer, per-field secondary indexes,
// document store, journal/snapshot, evaluator, ranker, string query
// parser, and spelling/autosuggest packages into the API surface
// §6 names: Add, Update, Remove, CreateGSI, Search, StringQuerySearch,
// Autosuggest, EnableAutosuggest, Scroll.
//
// Engine serializes every mutation and read behind one sync.RWMutex,
// exactly as the teacher's indexing.Service and search.Service take
// the document store's and inverted index's locks together. Search
// takes the same full Lock as a writer rather than RLock (§5's
// documented simplification), since evaluating a query can itself
// create a field index on first reference; read paths that never
// touch the field-index map, like Autosuggest, still take RLock.
package engine

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/brindle-search/jamesql/internal/errors"
	"github.com/brindle-search/jamesql/internal/evaluator"
	"github.com/brindle-search/jamesql/internal/gsi"
	"github.com/brindle-search/jamesql/internal/journal"
	"github.com/brindle-search/jamesql/internal/rank"
	"github.com/brindle-search/jamesql/internal/spelling"
	"github.com/brindle-search/jamesql/internal/store"
	"github.com/brindle-search/jamesql/internal/tokenizer"
	"github.com/brindle-search/jamesql/model"
)

const (
	snapshotFileName = "index.jamesql"
	journalFileName  = "journal.jamesql"
)

// Engine is a single in-memory document index: the document store,
// every field's secondary index, the journal/snapshot pair, and the
// spelling/autosuggest models that ride along on the same write path.
type Engine struct {
	mu   sync.RWMutex
	opts Options

	store *store.DocumentStore
	gsis  map[string]*gsi.GSI

	// explicitStrategy records a strategy pinned by CreateGSI before
	// data arrives, so the lazy first-encounter path in Add honors
	// it instead of inferring.
	explicitStrategy map[string]gsi.Strategy

	eval *evaluator.Evaluator
	bm25 *rank.BM25Calculator

	spellingModel *spelling.UnigramModel
	autosuggest   map[string]*spelling.AutosuggestTrie

	jrnl         *journal.Journal
	snapshotPath string
	journalPath  string
}

// New creates an empty engine. When opts.DataDir is non-empty, any
// existing snapshot/journal pair in that directory is replayed first
// (crash recovery), and subsequent mutations are journaled.
func New(opts Options) (*Engine, error) {
	opts = opts.withDefaults()

	e := &Engine{
		opts:             opts,
		store:            store.New(),
		gsis:             make(map[string]*gsi.GSI),
		explicitStrategy: make(map[string]gsi.Strategy),
		spellingModel:    spelling.NewUnigramModel(),
		autosuggest:      make(map[string]*spelling.AutosuggestTrie),
	}
	e.eval = evaluator.New(e.store, gsiProvider{e})
	if opts.MaxSubQueries > 0 {
		e.eval.MaxSubQueries = opts.MaxSubQueries
	}
	if opts.MatchLimit > 0 {
		e.eval.MatchLimit = opts.MatchLimit
	}
	e.bm25 = rank.NewBM25Calculator(e.store)

	if opts.DataDir == "" {
		return e, nil
	}

	e.snapshotPath = filepath.Join(opts.DataDir, snapshotFileName)
	e.journalPath = filepath.Join(opts.DataDir, journalFileName)

	recovered, err := journal.Recover(e.snapshotPath, e.journalPath)
	if err != nil {
		return nil, fmt.Errorf("engine: recover: %w", err)
	}
	if len(recovered.IDs) > 0 {
		log.Printf("engine: replaying %d recovered document(s), checkpoint %s", len(recovered.IDs), recovered.CheckpointHash)
		e.store.Restore(recovered.IDs, recovered.Docs)
		for _, id := range recovered.IDs {
			ord, _ := e.store.Ordinal(id)
			doc := recovered.Docs[id]
			e.indexDocumentUnsafe(ord, doc)
		}
		if err := journal.WriteSnapshot(e.snapshotPath, recovered.IDs, recovered.Docs); err != nil {
			return nil, fmt.Errorf("engine: fold recovered journal into snapshot: %w", err)
		}
	}

	jrnl, err := journal.Open(e.journalPath)
	if err != nil {
		return nil, fmt.Errorf("engine: open journal: %w", err)
	}
	if err := jrnl.Truncate(); err != nil {
		return nil, fmt.Errorf("engine: truncate journal after recovery: %w", err)
	}
	e.jrnl = jrnl
	return e, nil
}

// Close releases the journal file handle, if journaling is enabled.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.jrnl == nil {
		return nil
	}
	return e.jrnl.Close()
}

// gsiProvider adapts Engine to the GSIProvider interface the
// evaluator, ranker, and string query rewriter each declare locally.
// GSI creates the field's index on first reference (§7's
// UnknownField: "the engine creates one via inference on first use"),
// so callers must already hold e.mu.
type gsiProvider struct{ e *Engine }

func (p gsiProvider) GSI(field string) (*gsi.GSI, bool) {
	g, err := p.e.ensureGSI(field)
	if err != nil {
		return nil, false
	}
	return g, true
}

// Strategy implements stringquery.FieldStrategies.
func (p gsiProvider) Strategy(field string) (gsi.Strategy, bool) {
	g, ok := p.e.gsis[field]
	if !ok {
		return "", false
	}
	return g.Strategy, true
}

// TextFields implements stringquery.FieldStrategies: every field
// indexed as CONTAINS or PREFIX, the strategies a bare word's
// implicit "or" fans out across (§4.6 explicitly skips NUMERIC/DATE).
func (p gsiProvider) TextFields() []string {
	var out []string
	for field, g := range p.e.gsis {
		if g.Strategy == gsi.Contains || g.Strategy == gsi.Prefix {
			out = append(out, field)
		}
	}
	return out
}

// ensureGSI returns field's secondary index, creating it on first
// encounter: an explicit strategy pinned by CreateGSI wins, otherwise
// the strategy is inferred from up to inferenceSampleCap values
// currently observed for field across the live document store — the
// data model's "created lazily on first add encountering a new field"
// — and the index is then backfilled over every document in the store
// that carries field. Must be called with e.mu held.
func (e *Engine) ensureGSI(field string) (*gsi.GSI, error) {
	if g, ok := e.gsis[field]; ok {
		return g, nil
	}

	strat, pinned := e.explicitStrategy[field]
	if !pinned {
		strat = gsi.InferStrategy(field, e.sampleFieldValues(field))
	}

	g, err := gsi.New(field, strat)
	if err != nil {
		return nil, err
	}
	e.gsis[field] = g

	e.store.Each(func(id model.ID, doc model.Document) {
		if v, ok := doc[field]; ok {
			ord, _ := e.store.Ordinal(id)
			g.AddValue(ord, v)
		}
	})
	return g, nil
}

const inferenceSampleCap = 25

// sampleFieldValues gathers up to inferenceSampleCap raw values
// observed for field across the live document store, the sample
// InferStrategy's cascade runs against.
func (e *Engine) sampleFieldValues(field string) []interface{} {
	var values []interface{}
	e.store.Each(func(_ model.ID, doc model.Document) {
		if len(values) >= inferenceSampleCap {
			return
		}
		if v, ok := doc[field]; ok {
			values = append(values, v)
		}
	})
	return values
}

// indexDocumentUnsafe routes every field of doc through ensureGSI and
// AddValue, and folds the document's CONTAINS-indexed text into the
// spelling model. Must be called with e.mu held.
func (e *Engine) indexDocumentUnsafe(ord uint32, doc model.Document) {
	for field, v := range doc {
		_, existed := e.gsis[field]
		g, err := e.ensureGSI(field)
		if err != nil {
			log.Printf("engine: field %q: %v", field, err)
			continue
		}
		// A newly created index is backfilled from the store, which
		// already holds doc, so only an existing index takes the value.
		if existed {
			g.AddValue(ord, v)
		}
		if g.Strategy == gsi.Contains {
			for _, s := range model.StringValues(v) {
				e.spellingModel.AddTokens(tokenizer.Words(s))
			}
		}
		if t, ok := e.autosuggest[field]; ok {
			for _, s := range model.StringValues(v) {
				t.Add(s)
			}
		}
	}
}

// deindexDocumentUnsafe undoes indexDocumentUnsafe, used by Remove
// and by Update's full posting rebuild. Must be called with e.mu
// held.
func (e *Engine) deindexDocumentUnsafe(ord uint32, doc model.Document) {
	for field, v := range doc {
		g, ok := e.gsis[field]
		if !ok {
			continue
		}
		g.RemoveValue(ord, v)
		if g.Strategy == gsi.Contains {
			for _, s := range model.StringValues(v) {
				e.spellingModel.RemoveTokens(tokenizer.Words(s))
			}
		}
		if t, ok := e.autosuggest[field]; ok {
			for _, s := range model.StringValues(v) {
				t.Remove(s)
			}
		}
	}
}

// CreateGSI eagerly creates (or rebuilds) field's secondary index
// with an explicit strategy, per §6's create_gsi. An unsupported
// strategy name is fatal to the call (InvalidStrategyError); any
// other explicit strategy pins future lazy-creation too.
func (e *Engine) CreateGSI(field string, strategy gsi.Strategy) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := gsi.ValidStrategies[strategy]; !ok {
		return errors.NewInvalidStrategyError(string(strategy))
	}
	e.explicitStrategy[field] = strategy
	delete(e.gsis, field) // force a rebuild under the new strategy
	_, err := e.ensureGSI(field)
	return err
}
