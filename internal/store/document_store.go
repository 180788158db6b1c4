// Package store holds the authoritative document-id -> document
// mapping every field index references by ordinal. It is the
// document model's single source of truth: index entries are
// resolved to documents lazily, at result-assembly time, never
// copied into postings.
//
// DocumentStore is not internally synchronized — the engine package
// serializes every mutation and read behind one lock, per the
// concurrency model's documented simplification, so the store itself
// stays a plain map wrapper, the way the teacher's own
// store.DocumentStore would look without its gob-driven mutex (that
// mutex existed there to guard concurrent gob encode/decode; our
// snapshot format is line-delimited JSON written under the engine's
// lock instead, so the store needs none of its own).
package store

import (
	"github.com/brindle-search/jamesql/model"
)

// DocumentStore maps the opaque 128-bit document id to both the
// document itself and a dense uint32 ordinal, the stand-in doc-id
// every field index's roaring bitmap actually stores.
type DocumentStore struct {
	docs        map[model.ID]model.Document
	ordinals    map[model.ID]uint32
	reverse     map[uint32]model.ID
	nextOrdinal uint32
}

// New creates an empty document store.
func New() *DocumentStore {
	return &DocumentStore{
		docs:     make(map[model.ID]model.Document),
		ordinals: make(map[model.ID]uint32),
		reverse:  make(map[uint32]model.ID),
	}
}

// Put inserts or replaces the document for id, returning the dense
// ordinal assigned to it (stable for the id's lifetime, even across
// an intervening remove) and whether this was an update of an
// existing document.
func (s *DocumentStore) Put(id model.ID, doc model.Document) (ordinal uint32, isUpdate bool) {
	if ord, ok := s.ordinals[id]; ok {
		s.docs[id] = doc
		return ord, true
	}
	ord := s.nextOrdinal
	s.nextOrdinal++
	s.ordinals[id] = ord
	s.reverse[ord] = id
	s.docs[id] = doc
	return ord, false
}

// Get returns the document stored for id.
func (s *DocumentStore) Get(id model.ID) (model.Document, bool) {
	doc, ok := s.docs[id]
	return doc, ok
}

// Ordinal returns the dense ordinal assigned to id, if any — present
// even for a removed document, so postings can still resolve to it
// long enough to be filtered as dangling.
func (s *DocumentStore) Ordinal(id model.ID) (uint32, bool) {
	ord, ok := s.ordinals[id]
	return ord, ok
}

// IDForOrdinal reverses Ordinal.
func (s *DocumentStore) IDForOrdinal(ordinal uint32) (model.ID, bool) {
	id, ok := s.reverse[ordinal]
	return id, ok
}

// Resolve looks up the live document for an ordinal, reporting false
// both when the ordinal was never assigned and when the document it
// named has since been removed (a dangling posting).
func (s *DocumentStore) Resolve(ordinal uint32) (model.Document, model.ID, bool) {
	id, ok := s.reverse[ordinal]
	if !ok {
		return nil, model.NilID, false
	}
	doc, ok := s.docs[id]
	if !ok {
		return nil, id, false
	}
	return doc, id, true
}

// Remove deletes id from the store. Field-index postings may still
// reference its ordinal; the evaluator filters those out at result
// assembly time rather than eagerly cleaning postings here.
func (s *DocumentStore) Remove(id model.ID) bool {
	if _, ok := s.docs[id]; !ok {
		return false
	}
	delete(s.docs, id)
	return true
}

// Len reports the number of live documents.
func (s *DocumentStore) Len() int {
	return len(s.docs)
}

// Each calls fn for every live document, in no particular order.
func (s *DocumentStore) Each(fn func(id model.ID, doc model.Document)) {
	for id, doc := range s.docs {
		fn(id, doc)
	}
}

// AllIDs returns the id of every live document.
func (s *DocumentStore) AllIDs() []model.ID {
	ids := make([]model.ID, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	return ids
}

// Snapshot captures every live document for persistence, id-tagged.
func (s *DocumentStore) Snapshot() map[model.ID]model.Document {
	out := make(map[model.ID]model.Document, len(s.docs))
	for id, doc := range s.docs {
		out[id] = doc
	}
	return out
}

// LiveOrdinals returns the ordinal of every document still present in
// the store, used by the evaluator to build the universe set for
// `not`.
func (s *DocumentStore) LiveOrdinals() []uint32 {
	out := make([]uint32, 0, len(s.docs))
	for id := range s.docs {
		out = append(out, s.ordinals[id])
	}
	return out
}

// Restore replaces the store's contents, used when replaying a
// snapshot and journal during recovery. Ordinals are reassigned in
// the order ids are provided, which recovery callers must make
// deterministic (e.g. snapshot order then journal order) so that
// re-running recovery twice yields identical field-index bitmaps.
func (s *DocumentStore) Restore(ids []model.ID, docs map[model.ID]model.Document) {
	s.docs = make(map[model.ID]model.Document, len(docs))
	s.ordinals = make(map[model.ID]uint32, len(ids))
	s.reverse = make(map[uint32]model.ID, len(ids))
	s.nextOrdinal = 0
	for _, id := range ids {
		if _, already := s.ordinals[id]; already {
			continue
		}
		ord := s.nextOrdinal
		s.nextOrdinal++
		s.ordinals[id] = ord
		s.reverse[ord] = id
	}
	for id, doc := range docs {
		s.docs[id] = doc
	}
}
