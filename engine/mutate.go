package engine

import (
	"github.com/brindle-search/jamesql/internal/errors"
	"github.com/brindle-search/jamesql/internal/journal"
	"github.com/brindle-search/jamesql/model"
)

// Add indexes doc, assigning a fresh id when none is supplied. A
// caller-supplied external id string is derived deterministically
// (model.DeriveID) rather than used verbatim, so repeated add/update
// calls naming the same external id converge on the same doc-id.
// Add journals the mutation durably before it becomes visible to
// search (§5's "journal writes must be durable before the
// corresponding in-memory mutation is made visible on the read
// path").
func (e *Engine) Add(doc model.Document, id *string) (model.Document, model.ID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	docID := model.NewID()
	if id != nil {
		docID = model.DeriveID(*id)
	}

	if err := e.journalAppend(journal.OpAdd, docID, doc); err != nil {
		return nil, model.NilID, err
	}

	// add() against an id already present behaves like update: clean
	// up the old posting before indexing the replacement, so fetch it
	// before Put overwrites the store entry.
	old, wasPresent := e.store.Get(docID)

	ord, _ := e.store.Put(docID, doc)
	if wasPresent {
		e.deindexDocumentUnsafe(ord, old)
	}
	e.indexDocumentUnsafe(ord, doc)

	if err := e.foldSnapshot(); err != nil {
		return nil, model.NilID, err
	}
	return doc, docID, nil
}

// Update performs a whole-document replace and a full posting
// rebuild for the touched document: old tokens are removed before the
// new content is indexed, resolving the open "update consistency"
// question as (a) rather than leaving the index stale.
func (e *Engine) Update(id model.ID, doc model.Document) (model.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	old, ok := e.store.Get(id)
	if !ok {
		return nil, errors.NewNotFoundError(id.String())
	}

	if err := e.journalAppend(journal.OpAdd, id, doc); err != nil {
		return nil, err
	}

	ord, _ := e.store.Put(id, doc)
	e.deindexDocumentUnsafe(ord, old)
	e.indexDocumentUnsafe(ord, doc)

	if err := e.foldSnapshot(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Remove deletes id from the document store. Postings referencing its
// ordinal are left dangling and filtered out at result-assembly time
// (§4.2, §7 DanglingPosting) rather than being cleaned up eagerly.
func (e *Engine) Remove(id model.ID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.store.Get(id); !ok {
		return errors.NewNotFoundError(id.String())
	}
	if err := e.journalAppend(journal.OpRemove, id, nil); err != nil {
		return err
	}
	e.store.Remove(id)
	return nil
}

// journalAppend writes rec to the journal, a no-op when journaling is
// disabled (DataDir empty).
func (e *Engine) journalAppend(op journal.Op, id model.ID, doc model.Document) error {
	if e.jrnl == nil {
		return nil
	}
	return e.jrnl.Append(journal.Record{Operation: op, ID: id.String(), Document: doc})
}

// foldSnapshot writes the full document store to the snapshot file
// and truncates the journal, per §4.2: "after a successful add the
// operation is also appended to the snapshot and the journal is
// truncated." A no-op when journaling is disabled.
func (e *Engine) foldSnapshot() error {
	if e.jrnl == nil {
		return nil
	}
	ids := e.store.AllIDs()
	docs := e.store.Snapshot()
	if err := journal.WriteSnapshot(e.snapshotPath, ids, docs); err != nil {
		return err
	}
	return e.jrnl.Truncate()
}
