package journal

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/natefinch/atomic"

	"github.com/brindle-search/jamesql/model"
)

// snapshotLine is one line of index.jamesql: a document's canonical
// JSON object, id-tagged so recovery can restore ordinals in a
// deterministic order.
type snapshotLine struct {
	ID       string         `json:"id"`
	Document model.Document `json:"document"`
}

// WriteSnapshot replaces the snapshot file at path with one line per
// document, in the iteration order of ids (which callers make
// deterministic so re-running recovery twice assigns identical
// ordinals). The replacement is atomic: a reader crash-consulting
// the file never observes a half-written snapshot.
func WriteSnapshot(path string, ids []model.ID, docs map[model.ID]model.Document) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, id := range ids {
		doc, ok := docs[id]
		if !ok {
			continue
		}
		if err := enc.Encode(snapshotLine{ID: id.String(), Document: doc}); err != nil {
			return fmt.Errorf("encode snapshot line for %s: %w", id, err)
		}
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// ReadSnapshot loads index.jamesql, returning documents in the file's
// line order (the order recovery assigns ordinals in) alongside the
// id -> document map.
func ReadSnapshot(path string) (ids []model.ID, docs map[model.ID]model.Document, err error) {
	f, openErr := os.Open(path)
	if openErr != nil {
		if os.IsNotExist(openErr) {
			return nil, map[model.ID]model.Document{}, nil
		}
		return nil, nil, fmt.Errorf("open snapshot %s: %w", path, openErr)
	}
	defer f.Close()

	docs = make(map[model.ID]model.Document)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var sl snapshotLine
		if unmarshalErr := json.Unmarshal(line, &sl); unmarshalErr != nil {
			log.Printf("snapshot: dropping malformed line at %s:%d: %v", path, lineNo, unmarshalErr)
			continue
		}
		id, parseErr := model.ParseID(sl.ID)
		if parseErr != nil {
			log.Printf("snapshot: dropping line with unparsable id at %s:%d: %v", path, lineNo, parseErr)
			continue
		}
		ids = append(ids, id)
		docs[id] = sl.Document
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return ids, docs, fmt.Errorf("scan snapshot %s: %w", path, scanErr)
	}
	return ids, docs, nil
}
