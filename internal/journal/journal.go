// Package journal implements the append-only operation log and
// line-delimited snapshot file used for crash recovery: a mutating
// operation is durably appended to the journal before it becomes
// visible on the read path, and periodically folded into the
// snapshot, after which the journal is truncated.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/brindle-search/jamesql/model"
)

// Op names a journaled mutation kind.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// Record is one journal line: an operation plus the document it
// carries (empty for a remove).
type Record struct {
	Operation Op             `json:"operation"`
	ID        string         `json:"id"`
	Document  model.Document `json:"document,omitempty"`
}

// Journal is the append-only log backing journal.jamesql.
type Journal struct {
	path string
	file *os.File
}

// Open opens (creating if absent) the journal file at path for
// appending.
func Open(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return &Journal{path: path, file: f}, nil
}

// Append writes one record and fsyncs before returning, so the
// mutation is durable before the in-memory state it describes is
// made visible on the read path.
func (j *Journal) Append(rec Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode journal record: %w", err)
	}
	line = append(line, '\n')
	if _, err := j.file.Write(line); err != nil {
		return fmt.Errorf("write journal record: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("sync journal: %w", err)
	}
	return nil
}

// Truncate empties the journal, called after a successful snapshot
// fold or after a clean recovery replay.
func (j *Journal) Truncate() error {
	if err := j.file.Truncate(0); err != nil {
		return fmt.Errorf("truncate journal: %w", err)
	}
	if _, err := j.file.Seek(0, 0); err != nil {
		return fmt.Errorf("seek journal: %w", err)
	}
	return nil
}

// Close releases the journal's file handle.
func (j *Journal) Close() error {
	return j.file.Close()
}

// ReadAll replays every well-formed record in the journal at path, in
// file order. A partial or corrupt trailing line (the signature of a
// crash mid-write) is dropped with a diagnostic rather than failing
// recovery.
func ReadAll(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			log.Printf("journal: dropping malformed record at %s:%d: %v", path, lineNo, err)
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("scan journal %s: %w", path, err)
	}
	return records, nil
}
