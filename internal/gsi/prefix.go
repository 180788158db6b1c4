package gsi

import (
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// prefixKeyLimit is K from the data model table: the prefix trie is
// keyed on at most the first 20 characters of a field's value.
const prefixKeyLimit = 20

type prefixNode struct {
	children map[byte]*prefixNode
	docs     *roaring.Bitmap
}

func newPrefixNode() *prefixNode {
	return &prefixNode{children: make(map[byte]*prefixNode), docs: roaring.New()}
}

// PrefixIndex is a byte trie (one node per byte) keyed by the first 20 bytes of a
// field's value, used for starts_with, plus a flat key->docs map used
// for the equals and contains fallback scans the spec calls for.
type PrefixIndex struct {
	root *prefixNode
	keys map[string]*roaring.Bitmap
}

// NewPrefixIndex creates an empty PREFIX field index.
func NewPrefixIndex() *PrefixIndex {
	return &PrefixIndex{root: newPrefixNode(), keys: make(map[string]*roaring.Bitmap)}
}

func truncateKey(value string) string {
	lower := strings.ToLower(value)
	if len(lower) > prefixKeyLimit {
		return lower[:prefixKeyLimit]
	}
	return lower
}

// Add inserts ordinal under value's truncated, lowercased key.
func (idx *PrefixIndex) Add(ordinal uint32, value string) {
	key := truncateKey(value)
	node := idx.root
	node.docs.Add(ordinal)
	for i := 0; i < len(key); i++ {
		c := key[i]
		child, ok := node.children[c]
		if !ok {
			child = newPrefixNode()
			node.children[c] = child
		}
		child.docs.Add(ordinal)
		node = child
	}

	bm, ok := idx.keys[key]
	if !ok {
		bm = roaring.New()
		idx.keys[key] = bm
	}
	bm.Add(ordinal)
}

// Remove undoes a prior Add.
func (idx *PrefixIndex) Remove(ordinal uint32, value string) {
	key := truncateKey(value)
	node := idx.root
	node.docs.Remove(ordinal)
	for i := 0; i < len(key); i++ {
		child, ok := node.children[key[i]]
		if !ok {
			break
		}
		child.docs.Remove(ordinal)
		node = child
	}
	if bm, ok := idx.keys[key]; ok {
		bm.Remove(ordinal)
		if bm.IsEmpty() {
			delete(idx.keys, key)
		}
	}
}

// StartsWith walks the trie following prefix's bytes (itself
// truncated to the key limit) and returns the aggregate doc set at
// that node.
func (idx *PrefixIndex) StartsWith(prefix string) *roaring.Bitmap {
	key := truncateKey(prefix)
	node := idx.root
	for i := 0; i < len(key); i++ {
		child, ok := node.children[key[i]]
		if !ok {
			return roaring.New()
		}
		node = child
	}
	return node.docs.Clone()
}

// Equals scans the key set for an exact match, per the spec's
// byte-level linear-scan semantics for equals on a PREFIX field.
func (idx *PrefixIndex) Equals(value string) *roaring.Bitmap {
	key := truncateKey(value)
	for k, bm := range idx.keys {
		if k == key {
			return bm.Clone()
		}
	}
	return roaring.New()
}

// ScanContains performs the substring fallback scan contains uses
// against a PREFIX field.
func (idx *PrefixIndex) ScanContains(token string) *roaring.Bitmap {
	needle := strings.ToLower(token)
	out := roaring.New()
	for key, bm := range idx.keys {
		if strings.Contains(key, needle) {
			out.Or(bm)
		}
	}
	return out
}
