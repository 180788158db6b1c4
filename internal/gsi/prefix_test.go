package gsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixIndexStartsWith(t *testing.T) {
	idx := NewPrefixIndex()
	idx.Add(1, "tolerate")
	idx.Add(2, "together")
	idx.Add(3, "mural")

	docs := idx.StartsWith("tol")
	assert.True(t, docs.Contains(1))
	assert.False(t, docs.Contains(2))
	assert.False(t, docs.Contains(3))
}

func TestPrefixIndexEquals(t *testing.T) {
	idx := NewPrefixIndex()
	idx.Add(1, "Folk")
	docs := idx.Equals("folk")
	assert.True(t, docs.Contains(1))
}

func TestPrefixIndexTruncatesLongValues(t *testing.T) {
	idx := NewPrefixIndex()
	long := "abcdefghijklmnopqrstuvwxyz"
	idx.Add(1, long)
	docs := idx.StartsWith(long[:20])
	assert.True(t, docs.Contains(1))
}

func TestPrefixIndexRemove(t *testing.T) {
	idx := NewPrefixIndex()
	idx.Add(1, "pop")
	idx.Remove(1, "pop")
	docs := idx.StartsWith("p")
	assert.False(t, docs.Contains(1))
}

func TestPrefixIndexScanContains(t *testing.T) {
	idx := NewPrefixIndex()
	idx.Add(1, "indie-pop")
	docs := idx.ScanContains("pop")
	assert.True(t, docs.Contains(1))
}
