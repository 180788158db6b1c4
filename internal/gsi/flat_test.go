package gsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatIndexEqualsScalar(t *testing.T) {
	idx := NewFlatIndex()
	idx.Add(1, "pop")
	idx.Add(2, "rock")

	docs := idx.Equals("pop")
	assert.True(t, docs.Contains(1))
	assert.False(t, docs.Contains(2))
}

func TestFlatIndexEqualsBoolean(t *testing.T) {
	idx := NewFlatIndex()
	idx.Add(1, true)
	idx.Add(2, false)

	assert.True(t, idx.Equals(true).Contains(1))
	assert.True(t, idx.Equals(false).Contains(2))
}

func TestFlatIndexListMembersShareBuckets(t *testing.T) {
	idx := NewFlatIndex()
	idx.Add(1, "pop")
	idx.Add(1, "indie")
	idx.Add(2, "indie")

	docs := idx.Equals("indie")
	assert.True(t, docs.Contains(1))
	assert.True(t, docs.Contains(2))
}

func TestFlatIndexRemove(t *testing.T) {
	idx := NewFlatIndex()
	idx.Add(1, "pop")
	idx.Remove(1, "pop")
	assert.True(t, idx.Equals("pop").IsEmpty())
}
