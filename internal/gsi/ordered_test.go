package gsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderedIndexRange(t *testing.T) {
	idx := NewOrderedIndex()
	idx.Add(1, 100)
	idx.Add(2, 250)
	idx.Add(3, 400)

	docs := idx.Range(200, 300)
	assert.True(t, docs.Contains(2))
	assert.False(t, docs.Contains(1))
	assert.False(t, docs.Contains(3))
}

func TestOrderedIndexGreaterThan(t *testing.T) {
	idx := NewOrderedIndex()
	idx.Add(1, 100)
	idx.Add(2, 200)
	docs := idx.GreaterThan(100)
	assert.False(t, docs.Contains(1))
	assert.True(t, docs.Contains(2))
}

func TestOrderedIndexGreaterThanOrEqual(t *testing.T) {
	idx := NewOrderedIndex()
	idx.Add(1, 100)
	docs := idx.GreaterThanOrEqual(100)
	assert.True(t, docs.Contains(1))
}

func TestOrderedIndexLessThan(t *testing.T) {
	idx := NewOrderedIndex()
	idx.Add(1, 100)
	idx.Add(2, 200)
	docs := idx.LessThan(200)
	assert.True(t, docs.Contains(1))
	assert.False(t, docs.Contains(2))
}

func TestOrderedIndexEquals(t *testing.T) {
	idx := NewOrderedIndex()
	idx.Add(1, 42)
	assert.True(t, idx.Equals(42).Contains(1))
	assert.True(t, idx.Equals(43).IsEmpty())
}

func TestOrderedIndexRemoveMaintainsSortedKeys(t *testing.T) {
	idx := NewOrderedIndex()
	idx.Add(1, 10)
	idx.Add(2, 20)
	idx.Remove(1, 10)
	assert.Equal(t, []float64{20}, idx.keys)
}

func TestParseDateKeyOrdersChronologically(t *testing.T) {
	k1, ok1 := ParseDateKey("1989-10-27")
	k2, ok2 := ParseDateKey("2020-8-14")
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Less(t, k1, k2)
}

func TestParseDateKeyRejectsMalformed(t *testing.T) {
	_, ok := ParseDateKey("not-a-date")
	assert.False(t, ok)
}
