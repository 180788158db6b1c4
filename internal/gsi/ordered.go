package gsi

import (
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring"
)

// OrderedIndex is an ordered map keyed by a numeric value, backing
// both NUMERIC and DATE strategies — dates are converted to a
// comparable float64 (Unix seconds) before insertion, so the two
// strategies share one container with stable key-order iteration.
type OrderedIndex struct {
	keys    []float64 // sorted ascending, unique
	buckets map[float64]*roaring.Bitmap
}

// NewOrderedIndex creates an empty NUMERIC/DATE field index.
func NewOrderedIndex() *OrderedIndex {
	return &OrderedIndex{buckets: make(map[float64]*roaring.Bitmap)}
}

// ParseDateKey converts a "Y-M-D" date string into its ordering key.
func ParseDateKey(value string) (float64, bool) {
	t, err := time.Parse("2006-1-2", value)
	if err != nil {
		return 0, false
	}
	return float64(t.Unix()), true
}

// Add inserts ordinal under key, maintaining sorted key order.
func (idx *OrderedIndex) Add(ordinal uint32, key float64) {
	bm, ok := idx.buckets[key]
	if !ok {
		bm = roaring.New()
		idx.buckets[key] = bm
		i := sort.SearchFloat64s(idx.keys, key)
		idx.keys = append(idx.keys, 0)
		copy(idx.keys[i+1:], idx.keys[i:])
		idx.keys[i] = key
	}
	bm.Add(ordinal)
}

// Remove undoes a prior Add.
func (idx *OrderedIndex) Remove(ordinal uint32, key float64) {
	bm, ok := idx.buckets[key]
	if !ok {
		return
	}
	bm.Remove(ordinal)
	if bm.IsEmpty() {
		delete(idx.buckets, key)
		i := sort.SearchFloat64s(idx.keys, key)
		if i < len(idx.keys) && idx.keys[i] == key {
			idx.keys = append(idx.keys[:i], idx.keys[i+1:]...)
		}
	}
}

// Equals returns documents keyed exactly at key.
func (idx *OrderedIndex) Equals(key float64) *roaring.Bitmap {
	if bm, ok := idx.buckets[key]; ok {
		return bm.Clone()
	}
	return roaring.New()
}

// Range returns documents whose key falls in [lo, hi] inclusive.
func (idx *OrderedIndex) Range(lo, hi float64) *roaring.Bitmap {
	out := roaring.New()
	start := sort.SearchFloat64s(idx.keys, lo)
	for i := start; i < len(idx.keys) && idx.keys[i] <= hi; i++ {
		out.Or(idx.buckets[idx.keys[i]])
	}
	return out
}

// GreaterThan returns documents whose key is strictly greater than
// threshold.
func (idx *OrderedIndex) GreaterThan(threshold float64) *roaring.Bitmap {
	return idx.halfRange(threshold, false, true)
}

// GreaterThanOrEqual returns documents whose key is >= threshold.
func (idx *OrderedIndex) GreaterThanOrEqual(threshold float64) *roaring.Bitmap {
	return idx.halfRange(threshold, true, true)
}

// LessThan returns documents whose key is strictly less than
// threshold.
func (idx *OrderedIndex) LessThan(threshold float64) *roaring.Bitmap {
	return idx.halfRange(threshold, false, false)
}

// LessThanOrEqual returns documents whose key is <= threshold.
func (idx *OrderedIndex) LessThanOrEqual(threshold float64) *roaring.Bitmap {
	return idx.halfRange(threshold, true, false)
}

func (idx *OrderedIndex) halfRange(threshold float64, inclusive, ascending bool) *roaring.Bitmap {
	out := roaring.New()
	if ascending {
		start := sort.SearchFloat64s(idx.keys, threshold)
		for i := start; i < len(idx.keys); i++ {
			k := idx.keys[i]
			if k == threshold && !inclusive {
				continue
			}
			out.Or(idx.buckets[k])
		}
		return out
	}
	end := sort.SearchFloat64s(idx.keys, threshold)
	for i := 0; i < end; i++ {
		out.Or(idx.buckets[idx.keys[i]])
	}
	if inclusive {
		if bm, ok := idx.buckets[threshold]; ok {
			out.Or(bm)
		}
	}
	return out
}
