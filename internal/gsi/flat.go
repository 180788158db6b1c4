package gsi

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

// FlatIndex is a multimap from a scalar value (or, for list fields,
// each member of the list) to the set of documents carrying it —
// used for categorical and boolean fields.
type FlatIndex struct {
	buckets map[string]*roaring.Bitmap
}

// NewFlatIndex creates an empty FLAT field index.
func NewFlatIndex() *FlatIndex {
	return &FlatIndex{buckets: make(map[string]*roaring.Bitmap)}
}

// FlatKey canonicalizes a scalar value into the bucket key used by
// both indexing and lookup.
func FlatKey(v interface{}) string {
	switch val := v.(type) {
	case string:
		return "s:" + val
	case bool:
		if val {
			return "b:true"
		}
		return "b:false"
	case float64:
		return fmt.Sprintf("f:%g", val)
	case int:
		return fmt.Sprintf("f:%g", float64(val))
	default:
		return fmt.Sprintf("?:%v", val)
	}
}

// Add inserts ordinal under value's bucket. If value is a list, the
// caller is expected to call Add once per list member.
func (idx *FlatIndex) Add(ordinal uint32, value interface{}) {
	key := FlatKey(value)
	bm, ok := idx.buckets[key]
	if !ok {
		bm = roaring.New()
		idx.buckets[key] = bm
	}
	bm.Add(ordinal)
}

// Remove undoes a prior Add.
func (idx *FlatIndex) Remove(ordinal uint32, value interface{}) {
	key := FlatKey(value)
	if bm, ok := idx.buckets[key]; ok {
		bm.Remove(ordinal)
		if bm.IsEmpty() {
			delete(idx.buckets, key)
		}
	}
}

// Equals returns the documents carrying value.
func (idx *FlatIndex) Equals(value interface{}) *roaring.Bitmap {
	if bm, ok := idx.buckets[FlatKey(value)]; ok {
		return bm.Clone()
	}
	return roaring.New()
}
