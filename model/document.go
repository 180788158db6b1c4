// Package model holds the cross-cutting document, doc-id, query, and
// result types shared by every engine package.
package model

// Document is a flexible map representing an indexed record.
// Values are one of: string, float64, bool, time.Time, []interface{}
// (a list of scalars), or map[string]interface{} (a nested, non-
// indexable mapping).
type Document map[string]interface{}

// Clone returns a shallow copy of the document, safe to store
// independently of the caller's map.
func (d Document) Clone() Document {
	cloned := make(Document, len(d))
	for k, v := range d {
		cloned[k] = v
	}
	return cloned
}

// StringValues normalizes a field value into its constituent text
// pieces: a bare string is one piece, a list contributes one piece
// per string element, anything else contributes nothing.
func StringValues(v interface{}) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return val
	default:
		return nil
	}
}

// IsList reports whether v was supplied as a list value.
func IsList(v interface{}) bool {
	switch v.(type) {
	case []interface{}, []string:
		return true
	default:
		return false
	}
}
