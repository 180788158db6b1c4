package gsi

import (
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// LineRef names one source line: the file it came from, its 1-based
// line number, and the document ordinal that owns it.
type LineRef struct {
	FileName string
	Line     int
	Doc      uint32
}

// TrigramIndex maps a 3-byte trigram to the lines containing it, plus
// a side table recovering the raw line text for highlighting — the
// line-level code search structure.
type TrigramIndex struct {
	trigramToLines map[string][]LineRef
	lineText       map[LineRef]string
	trigramDocs    map[string]*roaring.Bitmap
}

// NewTrigramIndex creates an empty TRIGRAM_CODE field index.
func NewTrigramIndex() *TrigramIndex {
	return &TrigramIndex{
		trigramToLines: make(map[string][]LineRef),
		lineText:       make(map[LineRef]string),
		trigramDocs:    make(map[string]*roaring.Bitmap),
	}
}

func trigrams(line string) []string {
	lower := strings.ToLower(line)
	if len(lower) < 3 {
		if lower == "" {
			return nil
		}
		return []string{lower}
	}
	out := make([]string, 0, len(lower)-2)
	for i := 0; i+3 <= len(lower); i++ {
		out = append(out, lower[i:i+3])
	}
	return out
}

// Add indexes fileContent line-by-line under ordinal and fileName.
func (idx *TrigramIndex) Add(ordinal uint32, fileName, fileContent string) {
	lines := strings.Split(fileContent, "\n")
	for i, line := range lines {
		ref := LineRef{FileName: fileName, Line: i + 1, Doc: ordinal}
		idx.lineText[ref] = line
		for _, tg := range trigrams(line) {
			idx.trigramToLines[tg] = append(idx.trigramToLines[tg], ref)
			bm, ok := idx.trigramDocs[tg]
			if !ok {
				bm = roaring.New()
				idx.trigramDocs[tg] = bm
			}
			bm.Add(ordinal)
		}
	}
}

// Remove drops every line previously indexed for ordinal/fileName.
func (idx *TrigramIndex) Remove(ordinal uint32, fileName, fileContent string) {
	lines := strings.Split(fileContent, "\n")
	for i, line := range lines {
		ref := LineRef{FileName: fileName, Line: i + 1, Doc: ordinal}
		delete(idx.lineText, ref)
		for _, tg := range trigrams(line) {
			refs := idx.trigramToLines[tg]
			for j, r := range refs {
				if r == ref {
					idx.trigramToLines[tg] = append(refs[:j], refs[j+1:]...)
					break
				}
			}
			if len(idx.trigramToLines[tg]) == 0 {
				delete(idx.trigramToLines, tg)
			}
			if bm, ok := idx.trigramDocs[tg]; ok {
				bm.Remove(ordinal)
				if bm.IsEmpty() {
					delete(idx.trigramDocs, tg)
				}
			}
		}
	}
}

// Search returns every line reference whose line contains query as a
// substring, found by intersecting the doc sets of query's trigrams
// before confirming the substring match on the surviving lines —
// the standard trigram-index code-search strategy.
func (idx *TrigramIndex) Search(query string) []LineRef {
	tgs := trigrams(query)
	if len(tgs) == 0 {
		return nil
	}

	candidateDocs := idx.trigramDocs[tgs[0]]
	if candidateDocs == nil {
		return nil
	}
	candidateDocs = candidateDocs.Clone()
	for _, tg := range tgs[1:] {
		bm, ok := idx.trigramDocs[tg]
		if !ok {
			return nil
		}
		candidateDocs.And(bm)
	}
	if candidateDocs.IsEmpty() {
		return nil
	}

	needle := strings.ToLower(query)
	seen := make(map[LineRef]struct{})
	var out []LineRef
	for _, ref := range idx.trigramToLines[tgs[0]] {
		if !candidateDocs.Contains(ref.Doc) {
			continue
		}
		if _, done := seen[ref]; done {
			continue
		}
		if strings.Contains(strings.ToLower(idx.lineText[ref]), needle) {
			seen[ref] = struct{}{}
			out = append(out, ref)
		}
	}
	return out
}

// DocsForRefs collapses a set of line references down to their
// owning document ordinals.
func DocsForRefs(refs []LineRef) *roaring.Bitmap {
	out := roaring.New()
	for _, r := range refs {
		out.Add(r.Doc)
	}
	return out
}

// LineText returns the raw text stored for ref.
func (idx *TrigramIndex) LineText(ref LineRef) (string, bool) {
	text, ok := idx.lineText[ref]
	return text, ok
}
