package gsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrigramIndexSearchFindsLine(t *testing.T) {
	idx := NewTrigramIndex()
	idx.Add(1, "main.go", "package main\nfunc main() {\n\tprintln(\"hello\")\n}\n")

	refs := idx.Search("println")
	assert.NotEmpty(t, refs)
	assert.Equal(t, "main.go", refs[0].FileName)
}

func TestTrigramIndexSearchNoMatch(t *testing.T) {
	idx := NewTrigramIndex()
	idx.Add(1, "main.go", "package main\n")
	assert.Empty(t, idx.Search("xyzxyz"))
}

func TestTrigramIndexRemove(t *testing.T) {
	idx := NewTrigramIndex()
	idx.Add(1, "main.go", "func main() {}\n")
	idx.Remove(1, "main.go", "func main() {}\n")
	assert.Empty(t, idx.Search("main"))
}

func TestDocsForRefs(t *testing.T) {
	refs := []LineRef{{FileName: "a.go", Line: 1, Doc: 1}, {FileName: "b.go", Line: 2, Doc: 2}}
	docs := DocsForRefs(refs)
	assert.True(t, docs.Contains(1))
	assert.True(t, docs.Contains(2))
}
