// Package stringquery implements the compact string query language: a
// lexer/parser producing a flat, ordered list of query atoms, a
// simplification pass collapsing duplicates and self-cancelling
// negations, and a rewriter turning the simplified atoms into a
// model.TreeQuery.
package stringquery

import "strings"

// sanitize strips any character outside the grammar's allowed set,
// mirroring "unrecognized punctuation is stripped before parsing."
func sanitize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case strings.ContainsRune(",!?^*:-'\"<>=[] _.", r):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// splitPieces splits sanitized on whitespace, treating a single- or
// double-quoted run (which may itself contain spaces) as one piece.
func splitPieces(sanitized string) []string {
	var pieces []string
	var cur strings.Builder
	var quote byte
	flush := func() {
		if cur.Len() > 0 {
			pieces = append(pieces, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(sanitized); i++ {
		c := sanitized[i]
		if quote != 0 {
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case ' ', '\t', '\n', '\r':
			flush()
		case '\'', '"':
			quote = c
			cur.WriteByte(c)
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return pieces
}
