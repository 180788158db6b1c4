// Package tokenizer splits string field values on ASCII whitespace,
// preserving the original token positions, and produces lowercased
// variants for case-insensitive lookup.
package tokenizer

import "strings"

// Token is one whitespace-delimited piece of text together with the
// zero-based position it occupied in the token stream.
type Token struct {
	Text     string
	Lower    string
	Position int
}

// isASCIISpace reports whether r is one of the ASCII whitespace
// characters the tokenizer splits on.
func isASCIISpace(r byte) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// Tokenize splits text on ASCII whitespace, returning each token
// with its position in the stream and a lowercased variant.
func Tokenize(text string) []Token {
	tokens := make([]Token, 0)
	pos := 0
	start := -1
	for i := 0; i < len(text); i++ {
		if isASCIISpace(text[i]) {
			if start >= 0 {
				word := text[start:i]
				tokens = append(tokens, Token{Text: word, Lower: strings.ToLower(word), Position: pos})
				pos++
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		word := text[start:]
		tokens = append(tokens, Token{Text: word, Lower: strings.ToLower(word), Position: pos})
	}
	return tokens
}

// Words returns just the lowercased words, discarding position info —
// a convenience for callers that only need the token set.
func Words(text string) []string {
	toks := Tokenize(text)
	words := make([]string, len(toks))
	for i, t := range toks {
		words[i] = t.Lower
	}
	return words
}

// TokenCount reports how many whitespace-delimited tokens text
// contains, without allocating the token slice.
func TokenCount(text string) int {
	count := 0
	inWord := false
	for i := 0; i < len(text); i++ {
		if isASCIISpace(text[i]) {
			inWord = false
			continue
		}
		if !inWord {
			count++
			inWord = true
		}
	}
	return count
}
