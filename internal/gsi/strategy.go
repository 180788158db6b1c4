// Package gsi implements the Global Secondary Index: one per-field
// secondary structure, picked by inference or by explicit request,
// from the five strategies the data model defines.
package gsi

import (
	"strconv"
	"strings"
)

// Strategy names one of the five field-index container types, plus
// the NOT_INDEXABLE placeholder for nested mappings.
type Strategy string

const (
	Contains     Strategy = "CONTAINS"
	Prefix       Strategy = "PREFIX"
	Flat         Strategy = "FLAT"
	Numeric      Strategy = "NUMERIC"
	Date         Strategy = "DATE"
	TrigramCode  Strategy = "TRIGRAM_CODE"
	NotIndexable Strategy = "NOT_INDEXABLE"
)

// ValidStrategies lists every name create_gsi will accept explicitly.
var ValidStrategies = map[Strategy]struct{}{
	Contains: {}, Prefix: {}, Flat: {}, Numeric: {}, Date: {}, TrigramCode: {}, NotIndexable: {},
}

// inferenceSampleSize bounds how many values field-strategy inference
// examines for the integer/date rules, per the data model's "first 25"
// wording.
const inferenceSampleSize = 25

// multiWordAverageTokens is the average-token-count threshold above
// which string values are considered multi-word text (CONTAINS)
// rather than a short categorical string (PREFIX).
const multiWordAverageTokens = 1.0

// shortStringAverageLength is the average-character-length threshold
// below which string values are considered short enough for a prefix
// trie.
const shortStringAverageLength = 10.0

// InferStrategy selects a strategy for fieldName given a sample of
// its observed raw values (un-exploded: a list value appears once,
// as a []interface{}), applying the first matching rule.
func InferStrategy(fieldName string, values []interface{}) Strategy {
	if len(values) == 0 {
		return Flat
	}

	if allLists(values) {
		return Flat
	}
	if allBooleans(values) {
		return Flat
	}
	if allIntegerish(sample(values, inferenceSampleSize)) {
		return Numeric
	}
	if allFloats(values) {
		return Numeric
	}
	if allDateish(sample(values, inferenceSampleSize)) {
		return Date
	}
	if allStrings(values) && averageTokenCount(values) > multiWordAverageTokens {
		return Contains
	}
	if allStrings(values) && averageLength(values) < shortStringAverageLength {
		return Prefix
	}
	if fieldName == "file_name" {
		return TrigramCode
	}
	if allNestedMaps(values) {
		return NotIndexable
	}
	return Flat
}

func sample(values []interface{}, n int) []interface{} {
	if len(values) <= n {
		return values
	}
	return values[:n]
}

func allLists(values []interface{}) bool {
	for _, v := range values {
		switch v.(type) {
		case []interface{}, []string:
		default:
			return false
		}
	}
	return true
}

func allBooleans(values []interface{}) bool {
	for _, v := range values {
		if _, ok := v.(bool); !ok {
			return false
		}
	}
	return true
}

func allIntegerish(values []interface{}) bool {
	for _, v := range values {
		switch val := v.(type) {
		case int, int32, int64:
		case float64:
			if val != float64(int64(val)) {
				return false
			}
		case string:
			if !isDigitsOnly(val) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func isDigitsOnly(s string) bool {
	if s == "" {
		return false
	}
	start := 0
	if s[0] == '-' {
		start = 1
	}
	if start == len(s) {
		return false
	}
	for i := start; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func allFloats(values []interface{}) bool {
	for _, v := range values {
		if _, ok := v.(float64); !ok {
			return false
		}
	}
	return true
}

func allDateish(values []interface{}) bool {
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return false
		}
		parts := strings.Split(s, "-")
		if len(parts) != 3 {
			return false
		}
		for _, p := range parts {
			if _, err := strconv.Atoi(p); err != nil {
				return false
			}
		}
	}
	return true
}

func allStrings(values []interface{}) bool {
	for _, v := range values {
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return true
}

func averageTokenCount(values []interface{}) float64 {
	total := 0
	for _, v := range values {
		s, _ := v.(string)
		total += countWhitespaceTokens(s)
	}
	if len(values) == 0 {
		return 0
	}
	return float64(total) / float64(len(values))
}

func countWhitespaceTokens(s string) int {
	count := 0
	inWord := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			inWord = false
		default:
			if !inWord {
				count++
				inWord = true
			}
		}
	}
	return count
}

func averageLength(values []interface{}) float64 {
	total := 0
	for _, v := range values {
		s, _ := v.(string)
		total += len(s)
	}
	if len(values) == 0 {
		return 0
	}
	return float64(total) / float64(len(values))
}

func allNestedMaps(values []interface{}) bool {
	for _, v := range values {
		if _, ok := v.(map[string]interface{}); !ok {
			return false
		}
	}
	return true
}
