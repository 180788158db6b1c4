package gsi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func vals(vs ...interface{}) []interface{} { return vs }

func TestInferStrategyFlatForLists(t *testing.T) {
	assert.Equal(t, Flat, InferStrategy("genres", vals([]interface{}{"pop"}, []interface{}{"rock"})))
}

func TestInferStrategyFlatForBooleans(t *testing.T) {
	assert.Equal(t, Flat, InferStrategy("explicit", vals(true, false, true)))
}

func TestInferStrategyNumericForIntegers(t *testing.T) {
	assert.Equal(t, Numeric, InferStrategy("listens", vals(float64(200), float64(300))))
}

func TestInferStrategyNumericForDigitStrings(t *testing.T) {
	assert.Equal(t, Numeric, InferStrategy("year", vals("1989", "2020")))
}

func TestInferStrategyDateForYMD(t *testing.T) {
	assert.Equal(t, Date, InferStrategy("released", vals("2020-8-14", "1989-10-27")))
}

func TestInferStrategyContainsForMultiWordText(t *testing.T) {
	assert.Equal(t, Contains, InferStrategy("lyric", vals("my mural of you", "sky above the wake")))
}

func TestInferStrategyPrefixForShortStrings(t *testing.T) {
	assert.Equal(t, Prefix, InferStrategy("genre", vals("pop", "indie", "folk")))
}

func TestInferStrategyTrigramForFileName(t *testing.T) {
	assert.Equal(t, TrigramCode, InferStrategy("file_name", vals("internal/very/long/path/to/module.go")))
}

func TestInferStrategyNotIndexableForNestedMaps(t *testing.T) {
	assert.Equal(t, NotIndexable, InferStrategy("meta", vals(map[string]interface{}{"a": 1})))
}

func TestInferStrategyFlatFallback(t *testing.T) {
	assert.Equal(t, Flat, InferStrategy("mixed", nil))
}

func TestInferStrategyFirstRuleWins(t *testing.T) {
	// Title values are short strings AND lists; lists must win (rule 1).
	assert.Equal(t, Flat, InferStrategy("title", vals([]interface{}{"a"})))
}
