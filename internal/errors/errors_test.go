package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundErrorIs(t *testing.T) {
	err := NewNotFoundError("abc123")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "abc123")
}

func TestInvalidStrategyErrorIs(t *testing.T) {
	err := NewInvalidStrategyError("BOGUS")
	assert.True(t, errors.Is(err, ErrInvalidStrategy))
	assert.Contains(t, err.Error(), "BOGUS")
}

func TestParseErrorIs(t *testing.T) {
	err := NewParseError("sky -sky )(", "unbalanced parens")
	assert.True(t, errors.Is(err, ErrParse))
}

func TestScriptErrorIs(t *testing.T) {
	err := NewScriptError("(_score *", "unexpected end of expression")
	assert.True(t, errors.Is(err, ErrScript))
}

func TestQueryTooLargeErrorIs(t *testing.T) {
	err := NewQueryTooLargeError(25, 20)
	assert.True(t, errors.Is(err, ErrQueryTooLarge))
	assert.Contains(t, err.Error(), "25")
}
