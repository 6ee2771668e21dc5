package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewRecordError("a.json", 3, "missing summary", cause)
	err.ID = "dlg-1"

	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "a.json[3] (dlg-1): malformed dialogue record: missing summary: boom", err.Error())

	var re *RecordError
	assert.True(t, errors.As(error(err), &re))
	assert.Equal(t, 3, re.Index)
}

func TestRecordErrorWithoutLocation(t *testing.T) {
	err := NewRecordError("", -1, "empty", nil)
	assert.Equal(t, "malformed dialogue record: empty", err.Error())
}

func TestConfigAndTokenizationErrors(t *testing.T) {
	err := ConfigError("sequence.maxLen", "must be positive, got %d", 0)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "sequence.maxLen")

	assert.Nil(t, TokenizationError(nil, "x"))
	cause := errors.New("bad vocab")
	terr := TokenizationError(cause, "summary")
	assert.ErrorIs(t, terr, ErrTokenization)
	assert.ErrorIs(t, terr, cause)
}
