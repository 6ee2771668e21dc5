package common

import (
	"errors"
	"fmt"
)

// Error categories used across dprep packages
var (
	ErrMalformedRecord = errors.New("malformed dialogue record")
	ErrConfiguration   = errors.New("invalid configuration")
	ErrTokenization    = errors.New("tokenization failed")
	ErrLabelAlignment  = errors.New("masked labels are shorter than the corrupted sequence")
)

// RecordError describes a dialogue record that could not be loaded or turned into features.
// It unwraps to ErrMalformedRecord.
type RecordError struct {
	Source string // file the record came from, may be empty
	Index  int    // position of the record inside data[], -1 if unknown
	ID     string // dialogue id when it could be read
	Reason string
	Err    error
}

func (e *RecordError) Error() string {
	loc := e.Source
	if e.Index >= 0 {
		loc = fmt.Sprintf("%s[%d]", loc, e.Index)
	}
	if e.ID != "" {
		loc = fmt.Sprintf("%s (%s)", loc, e.ID)
	}
	msg := fmt.Sprintf("%s: %s", ErrMalformedRecord, e.Reason)
	if loc != "" {
		msg = fmt.Sprintf("%s: %s", loc, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RecordError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedRecord, e.Err}
	}
	return []error{ErrMalformedRecord}
}

// NewRecordError builds a RecordError for the record at index in source
func NewRecordError(source string, index int, reason string, err error) *RecordError {
	return &RecordError{Source: source, Index: index, Reason: reason, Err: err}
}

// ConfigError wraps a configuration problem with the offending key
func ConfigError(key string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrConfiguration, key, fmt.Sprintf(format, args...))
}

// TokenizationError wraps a tokenizer failure with the text being encoded
func TokenizationError(err error, what string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrTokenization, what, err)
}
