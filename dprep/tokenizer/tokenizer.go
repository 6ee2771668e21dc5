package tokenizer

import (
	"fmt"
	"strings"
)

// Tokenizer converts text into token ids and exposes the special ids the sequence builders need.
type Tokenizer interface {
	Encode(text string, addSpecialTokens bool) ([]int, error)
	PadTokenID() int
	MaskTokenID() int
	EOSTokenID() int
}

// Config holds tokenizer settings
type Config struct {
	Kind      string // "pretrained" (tokenizer.json) or "vocab" (one token per line)
	Path      string
	PadToken  string
	MaskToken string
	EOSToken  string
	UnkToken  string
}

// ErrUnsupported indicates the tokenizer could not be initialized
var ErrUnsupported = fmt.Errorf("unsupported tokenizer configuration")

// New selects a tokenizer implementation by cfg.Kind.
func New(cfg Config) (Tokenizer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "pretrained", "huggingface", "hf", "":
		t, err := NewPretrained(cfg)
		if err != nil {
			return nil, err
		}
		return t, nil
	case "vocab", "whitespace":
		t, err := LoadVocab(cfg)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrUnsupported, cfg.Kind)
	}
}
