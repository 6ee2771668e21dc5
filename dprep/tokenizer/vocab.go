package tokenizer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Vocab is a whitespace tokenizer over a one-token-per-line vocabulary.
// Line order gives the id. Unknown words map to the unk token.
// With addSpecialTokens the EOS id is appended, the way seq2seq tokenizers close a target.
type Vocab struct {
	vocab  map[string]int
	unkID  int
	padID  int
	maskID int
	eosID  int
}

// LoadVocab reads cfg.Path and resolves the special tokens named in cfg
func LoadVocab(cfg Config) (*Vocab, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewVocab(f, cfg)
}

// NewVocab builds a Vocab from r
func NewVocab(r io.Reader, cfg Config) (*Vocab, error) {
	vocab := make(map[string]int, 1024)
	idx := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		tok := strings.TrimSpace(scanner.Text())
		if tok == "" {
			continue
		}
		if _, dup := vocab[tok]; !dup {
			vocab[tok] = idx
		}
		idx++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	v := &Vocab{vocab: vocab}
	for _, st := range []struct {
		token string
		dst   *int
	}{
		{cfg.UnkToken, &v.unkID},
		{cfg.PadToken, &v.padID},
		{cfg.MaskToken, &v.maskID},
		{cfg.EOSToken, &v.eosID},
	} {
		id, ok := vocab[st.token]
		if !ok {
			return nil, fmt.Errorf("%w: special token %q not in vocabulary", ErrUnsupported, st.token)
		}
		*st.dst = id
	}
	return v, nil
}

func (v *Vocab) Encode(text string, addSpecialTokens bool) ([]int, error) {
	words := strings.Fields(text)
	ids := make([]int, 0, len(words)+1)
	for _, w := range words {
		id, ok := v.vocab[w]
		if !ok {
			id = v.unkID
		}
		ids = append(ids, id)
	}
	if addSpecialTokens {
		ids = append(ids, v.eosID)
	}
	return ids, nil
}

// Size returns the number of distinct tokens
func (v *Vocab) Size() int { return len(v.vocab) }

func (v *Vocab) PadTokenID() int  { return v.padID }
func (v *Vocab) MaskTokenID() int { return v.maskID }
func (v *Vocab) EOSTokenID() int  { return v.eosID }
