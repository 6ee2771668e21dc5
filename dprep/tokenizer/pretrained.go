package tokenizer

import (
	"fmt"

	"github.com/ZanzyTHEbar/dialogue-prep/dprep/common"

	tk "github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// Pretrained wraps a HuggingFace tokenizer.json loaded through sugarme/tokenizer
type Pretrained struct {
	t      *tk.Tokenizer
	padID  int
	maskID int
	eosID  int
}

// NewPretrained loads cfg.Path as a tokenizer.json and resolves the special token ids
func NewPretrained(cfg Config) (*Pretrained, error) {
	t, err := pretrained.FromFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokenizer %s: %w", cfg.Path, err)
	}

	// padding and truncation belong to the sequence builders
	t.WithTruncation(nil)
	t.WithPadding(nil)

	p := &Pretrained{t: t}
	for _, st := range []struct {
		token string
		dst   *int
	}{
		{cfg.PadToken, &p.padID},
		{cfg.MaskToken, &p.maskID},
		{cfg.EOSToken, &p.eosID},
	} {
		id, ok := t.TokenToId(st.token)
		if !ok {
			return nil, fmt.Errorf("%w: special token %q not in vocabulary of %s", ErrUnsupported, st.token, cfg.Path)
		}
		*st.dst = id
	}
	return p, nil
}

func (p *Pretrained) Encode(text string, addSpecialTokens bool) ([]int, error) {
	enc, err := p.t.Encode(tk.NewSingleEncodeInput(tk.NewInputSequence(text)), addSpecialTokens)
	if err != nil {
		return nil, common.TokenizationError(err, "encode")
	}
	uids := enc.GetIds()
	ids := make([]int, len(uids))
	copy(ids, uids)
	return ids, nil
}

func (p *Pretrained) PadTokenID() int  { return p.padID }
func (p *Pretrained) MaskTokenID() int { return p.maskID }
func (p *Pretrained) EOSTokenID() int  { return p.eosID }
