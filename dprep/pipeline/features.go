// Package pipeline turns dialogue examples into fixed-length model features.
package pipeline

import (
	"fmt"
	"math/rand/v2"

	"github.com/ZanzyTHEbar/dialogue-prep/dprep/common"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/dialogue"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/normalize"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/sequence"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/tokenizer"
)

// Mode selects how features are built.
type Mode string

const (
	// ModeSummarization encodes dialogue -> summary pairs.
	ModeSummarization Mode = "summarization"
	// ModeDenoising masks the dialogue and asks the decoder to recover the masked tokens.
	ModeDenoising Mode = "denoising"
)

// Features is the model-ready mapping for one example.
type Features struct {
	ID                   string `json:"id"`
	InputIDs             []int  `json:"input_ids"`
	AttentionMask        []int  `json:"attention_mask"`
	DecoderInputIDs      []int  `json:"decoder_input_ids"`
	DecoderAttentionMask []int  `json:"decoder_attention_mask"`
	Labels               []int  `json:"labels"`
}

// BuildOptions configures a Builder.
type BuildOptions struct {
	Mode             Mode
	MaxLen           int
	IgnoreIndex      int
	MaskingRate      float64
	DecoderStart     string
	NormalizeSummary bool
}

// Validate checks the options
func (o BuildOptions) Validate() error {
	switch o.Mode {
	case ModeSummarization, ModeDenoising:
	default:
		return common.ConfigError("pipeline.mode", "unknown mode %q", o.Mode)
	}
	if err := sequence.ValidateMaxLen(o.MaxLen); err != nil {
		return err
	}
	return sequence.ValidateMaskingRate(o.MaskingRate)
}

// Builder builds Features for single examples. It is safe for concurrent use as long as the
// tokenizer is.
type Builder struct {
	tok      tokenizer.Tokenizer
	norm     *normalize.Normalizer
	opts     BuildOptions
	startIDs []int
}

// NewBuilder validates opts and encodes the decoder start text once.
func NewBuilder(tok tokenizer.Tokenizer, norm *normalize.Normalizer, opts BuildOptions) (*Builder, error) {
	if tok == nil {
		return nil, common.ConfigError("tokenizer", "no tokenizer configured")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if norm == nil {
		norm = normalize.New(normalize.Options{})
	}

	var startIDs []int
	if opts.DecoderStart != "" {
		ids, err := tok.Encode(opts.DecoderStart, false)
		if err != nil {
			return nil, common.TokenizationError(err, "decoder start")
		}
		startIDs = ids
	}
	return &Builder{tok: tok, norm: norm, opts: opts, startIDs: startIDs}, nil
}

// Options returns the builder's options
func (b *Builder) Options() BuildOptions { return b.opts }

// Build produces the features of ex. rng drives masking in denoising mode and may be nil in
// summarization mode.
func (b *Builder) Build(ex dialogue.Example, rng *rand.Rand) (*Features, error) {
	textIDs, err := b.tok.Encode(b.norm.Normalize(ex.Text), false)
	if err != nil {
		return nil, fmt.Errorf("example %s: %w", ex.ID, common.TokenizationError(err, "dialogue"))
	}

	switch b.opts.Mode {
	case ModeDenoising:
		return b.buildDenoising(ex, textIDs, rng)
	default:
		return b.buildSummarization(ex, textIDs)
	}
}

func (b *Builder) buildSummarization(ex dialogue.Example, textIDs []int) (*Features, error) {
	if !ex.HasSummary {
		re := common.NewRecordError(ex.Source, ex.Index, "missing summary", nil)
		re.ID = ex.ID
		return nil, re
	}
	summary := ex.Summary
	if b.opts.NormalizeSummary {
		summary = b.norm.Normalize(summary)
	}
	labelIDs, err := b.tok.Encode(summary, true)
	if err != nil {
		return nil, fmt.Errorf("example %s: %w", ex.ID, common.TokenizationError(err, "summary"))
	}

	pad := b.tok.PadTokenID()
	input := sequence.Pad(textIDs, b.opts.MaxLen, pad)
	decoder := sequence.Pad(b.withStart(labelIDs), b.opts.MaxLen, pad)
	return &Features{
		ID:                   ex.ID,
		InputIDs:             input,
		AttentionMask:        sequence.AttentionMask(input, pad),
		DecoderInputIDs:      decoder,
		DecoderAttentionMask: sequence.AttentionMask(decoder, pad),
		Labels:               sequence.IgnoreLabels(labelIDs, b.opts.MaxLen, b.opts.IgnoreIndex),
	}, nil
}

func (b *Builder) buildDenoising(ex dialogue.Example, textIDs []int, rng *rand.Rand) (*Features, error) {
	if rng == nil {
		return nil, fmt.Errorf("example %s: denoising requires a random source", ex.ID)
	}
	pad, mask := b.tok.PadTokenID(), b.tok.MaskTokenID()

	input, err := sequence.MaskAndPad(textIDs, b.opts.MaskingRate, b.opts.MaxLen, mask, pad, rng)
	if err != nil {
		return nil, err
	}
	labels, err := sequence.IgnoreLabelsMasked(textIDs, input, b.opts.MaxLen, b.opts.IgnoreIndex, pad, mask, b.tok.EOSTokenID())
	if err != nil {
		return nil, fmt.Errorf("example %s: %w", ex.ID, err)
	}

	decoder := sequence.Pad(b.withStart(textIDs), b.opts.MaxLen, pad)
	return &Features{
		ID:                   ex.ID,
		InputIDs:             input,
		AttentionMask:        sequence.AttentionMask(input, pad),
		DecoderInputIDs:      decoder,
		DecoderAttentionMask: sequence.AttentionMask(decoder, pad),
		Labels:               labels,
	}, nil
}

func (b *Builder) withStart(ids []int) []int {
	out := make([]int, 0, len(b.startIDs)+len(ids))
	out = append(out, b.startIDs...)
	return append(out, ids...)
}

// TokenLengths encodes every example's normalized text and returns the token counts.
func (b *Builder) TokenLengths(examples []dialogue.Example) ([]int, error) {
	out := make([]int, len(examples))
	for i, ex := range examples {
		ids, err := b.tok.Encode(b.norm.Normalize(ex.Text), false)
		if err != nil {
			return nil, fmt.Errorf("example %s: %w", ex.ID, common.TokenizationError(err, "dialogue"))
		}
		out[i] = len(ids)
	}
	return out, nil
}
