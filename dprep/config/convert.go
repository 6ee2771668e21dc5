package config

import (
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/dialogue"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/normalize"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/pipeline"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/tokenizer"
)

func (c *Config) TokenizerConfig() tokenizer.Config {
	return tokenizer.Config{
		Kind:      c.Tokenizer.Kind,
		Path:      c.Tokenizer.Path,
		PadToken:  c.Tokenizer.PadToken,
		MaskToken: c.Tokenizer.MaskToken,
		EOSToken:  c.Tokenizer.EOSToken,
		UnkToken:  c.Tokenizer.UnkToken,
	}
}

func (c *Config) NormalizeOptions() normalize.Options {
	return normalize.Options{ComposeNFC: c.Normalize.NFC}
}

func (c *Config) JoinOptions() dialogue.JoinOptions {
	return dialogue.JoinOptions{
		Separator:   c.Data.Separator,
		TopicPrefix: c.Data.TopicPrefix,
	}
}

func (c *Config) BuildOptions() pipeline.BuildOptions {
	return pipeline.BuildOptions{
		Mode:             pipeline.Mode(c.Pipeline.Mode),
		MaxLen:           c.Sequence.MaxLen,
		IgnoreIndex:      c.Sequence.IgnoreIndex,
		MaskingRate:      c.Sequence.MaskingRate,
		DecoderStart:     c.Tokenizer.DecoderStart,
		NormalizeSummary: c.Normalize.Summary,
	}
}

func (c *Config) RunOptions() pipeline.RunOptions {
	return pipeline.RunOptions{
		Workers: c.Pipeline.Workers,
		OnError: pipeline.ErrorPolicy(c.Pipeline.OnError),
		Seed:    c.Sequence.Seed,
	}
}
