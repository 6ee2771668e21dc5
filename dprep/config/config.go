package config

import (
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/ZanzyTHEbar/dialogue-prep/dprep"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/common"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/sequence"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Normalize NormalizeConfig `mapstructure:"normalize"`
	Tokenizer TokenizerConfig `mapstructure:"tokenizer"`
	Sequence  SequenceConfig  `mapstructure:"sequence"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Output    OutputConfig    `mapstructure:"output"`
}

// DataConfig describes where the corpus comes from and how turns are joined.
type DataConfig struct {
	Inputs      []string `mapstructure:"inputs"`
	Exclude     []string `mapstructure:"exclude"`
	Separator   string   `mapstructure:"separator"`
	TopicPrefix bool     `mapstructure:"topicPrefix"`
	Topics      []string `mapstructure:"topics"`
}

// NormalizeConfig stores text cleaning switches.
type NormalizeConfig struct {
	NFC     bool `mapstructure:"nfc"`
	Summary bool `mapstructure:"summary"`
}

// TokenizerConfig names the tokenizer and its special tokens.
type TokenizerConfig struct {
	Kind         string `mapstructure:"kind"`
	Path         string `mapstructure:"path"`
	PadToken     string `mapstructure:"padToken"`
	MaskToken    string `mapstructure:"maskToken"`
	EOSToken     string `mapstructure:"eosToken"`
	UnkToken     string `mapstructure:"unkToken"`
	DecoderStart string `mapstructure:"decoderStart"`
}

// SequenceConfig stores the fixed-length array settings.
type SequenceConfig struct {
	MaxLen      int     `mapstructure:"maxLen"`
	IgnoreIndex int     `mapstructure:"ignoreIndex"`
	MaskingRate float64 `mapstructure:"maskingRate"`
	Seed        uint64  `mapstructure:"seed"`
}

// PipelineConfig stores execution settings.
type PipelineConfig struct {
	Mode    string `mapstructure:"mode"`
	Workers int    `mapstructure:"workers"`
	OnError string `mapstructure:"onError"`
}

// OutputConfig names the sinks. Empty values disable a sink.
type OutputConfig struct {
	JSONL string `mapstructure:"jsonl"`
	Store string `mapstructure:"store"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("..")
		v.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix(internal.DefaultEnvPrefix)
	v.AutomaticEnv()                                   // DPREP_SEQUENCE_MAXLEN etc.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // sequence.maxLen becomes SEQUENCE_MAXLEN

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.inputs", []string{})
	v.SetDefault("data.exclude", []string{})
	v.SetDefault("data.separator", internal.DefaultSeparator)
	v.SetDefault("data.topicPrefix", false)
	v.SetDefault("data.topics", []string{})

	v.SetDefault("normalize.nfc", false)
	v.SetDefault("normalize.summary", false)

	v.SetDefault("tokenizer.kind", "pretrained")
	v.SetDefault("tokenizer.path", "tokenizer.json")
	v.SetDefault("tokenizer.padToken", "<pad>")
	v.SetDefault("tokenizer.maskToken", "<mask>")
	v.SetDefault("tokenizer.eosToken", "</s>")
	v.SetDefault("tokenizer.unkToken", "<unk>")
	v.SetDefault("tokenizer.decoderStart", internal.DefaultStartText)

	v.SetDefault("sequence.maxLen", internal.DefaultMaxLen)
	v.SetDefault("sequence.ignoreIndex", internal.DefaultIgnoreIndex)
	v.SetDefault("sequence.maskingRate", internal.DefaultMaskingRate)
	v.SetDefault("sequence.seed", 0)

	v.SetDefault("pipeline.mode", "summarization")
	v.SetDefault("pipeline.workers", 0)
	v.SetDefault("pipeline.onError", "fail")

	v.SetDefault("output.jsonl", "")
	v.SetDefault("output.store", "")
}

// Validate checks values that would otherwise fail deep inside the pipeline.
func (c *Config) Validate() error {
	if err := sequence.ValidateMaxLen(c.Sequence.MaxLen); err != nil {
		return fmt.Errorf("sequence: %w", err)
	}
	if err := sequence.ValidateMaskingRate(c.Sequence.MaskingRate); err != nil {
		return fmt.Errorf("sequence: %w", err)
	}
	switch c.Pipeline.Mode {
	case "summarization", "denoising":
	default:
		return common.ConfigError("pipeline.mode", "must be summarization or denoising, got %q", c.Pipeline.Mode)
	}
	switch c.Pipeline.OnError {
	case "fail", "skip":
	default:
		return common.ConfigError("pipeline.onError", "must be fail or skip, got %q", c.Pipeline.OnError)
	}
	if c.Pipeline.Workers < 0 {
		return common.ConfigError("pipeline.workers", "must not be negative, got %d", c.Pipeline.Workers)
	}
	if strings.TrimSpace(c.Tokenizer.Path) == "" {
		return common.ConfigError("tokenizer.path", "cannot be empty")
	}
	return nil
}
