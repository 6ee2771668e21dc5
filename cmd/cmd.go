// Package cmd implements the dprep command line.
package cmd

import (
	"fmt"

	internal "github.com/ZanzyTHEbar/dialogue-prep/dprep"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/config"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/dialogue"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/normalize"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/pipeline"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/tokenizer"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func NewCLI() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   internal.DefaultAppName,
		Short: "Dialogue summarization data preparation",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
		},
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the config file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cobra.EnableCommandSorting = false

	rootCmd.AddCommand(
		NewPreprocessCmd(),
		NewStatsCmd(),
		NewInspectCmd(),
	)

	return rootCmd
}

// env bundles what every subcommand needs.
type env struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	level, _ := cmd.Flags().GetString("log-level")
	logger := internal.GetLoggerWithLevel(level)

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger}, nil
}

// loadExamples runs discovery, loading, joining and topic selection.
func (e *env) loadExamples(inputs []string) ([]dialogue.Example, error) {
	if len(inputs) == 0 {
		inputs = e.cfg.Data.Inputs
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no inputs: pass paths as arguments or set data.inputs")
	}

	files, err := dialogue.ExpandInputs(inputs, e.cfg.Data.Exclude)
	if err != nil {
		return nil, err
	}
	e.logger.Debug().Strs("files", files).Msg("discovered input files")

	dialogues, err := dialogue.NewLoader(e.logger).LoadFiles(files)
	if err != nil {
		return nil, err
	}
	examples := dialogue.Examples(dialogues, e.cfg.JoinOptions())

	cat, err := pipeline.Index(examples)
	if err != nil {
		return nil, err
	}
	selected := pipeline.SelectTopics(examples, cat, e.cfg.Data.Topics)
	e.logger.Info().
		Int("files", len(files)).
		Int("dialogues", len(examples)).
		Int("selected", len(selected)).
		Msg("corpus loaded")
	return selected, nil
}

func (e *env) newBuilder() (*pipeline.Builder, error) {
	tok, err := tokenizer.New(e.cfg.TokenizerConfig())
	if err != nil {
		return nil, err
	}
	return pipeline.NewBuilder(tok, normalize.New(e.cfg.NormalizeOptions()), e.cfg.BuildOptions())
}
