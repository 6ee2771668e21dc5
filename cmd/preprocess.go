package cmd

import (
	"fmt"

	"github.com/ZanzyTHEbar/dialogue-prep/dprep/pipeline"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/store"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"
)

func NewPreprocessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preprocess [PATH...]",
		Short: "Build model features from dialogue corpus files",
		Long: `Load dialogue corpus files, flatten and normalize each dialogue, tokenize it and write
fixed-length model features to JSON lines and/or the feature store.`,
		RunE: preprocessHandler,
	}
	cmd.Flags().StringP("out", "o", "", "JSON lines output path (overrides output.jsonl)")
	cmd.Flags().String("store", "", "Feature store path (overrides output.store)")
	return cmd
}

func preprocessHandler(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		e.cfg.Output.JSONL = out
	}
	if dsn, _ := cmd.Flags().GetString("store"); dsn != "" {
		e.cfg.Output.Store = dsn
	}
	if e.cfg.Output.JSONL == "" && e.cfg.Output.Store == "" {
		return fmt.Errorf("no output configured: set --out or --store")
	}

	examples, err := e.loadExamples(args)
	if err != nil {
		return err
	}
	builder, err := e.newBuilder()
	if err != nil {
		return err
	}
	runner, err := pipeline.NewRunner(builder, e.cfg.RunOptions(), e.logger)
	if err != nil {
		return err
	}

	res, err := runner.Run(cmd.Context(), examples)
	if err != nil {
		return err
	}

	if path := e.cfg.Output.JSONL; path != "" {
		if err := pipeline.WriteJSONLFile(path, res.Features); err != nil {
			return err
		}
		e.logger.Info().Str("path", path).Int("features", len(res.Features)).Msg("wrote features")
	}

	if dsn := e.cfg.Output.Store; dsn != "" {
		s, err := store.Open(dsn, e.logger)
		if err != nil {
			return err
		}
		defer s.Close()

		snapshot, err := json.Marshal(e.cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		run, err := s.CreateRun(cmd.Context(), e.cfg.Pipeline.Mode, e.cfg.Sequence.MaxLen, string(snapshot))
		if err != nil {
			return err
		}
		if err := s.InsertFeatures(cmd.Context(), run.ID, pipeline.ToRecords(res.Features)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d features stored, %d skipped\n", run.ID, len(res.Features), res.Skipped)
	}
	return nil
}
