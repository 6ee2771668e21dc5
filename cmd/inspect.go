package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	internal "github.com/ZanzyTHEbar/dialogue-prep/dprep"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/store"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [RUN_ID [DIALOGUE_ID]]",
		Short: "List stored runs or show the features of one dialogue",
		Args:  cobra.MaximumNArgs(2),
		RunE:  inspectHandler,
	}
	cmd.Flags().String("store", "", "Feature store path (overrides output.store)")
	return cmd
}

func inspectHandler(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	dsn, _ := cmd.Flags().GetString("store")
	if dsn == "" {
		dsn = e.cfg.Output.Store
	}
	if dsn == "" {
		dsn = internal.DefaultStorePath
	}

	s, err := store.Open(dsn, e.logger)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	switch len(args) {
	case 0:
		runs, err := s.ListRuns(cmd.Context())
		if err != nil {
			return err
		}
		data := make([][]string, 0, len(runs))
		for _, r := range runs {
			n, err := s.CountFeatures(cmd.Context(), r.ID)
			if err != nil {
				return err
			}
			data = append(data, []string{r.ID.String(), r.CreatedAt.Format(time.RFC3339), r.Mode, strconv.Itoa(r.MaxLen), strconv.Itoa(n)})
		}
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"RUN", "CREATED", "MODE", "MAX LEN", "FEATURES"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetHeaderLine(false)
		table.SetBorder(false)
		table.SetNoWhiteSpace(true)
		table.SetTablePadding("    ")
		table.AppendBulk(data)
		table.Render()
		return nil

	case 1:
		runID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid run id %q: %w", args[0], err)
		}
		n, err := s.CountFeatures(cmd.Context(), runID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "run %s: %d features\n", runID, n)
		return nil

	default:
		runID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid run id %q: %w", args[0], err)
		}
		rec, err := s.GetFeatures(cmd.Context(), runID, args[1])
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("no features for dialogue %q in run %s", args[1], runID)
		}
		if err != nil {
			return err
		}
		renderRecord(out, rec)
		return nil
	}
}

func renderRecord(w io.Writer, rec *store.Record) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"FIELD", "LEN", "VALUES"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	for _, row := range []struct {
		name string
		ids  []int
	}{
		{"input_ids", rec.InputIDs},
		{"attention_mask", rec.AttentionMask},
		{"decoder_input_ids", rec.DecoderInputIDs},
		{"decoder_attention_mask", rec.DecoderAttentionMask},
		{"labels", rec.Labels},
	} {
		table.Append([]string{row.name, strconv.Itoa(len(row.ids)), fmt.Sprint(row.ids)})
	}
	table.Render()
}
