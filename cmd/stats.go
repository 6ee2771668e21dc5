package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ZanzyTHEbar/dialogue-prep/dprep/catalog"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/pipeline"
	"github.com/ZanzyTHEbar/dialogue-prep/dprep/stats"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [PATH...]",
		Short: "Show token length and topic statistics for a corpus",
		RunE:  statsHandler,
	}
}

func statsHandler(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	examples, err := e.loadExamples(args)
	if err != nil {
		return err
	}
	builder, err := e.newBuilder()
	if err != nil {
		return err
	}
	lengths, err := builder.TokenLengths(examples)
	if err != nil {
		return err
	}
	cat, err := pipeline.Index(examples)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	renderLengths(out, stats.SummarizeLengths(lengths, e.cfg.Sequence.MaxLen))
	fmt.Fprintln(out)
	renderTopics(out, cat)
	return nil
}

func renderLengths(w io.Writer, s stats.LengthSummary) {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"DIALOGUES", "MEAN", "STDDEV", "MIN", "P50", "P90", "P99", "MAX", "TRUNCATED"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.Append([]string{
		strconv.Itoa(s.Count),
		f(s.Mean), f(s.StdDev), f(s.Min), f(s.P50), f(s.P90), f(s.P99), f(s.Max),
		fmt.Sprintf("%d (%.1f%% > %d)", s.Truncated, 100*s.TruncatedFraction(), s.MaxLen),
	})
	table.Render()
}

func renderTopics(w io.Writer, c *catalog.Catalog) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"TOPIC", "DIALOGUES"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	for _, topic := range c.Topics() {
		table.Append([]string{topic, strconv.Itoa(c.TopicCount(topic))})
	}
	table.Render()
}
