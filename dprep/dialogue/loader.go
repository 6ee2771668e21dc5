// Package dialogue loads dialogue-summarization corpora and flattens them into text examples.
package dialogue

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/dialogue-prep/dprep/common"

	"github.com/rs/zerolog"
	"github.com/segmentio/encoding/json"
)

type envelope struct {
	Data *[]json.RawMessage `json:"data"`
}

// Loader reads corpus files of the form {"data": [record, ...]}.
type Loader struct {
	logger zerolog.Logger
}

// NewLoader creates a Loader that reports progress on logger
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{logger: logger.With().Str("component", "loader").Logger()}
}

// LoadFile loads every record in the file at path.
func (l *Loader) LoadFile(path string) ([]Dialogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file %s: %w", path, err)
	}
	defer f.Close()
	return l.Load(f, path)
}

// LoadFiles loads each path in order and concatenates the results.
func (l *Loader) LoadFiles(paths []string) ([]Dialogue, error) {
	var all []Dialogue
	for _, p := range paths {
		ds, err := l.LoadFile(p)
		if err != nil {
			return nil, err
		}
		all = append(all, ds...)
	}
	l.logger.Info().Int("files", len(paths)).Int("dialogues", len(all)).Msg("corpus loaded")
	return all, nil
}

// Load decodes a corpus from r. source is only used in errors and on the returned dialogues.
// Any record that fails validation aborts the load with a *common.RecordError.
func (l *Loader) Load(r io.Reader, source string) ([]Dialogue, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus %s: %w", source, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, common.NewRecordError(source, -1, "invalid JSON", err)
	}
	if env.Data == nil {
		return nil, common.NewRecordError(source, -1, `missing "data" array`, nil)
	}

	records := *env.Data
	out := make([]Dialogue, 0, len(records))
	for i, msg := range records {
		if err := validateRecord(msg); err != nil {
			return nil, common.NewRecordError(source, i, "schema validation failed", err)
		}
		var rec rawRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			return nil, common.NewRecordError(source, i, "decode failed", err)
		}

		d := Dialogue{
			ID:     rec.Header.DialogueInfo.DialogueID,
			Topic:  rec.Header.DialogueInfo.Topic,
			Turns:  MergeTurns(rec.utterances()),
			Source: source,
			Index:  i,
		}
		if rec.Body.Summary != nil {
			d.Summary = *rec.Body.Summary
			d.HasSummary = true
		}
		out = append(out, d)
	}

	l.logger.Debug().Str("source", source).Int("records", len(out)).Msg("corpus file decoded")
	return out, nil
}

// JoinOptions controls how turns are flattened into one text.
type JoinOptions struct {
	// Separator goes between turns, "[sep]" in the reference corpus.
	Separator string
	// TopicPrefix inserts "#<topic>#" as the first turn.
	TopicPrefix bool
}

// Examples flattens dialogues into Examples.
func Examples(dialogues []Dialogue, opts JoinOptions) []Example {
	out := make([]Example, len(dialogues))
	for i, d := range dialogues {
		turns := d.Turns
		if opts.TopicPrefix {
			turns = append([]string{"#" + d.Topic + "#"}, d.Turns...)
		}
		out[i] = Example{
			ID:         d.ID,
			Topic:      d.Topic,
			Text:       strings.Join(turns, opts.Separator),
			Summary:    d.Summary,
			HasSummary: d.HasSummary,
			Source:     d.Source,
			Index:      d.Index,
		}
	}
	return out
}
