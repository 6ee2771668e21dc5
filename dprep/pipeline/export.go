package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/dialogue-prep/dprep/store"

	"github.com/segmentio/encoding/json"
)

// WriteJSONL writes one Features object per line.
func WriteJSONL(w io.Writer, feats []Features) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i := range feats {
		if err := enc.Encode(&feats[i]); err != nil {
			return fmt.Errorf("failed to encode features for %s: %w", feats[i].ID, err)
		}
	}
	return bw.Flush()
}

// WriteJSONLFile writes feats to path, creating parent directories.
func WriteJSONLFile(path string, feats []Features) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteJSONL(f, feats); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadJSONL reads features written by WriteJSONL.
func ReadJSONL(r io.Reader) ([]Features, error) {
	dec := json.NewDecoder(r)
	var out []Features
	for {
		var f Features
		err := dec.Decode(&f)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode features line %d: %w", len(out)+1, err)
		}
		out = append(out, f)
	}
}

// ToRecords converts features into store rows.
func ToRecords(feats []Features) []store.Record {
	out := make([]store.Record, len(feats))
	for i, f := range feats {
		out[i] = store.Record{
			DialogueID:           f.ID,
			InputIDs:             f.InputIDs,
			AttentionMask:        f.AttentionMask,
			DecoderInputIDs:      f.DecoderInputIDs,
			DecoderAttentionMask: f.DecoderAttentionMask,
			Labels:               f.Labels,
		}
	}
	return out
}
