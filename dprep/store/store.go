// Package store persists preprocessing runs and their features in a libsql database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/encoding/json"
	_ "github.com/tursodatabase/go-libsql"
)

// Run describes one preprocessing invocation.
type Run struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Mode      string
	MaxLen    int
	Config    string
}

// Record is one stored feature row.
type Record struct {
	DialogueID           string
	InputIDs             []int
	AttentionMask        []int
	DecoderInputIDs      []int
	DecoderAttentionMask []int
	Labels               []int
}

// Store wraps the features database
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open connects to dsn. Plain paths are opened as local files ("file:" is prepended and the
// parent directory created); anything with a scheme is handed to the driver unchanged.
func Open(dsn string, logger zerolog.Logger) (*Store, error) {
	url := dsn
	if !strings.Contains(dsn, ":") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("could not create store directory: %w", err)
		}
		url = "file:" + dsn
	}

	db, err := sql.Open("libsql", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", dsn, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to store %s: %w", dsn, err)
	}

	s := &Store{db: db, logger: logger.With().Str("component", "store").Logger()}
	if err := s.InitSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database
func (s *Store) Close() error { return s.db.Close() }

// InitSchema creates the runs and features tables.
func (s *Store) InitSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY UNIQUE,
		created_at INTEGER NOT NULL,
		mode TEXT NOT NULL,
		max_len INTEGER NOT NULL,
		config TEXT
	)`)
	if err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	_, err = s.db.Exec(`CREATE TABLE IF NOT EXISTS features (
		run_id TEXT NOT NULL,
		dialogue_id TEXT NOT NULL,
		input_ids TEXT NOT NULL,
		attention_mask TEXT NOT NULL,
		decoder_input_ids TEXT NOT NULL,
		decoder_attention_mask TEXT NOT NULL,
		labels TEXT NOT NULL,
		PRIMARY KEY (run_id, dialogue_id)
	)`)
	if err != nil {
		return fmt.Errorf("failed to create features table: %w", err)
	}
	return nil
}

// CreateRun records a new run and returns it.
func (s *Store) CreateRun(ctx context.Context, mode string, maxLen int, config string) (*Run, error) {
	run := &Run{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Mode:      mode,
		MaxLen:    maxLen,
		Config:    config,
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (id, created_at, mode, max_len, config) VALUES (?, ?, ?, ?, ?)",
		run.ID.String(), run.CreatedAt.Unix(), run.Mode, run.MaxLen, run.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}
	s.logger.Debug().Str("run", run.ID.String()).Str("mode", mode).Msg("run created")
	return run, nil
}

// InsertFeatures stores records under runID in one transaction.
func (s *Store) InsertFeatures(ctx context.Context, runID uuid.UUID, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO features
		(run_id, dialogue_id, input_ids, attention_mask, decoder_input_ids, decoder_attention_mask, labels)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare feature insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		cols, err := encodeColumns(r.InputIDs, r.AttentionMask, r.DecoderInputIDs, r.DecoderAttentionMask, r.Labels)
		if err != nil {
			return fmt.Errorf("failed to encode features for %s: %w", r.DialogueID, err)
		}
		args := append([]any{runID.String(), r.DialogueID}, cols...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert features for %s: %w", r.DialogueID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.logger.Debug().Str("run", runID.String()).Int("records", len(records)).Msg("features stored")
	return nil
}

// ListRuns returns all runs, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, created_at, mode, max_len, config FROM runs ORDER BY created_at ASC, rowid ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			idStr   string
			created int64
			config  sql.NullString
		)
		if err := rows.Scan(&idStr, &created, &run.Mode, &run.MaxLen, &config); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse run id: %w", err)
		}
		run.ID = id
		run.CreatedAt = time.Unix(created, 0).UTC()
		run.Config = config.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}

// GetFeatures loads the stored features of one dialogue. Returns sql.ErrNoRows when absent.
func (s *Store) GetFeatures(ctx context.Context, runID uuid.UUID, dialogueID string) (*Record, error) {
	var cols [5]string
	err := s.db.QueryRowContext(ctx, `SELECT input_ids, attention_mask, decoder_input_ids, decoder_attention_mask, labels
		FROM features WHERE run_id = ? AND dialogue_id = ?`, runID.String(), dialogueID).
		Scan(&cols[0], &cols[1], &cols[2], &cols[3], &cols[4])
	if err != nil {
		return nil, err
	}

	r := &Record{DialogueID: dialogueID}
	for i, dst := range []*[]int{&r.InputIDs, &r.AttentionMask, &r.DecoderInputIDs, &r.DecoderAttentionMask, &r.Labels} {
		if err := json.Unmarshal([]byte(cols[i]), dst); err != nil {
			return nil, fmt.Errorf("failed to decode stored features for %s: %w", dialogueID, err)
		}
	}
	return r, nil
}

// CountFeatures returns how many feature rows belong to runID.
func (s *Store) CountFeatures(ctx context.Context, runID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM features WHERE run_id = ?", runID.String()).Scan(&n)
	return n, err
}

func encodeColumns(cols ...[]int) ([]any, error) {
	out := make([]any, len(cols))
	for i, c := range cols {
		if c == nil {
			c = []int{}
		}
		b, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		out[i] = string(b)
	}
	return out, nil
}
