// Package history keeps a local SQLite log of generated prompts and any
// model responses they received.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"gmprompt/internal/errors"
)

type Entry struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	System         string    `json:"system"`
	AdventureTypes []string  `json:"adventure_types"`
	Settings       []string  `json:"settings"`
	Prompt         string    `json:"prompt"`
	Response       string    `json:"response,omitempty"`
	Metadata       Metadata  `json:"metadata"`
}

// Metadata describes how a response was produced. It is empty until a
// response is attached.
type Metadata struct {
	Model           string        `json:"model,omitempty"`
	MaxTokens       int           `json:"max_tokens,omitempty"`
	ReasoningEffort string        `json:"reasoning_effort,omitempty"`
	ResponseTime    time.Duration `json:"-"`
	Error           *string       `json:"error,omitempty"`
}

// MarshalJSON stores ResponseTime as whole milliseconds.
func (m Metadata) MarshalJSON() ([]byte, error) {
	type alias Metadata
	return json.Marshal(struct {
		alias
		ResponseTimeMS int64 `json:"response_time_ms,omitempty"`
	}{alias(m), m.ResponseTime.Milliseconds()})
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	type alias Metadata
	aux := struct {
		*alias
		ResponseTimeMS int64 `json:"response_time_ms,omitempty"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.ResponseTime = time.Duration(aux.ResponseTimeMS) * time.Millisecond
	return nil
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS prompts (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		system TEXT NOT NULL,
		adventure_types TEXT NOT NULL,
		settings TEXT NOT NULL,
		prompt TEXT NOT NULL,
		response TEXT NOT NULL DEFAULT '',
		metadata TEXT NOT NULL DEFAULT '{}'
	);

	CREATE INDEX IF NOT EXISTS idx_prompts_timestamp ON prompts(timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores entry, assigning an ID and timestamp when they are unset.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	adventureTypesJSON, err := marshalList(entry.AdventureTypes)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to marshal adventure types: %w", err)
	}
	settingsJSON, err := marshalList(entry.Settings)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to marshal settings: %w", err)
	}
	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO prompts (id, timestamp, system, adventure_types, settings, prompt, response, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Timestamp, entry.System, adventureTypesJSON, settingsJSON, entry.Prompt, entry.Response, string(metadataJSON))
	if err != nil {
		return Entry{}, fmt.Errorf("failed to insert prompt: %w", err)
	}

	return entry, nil
}

// AttachResponse stores a model reply against a recorded prompt.
func (s *Store) AttachResponse(ctx context.Context, id, response string, metadata Metadata) error {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE prompts SET response = ?, metadata = ? WHERE id = ?`,
		response, string(metadataJSON), id)
	if err != nil {
		return fmt.Errorf("failed to update prompt: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update prompt: %w", err)
	}
	if n == 0 {
		return errors.NotFoundf("prompt %q not found", id)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, errors.InvalidArgumentf("limit must be positive, got %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, system, adventure_types, settings, prompt, response, metadata
		FROM prompts
		ORDER BY rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query prompts: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e                                     Entry
			adventureTypes, settings, metadataRaw string
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.System, &adventureTypes, &settings, &e.Prompt, &e.Response, &metadataRaw); err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		if err := json.Unmarshal([]byte(adventureTypes), &e.AdventureTypes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal adventure types: %w", err)
		}
		if err := json.Unmarshal([]byte(settings), &e.Settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
		}
		if err := json.Unmarshal([]byte(metadataRaw), &e.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	raw, err := json.Marshal(list)
	return string(raw), err
}
