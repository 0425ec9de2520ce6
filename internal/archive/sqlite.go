// Package archive persists completed exchanges to a local SQLite database.
// It is an append-only log for the history command: conversations are never
// rehydrated from it.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/htsflow/htsflow/internal/model"
	"github.com/htsflow/htsflow/internal/session"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS exchanges (
	id            TEXT PRIMARY KEY,
	session_id    TEXT NOT NULL,
	query         TEXT NOT NULL,
	response_type TEXT NOT NULL,
	hts_code      TEXT NOT NULL DEFAULT '',
	confidence    INTEGER NOT NULL DEFAULT 0,
	detail        TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_exchanges_created_at ON exchanges(created_at);
`

// Entry is one archived exchange.
type Entry struct {
	CreatedAt    time.Time
	ID           string
	SessionID    string
	Query        string
	ResponseType model.MessageType
	HTSCode      string
	Detail       string
	Confidence   int
}

// Store is a SQLite-backed exchange archive. It implements session.Recorder.
type Store struct {
	db     *sql.DB
	dbPath string
}

// New opens (creating if needed) the archive database at dbPath.
func New(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath is required")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping archive database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize archive schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one completed exchange. For result turns the top-ranked
// candidate is archived; for question turns the question text is.
func (s *Store) Record(ctx context.Context, ex session.Exchange) error {
	entry := Entry{
		ID:           uuid.NewString(),
		SessionID:    ex.SessionID,
		Query:        ex.Query,
		ResponseType: ex.Response.Type,
		CreatedAt:    time.Now().UTC(),
	}

	switch ex.Response.Type {
	case model.TypeResult:
		if len(ex.Response.Results) > 0 {
			top := ex.Response.Results[0]
			entry.HTSCode = top.HTSCode
			entry.Confidence = top.ConfidenceScore
			entry.Detail = top.Description
		}
	case model.TypeQuestion:
		entry.Detail = ex.Response.Question
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO exchanges (id, session_id, query, response_type, hts_code, confidence, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.SessionID, entry.Query, string(entry.ResponseType),
		entry.HTSCode, entry.Confidence, entry.Detail, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record exchange: %w", err)
	}

	return nil
}

// List returns the most recent entries, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, query, response_type, hts_code, confidence, detail, created_at
		FROM exchanges
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchanges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var responseType string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Query, &responseType,
			&e.HTSCode, &e.Confidence, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exchange: %w", err)
		}
		e.ResponseType = model.MessageType(responseType)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exchanges: %w", err)
	}

	return entries, nil
}
