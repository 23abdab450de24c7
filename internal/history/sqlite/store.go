package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/artpar/restui/internal/core"
	"github.com/artpar/restui/internal/history"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store implements history.Store using SQLite.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

var _ history.Store = (*Store)(nil)

// New creates a new SQLite-based history store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return open(db)
}

// NewInMemory creates a new in-memory SQLite store (useful for testing).
func NewInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	return open(db)
}

func open(db *sql.DB) (*Store, error) {
	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}

// initialize creates the necessary tables and indexes.
func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			timestamp DATETIME NOT NULL,
			request_id TEXT,
			request_name TEXT,
			collection_id TEXT,
			method TEXT NOT NULL,
			url TEXT NOT NULL,
			headers TEXT,
			query_params TEXT,
			body TEXT,
			auth TEXT,
			status_code INTEGER NOT NULL DEFAULT 0,
			status_text TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			error TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp DESC);
		CREATE INDEX IF NOT EXISTS idx_history_request ON history(request_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

const selectColumns = `
	SELECT id, timestamp, request_id, request_name, collection_id, method, url,
		headers, query_params, body, auth, status_code, status_text, duration_ms, error
	FROM history`

// newestFirst breaks timestamp ties by insertion order.
const newestFirst = ` ORDER BY timestamp DESC, rowid DESC`

// Add adds a new history entry and returns its ID.
func (s *Store) Add(ctx context.Context, entry history.Entry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", history.ErrStoreClosed
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	headersJSON, err := json.Marshal(entry.Headers)
	if err != nil {
		return "", fmt.Errorf("failed to marshal headers: %w", err)
	}
	paramsJSON, err := json.Marshal(entry.QueryParams)
	if err != nil {
		return "", fmt.Errorf("failed to marshal query params: %w", err)
	}
	authJSON, err := json.Marshal(entry.Auth)
	if err != nil {
		return "", fmt.Errorf("failed to marshal auth: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO history (
			id, timestamp, request_id, request_name, collection_id, method, url,
			headers, query_params, body, auth, status_code, status_text, duration_ms, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID, entry.Timestamp.UTC(), entry.RequestID, entry.RequestName, entry.CollectionID,
		entry.Method, entry.URL, string(headersJSON), string(paramsJSON), entry.Body,
		string(authJSON), entry.StatusCode, entry.StatusText, entry.DurationMs, entry.Error,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert history entry: %w", err)
	}

	return entry.ID, nil
}

// Get retrieves a single history entry by ID.
func (s *Store) Get(ctx context.Context, id string) (history.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return history.Entry{}, history.ErrStoreClosed
	}
	if id == "" {
		return history.Entry{}, history.ErrInvalidID
	}

	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return history.Entry{}, history.ErrNotFound
	}
	if err != nil {
		return history.Entry{}, fmt.Errorf("failed to get history entry: %w", err)
	}
	return entry, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]history.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, history.ErrStoreClosed
	}

	query := selectColumns + newestFirst
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history entries: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, history.ErrStoreClosed
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count history entries: %w", err)
	}
	return count, nil
}

// Prune deletes all but the newest keepLast entries.
func (s *Store) Prune(ctx context.Context, keepLast int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, history.ErrStoreClosed
	}
	if keepLast < 0 {
		keepLast = 0
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history`+newestFirst+` LIMIT ?
		)
	`, keepLast)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	deleted, _ := res.RowsAffected()
	return deleted, nil
}

// Clear removes all history entries.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return history.ErrStoreClosed
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close closes the store and releases resources.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (history.Entry, error) {
	var (
		entry                                history.Entry
		requestID, requestName, collectionID sql.NullString
		headersJSON, paramsJSON, authJSON    sql.NullString
		body, statusText, errText            sql.NullString
	)

	err := row.Scan(
		&entry.ID, &entry.Timestamp, &requestID, &requestName, &collectionID,
		&entry.Method, &entry.URL, &headersJSON, &paramsJSON, &body, &authJSON,
		&entry.StatusCode, &statusText, &entry.DurationMs, &errText,
	)
	if err != nil {
		return entry, err
	}

	entry.RequestID = requestID.String
	entry.RequestName = requestName.String
	entry.CollectionID = collectionID.String
	entry.Body = body.String
	entry.StatusText = statusText.String
	entry.Error = errText.String

	if err := unmarshalColumn(headersJSON, &entry.Headers); err != nil {
		return entry, err
	}
	if err := unmarshalColumn(paramsJSON, &entry.QueryParams); err != nil {
		return entry, err
	}
	entry.Auth = core.AuthConfig{Type: core.AuthNone}
	if err := unmarshalColumn(authJSON, &entry.Auth); err != nil {
		return entry, err
	}
	return entry, nil
}

func unmarshalColumn(col sql.NullString, v any) error {
	if !col.Valid || col.String == "" || col.String == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(col.String), v); err != nil {
		return fmt.Errorf("failed to decode column: %w", err)
	}
	return nil
}
