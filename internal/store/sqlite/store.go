// Package sqlite provides a SQLite-backed search history store.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cinematch/cinematch-server/internal/domain"
	"github.com/cinematch/cinematch-server/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store persists search history in a single SQLite table.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.HistoryStore = (*Store)(nil)

// Open creates a new SQLite store at the given path.
// It creates missing parent directories, configures WAL mode, sets pragmas,
// and applies the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// One connection serializes writers; history traffic is one row per query.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	if logger != nil {
		logger.Info("SQLite history store opened", "path", path)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append inserts one record.
func (s *Store) Append(ctx context.Context, record domain.SearchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ids := record.GenreIDs
	if ids == nil {
		ids = []int{}
	}
	genres, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode genres: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO search_history (query, genre_ids, searched_at) VALUES (?, ?, ?)`,
		record.Query, string(genres), record.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert search record: %w", err)
	}
	return nil
}

// ReadAll returns every record in insertion order.
func (s *Store) ReadAll(ctx context.Context) ([]domain.SearchRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT query, genre_ids, searched_at FROM search_history ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query search history: %w", err)
	}
	defer rows.Close()

	records := []domain.SearchRecord{}
	for rows.Next() {
		var (
			query, genres, searchedAt string
		)
		if err := rows.Scan(&query, &genres, &searchedAt); err != nil {
			return nil, fmt.Errorf("scan search record: %w", err)
		}

		record, err := decode(query, genres, searchedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search history: %w", err)
	}
	return records, nil
}

func decode(query, genres, searchedAt string) (domain.SearchRecord, error) {
	ids := []int{}
	if err := json.Unmarshal([]byte(genres), &ids); err != nil {
		return domain.SearchRecord{}, fmt.Errorf("decode genres %q: %w", genres, err)
	}
	if ids == nil {
		ids = []int{}
	}

	ts, err := time.Parse(time.RFC3339Nano, searchedAt)
	if err != nil {
		return domain.SearchRecord{}, fmt.Errorf("decode timestamp %q: %w", searchedAt, err)
	}

	return domain.SearchRecord{Query: query, GenreIDs: ids, Timestamp: ts}, nil
}
