// Package tabular stores search history as a CSV file with a header row.
//
// Every append reads the whole file, adds one row and writes the whole file
// back through a temporary file and a rename. The file is created on the
// first append.
package tabular

import (
	"context"
	"encoding/csv"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cinematch/cinematch-server/internal/domain"
	"github.com/cinematch/cinematch-server/internal/store"
)

// Column headers, in file order.
const (
	ColumnQuery     = "Search Term"
	ColumnGenres    = "Genres"
	ColumnTimestamp = "Timestamp"
)

var header = []string{ColumnQuery, ColumnGenres, ColumnTimestamp}

// Store is a CSV-file history store.
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

var _ store.HistoryStore = (*Store)(nil)

// Open returns a store for the file at path. The parent directory is created
// if needed; the file itself is not touched until the first append.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	return &Store{path: path, logger: logger}, nil
}

// Close is a no-op; the file is never held open between calls.
func (s *Store) Close() error {
	return nil
}

// ReadAll parses the whole file. A missing file is an empty history.
func (s *Store) ReadAll(ctx context.Context) ([]domain.SearchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

// Append rewrites the file with record added at the end.
func (s *Store) Append(ctx context.Context, record domain.SearchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	records = append(records, record)

	return s.write(records)
}

func (s *Store) read() ([]domain.SearchRecord, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.SearchRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse history file: %w", err)
	}

	records := make([]domain.SearchRecord, 0, len(rows))
	for i, row := range rows {
		if i == 0 && row[0] == ColumnQuery {
			continue
		}
		record, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("history row %d: %w", i+1, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *Store) write(records []domain.SearchRecord) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".history-*.csv")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write history header: %w", err)
	}
	for _, r := range records {
		row, err := encodeRow(r)
		if err != nil {
			tmp.Close()
			return err
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write history row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush history file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync history file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close history file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("history file written", "path", s.path, "records", len(records))
	}
	return nil
}

// encodeRow renders genres as a JSON array, e.g. "[28,878]".
func encodeRow(r domain.SearchRecord) ([]string, error) {
	ids := r.GenreIDs
	if ids == nil {
		ids = []int{}
	}
	genres, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encode genres: %w", err)
	}
	return []string{r.Query, string(genres), r.Timestamp.Format(time.RFC3339Nano)}, nil
}

func decodeRow(row []string) (domain.SearchRecord, error) {
	ids := []int{}
	if row[1] != "" {
		if err := json.Unmarshal([]byte(row[1]), &ids); err != nil {
			return domain.SearchRecord{}, fmt.Errorf("decode genres %q: %w", row[1], err)
		}
		if ids == nil {
			ids = []int{}
		}
	}

	ts, err := time.Parse(time.RFC3339Nano, row[2])
	if err != nil {
		return domain.SearchRecord{}, fmt.Errorf("decode timestamp %q: %w", row[2], err)
	}

	return domain.SearchRecord{Query: row[0], GenreIDs: ids, Timestamp: ts}, nil
}
