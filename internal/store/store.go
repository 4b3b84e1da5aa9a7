package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/cinematch/cinematch-server/internal/domain"
)

// Store keeps search history in a Badger database.
type Store struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger *slog.Logger
}

var _ HistoryStore = (*Store)(nil)

// New opens (or creates) a Badger-backed history store at path.
func New(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // History must survive a crash right after a query
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	seq, err := db.GetSequence([]byte(sequenceKey), sequenceBandwidth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open history sequence: %w", err)
	}

	if logger != nil {
		logger.Info("Badger history store opened", "path", path)
	}

	return &Store{db: db, seq: seq, logger: logger}, nil
}

// Close releases the sequence lease and closes the database.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing history store")
	}
	if err := s.seq.Release(); err != nil && s.logger != nil {
		s.logger.Warn("failed to release history sequence", "error", err)
	}
	return s.db.Close()
}

// Append stores a record after every record written before it.
func (s *Store) Append(ctx context.Context, record domain.SearchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("next history sequence: %w", err)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal search record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(historyKey(n), data)
	})
}

// ReadAll returns every record in insertion order.
func (s *Store) ReadAll(ctx context.Context) ([]domain.SearchRecord, error) {
	records := []domain.SearchRecord{}
	prefix := []byte(historyPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var record domain.SearchRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return fmt.Errorf("decode search record %x: %w", it.Item().Key(), err)
			}
			if record.GenreIDs == nil {
				record.GenreIDs = []int{}
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
