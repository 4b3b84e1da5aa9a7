// Package store defines the search history contract and its Badger backend.
// Alternative backends live in the tabular and sqlite subpackages.
package store

import (
	"context"

	"github.com/cinematch/cinematch-server/internal/domain"
)

// HistoryStore is an append-only log of past searches.
//
// ReadAll returns records in insertion order, oldest first, and an empty
// slice when nothing has been written yet. Implementations are safe for
// concurrent use within one process.
type HistoryStore interface {
	Append(ctx context.Context, record domain.SearchRecord) error
	ReadAll(ctx context.Context) ([]domain.SearchRecord, error)
	Close() error
}

// Tail returns the last n records, or all of them when there are fewer.
func Tail(records []domain.SearchRecord, n int) []domain.SearchRecord {
	if n <= 0 {
		return []domain.SearchRecord{}
	}
	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}
