// Package storetest holds the behavior every HistoryStore backend must share.
package storetest

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinematch/cinematch-server/internal/domain"
	"github.com/cinematch/cinematch-server/internal/store"
)

// OpenFunc opens a backend at path. Opening the same path twice must see
// the same history.
type OpenFunc func(t *testing.T, path string) store.HistoryStore

// Run exercises a backend. newPath returns a fresh location for each subtest.
func Run(t *testing.T, newPath func(t *testing.T) string, open OpenFunc) {
	t.Helper()

	t.Run("empty history", func(t *testing.T) {
		s := open(t, newPath(t))
		defer s.Close()

		records, err := s.ReadAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("round trip preserves order and fields", func(t *testing.T) {
		s := open(t, newPath(t))
		defer s.Close()
		ctx := context.Background()

		base := time.Date(2024, 5, 1, 18, 30, 15, 123456789, time.UTC)
		want := []domain.SearchRecord{
			domain.NewSearchRecord("The Matrix", []int{28, 878}, base),
			domain.NewSearchRecord("amélie, \"the\" fabulous", []int{35, 10749}, base.Add(time.Minute)),
			domain.NewSearchRecord("no genres", nil, base.Add(2*time.Minute)),
		}
		for _, r := range want {
			require.NoError(t, s.Append(ctx, r))
		}

		got, err := s.ReadAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		for i := range want {
			assert.True(t, want[i].Equal(got[i]), "record %d: want %+v, got %+v", i, want[i], got[i])
			assert.NotNil(t, got[i].GenreIDs)
		}
	})

	t.Run("history survives reopen", func(t *testing.T) {
		path := newPath(t)
		ctx := context.Background()
		at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

		s := open(t, path)
		require.NoError(t, s.Append(ctx, domain.NewSearchRecord("first", []int{18}, at)))
		require.NoError(t, s.Close())

		s = open(t, path)
		defer s.Close()
		require.NoError(t, s.Append(ctx, domain.NewSearchRecord("second", []int{27}, at.Add(time.Second))))

		got, err := s.ReadAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "first", got[0].Query)
		assert.Equal(t, "second", got[1].Query)
		assert.Equal(t, []int{27}, got[1].GenreIDs)
	})

	t.Run("concurrent appends are all kept", func(t *testing.T) {
		s := open(t, newPath(t))
		defer s.Close()
		ctx := context.Background()

		const writers = 8
		var wg sync.WaitGroup
		for i := range writers {
			wg.Go(func() {
				r := domain.NewSearchRecord("query", []int{i + 1}, time.Now().UTC())
				assert.NoError(t, s.Append(ctx, r))
			})
		}
		wg.Wait()

		got, err := s.ReadAll(ctx)
		require.NoError(t, err)
		assert.Len(t, got, writers)
	})

	t.Run("missing parent directories are created", func(t *testing.T) {
		base := newPath(t)
		path := filepath.Join(filepath.Dir(base), "Cinematch", "nested", filepath.Base(base))
		ctx := context.Background()

		s := open(t, path)
		require.NoError(t, s.Append(ctx, domain.NewSearchRecord("fresh machine", []int{16}, time.Now())))
		require.NoError(t, s.Close())

		s = open(t, path)
		defer s.Close()
		got, err := s.ReadAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "fresh machine", got[0].Query)
	})

	t.Run("canceled context", func(t *testing.T) {
		s := open(t, newPath(t))
		defer s.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := s.Append(ctx, domain.NewSearchRecord("late", nil, time.Now()))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
