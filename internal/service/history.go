package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/cinematch/cinematch-server/internal/domain"
	domainerrors "github.com/cinematch/cinematch-server/internal/errors"
	"github.com/cinematch/cinematch-server/internal/store"
)

// HistoryService exposes the search history for display.
type HistoryService struct {
	history store.HistoryStore
	logger  *slog.Logger
}

// NewHistoryService creates a history service.
func NewHistoryService(history store.HistoryStore, logger *slog.Logger) *HistoryService {
	return &HistoryService{history: history, logger: logger}
}

// Recent returns up to limit records, newest first. A non-positive limit
// returns everything.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.SearchRecord, error) {
	records, err := s.history.ReadAll(ctx)
	if err != nil {
		s.logger.Error("failed to read search history", "error", err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to read search history")
	}

	if limit > 0 {
		records = store.Tail(records, limit)
	}
	out := slices.Clone(records)
	slices.Reverse(out)
	return out, nil
}
