package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vinay-ml/RetroSphere/internal/domain"
	"github.com/vinay-ml/RetroSphere/internal/repository"
)

// loadBoard reads the authoritative store and maps repository errors onto
// service errors. Mutation paths always read the store directly, never the
// cache, so a stale cached copy can never be the base of a write.
func loadBoard(ctx context.Context, boards repository.BoardRepository, id string) (*domain.Board, error) {
	board, err := boards.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			return nil, ErrBoardNotFound
		}
		logrus.WithError(err).WithField("board_id", id).Error("Failed to load board")
		return nil, ErrInternalServer
	}
	return board, nil
}

// refreshCache stores the latest aggregate snapshot, best effort. Cache
// failures are logged, never surfaced: the store already holds the truth.
func refreshCache(ctx context.Context, cache repository.BoardCache, board *domain.Board, ttl time.Duration) {
	if err := cache.Set(ctx, board, ttl); err != nil {
		logrus.WithError(err).WithField("board_id", board.ID).Warn("Board cache refresh failed")
	}
}
