package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vinay-ml/RetroSphere/internal/domain"
	"github.com/vinay-ml/RetroSphere/internal/dto"
	"github.com/vinay-ml/RetroSphere/internal/repository"
)

// BoardService owns the lifecycle of the board aggregate: create, read,
// shallow update and delete. Every mutation writes the whole aggregate and
// publishes the post-write snapshot to the broadcast channel.
type BoardService struct {
	boards   repository.BoardRepository
	cache    repository.BoardCache
	events   Broadcaster
	cacheTTL time.Duration
}

// NewBoardService creates a BoardService.
func NewBoardService(boards repository.BoardRepository, cache repository.BoardCache, events Broadcaster, cacheTTL time.Duration) *BoardService {
	if boards == nil {
		panic("BoardRepository cannot be nil for BoardService")
	}
	if cache == nil {
		panic("BoardCache cannot be nil for BoardService")
	}
	if events == nil {
		panic("Broadcaster cannot be nil for BoardService")
	}
	return &BoardService{boards: boards, cache: cache, events: events, cacheTTL: cacheTTL}
}

// BoardPatch carries the mutable board fields for UpdateBoard. Nil fields
// are left untouched; the id is immutable and has no patch field at all.
type BoardPatch struct {
	Title       *string
	IsAnonymous *bool
}

// CreateBoard creates a new board. The id is computed once inside
// domain.NewBoard and frozen before the aggregate is ever exposed.
func (s *BoardService) CreateBoard(ctx context.Context, title string, isAnonymous bool) (*domain.Board, error) {
	if title == "" {
		return nil, ErrValidation
	}
	logCtx := logrus.WithField("title", title)

	board := domain.NewBoard(title, isAnonymous)
	logCtx = logCtx.WithField("board_id", board.ID)

	if err := s.boards.Save(ctx, board); err != nil {
		logCtx.WithError(err).Error("Failed to save new board")
		return nil, ErrInternalServer
	}
	s.refreshCache(ctx, board)

	s.events.Publish(dto.NewBoardEvent(dto.EventBoardCreated, board))
	logCtx.Info("Board created")
	return board, nil
}

// ListBoards returns every stored board.
func (s *BoardService) ListBoards(ctx context.Context) ([]domain.Board, error) {
	boards, err := s.boards.FindAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list boards")
		return nil, ErrInternalServer
	}
	return boards, nil
}

// GetBoard loads one aggregate, preferring the cache.
func (s *BoardService) GetBoard(ctx context.Context, id string) (*domain.Board, error) {
	if board, err := s.cache.Get(ctx, id); err == nil {
		return board, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		// Cache trouble is logged and ignored; the store stays authoritative.
		logrus.WithError(err).WithField("board_id", id).Warn("Board cache read failed")
	}

	board, err := s.loadBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	s.refreshCache(ctx, board)
	return board, nil
}

// UpdateBoard shallow-merges the patch into the board's mutable fields.
func (s *BoardService) UpdateBoard(ctx context.Context, id string, patch BoardPatch) (*domain.Board, error) {
	logCtx := logrus.WithField("board_id", id)

	board, err := s.loadBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, ErrValidation
		}
		board.Title = *patch.Title
	}
	if patch.IsAnonymous != nil {
		board.IsAnonymous = *patch.IsAnonymous
	}

	if err := s.boards.Save(ctx, board); err != nil {
		logCtx.WithError(err).Error("Failed to save updated board")
		return nil, ErrInternalServer
	}
	s.refreshCache(ctx, board)

	s.events.Publish(dto.NewBoardEvent(dto.EventBoardUpdated, board))
	logCtx.Info("Board updated")
	return board, nil
}

// DeleteBoard removes the board and, through aggregate ownership, every
// feedback entry and comment under it.
func (s *BoardService) DeleteBoard(ctx context.Context, id string) error {
	logCtx := logrus.WithField("board_id", id)

	if err := s.boards.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			return ErrBoardNotFound
		}
		logCtx.WithError(err).Error("Failed to delete board")
		return ErrInternalServer
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logCtx.WithError(err).Warn("Board cache invalidation failed")
	}

	s.events.Publish(dto.NewDeletionEvent(dto.EventBoardDeleted, id, "", ""))
	logCtx.Info("Board deleted")
	return nil
}

func (s *BoardService) loadBoard(ctx context.Context, id string) (*domain.Board, error) {
	return loadBoard(ctx, s.boards, id)
}

func (s *BoardService) refreshCache(ctx context.Context, board *domain.Board) {
	refreshCache(ctx, s.cache, board, s.cacheTTL)
}
