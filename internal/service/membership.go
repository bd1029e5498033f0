package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vinay-ml/RetroSphere/internal/domain"
	"github.com/vinay-ml/RetroSphere/internal/dto"
	"github.com/vinay-ml/RetroSphere/internal/repository"
)

// MembershipService maps display names to stable participant identities
// within one board. Join is an upsert by name: re-joining under the same
// name refreshes the existing slot and keeps its participant id, which also
// means a second person using an existing name inherits that identity (a
// documented trust gap, not a bug).
type MembershipService struct {
	boards   repository.BoardRepository
	cache    repository.BoardCache
	events   Broadcaster
	cacheTTL time.Duration
}

// NewMembershipService creates a MembershipService.
func NewMembershipService(boards repository.BoardRepository, cache repository.BoardCache, events Broadcaster, cacheTTL time.Duration) *MembershipService {
	if boards == nil {
		panic("BoardRepository cannot be nil for MembershipService")
	}
	if cache == nil {
		panic("BoardCache cannot be nil for MembershipService")
	}
	if events == nil {
		panic("Broadcaster cannot be nil for MembershipService")
	}
	return &MembershipService{boards: boards, cache: cache, events: events, cacheTTL: cacheTTL}
}

// Join adds the named participant to the board (or refreshes their slot)
// and returns the updated board together with the member record.
func (s *MembershipService) Join(ctx context.Context, boardID, name string) (*domain.Board, *domain.Member, error) {
	if name == "" {
		return nil, nil, ErrValidation
	}
	logCtx := logrus.WithFields(logrus.Fields{"board_id": boardID, "member_name": name})

	board, err := loadBoard(ctx, s.boards, boardID)
	if err != nil {
		return nil, nil, err
	}
	member := board.Join(name)

	if err := s.boards.Save(ctx, board); err != nil {
		logCtx.WithError(err).Error("Failed to save board after join")
		return nil, nil, ErrInternalServer
	}
	refreshCache(ctx, s.cache, board, s.cacheTTL)

	s.events.Publish(dto.NewBoardEvent(dto.EventBoardUpdated, board))
	logCtx.WithField("participant_id", member.UserID).Info("Member joined board")
	return board, member, nil
}
