package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vinay-ml/RetroSphere/internal/domain"
	"github.com/vinay-ml/RetroSphere/internal/dto"
	"github.com/vinay-ml/RetroSphere/internal/repository"
)

// FeedbackService runs every board-scoped mutation below the root: feedback
// cards, their comments, and the reaction guard for both. Each operation is
// an independent read-modify-write of the full aggregate; two racing
// mutations on one board follow last-write-wins (accepted hazard, see the
// whole-aggregate-replace contract).
type FeedbackService struct {
	boards   repository.BoardRepository
	cache    repository.BoardCache
	events   Broadcaster
	cacheTTL time.Duration
}

// NewFeedbackService creates a FeedbackService.
func NewFeedbackService(boards repository.BoardRepository, cache repository.BoardCache, events Broadcaster, cacheTTL time.Duration) *FeedbackService {
	if boards == nil {
		panic("BoardRepository cannot be nil for FeedbackService")
	}
	if cache == nil {
		panic("BoardCache cannot be nil for FeedbackService")
	}
	if events == nil {
		panic("Broadcaster cannot be nil for FeedbackService")
	}
	return &FeedbackService{boards: boards, cache: cache, events: events, cacheTTL: cacheTTL}
}

// FeedbackPatch carries the mutable feedback fields for UpdateFeedback.
type FeedbackPatch struct {
	Type    *string
	Content *string
}

// AddFeedback appends a card to the board. The category must be one of the
// five fixed labels.
func (s *FeedbackService) AddFeedback(ctx context.Context, boardID, category, content, userID string) (*domain.Board, error) {
	logCtx := logrus.WithFields(logrus.Fields{"board_id": boardID, "category": category})

	cat := domain.Category(category)
	if !cat.Valid() {
		logCtx.Warn("Rejected feedback with unknown category")
		return nil, ErrInvalidCategory
	}

	board, err := loadBoard(ctx, s.boards, boardID)
	if err != nil {
		return nil, err
	}
	feedback := board.AddFeedback(cat, content, userID)

	if err := s.saveAndRefresh(ctx, board); err != nil {
		return nil, err
	}
	s.events.Publish(dto.NewBoardEvent(dto.EventFeedbackAdded, board))
	logCtx.WithField("feedback_id", feedback.ID).Info("Feedback added")
	return board, nil
}

// UpdateFeedback shallow-merges the patch into one feedback card.
func (s *FeedbackService) UpdateFeedback(ctx context.Context, boardID, feedbackID string, patch FeedbackPatch) (*domain.Board, error) {
	logCtx := logrus.WithFields(logrus.Fields{"board_id": boardID, "feedback_id": feedbackID})

	board, err := loadBoard(ctx, s.boards, boardID)
	if err != nil {
		return nil, err
	}
	feedback := board.FindFeedback(feedbackID)
	if feedback == nil {
		return nil, ErrFeedbackNotFound
	}
	if patch.Type != nil {
		cat := domain.Category(*patch.Type)
		if !cat.Valid() {
			return nil, ErrInvalidCategory
		}
		feedback.Category = cat
	}
	if patch.Content != nil {
		feedback.Content = *patch.Content
	}

	if err := s.saveAndRefresh(ctx, board); err != nil {
		return nil, err
	}
	s.events.Publish(dto.NewBoardEvent(dto.EventFeedbackUpdated, board))
	logCtx.Info("Feedback updated")
	return board, nil
}

// DeleteFeedback removes one card and cascades to all of its comments.
func (s *FeedbackService) DeleteFeedback(ctx context.Context, boardID, feedbackID string) error {
	logCtx := logrus.WithFields(logrus.Fields{"board_id": boardID, "feedback_id": feedbackID})

	board, err := loadBoard(ctx, s.boards, boardID)
	if err != nil {
		return err
	}
	if !board.RemoveFeedback(feedbackID) {
		return ErrFeedbackNotFound
	}

	if err := s.saveAndRefresh(ctx, board); err != nil {
		return err
	}
	s.events.Publish(dto.NewDeletionEvent(dto.EventFeedbackDeleted, boardID, feedbackID, ""))
	logCtx.Info("Feedback deleted")
	return nil
}

// ReactToFeedback records a like or dislike on a card. A repeated
// same-polarity reaction from the same participant changes nothing and
// publishes nothing; the caller still receives the current board.
func (s *FeedbackService) ReactToFeedback(ctx context.Context, boardID, feedbackID, userID string, polarity domain.Polarity) (*domain.Board, error) {
	logCtx := logrus.WithFields(logrus.Fields{
		"board_id":       boardID,
		"feedback_id":    feedbackID,
		"participant_id": userID,
		"polarity":       polarity,
	})

	board, err := loadBoard(ctx, s.boards, boardID)
	if err != nil {
		return nil, err
	}
	feedback := board.FindFeedback(feedbackID)
	if feedback == nil {
		return nil, ErrFeedbackNotFound
	}

	if !feedback.React(userID, polarity) {
		logCtx.Debug("Duplicate reaction ignored")
		return board, nil
	}
	if err := s.saveAndRefresh(ctx, board); err != nil {
		return nil, err
	}
	s.events.Publish(dto.NewBoardEvent(reactionTopic(dto.EventFeedbackLiked, dto.EventFeedbackDisliked, polarity), board))
	logCtx.Info("Feedback reaction applied")
	return board, nil
}

// AddComment appends a comment to one feedback card.
func (s *FeedbackService) AddComment(ctx context.Context, boardID, feedbackID, text, userID string) (*domain.Board, error) {
	logCtx := logrus.WithFields(logrus.Fields{"board_id": boardID, "feedback_id": feedbackID})

	board, err := loadBoard(ctx, s.boards, boardID)
	if err != nil {
		return nil, err
	}
	feedback := board.FindFeedback(feedbackID)
	if feedback == nil {
		return nil, ErrFeedbackNotFound
	}
	comment := feedback.AddComment(text, userID)

	if err := s.saveAndRefresh(ctx, board); err != nil {
		return nil, err
	}
	s.events.Publish(dto.NewBoardEvent(dto.EventCommentAdded, board))
	logCtx.WithField("comment_id", comment.ID).Info("Comment added")
	return board, nil
}

// UpdateComment replaces the text of one comment.
func (s *FeedbackService) UpdateComment(ctx context.Context, boardID, feedbackID, commentID, text string) (*domain.Board, error) {
	logCtx := logrus.WithFields(logrus.Fields{"board_id": boardID, "feedback_id": feedbackID, "comment_id": commentID})

	board, err := loadBoard(ctx, s.boards, boardID)
	if err != nil {
		return nil, err
	}
	feedback := board.FindFeedback(feedbackID)
	if feedback == nil {
		return nil, ErrFeedbackNotFound
	}
	comment := feedback.FindComment(commentID)
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	comment.Text = text

	if err := s.saveAndRefresh(ctx, board); err != nil {
		return nil, err
	}
	s.events.Publish(dto.NewBoardEvent(dto.EventCommentUpdated, board))
	logCtx.Info("Comment updated")
	return board, nil
}

// DeleteComment removes one comment.
func (s *FeedbackService) DeleteComment(ctx context.Context, boardID, feedbackID, commentID string) error {
	logCtx := logrus.WithFields(logrus.Fields{"board_id": boardID, "feedback_id": feedbackID, "comment_id": commentID})

	board, err := loadBoard(ctx, s.boards, boardID)
	if err != nil {
		return err
	}
	feedback := board.FindFeedback(feedbackID)
	if feedback == nil {
		return ErrFeedbackNotFound
	}
	if !feedback.RemoveComment(commentID) {
		return ErrCommentNotFound
	}

	if err := s.saveAndRefresh(ctx, board); err != nil {
		return err
	}
	s.events.Publish(dto.NewDeletionEvent(dto.EventCommentDeleted, boardID, feedbackID, commentID))
	logCtx.Info("Comment deleted")
	return nil
}

// ReactToComment records a like or dislike on a comment; semantics match
// ReactToFeedback.
func (s *FeedbackService) ReactToComment(ctx context.Context, boardID, feedbackID, commentID, userID string, polarity domain.Polarity) (*domain.Board, error) {
	logCtx := logrus.WithFields(logrus.Fields{
		"board_id":       boardID,
		"feedback_id":    feedbackID,
		"comment_id":     commentID,
		"participant_id": userID,
		"polarity":       polarity,
	})

	board, err := loadBoard(ctx, s.boards, boardID)
	if err != nil {
		return nil, err
	}
	feedback := board.FindFeedback(feedbackID)
	if feedback == nil {
		return nil, ErrFeedbackNotFound
	}
	comment := feedback.FindComment(commentID)
	if comment == nil {
		return nil, ErrCommentNotFound
	}

	if !comment.React(userID, polarity) {
		logCtx.Debug("Duplicate reaction ignored")
		return board, nil
	}
	if err := s.saveAndRefresh(ctx, board); err != nil {
		return nil, err
	}
	s.events.Publish(dto.NewBoardEvent(reactionTopic(dto.EventCommentLiked, dto.EventCommentDisliked, polarity), board))
	logCtx.Info("Comment reaction applied")
	return board, nil
}

// saveAndRefresh persists the aggregate and refreshes the cache. Any save
// failure suppresses the broadcast entirely: viewers keep their last-known
// good state rather than seeing an unpersisted mutation.
func (s *FeedbackService) saveAndRefresh(ctx context.Context, board *domain.Board) error {
	if err := s.boards.Save(ctx, board); err != nil {
		logrus.WithError(err).WithField("board_id", board.ID).Error("Failed to save board aggregate")
		return ErrInternalServer
	}
	refreshCache(ctx, s.cache, board, s.cacheTTL)
	return nil
}

func reactionTopic(liked, disliked string, polarity domain.Polarity) string {
	if polarity == domain.PolarityDislike {
		return disliked
	}
	return liked
}
