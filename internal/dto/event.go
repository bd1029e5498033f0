package dto

import "github.com/vinay-ml/RetroSphere/internal/domain"

// Event topics carried over the broadcast channel. Every successful
// mutation publishes exactly one of these; delivery is best-effort with no
// replay, so late joiners resynchronize via a full fetch.
const (
	EventBoardCreated        = "boardCreated"
	EventBoardUpdated        = "boardUpdated"
	EventBoardDeleted        = "boardDeleted"
	EventFeedbackAdded       = "feedbackAdded"
	EventFeedbackUpdated     = "feedbackUpdated"
	EventFeedbackDeleted     = "feedbackDeleted"
	EventFeedbackLiked       = "feedbackLiked"
	EventFeedbackDisliked    = "feedbackDisliked"
	EventCommentAdded        = "commentAdded"
	EventCommentUpdated      = "commentUpdated"
	EventCommentDeleted      = "commentDeleted"
	EventCommentLiked        = "commentLiked"
	EventCommentDisliked     = "commentDisliked"
	EventMemberTyping        = "memberTyping"
	EventMemberStoppedTyping = "memberStoppedTyping"
)

// Event is the envelope handed to the broadcast channel. BoardID selects
// the room; Payload is the full board view, a deletion marker, or a
// participant id for typing events.
type Event struct {
	Name    string      `json:"event"`
	BoardID string      `json:"-"`
	Payload interface{} `json:"data"`
}

// DeletionMarker is the minimal payload for delete topics; viewers drop the
// referenced entity instead of replacing the whole board.
type DeletionMarker struct {
	BoardID    string `json:"boardId"`
	FeedbackID string `json:"feedbackId,omitempty"`
	CommentID  string `json:"commentId,omitempty"`
}

// NewBoardEvent wraps the post-mutation aggregate snapshot for broadcast.
func NewBoardEvent(name string, board *domain.Board) Event {
	return Event{Name: name, BoardID: board.ID, Payload: NewBoardView(board)}
}

// NewDeletionEvent wraps a deletion marker. feedbackID and commentID may be
// empty depending on the topic.
func NewDeletionEvent(name, boardID, feedbackID, commentID string) Event {
	return Event{
		Name:    name,
		BoardID: boardID,
		Payload: DeletionMarker{BoardID: boardID, FeedbackID: feedbackID, CommentID: commentID},
	}
}

// NewTypingEvent wraps a presence transition for one participant.
func NewTypingEvent(name, boardID, userID string) Event {
	return Event{Name: name, BoardID: boardID, Payload: userID}
}
