// Package dto holds the wire shapes shared by the REST responses and the
// websocket broadcasts. Views deliberately omit the likedBy/dislikedBy
// dedup sets: those exist only to enforce the reaction guard and are never
// shown to viewers.
package dto

import (
	"time"

	"github.com/vinay-ml/RetroSphere/internal/domain"
)

// MemberView mirrors domain.Member.
type MemberView struct {
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// CommentView is a comment as viewers see it.
type CommentView struct {
	ID        string    `json:"_id"`
	Text      string    `json:"text"`
	UserID    string    `json:"userId,omitempty"`
	Likes     int       `json:"likes"`
	Dislikes  int       `json:"dislikes"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedbackView is a feedback card as viewers see it.
type FeedbackView struct {
	ID        string        `json:"_id"`
	Type      string        `json:"type"`
	Content   string        `json:"content"`
	UserID    string        `json:"userId,omitempty"`
	Likes     int           `json:"likes"`
	Dislikes  int           `json:"dislikes"`
	Comments  []CommentView `json:"comments"`
	CreatedAt time.Time     `json:"createdAt"`
}

// BoardView is the full aggregate as broadcast to viewers after every
// mutation. Viewers replace their local copy wholesale.
type BoardView struct {
	ID          string         `json:"_id"`
	Title       string         `json:"title"`
	IsAnonymous bool           `json:"isAnonymous"`
	TeamMembers []MemberView   `json:"teamMembers"`
	Feedback    []FeedbackView `json:"feedback"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// BoardSummary is the projection returned by GET /boards/:id.
type BoardSummary struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	IsAnonymous bool         `json:"isAnonymous"`
	TeamMembers []MemberView `json:"teamMembers"`
}

// FeedbackDetail is the flattened, board-annotated element of
// GET /boards/:id/feedback: every card carries the board title and
// anonymity flag so the client can render a column without a second fetch.
type FeedbackDetail struct {
	FeedbackView
	IsAnonymous bool   `json:"isAnonymous"`
	Title       string `json:"title"`
}

// NewMemberView converts a domain member.
func NewMemberView(m domain.Member) MemberView {
	return MemberView{Name: m.Name, UserID: m.UserID}
}

// NewCommentView converts a domain comment, dropping the dedup sets.
func NewCommentView(c domain.Comment) CommentView {
	return CommentView{
		ID:        c.ID,
		Text:      c.Text,
		UserID:    c.UserID,
		Likes:     c.Likes,
		Dislikes:  c.Dislikes,
		CreatedAt: c.CreatedAt,
	}
}

// NewFeedbackView converts a domain feedback card, dropping the dedup sets.
func NewFeedbackView(f domain.Feedback) FeedbackView {
	comments := make([]CommentView, 0, len(f.Comments))
	for _, c := range f.Comments {
		comments = append(comments, NewCommentView(c))
	}
	return FeedbackView{
		ID:        f.ID,
		Type:      string(f.Category),
		Content:   f.Content,
		UserID:    f.UserID,
		Likes:     f.Likes,
		Dislikes:  f.Dislikes,
		Comments:  comments,
		CreatedAt: f.CreatedAt,
	}
}

// NewBoardView converts the whole aggregate.
func NewBoardView(b *domain.Board) BoardView {
	members := make([]MemberView, 0, len(b.TeamMembers))
	for _, m := range b.TeamMembers {
		members = append(members, NewMemberView(m))
	}
	feedback := make([]FeedbackView, 0, len(b.Feedback))
	for _, f := range b.Feedback {
		feedback = append(feedback, NewFeedbackView(f))
	}
	return BoardView{
		ID:          b.ID,
		Title:       b.Title,
		IsAnonymous: b.IsAnonymous,
		TeamMembers: members,
		Feedback:    feedback,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// NewBoardSummary builds the GET /boards/:id projection.
func NewBoardSummary(b *domain.Board) BoardSummary {
	members := make([]MemberView, 0, len(b.TeamMembers))
	for _, m := range b.TeamMembers {
		members = append(members, NewMemberView(m))
	}
	return BoardSummary{
		ID:          b.ID,
		Title:       b.Title,
		IsAnonymous: b.IsAnonymous,
		TeamMembers: members,
	}
}

// FlattenFeedback builds the annotated feedback list for one board.
func FlattenFeedback(b *domain.Board) []FeedbackDetail {
	details := make([]FeedbackDetail, 0, len(b.Feedback))
	for _, f := range b.Feedback {
		details = append(details, FeedbackDetail{
			FeedbackView: NewFeedbackView(f),
			IsAnonymous:  b.IsAnonymous,
			Title:        b.Title,
		})
	}
	return details
}
