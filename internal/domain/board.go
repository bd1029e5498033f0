// Package domain defines the board aggregate: a Board exclusively owns its
// team members, feedback entries and (transitively) comments. The whole tree
// is stored and broadcast as one unit.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is the fixed set of feedback columns on a retro board.
type Category string

const (
	CategoryGood    Category = "Good"
	CategoryBad     Category = "Bad"
	CategoryIdeas   Category = "Ideas"
	CategoryActions Category = "Actions"
	CategoryKudos   Category = "Kudos"
)

// Categories lists every valid feedback category.
var Categories = []Category{CategoryGood, CategoryBad, CategoryIdeas, CategoryActions, CategoryKudos}

// Valid reports whether c is one of the five known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryGood, CategoryBad, CategoryIdeas, CategoryActions, CategoryKudos:
		return true
	}
	return false
}

// Polarity is the direction of a reaction.
type Polarity string

const (
	PolarityLike    Polarity = "like"
	PolarityDislike Polarity = "dislike"
)

// Member is a participant slot on a board, keyed by display name. UserID is
// assigned once on first join and preserved on re-join, even when two people
// collide under the same display name (accepted trust gap).
type Member struct {
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// Comment is a reply to a feedback entry. LikedBy/DislikedBy are the
// reaction dedup sets; they are persisted with the document but never
// exposed to viewers (the dto layer strips them).
type Comment struct {
	ID         string    `json:"_id"`
	Text       string    `json:"text"`
	UserID     string    `json:"userId,omitempty"`
	Likes      int       `json:"likes"`
	Dislikes   int       `json:"dislikes"`
	LikedBy    []string  `json:"likedBy"`
	DislikedBy []string  `json:"dislikedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Feedback is one card on the board, owned by exactly one Board.
type Feedback struct {
	ID         string    `json:"_id"`
	Category   Category  `json:"type"`
	Content    string    `json:"content"`
	UserID     string    `json:"userId,omitempty"`
	Likes      int       `json:"likes"`
	Dislikes   int       `json:"dislikes"`
	LikedBy    []string  `json:"likedBy"`
	DislikedBy []string  `json:"dislikedBy"`
	Comments   []Comment `json:"comments"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Board is the aggregate root. One database row per board holds the entire
// nested tree; feedback and comments have no storage of their own.
type Board struct {
	ID          string     `gorm:"primaryKey;size:191" json:"_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	IsAnonymous bool       `json:"isAnonymous"`
	TeamMembers []Member   `gorm:"serializer:json;type:json" json:"teamMembers"`
	Feedback    []Feedback `gorm:"serializer:json;type:json" json:"feedback"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime;index" json:"updatedAt"`
}

// NewBoard creates a board with its identifier computed and frozen up
// front. The id is never touched again, no matter how often the board is
// updated.
func NewBoard(title string, isAnonymous bool) *Board {
	now := time.Now()
	return &Board{
		ID:          NewBoardID(title, now),
		Title:       title,
		IsAnonymous: isAnonymous,
		TeamMembers: []Member{},
		Feedback:    []Feedback{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Join upserts a member by display name. An existing slot is refreshed in
// place; its UserID is kept when already assigned and generated only when
// absent. Returns the member occupying the slot after the upsert.
func (b *Board) Join(name string) *Member {
	for i := range b.TeamMembers {
		if b.TeamMembers[i].Name == name {
			if b.TeamMembers[i].UserID == "" {
				b.TeamMembers[i].UserID = NewParticipantID(name)
			}
			return &b.TeamMembers[i]
		}
	}
	b.TeamMembers = append(b.TeamMembers, Member{
		Name:   name,
		UserID: NewParticipantID(name),
	})
	return &b.TeamMembers[len(b.TeamMembers)-1]
}

// AddFeedback appends a new feedback entry and returns a pointer to it.
// Category validation is the caller's job.
func (b *Board) AddFeedback(category Category, content, userID string) *Feedback {
	b.Feedback = append(b.Feedback, Feedback{
		ID:         uuid.NewString(),
		Category:   category,
		Content:    content,
		UserID:     userID,
		LikedBy:    []string{},
		DislikedBy: []string{},
		Comments:   []Comment{},
		CreatedAt:  time.Now(),
	})
	return &b.Feedback[len(b.Feedback)-1]
}

// FindFeedback returns the feedback with the given id, or nil.
func (b *Board) FindFeedback(feedbackID string) *Feedback {
	for i := range b.Feedback {
		if b.Feedback[i].ID == feedbackID {
			return &b.Feedback[i]
		}
	}
	return nil
}

// RemoveFeedback deletes the feedback with the given id. All of its
// comments go with it; they have no life outside their parent.
func (b *Board) RemoveFeedback(feedbackID string) bool {
	for i := range b.Feedback {
		if b.Feedback[i].ID == feedbackID {
			b.Feedback = append(b.Feedback[:i], b.Feedback[i+1:]...)
			return true
		}
	}
	return false
}

// AddComment appends a comment to this feedback and returns a pointer to it.
func (f *Feedback) AddComment(text, userID string) *Comment {
	f.Comments = append(f.Comments, Comment{
		ID:         uuid.NewString(),
		Text:       text,
		UserID:     userID,
		LikedBy:    []string{},
		DislikedBy: []string{},
		CreatedAt:  time.Now(),
	})
	return &f.Comments[len(f.Comments)-1]
}

// FindComment returns the comment with the given id, or nil.
func (f *Feedback) FindComment(commentID string) *Comment {
	for i := range f.Comments {
		if f.Comments[i].ID == commentID {
			return &f.Comments[i]
		}
	}
	return nil
}

// RemoveComment deletes the comment with the given id.
func (f *Feedback) RemoveComment(commentID string) bool {
	for i := range f.Comments {
		if f.Comments[i].ID == commentID {
			f.Comments = append(f.Comments[:i], f.Comments[i+1:]...)
			return true
		}
	}
	return false
}

// React applies a reaction from the given participant. A participant
// contributes at most one like and at most one dislike per target over its
// lifetime; a repeat of the same polarity is a silent no-op. The two dedup
// sets are independent, so the same participant may both like and dislike
// one target. Reactions are never reversed.
func (f *Feedback) React(userID string, polarity Polarity) bool {
	if polarity == PolarityDislike {
		return applyReaction(&f.Dislikes, &f.DislikedBy, userID)
	}
	return applyReaction(&f.Likes, &f.LikedBy, userID)
}

// React applies a reaction to a comment; semantics match Feedback.React.
func (c *Comment) React(userID string, polarity Polarity) bool {
	if polarity == PolarityDislike {
		return applyReaction(&c.Dislikes, &c.DislikedBy, userID)
	}
	return applyReaction(&c.Likes, &c.LikedBy, userID)
}

func applyReaction(counter *int, dedup *[]string, userID string) bool {
	for _, id := range *dedup {
		if id == userID {
			return false
		}
	}
	*counter++
	*dedup = append(*dedup, userID)
	return true
}
