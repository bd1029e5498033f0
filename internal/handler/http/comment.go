package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vinay-ml/RetroSphere/internal/domain"
	"github.com/vinay-ml/RetroSphere/internal/dto"
	"github.com/vinay-ml/RetroSphere/internal/service"
)

// CommentHandler serves the comment thread under one feedback card.
type CommentHandler struct {
	feedbackService *service.FeedbackService
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(feedbackService *service.FeedbackService) *CommentHandler {
	if feedbackService == nil {
		panic("FeedbackService cannot be nil for CommentHandler")
	}
	return &CommentHandler{feedbackService: feedbackService}
}

// AddCommentRequest is the body of POST .../feedback/:feedbackId/comments.
type AddCommentRequest struct {
	Text   string `json:"text" binding:"required"`
	UserID string `json:"userId"`
}

// Add handles POST /boards/:boardId/feedback/:feedbackId/comments.
func (h *CommentHandler) Add(c *gin.Context) {
	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.AddComment: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: text is required")
		return
	}

	board, err := h.feedbackService.AddComment(c.Request.Context(), c.Param("boardId"), c.Param("feedbackId"), req.Text, req.UserID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, dto.NewBoardView(board))
}

// UpdateCommentRequest is the body of PUT .../comments/:commentId.
type UpdateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// Update handles PUT /boards/:boardId/feedback/:feedbackId/comments/:commentId.
func (h *CommentHandler) Update(c *gin.Context) {
	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.UpdateComment: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: text is required")
		return
	}

	board, err := h.feedbackService.UpdateComment(c.Request.Context(), c.Param("boardId"), c.Param("feedbackId"), c.Param("commentId"), req.Text)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, dto.NewBoardView(board))
}

// Delete handles DELETE /boards/:boardId/feedback/:feedbackId/comments/:commentId.
func (h *CommentHandler) Delete(c *gin.Context) {
	err := h.feedbackService.DeleteComment(c.Request.Context(), c.Param("boardId"), c.Param("feedbackId"), c.Param("commentId"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// Like handles POST .../comments/:commentId/like.
func (h *CommentHandler) Like(c *gin.Context) {
	h.react(c, domain.PolarityLike)
}

// Dislike handles POST .../comments/:commentId/dislike.
func (h *CommentHandler) Dislike(c *gin.Context) {
	h.react(c, domain.PolarityDislike)
}

func (h *CommentHandler) react(c *gin.Context, polarity domain.Polarity) {
	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.ReactToComment: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: userId is required")
		return
	}

	board, err := h.feedbackService.ReactToComment(c.Request.Context(), c.Param("boardId"), c.Param("feedbackId"), c.Param("commentId"), req.UserID, polarity)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, dto.NewBoardView(board))
}
