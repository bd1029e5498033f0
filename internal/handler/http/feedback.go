package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vinay-ml/RetroSphere/internal/domain"
	"github.com/vinay-ml/RetroSphere/internal/dto"
	"github.com/vinay-ml/RetroSphere/internal/service"
)

// FeedbackHandler serves the feedback cards under one board, including the
// like/dislike endpoints guarded by the reaction dedup sets.
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
	boardService    *service.BoardService
}

// NewFeedbackHandler creates a FeedbackHandler.
func NewFeedbackHandler(feedbackService *service.FeedbackService, boardService *service.BoardService) *FeedbackHandler {
	if feedbackService == nil {
		panic("FeedbackService cannot be nil for FeedbackHandler")
	}
	if boardService == nil {
		panic("BoardService cannot be nil for FeedbackHandler")
	}
	return &FeedbackHandler{feedbackService: feedbackService, boardService: boardService}
}

// AddFeedbackRequest is the body of POST /boards/:boardId/feedback.
type AddFeedbackRequest struct {
	Type    string `json:"type" binding:"required"`
	Content string `json:"content"`
	UserID  string `json:"userId"`
}

// Add handles POST /boards/:boardId/feedback.
func (h *FeedbackHandler) Add(c *gin.Context) {
	var req AddFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.AddFeedback: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: type is required")
		return
	}

	board, err := h.feedbackService.AddFeedback(c.Request.Context(), c.Param("boardId"), req.Type, req.Content, req.UserID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, dto.NewBoardView(board))
}

// List handles GET /boards/:boardId/feedback, returning the flattened view
// with the board title and anonymity flag copied onto every card.
func (h *FeedbackHandler) List(c *gin.Context) {
	board, err := h.boardService.GetBoard(c.Request.Context(), c.Param("boardId"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, dto.FlattenFeedback(board))
}

// UpdateFeedbackRequest is the body of PUT /boards/:boardId/feedback/:feedbackId.
type UpdateFeedbackRequest struct {
	Type    *string `json:"type"`
	Content *string `json:"content"`
}

// Update handles PUT /boards/:boardId/feedback/:feedbackId.
func (h *FeedbackHandler) Update(c *gin.Context) {
	var req UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.UpdateFeedback: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	board, err := h.feedbackService.UpdateFeedback(c.Request.Context(), c.Param("boardId"), c.Param("feedbackId"), service.FeedbackPatch{
		Type:    req.Type,
		Content: req.Content,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, dto.NewBoardView(board))
}

// Delete handles DELETE /boards/:boardId/feedback/:feedbackId.
func (h *FeedbackHandler) Delete(c *gin.Context) {
	err := h.feedbackService.DeleteFeedback(c.Request.Context(), c.Param("boardId"), c.Param("feedbackId"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"message": "Feedback deleted successfully"})
}

// ReactionRequest is the body of the like/dislike endpoints.
type ReactionRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// Like handles POST /boards/:boardId/feedback/:feedbackId/like.
func (h *FeedbackHandler) Like(c *gin.Context) {
	h.react(c, domain.PolarityLike)
}

// Dislike handles POST /boards/:boardId/feedback/:feedbackId/dislike.
func (h *FeedbackHandler) Dislike(c *gin.Context) {
	h.react(c, domain.PolarityDislike)
}

func (h *FeedbackHandler) react(c *gin.Context, polarity domain.Polarity) {
	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.ReactToFeedback: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: userId is required")
		return
	}

	board, err := h.feedbackService.ReactToFeedback(c.Request.Context(), c.Param("boardId"), c.Param("feedbackId"), req.UserID, polarity)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, dto.NewBoardView(board))
}
