package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vinay-ml/RetroSphere/internal/dto"
	"github.com/vinay-ml/RetroSphere/internal/service"
)

// BoardHandler serves the board resource tree root.
type BoardHandler struct {
	boardService *service.BoardService
}

// NewBoardHandler creates a BoardHandler.
func NewBoardHandler(boardService *service.BoardService) *BoardHandler {
	if boardService == nil {
		panic("BoardService cannot be nil for BoardHandler")
	}
	return &BoardHandler{boardService: boardService}
}

// CreateBoardRequest is the body of POST /boards.
type CreateBoardRequest struct {
	Title       string `json:"title" binding:"required"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// Create handles POST /boards.
func (h *BoardHandler) Create(c *gin.Context) {
	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateBoard: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: title is required")
		return
	}

	board, err := h.boardService.CreateBoard(c.Request.Context(), req.Title, req.IsAnonymous)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, gin.H{"boardId": board.ID})
}

// List handles GET /boards.
func (h *BoardHandler) List(c *gin.Context) {
	boards, err := h.boardService.ListBoards(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	views := make([]dto.BoardView, 0, len(boards))
	for i := range boards {
		views = append(views, dto.NewBoardView(&boards[i]))
	}
	SuccessResponse(c, http.StatusOK, views)
}

// Get handles GET /boards/:boardId, returning the summary projection the
// join screen renders.
func (h *BoardHandler) Get(c *gin.Context) {
	board, err := h.boardService.GetBoard(c.Request.Context(), c.Param("boardId"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, dto.NewBoardSummary(board))
}

// UpdateBoardRequest is the body of PUT /boards/:boardId. Only the mutable
// fields appear here; the id cannot be patched.
type UpdateBoardRequest struct {
	Title       *string `json:"title"`
	IsAnonymous *bool   `json:"isAnonymous"`
}

// Update handles PUT /boards/:boardId.
func (h *BoardHandler) Update(c *gin.Context) {
	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.UpdateBoard: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	board, err := h.boardService.UpdateBoard(c.Request.Context(), c.Param("boardId"), service.BoardPatch{
		Title:       req.Title,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, dto.NewBoardView(board))
}

// Delete handles DELETE /boards/:boardId.
func (h *BoardHandler) Delete(c *gin.Context) {
	if err := h.boardService.DeleteBoard(c.Request.Context(), c.Param("boardId")); err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"message": "Board deleted successfully"})
}
