package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vinay-ml/RetroSphere/internal/dto"
	"github.com/vinay-ml/RetroSphere/internal/service"
)

// MemberHandler serves board membership.
type MemberHandler struct {
	membershipService *service.MembershipService
}

// NewMemberHandler creates a MemberHandler.
func NewMemberHandler(membershipService *service.MembershipService) *MemberHandler {
	if membershipService == nil {
		panic("MembershipService cannot be nil for MemberHandler")
	}
	return &MemberHandler{membershipService: membershipService}
}

// JoinRequest is the body of POST /join/:boardId.
type JoinRequest struct {
	Name string `json:"name" binding:"required"`
}

// JoinResponse is what the client stores locally after joining: the board
// context plus the participant id it will self-assert from then on.
type JoinResponse struct {
	Message     string           `json:"message"`
	ID          string           `json:"_id"`
	Title       string           `json:"title"`
	UserID      string           `json:"userId"`
	IsAnonymous bool             `json:"isAnonymous"`
	TeamMembers []dto.MemberView `json:"teamMembers"`
}

// Join handles POST /join/:boardId.
func (h *MemberHandler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Join: invalid input")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: name is required")
		return
	}

	board, member, err := h.membershipService.Join(c.Request.Context(), c.Param("boardId"), req.Name)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	members := make([]dto.MemberView, 0, len(board.TeamMembers))
	for _, m := range board.TeamMembers {
		members = append(members, dto.NewMemberView(m))
	}
	SuccessResponse(c, http.StatusOK, JoinResponse{
		Message:     "Joined the board successfully",
		ID:          board.ID,
		Title:       board.Title,
		UserID:      member.UserID,
		IsAnonymous: board.IsAnonymous,
		TeamMembers: members,
	})
}
