package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	httpapi "github.com/vinay-ml/RetroSphere/internal/handler/http"
	"github.com/vinay-ml/RetroSphere/internal/hub"
	"github.com/vinay-ml/RetroSphere/internal/service"
)

// WebSocketHandler upgrades HTTP requests into hub clients. A connection with
// a boardId query parameter joins that board's broadcast group; without one it
// joins the lobby and receives only board lifecycle events.
type WebSocketHandler struct {
	upgrader     websocket.Upgrader
	hub          *hub.Hub
	boardService *service.BoardService
}

// NewWebSocketHandler creates a WebSocketHandler.
func NewWebSocketHandler(h *hub.Hub, boardService *service.BoardService, allowedOrigin string) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	if boardService == nil {
		panic("BoardService cannot be nil for WebSocketHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" || allowedOrigin == "*" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return &WebSocketHandler{
		upgrader:     upgrader,
		hub:          h,
		boardService: boardService,
	}
}

// HandleConnection handles GET /ws?boardId=...&userId=...
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	boardID := c.Query("boardId")
	userID := c.Query("userId")
	logCtx := logrus.WithFields(logrus.Fields{
		"board_id":       boardID,
		"participant_id": userID,
	})

	// Lobby connections skip board validation; a board viewer must name a
	// board that actually exists.
	if boardID != "" {
		if _, err := h.boardService.GetBoard(c.Request.Context(), boardID); err != nil {
			logCtx.WithError(err).Warn("WS Handler: board validation failed")
			httpapi.HandleServiceError(c, err)
			return
		}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error response.
		logCtx.WithError(err).Error("WS Handler: failed to upgrade connection")
		return
	}

	client := hub.NewClient(h.hub, conn, boardID, userID)
	if !h.hub.QueueMessage(hub.Message{Type: "register", Client: client}) {
		logCtx.Error("WS Handler: hub message channel full, failed to register client")
		client.CloseConn()
		return
	}

	client.Run()
	logCtx.Info("WS Handler: client connected")
}
