package hub

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is one websocket connection registered with the hub. boardID is
// empty for lobby viewers watching the board list.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	boardID string
	userID  string
	send    chan []byte
}

// NewClient creates a Client for an upgraded connection.
func NewClient(h *Hub, conn *websocket.Conn, boardID, userID string) *Client {
	return &Client{
		hub:     h,
		conn:    conn,
		boardID: boardID,
		userID:  userID,
		send:    make(chan []byte, 256),
	}
}

// Run starts the client's read and write pumps.
func (c *Client) Run() {
	go c.writePump()
	go c.readPump()
}

// BoardID returns the board this client is viewing ("" for the lobby).
func (c *Client) BoardID() string { return c.boardID }

// UserID returns the self-asserted participant id, possibly empty.
func (c *Client) UserID() string { return c.userID }

// CloseConn closes the underlying websocket connection.
func (c *Client) CloseConn() { c.conn.Close() }

// readPump forwards inbound typing signals to the hub. It exits on any read
// error and requests unregistration, which is what sweeps this connection's
// presence entries.
func (c *Client) readPump() {
	logCtx := logrus.WithFields(logrus.Fields{"board_id": c.boardID, "participant_id": c.userID})
	defer func() {
		// QueueMessage drops the unregister when the hub has already
		// stopped; the shared teardown path must not touch its channel.
		if !c.hub.QueueMessage(Message{Type: "unregister", Client: c}) {
			logCtx.Warn("Failed to queue unregister message to hub")
		}
		c.conn.Close()
		logCtx.Info("readPump exited, client unregistering")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				logCtx.Debug("WebSocket connection closed")
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}

		if !c.hub.QueueMessage(Message{Type: "signal", Client: c, RawData: message}) {
			logCtx.Warn("Dropped client signal, hub unavailable")
		}
	}
}

// writePump drains the send channel into the connection and keeps it alive
// with periodic pings.
func (c *Client) writePump() {
	logCtx := logrus.WithFields(logrus.Fields{"board_id": c.boardID, "participant_id": c.userID})
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		logCtx.Info("writePump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel during unregistration.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logCtx.WithError(err).Warn("Failed to write message to websocket")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logCtx.WithError(err).Warn("Failed to send ping message")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})
		}
	}
}
