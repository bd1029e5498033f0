// Package hub owns the realtime side of the application: the websocket
// client registry, the broadcast channel the services publish into, and the
// typing-presence tracker. Delivery is fire-and-forget; a viewer that
// connects after an event simply resynchronizes on its next full fetch.
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vinay-ml/RetroSphere/internal/dto"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Inbound traffic is only
	// small typing signals.
	maxMessageSize = 512
)

// Message is the unit passed through the hub's internal channel.
type Message struct {
	Type    string // "register", "unregister", "signal"
	Client  *Client
	RawData []byte // raw websocket payload, only for "signal"
}

// typingSignal is what connected clients send over the wire.
type typingSignal struct {
	Event  string `json:"event"`
	UserID string `json:"userId"`
}

// Hub maintains the set of connected viewers, grouped by board. Clients
// that watch the board list (no board id) form the lobby group and receive
// only board-level lifecycle events.
type Hub struct {
	messageChan chan Message

	// closeMu serializes QueueMessage sends against Stop so nothing can
	// write to messageChan once it is closed.
	closeMu sync.RWMutex
	closed  bool

	// boards maps a board id to its connected viewers. The lobby group is
	// stored under the empty key.
	boards map[string]map[*Client]bool
	mu     sync.RWMutex

	presence *PresenceTracker
}

// NewHub creates a Hub around the given presence tracker.
func NewHub(presence *PresenceTracker) *Hub {
	if presence == nil {
		panic("PresenceTracker cannot be nil for Hub")
	}
	return &Hub{
		messageChan: make(chan Message, 512),
		boards:      make(map[string]map[*Client]bool),
		presence:    presence,
	}
}

// Run drives the hub's event loop. It must run in its own goroutine and
// exits when the message channel is closed.
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running")

	for msg := range h.messageChan {
		switch msg.Type {
		case "register":
			h.registerClient(msg.Client)
		case "unregister":
			h.unregisterClient(msg.Client)
		case "signal":
			h.handleSignal(msg)
		default:
			log.Warnf("Received unknown hub message type: %s", msg.Type)
		}
	}
	log.Info("Hub is shutting down")
}

// Stop closes the hub's message channel, ending Run. Safe to call more
// than once; messages queued after Stop are dropped.
func (h *Hub) Stop() {
	h.closeMu.Lock()
	defer h.closeMu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.messageChan)
}

// QueueMessage enqueues a message without blocking. Returns false when the
// hub has stopped or its queue is full, in which case the message is
// dropped. Client goroutines may still be tearing down after Stop, so this
// must never write to the closed channel.
func (h *Hub) QueueMessage(msg Message) bool {
	h.closeMu.RLock()
	defer h.closeMu.RUnlock()
	if h.closed {
		logrus.WithField("message_type", msg.Type).Debug("Hub stopped, dropping message")
		return false
	}

	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithField("message_type", msg.Type).Warn("Hub message channel full, dropping message")
		return false
	}
}

// Publish implements service.Broadcaster. Board-scoped events go to the
// viewers of that board; board lifecycle events (created/deleted) also go
// to the lobby, whose viewers are not in any board group yet.
func (h *Hub) Publish(event dto.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).WithField("event", event.Name).Error("Failed to marshal broadcast event")
		return
	}

	switch event.Name {
	case dto.EventBoardCreated, dto.EventBoardDeleted:
		h.broadcastAll(payload, nil)
	default:
		h.broadcast(event.BoardID, payload, nil)
	}
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to register a nil client")
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"board_id":       client.BoardID(),
		"participant_id": client.UserID(),
	})

	h.mu.Lock()
	group, ok := h.boards[client.BoardID()]
	if !ok {
		group = make(map[*Client]bool)
		h.boards[client.BoardID()] = group
	}
	group[client] = true
	h.mu.Unlock()

	logCtx.Info("Client registered to hub")
}

func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"board_id":       client.BoardID(),
		"participant_id": client.UserID(),
	})

	h.mu.Lock()
	if group, ok := h.boards[client.BoardID()]; ok {
		if _, exists := group[client]; exists {
			delete(group, client)
			close(client.send)
			if len(group) == 0 {
				delete(h.boards, client.BoardID())
			}
		}
	}
	h.mu.Unlock()
	logCtx.Info("Client unregistered from hub")

	// A dropped connection is the only signal we get for a client that
	// never sent a clean stop: sweep its typing entries and tell the rest.
	for _, userID := range h.presence.DropConnection(client) {
		h.Publish(dto.NewTypingEvent(dto.EventMemberStoppedTyping, client.BoardID(), userID))
	}
}

// handleSignal processes an inbound typing signal from one client and
// relays it to every other viewer of the same board. Presence never touches
// the persisted aggregate.
func (h *Hub) handleSignal(msg Message) {
	logCtx := logrus.WithFields(logrus.Fields{
		"board_id":       msg.Client.BoardID(),
		"participant_id": msg.Client.UserID(),
	})

	var signal typingSignal
	if err := json.Unmarshal(msg.RawData, &signal); err != nil {
		logCtx.WithError(err).Warn("Dropping malformed client signal")
		return
	}
	userID := signal.UserID
	if userID == "" {
		userID = msg.Client.UserID()
	}
	if userID == "" {
		logCtx.Warn("Dropping typing signal without a participant id")
		return
	}

	switch signal.Event {
	case dto.EventMemberTyping:
		h.presence.StartTyping(userID, msg.Client)
	case dto.EventMemberStoppedTyping:
		h.presence.StopTyping(userID)
	default:
		logCtx.Warnf("Dropping client signal with unknown event: %s", signal.Event)
		return
	}

	payload, err := json.Marshal(dto.NewTypingEvent(signal.Event, msg.Client.BoardID(), userID))
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal typing event")
		return
	}
	// The sender already knows it is typing; everyone else gets told.
	h.broadcast(msg.Client.BoardID(), payload, msg.Client)
}

// broadcast sends a payload to every viewer of one board, optionally
// excluding the sender. Sends are non-blocking so one slow client can never
// stall the fan-out.
func (h *Hub) broadcast(boardID string, payload []byte, exclude *Client) {
	h.mu.RLock()
	group := h.boards[boardID]
	recipients := make([]*Client, 0, len(group))
	for client := range group {
		if client != exclude {
			recipients = append(recipients, client)
		}
	}
	h.mu.RUnlock()

	h.deliver(recipients, payload)
}

// broadcastAll sends a payload to every connected client across all groups.
func (h *Hub) broadcastAll(payload []byte, exclude *Client) {
	h.mu.RLock()
	var recipients []*Client
	for _, group := range h.boards {
		for client := range group {
			if client != exclude {
				recipients = append(recipients, client)
			}
		}
	}
	h.mu.RUnlock()

	h.deliver(recipients, payload)
}

func (h *Hub) deliver(recipients []*Client, payload []byte) {
	for _, client := range recipients {
		select {
		case client.send <- payload:
		default:
			// Full send buffer: skip this client and let its write pump
			// or disconnect handling deal with it.
			logrus.WithField("participant_id", client.UserID()).Warn("Client send channel full during broadcast, skipping")
		}
	}
}
