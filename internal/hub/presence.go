package hub

import "sync"

// PresenceTracker is the ephemeral "who is currently typing" map. It lives
// entirely in process memory, outside the persisted aggregate: one instance
// is constructed at startup and injected into the hub. All access is
// mutex-guarded since signals arrive from many connection goroutines.
type PresenceTracker struct {
	mu     sync.Mutex
	typing map[string]*Client // participant id -> connection currently typing
}

// NewPresenceTracker creates an empty tracker.
func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{typing: make(map[string]*Client)}
}

// StartTyping records (or overwrites) the connection a participant is
// typing on.
func (p *PresenceTracker) StartTyping(userID string, client *Client) {
	if userID == "" || client == nil {
		return
	}
	p.mu.Lock()
	p.typing[userID] = client
	p.mu.Unlock()
}

// StopTyping clears a participant's typing state. Unknown ids are ignored.
func (p *PresenceTracker) StopTyping(userID string) {
	p.mu.Lock()
	delete(p.typing, userID)
	p.mu.Unlock()
}

// DropConnection sweeps every entry bound to the given connection and
// returns the affected participant ids. This is the only cleanup path for
// abrupt disconnects; there is no idle timeout.
func (p *PresenceTracker) DropConnection(client *Client) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var dropped []string
	for userID, c := range p.typing {
		if c == client {
			delete(p.typing, userID)
			dropped = append(dropped, userID)
		}
	}
	return dropped
}

// TypingCount reports how many participants are currently marked typing.
func (p *PresenceTracker) TypingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.typing)
}
